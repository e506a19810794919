package postgres

import (
	"context"
	"database/sql"
	"strings"

	"herp-husbandry/internal/domain/enclosures"
)

type EnclosuresRepo struct {
	db *sql.DB
}

func NewEnclosuresRepo(db *sql.DB) *EnclosuresRepo {
	return &EnclosuresRepo{db: db}
}

func (r *EnclosuresRepo) CreateEnclosure(ctx context.Context, e enclosures.Enclosure) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO enclosures (
			id, owner_user_id, name, description, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		e.ID,
		e.OwnerUserID,
		e.Name,
		e.Description,
		e.Notes,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EnclosuresRepo) UpdateEnclosure(ctx context.Context, e enclosures.Enclosure) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE enclosures
		SET
			name = $2,
			description = $3,
			notes = $4,
			updated_at = $5
		WHERE id = $1
	`,
		e.ID,
		e.Name,
		e.Description,
		e.Notes,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EnclosuresRepo) GetEnclosure(ctx context.Context, id string) (enclosures.Enclosure, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return enclosures.Enclosure{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, name, description, notes, created_at, updated_at
		FROM enclosures
		WHERE id = $1
	`, id)

	var e enclosures.Enclosure
	if err := row.Scan(
		&e.ID,
		&e.OwnerUserID,
		&e.Name,
		&e.Description,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return enclosures.Enclosure{}, ErrNotFound
		}
		return enclosures.Enclosure{}, err
	}
	return e, nil
}

func (r *EnclosuresRepo) ListEnclosuresByOwner(ctx context.Context, ownerUserID string) ([]enclosures.Enclosure, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_user_id, name, description, notes, created_at, updated_at
		FROM enclosures
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]enclosures.Enclosure, 0)
	for rows.Next() {
		var e enclosures.Enclosure
		if err := rows.Scan(
			&e.ID,
			&e.OwnerUserID,
			&e.Name,
			&e.Description,
			&e.Notes,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertSchedule reemplaza por (enclosure_id, type); el unique index de la
// tabla respalda el ON CONFLICT.
func (r *EnclosuresRepo) UpsertSchedule(ctx context.Context, s enclosures.CleaningSchedule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cleaning_schedules (
			id, enclosure_id, type, interval_days, reminder_lead_days,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (enclosure_id, type) DO UPDATE SET
			interval_days = EXCLUDED.interval_days,
			reminder_lead_days = EXCLUDED.reminder_lead_days,
			updated_at = EXCLUDED.updated_at
	`,
		s.ID,
		s.EnclosureID,
		s.Type,
		s.IntervalDays,
		s.ReminderLeadDays,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *EnclosuresRepo) ListSchedulesByEnclosure(ctx context.Context, enclosureID string) ([]enclosures.CleaningSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, enclosure_id, type, interval_days, reminder_lead_days, created_at, updated_at
		FROM cleaning_schedules
		WHERE enclosure_id = $1
		ORDER BY type ASC
	`, enclosureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]enclosures.CleaningSchedule, 0)
	for rows.Next() {
		var s enclosures.CleaningSchedule
		var typ string
		if err := rows.Scan(
			&s.ID,
			&s.EnclosureID,
			&typ,
			&s.IntervalDays,
			&s.ReminderLeadDays,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		s.Type = enclosures.CleaningType(typ)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *EnclosuresRepo) CreateCleaning(ctx context.Context, ev enclosures.CleaningEvent) error {
	supplies, err := toJSONB(ev.Supplies)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cleaning_events (
			id, enclosure_id, type, cleaned_at, supplies, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		ev.ID,
		ev.EnclosureID,
		ev.Type,
		ev.CleanedAt,
		supplies,
		ev.Notes,
		ev.CreatedAt,
	)
	return err
}

func (r *EnclosuresRepo) ListCleaningsByEnclosure(ctx context.Context, enclosureID string) ([]enclosures.CleaningEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, enclosure_id, type, cleaned_at, supplies, notes, created_at
		FROM cleaning_events
		WHERE enclosure_id = $1
		ORDER BY cleaned_at DESC
	`, enclosureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]enclosures.CleaningEvent, 0)
	for rows.Next() {
		var ev enclosures.CleaningEvent
		var typ string
		var supplies []byte
		if err := rows.Scan(
			&ev.ID,
			&ev.EnclosureID,
			&typ,
			&ev.CleanedAt,
			&supplies,
			&ev.Notes,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		ev.Type = enclosures.CleaningType(typ)
		if err := fromJSONB(supplies, &ev.Supplies); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

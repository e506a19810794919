package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"herp-husbandry/internal/domain/feeding"
)

type FeedingRepo struct {
	db *sql.DB
}

func NewFeedingRepo(db *sql.DB) *FeedingRepo {
	return &FeedingRepo{db: db}
}

func (r *FeedingRepo) CreateRoutine(ctx context.Context, routine feeding.FeedingRoutine) error {
	slots, err := toJSONB(routine.Slots)
	if err != nil {
		return err
	}
	weekdays, err := toJSONB(routine.Weekdays)
	if err != nil {
		return err
	}
	animalIDs, err := toJSONB(routine.AnimalIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO feeding_routines (
			id, owner_user_id, name, rule,
			slots, weekdays, interval_days,
			start_date, end_date,
			animal_ids, active,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		routine.ID,
		routine.OwnerUserID,
		routine.Name,
		routine.Rule,
		slots,
		weekdays,
		routine.IntervalDays,
		routine.StartDate,
		toNullTime(routine.EndDate),
		animalIDs,
		routine.Active,
		routine.CreatedAt,
		routine.UpdatedAt,
	)
	return err
}

func (r *FeedingRepo) UpdateRoutine(ctx context.Context, routine feeding.FeedingRoutine) error {
	slots, err := toJSONB(routine.Slots)
	if err != nil {
		return err
	}
	weekdays, err := toJSONB(routine.Weekdays)
	if err != nil {
		return err
	}
	animalIDs, err := toJSONB(routine.AnimalIDs)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE feeding_routines
		SET
			name = $2,
			rule = $3,
			slots = $4,
			weekdays = $5,
			interval_days = $6,
			start_date = $7,
			end_date = $8,
			animal_ids = $9,
			active = $10,
			updated_at = $11
		WHERE id = $1
	`,
		routine.ID,
		routine.Name,
		routine.Rule,
		slots,
		weekdays,
		routine.IntervalDays,
		routine.StartDate,
		toNullTime(routine.EndDate),
		animalIDs,
		routine.Active,
		routine.UpdatedAt,
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

func (r *FeedingRepo) GetRoutine(ctx context.Context, id string) (feeding.FeedingRoutine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return feeding.FeedingRoutine{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id, name, rule,
			slots, weekdays, interval_days,
			start_date, end_date,
			animal_ids, active,
			created_at, updated_at
		FROM feeding_routines
		WHERE id = $1
	`, id)

	routine, err := scanRoutine(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return feeding.FeedingRoutine{}, ErrNotFound
		}
		return feeding.FeedingRoutine{}, err
	}
	return routine, nil
}

func (r *FeedingRepo) ListRoutinesByOwner(ctx context.Context, ownerUserID string) ([]feeding.FeedingRoutine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id, name, rule,
			slots, weekdays, interval_days,
			start_date, end_date,
			animal_ids, active,
			created_at, updated_at
		FROM feeding_routines
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feeding.FeedingRoutine, 0)
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, routine)
	}
	return out, rows.Err()
}

func (r *FeedingRepo) CreateEvent(ctx context.Context, e feeding.FeedingEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeding_events (
			id, animal_id, routine_id,
			fed_at, prey_type, prey_size, prey_count,
			response, notes, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		e.ID,
		e.AnimalID,
		e.RoutineID,
		e.FedAt,
		e.PreyType,
		e.PreySize,
		e.PreyCount,
		e.Response,
		e.Notes,
		e.RecordedAt,
	)
	return err
}

func (r *FeedingRepo) ListEventsByAnimal(ctx context.Context, animalID string, filter feeding.EventFilter) ([]feeding.FeedingEvent, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, animal_id, routine_id,
			fed_at, prey_type, prey_size, prey_count,
			response, notes, recorded_at
		FROM feeding_events
		WHERE animal_id = $1
	`)

	args := []any{animalID}
	argN := 2

	if len(filter.Responses) > 0 {
		placeholders := make([]string, 0, len(filter.Responses))
		for _, resp := range filter.Responses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(resp))
			argN++
		}
		sb.WriteString(" AND response IN (" + strings.Join(placeholders, ",") + ")")
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND fed_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND fed_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	sb.WriteString(" ORDER BY fed_at DESC")
	if filter.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feeding.FeedingEvent, 0)
	for rows.Next() {
		var e feeding.FeedingEvent
		var resp string
		if err := rows.Scan(
			&e.ID,
			&e.AnimalID,
			&e.RoutineID,
			&e.FedAt,
			&e.PreyType,
			&e.PreySize,
			&e.PreyCount,
			&resp,
			&e.Notes,
			&e.RecordedAt,
		); err != nil {
			return nil, err
		}
		e.Response = feeding.Response(resp)
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanRoutine(row rowScanner) (feeding.FeedingRoutine, error) {
	var routine feeding.FeedingRoutine
	var rule string
	var slots, weekdays, animalIDs []byte
	var end sql.NullTime
	if err := row.Scan(
		&routine.ID,
		&routine.OwnerUserID,
		&routine.Name,
		&rule,
		&slots,
		&weekdays,
		&routine.IntervalDays,
		&routine.StartDate,
		&end,
		&animalIDs,
		&routine.Active,
		&routine.CreatedAt,
		&routine.UpdatedAt,
	); err != nil {
		return feeding.FeedingRoutine{}, err
	}

	routine.Rule = feeding.RuleType(rule)
	routine.EndDate = fromNullTime(end)
	if err := fromJSONB(slots, &routine.Slots); err != nil {
		return feeding.FeedingRoutine{}, err
	}
	if err := fromJSONB(weekdays, &routine.Weekdays); err != nil {
		return feeding.FeedingRoutine{}, err
	}
	if err := fromJSONB(animalIDs, &routine.AnimalIDs); err != nil {
		return feeding.FeedingRoutine{}, err
	}
	return routine, nil
}

package postgres

import (
	"context"
	"database/sql"
	"strings"

	"herp-husbandry/internal/domain/brumation"
)

type BrumationRepo struct {
	db *sql.DB
}

func NewBrumationRepo(db *sql.DB) *BrumationRepo {
	return &BrumationRepo{db: db}
}

func (r *BrumationRepo) Create(ctx context.Context, c brumation.BrumationCycle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO brumation_cycles (
			id, animal_id, owner_user_id, season,
			cooldown_start, full_brumation_start, warmup_start, brumation_end,
			status,
			pre_weight_grams, post_weight_grams,
			last_feeding_date, first_feeding_date,
			notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		c.ID,
		c.AnimalID,
		c.OwnerUserID,
		c.Season,
		toNullTime(c.CooldownStart),
		toNullTime(c.FullBrumationStart),
		toNullTime(c.WarmupStart),
		toNullTime(c.BrumationEnd),
		c.Status,
		toNullFloat(c.PreWeightGrams),
		toNullFloat(c.PostWeightGrams),
		toNullTime(c.LastFeedingDate),
		toNullTime(c.FirstFeedingDate),
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *BrumationRepo) Update(ctx context.Context, c brumation.BrumationCycle) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE brumation_cycles
		SET
			cooldown_start = $2,
			full_brumation_start = $3,
			warmup_start = $4,
			brumation_end = $5,
			status = $6,
			pre_weight_grams = $7,
			post_weight_grams = $8,
			last_feeding_date = $9,
			first_feeding_date = $10,
			notes = $11,
			updated_at = $12
		WHERE id = $1
	`,
		c.ID,
		toNullTime(c.CooldownStart),
		toNullTime(c.FullBrumationStart),
		toNullTime(c.WarmupStart),
		toNullTime(c.BrumationEnd),
		c.Status,
		toNullFloat(c.PreWeightGrams),
		toNullFloat(c.PostWeightGrams),
		toNullTime(c.LastFeedingDate),
		toNullTime(c.FirstFeedingDate),
		c.Notes,
		c.UpdatedAt,
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

func (r *BrumationRepo) GetByID(ctx context.Context, id string) (brumation.BrumationCycle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return brumation.BrumationCycle{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, animal_id, owner_user_id, season,
			cooldown_start, full_brumation_start, warmup_start, brumation_end,
			status,
			pre_weight_grams, post_weight_grams,
			last_feeding_date, first_feeding_date,
			notes, created_at, updated_at
		FROM brumation_cycles
		WHERE id = $1
	`, id)

	c, err := scanCycle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return brumation.BrumationCycle{}, ErrNotFound
		}
		return brumation.BrumationCycle{}, err
	}
	return c, nil
}

func (r *BrumationRepo) ListByAnimal(ctx context.Context, animalID string) ([]brumation.BrumationCycle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, animal_id, owner_user_id, season,
			cooldown_start, full_brumation_start, warmup_start, brumation_end,
			status,
			pre_weight_grams, post_weight_grams,
			last_feeding_date, first_feeding_date,
			notes, created_at, updated_at
		FROM brumation_cycles
		WHERE animal_id = $1
		ORDER BY created_at ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]brumation.BrumationCycle, 0)
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCycle(row rowScanner) (brumation.BrumationCycle, error) {
	var c brumation.BrumationCycle
	var status string
	var cooldown, full, warmup, end, lastFeed, firstFeed sql.NullTime
	var pre, post sql.NullFloat64
	if err := row.Scan(
		&c.ID,
		&c.AnimalID,
		&c.OwnerUserID,
		&c.Season,
		&cooldown,
		&full,
		&warmup,
		&end,
		&status,
		&pre,
		&post,
		&lastFeed,
		&firstFeed,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return brumation.BrumationCycle{}, err
	}
	c.Status = brumation.CycleStatus(status)
	c.CooldownStart = fromNullTime(cooldown)
	c.FullBrumationStart = fromNullTime(full)
	c.WarmupStart = fromNullTime(warmup)
	c.BrumationEnd = fromNullTime(end)
	c.PreWeightGrams = fromNullFloat(pre)
	c.PostWeightGrams = fromNullFloat(post)
	c.LastFeedingDate = fromNullTime(lastFeed)
	c.FirstFeedingDate = fromNullTime(firstFeed)
	return c, nil
}

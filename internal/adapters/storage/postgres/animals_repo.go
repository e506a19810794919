package postgres

import (
	"context"
	"database/sql"
	"strings"

	"herp-husbandry/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, owner_user_id,
			name, species, morph, sex,
			hatch_date, acquired_at, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		a.ID,
		a.OwnerUserID,
		a.Name,
		a.Species,
		a.Morph,
		a.Sex,
		toNullTime(a.HatchDate),
		toNullTime(a.AcquiredAt),
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			species = $3,
			morph = $4,
			sex = $5,
			hatch_date = $6,
			acquired_at = $7,
			notes = $8,
			updated_at = $9
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.Species,
		a.Morph,
		a.Sex,
		toNullTime(a.HatchDate),
		toNullTime(a.AcquiredAt),
		a.Notes,
		a.UpdatedAt,
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

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, species, morph, sex,
			hatch_date, acquired_at, notes,
			created_at, updated_at
		FROM animals
		WHERE id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, species, morph, sex,
			hatch_date, acquired_at, notes,
			created_at, updated_at
		FROM animals
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) CreateWeight(ctx context.Context, w animals.WeightRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_records (
			id, animal_id, weighed_at, grams, notes, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		w.ID,
		w.AnimalID,
		w.WeighedAt,
		w.Grams,
		w.Notes,
		w.RecordedAt,
	)
	return err
}

func (r *AnimalsRepo) ListWeightsByAnimal(ctx context.Context, animalID string) ([]animals.WeightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, weighed_at, grams, notes, recorded_at
		FROM weight_records
		WHERE animal_id = $1
		ORDER BY weighed_at ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.WeightRecord, 0)
	for rows.Next() {
		var w animals.WeightRecord
		if err := rows.Scan(&w.ID, &w.AnimalID, &w.WeighedAt, &w.Grams, &w.Notes, &w.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var species, sex string
	var hatch, acquired sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.OwnerUserID,
		&a.Name,
		&species,
		&a.Morph,
		&sex,
		&hatch,
		&acquired,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}
	a.Species = animals.Species(species)
	a.Sex = animals.Sex(sex)
	a.HatchDate = fromNullTime(hatch)
	a.AcquiredAt = fromNullTime(acquired)
	return a, nil
}

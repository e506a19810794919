package postgres

import (
	"context"
	"database/sql"
	"strings"

	"herp-husbandry/internal/domain/treatments"
)

type TreatmentsRepo struct {
	db *sql.DB
}

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

// CreatePlanWithDoses inserta plan y dosis en una transacción: un lector
// nunca observa el plan con la línea de tiempo a medias.
func (r *TreatmentsRepo) CreatePlanWithDoses(ctx context.Context, plan treatments.TreatmentPlan, doses []treatments.MedicationDose) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO treatment_plans (
			id, animal_id, owner_user_id,
			medication, dosage, dose_unit,
			frequency_hours, total_doses,
			start_at, end_at, status, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		plan.ID,
		plan.AnimalID,
		plan.OwnerUserID,
		plan.Medication,
		plan.Dosage,
		plan.DoseUnit,
		plan.FrequencyHours,
		toNullInt(plan.TotalDoses),
		plan.StartAt,
		toNullTime(plan.EndAt),
		plan.Status,
		plan.Notes,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO medication_doses (
			id, plan_id, seq, scheduled_at, status, administered_at, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range doses {
		if _, err := stmt.ExecContext(ctx,
			d.ID,
			d.PlanID,
			d.Seq,
			d.ScheduledAt,
			d.Status,
			toNullTime(d.AdministeredAt),
			d.Notes,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TreatmentsRepo) GetPlan(ctx context.Context, id string) (treatments.TreatmentPlan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return treatments.TreatmentPlan{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, animal_id, owner_user_id,
			medication, dosage, dose_unit,
			frequency_hours, total_doses,
			start_at, end_at, status, notes,
			created_at, updated_at
		FROM treatment_plans
		WHERE id = $1
	`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return treatments.TreatmentPlan{}, ErrNotFound
		}
		return treatments.TreatmentPlan{}, err
	}
	return plan, nil
}

func (r *TreatmentsRepo) UpdatePlan(ctx context.Context, plan treatments.TreatmentPlan) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE treatment_plans
		SET
			status = $2,
			end_at = $3,
			notes = $4,
			updated_at = $5
		WHERE id = $1
	`,
		plan.ID,
		plan.Status,
		toNullTime(plan.EndAt),
		plan.Notes,
		plan.UpdatedAt,
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

func (r *TreatmentsRepo) ListPlansByAnimal(ctx context.Context, animalID string) ([]treatments.TreatmentPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, animal_id, owner_user_id,
			medication, dosage, dose_unit,
			frequency_hours, total_doses,
			start_at, end_at, status, notes,
			created_at, updated_at
		FROM treatment_plans
		WHERE animal_id = $1
		ORDER BY created_at ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]treatments.TreatmentPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, plan)
	}
	return out, rows.Err()
}

func (r *TreatmentsRepo) GetDose(ctx context.Context, id string) (treatments.MedicationDose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return treatments.MedicationDose{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, plan_id, seq, scheduled_at, status, administered_at, notes
		FROM medication_doses
		WHERE id = $1
	`, id)

	dose, err := scanDose(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return treatments.MedicationDose{}, ErrNotFound
		}
		return treatments.MedicationDose{}, err
	}
	return dose, nil
}

func (r *TreatmentsRepo) UpdateDose(ctx context.Context, dose treatments.MedicationDose) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medication_doses
		SET
			status = $2,
			administered_at = $3,
			notes = $4
		WHERE id = $1
	`,
		dose.ID,
		dose.Status,
		toNullTime(dose.AdministeredAt),
		dose.Notes,
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

func (r *TreatmentsRepo) ListDosesByPlan(ctx context.Context, planID string) ([]treatments.MedicationDose, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plan_id, seq, scheduled_at, status, administered_at, notes
		FROM medication_doses
		WHERE plan_id = $1
		ORDER BY seq ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]treatments.MedicationDose, 0)
	for rows.Next() {
		dose, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dose)
	}
	return out, rows.Err()
}

func scanPlan(row rowScanner) (treatments.TreatmentPlan, error) {
	var plan treatments.TreatmentPlan
	var status string
	var total sql.NullInt64
	var end sql.NullTime
	if err := row.Scan(
		&plan.ID,
		&plan.AnimalID,
		&plan.OwnerUserID,
		&plan.Medication,
		&plan.Dosage,
		&plan.DoseUnit,
		&plan.FrequencyHours,
		&total,
		&plan.StartAt,
		&end,
		&status,
		&plan.Notes,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return treatments.TreatmentPlan{}, err
	}
	plan.Status = treatments.PlanStatus(status)
	plan.TotalDoses = fromNullInt(total)
	plan.EndAt = fromNullTime(end)
	return plan, nil
}

func scanDose(row rowScanner) (treatments.MedicationDose, error) {
	var dose treatments.MedicationDose
	var status string
	var administered sql.NullTime
	if err := row.Scan(
		&dose.ID,
		&dose.PlanID,
		&dose.Seq,
		&dose.ScheduledAt,
		&status,
		&administered,
		&dose.Notes,
	); err != nil {
		return treatments.MedicationDose{}, err
	}
	dose.Status = treatments.DoseStatus(status)
	dose.AdministeredAt = fromNullTime(administered)
	return dose, nil
}

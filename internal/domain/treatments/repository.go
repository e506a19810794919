package treatments

import "context"

type Repository interface {
	// CreatePlanWithDoses inserta el plan y TODAS sus dosis como una sola
	// escritura atómica: un lector nunca debe observar un plan con dosis
	// parciales.
	CreatePlanWithDoses(ctx context.Context, plan TreatmentPlan, doses []MedicationDose) error

	GetPlan(ctx context.Context, id string) (TreatmentPlan, error)
	UpdatePlan(ctx context.Context, plan TreatmentPlan) error
	ListPlansByAnimal(ctx context.Context, animalID string) ([]TreatmentPlan, error)

	GetDose(ctx context.Context, id string) (MedicationDose, error)
	UpdateDose(ctx context.Context, dose MedicationDose) error
	ListDosesByPlan(ctx context.Context, planID string) ([]MedicationDose, error)
}

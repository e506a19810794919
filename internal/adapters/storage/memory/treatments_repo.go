package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herp-husbandry/internal/domain/treatments"
)

type treatmentsRepo struct {
	mu    sync.RWMutex
	plans map[string]treatments.TreatmentPlan
	doses map[string]treatments.MedicationDose
}

func NewTreatmentsRepo() treatments.Repository {
	return &treatmentsRepo{
		plans: make(map[string]treatments.TreatmentPlan),
		doses: make(map[string]treatments.MedicationDose),
	}
}

// CreatePlanWithDoses inserta todo bajo un solo lock: ningún lector ve el
// plan sin su línea de tiempo completa.
func (r *treatmentsRepo) CreatePlanWithDoses(ctx context.Context, plan treatments.TreatmentPlan, doses []treatments.MedicationDose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(plan.ID) == "" {
		return errors.New("plan id required")
	}
	if _, exists := r.plans[plan.ID]; exists {
		return errors.New("plan already exists")
	}

	r.plans[plan.ID] = plan
	for _, d := range doses {
		r.doses[d.ID] = d
	}
	return nil
}

func (r *treatmentsRepo) GetPlan(ctx context.Context, id string) (treatments.TreatmentPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return treatments.TreatmentPlan{}, ErrNotFound
	}
	return p, nil
}

func (r *treatmentsRepo) UpdatePlan(ctx context.Context, plan treatments.TreatmentPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plans[plan.ID]; !exists {
		return ErrNotFound
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *treatmentsRepo) ListPlansByAnimal(ctx context.Context, animalID string) ([]treatments.TreatmentPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.TreatmentPlan, 0)
	for _, p := range r.plans {
		if p.AnimalID == animalID {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *treatmentsRepo) GetDose(ctx context.Context, id string) (treatments.MedicationDose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doses[id]
	if !ok {
		return treatments.MedicationDose{}, ErrNotFound
	}
	return d, nil
}

func (r *treatmentsRepo) UpdateDose(ctx context.Context, dose treatments.MedicationDose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.doses[dose.ID]; !exists {
		return ErrNotFound
	}
	r.doses[dose.ID] = dose
	return nil
}

func (r *treatmentsRepo) ListDosesByPlan(ctx context.Context, planID string) ([]treatments.MedicationDose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.MedicationDose, 0)
	for _, d := range r.doses {
		if d.PlanID == planID {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

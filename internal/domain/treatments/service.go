package treatments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herp-husbandry/internal/platform/logger"
	"herp-husbandry/internal/ports/reminders"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
)

type Service struct {
	repo  Repository
	sched reminders.Scheduler // puede ser nil (sin recordatorios)
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, sched reminders.Scheduler, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		sched: sched,
		log:   log,
		now:   time.Now,
	}
}

type CreatePlanInput struct {
	Medication     string
	Dosage         string
	DoseUnit       string
	FrequencyHours int
	TotalDoses     *int // nil = plan abierto
	StartAt        time.Time
	Notes          string
}

// CreatePlan genera el plan con su línea de tiempo completa de dosis y lo
// persiste en una sola escritura atómica. Después arma los recordatorios
// (best-effort: un fallo ahí no deshace el plan).
func (s *Service) CreatePlan(ctx context.Context, animalID, ownerUserID string, in CreatePlanInput) (TreatmentPlan, []MedicationDose, error) {
	if strings.TrimSpace(animalID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return TreatmentPlan{}, nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.Medication) == "" {
		return TreatmentPlan{}, nil, ErrInvalidInput
	}
	if in.FrequencyHours < 1 {
		return TreatmentPlan{}, nil, ErrInvalidInput
	}
	if in.TotalDoses != nil && *in.TotalDoses < 1 {
		return TreatmentPlan{}, nil, ErrInvalidInput
	}
	if in.StartAt.IsZero() {
		return TreatmentPlan{}, nil, ErrInvalidInput
	}

	now := s.now()
	plan := TreatmentPlan{
		ID:             uuid.NewString(),
		AnimalID:       animalID,
		OwnerUserID:    ownerUserID,
		Medication:     strings.TrimSpace(in.Medication),
		Dosage:         strings.TrimSpace(in.Dosage),
		DoseUnit:       strings.TrimSpace(in.DoseUnit),
		FrequencyHours: in.FrequencyHours,
		TotalDoses:     in.TotalDoses,
		StartAt:        in.StartAt,
		Status:         PlanActive,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	doses := GenerateDoses(plan)
	if len(doses) == 0 {
		return TreatmentPlan{}, nil, ErrInvalidInput
	}

	// El fin derivado solo aplica a planes acotados.
	if plan.TotalDoses != nil {
		last := doses[len(doses)-1].ScheduledAt
		plan.EndAt = &last
	}

	if err := s.repo.CreatePlanWithDoses(ctx, plan, doses); err != nil {
		return TreatmentPlan{}, nil, err
	}

	s.armDoseReminders(ctx, plan, doses)

	return plan, doses, nil
}

func (s *Service) GetPlan(ctx context.Context, id string) (TreatmentPlan, []MedicationDose, error) {
	plan, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return TreatmentPlan{}, nil, err
	}
	doses, err := s.repo.ListDosesByPlan(ctx, id)
	if err != nil {
		return TreatmentPlan{}, nil, err
	}
	return plan, doses, nil
}

func (s *Service) ListPlansByAnimal(ctx context.Context, animalID string) ([]TreatmentPlan, error) {
	return s.repo.ListPlansByAnimal(ctx, animalID)
}

// NextDose devuelve la próxima dosis scheduled del plan.
func (s *Service) NextDose(ctx context.Context, planID string) (MedicationDose, bool, error) {
	doses, err := s.repo.ListDosesByPlan(ctx, planID)
	if err != nil {
		return MedicationDose{}, false, err
	}
	d, ok := NextScheduledDose(doses)
	return d, ok, nil
}

// Administer marca la dosis como administrada (solo desde scheduled) y
// re-evalúa el plan: si se alcanzó el objetivo, pasa a completed.
func (s *Service) Administer(ctx context.Context, doseID string, notes string) (MedicationDose, error) {
	dose, err := s.repo.GetDose(ctx, doseID)
	if err != nil {
		return MedicationDose{}, err
	}
	if dose.Status != DoseScheduled {
		return MedicationDose{}, ErrInvalidTransition
	}

	now := s.now()
	dose.Status = DoseAdministered
	dose.AdministeredAt = &now
	if strings.TrimSpace(notes) != "" {
		dose.Notes = strings.TrimSpace(notes)
	}

	if err := s.repo.UpdateDose(ctx, dose); err != nil {
		return MedicationDose{}, err
	}
	s.cancelReminder(ctx, reminders.DoseID(dose.PlanID, dose.ID))

	// Transición automática a completed, nunca invocada por el usuario.
	plan, err := s.repo.GetPlan(ctx, dose.PlanID)
	if err != nil {
		return dose, nil
	}
	doses, err := s.repo.ListDosesByPlan(ctx, dose.PlanID)
	if err != nil {
		return dose, nil
	}
	if plan.Status == PlanActive && TargetReached(plan, doses) {
		plan.Status = PlanCompleted
		plan.UpdatedAt = now
		if err := s.repo.UpdatePlan(ctx, plan); err != nil {
			s.warn("plan completion update failed", map[string]any{"plan_id": plan.ID, "err": err.Error()})
		}
	}

	return dose, nil
}

// Skip marca la dosis como salteada (decisión del usuario). Terminal para la
// dosis, no afecta el estado del plan.
func (s *Service) Skip(ctx context.Context, doseID, reason string) (MedicationDose, error) {
	return s.closeDose(ctx, doseID, DoseSkipped, reason)
}

// MarkMissed marca la dosis como perdida (nadie la administró a tiempo).
func (s *Service) MarkMissed(ctx context.Context, doseID string) (MedicationDose, error) {
	return s.closeDose(ctx, doseID, DoseMissed, "")
}

func (s *Service) closeDose(ctx context.Context, doseID string, status DoseStatus, reason string) (MedicationDose, error) {
	dose, err := s.repo.GetDose(ctx, doseID)
	if err != nil {
		return MedicationDose{}, err
	}
	if dose.Status != DoseScheduled {
		return MedicationDose{}, ErrInvalidTransition
	}

	dose.Status = status
	if strings.TrimSpace(reason) != "" {
		dose.Notes = strings.TrimSpace(reason)
	}

	if err := s.repo.UpdateDose(ctx, dose); err != nil {
		return MedicationDose{}, err
	}
	s.cancelReminder(ctx, reminders.DoseID(dose.PlanID, dose.ID))
	return dose, nil
}

// Pause suspende un plan activo conservando sus dosis scheduled, y cancela
// los recordatorios pendientes (best-effort).
func (s *Service) Pause(ctx context.Context, planID string) (TreatmentPlan, error) {
	plan, err := s.transitionPlan(ctx, planID, PlanActive, PlanPaused, false)
	if err != nil {
		return TreatmentPlan{}, err
	}
	s.cancelDoseReminders(ctx, plan)
	return plan, nil
}

// Resume reactiva un plan pausado y re-arma los recordatorios de todas las
// dosis que siguen scheduled.
func (s *Service) Resume(ctx context.Context, planID string) (TreatmentPlan, error) {
	plan, err := s.transitionPlan(ctx, planID, PlanPaused, PlanActive, false)
	if err != nil {
		return TreatmentPlan{}, err
	}
	doses, err := s.repo.ListDosesByPlan(ctx, planID)
	if err == nil {
		s.armDoseReminders(ctx, plan, doses)
	}
	return plan, nil
}

// Discontinue termina el plan definitivamente: fija el fin en ahora y
// cancela recordatorios. Solo desde active.
func (s *Service) Discontinue(ctx context.Context, planID string) (TreatmentPlan, error) {
	plan, err := s.transitionPlan(ctx, planID, PlanActive, PlanDiscontinued, true)
	if err != nil {
		return TreatmentPlan{}, err
	}
	s.cancelDoseReminders(ctx, plan)
	return plan, nil
}

func (s *Service) transitionPlan(ctx context.Context, planID string, from, to PlanStatus, setEnd bool) (TreatmentPlan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return TreatmentPlan{}, err
	}
	if plan.Status != from {
		return TreatmentPlan{}, ErrInvalidTransition
	}

	now := s.now()
	plan.Status = to
	plan.UpdatedAt = now
	if setEnd {
		plan.EndAt = &now
	}

	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return TreatmentPlan{}, err
	}
	return plan, nil
}

// ---- recordatorios (best-effort; el write de estado es autoritativo) ----

func (s *Service) armDoseReminders(ctx context.Context, plan TreatmentPlan, doses []MedicationDose) {
	if s.sched == nil {
		return
	}
	for _, d := range doses {
		if d.Status != DoseScheduled {
			continue
		}
		at := d.ScheduledAt
		err := s.sched.Schedule(ctx, reminders.Reminder{
			ID:       reminders.DoseID(plan.ID, d.ID),
			FireAt:   &at,
			Category: reminders.CategoryMedication,
			Title:    "Medicación: " + plan.Medication,
			Body:     fmt.Sprintf("Dosis %d (%s %s)", d.Seq+1, plan.Dosage, plan.DoseUnit),
		})
		if err != nil {
			s.warn("dose reminder schedule failed", map[string]any{
				"plan_id": plan.ID,
				"dose_id": d.ID,
				"err":     err.Error(),
			})
		}
	}
}

func (s *Service) cancelDoseReminders(ctx context.Context, plan TreatmentPlan) {
	if s.sched == nil {
		return
	}
	doses, err := s.repo.ListDosesByPlan(ctx, plan.ID)
	if err != nil {
		s.warn("dose reminder cancel: list failed", map[string]any{"plan_id": plan.ID, "err": err.Error()})
		return
	}
	for _, d := range doses {
		if d.Status != DoseScheduled {
			continue
		}
		s.cancelReminder(ctx, reminders.DoseID(plan.ID, d.ID))
	}
}

func (s *Service) cancelReminder(ctx context.Context, id string) {
	if s.sched == nil {
		return
	}
	if err := s.sched.Cancel(ctx, id); err != nil {
		s.warn("reminder cancel failed", map[string]any{"reminder_id": id, "err": err.Error()})
	}
}

func (s *Service) warn(msg string, fields map[string]any) {
	if s.log == nil {
		return
	}
	s.log.Warn(msg, fields)
}

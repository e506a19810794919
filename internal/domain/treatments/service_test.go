package treatments

import (
	"context"
	"errors"
	"testing"
	"time"

	"herp-husbandry/internal/ports/reminders"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	plans map[string]TreatmentPlan
	doses map[string]MedicationDose
}

func newTestRepo() *testRepo {
	return &testRepo{
		plans: map[string]TreatmentPlan{},
		doses: map[string]MedicationDose{},
	}
}

func (r *testRepo) CreatePlanWithDoses(ctx context.Context, plan TreatmentPlan, doses []MedicationDose) error {
	r.plans[plan.ID] = plan
	for _, d := range doses {
		r.doses[d.ID] = d
	}
	return nil
}

func (r *testRepo) GetPlan(ctx context.Context, id string) (TreatmentPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return TreatmentPlan{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) UpdatePlan(ctx context.Context, plan TreatmentPlan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return errRepoNotFound
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *testRepo) ListPlansByAnimal(ctx context.Context, animalID string) ([]TreatmentPlan, error) {
	out := make([]TreatmentPlan, 0)
	for _, p := range r.plans {
		if p.AnimalID == animalID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) GetDose(ctx context.Context, id string) (MedicationDose, error) {
	d, ok := r.doses[id]
	if !ok {
		return MedicationDose{}, errRepoNotFound
	}
	return d, nil
}

func (r *testRepo) UpdateDose(ctx context.Context, dose MedicationDose) error {
	if _, ok := r.doses[dose.ID]; !ok {
		return errRepoNotFound
	}
	r.doses[dose.ID] = dose
	return nil
}

func (r *testRepo) ListDosesByPlan(ctx context.Context, planID string) ([]MedicationDose, error) {
	out := make([]MedicationDose, 0)
	for _, d := range r.doses {
		if d.PlanID == planID {
			out = append(out, d)
		}
	}
	return out, nil
}

// testScheduler registra cada llamada para verificar el pareo
// schedule/cancel.
type testScheduler struct {
	scheduled map[string]reminders.Reminder
	cancelled []string
}

func newTestScheduler() *testScheduler {
	return &testScheduler{scheduled: map[string]reminders.Reminder{}}
}

func (s *testScheduler) Schedule(ctx context.Context, r reminders.Reminder) error {
	s.scheduled[r.ID] = r
	return nil
}

func (s *testScheduler) Cancel(ctx context.Context, id string) error {
	s.cancelled = append(s.cancelled, id)
	delete(s.scheduled, id)
	return nil
}

func newTestService(repo Repository, sched reminders.Scheduler) *Service {
	svc := NewService(repo, sched, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	}
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestCreatePlanBounded(t *testing.T) {
	repo := newTestRepo()
	sched := newTestScheduler()
	svc := newTestService(repo, sched)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	plan, doses, err := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Enrofloxacina",
		Dosage:         "5",
		DoseUnit:       "mg/kg",
		FrequencyHours: 24,
		TotalDoses:     intPtr(7),
		StartAt:        start,
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if plan.Status != PlanActive {
		t.Fatalf("new plan status %q, want active", plan.Status)
	}
	if len(doses) != 7 {
		t.Fatalf("expected 7 doses, got %d", len(doses))
	}
	if plan.EndAt == nil || !plan.EndAt.Equal(start.Add(6*24*time.Hour)) {
		t.Fatalf("EndAt = %v, want last dose time", plan.EndAt)
	}
	// un recordatorio por dosis, con ID determinístico
	if len(sched.scheduled) != 7 {
		t.Fatalf("expected 7 scheduled reminders, got %d", len(sched.scheduled))
	}
	wantID := reminders.DoseID(plan.ID, doses[0].ID)
	if _, ok := sched.scheduled[wantID]; !ok {
		t.Fatalf("missing reminder %q", wantID)
	}
}

func TestCreatePlanOpenEndedHasNoDerivedEnd(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	plan, _, err := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Ivermectina",
		FrequencyHours: 48,
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if plan.EndAt != nil {
		t.Fatalf("open-ended plan must not derive an end, got %v", plan.EndAt)
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc := newTestService(newTestRepo(), nil)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   CreatePlanInput
	}{
		{"sin medicación", CreatePlanInput{FrequencyHours: 24, StartAt: start}},
		{"frecuencia cero", CreatePlanInput{Medication: "x", FrequencyHours: 0, StartAt: start}},
		{"objetivo cero", CreatePlanInput{Medication: "x", FrequencyHours: 24, TotalDoses: intPtr(0), StartAt: start}},
		{"sin inicio", CreatePlanInput{Medication: "x", FrequencyHours: 24}},
	}
	for _, tc := range cases {
		if _, _, err := svc.CreatePlan(context.Background(), "a", "o", tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestAdministerCompletesBoundedPlan(t *testing.T) {
	repo := newTestRepo()
	sched := newTestScheduler()
	svc := newTestService(repo, sched)

	plan, doses, err := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Metronidazol",
		FrequencyHours: 24,
		TotalDoses:     intPtr(3),
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	for i, d := range doses {
		got, err := svc.Administer(context.Background(), d.ID, "")
		if err != nil {
			t.Fatalf("Administer dose %d: %v", i, err)
		}
		if got.Status != DoseAdministered || got.AdministeredAt == nil {
			t.Fatalf("dose %d not administered: %+v", i, got)
		}
	}

	stored, _ := repo.GetPlan(context.Background(), plan.ID)
	if stored.Status != PlanCompleted {
		t.Fatalf("plan status %q after all doses, want completed", stored.Status)
	}
	// completed es terminal: ni pause ni discontinue aplican
	if _, err := svc.Pause(context.Background(), plan.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Pause on completed: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.Discontinue(context.Background(), plan.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Discontinue on completed: expected ErrInvalidTransition, got %v", err)
	}
}

func TestAdministerCancelsItsReminder(t *testing.T) {
	repo := newTestRepo()
	sched := newTestScheduler()
	svc := newTestService(repo, sched)

	plan, doses, _ := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Baytril",
		FrequencyHours: 24,
		TotalDoses:     intPtr(2),
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	if _, err := svc.Administer(context.Background(), doses[0].ID, "bien tolerada"); err != nil {
		t.Fatalf("Administer: %v", err)
	}

	id := reminders.DoseID(plan.ID, doses[0].ID)
	if _, still := sched.scheduled[id]; still {
		t.Fatalf("reminder %q should have been cancelled", id)
	}
	if _, remains := sched.scheduled[reminders.DoseID(plan.ID, doses[1].ID)]; !remains {
		t.Fatal("second dose reminder must remain scheduled")
	}
}

func TestSkipAndMissedAreTerminalForTheDose(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	_, doses, _ := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Panacur",
		FrequencyHours: 24,
		TotalDoses:     intPtr(2),
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	skipped, err := svc.Skip(context.Background(), doses[0].ID, "animal en muda")
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if skipped.Status != DoseSkipped || skipped.Notes != "animal en muda" {
		t.Fatalf("unexpected skipped dose: %+v", skipped)
	}
	if _, err := svc.Administer(context.Background(), doses[0].ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("administer after skip: expected ErrInvalidTransition, got %v", err)
	}

	missed, err := svc.MarkMissed(context.Background(), doses[1].ID)
	if err != nil {
		t.Fatalf("MarkMissed: %v", err)
	}
	if missed.Status != DoseMissed {
		t.Fatalf("dose status %q, want missed", missed.Status)
	}
	if _, err := svc.Skip(context.Background(), doses[1].ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("skip after missed: expected ErrInvalidTransition, got %v", err)
	}
}

func TestPauseResumeRearmsReminders(t *testing.T) {
	repo := newTestRepo()
	sched := newTestScheduler()
	svc := newTestService(repo, sched)

	plan, doses, _ := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Ceftazidima",
		FrequencyHours: 72,
		TotalDoses:     intPtr(3),
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	// una administrada, dos pendientes
	if _, err := svc.Administer(context.Background(), doses[0].ID, ""); err != nil {
		t.Fatalf("Administer: %v", err)
	}

	paused, err := svc.Pause(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if paused.Status != PlanPaused {
		t.Fatalf("status %q, want paused", paused.Status)
	}
	if len(sched.scheduled) != 0 {
		t.Fatalf("pause must cancel pending reminders, %d remain", len(sched.scheduled))
	}

	resumed, err := svc.Resume(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Status != PlanActive {
		t.Fatalf("status %q, want active", resumed.Status)
	}
	if len(sched.scheduled) != 2 {
		t.Fatalf("resume must re-arm only scheduled doses, got %d reminders", len(sched.scheduled))
	}
}

func TestDiscontinueSetsEndAndIsTerminal(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	plan, _, _ := svc.CreatePlan(context.Background(), "animal-1", "owner-1", CreatePlanInput{
		Medication:     "Amikacina",
		FrequencyHours: 24,
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	stopped, err := svc.Discontinue(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("Discontinue: %v", err)
	}
	if stopped.Status != PlanDiscontinued {
		t.Fatalf("status %q, want discontinued", stopped.Status)
	}
	if stopped.EndAt == nil || !stopped.EndAt.Equal(svc.now()) {
		t.Fatalf("EndAt = %v, want now", stopped.EndAt)
	}
	if _, err := svc.Resume(context.Background(), plan.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("resume after discontinue: expected ErrInvalidTransition, got %v", err)
	}
}

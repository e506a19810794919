package feeding

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	routines map[string]FeedingRoutine
	events   map[string][]FeedingEvent
}

func newTestRepo() *testRepo {
	return &testRepo{
		routines: map[string]FeedingRoutine{},
		events:   map[string][]FeedingEvent{},
	}
}

func (r *testRepo) CreateRoutine(ctx context.Context, rt FeedingRoutine) error {
	r.routines[rt.ID] = rt
	return nil
}

func (r *testRepo) UpdateRoutine(ctx context.Context, rt FeedingRoutine) error {
	if _, ok := r.routines[rt.ID]; !ok {
		return errRepoNotFound
	}
	r.routines[rt.ID] = rt
	return nil
}

func (r *testRepo) GetRoutine(ctx context.Context, id string) (FeedingRoutine, error) {
	rt, ok := r.routines[id]
	if !ok {
		return FeedingRoutine{}, errRepoNotFound
	}
	return rt, nil
}

func (r *testRepo) ListRoutinesByOwner(ctx context.Context, ownerUserID string) ([]FeedingRoutine, error) {
	out := make([]FeedingRoutine, 0)
	for _, rt := range r.routines {
		if rt.OwnerUserID == ownerUserID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *testRepo) CreateEvent(ctx context.Context, e FeedingEvent) error {
	r.events[e.AnimalID] = append(r.events[e.AnimalID], e)
	return nil
}

func (r *testRepo) ListEventsByAnimal(ctx context.Context, animalID string, filter EventFilter) ([]FeedingEvent, error) {
	return r.events[animalID], nil
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateRoutine_WeeklyRequiresWeekdays(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.CreateRoutine(context.Background(), "owner-1", CreateRoutineInput{
		Name:      "sin días",
		Rule:      RuleWeekly,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-1"},
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_CreateRoutine_EveryNDaysRequiresPositiveInterval(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.CreateRoutine(context.Background(), "owner-1", CreateRoutineInput{
		Name:         "cada cero",
		Rule:         RuleEveryNDays,
		IntervalDays: 0,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs:    []string{"a-1"},
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_CreateRoutine_RejectsUnknownRule(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.CreateRoutine(context.Background(), "owner-1", CreateRoutineInput{
		Name:      "rara",
		Rule:      RuleType("lunar"),
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-1"},
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_CreateRoutine_StartsActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rt, err := svc.CreateRoutine(context.Background(), "owner-1", CreateRoutineInput{
		Name:      "diaria",
		Rule:      RuleDaily,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-1"},
	})
	if err != nil {
		t.Fatalf("CreateRoutine error: %v", err)
	}
	if !rt.Active {
		t.Fatalf("new routine should start active")
	}
	if rt.CreatedAt != now || rt.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_UpdateRoutine_RevalidatesResultingRule(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	rt, err := svc.CreateRoutine(context.Background(), "owner-1", CreateRoutineInput{
		Name:      "diaria",
		Rule:      RuleDaily,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-1"},
	})
	if err != nil {
		t.Fatalf("CreateRoutine error: %v", err)
	}

	// Cambiar a weekly sin días debe fallar aunque weekdays no se toque.
	weekly := RuleWeekly
	_, err = svc.UpdateRoutine(context.Background(), rt.ID, UpdateRoutineInput{Rule: &weekly})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Upcoming_MergesRoutinesSorted(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC) // lunes
	svc.now = func() time.Time { return now }

	repo.routines["r-1"] = FeedingRoutine{
		ID: "r-1", OwnerUserID: "owner-1", Name: "tarde", Rule: RuleDaily,
		Slots:     []TimeSlot{{Hour: 18, Minute: 0}},
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-1"}, Active: true,
	}
	repo.routines["r-2"] = FeedingRoutine{
		ID: "r-2", OwnerUserID: "owner-1", Name: "mañana", Rule: RuleDaily,
		Slots:     []TimeSlot{{Hour: 8, Minute: 0}},
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-2"}, Active: true,
	}

	occs, err := svc.Upcoming(context.Background(), "owner-1", 2)
	if err != nil {
		t.Fatalf("Upcoming error: %v", err)
	}
	if len(occs) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(occs))
	}
	for i := 1; i < len(occs); i++ {
		if occs[i].At.Before(occs[i-1].At) {
			t.Fatalf("occurrences not sorted at %d", i)
		}
	}
	if occs[0].RoutineName != "mañana" {
		t.Fatalf("expected 8:00 routine first, got %s", occs[0].RoutineName)
	}
}

func TestService_Upcoming_SkipsInactive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC) }

	repo.routines["r-1"] = FeedingRoutine{
		ID: "r-1", OwnerUserID: "owner-1", Rule: RuleDaily,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		AnimalIDs: []string{"a-1"}, Active: false,
	}

	occs, err := svc.Upcoming(context.Background(), "owner-1", 7)
	if err != nil {
		t.Fatalf("Upcoming error: %v", err)
	}
	if len(occs) != 0 {
		t.Fatalf("inactive routine should emit nothing, got %d", len(occs))
	}
}

func TestService_RecordFeeding_RejectsUnknownResponse(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.RecordFeeding(context.Background(), "a-1", RecordFeedingInput{
		FedAt:    time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Response: Response("nibbled"),
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_HungerBasis_LastMealAndTrailingRefusals(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	feed := func(day int, resp Response) {
		repo.events["a-1"] = append(repo.events["a-1"], FeedingEvent{
			AnimalID: "a-1",
			FedAt:    time.Date(2024, 1, day, 18, 0, 0, 0, time.UTC),
			Response: resp,
		})
	}
	feed(1, ResponseStruckImmediately)
	feed(8, ResponseReluctant) // última comida efectiva
	feed(15, ResponseRefused)
	feed(22, ResponseRefused)

	lastMeal, refusals, err := svc.HungerBasis(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("HungerBasis error: %v", err)
	}
	if lastMeal == nil || lastMeal.Day() != 8 {
		t.Fatalf("expected last meal on day 8, got %v", lastMeal)
	}
	if refusals != 2 {
		t.Fatalf("expected 2 trailing refusals, got %d", refusals)
	}
}

func TestService_HungerBasis_RegurgitationBreaksRefusalRun(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	feed := func(day int, resp Response) {
		repo.events["a-1"] = append(repo.events["a-1"], FeedingEvent{
			AnimalID: "a-1",
			FedAt:    time.Date(2024, 1, day, 18, 0, 0, 0, time.UTC),
			Response: resp,
		})
	}
	feed(1, ResponseRefused)
	feed(8, ResponseRegurgitated)
	feed(15, ResponseRefused)

	lastMeal, refusals, err := svc.HungerBasis(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("HungerBasis error: %v", err)
	}
	if lastMeal != nil {
		t.Fatalf("regurgitated/refused only: expected no successful meal, got %v", lastMeal)
	}
	if refusals != 1 {
		t.Fatalf("regurgitation should break the run: expected 1, got %d", refusals)
	}
}

func TestService_HungerBasis_NoEvents(t *testing.T) {
	svc := NewService(newTestRepo())

	lastMeal, refusals, err := svc.HungerBasis(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("HungerBasis error: %v", err)
	}
	if lastMeal != nil || refusals != 0 {
		t.Fatalf("expected empty basis, got %v/%d", lastMeal, refusals)
	}
}

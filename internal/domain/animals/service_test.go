package animals

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
	byID    map[string]Animal
	weights map[string][]WeightRecord
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:    map[string]Animal{},
		weights: map[string][]WeightRecord{},
	}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) CreateWeight(ctx context.Context, w WeightRecord) error {
	r.weights[w.AnimalID] = append(r.weights[w.AnimalID], w)
	return nil
}

func (r *testRepo) ListWeightsByAnimal(ctx context.Context, animalID string) ([]WeightRecord, error) {
	return r.weights[animalID], nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsSexUnknown(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:    "Nagini",
		Species: "ball_python",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.Sex != SexUnknown {
		t.Fatalf("expected default sex unknown, got %s", a.Sex)
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Create_RequiresNameAndSpecies(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Species: "boa_constrictor"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput without name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex"}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput without species, got %v", err)
	}
}

func TestService_RecordWeight_RejectsNonPositiveGrams(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.RecordWeight(context.Background(), "a-1", RecordWeightInput{
		WeighedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Grams:     0,
	})
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_TrendSince_UsesBaselineBeforeWindow(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	add := func(day int, grams float64) {
		repo.weights["a-1"] = append(repo.weights["a-1"], WeightRecord{
			AnimalID:  "a-1",
			WeighedAt: time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC),
			Grams:     grams,
		})
	}
	add(1, 1000) // antes de la ventana: baseline
	add(20, 950)
	add(28, 880)

	since := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	trend, pct, ok, err := svc.TrendSince(context.Background(), "a-1", since)
	if err != nil {
		t.Fatalf("TrendSince error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok")
	}
	if trend != TrendLosing {
		t.Fatalf("expected losing, got %s", trend)
	}
	if pct > -11 || pct < -13 {
		t.Fatalf("expected ~-12%%, got %.2f", pct)
	}
}

func TestService_TrendSince_NotEnoughData(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	repo.weights["a-1"] = []WeightRecord{{
		AnimalID:  "a-1",
		WeighedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Grams:     500,
	}}

	_, _, ok, err := svc.TrendSince(context.Background(), "a-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("TrendSince error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false with a single record")
	}
}

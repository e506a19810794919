package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herp-husbandry/internal/domain/animals"
)

var (
	ErrNotFound = errors.New("not found")
)

type animalsRepo struct {
	mu      sync.RWMutex
	byID    map[string]animals.Animal
	weights map[string][]animals.WeightRecord
}

func NewAnimalsRepo() animals.Repository {
	return &animalsRepo{
		byID:    make(map[string]animals.Animal),
		weights: make(map[string][]animals.WeightRecord),
	}
}

func (r *animalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalsRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *animalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *animalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *animalsRepo) CreateWeight(ctx context.Context, w animals.WeightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(w.AnimalID) == "" {
		return errors.New("animal id required")
	}
	r.weights[w.AnimalID] = append(r.weights[w.AnimalID], w)
	return nil
}

func (r *animalsRepo) ListWeightsByAnimal(ctx context.Context, animalID string) ([]animals.WeightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.weights[animalID]
	out := make([]animals.WeightRecord, len(src))
	copy(out, src)

	sort.Slice(out, func(i, j int) bool {
		return out[i].WeighedAt.Before(out[j].WeighedAt)
	})
	return out, nil
}

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herp-husbandry/internal/domain/brumation"
)

type brumationRepo struct {
	mu   sync.RWMutex
	byID map[string]brumation.BrumationCycle
}

func NewBrumationRepo() brumation.Repository {
	return &brumationRepo{
		byID: make(map[string]brumation.BrumationCycle),
	}
}

func (r *brumationRepo) Create(ctx context.Context, c brumation.BrumationCycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("cycle id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("cycle already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *brumationRepo) Update(ctx context.Context, c brumation.BrumationCycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *brumationRepo) GetByID(ctx context.Context, id string) (brumation.BrumationCycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return brumation.BrumationCycle{}, ErrNotFound
	}
	return c, nil
}

func (r *brumationRepo) ListByAnimal(ctx context.Context, animalID string) ([]brumation.BrumationCycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]brumation.BrumationCycle, 0)
	for _, c := range r.byID {
		if c.AnimalID == animalID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

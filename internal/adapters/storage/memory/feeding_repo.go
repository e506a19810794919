package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herp-husbandry/internal/domain/feeding"
)

type feedingRepo struct {
	mu       sync.RWMutex
	routines map[string]feeding.FeedingRoutine
	events   []feeding.FeedingEvent
}

func NewFeedingRepo() feeding.Repository {
	return &feedingRepo{
		routines: make(map[string]feeding.FeedingRoutine),
	}
}

func (r *feedingRepo) CreateRoutine(ctx context.Context, routine feeding.FeedingRoutine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(routine.ID) == "" {
		return errors.New("routine id required")
	}
	if _, exists := r.routines[routine.ID]; exists {
		return errors.New("routine already exists")
	}
	r.routines[routine.ID] = routine
	return nil
}

func (r *feedingRepo) UpdateRoutine(ctx context.Context, routine feeding.FeedingRoutine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routines[routine.ID]; !exists {
		return ErrNotFound
	}
	r.routines[routine.ID] = routine
	return nil
}

func (r *feedingRepo) GetRoutine(ctx context.Context, id string) (feeding.FeedingRoutine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routine, ok := r.routines[id]
	if !ok {
		return feeding.FeedingRoutine{}, ErrNotFound
	}
	return routine, nil
}

func (r *feedingRepo) ListRoutinesByOwner(ctx context.Context, ownerUserID string) ([]feeding.FeedingRoutine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feeding.FeedingRoutine, 0)
	for _, routine := range r.routines {
		if routine.OwnerUserID == ownerUserID {
			out = append(out, routine)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *feedingRepo) CreateEvent(ctx context.Context, e feeding.FeedingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	r.events = append(r.events, e)
	return nil
}

func (r *feedingRepo) ListEventsByAnimal(ctx context.Context, animalID string, filter feeding.EventFilter) ([]feeding.FeedingEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feeding.FeedingEvent, 0)
	for _, e := range r.events {
		if e.AnimalID != animalID {
			continue
		}
		if filter.From != nil && e.FedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.FedAt.After(*filter.To) {
			continue
		}
		if len(filter.Responses) > 0 && !containsResponse(filter.Responses, e.Response) {
			continue
		}
		out = append(out, e)
	}

	// más recientes primero, igual que la consulta SQL
	sort.Slice(out, func(i, j int) bool {
		return out[i].FedAt.After(out[j].FedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func containsResponse(rs []feeding.Response, want feeding.Response) bool {
	for _, r := range rs {
		if r == want {
			return true
		}
	}
	return false
}

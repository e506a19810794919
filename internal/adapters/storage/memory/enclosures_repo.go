package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herp-husbandry/internal/domain/enclosures"
)

type enclosuresRepo struct {
	mu        sync.RWMutex
	byID      map[string]enclosures.Enclosure
	schedules map[string]enclosures.CleaningSchedule // key: enclosureID + "/" + type
	cleanings []enclosures.CleaningEvent
}

func NewEnclosuresRepo() enclosures.Repository {
	return &enclosuresRepo{
		byID:      make(map[string]enclosures.Enclosure),
		schedules: make(map[string]enclosures.CleaningSchedule),
	}
}

func (r *enclosuresRepo) CreateEnclosure(ctx context.Context, e enclosures.Enclosure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("enclosure id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("enclosure already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *enclosuresRepo) UpdateEnclosure(ctx context.Context, e enclosures.Enclosure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *enclosuresRepo) GetEnclosure(ctx context.Context, id string) (enclosures.Enclosure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return enclosures.Enclosure{}, ErrNotFound
	}
	return e, nil
}

func (r *enclosuresRepo) ListEnclosuresByOwner(ctx context.Context, ownerUserID string) ([]enclosures.Enclosure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]enclosures.Enclosure, 0)
	for _, e := range r.byID {
		if e.OwnerUserID == ownerUserID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *enclosuresRepo) UpsertSchedule(ctx context.Context, s enclosures.CleaningSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.EnclosureID) == "" {
		return errors.New("enclosure id required")
	}
	r.schedules[s.EnclosureID+"/"+string(s.Type)] = s
	return nil
}

func (r *enclosuresRepo) ListSchedulesByEnclosure(ctx context.Context, enclosureID string) ([]enclosures.CleaningSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]enclosures.CleaningSchedule, 0)
	for _, s := range r.schedules {
		if s.EnclosureID == enclosureID {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (r *enclosuresRepo) CreateCleaning(ctx context.Context, ev enclosures.CleaningEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(ev.ID) == "" {
		return errors.New("cleaning id required")
	}
	r.cleanings = append(r.cleanings, ev)
	return nil
}

func (r *enclosuresRepo) ListCleaningsByEnclosure(ctx context.Context, enclosureID string) ([]enclosures.CleaningEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]enclosures.CleaningEvent, 0)
	for _, ev := range r.cleanings {
		if ev.EnclosureID == enclosureID {
			out = append(out, ev)
		}
	}

	// más recientes primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CleanedAt.After(out[j].CleanedAt)
	})
	return out, nil
}

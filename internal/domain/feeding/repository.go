package feeding

import (
	"context"
	"time"
)

type Repository interface {
	CreateRoutine(ctx context.Context, r FeedingRoutine) error
	UpdateRoutine(ctx context.Context, r FeedingRoutine) error
	GetRoutine(ctx context.Context, id string) (FeedingRoutine, error)
	ListRoutinesByOwner(ctx context.Context, ownerUserID string) ([]FeedingRoutine, error)

	CreateEvent(ctx context.Context, e FeedingEvent) error
	ListEventsByAnimal(ctx context.Context, animalID string, filter EventFilter) ([]FeedingEvent, error)
}

type EventFilter struct {
	From      *time.Time
	To        *time.Time
	Responses []Response
	Limit     int
}

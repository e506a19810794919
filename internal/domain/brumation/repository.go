package brumation

import "context"

type Repository interface {
	Create(ctx context.Context, c BrumationCycle) error
	Update(ctx context.Context, c BrumationCycle) error
	GetByID(ctx context.Context, id string) (BrumationCycle, error)
	ListByAnimal(ctx context.Context, animalID string) ([]BrumationCycle, error)
}

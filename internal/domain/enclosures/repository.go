package enclosures

import "context"

type Repository interface {
	CreateEnclosure(ctx context.Context, e Enclosure) error
	UpdateEnclosure(ctx context.Context, e Enclosure) error
	GetEnclosure(ctx context.Context, id string) (Enclosure, error)
	ListEnclosuresByOwner(ctx context.Context, ownerUserID string) ([]Enclosure, error)

	// UpsertSchedule reemplaza la configuración existente para el par
	// (recinto, tipo de limpieza) si la hay.
	UpsertSchedule(ctx context.Context, s CleaningSchedule) error
	ListSchedulesByEnclosure(ctx context.Context, enclosureID string) ([]CleaningSchedule, error)

	CreateCleaning(ctx context.Context, ev CleaningEvent) error
	ListCleaningsByEnclosure(ctx context.Context, enclosureID string) ([]CleaningEvent, error)
}

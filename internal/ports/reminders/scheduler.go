package reminders

import (
	"context"
	"time"
)

// Category agrupa recordatorios por módulo de origen.
type Category string

const (
	CategoryMedication Category = "medication"
	CategoryCleaning   Category = "cleaning"
	CategoryBrumation  Category = "brumation"
)

// Reminder es lo único que el motor sabe de una notificación: cuándo y qué.
// El cómo se entrega es problema del adapter.
type Reminder struct {
	ID       string     // determinístico: re-agendar con el mismo ID es idempotente
	FireAt   *time.Time // nil = inmediato
	Category Category
	Title    string
	Body     string
}

// Scheduler agenda o cancela recordatorios locales. Los adapters aplican su
// propia política de reintentos; el motor nunca reintenta (el write de estado
// es autoritativo, los recordatorios son best-effort).
type Scheduler interface {
	Schedule(ctx context.Context, r Reminder) error
	Cancel(ctx context.Context, id string) error
}

// IDs determinísticos por entidad, para que re-agendar reemplace en vez de
// duplicar.

func DoseID(planID, doseID string) string {
	return "dose:" + planID + ":" + doseID
}

func CleaningID(enclosureID, cleaningType string) string {
	return "cleaning:" + enclosureID + ":" + cleaningType
}

func BrumationID(cycleID string) string {
	return "brumation:" + cycleID
}

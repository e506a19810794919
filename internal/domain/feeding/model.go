package feeding

import "time"

// TimeSlot es un horario del día dentro de una rutina (ej: 18:00 "cena").
type TimeSlot struct {
	Hour   int
	Minute int
	Label  string
}

// FeedingRoutine es una regla de recurrencia con horarios y animales asociados.
type FeedingRoutine struct {
	ID          string
	OwnerUserID string

	Name string
	Rule RuleType

	Slots    []TimeSlot
	Weekdays []int // 1=domingo..7=sábado; solo weekly/custom

	IntervalDays int // solo every_n_days

	StartDate time.Time
	EndDate   *time.Time

	AnimalIDs []string
	Active    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeedingEvent es el registro histórico de un intento de alimentación.
type FeedingEvent struct {
	ID        string
	AnimalID  string
	RoutineID string // opcional: alimentación fuera de rutina => vacío

	FedAt time.Time

	PreyType  string // "rat", "mouse", "cricket", ...
	PreySize  string // "small", "medium", "adult", ...
	PreyCount int

	Response Response
	Notes    string

	RecordedAt time.Time
}

// ScheduledFeeding es una ocurrencia concreta derivada de una rutina.
// Valor de solo lectura, se recalcula en cada consulta.
type ScheduledFeeding struct {
	RoutineID   string
	RoutineName string

	At        time.Time
	SlotLabel string

	AnimalIDs []string
}

// HungerDuration es el estado de ayuno derivado de un animal.
// Nunca se persiste.
type HungerDuration struct {
	DaysSinceLastMeal   *int // nil = sin comidas efectivas registradas
	ConsecutiveRefusals int

	Level    HungerLevel
	Advisory string
}

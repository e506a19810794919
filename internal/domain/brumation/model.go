package brumation

import "time"

// CycleStatus es la bandera de ciclo de vida que controla el usuario. Es
// independiente de la fase derivada por fechas: solo cancelar o confirmar
// el cierre la tocan de forma significativa.
type CycleStatus string

const (
	StatusPlanned   CycleStatus = "planned"
	StatusCooldown  CycleStatus = "cooldown"
	StatusActive    CycleStatus = "active"
	StatusWarmup    CycleStatus = "warmup"
	StatusComplete  CycleStatus = "complete"
	StatusCancelled CycleStatus = "cancelled"
)

// Phase es el estado derivado del calendario, nunca almacenado.
type Phase string

const (
	PhaseNone     Phase = "none"
	PhasePlanned  Phase = "planned"
	PhaseCooldown Phase = "cooldown"
	PhaseActive   Phase = "active"
	PhaseWarmup   Phase = "warmup"
	PhaseComplete Phase = "complete"
)

// BrumationCycle es el registro por animal y por temporada. Las cuatro
// fechas límite son opcionales hasta que se programan, y deben mantenerse
// ordenadas: cooldownStart ≤ fullBrumationStart ≤ warmupStart ≤ brumationEnd.
// Pesos y fechas de alimentación son metadata contextual, no entradas de la
// máquina de fases.
type BrumationCycle struct {
	ID          string
	AnimalID    string
	OwnerUserID string
	Season      string // p.ej. "2024-2025"

	CooldownStart      *time.Time
	FullBrumationStart *time.Time
	WarmupStart        *time.Time
	BrumationEnd       *time.Time

	Status CycleStatus

	PreWeightGrams   *float64
	PostWeightGrams  *float64
	LastFeedingDate  *time.Time // última comida antes del enfriamiento
	FirstFeedingDate *time.Time // primera comida tras el despertar

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PhaseReport es el valor derivado que consume la presentación; se recalcula
// en cada consulta.
type PhaseReport struct {
	CycleID            string
	Phase              Phase
	DaysInPhase        *int // nil cuando no hay fecha de referencia
	DaysUntilNextPhase *int // nil si la próxima fecha no está programada o el ciclo terminó
	Progress           float64
}

package enclosures

import "time"

// CleaningType distingue las tareas de limpieza concurrentes de un mismo
// recinto; cada una lleva su propio intervalo y su propio estado derivado.
type CleaningType string

const (
	CleaningSpotClean            CleaningType = "spot_clean"
	CleaningSubstrateChange      CleaningType = "substrate_change"
	CleaningDeepClean            CleaningType = "deep_clean"
	CleaningWaterChange          CleaningType = "water_change"
	CleaningBioactiveMaintenance CleaningType = "bioactive_maintenance"
	CleaningCustom               CleaningType = "custom"
)

func validCleaningType(t CleaningType) bool {
	switch t {
	case CleaningSpotClean, CleaningSubstrateChange, CleaningDeepClean,
		CleaningWaterChange, CleaningBioactiveMaintenance, CleaningCustom:
		return true
	default:
		return false
	}
}

type Enclosure struct {
	ID          string
	OwnerUserID string
	Name        string
	Description string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CleaningSchedule configura una tarea de limpieza del recinto: cada cuántos
// días toca y con cuánta anticipación recordar.
type CleaningSchedule struct {
	ID               string
	EnclosureID      string
	Type             CleaningType
	IntervalDays     int
	ReminderLeadDays int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CleaningEvent registra una limpieza efectivamente hecha.
type CleaningEvent struct {
	ID          string
	EnclosureID string
	Type        CleaningType
	CleanedAt   time.Time
	Supplies    []string
	Notes       string
	CreatedAt   time.Time
}

type Urgency string

const (
	UrgencyOnTrack Urgency = "on_track"
	UrgencyDueSoon Urgency = "due_soon"
	UrgencyOverdue Urgency = "overdue"
)

// CleaningStatus es un valor derivado, nunca persistido: se recalcula en
// cada consulta a partir del último evento y el intervalo configurado.
type CleaningStatus struct {
	EnclosureID        string
	EnclosureName      string
	Type               CleaningType
	LastCleanedAt      *time.Time
	IntervalDays       int
	DaysSinceLastClean *int // nil = nunca limpiado
	DaysUntilDue       int  // negativo = magnitud del atraso; 0 si nunca limpiado (solo display)
	Urgency            Urgency
}

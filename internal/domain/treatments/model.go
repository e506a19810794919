package treatments

import "time"

// PlanStatus es el ciclo de vida de un plan de tratamiento.
// @Enum active, paused, discontinued, completed
type PlanStatus string

const (
	PlanActive       PlanStatus = "active"
	PlanPaused       PlanStatus = "paused"
	PlanDiscontinued PlanStatus = "discontinued"
	PlanCompleted    PlanStatus = "completed"
)

// DoseStatus es el estado de una dosis individual. Una dosis sale de
// scheduled exactamente una vez.
// @Enum scheduled, administered, skipped, missed
type DoseStatus string

const (
	DoseScheduled    DoseStatus = "scheduled"
	DoseAdministered DoseStatus = "administered"
	DoseSkipped      DoseStatus = "skipped"
	DoseMissed       DoseStatus = "missed"
)

// TreatmentPlan es una prescripción con su línea de tiempo de dosis.
type TreatmentPlan struct {
	ID          string
	AnimalID    string
	OwnerUserID string

	Medication string
	Dosage     string // "0.3", texto libre + unidad
	DoseUnit   string // "ml", "mg", etc.

	FrequencyHours int
	TotalDoses     *int // nil = plan abierto (sin objetivo)

	StartAt time.Time
	EndAt   *time.Time // derivado: última dosis generada; nil en plan abierto

	Status PlanStatus
	Notes  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MedicationDose es una administración puntual agendada.
type MedicationDose struct {
	ID     string
	PlanID string
	Seq    int // orden de generación; desempata ScheduledAt

	ScheduledAt time.Time

	Status         DoseStatus
	AdministeredAt *time.Time
	Notes          string
}

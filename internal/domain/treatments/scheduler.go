package treatments

import (
	"time"

	"github.com/google/uuid"
)

// Generación y consulta de la línea de tiempo de dosis. Funciones puras
// salvo por los IDs; la atomicidad del insert (plan + todas las dosis) la
// garantiza el repositorio.

// openEndedWindowDays: los planes sin objetivo de dosis generan una ventana
// inicial de 30 días (decisión registrada en DESIGN.md).
const openEndedWindowDays = 30

// GenerateDoses produce la secuencia completa de dosis del plan:
// start + k·frequencyHours, todas scheduled, estrictamente crecientes.
// Para planes acotados genera exactamente *TotalDoses; para abiertos, las
// que entren en la ventana inicial (mínimo una).
func GenerateDoses(plan TreatmentPlan) []MedicationDose {
	if plan.FrequencyHours < 1 {
		return nil
	}

	count := 0
	if plan.TotalDoses != nil {
		count = *plan.TotalDoses
	} else {
		count = (openEndedWindowDays * 24) / plan.FrequencyHours
		if count < 1 {
			count = 1
		}
	}
	if count < 1 {
		return nil
	}

	step := time.Duration(plan.FrequencyHours) * time.Hour
	out := make([]MedicationDose, 0, count)
	for k := 0; k < count; k++ {
		out = append(out, MedicationDose{
			ID:          uuid.NewString(),
			PlanID:      plan.ID,
			Seq:         k,
			ScheduledAt: plan.StartAt.Add(time.Duration(k) * step),
			Status:      DoseScheduled,
		})
	}
	return out
}

// NextScheduledDose devuelve la dosis scheduled más próxima. Empates (no
// deberían darse: la generación es monótona) se resuelven por Seq.
func NextScheduledDose(doses []MedicationDose) (MedicationDose, bool) {
	var next MedicationDose
	found := false
	for _, d := range doses {
		if d.Status != DoseScheduled {
			continue
		}
		if !found {
			next = d
			found = true
			continue
		}
		if d.ScheduledAt.Before(next.ScheduledAt) {
			next = d
			continue
		}
		if d.ScheduledAt.Equal(next.ScheduledAt) && d.Seq < next.Seq {
			next = d
		}
	}
	return next, found
}

// IsOverdue: la dosis sigue scheduled y su horario ya pasó.
func IsOverdue(d MedicationDose, now time.Time) bool {
	return d.Status == DoseScheduled && d.ScheduledAt.Before(now)
}

// AdministeredCount cuenta dosis efectivamente administradas.
func AdministeredCount(doses []MedicationDose) int {
	n := 0
	for _, d := range doses {
		if d.Status == DoseAdministered {
			n++
		}
	}
	return n
}

// TargetReached: el plan es acotado y ya se administraron todas las dosis
// objetivo. Dispara la transición automática a completed.
func TargetReached(plan TreatmentPlan, doses []MedicationDose) bool {
	return plan.TotalDoses != nil && AdministeredCount(doses) >= *plan.TotalDoses
}

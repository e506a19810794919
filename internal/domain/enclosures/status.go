package enclosures

import (
	"sort"
	"time"

	"herp-husbandry/internal/platform/dateutil"
)

// Umbrales de urgencia sobre la fracción de intervalo transcurrido.
const dueSoonFraction = 0.8

// ComputeStatus deriva el estado de una tarea de limpieza a partir del
// último evento registrado y el intervalo configurado.
//
// Nunca limpiado => overdue, con daysSince nulo y daysUntilDue en 0 (el 0 es
// solo para mostrar, no entra en la lógica de urgencia).
func ComputeStatus(sched CleaningSchedule, enclosureName string, lastCleanedAt *time.Time, now time.Time) CleaningStatus {
	st := CleaningStatus{
		EnclosureID:   sched.EnclosureID,
		EnclosureName: enclosureName,
		Type:          sched.Type,
		LastCleanedAt: lastCleanedAt,
		IntervalDays:  sched.IntervalDays,
	}

	if lastCleanedAt == nil {
		st.Urgency = UrgencyOverdue
		return st
	}

	days := dateutil.DaysBetween(*lastCleanedAt, now)
	if days < 0 {
		days = 0 // limpieza registrada en el futuro
	}
	st.DaysSinceLastClean = &days
	st.DaysUntilDue = sched.IntervalDays - days

	if sched.IntervalDays < 1 {
		st.Urgency = UrgencyOverdue
		return st
	}

	p := float64(days) / float64(sched.IntervalDays)
	switch {
	case p >= 1.0:
		st.Urgency = UrgencyOverdue
	case p >= dueSoonFraction:
		st.Urgency = UrgencyDueSoon
	default:
		st.Urgency = UrgencyOnTrack
	}
	return st
}

// SortStatuses ordena para alertar: primero lo nunca-limpiado, después
// ascendente por días hasta vencer (lo más atrasado arriba).
func SortStatuses(statuses []CleaningStatus) {
	sort.SliceStable(statuses, func(i, j int) bool {
		a, b := statuses[i], statuses[j]
		if (a.DaysSinceLastClean == nil) != (b.DaysSinceLastClean == nil) {
			return a.DaysSinceLastClean == nil
		}
		return a.DaysUntilDue < b.DaysUntilDue
	})
}

package feeding

import (
	"fmt"
	"sort"
	"time"

	"herp-husbandry/internal/platform/dateutil"
)

// Motor de recurrencia: funciones puras sobre (rutina, fecha). Todas las
// comparaciones son a granularidad de día; la hora entra solo al componer
// la ocurrencia con sus slots.

// nextScanDays limita el escaneo hacia adelante de NextOccurrence.
const nextScanDays = 30

// IsDue responde si la rutina corresponde al día de date.
// Reglas desconocidas o mal formadas devuelven false (fail closed): mejor
// un recordatorio de menos que uno espurio.
func IsDue(r FeedingRoutine, date time.Time) bool {
	if !r.Active {
		return false
	}

	day := dateutil.StartOfDay(date)
	count := dateutil.DaysBetween(r.StartDate, day)
	if count < 0 {
		return false
	}
	if r.EndDate != nil && dateutil.DaysBetween(*r.EndDate, day) > 0 {
		return false
	}

	switch r.Rule {
	case RuleDaily:
		return true
	case RuleEveryOtherDay:
		return count%2 == 0
	case RuleWeekly, RuleCustom:
		// custom hereda el comportamiento de weekly a propósito.
		wd := dateutil.WeekdayNumber(day)
		for _, d := range r.Weekdays {
			if d == wd {
				return true
			}
		}
		return false
	case RuleEveryNDays:
		if r.IntervalDays < 1 {
			return false
		}
		return count%r.IntervalDays == 0
	default:
		return false
	}
}

// NextOccurrence escanea día a día desde from (inclusive) hasta nextScanDays
// y devuelve la primera ocurrencia con el slot más temprano configurado.
// ok=false si no hay día debido dentro de la ventana.
func NextOccurrence(r FeedingRoutine, from time.Time) (ScheduledFeeding, bool) {
	start := dateutil.StartOfDay(from)
	for i := 0; i < nextScanDays; i++ {
		day := dateutil.AddDays(start, i)
		if !IsDue(r, day) {
			continue
		}

		slots := sortedSlots(r.Slots)
		if len(slots) == 0 {
			return occurrence(r, day, TimeSlot{}, false), true
		}
		return occurrence(r, day, slots[0], true), true
	}
	return ScheduledFeeding{}, false
}

// UpcomingOccurrences expande la rutina sobre los próximos days días
// calendario (hoy inclusive), una ocurrencia por slot, ordenadas por fecha.
func UpcomingOccurrences(r FeedingRoutine, from time.Time, days int) []ScheduledFeeding {
	if days <= 0 {
		days = 7
	}

	start := dateutil.StartOfDay(from)
	out := make([]ScheduledFeeding, 0)

	for i := 0; i < days; i++ {
		day := dateutil.AddDays(start, i)
		if !IsDue(r, day) {
			continue
		}

		slots := sortedSlots(r.Slots)
		if len(slots) == 0 {
			out = append(out, occurrence(r, day, TimeSlot{}, false))
			continue
		}
		for _, sl := range slots {
			out = append(out, occurrence(r, day, sl, true))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

func occurrence(r FeedingRoutine, day time.Time, slot TimeSlot, withSlot bool) ScheduledFeeding {
	at := day
	label := ""
	if withSlot {
		at = dateutil.At(day, slot.Hour, slot.Minute)
		label = slotLabel(slot)
	}
	return ScheduledFeeding{
		RoutineID:   r.ID,
		RoutineName: r.Name,
		At:          at,
		SlotLabel:   label,
		AnimalIDs:   r.AnimalIDs,
	}
}

func sortedSlots(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Minute < out[j].Minute
	})
	return out
}

func slotLabel(s TimeSlot) string {
	if s.Label != "" {
		return s.Label
	}
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

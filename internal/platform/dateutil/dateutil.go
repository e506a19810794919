package dateutil

import (
	"math"
	"time"
)

// Package dateutil concentra la aritmética de fechas a granularidad de día.
// Los motores de recurrencia y de dosis comparan siempre días completos,
// nunca instantes; cualquier off-by-one vive (o muere) aquí.

// StartOfDay recorta la hora del día conservando la zona horaria de t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays avanza n días calendario (maneja DST vía AddDate).
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween devuelve días completos entre a y b (b - a) a granularidad de
// día. Redondea sobre horas para que los días de 23/25h por DST no corran la
// cuenta. Negativo si b es anterior a a.
func DaysBetween(a, b time.Time) int {
	from := StartOfDay(a)
	to := StartOfDay(b)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// SameDay compara dos instantes a granularidad de día.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekdayNumber mapea time.Weekday al esquema 1=domingo..7=sábado que usan
// las rutinas semanales.
func WeekdayNumber(t time.Time) int {
	return int(t.Weekday()) + 1
}

// At combina la fecha de day con una hora/minuto concretos.
func At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

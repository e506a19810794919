package brumation

import (
	"time"

	"herp-husbandry/internal/platform/dateutil"
)

// Duraciones estimadas de fase, en días, para el cálculo de progreso.
// Aproximaciones de manejo general, no por especie.
const (
	cooldownDurationDays = 14
	activeDurationDays   = 60
	warmupDurationDays   = 14
)

// CurrentPhase deriva la fase evaluando las fechas límite en cascada, de la
// más avanzada a la más temprana. No existe una operación de "avanzar": la
// fase cambia sola cuando el tiempo real cruza una fecha almacenada.
//
// Un ciclo cerrado por el usuario (cancelled o complete confirmado) deja de
// reportar fase derivada: la bandera almacenada es lo que se muestra.
func CurrentPhase(c BrumationCycle, now time.Time) Phase {
	if c.Status == StatusCancelled || c.Status == StatusComplete {
		return PhaseNone
	}

	switch {
	case c.BrumationEnd != nil && !now.Before(*c.BrumationEnd):
		return PhaseComplete
	case c.WarmupStart != nil && !now.Before(*c.WarmupStart):
		return PhaseWarmup
	case c.FullBrumationStart != nil && !now.Before(*c.FullBrumationStart):
		return PhaseActive
	case c.CooldownStart != nil && !now.Before(*c.CooldownStart):
		return PhaseCooldown
	default:
		return PhasePlanned
	}
}

// phaseStart devuelve la fecha límite que abre la fase dada, si está
// programada. planned no tiene referencia de inicio.
func phaseStart(c BrumationCycle, p Phase) *time.Time {
	switch p {
	case PhaseCooldown:
		return c.CooldownStart
	case PhaseActive:
		return c.FullBrumationStart
	case PhaseWarmup:
		return c.WarmupStart
	case PhaseComplete:
		return c.BrumationEnd
	default:
		return nil
	}
}

// nextBoundary devuelve la fecha que abriría la fase siguiente. Nula si no
// está programada o si ya no hay fase siguiente.
func nextBoundary(c BrumationCycle, p Phase) *time.Time {
	switch p {
	case PhasePlanned:
		return c.CooldownStart
	case PhaseCooldown:
		return c.FullBrumationStart
	case PhaseActive:
		return c.WarmupStart
	case PhaseWarmup:
		return c.BrumationEnd
	default:
		return nil
	}
}

// DaysInPhase cuenta días enteros desde el inicio de la fase actual. Nulo
// para planned (sin referencia) o si la fecha relevante no está cargada.
func DaysInPhase(c BrumationCycle, now time.Time) *int {
	start := phaseStart(c, CurrentPhase(c, now))
	if start == nil {
		return nil
	}
	d := dateutil.DaysBetween(*start, now)
	if d < 0 {
		d = 0
	}
	return &d
}

// DaysUntilNextPhase cuenta días enteros hasta la próxima fecha límite.
// Nulo si esa fecha no está programada o el ciclo ya terminó.
func DaysUntilNextPhase(c BrumationCycle, now time.Time) *int {
	next := nextBoundary(c, CurrentPhase(c, now))
	if next == nil {
		return nil
	}
	d := dateutil.DaysBetween(now, *next)
	return &d
}

// PhaseProgress devuelve el avance de la fase actual en [0,1] usando las
// duraciones estimadas fijas. planned siempre 0, complete siempre 1.
func PhaseProgress(c BrumationCycle, now time.Time) float64 {
	phase := CurrentPhase(c, now)

	var duration int
	switch phase {
	case PhaseComplete:
		return 1
	case PhaseCooldown:
		duration = cooldownDurationDays
	case PhaseActive:
		duration = activeDurationDays
	case PhaseWarmup:
		duration = warmupDurationDays
	default: // none, planned
		return 0
	}

	days := DaysInPhase(c, now)
	if days == nil {
		return 0
	}
	p := float64(*days) / float64(duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Report arma el valor derivado completo para presentación.
func Report(c BrumationCycle, now time.Time) PhaseReport {
	return PhaseReport{
		CycleID:            c.ID,
		Phase:              CurrentPhase(c, now),
		DaysInPhase:        DaysInPhase(c, now),
		DaysUntilNextPhase: DaysUntilNextPhase(c, now),
		Progress:           PhaseProgress(c, now),
	}
}

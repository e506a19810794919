package feeding

import (
	"fmt"
	"time"

	"herp-husbandry/internal/domain/animals"
	"herp-husbandry/internal/platform/dateutil"
)

// Umbrales de ayuno en días. Son defaults agnósticos de especie: una ball
// python adulta ayuna sin drama lo que para un gecko es serio. Se mantienen
// globales a propósito (ver decisiones en DESIGN.md).
const (
	hungerNormalMaxDays     = 14
	hungerExtendedMaxDays   = 30
	hungerConcerningMaxDays = 60
)

// fastingWeightLossEscalatePct: pérdida de peso (en %) durante un ayuno activo
// que escala el mensaje aunque la banda sea extended/concerning.
const fastingWeightLossEscalatePct = 10.0

// TrendInfo es la tendencia de peso sobre la ventana de ayuno, calculada
// aparte (módulo animals) y pasada como insumo.
type TrendInfo struct {
	Trend animals.WeightTrend
	Pct   float64 // cambio porcentual; negativo = pérdida
}

// ClassifyHunger convierte (última comida efectiva, rechazos consecutivos,
// tendencia de peso) en un nivel de urgencia + mensaje. Función pura.
func ClassifyHunger(now time.Time, lastMeal *time.Time, refusals int, trend *TrendInfo) HungerDuration {
	if lastMeal == nil {
		return HungerDuration{
			DaysSinceLastMeal:   nil,
			ConsecutiveRefusals: refusals,
			Level:               HungerUnknown,
			Advisory:            "No hay comidas efectivas registradas todavía.",
		}
	}

	days := dateutil.DaysBetween(*lastMeal, now)
	if days < 0 {
		days = 0
	}

	var level HungerLevel
	switch {
	case days <= hungerNormalMaxDays:
		level = HungerNormal
	case days <= hungerExtendedMaxDays:
		level = HungerExtended
	case days <= hungerConcerningMaxDays:
		level = HungerConcerning
	default:
		level = HungerCritical
	}

	return HungerDuration{
		DaysSinceLastMeal:   &days,
		ConsecutiveRefusals: refusals,
		Level:               level,
		Advisory:            advisory(level, days, refusals, trend),
	}
}

func advisory(level HungerLevel, days, refusals int, trend *TrendInfo) string {
	var msg string
	switch level {
	case HungerNormal:
		msg = fmt.Sprintf("Última comida hace %d días. Dentro de lo normal.", days)
	case HungerExtended:
		msg = fmt.Sprintf("Ayuno de %d días. Normal en muchas especies; vigilar peso y comportamiento.", days)
	case HungerConcerning:
		msg = fmt.Sprintf("Ayuno de %d días. Revisar temperatura, ciclo y estrés del encierro.", days)
	case HungerCritical:
		msg = fmt.Sprintf("Ayuno de %d días. Consultar con un veterinario especializado.", days)
	default:
		return "Sin datos de alimentación."
	}

	if refusals > 0 {
		msg += fmt.Sprintf(" Rechazó %d ofrecimientos seguidos.", refusals)
	}

	// Pérdida de peso marcada durante el ayuno escala el mensaje aunque la
	// banda todavía no sea crítica.
	if trend != nil && trend.Trend == animals.TrendLosing && trend.Pct <= -fastingWeightLossEscalatePct {
		if level == HungerExtended || level == HungerConcerning {
			msg += fmt.Sprintf(" Atención: perdió %.1f%% de peso durante el ayuno; consultar con un veterinario.", -trend.Pct)
		} else {
			msg += fmt.Sprintf(" Perdió %.1f%% de peso durante el ayuno.", -trend.Pct)
		}
	}

	return msg
}

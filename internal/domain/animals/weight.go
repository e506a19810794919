package animals

import "time"

// WeightRecord es una pesada puntual del animal.
type WeightRecord struct {
	ID       string
	AnimalID string

	WeighedAt time.Time
	Grams     float64

	Notes string

	RecordedAt time.Time
}

// WeightTrend clasifica la evolución de peso entre dos pesadas.
// @Enum stable, gaining, losing
type WeightTrend string

const (
	TrendStable  WeightTrend = "stable"
	TrendGaining WeightTrend = "gaining"
	TrendLosing  WeightTrend = "losing"
)

// trendDeadbandPct: variaciones menores a ±3% se consideran estables
// (balanzas caseras + hidratación meten ruido de ese orden).
const trendDeadbandPct = 3.0

// TrendBetween clasifica la tendencia entre dos pesadas ordenadas
// cronológicamente y devuelve el cambio porcentual (negativo = pérdida).
// Si la pesada anterior es 0 o las fechas vienen invertidas, devuelve stable/0.
func TrendBetween(earlier, later WeightRecord) (WeightTrend, float64) {
	if earlier.Grams <= 0 || later.WeighedAt.Before(earlier.WeighedAt) {
		return TrendStable, 0
	}

	pct := (later.Grams - earlier.Grams) / earlier.Grams * 100

	switch {
	case pct <= -trendDeadbandPct:
		return TrendLosing, pct
	case pct >= trendDeadbandPct:
		return TrendGaining, pct
	default:
		return TrendStable, pct
	}
}

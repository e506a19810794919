package feeding

import (
	"strings"
	"testing"
	"time"

	"herp-husbandry/internal/domain/animals"
)

func TestClassifyHunger_Bands(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		days int
		want HungerLevel
	}{
		{0, HungerNormal},
		{10, HungerNormal},
		{14, HungerNormal},
		{15, HungerExtended},
		{30, HungerExtended},
		{31, HungerConcerning},
		{45, HungerConcerning},
		{60, HungerConcerning},
		{61, HungerCritical},
		{90, HungerCritical},
	}

	for _, c := range cases {
		last := now.AddDate(0, 0, -c.days)
		h := ClassifyHunger(now, &last, 0, nil)
		if h.Level != c.want {
			t.Fatalf("days=%d: expected %s, got %s", c.days, c.want, h.Level)
		}
		if h.DaysSinceLastMeal == nil || *h.DaysSinceLastMeal != c.days {
			t.Fatalf("days=%d: wrong DaysSinceLastMeal %v", c.days, h.DaysSinceLastMeal)
		}
	}
}

func TestClassifyHunger_NoData(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	h := ClassifyHunger(now, nil, 0, nil)
	if h.Level != HungerUnknown {
		t.Fatalf("expected unknown, got %s", h.Level)
	}
	if h.DaysSinceLastMeal != nil {
		t.Fatalf("expected nil DaysSinceLastMeal, got %v", *h.DaysSinceLastMeal)
	}
}

func TestClassifyHunger_FutureMealClampsToZero(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 2)

	h := ClassifyHunger(now, &future, 0, nil)
	if h.DaysSinceLastMeal == nil || *h.DaysSinceLastMeal != 0 {
		t.Fatalf("expected 0 days for future meal, got %v", h.DaysSinceLastMeal)
	}
	if h.Level != HungerNormal {
		t.Fatalf("expected normal, got %s", h.Level)
	}
}

func TestClassifyHunger_RefusalsInAdvisory(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -20)

	h := ClassifyHunger(now, &last, 3, nil)
	if h.ConsecutiveRefusals != 3 {
		t.Fatalf("expected 3 refusals, got %d", h.ConsecutiveRefusals)
	}
	if !strings.Contains(h.Advisory, "3") {
		t.Fatalf("advisory should mention refusal count: %q", h.Advisory)
	}
}

func TestClassifyHunger_WeightLossEscalatesExtended(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -20) // banda extended

	withLoss := ClassifyHunger(now, &last, 0, &TrendInfo{Trend: animals.TrendLosing, Pct: -12})
	without := ClassifyHunger(now, &last, 0, nil)

	if withLoss.Level != HungerExtended {
		t.Fatalf("band should stay extended, got %s", withLoss.Level)
	}
	if withLoss.Advisory == without.Advisory {
		t.Fatalf("weight loss >= 10%% should escalate the advisory")
	}
	if !strings.Contains(withLoss.Advisory, "veterinario") {
		t.Fatalf("escalated advisory should recommend a vet: %q", withLoss.Advisory)
	}
}

func TestClassifyHunger_MinorWeightLossDoesNotEscalate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -20)

	h := ClassifyHunger(now, &last, 0, &TrendInfo{Trend: animals.TrendLosing, Pct: -4})
	if strings.Contains(h.Advisory, "Atención") {
		t.Fatalf("loss under 10%% should not escalate: %q", h.Advisory)
	}
}

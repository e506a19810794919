package enclosures

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestComputeStatusBands(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	sched := CleaningSchedule{
		EnclosureID:  "enc-1",
		Type:         CleaningSubstrateChange,
		IntervalDays: 10,
	}

	cases := []struct {
		name     string
		daysAgo  int
		urgency  Urgency
		untilDue int
	}{
		{"limpio hace 7 días", 7, UrgencyOnTrack, 3},
		{"limpio hace 8 días (p=0.8)", 8, UrgencyDueSoon, 2},
		{"limpio hace 10 días (p=1.0)", 10, UrgencyOverdue, 0},
		{"limpio hace 13 días", 13, UrgencyOverdue, -3},
		{"recién limpiado", 0, UrgencyOnTrack, 10},
	}

	for _, tc := range cases {
		last := now.Add(-time.Duration(tc.daysAgo) * 24 * time.Hour)
		st := ComputeStatus(sched, "Terrario 1", &last, now)
		if st.Urgency != tc.urgency {
			t.Fatalf("%s: urgency %q, want %q", tc.name, st.Urgency, tc.urgency)
		}
		if st.DaysUntilDue != tc.untilDue {
			t.Fatalf("%s: daysUntilDue %d, want %d", tc.name, st.DaysUntilDue, tc.untilDue)
		}
		if st.DaysSinceLastClean == nil || *st.DaysSinceLastClean != tc.daysAgo {
			t.Fatalf("%s: daysSince = %v, want %d", tc.name, st.DaysSinceLastClean, tc.daysAgo)
		}
	}
}

func TestComputeStatusNeverCleaned(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	sched := CleaningSchedule{EnclosureID: "enc-1", Type: CleaningDeepClean, IntervalDays: 30}

	st := ComputeStatus(sched, "Terrario 1", nil, now)
	if st.Urgency != UrgencyOverdue {
		t.Fatalf("never cleaned urgency %q, want overdue", st.Urgency)
	}
	if st.DaysSinceLastClean != nil {
		t.Fatalf("never cleaned daysSince should be nil, got %d", *st.DaysSinceLastClean)
	}
	// el 0 es solo presentación
	if st.DaysUntilDue != 0 {
		t.Fatalf("never cleaned daysUntilDue = %d, want 0", st.DaysUntilDue)
	}
}

func TestComputeStatusFutureCleaningClampsToZero(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	sched := CleaningSchedule{EnclosureID: "enc-1", Type: CleaningWaterChange, IntervalDays: 3}

	future := now.Add(48 * time.Hour)
	st := ComputeStatus(sched, "Terrario 1", &future, now)
	if st.DaysSinceLastClean == nil || *st.DaysSinceLastClean != 0 {
		t.Fatalf("future cleaning daysSince = %v, want 0", st.DaysSinceLastClean)
	}
	if st.Urgency != UrgencyOnTrack {
		t.Fatalf("urgency %q, want on_track", st.Urgency)
	}
}

func TestSortStatusesMostUrgentFirst(t *testing.T) {
	two, five := 2, 5
	statuses := []CleaningStatus{
		{Type: CleaningSpotClean, DaysSinceLastClean: &five, DaysUntilDue: 5},
		{Type: CleaningDeepClean, DaysSinceLastClean: nil, DaysUntilDue: 0}, // nunca limpiado
		{Type: CleaningWaterChange, DaysSinceLastClean: &two, DaysUntilDue: -3},
	}

	SortStatuses(statuses)

	want := []CleaningType{CleaningDeepClean, CleaningWaterChange, CleaningSpotClean}
	for i, ct := range want {
		if statuses[i].Type != ct {
			t.Fatalf("position %d = %q, want %q", i, statuses[i].Type, ct)
		}
	}
}

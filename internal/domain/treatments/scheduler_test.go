package treatments

import (
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func TestGenerateDosesBoundedPlan(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	plan := TreatmentPlan{
		ID:             "plan-1",
		FrequencyHours: 24,
		TotalDoses:     intPtr(10),
		StartAt:        start,
	}

	doses := GenerateDoses(plan)
	if len(doses) != 10 {
		t.Fatalf("expected exactly 10 doses, got %d", len(doses))
	}
	for i, d := range doses {
		want := start.Add(time.Duration(i) * 24 * time.Hour)
		if !d.ScheduledAt.Equal(want) {
			t.Fatalf("dose %d scheduled at %v, want %v", i, d.ScheduledAt, want)
		}
		if d.Seq != i {
			t.Fatalf("dose %d has seq %d", i, d.Seq)
		}
		if d.Status != DoseScheduled {
			t.Fatalf("dose %d status %q, want scheduled", i, d.Status)
		}
		if i > 0 && !doses[i-1].ScheduledAt.Before(d.ScheduledAt) {
			t.Fatalf("timeline not strictly increasing at %d", i)
		}
	}
}

func TestGenerateDosesOpenEndedWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	plan := TreatmentPlan{
		ID:             "plan-open",
		FrequencyHours: 12,
		StartAt:        start,
	}

	doses := GenerateDoses(plan)
	// ventana de 30 días a cada 12h
	if want := (30 * 24) / 12; len(doses) != want {
		t.Fatalf("expected %d doses for the initial window, got %d", want, len(doses))
	}
}

func TestGenerateDosesOpenEndedAtLeastOne(t *testing.T) {
	plan := TreatmentPlan{
		ID:             "plan-rare",
		FrequencyHours: 24 * 45, // más larga que la ventana
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if got := len(GenerateDoses(plan)); got != 1 {
		t.Fatalf("expected 1 dose, got %d", got)
	}
}

func TestGenerateDosesInvalidFrequency(t *testing.T) {
	plan := TreatmentPlan{ID: "p", FrequencyHours: 0, TotalDoses: intPtr(3)}
	if doses := GenerateDoses(plan); doses != nil {
		t.Fatalf("expected nil doses for frequency 0, got %d", len(doses))
	}
}

func TestNextScheduledDoseSkipsClosed(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	doses := []MedicationDose{
		{ID: "a", Seq: 0, ScheduledAt: base, Status: DoseAdministered},
		{ID: "b", Seq: 1, ScheduledAt: base.Add(24 * time.Hour), Status: DoseSkipped},
		{ID: "c", Seq: 2, ScheduledAt: base.Add(48 * time.Hour), Status: DoseScheduled},
		{ID: "d", Seq: 3, ScheduledAt: base.Add(72 * time.Hour), Status: DoseScheduled},
	}

	next, ok := NextScheduledDose(doses)
	if !ok {
		t.Fatal("expected a next dose")
	}
	if next.ID != "c" {
		t.Fatalf("next dose = %q, want c", next.ID)
	}
}

func TestNextScheduledDoseNone(t *testing.T) {
	doses := []MedicationDose{
		{ID: "a", Status: DoseAdministered},
		{ID: "b", Status: DoseMissed},
	}
	if _, ok := NextScheduledDose(doses); ok {
		t.Fatal("expected no next dose")
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	past := MedicationDose{ScheduledAt: now.Add(-time.Hour), Status: DoseScheduled}
	if !IsOverdue(past, now) {
		t.Fatal("past scheduled dose should be overdue")
	}

	future := MedicationDose{ScheduledAt: now.Add(time.Hour), Status: DoseScheduled}
	if IsOverdue(future, now) {
		t.Fatal("future dose should not be overdue")
	}

	closed := MedicationDose{ScheduledAt: now.Add(-time.Hour), Status: DoseAdministered}
	if IsOverdue(closed, now) {
		t.Fatal("administered dose should never be overdue")
	}
}

func TestTargetReached(t *testing.T) {
	plan := TreatmentPlan{TotalDoses: intPtr(2)}
	doses := []MedicationDose{
		{Status: DoseAdministered},
		{Status: DoseSkipped},
	}
	if TargetReached(plan, doses) {
		t.Fatal("skipped doses must not count toward the target")
	}

	doses[1].Status = DoseAdministered
	if !TargetReached(plan, doses) {
		t.Fatal("expected target reached with 2 administered")
	}

	open := TreatmentPlan{TotalDoses: nil}
	if TargetReached(open, doses) {
		t.Fatal("open-ended plans never reach a target")
	}
}

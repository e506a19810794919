package enclosures

import (
	"context"
	"errors"
	"testing"
	"time"

	"herp-husbandry/internal/ports/reminders"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	enclosures map[string]Enclosure
	schedules  map[string]CleaningSchedule // key: enclosureID + "/" + type
	cleanings  []CleaningEvent
}

func newTestRepo() *testRepo {
	return &testRepo{
		enclosures: map[string]Enclosure{},
		schedules:  map[string]CleaningSchedule{},
	}
}

func (r *testRepo) CreateEnclosure(ctx context.Context, e Enclosure) error {
	r.enclosures[e.ID] = e
	return nil
}

func (r *testRepo) UpdateEnclosure(ctx context.Context, e Enclosure) error {
	if _, ok := r.enclosures[e.ID]; !ok {
		return errRepoNotFound
	}
	r.enclosures[e.ID] = e
	return nil
}

func (r *testRepo) GetEnclosure(ctx context.Context, id string) (Enclosure, error) {
	e, ok := r.enclosures[id]
	if !ok {
		return Enclosure{}, errRepoNotFound
	}
	return e, nil
}

func (r *testRepo) ListEnclosuresByOwner(ctx context.Context, ownerUserID string) ([]Enclosure, error) {
	out := make([]Enclosure, 0)
	for _, e := range r.enclosures {
		if e.OwnerUserID == ownerUserID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *testRepo) UpsertSchedule(ctx context.Context, s CleaningSchedule) error {
	r.schedules[s.EnclosureID+"/"+string(s.Type)] = s
	return nil
}

func (r *testRepo) ListSchedulesByEnclosure(ctx context.Context, enclosureID string) ([]CleaningSchedule, error) {
	out := make([]CleaningSchedule, 0)
	for _, s := range r.schedules {
		if s.EnclosureID == enclosureID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *testRepo) CreateCleaning(ctx context.Context, ev CleaningEvent) error {
	r.cleanings = append(r.cleanings, ev)
	return nil
}

func (r *testRepo) ListCleaningsByEnclosure(ctx context.Context, enclosureID string) ([]CleaningEvent, error) {
	out := make([]CleaningEvent, 0)
	for _, ev := range r.cleanings {
		if ev.EnclosureID == enclosureID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type testScheduler struct {
	scheduled map[string]reminders.Reminder
}

func newTestScheduler() *testScheduler {
	return &testScheduler{scheduled: map[string]reminders.Reminder{}}
}

func (s *testScheduler) Schedule(ctx context.Context, r reminders.Reminder) error {
	s.scheduled[r.ID] = r
	return nil
}

func (s *testScheduler) Cancel(ctx context.Context, id string) error {
	delete(s.scheduled, id)
	return nil
}

func newTestService(repo Repository, sched reminders.Scheduler) *Service {
	svc := NewService(repo, sched, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestSetScheduleValidation(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	e, err := svc.CreateEnclosure(context.Background(), "owner-1", CreateEnclosureInput{Name: "Terrario 1"})
	if err != nil {
		t.Fatalf("CreateEnclosure: %v", err)
	}

	cases := []struct {
		name string
		in   SetScheduleInput
	}{
		{"tipo desconocido", SetScheduleInput{Type: "vacuuming", IntervalDays: 7}},
		{"intervalo cero", SetScheduleInput{Type: CleaningSpotClean, IntervalDays: 0}},
		{"anticipación negativa", SetScheduleInput{Type: CleaningSpotClean, IntervalDays: 7, ReminderLeadDays: -1}},
		{"anticipación >= intervalo", SetScheduleInput{Type: CleaningSpotClean, IntervalDays: 7, ReminderLeadDays: 7}},
	}
	for _, tc := range cases {
		if _, err := svc.SetSchedule(context.Background(), e.ID, tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}

	if _, err := svc.SetSchedule(context.Background(), e.ID, SetScheduleInput{
		Type: CleaningSpotClean, IntervalDays: 3, ReminderLeadDays: 1,
	}); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}

func TestSetScheduleReplacesExisting(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	e, _ := svc.CreateEnclosure(context.Background(), "owner-1", CreateEnclosureInput{Name: "Terrario 1"})

	if _, err := svc.SetSchedule(context.Background(), e.ID, SetScheduleInput{Type: CleaningDeepClean, IntervalDays: 30}); err != nil {
		t.Fatalf("SetSchedule: %v", err)
	}
	if _, err := svc.SetSchedule(context.Background(), e.ID, SetScheduleInput{Type: CleaningDeepClean, IntervalDays: 45, ReminderLeadDays: 2}); err != nil {
		t.Fatalf("SetSchedule replace: %v", err)
	}

	scheds, _ := svc.ListSchedules(context.Background(), e.ID)
	if len(scheds) != 1 {
		t.Fatalf("expected 1 schedule after upsert, got %d", len(scheds))
	}
	if scheds[0].IntervalDays != 45 || scheds[0].ReminderLeadDays != 2 {
		t.Fatalf("upsert did not replace: %+v", scheds[0])
	}
}

func TestRecordCleaningRearmsReminder(t *testing.T) {
	repo := newTestRepo()
	sched := newTestScheduler()
	svc := newTestService(repo, sched)

	e, _ := svc.CreateEnclosure(context.Background(), "owner-1", CreateEnclosureInput{Name: "Terrario 1"})
	if _, err := svc.SetSchedule(context.Background(), e.ID, SetScheduleInput{
		Type: CleaningSubstrateChange, IntervalDays: 10, ReminderLeadDays: 2,
	}); err != nil {
		t.Fatalf("SetSchedule: %v", err)
	}

	cleanedAt := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	if _, err := svc.RecordCleaning(context.Background(), e.ID, RecordCleaningInput{
		Type:      CleaningSubstrateChange,
		CleanedAt: cleanedAt,
		Supplies:  []string{"sustrato de coco"},
	}); err != nil {
		t.Fatalf("RecordCleaning: %v", err)
	}

	id := reminders.CleaningID(e.ID, string(CleaningSubstrateChange))
	rem, ok := sched.scheduled[id]
	if !ok {
		t.Fatalf("expected reminder %q", id)
	}
	// intervalo 10 − anticipación 2 = dispara a los 8 días
	want := cleanedAt.Add(8 * 24 * time.Hour)
	if rem.FireAt == nil || !rem.FireAt.Equal(want) {
		t.Fatalf("reminder fires at %v, want %v", rem.FireAt, want)
	}
	if rem.Category != reminders.CategoryCleaning {
		t.Fatalf("reminder category %q, want cleaning", rem.Category)
	}
}

func TestRecordCleaningWithoutScheduleStillRecords(t *testing.T) {
	repo := newTestRepo()
	sched := newTestScheduler()
	svc := newTestService(repo, sched)

	e, _ := svc.CreateEnclosure(context.Background(), "owner-1", CreateEnclosureInput{Name: "Terrario 1"})

	if _, err := svc.RecordCleaning(context.Background(), e.ID, RecordCleaningInput{Type: CleaningSpotClean}); err != nil {
		t.Fatalf("RecordCleaning: %v", err)
	}
	events, _ := svc.ListCleanings(context.Background(), e.ID)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if len(sched.scheduled) != 0 {
		t.Fatalf("no schedule configured, expected no reminders, got %d", len(sched.scheduled))
	}
}

func TestStatusesUsesLatestEventPerType(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, nil)

	e, _ := svc.CreateEnclosure(context.Background(), "owner-1", CreateEnclosureInput{Name: "Terrario 1"})
	mustSchedule := func(in SetScheduleInput) {
		if _, err := svc.SetSchedule(context.Background(), e.ID, in); err != nil {
			t.Fatalf("SetSchedule %s: %v", in.Type, err)
		}
	}
	mustSchedule(SetScheduleInput{Type: CleaningSpotClean, IntervalDays: 3})
	mustSchedule(SetScheduleInput{Type: CleaningDeepClean, IntervalDays: 30})

	now := svc.now()
	record := func(ct CleaningType, daysAgo int) {
		if _, err := svc.RecordCleaning(context.Background(), e.ID, RecordCleaningInput{
			Type:      ct,
			CleanedAt: now.Add(-time.Duration(daysAgo) * 24 * time.Hour),
		}); err != nil {
			t.Fatalf("RecordCleaning %s: %v", ct, err)
		}
	}
	record(CleaningSpotClean, 9)
	record(CleaningSpotClean, 1) // la más reciente manda

	statuses, err := svc.Statuses(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("Statuses: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}

	// deep_clean nunca limpiado: primero en el orden, overdue
	if statuses[0].Type != CleaningDeepClean || statuses[0].Urgency != UrgencyOverdue {
		t.Fatalf("first status = %+v, want never-cleaned deep_clean overdue", statuses[0])
	}
	if statuses[1].Type != CleaningSpotClean {
		t.Fatalf("second status type %q, want spot_clean", statuses[1].Type)
	}
	if statuses[1].DaysSinceLastClean == nil || *statuses[1].DaysSinceLastClean != 1 {
		t.Fatalf("spot_clean daysSince = %v, want 1 (latest event)", statuses[1].DaysSinceLastClean)
	}
	if statuses[1].Urgency != UrgencyOnTrack {
		t.Fatalf("spot_clean urgency %q, want on_track", statuses[1].Urgency)
	}
}

package feeding

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateRoutineInput struct {
	Name         string
	Rule         RuleType
	Slots        []TimeSlot
	Weekdays     []int
	IntervalDays int
	StartDate    time.Time
	EndDate      *time.Time
	AnimalIDs    []string
}

func (s *Service) CreateRoutine(ctx context.Context, ownerUserID string, in CreateRoutineInput) (FeedingRoutine, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return FeedingRoutine{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return FeedingRoutine{}, ErrInvalidInput
	}
	if in.StartDate.IsZero() {
		return FeedingRoutine{}, ErrInvalidInput
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return FeedingRoutine{}, ErrInvalidInput
	}
	if len(in.AnimalIDs) == 0 {
		return FeedingRoutine{}, ErrInvalidInput
	}
	if err := validateRule(in.Rule, in.Weekdays, in.IntervalDays); err != nil {
		return FeedingRoutine{}, err
	}
	for _, sl := range in.Slots {
		if sl.Hour < 0 || sl.Hour > 23 || sl.Minute < 0 || sl.Minute > 59 {
			return FeedingRoutine{}, ErrInvalidInput
		}
	}

	now := s.now()
	r := FeedingRoutine{
		ID:           uuid.NewString(),
		OwnerUserID:  ownerUserID,
		Name:         strings.TrimSpace(in.Name),
		Rule:         in.Rule,
		Slots:        in.Slots,
		Weekdays:     in.Weekdays,
		IntervalDays: in.IntervalDays,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		AnimalIDs:    in.AnimalIDs,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateRoutine(ctx, r); err != nil {
		return FeedingRoutine{}, err
	}
	return r, nil
}

// validateRule rechaza reglas mal formadas antes de que lleguen al motor
// de recurrencia (el motor igual falla cerrado, pero acá se corta con error).
func validateRule(rule RuleType, weekdays []int, intervalDays int) error {
	switch rule {
	case RuleDaily, RuleEveryOtherDay:
		return nil
	case RuleWeekly, RuleCustom:
		if len(weekdays) == 0 {
			return ErrInvalidInput
		}
		for _, d := range weekdays {
			if d < 1 || d > 7 {
				return ErrInvalidInput
			}
		}
		return nil
	case RuleEveryNDays:
		if intervalDays < 1 {
			return ErrInvalidInput
		}
		return nil
	default:
		return ErrInvalidInput
	}
}

func (s *Service) GetRoutine(ctx context.Context, id string) (FeedingRoutine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return FeedingRoutine{}, ErrInvalidInput
	}
	return s.repo.GetRoutine(ctx, id)
}

func (s *Service) ListRoutines(ctx context.Context, ownerUserID string) ([]FeedingRoutine, error) {
	return s.repo.ListRoutinesByOwner(ctx, ownerUserID)
}

type UpdateRoutineInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string
	Rule         *RuleType
	Slots        *[]TimeSlot
	Weekdays     *[]int
	IntervalDays *int
	EndDate      *time.Time
	AnimalIDs    *[]string
	Active       *bool
}

func (s *Service) UpdateRoutine(ctx context.Context, id string, in UpdateRoutineInput) (FeedingRoutine, error) {
	r, err := s.repo.GetRoutine(ctx, id)
	if err != nil {
		return FeedingRoutine{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return FeedingRoutine{}, ErrInvalidInput
		}
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Rule != nil {
		r.Rule = *in.Rule
	}
	if in.Slots != nil {
		r.Slots = *in.Slots
	}
	if in.Weekdays != nil {
		r.Weekdays = *in.Weekdays
	}
	if in.IntervalDays != nil {
		r.IntervalDays = *in.IntervalDays
	}
	if in.EndDate != nil {
		r.EndDate = in.EndDate
	}
	if in.AnimalIDs != nil {
		if len(*in.AnimalIDs) == 0 {
			return FeedingRoutine{}, ErrInvalidInput
		}
		r.AnimalIDs = *in.AnimalIDs
	}
	if in.Active != nil {
		r.Active = *in.Active
	}

	// Revalidar la regla resultante, no solo los campos tocados.
	if err := validateRule(r.Rule, r.Weekdays, r.IntervalDays); err != nil {
		return FeedingRoutine{}, err
	}

	r.UpdatedAt = s.now()
	if err := s.repo.UpdateRoutine(ctx, r); err != nil {
		return FeedingRoutine{}, err
	}
	return r, nil
}

// Next devuelve la próxima ocurrencia de una rutina desde ahora.
func (s *Service) Next(ctx context.Context, routineID string) (ScheduledFeeding, bool, error) {
	r, err := s.repo.GetRoutine(ctx, routineID)
	if err != nil {
		return ScheduledFeeding{}, false, err
	}
	occ, ok := NextOccurrence(r, s.now())
	return occ, ok, nil
}

// Upcoming expande todas las rutinas del usuario sobre los próximos days días
// y devuelve la agenda combinada ordenada por fecha.
func (s *Service) Upcoming(ctx context.Context, ownerUserID string, days int) ([]ScheduledFeeding, error) {
	routines, err := s.repo.ListRoutinesByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]ScheduledFeeding, 0)
	for _, r := range routines {
		out = append(out, UpcomingOccurrences(r, now, days)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out, nil
}

type RecordFeedingInput struct {
	RoutineID string
	FedAt     time.Time
	PreyType  string
	PreySize  string
	PreyCount int
	Response  Response
	Notes     string
}

func (s *Service) RecordFeeding(ctx context.Context, animalID string, in RecordFeedingInput) (FeedingEvent, error) {
	if strings.TrimSpace(animalID) == "" {
		return FeedingEvent{}, ErrInvalidInput
	}
	if in.FedAt.IsZero() {
		return FeedingEvent{}, ErrInvalidInput
	}
	switch in.Response {
	case ResponseStruckImmediately, ResponseReluctant, ResponseAssistedFeed, ResponseRefused, ResponseRegurgitated:
	default:
		return FeedingEvent{}, ErrInvalidInput
	}

	count := in.PreyCount
	if count <= 0 {
		count = 1
	}

	e := FeedingEvent{
		ID:         uuid.NewString(),
		AnimalID:   animalID,
		RoutineID:  strings.TrimSpace(in.RoutineID),
		FedAt:      in.FedAt,
		PreyType:   strings.TrimSpace(in.PreyType),
		PreySize:   strings.TrimSpace(in.PreySize),
		PreyCount:  count,
		Response:   in.Response,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: s.now(),
	}

	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return FeedingEvent{}, err
	}
	return e, nil
}

func (s *Service) ListFeedings(ctx context.Context, animalID string, filter EventFilter) ([]FeedingEvent, error) {
	return s.repo.ListEventsByAnimal(ctx, animalID, filter)
}

// HungerBasis calcula los insumos del clasificador de hambre: última comida
// efectiva (nil si nunca comió) y corrida de rechazos consecutivos al final
// del historial. Un regurgitado corta la corrida sin contar como comida.
func (s *Service) HungerBasis(ctx context.Context, animalID string) (*time.Time, int, error) {
	events, err := s.repo.ListEventsByAnimal(ctx, animalID, EventFilter{})
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].FedAt.Before(events[j].FedAt)
	})

	var lastMeal *time.Time
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Response.Successful() {
			t := events[i].FedAt
			lastMeal = &t
			break
		}
	}

	refusals := 0
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Response != ResponseRefused {
			break
		}
		refusals++
	}

	return lastMeal, refusals, nil
}

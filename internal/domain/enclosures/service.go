package enclosures

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herp-husbandry/internal/platform/dateutil"
	"herp-husbandry/internal/platform/logger"
	"herp-husbandry/internal/ports/reminders"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo  Repository
	sched reminders.Scheduler // puede ser nil
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, sched reminders.Scheduler, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		sched: sched,
		log:   log,
		now:   time.Now,
	}
}

type CreateEnclosureInput struct {
	Name        string
	Description string
	Notes       string
}

func (s *Service) CreateEnclosure(ctx context.Context, ownerUserID string, in CreateEnclosureInput) (Enclosure, error) {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(in.Name) == "" {
		return Enclosure{}, ErrInvalidInput
	}

	now := s.now()
	e := Enclosure{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateEnclosure(ctx, e); err != nil {
		return Enclosure{}, err
	}
	return e, nil
}

func (s *Service) GetEnclosure(ctx context.Context, id string) (Enclosure, error) {
	return s.repo.GetEnclosure(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Enclosure, error) {
	return s.repo.ListEnclosuresByOwner(ctx, ownerUserID)
}

type UpdateEnclosureInput struct {
	Name        *string
	Description *string
	Notes       *string
}

func (s *Service) UpdateEnclosure(ctx context.Context, id string, in UpdateEnclosureInput) (Enclosure, error) {
	e, err := s.repo.GetEnclosure(ctx, id)
	if err != nil {
		return Enclosure{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Enclosure{}, ErrInvalidInput
		}
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Notes != nil {
		e.Notes = strings.TrimSpace(*in.Notes)
	}
	e.UpdatedAt = s.now()

	if err := s.repo.UpdateEnclosure(ctx, e); err != nil {
		return Enclosure{}, err
	}
	return e, nil
}

type SetScheduleInput struct {
	Type             CleaningType
	IntervalDays     int
	ReminderLeadDays int
}

// SetSchedule crea o reemplaza la configuración de una tarea de limpieza.
func (s *Service) SetSchedule(ctx context.Context, enclosureID string, in SetScheduleInput) (CleaningSchedule, error) {
	if !validCleaningType(in.Type) {
		return CleaningSchedule{}, fmt.Errorf("%w: unknown cleaning type %q", ErrInvalidInput, in.Type)
	}
	if in.IntervalDays < 1 {
		return CleaningSchedule{}, fmt.Errorf("%w: interval_days must be >= 1", ErrInvalidInput)
	}
	if in.ReminderLeadDays < 0 || in.ReminderLeadDays >= in.IntervalDays {
		return CleaningSchedule{}, fmt.Errorf("%w: reminder_lead_days must be in [0, interval)", ErrInvalidInput)
	}
	if _, err := s.repo.GetEnclosure(ctx, enclosureID); err != nil {
		return CleaningSchedule{}, err
	}

	now := s.now()
	sched := CleaningSchedule{
		ID:               uuid.NewString(),
		EnclosureID:      enclosureID,
		Type:             in.Type,
		IntervalDays:     in.IntervalDays,
		ReminderLeadDays: in.ReminderLeadDays,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.UpsertSchedule(ctx, sched); err != nil {
		return CleaningSchedule{}, err
	}
	return sched, nil
}

func (s *Service) ListSchedules(ctx context.Context, enclosureID string) ([]CleaningSchedule, error) {
	return s.repo.ListSchedulesByEnclosure(ctx, enclosureID)
}

type RecordCleaningInput struct {
	Type      CleaningType
	CleanedAt time.Time
	Supplies  []string
	Notes     string
}

// RecordCleaning registra la limpieza y re-agenda el recordatorio de esa
// tarea para el próximo vencimiento menos la anticipación configurada. El
// ID determinístico hace que re-agendar reemplace en vez de duplicar.
func (s *Service) RecordCleaning(ctx context.Context, enclosureID string, in RecordCleaningInput) (CleaningEvent, error) {
	if !validCleaningType(in.Type) {
		return CleaningEvent{}, fmt.Errorf("%w: unknown cleaning type %q", ErrInvalidInput, in.Type)
	}
	e, err := s.repo.GetEnclosure(ctx, enclosureID)
	if err != nil {
		return CleaningEvent{}, err
	}

	cleanedAt := in.CleanedAt
	if cleanedAt.IsZero() {
		cleanedAt = s.now()
	}

	ev := CleaningEvent{
		ID:          uuid.NewString(),
		EnclosureID: enclosureID,
		Type:        in.Type,
		CleanedAt:   cleanedAt,
		Supplies:    in.Supplies,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateCleaning(ctx, ev); err != nil {
		return CleaningEvent{}, err
	}

	s.rearmCleaningReminder(ctx, e, ev)
	return ev, nil
}

func (s *Service) ListCleanings(ctx context.Context, enclosureID string) ([]CleaningEvent, error) {
	return s.repo.ListCleaningsByEnclosure(ctx, enclosureID)
}

// Statuses deriva el estado de cada tarea configurada del recinto, ordenado
// para alertar (nunca-limpiado primero, después lo más próximo a vencer).
func (s *Service) Statuses(ctx context.Context, enclosureID string) ([]CleaningStatus, error) {
	e, err := s.repo.GetEnclosure(ctx, enclosureID)
	if err != nil {
		return nil, err
	}
	scheds, err := s.repo.ListSchedulesByEnclosure(ctx, enclosureID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListCleaningsByEnclosure(ctx, enclosureID)
	if err != nil {
		return nil, err
	}

	last := lastCleanedByType(events)
	now := s.now()
	out := make([]CleaningStatus, 0, len(scheds))
	for _, sc := range scheds {
		out = append(out, ComputeStatus(sc, e.Name, last[sc.Type], now))
	}
	SortStatuses(out)
	return out, nil
}

func lastCleanedByType(events []CleaningEvent) map[CleaningType]*time.Time {
	out := make(map[CleaningType]*time.Time, len(events))
	for i := range events {
		ev := events[i]
		if cur, ok := out[ev.Type]; !ok || ev.CleanedAt.After(*cur) {
			t := ev.CleanedAt
			out[ev.Type] = &t
		}
	}
	return out
}

func (s *Service) rearmCleaningReminder(ctx context.Context, e Enclosure, ev CleaningEvent) {
	if s.sched == nil {
		return
	}
	scheds, err := s.repo.ListSchedulesByEnclosure(ctx, e.ID)
	if err != nil {
		s.warn("cleaning reminder: list schedules failed", map[string]any{"enclosure_id": e.ID, "err": err.Error()})
		return
	}
	for _, sc := range scheds {
		if sc.Type != ev.Type {
			continue
		}
		fireAt := dateutil.AddDays(ev.CleanedAt, sc.IntervalDays-sc.ReminderLeadDays)
		err := s.sched.Schedule(ctx, reminders.Reminder{
			ID:       reminders.CleaningID(e.ID, string(sc.Type)),
			FireAt:   &fireAt,
			Category: reminders.CategoryCleaning,
			Title:    "Limpieza: " + e.Name,
			Body:     fmt.Sprintf("Toca %s cada %d días", sc.Type, sc.IntervalDays),
		})
		if err != nil {
			s.warn("cleaning reminder schedule failed", map[string]any{
				"enclosure_id": e.ID,
				"type":         string(sc.Type),
				"err":          err.Error(),
			})
		}
		return
	}
}

func (s *Service) warn(msg string, fields map[string]any) {
	if s.log == nil {
		return
	}
	s.log.Warn(msg, fields)
}

package brumation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herp-husbandry/internal/platform/logger"
	"herp-husbandry/internal/ports/reminders"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
)

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

type CreateCycleInput struct {
	Season             string
	CooldownStart      *time.Time
	FullBrumationStart *time.Time
	WarmupStart        *time.Time
	BrumationEnd       *time.Time
	PreWeightGrams     *float64
	LastFeedingDate    *time.Time
	Notes              string
}

func (s *Service) CreateCycle(ctx context.Context, animalID, ownerUserID string, in CreateCycleInput) (BrumationCycle, error) {
	if strings.TrimSpace(animalID) == "" || strings.TrimSpace(ownerUserID) == "" {
		return BrumationCycle{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Season) == "" {
		return BrumationCycle{}, fmt.Errorf("%w: season required", ErrInvalidInput)
	}

	now := s.now()
	c := BrumationCycle{
		ID:                 uuid.NewString(),
		AnimalID:           animalID,
		OwnerUserID:        ownerUserID,
		Season:             strings.TrimSpace(in.Season),
		CooldownStart:      in.CooldownStart,
		FullBrumationStart: in.FullBrumationStart,
		WarmupStart:        in.WarmupStart,
		BrumationEnd:       in.BrumationEnd,
		Status:             StatusPlanned,
		PreWeightGrams:     in.PreWeightGrams,
		LastFeedingDate:    in.LastFeedingDate,
		Notes:              strings.TrimSpace(in.Notes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := validateBoundaryOrder(c); err != nil {
		return BrumationCycle{}, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return BrumationCycle{}, err
	}
	s.rearmReminder(ctx, c)
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (BrumationCycle, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]BrumationCycle, error) {
	return s.repo.ListByAnimal(ctx, animalID)
}

type UpdateCycleInput struct {
	CooldownStart      *time.Time
	FullBrumationStart *time.Time
	WarmupStart        *time.Time
	BrumationEnd       *time.Time
	PreWeightGrams     *float64
	PostWeightGrams    *float64
	LastFeedingDate    *time.Time
	FirstFeedingDate   *time.Time
	Notes              *string
}

// UpdateCycle parchea fechas límite y metadata. Las fechas presentes
// reemplazan a las almacenadas; el orden resultante se revalida completo.
func (s *Service) UpdateCycle(ctx context.Context, id string, in UpdateCycleInput) (BrumationCycle, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return BrumationCycle{}, err
	}
	if c.Status == StatusCancelled || c.Status == StatusComplete {
		return BrumationCycle{}, ErrInvalidTransition
	}

	if in.CooldownStart != nil {
		c.CooldownStart = in.CooldownStart
	}
	if in.FullBrumationStart != nil {
		c.FullBrumationStart = in.FullBrumationStart
	}
	if in.WarmupStart != nil {
		c.WarmupStart = in.WarmupStart
	}
	if in.BrumationEnd != nil {
		c.BrumationEnd = in.BrumationEnd
	}
	if in.PreWeightGrams != nil {
		c.PreWeightGrams = in.PreWeightGrams
	}
	if in.PostWeightGrams != nil {
		c.PostWeightGrams = in.PostWeightGrams
	}
	if in.LastFeedingDate != nil {
		c.LastFeedingDate = in.LastFeedingDate
	}
	if in.FirstFeedingDate != nil {
		c.FirstFeedingDate = in.FirstFeedingDate
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}
	if err := validateBoundaryOrder(c); err != nil {
		return BrumationCycle{}, err
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return BrumationCycle{}, err
	}
	s.rearmReminder(ctx, c)
	return c, nil
}

// Cancel cierra el ciclo por decisión del usuario. Terminal.
func (s *Service) Cancel(ctx context.Context, id string) (BrumationCycle, error) {
	return s.close(ctx, id, StatusCancelled, false)
}

// ConfirmComplete fija la bandera complete. Solo tiene sentido cuando el
// calendario ya derivó la fase complete; antes de eso es una transición
// inválida.
func (s *Service) ConfirmComplete(ctx context.Context, id string) (BrumationCycle, error) {
	return s.close(ctx, id, StatusComplete, true)
}

func (s *Service) close(ctx context.Context, id string, to CycleStatus, requireComplete bool) (BrumationCycle, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return BrumationCycle{}, err
	}
	if c.Status == StatusCancelled || c.Status == StatusComplete {
		return BrumationCycle{}, ErrInvalidTransition
	}
	if requireComplete && CurrentPhase(c, s.now()) != PhaseComplete {
		return BrumationCycle{}, ErrInvalidTransition
	}

	c.Status = to
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return BrumationCycle{}, err
	}
	s.cancelReminder(ctx, c.ID)
	return c, nil
}

// PhaseReport deriva el informe de fase actual del ciclo.
func (s *Service) PhaseReport(ctx context.Context, id string) (PhaseReport, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PhaseReport{}, err
	}
	return Report(c, s.now()), nil
}

// rearmReminder agenda un único recordatorio por ciclo: la próxima fecha
// límite futura. Si no hay ninguna, cancela el vigente.
func (s *Service) rearmReminder(ctx context.Context, c BrumationCycle) {
	if s.sched == nil {
		return
	}

	now := s.now()
	var next *time.Time
	for _, b := range []*time.Time{c.CooldownStart, c.FullBrumationStart, c.WarmupStart, c.BrumationEnd} {
		if b == nil || b.Before(now) {
			continue
		}
		if next == nil || b.Before(*next) {
			next = b
		}
	}
	if next == nil {
		s.cancelReminder(ctx, c.ID)
		return
	}

	err := s.sched.Schedule(ctx, reminders.Reminder{
		ID:       reminders.BrumationID(c.ID),
		FireAt:   next,
		Category: reminders.CategoryBrumation,
		Title:    "Brumación: temporada " + c.Season,
		Body:     "Se acerca el próximo cambio de fase",
	})
	if err != nil {
		s.warn("brumation reminder schedule failed", map[string]any{"cycle_id": c.ID, "err": err.Error()})
	}
}

func (s *Service) cancelReminder(ctx context.Context, cycleID string) {
	if s.sched == nil {
		return
	}
	if err := s.sched.Cancel(ctx, reminders.BrumationID(cycleID)); err != nil {
		s.warn("brumation reminder cancel failed", map[string]any{"cycle_id": cycleID, "err": err.Error()})
	}
}

func (s *Service) warn(msg string, fields map[string]any) {
	if s.log == nil {
		return
	}
	s.log.Warn(msg, fields)
}

// validateBoundaryOrder exige cooldown ≤ full ≤ warmup ≤ end entre las
// fechas efectivamente cargadas.
func validateBoundaryOrder(c BrumationCycle) error {
	ordered := []*time.Time{c.CooldownStart, c.FullBrumationStart, c.WarmupStart, c.BrumationEnd}
	var prev *time.Time
	for _, b := range ordered {
		if b == nil {
			continue
		}
		if prev != nil && b.Before(*prev) {
			return fmt.Errorf("%w: boundary dates out of order", ErrInvalidInput)
		}
		prev = b
	}
	return nil
}

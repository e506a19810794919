package animals

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

type CreateInput struct {
	Name       string
	Species    string
	Morph      string
	Sex        string
	HatchDate  *time.Time
	AcquiredAt *time.Time
	Notes      string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Animal, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Animal{}, ErrInvalidInput
	}

	sex := Sex(strings.TrimSpace(in.Sex))
	if sex == "" {
		sex = SexUnknown
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     Species(strings.TrimSpace(in.Species)),
		Morph:       strings.TrimSpace(in.Morph),
		Sex:         sex,
		HatchDate:   in.HatchDate,
		AcquiredAt:  in.AcquiredAt,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name  *string
	Morph *string
	Sex   *string
	Notes *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Animal{}, ErrInvalidInput
		}
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Morph != nil {
		a.Morph = strings.TrimSpace(*in.Morph)
	}
	if in.Sex != nil {
		a.Sex = Sex(strings.TrimSpace(*in.Sex))
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

type RecordWeightInput struct {
	WeighedAt time.Time
	Grams     float64
	Notes     string
}

func (s *Service) RecordWeight(ctx context.Context, animalID string, in RecordWeightInput) (WeightRecord, error) {
	if strings.TrimSpace(animalID) == "" {
		return WeightRecord{}, ErrInvalidInput
	}
	if in.Grams <= 0 {
		return WeightRecord{}, ErrInvalidInput
	}
	if in.WeighedAt.IsZero() {
		return WeightRecord{}, ErrInvalidInput
	}

	w := WeightRecord{
		ID:         uuid.NewString(),
		AnimalID:   animalID,
		WeighedAt:  in.WeighedAt,
		Grams:      in.Grams,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: s.now(),
	}

	if err := s.repo.CreateWeight(ctx, w); err != nil {
		return WeightRecord{}, err
	}
	return w, nil
}

func (s *Service) ListWeights(ctx context.Context, animalID string) ([]WeightRecord, error) {
	return s.repo.ListWeightsByAnimal(ctx, animalID)
}

// TrendSince devuelve la tendencia de peso desde una fecha dada, comparando la
// última pesada anterior (o la primera dentro del rango) contra la más reciente.
// ok=false si no hay al menos dos pesadas relevantes.
func (s *Service) TrendSince(ctx context.Context, animalID string, since time.Time) (WeightTrend, float64, bool, error) {
	ws, err := s.repo.ListWeightsByAnimal(ctx, animalID)
	if err != nil {
		return TrendStable, 0, false, err
	}
	if len(ws) < 2 {
		return TrendStable, 0, false, nil
	}

	sort.Slice(ws, func(i, j int) bool {
		return ws[i].WeighedAt.Before(ws[j].WeighedAt)
	})

	// Base: la última pesada antes de since; si no existe, la primera posterior.
	base := ws[0]
	for _, w := range ws {
		if w.WeighedAt.After(since) {
			break
		}
		base = w
	}
	last := ws[len(ws)-1]

	if !last.WeighedAt.After(base.WeighedAt) {
		return TrendStable, 0, false, nil
	}

	trend, pct := TrendBetween(base, last)
	return trend, pct, true, nil
}

package units

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stocktag/stocktag/internal/i18n"
	mdshared "github.com/stocktag/stocktag/internal/masterdata/shared"
	"github.com/stocktag/stocktag/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Unit, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Unit, error) {
	if id == "" {
		return Unit{}, shared.ErrValidation
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, unit Unit) (Unit, error) {
	if err := s.validate(unit); err != nil {
		return Unit{}, err
	}
	unit.ID = uuid.NewString()
	return s.repo.Create(ctx, unit)
}

func (s *Service) Update(ctx context.Context, id string, unit Unit) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := s.validate(unit); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, unit)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(unit Unit) error {
	if len(unit.Names) == 0 {
		return fmt.Errorf("%w: unit name is required", shared.ErrValidation)
	}
	if err := i18n.ValidateBag(unit.Names); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if err := i18n.ValidateBag(unit.Symbols); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

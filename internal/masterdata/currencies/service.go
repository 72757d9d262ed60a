package currencies

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

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Currency, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Currency, error) {
	if id == "" {
		return Currency{}, shared.ErrValidation
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, currency Currency) (Currency, error) {
	if err := s.validate(currency); err != nil {
		return Currency{}, err
	}
	currency.ID = uuid.NewString()
	return s.repo.Create(ctx, currency)
}

func (s *Service) Update(ctx context.Context, id string, currency Currency) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := s.validate(currency); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, currency)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(currency Currency) error {
	if len(currency.Names) == 0 {
		return fmt.Errorf("%w: currency name is required", shared.ErrValidation)
	}
	if err := i18n.ValidateBag(currency.Names); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if err := i18n.ValidateBag(currency.Symbols); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

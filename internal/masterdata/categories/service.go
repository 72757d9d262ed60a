package categories

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

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Category, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	if id == "" {
		return Category{}, shared.ErrValidation
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	category.ID = uuid.NewString()
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, id string, category Category) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := s.validate(category); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, category)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(category Category) error {
	if len(category.Names) == 0 {
		return fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	if err := i18n.ValidateBag(category.Names); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

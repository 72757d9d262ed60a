package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocktag/stocktag/internal/shared"
)

// DefinitionResolver resolves property definitions for value type checks.
type DefinitionResolver interface {
	ResolveType(ctx context.Context, definitionID string) (string, error)
}

type Service struct {
	repo        Repository
	definitions DefinitionResolver
}

func NewService(repo Repository, definitions DefinitionResolver) *Service {
	return &Service{repo: repo, definitions: definitions}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, shared.ErrValidation
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(ctx, product); err != nil {
		return Product{}, err
	}
	product = normalize(product)
	product.ID = uuid.NewString()
	product.BarcodeIDs = []string{}
	return s.repo.Create(ctx, product)
}

// Update replaces product fields; the barcode back-reference column is
// owned by the barcode workflows and left untouched here.
func (s *Service) Update(ctx context.Context, id string, product Product) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := s.validate(ctx, product); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, normalize(product))
}

// normalize replaces nil collections with empty ones. The array columns are
// NOT NULL and a nil slice binds as SQL NULL.
func normalize(p Product) Product {
	if p.CategoryIDs == nil {
		p.CategoryIDs = []string{}
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
	if p.Properties == nil {
		p.Properties = []PropertyValue{}
	}
	return p
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.Delete(ctx, id)
}

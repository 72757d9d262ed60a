package properties

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListGroups(ctx context.Context) ([]Group, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) GetGroup(ctx context.Context, id string) (Group, error) {
	if id == "" {
		return Group{}, shared.ErrValidation
	}
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) CreateGroup(ctx context.Context, group Group) (Group, error) {
	if err := validateBag(group.Names, "group name"); err != nil {
		return Group{}, err
	}
	for _, defID := range group.DefinitionIDs {
		if _, err := s.repo.GetDefinition(ctx, defID); err != nil {
			return Group{}, fmt.Errorf("%w: unknown definition %s", shared.ErrValidation, defID)
		}
	}
	if group.DefinitionIDs == nil {
		// the column is NOT NULL and a nil slice binds as SQL NULL
		group.DefinitionIDs = []string{}
	}
	group.ID = uuid.NewString()
	return s.repo.CreateGroup(ctx, group)
}

func (s *Service) UpdateGroup(ctx context.Context, id string, group Group) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := validateBag(group.Names, "group name"); err != nil {
		return err
	}
	if group.DefinitionIDs == nil {
		group.DefinitionIDs = []string{}
	}
	return s.repo.UpdateGroup(ctx, id, group)
}

func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.DeleteGroup(ctx, id)
}

func (s *Service) ListDefinitions(ctx context.Context) ([]Definition, error) {
	return s.repo.ListDefinitions(ctx)
}

func (s *Service) GetDefinition(ctx context.Context, id string) (Definition, error) {
	if id == "" {
		return Definition{}, shared.ErrValidation
	}
	return s.repo.GetDefinition(ctx, id)
}

func (s *Service) CreateDefinition(ctx context.Context, def Definition) (Definition, error) {
	if err := validateBag(def.Names, "definition name"); err != nil {
		return Definition{}, err
	}
	if !def.Type.Valid() {
		return Definition{}, fmt.Errorf("%w: unknown property type %q", shared.ErrValidation, def.Type)
	}
	def.ID = uuid.NewString()
	return s.repo.CreateDefinition(ctx, def)
}

func (s *Service) UpdateDefinition(ctx context.Context, id string, def Definition) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := validateBag(def.Names, "definition name"); err != nil {
		return err
	}
	if !def.Type.Valid() {
		return fmt.Errorf("%w: unknown property type %q", shared.ErrValidation, def.Type)
	}
	return s.repo.UpdateDefinition(ctx, id, def)
}

// ResolveType reports the value type of a definition. Serves the property
// value shape check at the product write boundary.
func (s *Service) ResolveType(ctx context.Context, definitionID string) (string, error) {
	def, err := s.GetDefinition(ctx, definitionID)
	if err != nil {
		return "", err
	}
	return string(def.Type), nil
}

func (s *Service) DeleteDefinition(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.DeleteDefinition(ctx, id)
}

func (s *Service) ListOptions(ctx context.Context, definitionID string) ([]Option, error) {
	return s.repo.ListOptions(ctx, definitionID)
}

// CreateOption attaches an option to its definition; the definition must be
// select-typed.
func (s *Service) CreateOption(ctx context.Context, option Option) (Option, error) {
	if err := validateBag(option.Names, "option name"); err != nil {
		return Option{}, err
	}
	def, err := s.repo.GetDefinition(ctx, option.DefinitionID)
	if err != nil {
		return Option{}, fmt.Errorf("%w: unknown definition %s", shared.ErrValidation, option.DefinitionID)
	}
	if !def.Type.HasOptions() {
		return Option{}, fmt.Errorf("%w: definition %s does not take options", shared.ErrValidation, def.ID)
	}
	option.ID = uuid.NewString()
	return s.repo.CreateOption(ctx, option)
}

func (s *Service) UpdateOption(ctx context.Context, id string, option Option) error {
	if id == "" {
		return shared.ErrValidation
	}
	if err := validateBag(option.Names, "option name"); err != nil {
		return err
	}
	return s.repo.UpdateOption(ctx, id, option)
}

func (s *Service) DeleteOption(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrValidation
	}
	return s.repo.DeleteOption(ctx, id)
}

func validateBag(bag i18n.Localized, what string) error {
	if len(bag) == 0 {
		return fmt.Errorf("%w: %s is required", shared.ErrValidation, what)
	}
	if err := i18n.ValidateBag(bag); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return nil
}

package products

import (
	"context"
	"fmt"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/shared"
)

// Property value shapes accepted per definition type. Checked at the write
// boundary; the read side tolerates anything and degrades to null.
func (s *Service) validate(ctx context.Context, p Product) error {
	if len(p.Names) == 0 {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if err := i18n.ValidateBag(p.Names); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if p.Price < 0 || p.PurchasePrice < 0 {
		return fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	for _, pv := range p.Properties {
		if pv.DefinitionID == "" {
			return fmt.Errorf("%w: property definition id is required", shared.ErrValidation)
		}
		if s.definitions == nil {
			continue
		}
		defType, err := s.definitions.ResolveType(ctx, pv.DefinitionID)
		if err != nil {
			return fmt.Errorf("%w: unknown property definition %s", shared.ErrValidation, pv.DefinitionID)
		}
		if err := checkValueShape(defType, pv.Value); err != nil {
			return fmt.Errorf("%w: property %s: %v", shared.ErrValidation, pv.DefinitionID, err)
		}
	}
	return nil
}

func checkValueShape(defType string, value any) error {
	if value == nil {
		return nil
	}
	switch defType {
	case "text", "color", "select":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string value for %s property", defType)
		}
	case "number":
		switch value.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("expected numeric value")
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean value")
		}
	case "multiSelect":
		switch v := value.(type) {
		case []string:
		case []any:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("expected option id list")
				}
			}
		default:
			return fmt.Errorf("expected option id list")
		}
	}
	return nil
}

package properties

import (
	"time"

	"github.com/stocktag/stocktag/internal/i18n"
)

// PropertyType enumerates supported property value kinds.
type PropertyType string

const (
	TypeText        PropertyType = "text"
	TypeNumber      PropertyType = "number"
	TypeBoolean     PropertyType = "boolean"
	TypeColor       PropertyType = "color"
	TypeSelect      PropertyType = "select"
	TypeMultiSelect PropertyType = "multiSelect"
)

// Valid reports whether t is a known property type.
func (t PropertyType) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeBoolean, TypeColor, TypeSelect, TypeMultiSelect:
		return true
	}
	return false
}

// HasOptions reports whether values of this type reference option ids.
func (t PropertyType) HasOptions() bool {
	return t == TypeSelect || t == TypeMultiSelect
}

// Group is an ordered set of property definitions assigned to products.
type Group struct {
	ID            string         `json:"id"`
	Names         i18n.Localized `json:"names"`
	DefinitionIDs []string       `json:"definition_ids"`
	Removed       bool           `json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Definition describes one property: its type and table visibility.
type Definition struct {
	ID          string         `json:"id"`
	Names       i18n.Localized `json:"names"`
	Type        PropertyType   `json:"type"`
	IsRequired  bool           `json:"is_required"`
	ShowInTable bool           `json:"show_in_table"`
	Removed     bool           `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Option is one selectable value of a select/multiSelect definition.
// Color is optional and only meaningful for color-bearing options.
type Option struct {
	ID           string         `json:"id"`
	Names        i18n.Localized `json:"names"`
	Color        string         `json:"color,omitempty"`
	DefinitionID string         `json:"definition_id"`
	Removed      bool           `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

package products

import (
	"time"

	"github.com/stocktag/stocktag/internal/i18n"
)

// PropertyValue holds one property assignment on a product. Value is a
// scalar for text/number/boolean/color definitions and a list of option ids
// for select/multiSelect ones.
type PropertyValue struct {
	DefinitionID string `json:"id"`
	Value        any    `json:"value"`
}

// Image is a stored product image; Path is relative to the external image
// storage base URL.
type Image struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Product is the catalog product entity. BarcodeIDs is a denormalized
// back-reference maintained by the barcode workflows, never recomputed on
// read.
type Product struct {
	ID                 string          `json:"id"`
	Names              i18n.Localized  `json:"names"`
	Price              float64         `json:"price"`
	CurrencyID         string          `json:"currency_id"`
	PurchasePrice      float64         `json:"purchase_price"`
	PurchaseCurrencyID string          `json:"purchase_currency_id"`
	CategoryIDs        []string        `json:"category_ids"`
	UnitID             string          `json:"unit_id"`
	Images             []Image         `json:"images"`
	PropertyGroupID    string          `json:"product_property_group_id"`
	Properties         []PropertyValue `json:"product_properties"`
	BarcodeIDs         []string        `json:"barcode_ids"`
	Removed            bool            `json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OptionIDs returns the option ids referenced by the value, regardless of
// whether it is a scalar id or a list. Non-reference values yield nil.
func (p PropertyValue) OptionIDs() []string {
	switch v := p.Value.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	}
	return nil
}

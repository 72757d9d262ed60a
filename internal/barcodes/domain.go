// Package barcodes implements the barcode catalog: mutation workflows that
// maintain the product back-reference, sequential code generation, and the
// read-model assembler that joins every reference collection into one
// nested view per barcode.
package barcodes

import (
	"context"
	"time"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/masterdata/categories"
	"github.com/stocktag/stocktag/internal/masterdata/currencies"
	"github.com/stocktag/stocktag/internal/masterdata/properties"
	"github.com/stocktag/stocktag/internal/masterdata/units"
	"github.com/stocktag/stocktag/internal/products"
)

// CodePrefix marks auto-generated barcode codes. Manually supplied codes
// may be arbitrary strings.
const CodePrefix = "224"

// ProductRef links a barcode to a product. Quantity lives on this edge,
// not on the product entity.
type ProductRef struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// Barcode is the root record of the catalog listing. Removed rows stay in
// the store forever; there is no un-remove.
type Barcode struct {
	ID        string       `json:"id"`
	Code      string       `json:"code"`
	Products  []ProductRef `json:"products"`
	Active    bool         `json:"active"`
	Removed   bool         `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ProductIDs returns the referenced product ids in reference order.
func (b Barcode) ProductIDs() []string {
	ids := make([]string, 0, len(b.Products))
	for _, ref := range b.Products {
		ids = append(ids, ref.ProductID)
	}
	return ids
}

// View is the fully denormalized barcode read model, the shape the UI
// renders directly.
type View struct {
	ID        string        `json:"id"`
	Code      string        `json:"code"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Products  []ProductView `json:"products"`
}

// ProductView is one product entry inside a barcode view. Reference fields
// degrade to nil when the referenced record is gone; the entry itself stays.
type ProductView struct {
	ID               string          `json:"id"`
	Quantity         float64         `json:"quantity"`
	Names            i18n.Localized  `json:"names"`
	Price            float64         `json:"price"`
	Currency         *CurrencyView   `json:"currency"`
	PurchasePrice    float64         `json:"purchase_price"`
	PurchaseCurrency *CurrencyView   `json:"purchase_currency"`
	Categories       []CategoryView  `json:"categories"`
	Unit             *UnitView       `json:"unit"`
	Images           []products.Image `json:"images"`
	PropertiesGroup  *GroupView      `json:"product_properties_group"`
	Properties       []PropertyView  `json:"product_properties"`
}

type CurrencyView struct {
	ID      string         `json:"id"`
	Names   i18n.Localized `json:"names"`
	Symbols i18n.Localized `json:"symbols"`
}

type UnitView struct {
	ID      string         `json:"id"`
	Names   i18n.Localized `json:"names"`
	Symbols i18n.Localized `json:"symbols"`
}

type CategoryView struct {
	ID    string         `json:"id"`
	Names i18n.Localized `json:"names"`
}

type GroupView struct {
	ID    string         `json:"id"`
	Names i18n.Localized `json:"names"`
}

// PropertyView carries one property assignment with its definition data and
// the option records its value references. OptionData is always a list:
// one element for scalar option values, empty when nothing matches.
type PropertyView struct {
	ID         string        `json:"id"`
	Value      any           `json:"value"`
	Data       *PropertyData `json:"data"`
	OptionData []OptionView  `json:"option_data"`
}

type PropertyData struct {
	Names       i18n.Localized `json:"names"`
	Type        string         `json:"type"`
	IsRequired  bool           `json:"is_required"`
	ShowInTable bool           `json:"show_in_table"`
}

type OptionView struct {
	ID    string         `json:"id"`
	Names i18n.Localized `json:"names"`
	Color string         `json:"color,omitempty"`
}

// RefSet holds every reference record the assembler may need for one page
// of barcodes, batch-fetched once and keyed by id.
type RefSet struct {
	Products    map[string]products.Product
	Currencies  map[string]currencies.Currency
	Units       map[string]units.Unit
	Categories  map[string]categories.Category
	Groups      map[string]properties.Group
	Definitions map[string]properties.Definition
	Options     map[string]properties.Option
}

// Repository is the barcode slice of the reference store. List returns
// every matching row in sorted order from a single query, so the page
// slice and the total count are taken from one consistent view.
type Repository interface {
	List(ctx context.Context, filters Filters, sorters Sorters) ([]Barcode, error)
	Get(ctx context.Context, id string) (Barcode, error)
	Insert(ctx context.Context, barcode Barcode) error
	Update(ctx context.Context, barcode Barcode) error
	MarkRemoved(ctx context.Context, ids []string) (int64, error)
	NextSequence(ctx context.Context) (int64, error)
	References(ctx context.Context, productIDs []string) (RefSet, error)
}

// ReferenceIndex maintains the denormalized products.barcode_ids column.
// It is the only writer of that column.
type ReferenceIndex interface {
	Push(ctx context.Context, barcodeID string, productIDs []string) error
	Pull(ctx context.Context, barcodeID string) error
	// Rebuild recomputes the back-reference from the barcodes table for the
	// given products, or for all products when ids is empty.
	Rebuild(ctx context.Context, productIDs []string) error
}

// LabelRenderer turns an assembled view into a print-ready document.
type LabelRenderer interface {
	Render(ctx context.Context, view View, size, language string) ([]byte, error)
}

// RepairQueue accepts back-reference repair requests raised when a
// mutation workflow fails between its sequential writes.
type RepairQueue interface {
	EnqueueBackrefRepair(ctx context.Context, productIDs []string) error
}

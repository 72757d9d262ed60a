package barcodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/masterdata/categories"
	"github.com/stocktag/stocktag/internal/masterdata/currencies"
	"github.com/stocktag/stocktag/internal/masterdata/properties"
	"github.com/stocktag/stocktag/internal/masterdata/units"
	"github.com/stocktag/stocktag/internal/products"
)

func emptyRefSet() RefSet {
	return RefSet{
		Products:    map[string]products.Product{},
		Currencies:  map[string]currencies.Currency{},
		Units:       map[string]units.Unit{},
		Categories:  map[string]categories.Category{},
		Groups:      map[string]properties.Group{},
		Definitions: map[string]properties.Definition{},
		Options:     map[string]properties.Option{},
	}
}

func TestAssembleNoDuplication(t *testing.T) {
	// two products with two properties each must not multiply the barcode
	// or its products
	refs := emptyRefSet()
	refs.Definitions["d-1"] = properties.Definition{ID: "d-1", Names: i18n.Localized{"en": "Size"}, Type: properties.TypeText}
	refs.Definitions["d-2"] = properties.Definition{ID: "d-2", Names: i18n.Localized{"en": "Weight"}, Type: properties.TypeNumber}
	for _, id := range []string{"p-1", "p-2"} {
		refs.Products[id] = products.Product{
			ID:    id,
			Names: i18n.Localized{"en": "Product " + id},
			Properties: []products.PropertyValue{
				{DefinitionID: "d-1", Value: "L"},
				{DefinitionID: "d-2", Value: 2.5},
			},
		}
	}

	views := Assembler{}.Assemble([]Barcode{{
		ID:   "b-1",
		Code: "2240000000001",
		Products: []ProductRef{
			{ProductID: "p-1", Quantity: 1},
			{ProductID: "p-2", Quantity: 3},
		},
	}}, refs)

	require.Len(t, views, 1)
	require.Len(t, views[0].Products, 2)
	for _, p := range views[0].Products {
		require.Len(t, p.Properties, 2)
		require.NotNil(t, p.Properties[0].Data)
		require.Equal(t, "Size", p.Properties[0].Data.Names["en"])
	}
	require.Equal(t, float64(3), views[0].Products[1].Quantity)
}

func TestAssembleEmptyProductsCollapse(t *testing.T) {
	views := Assembler{}.Assemble([]Barcode{{ID: "b-1", Code: "c"}}, emptyRefSet())
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Products)
	require.Empty(t, views[0].Products)
}

func TestAssembleDanglingReferences(t *testing.T) {
	refs := emptyRefSet()
	refs.Products["p-1"] = products.Product{
		ID:         "p-1",
		Names:      i18n.Localized{"en": "Known"},
		CurrencyID: "missing-currency",
		UnitID:     "missing-unit",
	}

	views := Assembler{}.Assemble([]Barcode{{
		ID: "b-1",
		Products: []ProductRef{
			{ProductID: "p-1", Quantity: 1},
			{ProductID: "p-gone", Quantity: 2},
		},
	}}, refs)

	require.Len(t, views, 1)
	require.Len(t, views[0].Products, 2)

	known := views[0].Products[0]
	require.Nil(t, known.Currency)
	require.Nil(t, known.Unit)
	require.Equal(t, "Known", known.Names["en"])

	// the missing product keeps its entry with edge data only
	gone := views[0].Products[1]
	require.Equal(t, "p-gone", gone.ID)
	require.Equal(t, float64(2), gone.Quantity)
	require.Nil(t, gone.Names)
	require.NotNil(t, gone.Properties)
	require.Empty(t, gone.Properties)
}

func TestAssembleOrderPreserved(t *testing.T) {
	records := []Barcode{
		{ID: "b-2", Code: "2"},
		{ID: "b-1", Code: "1"},
		{ID: "b-3", Code: "3"},
	}
	views := Assembler{}.Assemble(records, emptyRefSet())
	require.Len(t, views, 3)
	for i := range records {
		require.Equal(t, records[i].ID, views[i].ID)
	}
}

func TestAssembleScalarOptionValue(t *testing.T) {
	refs := emptyRefSet()
	refs.Definitions["d-color"] = properties.Definition{ID: "d-color", Type: properties.TypeSelect}
	refs.Options["o-red"] = properties.Option{ID: "o-red", Names: i18n.Localized{"en": "Red"}, Color: "#ff0000"}
	refs.Products["p-1"] = products.Product{
		ID:         "p-1",
		Properties: []products.PropertyValue{{DefinitionID: "d-color", Value: "o-red"}},
	}

	views := Assembler{}.Assemble([]Barcode{{
		ID:       "b-1",
		Products: []ProductRef{{ProductID: "p-1", Quantity: 1}},
	}}, refs)

	props := views[0].Products[0].Properties
	require.Len(t, props, 1)
	require.Len(t, props[0].OptionData, 1)
	require.Equal(t, "Red", props[0].OptionData[0].Names["en"])
	require.Equal(t, "#ff0000", props[0].OptionData[0].Color)
}

func TestAssembleImagePrefix(t *testing.T) {
	refs := emptyRefSet()
	refs.Products["p-1"] = products.Product{
		ID:     "p-1",
		Images: []products.Image{{ID: "img-1", Path: "/uploads/a.png"}},
	}

	views := Assembler{ImageBaseURL: "https://cdn.example.com/"}.Assemble([]Barcode{{
		ID:        "b-1",
		Products:  []ProductRef{{ProductID: "p-1", Quantity: 1}},
		CreatedAt: time.Now(),
	}}, refs)

	require.Equal(t, "https://cdn.example.com/uploads/a.png", views[0].Products[0].Images[0].Path)
}

package barcodes

import (
	"strings"

	"github.com/stocktag/stocktag/internal/products"
)

// Assembler builds the nested barcode read model from flat records and a
// batch-fetched RefSet. The pipeline is flatten → enrich → fold, in that
// exact order: property rows fold back to product rows before any
// product-level one-to-one enrichment, and product rows fold back to
// barcode rows last. Folding too late duplicates parent fields once per
// child row; folding too early drops siblings.
type Assembler struct {
	// ImageBaseURL prefixes every image path in the shaped output.
	ImageBaseURL string
}

// productRow is the result of flattening barcode→product: one row per
// (barcode, productRef) pair. Ref is nil for the placeholder row a
// barcode with no products emits.
type productRow struct {
	barcode *Barcode
	ref     *ProductRef
	product *products.Product
}

// propertyRow further flattens product→property. Prop is nil when the
// product has no properties or the product itself is missing.
type propertyRow struct {
	productRow
	prop *products.PropertyValue
}

// foldedProduct is a product row with its collected property views.
type foldedProduct struct {
	productRow
	properties []PropertyView
}

// Assemble produces one View per input barcode, in input order. The
// number of output views always equals len(records): missing or dangling
// children never drop a barcode, extra children never duplicate one.
func (a Assembler) Assemble(records []Barcode, refs RefSet) []View {
	// step 1: flatten barcode → product, outer semantics
	productRows := make([]productRow, 0, len(records))
	for i := range records {
		b := &records[i]
		if len(b.Products) == 0 {
			productRows = append(productRows, productRow{barcode: b})
			continue
		}
		for j := range b.Products {
			productRows = append(productRows, productRow{barcode: b, ref: &b.Products[j]})
		}
	}

	// step 2: enrich product identity
	for i := range productRows {
		if productRows[i].ref == nil {
			continue
		}
		if p, ok := refs.Products[productRows[i].ref.ProductID]; ok {
			productRows[i].product = &p
		}
	}

	// step 3: flatten product → property, outer semantics
	propertyRows := make([]propertyRow, 0, len(productRows))
	for _, row := range productRows {
		if row.product == nil || len(row.product.Properties) == 0 {
			propertyRows = append(propertyRows, propertyRow{productRow: row})
			continue
		}
		for j := range row.product.Properties {
			propertyRows = append(propertyRows, propertyRow{
				productRow: row,
				prop:       &row.product.Properties[j],
			})
		}
	}

	// steps 4+5: enrich each property, then fold property rows back to
	// product rows keyed by (barcode, product). This must precede the
	// product-level enrichment in step 6.
	folded := make([]foldedProduct, 0, len(productRows))
	foldIndex := make(map[string]int, len(productRows))
	for _, row := range propertyRows {
		key := row.barcode.ID + "\x00"
		if row.ref != nil {
			key += row.ref.ProductID
		}
		idx, ok := foldIndex[key]
		if !ok {
			idx = len(folded)
			foldIndex[key] = idx
			folded = append(folded, foldedProduct{productRow: row.productRow, properties: []PropertyView{}})
		}
		if row.prop != nil {
			folded[idx].properties = append(folded[idx].properties, a.enrichProperty(*row.prop, refs))
		}
	}

	// steps 6+7: enrich product-level references and shape the output,
	// now that each product appears exactly once again
	// step 8: fold product rows back to barcode rows; barcode scalars come
	// from the barcode record itself, first seen
	views := make([]View, 0, len(records))
	viewIndex := make(map[string]int, len(records))
	for _, fp := range folded {
		idx, ok := viewIndex[fp.barcode.ID]
		if !ok {
			idx = len(views)
			viewIndex[fp.barcode.ID] = idx
			views = append(views, View{
				ID:        fp.barcode.ID,
				Code:      fp.barcode.Code,
				Active:    fp.barcode.Active,
				CreatedAt: fp.barcode.CreatedAt,
				UpdatedAt: fp.barcode.UpdatedAt,
				Products:  []ProductView{},
			})
		}
		// step 9: collapse the placeholder row of a product-less barcode
		// into an empty products list
		if fp.ref == nil {
			continue
		}
		views[idx].Products = append(views[idx].Products, a.shapeProduct(fp, refs))
	}
	return views
}

func (a Assembler) enrichProperty(prop products.PropertyValue, refs RefSet) PropertyView {
	view := PropertyView{
		ID:         prop.DefinitionID,
		Value:      prop.Value,
		OptionData: []OptionView{},
	}
	if def, ok := refs.Definitions[prop.DefinitionID]; ok {
		view.Data = &PropertyData{
			Names:       def.Names,
			Type:        string(def.Type),
			IsRequired:  def.IsRequired,
			ShowInTable: def.ShowInTable,
		}
	}
	for _, optionID := range prop.OptionIDs() {
		if opt, ok := refs.Options[optionID]; ok {
			view.OptionData = append(view.OptionData, OptionView{
				ID:    opt.ID,
				Names: opt.Names,
				Color: opt.Color,
			})
		}
	}
	return view
}

func (a Assembler) shapeProduct(fp foldedProduct, refs RefSet) ProductView {
	view := ProductView{
		ID:         fp.ref.ProductID,
		Quantity:   fp.ref.Quantity,
		Categories: []CategoryView{},
		Images:     []products.Image{},
		Properties: fp.properties,
	}
	p := fp.product
	if p == nil {
		return view
	}

	view.Names = p.Names
	view.Price = p.Price
	view.PurchasePrice = p.PurchasePrice

	if c, ok := refs.Currencies[p.CurrencyID]; ok {
		view.Currency = &CurrencyView{ID: c.ID, Names: c.Names, Symbols: c.Symbols}
	}
	if c, ok := refs.Currencies[p.PurchaseCurrencyID]; ok {
		view.PurchaseCurrency = &CurrencyView{ID: c.ID, Names: c.Names, Symbols: c.Symbols}
	}
	if u, ok := refs.Units[p.UnitID]; ok {
		view.Unit = &UnitView{ID: u.ID, Names: u.Names, Symbols: u.Symbols}
	}
	if g, ok := refs.Groups[p.PropertyGroupID]; ok {
		view.PropertiesGroup = &GroupView{ID: g.ID, Names: g.Names}
	}
	for _, categoryID := range p.CategoryIDs {
		if c, ok := refs.Categories[categoryID]; ok {
			view.Categories = append(view.Categories, CategoryView{ID: c.ID, Names: c.Names})
		}
	}
	for _, img := range p.Images {
		view.Images = append(view.Images, products.Image{ID: img.ID, Path: a.imagePath(img.Path)})
	}
	return view
}

func (a Assembler) imagePath(path string) string {
	if a.ImageBaseURL == "" || path == "" {
		return path
	}
	return strings.TrimRight(a.ImageBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

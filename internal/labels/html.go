package labels

import (
	"bytes"
	"html/template"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"

	"github.com/stocktag/stocktag/internal/barcodes"
	"github.com/stocktag/stocktag/internal/i18n"
)

// labelData is the template input for both layouts.
type labelData struct {
	Code        string
	ProductName string
	Price       string
	Brand       string
	Color       string
}

var compactTmpl = template.Must(template.New("compact").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
  body { margin: 0; font-family: Arial, sans-serif; text-align: center; }
  .name { font-size: 8pt; overflow: hidden; white-space: nowrap; }
  .code { font-size: 11pt; font-weight: bold; letter-spacing: 1px; }
</style></head><body>
  <div class="name">{{.ProductName}}</div>
  <div class="code">{{.Code}}</div>
</body></html>`))

var sizedTmpl = template.Must(template.New("60x30").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>
  body { margin: 0; font-family: Arial, sans-serif; text-align: center; }
  .name { font-size: 9pt; overflow: hidden; white-space: nowrap; }
  .attrs { font-size: 7pt; color: #333; }
  .price { font-size: 12pt; font-weight: bold; }
  .code { font-size: 11pt; font-weight: bold; letter-spacing: 1px; }
</style></head><body>
  <div class="name">{{.ProductName}}</div>
  {{if or .Brand .Color}}<div class="attrs">{{.Brand}}{{if and .Brand .Color}} &middot; {{end}}{{.Color}}</div>{{end}}
  {{if .Price}}<div class="price">{{.Price}}</div>{{end}}
  <div class="code">{{.Code}}</div>
</body></html>`))

func (s *Service) buildHTML(view barcodes.View, size, lang string) (string, error) {
	data := labelData{Code: view.Code}

	// the label describes the first product; multi-product barcodes are
	// identified by code alone beyond that
	if len(view.Products) > 0 {
		p := view.Products[0]
		data.ProductName = i18n.Pick(p.Names, lang)
		if size == Size60x30 {
			data.Price = formatPrice(p, lang)
			data.Brand = s.propertyText(p, s.cfg.BrandPropertyID, lang)
			data.Color = s.propertyText(p, s.cfg.ColorPropertyID, lang)
		}
	}

	tmpl := compactTmpl
	if size == Size60x30 {
		tmpl = sizedTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatPrice(p barcodes.ProductView, lang string) string {
	if p.Price == 0 {
		return ""
	}
	symbol := ""
	if p.Currency != nil {
		symbol = i18n.Pick(p.Currency.Symbols, lang)
	}
	ac := accounting.Accounting{Symbol: symbol, Precision: 2, Format: "%v %s"}
	return ac.FormatMoneyDecimal(decimal.NewFromFloat(p.Price))
}

// propertyText resolves a configured property to display text: the option
// names for select values, the raw value otherwise.
func (s *Service) propertyText(p barcodes.ProductView, definitionID, lang string) string {
	if definitionID == "" {
		return ""
	}
	for _, prop := range p.Properties {
		if prop.ID != definitionID {
			continue
		}
		if len(prop.OptionData) > 0 {
			return i18n.Pick(prop.OptionData[0].Names, lang)
		}
		if v, ok := prop.Value.(string); ok {
			return v
		}
		return ""
	}
	return ""
}

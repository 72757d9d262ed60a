// Package labels renders print-ready barcode labels. A label is built as a
// small HTML page and converted to PDF by Gotenberg; rendered documents are
// cached in Redis keyed by the barcode's update time, and concurrent
// requests for the same label share one render through singleflight.
package labels

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/stocktag/stocktag/internal/barcodes"
	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/platform/cache"
	"github.com/stocktag/stocktag/internal/shared"
	"github.com/stocktag/stocktag/report"
)

// Label size names accepted by Render.
const (
	SizeCompact = "compact"
	Size60x30   = "60x30"
)

// HTMLRenderer is the PDF conversion seam, satisfied by report.Client.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string, page report.PageOptions) ([]byte, error)
}

// Config identifies the property definitions the 60x30 layout surfaces.
// The compact layout ignores both.
type Config struct {
	BrandPropertyID string
	ColorPropertyID string
	DefaultLanguage string
}

// Service implements barcodes.LabelRenderer.
type Service struct {
	renderer HTMLRenderer
	cache    *cache.Bytes
	group    singleflight.Group
	cfg      Config
}

// NewService wires the renderer and an optional document cache; a nil
// cache disables caching.
func NewService(renderer HTMLRenderer, documents *cache.Bytes, cfg Config) *Service {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = i18n.DefaultLanguage
	}
	return &Service{renderer: renderer, cache: documents, cfg: cfg}
}

var pageSizes = map[string]report.PageOptions{
	SizeCompact: {WidthMM: 43, HeightMM: 25, MarginMM: 1},
	Size60x30:   {WidthMM: 60, HeightMM: 30, MarginMM: 1.5},
}

// Render produces the PDF label for one assembled barcode view. An empty
// size falls back to the compact layout; unknown sizes are rejected. The
// language is matched against the supported set, not trusted verbatim.
func (s *Service) Render(ctx context.Context, view barcodes.View, size, language string) ([]byte, error) {
	if size == "" {
		size = SizeCompact
	}
	page, ok := pageSizes[size]
	if !ok {
		return nil, fmt.Errorf("%w: unknown label size %q", shared.ErrValidation, size)
	}
	lang := i18n.Match(language)
	if lang == i18n.DefaultLanguage && language == "" {
		lang = s.cfg.DefaultLanguage
	}

	key := cacheKey(view, size, lang)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	data, err, _ := s.group.Do(key, func() (any, error) {
		html, err := s.buildHTML(view, size, lang)
		if err != nil {
			return nil, err
		}
		pdf, err := s.renderer.RenderHTML(ctx, html, page)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, key, pdf)
		return pdf, nil
	})
	if err != nil {
		return nil, err
	}
	return data.([]byte), nil
}

// cacheKey changes whenever the barcode record changes, so stale documents
// age out instead of needing invalidation.
func cacheKey(view barcodes.View, size, lang string) string {
	return "label:" + view.ID + ":" + size + ":" + lang + ":" + strconv.FormatInt(view.UpdatedAt.UnixNano(), 10)
}

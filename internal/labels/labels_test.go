package labels

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stocktag/stocktag/internal/barcodes"
	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/platform/cache"
	"github.com/stocktag/stocktag/internal/shared"
	"github.com/stocktag/stocktag/report"
)

type fakeRenderer struct {
	calls    int
	lastHTML string
	lastPage report.PageOptions
}

func (f *fakeRenderer) RenderHTML(_ context.Context, html string, page report.PageOptions) ([]byte, error) {
	f.calls++
	f.lastHTML = html
	f.lastPage = page
	return []byte("%PDF " + html), nil
}

func testView() barcodes.View {
	return barcodes.View{
		ID:        "b-1",
		Code:      "2240000000042",
		UpdatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Products: []barcodes.ProductView{{
			ID:    "p-1",
			Names: i18n.Localized{"en": "Cotton Shirt", "ru": "Рубашка"},
			Price: 1250.5,
			Currency: &barcodes.CurrencyView{
				ID:      "c-1",
				Symbols: i18n.Localized{"en": "$"},
			},
			Properties: []barcodes.PropertyView{
				{
					ID: "def-brand",
					OptionData: []barcodes.OptionView{
						{ID: "o-1", Names: i18n.Localized{"en": "Acme"}},
					},
				},
				{ID: "def-color", Value: "navy"},
			},
		}},
	}
}

func TestRenderCompact(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(renderer, nil, Config{})

	pdf, err := svc.Render(context.Background(), testView(), "", "en")
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	require.Contains(t, renderer.lastHTML, "2240000000042")
	require.Contains(t, renderer.lastHTML, "Cotton Shirt")
	require.NotContains(t, renderer.lastHTML, "1,250.50")
	require.InDelta(t, 43.0, renderer.lastPage.WidthMM, 0.001)
}

func TestRenderSizedLayout(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(renderer, nil, Config{
		BrandPropertyID: "def-brand",
		ColorPropertyID: "def-color",
	})

	_, err := svc.Render(context.Background(), testView(), Size60x30, "en")
	require.NoError(t, err)
	require.Contains(t, renderer.lastHTML, "1,250.50")
	require.Contains(t, renderer.lastHTML, "$")
	require.Contains(t, renderer.lastHTML, "Acme")
	require.Contains(t, renderer.lastHTML, "navy")
	require.InDelta(t, 60.0, renderer.lastPage.WidthMM, 0.001)
	require.InDelta(t, 30.0, renderer.lastPage.HeightMM, 0.001)
}

func TestRenderLanguageFallback(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(renderer, nil, Config{})

	// ru-RU resolves to ru, which the names bag carries
	_, err := svc.Render(context.Background(), testView(), SizeCompact, "ru-RU")
	require.NoError(t, err)
	require.Contains(t, renderer.lastHTML, "Рубашка")

	// unsupported languages fall back to the default bag entry
	_, err = svc.Render(context.Background(), testView(), SizeCompact, "fr")
	require.NoError(t, err)
	require.Contains(t, renderer.lastHTML, "Cotton Shirt")
}

func TestRenderUnknownSize(t *testing.T) {
	svc := NewService(&fakeRenderer{}, nil, Config{})
	_, err := svc.Render(context.Background(), testView(), "a4", "en")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRenderEmptyProducts(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := NewService(renderer, nil, Config{})

	view := barcodes.View{ID: "b-2", Code: "manual-code", Products: []barcodes.ProductView{}}
	_, err := svc.Render(context.Background(), view, SizeCompact, "en")
	require.NoError(t, err)
	require.Contains(t, renderer.lastHTML, "manual-code")
}

func TestRenderCachesDocument(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	renderer := &fakeRenderer{}
	svc := NewService(renderer, cache.NewBytes(client, time.Minute), Config{})
	view := testView()

	first, err := svc.Render(context.Background(), view, SizeCompact, "en")
	require.NoError(t, err)
	second, err := svc.Render(context.Background(), view, SizeCompact, "en")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, renderer.calls)

	// a touched record misses the old entry
	view.UpdatedAt = view.UpdatedAt.Add(time.Second)
	_, err = svc.Render(context.Background(), view, SizeCompact, "en")
	require.NoError(t, err)
	require.Equal(t, 2, renderer.calls)
}

func TestCacheKeyParts(t *testing.T) {
	view := testView()
	key := cacheKey(view, SizeCompact, "en")
	require.True(t, strings.HasPrefix(key, "label:b-1:compact:en:"))
	require.NotEqual(t, key, cacheKey(view, Size60x30, "en"))
	require.NotEqual(t, key, cacheKey(view, SizeCompact, "ru"))
}

package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/shared"
)

type fakeRepo struct {
	stored map[string]Product
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: map[string]Product{}}
}

func (f *fakeRepo) List(_ context.Context, _ ListFilters) ([]Product, int, error) {
	items := make([]Product, 0, len(f.stored))
	for _, p := range f.stored {
		items = append(items, p)
	}
	return items, len(items), nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (Product, error) {
	p, ok := f.stored[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetByIDs(_ context.Context, ids []string) ([]Product, error) {
	var items []Product
	for _, id := range ids {
		if p, ok := f.stored[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}

func (f *fakeRepo) Create(_ context.Context, p Product) (Product, error) {
	f.stored[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, p Product) error {
	existing, ok := f.stored[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.ID = id
	p.BarcodeIDs = existing.BarcodeIDs
	f.stored[id] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.stored[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.stored, id)
	return nil
}

func TestCreateWithoutCollectionsRoundTrips(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{
		Names: i18n.Localized{"en": "Bottle"},
		Price: 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryIDs)
	require.Empty(t, got.CategoryIDs)
	require.NotNil(t, got.BarcodeIDs)
	require.Empty(t, got.BarcodeIDs)
	require.NotNil(t, got.Images)
	require.NotNil(t, got.Properties)
}

func TestUpdateNormalizesNilCollections(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{
		Names:       i18n.Localized{"en": "Bottle"},
		CategoryIDs: []string{"cat-1"},
	})
	require.NoError(t, err)

	err = svc.Update(ctx, created.ID, Product{Names: i18n.Localized{"en": "Bottle v2"}})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryIDs)
	require.Empty(t, got.CategoryIDs)
	require.NotNil(t, got.Images)
	require.NotNil(t, got.Properties)
}

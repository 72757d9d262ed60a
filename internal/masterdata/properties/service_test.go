package properties

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/shared"
)

type fakeRepo struct {
	groups      map[string]Group
	definitions map[string]Definition
	options     map[string]Option
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		groups:      map[string]Group{},
		definitions: map[string]Definition{},
		options:     map[string]Option{},
	}
}

func (f *fakeRepo) ListGroups(_ context.Context) ([]Group, error) {
	items := make([]Group, 0, len(f.groups))
	for _, g := range f.groups {
		items = append(items, g)
	}
	return items, nil
}

func (f *fakeRepo) GetGroup(_ context.Context, id string) (Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return Group{}, shared.ErrNotFound
	}
	return g, nil
}

func (f *fakeRepo) CreateGroup(_ context.Context, g Group) (Group, error) {
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeRepo) UpdateGroup(_ context.Context, id string, g Group) error {
	if _, ok := f.groups[id]; !ok {
		return shared.ErrNotFound
	}
	g.ID = id
	f.groups[id] = g
	return nil
}

func (f *fakeRepo) DeleteGroup(_ context.Context, id string) error {
	if _, ok := f.groups[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.groups, id)
	return nil
}

func (f *fakeRepo) ListDefinitions(_ context.Context) ([]Definition, error) {
	items := make([]Definition, 0, len(f.definitions))
	for _, d := range f.definitions {
		items = append(items, d)
	}
	return items, nil
}

func (f *fakeRepo) GetDefinition(_ context.Context, id string) (Definition, error) {
	d, ok := f.definitions[id]
	if !ok {
		return Definition{}, shared.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) CreateDefinition(_ context.Context, d Definition) (Definition, error) {
	f.definitions[d.ID] = d
	return d, nil
}

func (f *fakeRepo) UpdateDefinition(_ context.Context, id string, d Definition) error {
	if _, ok := f.definitions[id]; !ok {
		return shared.ErrNotFound
	}
	d.ID = id
	f.definitions[id] = d
	return nil
}

func (f *fakeRepo) DeleteDefinition(_ context.Context, id string) error {
	if _, ok := f.definitions[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.definitions, id)
	return nil
}

func (f *fakeRepo) ListOptions(_ context.Context, definitionID string) ([]Option, error) {
	var items []Option
	for _, o := range f.options {
		if definitionID == "" || o.DefinitionID == definitionID {
			items = append(items, o)
		}
	}
	return items, nil
}

func (f *fakeRepo) CreateOption(_ context.Context, o Option) (Option, error) {
	f.options[o.ID] = o
	return o, nil
}

func (f *fakeRepo) UpdateOption(_ context.Context, id string, o Option) error {
	if _, ok := f.options[id]; !ok {
		return shared.ErrNotFound
	}
	o.ID = id
	f.options[id] = o
	return nil
}

func (f *fakeRepo) DeleteOption(_ context.Context, id string) error {
	if _, ok := f.options[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.options, id)
	return nil
}

func seedDefinition(t *testing.T, svc *Service, name string, typ PropertyType) Definition {
	t.Helper()
	def, err := svc.CreateDefinition(context.Background(), Definition{
		Names: i18n.Localized{"en": name},
		Type:  typ,
	})
	require.NoError(t, err)
	return def
}

func TestCreateGroupRejectsUnknownDefinition(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateGroup(context.Background(), Group{
		Names:         i18n.Localized{"en": "Apparel"},
		DefinitionIDs: []string{"missing"},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateGroupWithoutDefinitionsStoresEmptyList(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.CreateGroup(ctx, Group{Names: i18n.Localized{"en": "Bare"}})
	require.NoError(t, err)

	got, err := svc.GetGroup(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DefinitionIDs)
	require.Empty(t, got.DefinitionIDs)

	require.NoError(t, svc.UpdateGroup(ctx, created.ID, Group{Names: i18n.Localized{"en": "Bare v2"}}))
	got, err = svc.GetGroup(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DefinitionIDs)
}

func TestCreateGroupLinksDefinitions(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	brand := seedDefinition(t, svc, "Brand", TypeText)
	color := seedDefinition(t, svc, "Color", TypeSelect)

	group, err := svc.CreateGroup(ctx, Group{
		Names:         i18n.Localized{"en": "Apparel"},
		DefinitionIDs: []string{brand.ID, color.ID},
	})
	require.NoError(t, err)
	require.Equal(t, []string{brand.ID, color.ID}, group.DefinitionIDs)
}

func TestCreateOptionRequiresSelectDefinition(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	text := seedDefinition(t, svc, "Brand", TypeText)
	sel := seedDefinition(t, svc, "Color", TypeSelect)

	_, err := svc.CreateOption(ctx, Option{
		Names:        i18n.Localized{"en": "Red"},
		DefinitionID: text.ID,
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateOption(ctx, Option{
		Names:        i18n.Localized{"en": "Red"},
		DefinitionID: "missing",
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	opt, err := svc.CreateOption(ctx, Option{
		Names:        i18n.Localized{"en": "Red"},
		Color:        "#d32f2f",
		DefinitionID: sel.ID,
	})
	require.NoError(t, err)
	require.Equal(t, sel.ID, opt.DefinitionID)

	listed, err := svc.ListOptions(ctx, sel.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestResolveType(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	def := seedDefinition(t, svc, "Count", TypeNumber)

	typ, err := svc.ResolveType(ctx, def.ID)
	require.NoError(t, err)
	require.Equal(t, "number", typ)

	_, err = svc.ResolveType(ctx, "missing")
	require.Error(t, err)
}

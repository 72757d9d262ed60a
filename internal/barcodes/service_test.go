package barcodes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stocktag/stocktag/internal/shared"
)

// fakeRepo keeps barcodes in memory and interprets the same filter fields
// the SQL repository compiles.
type fakeRepo struct {
	records map[string]Barcode
	seq     int64

	insertErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]Barcode{}}
}

func (r *fakeRepo) List(_ context.Context, filters Filters, sorters Sorters) ([]Barcode, error) {
	var out []Barcode
	for _, b := range r.records {
		if b.Removed {
			continue
		}
		if !matchFilters(b, filters) {
			continue
		}
		out = append(out, b)
	}
	dir := sorters["code"]
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			if dir == "desc" {
				return out[i].Code > out[j].Code
			}
			return out[i].Code < out[j].Code
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matchFilters(b Barcode, filters Filters) bool {
	if raw, ok := filters["ids"]; ok {
		ids, _ := stringSet(raw)
		found := false
		for _, id := range ids {
			if id == b.ID {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if raw, ok := filters["code"]; ok {
		if sub, _ := raw.(string); sub != "" && !strings.Contains(b.Code, sub) {
			return false
		}
	}
	return true
}

func (r *fakeRepo) Get(_ context.Context, id string) (Barcode, error) {
	b, ok := r.records[id]
	if !ok || b.Removed {
		return Barcode{}, shared.ErrNotFound
	}
	return b, nil
}

func (r *fakeRepo) Insert(_ context.Context, b Barcode) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, existing := range r.records {
		if existing.Code == b.Code {
			return shared.ErrDuplicateCode
		}
	}
	r.records[b.ID] = b
	return nil
}

func (r *fakeRepo) Update(_ context.Context, b Barcode) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	old, ok := r.records[b.ID]
	if !ok || old.Removed {
		return shared.ErrNotFound
	}
	b.Removed = old.Removed
	r.records[b.ID] = b
	return nil
}

func (r *fakeRepo) MarkRemoved(_ context.Context, ids []string) (int64, error) {
	var affected int64
	for _, id := range ids {
		b, ok := r.records[id]
		if !ok || b.Removed {
			continue
		}
		b.Removed = true
		r.records[id] = b
		affected++
	}
	return affected, nil
}

func (r *fakeRepo) NextSequence(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *fakeRepo) References(_ context.Context, _ []string) (RefSet, error) {
	return emptyRefSet(), nil
}

// fakeIndex mirrors the back-reference column: product id → barcode ids.
type fakeIndex struct {
	refs    map[string][]string
	pushErr error
	pullErr error
	pulls   []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{refs: map[string][]string{}}
}

func (i *fakeIndex) Push(_ context.Context, barcodeID string, productIDs []string) error {
	if i.pushErr != nil {
		return i.pushErr
	}
	for _, pid := range productIDs {
		present := false
		for _, bid := range i.refs[pid] {
			if bid == barcodeID {
				present = true
			}
		}
		if !present {
			i.refs[pid] = append(i.refs[pid], barcodeID)
		}
	}
	return nil
}

func (i *fakeIndex) Pull(_ context.Context, barcodeID string) error {
	if i.pullErr != nil {
		return i.pullErr
	}
	i.pulls = append(i.pulls, barcodeID)
	for pid, bids := range i.refs {
		kept := bids[:0]
		for _, bid := range bids {
			if bid != barcodeID {
				kept = append(kept, bid)
			}
		}
		i.refs[pid] = kept
	}
	return nil
}

func (i *fakeIndex) Rebuild(_ context.Context, _ []string) error { return nil }

type fakeLabels struct {
	lastSize     string
	lastLanguage string
}

func (l *fakeLabels) Render(_ context.Context, view View, size, language string) ([]byte, error) {
	l.lastSize = size
	l.lastLanguage = language
	return []byte("pdf:" + view.Code), nil
}

type fakeRepairs struct {
	enqueued [][]string
}

func (q *fakeRepairs) EnqueueBackrefRepair(_ context.Context, productIDs []string) error {
	q.enqueued = append(q.enqueued, productIDs)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeIndex, *fakeLabels, *fakeRepairs) {
	t.Helper()
	repo := newFakeRepo()
	index := newFakeIndex()
	labels := &fakeLabels{}
	repairs := &fakeRepairs{}
	svc := NewService(repo, index, labels, repairs, slog.New(slog.NewTextHandler(io.Discard, nil)), ServiceConfig{})
	return svc, repo, index, labels, repairs
}

func TestCreateGeneratesSequentialCodes(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)

	require.Equal(t, "2240000000001", first.Code)
	require.Equal(t, "2240000000002", second.Code)
	require.True(t, first.Active)
}

func TestGenerateCodeFormat(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	repo.seq = 41

	code, err := svc.GenerateCode(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2240000000042", code)
	require.Len(t, code, 13)
}

func TestCreatePushesBackReferences(t *testing.T) {
	svc, _, index, _, _ := newTestService(t)

	view, err := svc.Create(context.Background(), CreateInput{
		Code: "manual-1",
		Products: []ProductRef{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 1},
			{ProductID: "p-1", Quantity: 5}, // duplicate, dropped
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{view.ID}, index.refs["p-1"])
	require.Equal(t, []string{view.ID}, index.refs["p-2"])
}

func TestCreateSucceedsOnPushFailure(t *testing.T) {
	svc, repo, index, _, repairs := newTestService(t)
	index.pushErr = errors.New("products table unavailable")

	view, err := svc.Create(context.Background(), CreateInput{
		Code:     "manual-1",
		Products: []ProductRef{{ProductID: "p-1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Contains(t, repo.records, view.ID)
	require.Equal(t, [][]string{{"p-1"}}, repairs.enqueued)
}

func TestEditMovesBackReferences(t *testing.T) {
	svc, _, index, _, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Code:     "manual-1",
		Products: []ProductRef{{ProductID: "p-old", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Edit(ctx, view.ID, "manual-1", []ProductRef{{ProductID: "p-new", Quantity: 1}}, nil)
	require.NoError(t, err)

	require.Empty(t, index.refs["p-old"])
	require.Equal(t, []string{view.ID}, index.refs["p-new"])
}

func TestEditUpdateFailureReportsRepair(t *testing.T) {
	svc, repo, _, _, repairs := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Code:     "manual-1",
		Products: []ProductRef{{ProductID: "p-1", Quantity: 1}},
	})
	require.NoError(t, err)

	repo.updateErr = errors.New("write failed")
	_, err = svc.Edit(ctx, view.ID, "manual-2", nil, nil)
	require.Error(t, err)
	// old references were already pulled, so the affected products are queued
	require.Equal(t, [][]string{{"p-1"}}, repairs.enqueued)
}

func TestEditPullFailureAborts(t *testing.T) {
	svc, _, index, _, repairs := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{Code: "manual-1"})
	require.NoError(t, err)

	index.pullErr = errors.New("pull failed")
	_, err = svc.Edit(ctx, view.ID, "manual-2", nil, nil)
	require.Error(t, err)
	require.Empty(t, repairs.enqueued)
}

func TestRemovePullsBackReferences(t *testing.T) {
	svc, repo, index, _, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Code:     "manual-1",
		Products: []ProductRef{{ProductID: "p-1", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, []string{view.ID}))
	require.True(t, repo.records[view.ID].Removed)
	require.Empty(t, index.refs["p-1"])
	require.Equal(t, []string{view.ID}, index.pulls)
}

func TestRemoveNothingMatched(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	err := svc.Remove(context.Background(), []string{"missing"})
	require.ErrorIs(t, err, shared.ErrNotRemoved)
}

func TestRemoveRequiresIDs(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	err := svc.Remove(context.Background(), nil)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetCountMatchesAcrossPages(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateInput{Code: fmt.Sprintf("code-%d", i)})
		require.NoError(t, err)
	}

	var collected []string
	for page := 1; page <= 3; page++ {
		views, total, err := svc.Get(ctx, shared.PageRequest{Current: page, PageSize: 2}, nil, Sorters{"code": "asc"})
		require.NoError(t, err)
		require.Equal(t, 5, total)
		for _, v := range views {
			collected = append(collected, v.Code)
		}
	}

	full, total, err := svc.Get(ctx, shared.PageRequest{Full: true}, nil, Sorters{"code": "asc"})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, full, 5)

	var fullCodes []string
	for _, v := range full {
		fullCodes = append(fullCodes, v.Code)
	}
	require.Equal(t, fullCodes, collected)
	require.True(t, sort.StringsAreSorted(fullCodes))
}

func TestGetPastLastPageIsEmpty(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "only"})
	require.NoError(t, err)

	views, total, err := svc.Get(ctx, shared.PageRequest{Current: 9, PageSize: 10}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Empty(t, views)
}

func TestPrint(t *testing.T) {
	svc, _, _, labels, _ := newTestService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{Code: "manual-1"})
	require.NoError(t, err)

	doc, err := svc.Print(ctx, view.ID, "60x30", "ru")
	require.NoError(t, err)
	require.Equal(t, []byte("pdf:manual-1"), doc)
	require.Equal(t, "60x30", labels.lastSize)
	require.Equal(t, "ru", labels.lastLanguage)
}

func TestPrintNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	_, err := svc.Print(context.Background(), "missing", "compact", "en")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceClockDrivesTimestamps(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	view, err := svc.Create(context.Background(), CreateInput{Code: "manual-1"})
	require.NoError(t, err)
	require.Equal(t, fixed, repo.records[view.ID].CreatedAt)
	require.Equal(t, fixed, repo.records[view.ID].UpdatedAt)
}

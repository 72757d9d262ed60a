package barcodes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stocktag/stocktag/internal/shared"
)

// ServiceConfig carries per-deployment assembly settings.
type ServiceConfig struct {
	ImageBaseURL string
}

// Service implements the barcode operations: the assembled listing, the
// mutation workflows with back-reference maintenance, code generation and
// label printing.
type Service struct {
	repo      Repository
	index     ReferenceIndex
	labels    LabelRenderer
	repairs   RepairQueue
	logger    *slog.Logger
	assembler Assembler
	now       func() time.Time
}

func NewService(repo Repository, index ReferenceIndex, labels LabelRenderer, repairs RepairQueue, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		index:     index,
		labels:    labels,
		repairs:   repairs,
		logger:    logger,
		assembler: Assembler{ImageBaseURL: cfg.ImageBaseURL},
		now:       time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CreateInput is the payload of Create. A nil Active defaults to true; a
// blank Code is auto-generated.
type CreateInput struct {
	Code     string
	Products []ProductRef
	Active   *bool
}

// Get returns one page of assembled barcode views plus the total count of
// matching roots. Both come from the same filtered, sorted row set: the
// repository fetches every matching row in one query, the count is its
// length, and only the requested slice is assembled.
func (s *Service) Get(ctx context.Context, page shared.PageRequest, filters Filters, sorters Sorters) ([]View, int, error) {
	rows, err := s.repo.List(ctx, filters, sorters)
	if err != nil {
		return nil, 0, err
	}
	total := len(rows)

	start, end := page.Normalize().Slice(total)
	pageRows := rows[start:end]

	views, err := s.assemble(ctx, pageRows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Create inserts a new barcode and then pushes its id into every
// referenced product. The two writes are sequential and not atomic; a
// push failure leaves the barcode in place and raises a repair event.
func (s *Service) Create(ctx context.Context, input CreateInput) (View, error) {
	refs := dedupeRefs(input.Products)

	code := input.Code
	if code == "" {
		var err error
		code, err = s.GenerateCode(ctx)
		if err != nil {
			return View{}, err
		}
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := s.now().UTC()
	rec := Barcode{
		ID:        uuid.NewString(),
		Code:      code,
		Products:  refs,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return View{}, err
	}

	if err := s.index.Push(ctx, rec.ID, rec.ProductIDs()); err != nil {
		s.reportRepair(ctx, "create", rec.ID, rec.ProductIDs(), err)
	}
	return s.assembleOne(ctx, rec)
}

// Edit replaces code, product references and active flag. The workflow is
// pull old references, overwrite the record, push new references; each
// later step failing after an earlier one committed raises a repair event.
func (s *Service) Edit(ctx context.Context, id, code string, productRefs []ProductRef, active *bool) (View, error) {
	old, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}

	refs := dedupeRefs(productRefs)
	newActive := old.Active
	if active != nil {
		newActive = *active
	}

	if err := s.index.Pull(ctx, old.ID); err != nil {
		// nothing committed yet, safe to fail the request outright
		return View{}, fmt.Errorf("barcodes: pull back-references: %w", err)
	}

	rec := Barcode{
		ID:        old.ID,
		Code:      code,
		Products:  refs,
		Active:    newActive,
		CreatedAt: old.CreatedAt,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		// old references already pulled, record not replaced
		s.reportRepair(ctx, "edit", rec.ID, old.ProductIDs(), err)
		return View{}, err
	}

	if err := s.index.Push(ctx, rec.ID, rec.ProductIDs()); err != nil {
		s.reportRepair(ctx, "edit", rec.ID, rec.ProductIDs(), err)
	}
	return s.assembleOne(ctx, rec)
}

// Remove soft-deletes the given barcodes and pulls their ids from every
// referencing product. Reports ErrNotRemoved when nothing matched.
func (s *Service) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids are required", shared.ErrValidation)
	}
	affected, err := s.repo.MarkRemoved(ctx, ids)
	if err != nil {
		return err
	}
	if affected == 0 {
		return shared.ErrNotRemoved
	}
	for _, id := range ids {
		if err := s.index.Pull(ctx, id); err != nil {
			s.reportRepair(ctx, "remove", id, nil, err)
		}
	}
	return nil
}

// Print assembles exactly one barcode (full view, filtered by id) and
// hands it to the label renderer.
func (s *Service) Print(ctx context.Context, id, size, language string) ([]byte, error) {
	views, _, err := s.Get(ctx, shared.PageRequest{Full: true}, Filters{"ids": []string{id}}, nil)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, shared.ErrNotFound
	}
	return s.labels.Render(ctx, views[0], size, language)
}

// GenerateCode mints the next sequential barcode code: the fixed prefix
// plus the zero-padded counter value.
func (s *Service) GenerateCode(ctx context.Context) (string, error) {
	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%010d", CodePrefix, seq), nil
}

func (s *Service) assemble(ctx context.Context, rows []Barcode) ([]View, error) {
	ids := newIDSet()
	for _, b := range rows {
		ids.add(b.ProductIDs()...)
	}
	refs, err := s.repo.References(ctx, ids.list())
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(rows, refs), nil
}

func (s *Service) assembleOne(ctx context.Context, rec Barcode) (View, error) {
	views, err := s.assemble(ctx, []Barcode{rec})
	if err != nil {
		return View{}, err
	}
	if len(views) == 0 {
		return View{}, shared.ErrNotFound
	}
	return views[0], nil
}

// reportRepair records a partial-write inconsistency between the barcode
// record and the product back-reference, and queues a rebuild for the
// affected products.
func (s *Service) reportRepair(ctx context.Context, op, barcodeID string, productIDs []string, cause error) {
	s.logger.Error("barcode back-reference out of sync, repair needed",
		slog.String("op", op),
		slog.String("barcode_id", barcodeID),
		slog.Any("product_ids", productIDs),
		slog.Any("error", cause),
	)
	if s.repairs == nil {
		return
	}
	if err := s.repairs.EnqueueBackrefRepair(ctx, productIDs); err != nil {
		s.logger.Error("enqueue back-reference repair failed", slog.Any("error", err))
	}
}

// dedupeRefs keeps the first reference per product id; a barcode's product
// list is unique by product.
func dedupeRefs(refs []ProductRef) []ProductRef {
	seen := make(map[string]struct{}, len(refs))
	out := make([]ProductRef, 0, len(refs))
	for _, ref := range refs {
		if ref.ProductID == "" {
			continue
		}
		if _, ok := seen[ref.ProductID]; ok {
			continue
		}
		seen[ref.ProductID] = struct{}{}
		out = append(out, ref)
	}
	return out
}

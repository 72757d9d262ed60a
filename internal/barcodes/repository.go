package barcodes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/stocktag/stocktag/internal/masterdata/categories"
	"github.com/stocktag/stocktag/internal/masterdata/currencies"
	"github.com/stocktag/stocktag/internal/masterdata/properties"
	"github.com/stocktag/stocktag/internal/masterdata/units"
	"github.com/stocktag/stocktag/internal/products"
	"github.com/stocktag/stocktag/internal/shared"
)

const uniqueViolation = "23505"

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres-backed barcode repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const barcodeColumns = `id, code, products, active, removed, created_at, updated_at`

func scanBarcode(row pgx.Row) (Barcode, error) {
	var b Barcode
	err := row.Scan(&b.ID, &b.Code, &b.Products, &b.Active, &b.Removed, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// List executes the compiled predicate and sort as one query and returns
// every matching row. Slicing happens upstream so that the page and the
// total count come from the same snapshot.
func (r *repository) List(ctx context.Context, filters Filters, sorters Sorters) ([]Barcode, error) {
	conds, args, err := CompileFilter(barcodeFilterSchema, filters, 1)
	if err != nil {
		return nil, err
	}
	order, err := CompileSort(sorters)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + barcodeColumns + ` FROM barcodes WHERE removed = FALSE`
	for _, cond := range conds {
		query += ` AND ` + cond
	}
	query += ` ` + order

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Barcode
	for rows.Next() {
		b, err := scanBarcode(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Barcode, error) {
	b, err := scanBarcode(r.db.QueryRow(ctx,
		`SELECT `+barcodeColumns+` FROM barcodes WHERE id = $1 AND removed = FALSE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Barcode{}, shared.ErrNotFound
	}
	return b, err
}

func (r *repository) Insert(ctx context.Context, barcode Barcode) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO barcodes (id, code, products, product_ids, active, removed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)`,
		barcode.ID, barcode.Code, barcode.Products, barcode.ProductIDs(),
		barcode.Active, barcode.CreatedAt, barcode.UpdatedAt)
	if isUniqueViolation(err) {
		return shared.ErrDuplicateCode
	}
	return err
}

func (r *repository) Update(ctx context.Context, barcode Barcode) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE barcodes SET code = $1, products = $2, product_ids = $3, active = $4, updated_at = $5
		 WHERE id = $6 AND removed = FALSE`,
		barcode.Code, barcode.Products, barcode.ProductIDs(), barcode.Active, barcode.UpdatedAt, barcode.ID)
	if isUniqueViolation(err) {
		return shared.ErrDuplicateCode
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) MarkRemoved(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE barcodes SET removed = TRUE, updated_at = $1 WHERE id = ANY($2) AND removed = FALSE`,
		time.Now().UTC(), ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// NextSequence increments the "barcodes" counter and returns the new value.
func (r *repository) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO counters (id, seq) VALUES ('barcodes', 1)
		 ON CONFLICT (id) DO UPDATE SET seq = counters.seq + 1
		 RETURNING seq`).Scan(&seq)
	return seq, err
}

// References batch-fetches every reference record the assembler needs for
// the given products: the products themselves first, then their currency,
// unit, category, group, definition and option dependencies in parallel.
func (r *repository) References(ctx context.Context, productIDs []string) (RefSet, error) {
	refs := RefSet{
		Products:    map[string]products.Product{},
		Currencies:  map[string]currencies.Currency{},
		Units:       map[string]units.Unit{},
		Categories:  map[string]categories.Category{},
		Groups:      map[string]properties.Group{},
		Definitions: map[string]properties.Definition{},
		Options:     map[string]properties.Option{},
	}
	if len(productIDs) == 0 {
		return refs, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, names, price, currency_id, purchase_price, purchase_currency_id, category_ids,
		        unit_id, images, product_property_group_id, properties, barcode_ids, removed, created_at, updated_at
		 FROM products WHERE id = ANY($1) AND removed = FALSE`, productIDs)
	if err != nil {
		return RefSet{}, err
	}
	for rows.Next() {
		var p products.Product
		if err := rows.Scan(&p.ID, &p.Names, &p.Price, &p.CurrencyID, &p.PurchasePrice, &p.PurchaseCurrencyID,
			&p.CategoryIDs, &p.UnitID, &p.Images, &p.PropertyGroupID, &p.Properties, &p.BarcodeIDs,
			&p.Removed, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return RefSet{}, err
		}
		refs.Products[p.ID] = p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return RefSet{}, err
	}

	currencyIDs := newIDSet()
	unitIDs := newIDSet()
	categoryIDs := newIDSet()
	groupIDs := newIDSet()
	definitionIDs := newIDSet()
	optionIDs := newIDSet()
	for _, p := range refs.Products {
		currencyIDs.add(p.CurrencyID, p.PurchaseCurrencyID)
		unitIDs.add(p.UnitID)
		categoryIDs.add(p.CategoryIDs...)
		groupIDs.add(p.PropertyGroupID)
		for _, pv := range p.Properties {
			definitionIDs.add(pv.DefinitionID)
			optionIDs.add(pv.OptionIDs()...)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.fetchCurrencies(gctx, currencyIDs.list(), refs.Currencies) })
	g.Go(func() error { return r.fetchUnits(gctx, unitIDs.list(), refs.Units) })
	g.Go(func() error { return r.fetchCategories(gctx, categoryIDs.list(), refs.Categories) })
	g.Go(func() error { return r.fetchGroups(gctx, groupIDs.list(), refs.Groups) })
	g.Go(func() error { return r.fetchDefinitions(gctx, definitionIDs.list(), refs.Definitions) })
	g.Go(func() error { return r.fetchOptions(gctx, optionIDs.list(), refs.Options) })
	if err := g.Wait(); err != nil {
		return RefSet{}, err
	}
	return refs, nil
}

func (r *repository) fetchCurrencies(ctx context.Context, ids []string, out map[string]currencies.Currency) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, names, symbols FROM currencies WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c currencies.Currency
		if err := rows.Scan(&c.ID, &c.Names, &c.Symbols); err != nil {
			return err
		}
		out[c.ID] = c
	}
	return rows.Err()
}

func (r *repository) fetchUnits(ctx context.Context, ids []string, out map[string]units.Unit) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, names, symbols FROM units WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var u units.Unit
		if err := rows.Scan(&u.ID, &u.Names, &u.Symbols); err != nil {
			return err
		}
		out[u.ID] = u
	}
	return rows.Err()
}

func (r *repository) fetchCategories(ctx context.Context, ids []string, out map[string]categories.Category) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, names FROM categories WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c categories.Category
		if err := rows.Scan(&c.ID, &c.Names); err != nil {
			return err
		}
		out[c.ID] = c
	}
	return rows.Err()
}

func (r *repository) fetchGroups(ctx context.Context, ids []string, out map[string]properties.Group) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, names FROM product_property_groups WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var g properties.Group
		if err := rows.Scan(&g.ID, &g.Names); err != nil {
			return err
		}
		out[g.ID] = g
	}
	return rows.Err()
}

func (r *repository) fetchDefinitions(ctx context.Context, ids []string, out map[string]properties.Definition) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, names, type, is_required, show_in_table FROM product_property_definitions WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var d properties.Definition
		if err := rows.Scan(&d.ID, &d.Names, &d.Type, &d.IsRequired, &d.ShowInTable); err != nil {
			return err
		}
		out[d.ID] = d
	}
	return rows.Err()
}

func (r *repository) fetchOptions(ctx context.Context, ids []string, out map[string]properties.Option) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, names, COALESCE(color, '') FROM product_property_options WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var o properties.Option
		if err := rows.Scan(&o.ID, &o.Names, &o.Color); err != nil {
			return err
		}
		out[o.ID] = o
	}
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type idSet map[string]struct{}

func newIDSet() idSet { return idSet{} }

func (s idSet) add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
}

func (s idSet) list() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

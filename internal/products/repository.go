package products

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktag/stocktag/internal/i18n"
	"github.com/stocktag/stocktag/internal/shared"
)

// ListFilters narrows the product listing.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	BarcodeID  string
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id string) (Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id string, product Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, names, price, currency_id, purchase_price, purchase_currency_id, category_ids, unit_id, images, product_property_group_id, properties, barcode_ids, removed, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Names, &p.Price, &p.CurrencyID, &p.PurchasePrice, &p.PurchaseCurrencyID,
		&p.CategoryIDs, &p.UnitID, &p.Images, &p.PropertyGroupID, &p.Properties, &p.BarcodeIDs,
		&p.Removed, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = 10
	}

	where := ` FROM products WHERE removed = FALSE`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND names->>'` + i18n.DefaultLanguage + `' ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CategoryID != "" {
		argCount++
		where += ` AND $` + strconv.Itoa(argCount) + ` = ANY(category_ids)`
		args = append(args, filters.CategoryID)
	}
	if filters.BarcodeID != "" {
		argCount++
		where += ` AND $` + strconv.Itoa(argCount) + ` = ANY(barcode_ids)`
		args = append(args, filters.BarcodeID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + where +
		` ORDER BY names->>'` + i18n.DefaultLanguage + `'` +
		` LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND removed = FALSE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) GetByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) AND removed = FALSE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, $13, $13)`,
		product.ID, product.Names, product.Price, product.CurrencyID, product.PurchasePrice,
		product.PurchaseCurrencyID, product.CategoryIDs, product.UnitID, product.Images,
		product.PropertyGroupID, product.Properties, product.BarcodeIDs, now)
	if err != nil {
		return Product{}, err
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, id string, product Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET names = $1, price = $2, currency_id = $3, purchase_price = $4,
			purchase_currency_id = $5, category_ids = $6, unit_id = $7, images = $8,
			product_property_group_id = $9, properties = $10, updated_at = $11
		WHERE id = $12 AND removed = FALSE`,
		product.Names, product.Price, product.CurrencyID, product.PurchasePrice,
		product.PurchaseCurrencyID, product.CategoryIDs, product.UnitID, product.Images,
		product.PropertyGroupID, product.Properties, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET removed = TRUE, updated_at = $1 WHERE id = $2 AND removed = FALSE`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

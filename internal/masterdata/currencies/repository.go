package currencies

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktag/stocktag/internal/i18n"
	mdshared "github.com/stocktag/stocktag/internal/masterdata/shared"
	"github.com/stocktag/stocktag/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Currency, int, error)
	Get(ctx context.Context, id string) (Currency, error)
	Create(ctx context.Context, currency Currency) (Currency, error)
	Update(ctx context.Context, id string, currency Currency) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectColumns = `id, names, symbols, removed, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Currency, int, error) {
	filters = filters.Normalize()

	query := `SELECT ` + selectColumns + ` FROM currencies WHERE removed = FALSE`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND names->>'` + i18n.DefaultLanguage + `' ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM currencies WHERE removed = FALSE`
	countArgs := []interface{}{}
	if filters.Search != "" {
		countQuery += ` AND names->>'` + i18n.DefaultLanguage + `' ILIKE $1`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)

	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.Limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, (filters.Page-1)*filters.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Currency
	for rows.Next() {
		var c Currency
		if err := rows.Scan(&c.ID, &c.Names, &c.Symbols, &c.Removed, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Currency, error) {
	query := `SELECT ` + selectColumns + ` FROM currencies WHERE id = $1 AND removed = FALSE`
	var c Currency
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Names, &c.Symbols, &c.Removed, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Currency{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, currency Currency) (Currency, error) {
	query := `INSERT INTO currencies (id, names, symbols, removed, created_at, updated_at) VALUES ($1, $2, $3, FALSE, $4, $4)`
	now := time.Now().UTC()
	if _, err := r.db.Exec(ctx, query, currency.ID, currency.Names, currency.Symbols, now); err != nil {
		return Currency{}, err
	}
	currency.CreatedAt = now
	currency.UpdatedAt = now
	return currency, nil
}

func (r *repository) Update(ctx context.Context, id string, currency Currency) error {
	query := `UPDATE currencies SET names = $1, symbols = $2, updated_at = $3 WHERE id = $4 AND removed = FALSE`
	tag, err := r.db.Exec(ctx, query, currency.Names, currency.Symbols, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `UPDATE currencies SET removed = TRUE, updated_at = $1 WHERE id = $2 AND removed = FALSE`
	tag, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == mdshared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "created_at":
		return "created_at " + dir
	default:
		return "names->>'" + i18n.DefaultLanguage + "' " + dir
	}
}

package categories

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
	List(ctx context.Context, filters mdshared.ListFilters) ([]Category, int, error)
	Get(ctx context.Context, id string) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id string, category Category) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Category, int, error) {
	filters = filters.Normalize()

	where := ` FROM categories WHERE removed = FALSE`
	args := []interface{}{}
	if filters.Search != "" {
		where += ` AND names->>'` + i18n.DefaultLanguage + `' ILIKE $1`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filters.SortDir == mdshared.SortDesc {
		dir = "DESC"
	}
	query := `SELECT id, names, removed, created_at, updated_at` + where +
		` ORDER BY names->>'` + i18n.DefaultLanguage + `' ` + dir +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Names, &c.Removed, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx,
		`SELECT id, names, removed, created_at, updated_at FROM categories WHERE id = $1 AND removed = FALSE`, id).
		Scan(&c.ID, &c.Names, &c.Removed, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, names, removed, created_at, updated_at) VALUES ($1, $2, FALSE, $3, $3)`,
		category.ID, category.Names, now)
	if err != nil {
		return Category{}, err
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return category, nil
}

func (r *repository) Update(ctx context.Context, id string, category Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET names = $1, updated_at = $2 WHERE id = $3 AND removed = FALSE`,
		category.Names, time.Now().UTC(), id)
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
		`UPDATE categories SET removed = TRUE, updated_at = $1 WHERE id = $2 AND removed = FALSE`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

package units

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
	List(ctx context.Context, filters mdshared.ListFilters) ([]Unit, int, error)
	Get(ctx context.Context, id string) (Unit, error)
	Create(ctx context.Context, unit Unit) (Unit, error)
	Update(ctx context.Context, id string, unit Unit) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Unit, int, error) {
	filters = filters.Normalize()

	where := ` FROM units WHERE removed = FALSE`
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
	query := `SELECT id, names, symbols, removed, created_at, updated_at` + where +
		` ORDER BY names->>'` + i18n.DefaultLanguage + `' ` + dir +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Names, &u.Symbols, &u.Removed, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Unit, error) {
	var u Unit
	err := r.db.QueryRow(ctx,
		`SELECT id, names, symbols, removed, created_at, updated_at FROM units WHERE id = $1 AND removed = FALSE`, id).
		Scan(&u.ID, &u.Names, &u.Symbols, &u.Removed, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Unit{}, shared.ErrNotFound
	}
	return u, err
}

func (r *repository) Create(ctx context.Context, unit Unit) (Unit, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO units (id, names, symbols, removed, created_at, updated_at) VALUES ($1, $2, $3, FALSE, $4, $4)`,
		unit.ID, unit.Names, unit.Symbols, now)
	if err != nil {
		return Unit{}, err
	}
	unit.CreatedAt = now
	unit.UpdatedAt = now
	return unit, nil
}

func (r *repository) Update(ctx context.Context, id string, unit Unit) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE units SET names = $1, symbols = $2, updated_at = $3 WHERE id = $4 AND removed = FALSE`,
		unit.Names, unit.Symbols, time.Now().UTC(), id)
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
		`UPDATE units SET removed = TRUE, updated_at = $1 WHERE id = $2 AND removed = FALSE`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

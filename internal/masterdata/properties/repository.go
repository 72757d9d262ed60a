package properties

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocktag/stocktag/internal/shared"
)

type Repository interface {
	ListGroups(ctx context.Context) ([]Group, error)
	GetGroup(ctx context.Context, id string) (Group, error)
	CreateGroup(ctx context.Context, group Group) (Group, error)
	UpdateGroup(ctx context.Context, id string, group Group) error
	DeleteGroup(ctx context.Context, id string) error

	ListDefinitions(ctx context.Context) ([]Definition, error)
	GetDefinition(ctx context.Context, id string) (Definition, error)
	CreateDefinition(ctx context.Context, def Definition) (Definition, error)
	UpdateDefinition(ctx context.Context, id string, def Definition) error
	DeleteDefinition(ctx context.Context, id string) error

	ListOptions(ctx context.Context, definitionID string) ([]Option, error)
	CreateOption(ctx context.Context, option Option) (Option, error)
	UpdateOption(ctx context.Context, id string, option Option) error
	DeleteOption(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListGroups(ctx context.Context) ([]Group, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, names, definition_ids, removed, created_at, updated_at FROM product_property_groups WHERE removed = FALSE ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Names, &g.DefinitionIDs, &g.Removed, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *repository) GetGroup(ctx context.Context, id string) (Group, error) {
	var g Group
	err := r.db.QueryRow(ctx,
		`SELECT id, names, definition_ids, removed, created_at, updated_at FROM product_property_groups WHERE id = $1 AND removed = FALSE`, id).
		Scan(&g.ID, &g.Names, &g.DefinitionIDs, &g.Removed, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Group{}, shared.ErrNotFound
	}
	return g, err
}

func (r *repository) CreateGroup(ctx context.Context, group Group) (Group, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_property_groups (id, names, definition_ids, removed, created_at, updated_at) VALUES ($1, $2, $3, FALSE, $4, $4)`,
		group.ID, group.Names, group.DefinitionIDs, now)
	if err != nil {
		return Group{}, err
	}
	group.CreatedAt = now
	group.UpdatedAt = now
	return group, nil
}

func (r *repository) UpdateGroup(ctx context.Context, id string, group Group) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE product_property_groups SET names = $1, definition_ids = $2, updated_at = $3 WHERE id = $4 AND removed = FALSE`,
		group.Names, group.DefinitionIDs, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteGroup(ctx context.Context, id string) error {
	return r.softDelete(ctx, `product_property_groups`, id)
}

func (r *repository) ListDefinitions(ctx context.Context) ([]Definition, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, names, type, is_required, show_in_table, removed, created_at, updated_at FROM product_property_definitions WHERE removed = FALSE ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.Names, &d.Type, &d.IsRequired, &d.ShowInTable, &d.Removed, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *repository) GetDefinition(ctx context.Context, id string) (Definition, error) {
	var d Definition
	err := r.db.QueryRow(ctx,
		`SELECT id, names, type, is_required, show_in_table, removed, created_at, updated_at FROM product_property_definitions WHERE id = $1 AND removed = FALSE`, id).
		Scan(&d.ID, &d.Names, &d.Type, &d.IsRequired, &d.ShowInTable, &d.Removed, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Definition{}, shared.ErrNotFound
	}
	return d, err
}

func (r *repository) CreateDefinition(ctx context.Context, def Definition) (Definition, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_property_definitions (id, names, type, is_required, show_in_table, removed, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)`,
		def.ID, def.Names, def.Type, def.IsRequired, def.ShowInTable, now)
	if err != nil {
		return Definition{}, err
	}
	def.CreatedAt = now
	def.UpdatedAt = now
	return def, nil
}

func (r *repository) UpdateDefinition(ctx context.Context, id string, def Definition) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE product_property_definitions SET names = $1, type = $2, is_required = $3, show_in_table = $4, updated_at = $5 WHERE id = $6 AND removed = FALSE`,
		def.Names, def.Type, def.IsRequired, def.ShowInTable, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteDefinition(ctx context.Context, id string) error {
	return r.softDelete(ctx, `product_property_definitions`, id)
}

func (r *repository) ListOptions(ctx context.Context, definitionID string) ([]Option, error) {
	query := `SELECT id, names, COALESCE(color, ''), definition_id, removed, created_at, updated_at FROM product_property_options WHERE removed = FALSE`
	args := []interface{}{}
	if definitionID != "" {
		query += ` AND definition_id = $1`
		args = append(args, definitionID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Option
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.Names, &o.Color, &o.DefinitionID, &o.Removed, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *repository) CreateOption(ctx context.Context, option Option) (Option, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_property_options (id, names, color, definition_id, removed, created_at, updated_at) VALUES ($1, $2, NULLIF($3, ''), $4, FALSE, $5, $5)`,
		option.ID, option.Names, option.Color, option.DefinitionID, now)
	if err != nil {
		return Option{}, err
	}
	option.CreatedAt = now
	option.UpdatedAt = now
	return option, nil
}

func (r *repository) UpdateOption(ctx context.Context, id string, option Option) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE product_property_options SET names = $1, color = NULLIF($2, ''), updated_at = $3 WHERE id = $4 AND removed = FALSE`,
		option.Names, option.Color, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteOption(ctx context.Context, id string) error {
	return r.softDelete(ctx, `product_property_options`, id)
}

func (r *repository) softDelete(ctx context.Context, table, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE `+table+` SET removed = TRUE, updated_at = $1 WHERE id = $2 AND removed = FALSE`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

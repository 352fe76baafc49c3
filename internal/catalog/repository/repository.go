package repository

import (
	"context"
	"errors"
	"fmt"

	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tentTypeNotFoundMessage = "tent type not found"
	productNotFoundMessage  = "product not found"
	extraNotFoundMessage    = "extra not found"

	uniqueViolation = "23505"
)

// tentTypeKeyExpr mirrors quote.KeyOf in SQL.
const tentTypeKeyExpr = `lower(regexp_replace(%s, '\s', '', 'g'))`

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const tentTypeColumns = `id, name, description, image_url, created_at, updated_at`

var (
	listTentTypesQuery = `
		SELECT ` + tentTypeColumns + `
		FROM tent_types
		ORDER BY created_at ASC, name ASC`

	findTentTypeByKeyQuery = fmt.Sprintf(`
		SELECT `+tentTypeColumns+`
		FROM tent_types
		WHERE `+tentTypeKeyExpr+` = $1
		LIMIT 1`, "name")

	renameProductsTypeQuery = `
		UPDATE products SET type = $2, updated_at = now()
		WHERE type = $1`
)

func scanTentType(row pgx.Row) (TentType, error) {
	var t TentType
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ImageURL, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListTentTypes returns tent types oldest first, the order customers see them.
func (r *Repo) ListTentTypes(ctx context.Context) ([]TentType, error) {
	rows, err := r.pool.Query(ctx, listTentTypesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tent types: %w", err)
	}
	defer rows.Close()

	items := make([]TentType, 0)
	for rows.Next() {
		t, err := scanTentType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tent type: %w", err)
		}
		items = append(items, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tent types: %w", rows.Err())
	}
	return items, nil
}

// GetTentType retrieves a tent type by id.
func (r *Repo) GetTentType(ctx context.Context, id uuid.UUID) (TentType, error) {
	t, err := scanTentType(r.pool.QueryRow(ctx,
		`SELECT `+tentTypeColumns+` FROM tent_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TentType{}, apperr.NotFound(tentTypeNotFoundMessage)
		}
		return TentType{}, fmt.Errorf("get tent type: %w", err)
	}
	return t, nil
}

// FindTentTypeByKey resolves a product's type reference.
func (r *Repo) FindTentTypeByKey(ctx context.Context, key quote.TentTypeKey) (TentType, error) {
	t, err := scanTentType(r.pool.QueryRow(ctx, findTentTypeByKeyQuery, string(key)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TentType{}, apperr.NotFound(tentTypeNotFoundMessage)
		}
		return TentType{}, fmt.Errorf("find tent type: %w", err)
	}
	return t, nil
}

// CreateTentType inserts a tent type.
func (r *Repo) CreateTentType(ctx context.Context, params TentTypeParams) (TentType, error) {
	t, err := scanTentType(r.pool.QueryRow(ctx, `
		INSERT INTO tent_types (name, description, image_url)
		VALUES ($1, $2, $3)
		RETURNING `+tentTypeColumns,
		params.Name, params.Description, params.ImageURL))
	if err != nil {
		if isUniqueViolation(err) {
			return TentType{}, tentTypeConflict(params.Name)
		}
		return TentType{}, fmt.Errorf("create tent type: %w", err)
	}
	return t, nil
}

// UpdateTentType updates a tent type and, when it is renamed, the type
// reference of its products in the same transaction.
func (r *Repo) UpdateTentType(ctx context.Context, id uuid.UUID, params TentTypeParams) (TentType, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return TentType{}, fmt.Errorf("begin update tent type: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldName string
	if err := tx.QueryRow(ctx, `SELECT name FROM tent_types WHERE id = $1 FOR UPDATE`, id).Scan(&oldName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TentType{}, apperr.NotFound(tentTypeNotFoundMessage)
		}
		return TentType{}, fmt.Errorf("lock tent type: %w", err)
	}

	t, err := scanTentType(tx.QueryRow(ctx, `
		UPDATE tent_types
		SET name = $2, description = $3, image_url = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+tentTypeColumns,
		id, params.Name, params.Description, params.ImageURL))
	if err != nil {
		if isUniqueViolation(err) {
			return TentType{}, tentTypeConflict(params.Name)
		}
		return TentType{}, fmt.Errorf("update tent type: %w", err)
	}

	if oldName != t.Name {
		if _, err := tx.Exec(ctx, renameProductsTypeQuery, oldName, t.Name); err != nil {
			return TentType{}, fmt.Errorf("rename product types: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return TentType{}, fmt.Errorf("commit update tent type: %w", err)
	}
	return t, nil
}

// DeleteTentType removes a tent type.
func (r *Repo) DeleteTentType(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tent_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tent type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(tentTypeNotFoundMessage)
	}
	return nil
}

// CountProductsOfType counts products referencing the tent type name.
func (r *Repo) CountProductsOfType(ctx context.Context, name string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE type = $1`, name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products of type: %w", err)
	}
	return n, nil
}

// Counts returns catalog sizes for the dashboard.
func (r *Repo) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM tent_types),
			(SELECT COUNT(*) FROM extras)`).Scan(&c.Products, &c.TentTypes, &c.Extras)
	if err != nil {
		return Counts{}, fmt.Errorf("count catalog: %w", err)
	}
	return c, nil
}

// tentTypeConflict covers both the exact name and a name that differs only
// in case or spacing, since both collide on the key index.
func tentTypeConflict(name string) error {
	return apperr.Conflict("a tent type with this name already exists").
		WithOp("catalog.save_tent_type").
		WithDetails(map[string]string{"key": string(quote.KeyOf(name))})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

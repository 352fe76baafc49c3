package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, type, size, price_cents, description, image_url, status, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var typ, status string
	err := row.Scan(&p.ID, &p.Name, &typ, &p.Size, &p.PriceCents, &p.Description,
		&p.ImageURL, &status, &p.CreatedAt, &p.UpdatedAt)
	p.Type = quote.TentTypeRef(typ)
	p.Status = quote.ProductStatus(status)
	return p, err
}

// ListProducts returns products newest first, optionally narrowed to the
// given tent type keys.
func (r *Repo) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, error) {
	whereClauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	argIdx := 1

	if len(params.TypeKeys) > 0 {
		keys := make([]string, 0, len(params.TypeKeys))
		for _, k := range params.TypeKeys {
			keys = append(keys, string(quote.KeyOf(string(k))))
		}
		whereClauses = append(whereClauses, fmt.Sprintf(tentTypeKeyExpr+" = ANY($%d)", "type", argIdx))
		args = append(args, keys)
		argIdx++
	}
	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*params.Status))
		argIdx++
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+search+"%")
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC, name ASC`, productColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate products: %w", rows.Err())
	}
	return items, nil
}

// GetProduct retrieves a product by id.
func (r *Repo) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ExistingProductIDs reports which of ids are still in the catalog.
func (r *Repo) ExistingProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("check products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		found[id] = true
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate product ids: %w", rows.Err())
	}
	return found, nil
}

// CreateProduct inserts a product.
func (r *Repo) CreateProduct(ctx context.Context, params ProductParams) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		INSERT INTO products (name, type, size, price_cents, description, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		params.Name, params.Type, params.Size, params.PriceCents, params.Description,
		params.ImageURL, string(params.Status)))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces a product's editable fields.
func (r *Repo) UpdateProduct(ctx context.Context, id uuid.UUID, params ProductParams) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, type = $3, size = $4, price_cents = $5, description = $6,
			image_url = $7, status = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, params.Name, params.Type, params.Size, params.PriceCents, params.Description,
		params.ImageURL, string(params.Status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product. Enquiries keep their own snapshot.
func (r *Repo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

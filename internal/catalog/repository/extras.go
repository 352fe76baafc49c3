package repository

import (
	"context"
	"errors"
	"fmt"

	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const extraColumns = `id, name, description, type, price_cents, price_per_unit_cents,
	min_quantity, max_quantity, left_label, right_label, created_at, updated_at`

const listExtrasQuery = `
	SELECT ` + extraColumns + `
	FROM extras
	ORDER BY created_at DESC, name ASC`

func scanExtra(row pgx.Row) (quote.ExtraDefinition, error) {
	var d quote.ExtraDefinition
	var typ string
	err := row.Scan(&d.ID, &d.Name, &d.Description, &typ, &d.PriceCents, &d.PricePerUnitCents,
		&d.MinQuantity, &d.MaxQuantity, &d.LeftLabel, &d.RightLabel, &d.CreatedAt, &d.UpdatedAt)
	d.Type = quote.ExtraType(typ)
	return d, err
}

// ListExtras returns every extra, newest first.
func (r *Repo) ListExtras(ctx context.Context) ([]quote.ExtraDefinition, error) {
	rows, err := r.pool.Query(ctx, listExtrasQuery)
	if err != nil {
		return nil, fmt.Errorf("list extras: %w", err)
	}
	defer rows.Close()

	items := make([]quote.ExtraDefinition, 0)
	for rows.Next() {
		d, err := scanExtra(rows)
		if err != nil {
			return nil, fmt.Errorf("scan extra: %w", err)
		}
		items = append(items, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate extras: %w", rows.Err())
	}
	return items, nil
}

// GetExtra retrieves an extra by id.
func (r *Repo) GetExtra(ctx context.Context, id uuid.UUID) (quote.ExtraDefinition, error) {
	d, err := scanExtra(r.pool.QueryRow(ctx,
		`SELECT `+extraColumns+` FROM extras WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quote.ExtraDefinition{}, apperr.NotFound(extraNotFoundMessage)
		}
		return quote.ExtraDefinition{}, fmt.Errorf("get extra: %w", err)
	}
	return d, nil
}

// CreateExtra inserts an extra. The definition must already be validated.
func (r *Repo) CreateExtra(ctx context.Context, def quote.ExtraDefinition) (quote.ExtraDefinition, error) {
	d, err := scanExtra(r.pool.QueryRow(ctx, `
		INSERT INTO extras (name, description, type, price_cents, price_per_unit_cents,
			min_quantity, max_quantity, left_label, right_label)
		VALUES ($1, $2, $3, COALESCE($4, 0), $5, $6, $7, $8, $9)
		RETURNING `+extraColumns,
		def.Name, def.Description, string(def.Type), def.PriceCents, def.PricePerUnitCents,
		def.MinQuantity, def.MaxQuantity, def.LeftLabel, def.RightLabel))
	if err != nil {
		return quote.ExtraDefinition{}, fmt.Errorf("create extra: %w", err)
	}
	return d, nil
}

// UpdateExtra replaces an extra's editable fields.
func (r *Repo) UpdateExtra(ctx context.Context, def quote.ExtraDefinition) (quote.ExtraDefinition, error) {
	d, err := scanExtra(r.pool.QueryRow(ctx, `
		UPDATE extras
		SET name = $2, description = $3, type = $4, price_cents = COALESCE($5, 0), price_per_unit_cents = $6,
			min_quantity = $7, max_quantity = $8, left_label = $9, right_label = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING `+extraColumns,
		def.ID, def.Name, def.Description, string(def.Type), def.PriceCents, def.PricePerUnitCents,
		def.MinQuantity, def.MaxQuantity, def.LeftLabel, def.RightLabel))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quote.ExtraDefinition{}, apperr.NotFound(extraNotFoundMessage)
		}
		return quote.ExtraDefinition{}, fmt.Errorf("update extra: %w", err)
	}
	return d, nil
}

// DeleteExtra removes an extra. Open quotes referencing it price it as zero.
func (r *Repo) DeleteExtra(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM extras WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete extra: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(extraNotFoundMessage)
	}
	return nil
}

// Package repository persists enquiries in PostgreSQL. Product, extra and
// line item snapshots are stored as JSONB next to the contact columns.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tentquote_backend/internal/enquiries/domain"
	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const enquiryNotFoundMessage = "enquiry not found"

// Repository is the enquiry store.
type Repository interface {
	Create(ctx context.Context, enquiry domain.Enquiry) (domain.Enquiry, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Enquiry, error)
	List(ctx context.Context, filter domain.ListFilter, now time.Time) (domain.ListResult, error)
	// UpdateStatus is a single write; concurrent updates are last write wins.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Enquiry, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
	PopularTentTypes(ctx context.Context, limit int) ([]domain.TentTypePopularity, error)
}

// Repo implements Repository with pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new enquiries repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const enquiryColumns = `id, name, email, telephone, event_type, comments, send_brochure,
	event_date, venue_location, total_guests, formal_dining_seats,
	interested_in, selected_products, selected_extras, line_items,
	products_subtotal_cents, extras_subtotal_cents, total_cents,
	status, created_at, updated_at`

const (
	updateStatusQuery = `
		UPDATE enquiries SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + enquiryColumns

	countByStatusQuery = `
		SELECT status, COUNT(*) FROM enquiries GROUP BY status`

	popularTentTypesQuery = `
		SELECT p->>'type' AS tent_type, COUNT(*) AS selections
		FROM enquiries, jsonb_array_elements(selected_products) AS p
		WHERE p->>'type' IS NOT NULL AND p->>'type' <> ''
		GROUP BY tent_type
		ORDER BY selections DESC, tent_type ASC
		LIMIT $1`
)

type snapshotColumns struct {
	interestedIn     []byte
	selectedProducts []byte
	selectedExtras   []byte
	lineItems        []byte
}

func encodeSnapshots(e domain.Enquiry) (snapshotColumns, error) {
	var cols snapshotColumns
	var err error
	if cols.interestedIn, err = json.Marshal(nonNil(e.InterestedIn)); err != nil {
		return cols, fmt.Errorf("encode interested_in: %w", err)
	}
	if cols.selectedProducts, err = json.Marshal(nonNil(e.SelectedProducts)); err != nil {
		return cols, fmt.Errorf("encode selected_products: %w", err)
	}
	extras := e.SelectedExtras
	if extras == nil {
		extras = map[uuid.UUID]quote.SelectedExtraState{}
	}
	if cols.selectedExtras, err = json.Marshal(extras); err != nil {
		return cols, fmt.Errorf("encode selected_extras: %w", err)
	}
	if cols.lineItems, err = json.Marshal(nonNil(e.LineItems)); err != nil {
		return cols, fmt.Errorf("encode line_items: %w", err)
	}
	return cols, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanEnquiry(row pgx.Row) (domain.Enquiry, error) {
	var e domain.Enquiry
	var cols snapshotColumns
	var status string
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Telephone, &e.EventType, &e.Comments, &e.SendBrochure,
		&e.EventDate, &e.VenueLocation, &e.TotalGuests, &e.FormalDiningSeats,
		&cols.interestedIn, &cols.selectedProducts, &cols.selectedExtras, &cols.lineItems,
		&e.ProductsSubtotalCents, &e.ExtrasSubtotalCents, &e.TotalCents,
		&status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Enquiry{}, err
	}
	e.Status = domain.Status(status)

	if err := json.Unmarshal(cols.interestedIn, &e.InterestedIn); err != nil {
		return domain.Enquiry{}, fmt.Errorf("decode interested_in: %w", err)
	}
	if err := json.Unmarshal(cols.selectedProducts, &e.SelectedProducts); err != nil {
		return domain.Enquiry{}, fmt.Errorf("decode selected_products: %w", err)
	}
	if err := json.Unmarshal(cols.selectedExtras, &e.SelectedExtras); err != nil {
		return domain.Enquiry{}, fmt.Errorf("decode selected_extras: %w", err)
	}
	if err := json.Unmarshal(cols.lineItems, &e.LineItems); err != nil {
		return domain.Enquiry{}, fmt.Errorf("decode line_items: %w", err)
	}
	return e, nil
}

// Create inserts an enquiry with its snapshots.
func (r *Repo) Create(ctx context.Context, e domain.Enquiry) (domain.Enquiry, error) {
	cols, err := encodeSnapshots(e)
	if err != nil {
		return domain.Enquiry{}, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	created, err := scanEnquiry(r.pool.QueryRow(ctx, `
		INSERT INTO enquiries (
			id, name, email, telephone, event_type, comments, send_brochure,
			event_date, venue_location, total_guests, formal_dining_seats,
			interested_in, selected_products, selected_extras, line_items,
			products_subtotal_cents, extras_subtotal_cents, total_cents, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING `+enquiryColumns,
		e.ID, e.Name, e.Email, e.Telephone, e.EventType, e.Comments, e.SendBrochure,
		e.EventDate, e.VenueLocation, e.TotalGuests, e.FormalDiningSeats,
		cols.interestedIn, cols.selectedProducts, cols.selectedExtras, cols.lineItems,
		e.ProductsSubtotalCents, e.ExtrasSubtotalCents, e.TotalCents, string(e.Status)))
	if err != nil {
		return domain.Enquiry{}, fmt.Errorf("create enquiry: %w", err)
	}
	return created, nil
}

// GetByID retrieves an enquiry.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Enquiry, error) {
	e, err := scanEnquiry(r.pool.QueryRow(ctx,
		`SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Enquiry{}, apperr.NotFound(enquiryNotFoundMessage)
		}
		return domain.Enquiry{}, fmt.Errorf("get enquiry: %w", err)
	}
	return e, nil
}

// listWhere builds the WHERE clause shared by the list and count queries.
func listWhere(filter domain.ListFilter, now time.Time) (string, []interface{}) {
	whereClauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	argIdx := 1

	if search := strings.TrimSpace(filter.Search); search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR event_type ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+search+"%")
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if eventType := strings.TrimSpace(filter.EventType); eventType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("event_type = $%d", argIdx))
		args = append(args, eventType)
		argIdx++
	}
	from, to := filter.Window.Range(now)
	if !from.IsZero() {
		whereClauses = append(whereClauses, fmt.Sprintf("event_date >= $%d", argIdx))
		args = append(args, from)
		argIdx++
	}
	if !to.IsZero() {
		whereClauses = append(whereClauses, fmt.Sprintf("event_date < $%d", argIdx))
		args = append(args, to)
	}

	if len(whereClauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(whereClauses, " AND "), args
}

// List returns a page of enquiries, newest first.
func (r *Repo) List(ctx context.Context, filter domain.ListFilter, now time.Time) (domain.ListResult, error) {
	whereClause, args := listWhere(filter, now)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM enquiries %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.ListResult{}, fmt.Errorf("count enquiries: %w", err)
	}

	argIdx := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM enquiries
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, enquiryColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return domain.ListResult{}, fmt.Errorf("list enquiries: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Enquiry, 0)
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return domain.ListResult{}, fmt.Errorf("scan enquiry: %w", err)
		}
		items = append(items, e)
	}
	if rows.Err() != nil {
		return domain.ListResult{}, fmt.Errorf("iterate enquiries: %w", rows.Err())
	}
	return domain.ListResult{Items: items, Total: total}, nil
}

// UpdateStatus sets the status and returns the stored record.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Enquiry, error) {
	e, err := scanEnquiry(r.pool.QueryRow(ctx, updateStatusQuery, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Enquiry{}, apperr.NotFound(enquiryNotFoundMessage)
		}
		return domain.Enquiry{}, fmt.Errorf("update enquiry status: %w", err)
	}
	return e, nil
}

// CountByStatus counts enquiries per status. Statuses without enquiries are
// reported as zero.
func (r *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	counts := make(map[domain.Status]int, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		counts[s] = 0
	}

	rows, err := r.pool.Query(ctx, countByStatusQuery)
	if err != nil {
		return nil, fmt.Errorf("count enquiries by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[domain.Status(status)] = n
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate status counts: %w", rows.Err())
	}
	return counts, nil
}

// PopularTentTypes ranks tent types by how many times they were quoted.
func (r *Repo) PopularTentTypes(ctx context.Context, limit int) ([]domain.TentTypePopularity, error) {
	rows, err := r.pool.Query(ctx, popularTentTypesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("popular tent types: %w", err)
	}
	defer rows.Close()

	items := make([]domain.TentTypePopularity, 0, limit)
	for rows.Next() {
		var item domain.TentTypePopularity
		if err := rows.Scan(&item.TentType, &item.Count); err != nil {
			return nil, fmt.Errorf("scan tent type popularity: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate tent type popularity: %w", rows.Err())
	}
	return items, nil
}

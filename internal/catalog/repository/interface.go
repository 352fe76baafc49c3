package repository

import (
	"context"
	"time"

	quote "tentquote_backend/internal/quote/domain"

	"github.com/google/uuid"
)

// TentType groups products and drives the "interested in" step.
type TentType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key returns the interest key of the tent type.
func (t TentType) Key() quote.TentTypeKey { return quote.KeyOf(t.Name) }

// Product is a catalog row: the quotable product plus bookkeeping.
type Product struct {
	quote.Product
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TentTypeParams carries the editable tent type fields.
type TentTypeParams struct {
	Name        string
	Description string
	ImageURL    *string
}

// ProductParams carries the editable product fields.
type ProductParams struct {
	Name        string
	Type        string
	Size        string
	PriceCents  int64
	Description string
	ImageURL    *string
	Status      quote.ProductStatus
}

// ListProductsParams filters products. Empty fields do not filter.
type ListProductsParams struct {
	TypeKeys []quote.TentTypeKey
	Status   *quote.ProductStatus
	Search   string
}

// Counts is the catalog part of the dashboard.
type Counts struct {
	Products  int
	TentTypes int
	Extras    int
}

// TentTypeRepository persists tent types.
type TentTypeRepository interface {
	ListTentTypes(ctx context.Context) ([]TentType, error)
	GetTentType(ctx context.Context, id uuid.UUID) (TentType, error)
	FindTentTypeByKey(ctx context.Context, key quote.TentTypeKey) (TentType, error)
	CreateTentType(ctx context.Context, params TentTypeParams) (TentType, error)
	// UpdateTentType also renames the type on referencing products.
	UpdateTentType(ctx context.Context, id uuid.UUID, params TentTypeParams) (TentType, error)
	DeleteTentType(ctx context.Context, id uuid.UUID) error
	CountProductsOfType(ctx context.Context, name string) (int, error)
}

// ProductRepository persists products.
type ProductRepository interface {
	ListProducts(ctx context.Context, params ListProductsParams) ([]Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (Product, error)
	ExistingProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	CreateProduct(ctx context.Context, params ProductParams) (Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params ProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ExtraRepository persists extra definitions.
type ExtraRepository interface {
	ListExtras(ctx context.Context) ([]quote.ExtraDefinition, error)
	GetExtra(ctx context.Context, id uuid.UUID) (quote.ExtraDefinition, error)
	CreateExtra(ctx context.Context, def quote.ExtraDefinition) (quote.ExtraDefinition, error)
	UpdateExtra(ctx context.Context, def quote.ExtraDefinition) (quote.ExtraDefinition, error)
	DeleteExtra(ctx context.Context, id uuid.UUID) error
}

// Repository is the full catalog store.
type Repository interface {
	TentTypeRepository
	ProductRepository
	ExtraRepository
	Counts(ctx context.Context) (Counts, error)
}

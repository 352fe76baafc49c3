package transport

import (
	quote "tentquote_backend/internal/quote/domain"

	"github.com/google/uuid"
)

// Tent types

type TentTypeRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Description string  `json:"description" validate:"max=2000"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
}

type TentTypeResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Key         quote.TentTypeKey `json:"key"`
	Description string            `json:"description"`
	ImageURL    *string           `json:"image_url,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type TentTypeListResponse struct {
	Items []TentTypeResponse `json:"items"`
}

// Products

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,notblank,max=200"`
	Type        string  `json:"type" validate:"required,notblank,max=100"`
	Size        string  `json:"size" validate:"max=100"`
	PriceCents  *int64  `json:"price_cents" validate:"required,min=0"`
	Description string  `json:"description" validate:"max=4000"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url,max=500"`
	Status      string  `json:"status" validate:"omitempty,oneof=available booked maintenance"`
}

// ListProductsRequest filters the product listing. Interested is a comma
// separated list of tent type keys or names.
type ListProductsRequest struct {
	Interested string `form:"interested" validate:"max=1000"`
	Status     string `form:"status" validate:"omitempty,oneof=available booked maintenance"`
	Search     string `form:"search" validate:"max=100"`
}

type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	TypeKey     quote.TentTypeKey   `json:"type_key"`
	Size        string              `json:"size"`
	PriceCents  int64               `json:"price_cents"`
	Description string              `json:"description"`
	ImageURL    *string             `json:"image_url,omitempty"`
	Status      quote.ProductStatus `json:"status"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

// Extras

type ExtraRequest struct {
	Name              string  `json:"name" validate:"required,notblank,max=200"`
	Description       string  `json:"description" validate:"max=2000"`
	Type              string  `json:"type" validate:"required,oneof=CHECKBOX RANGE TOGGLE_WITH_QUANTITY"`
	PriceCents        *int64  `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	PricePerUnitCents *int64  `json:"price_per_unit_cents,omitempty" validate:"omitempty,min=0"`
	MinQuantity       *int    `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	MaxQuantity       *int    `json:"max_quantity,omitempty" validate:"omitempty,min=0"`
	LeftLabel         *string `json:"left_label,omitempty" validate:"omitempty,max=100"`
	RightLabel        *string `json:"right_label,omitempty" validate:"omitempty,max=100"`
}

type ExtraResponse struct {
	ID                uuid.UUID                `json:"id"`
	Name              string                   `json:"name"`
	Description       string                   `json:"description"`
	Type              quote.ExtraType          `json:"type"`
	PriceCents        *int64                   `json:"price_cents,omitempty"`
	PricePerUnitCents *int64                   `json:"price_per_unit_cents,omitempty"`
	MinQuantity       *int                     `json:"min_quantity,omitempty"`
	MaxQuantity       *int                     `json:"max_quantity,omitempty"`
	LeftLabel         *string                  `json:"left_label,omitempty"`
	RightLabel        *string                  `json:"right_label,omitempty"`
	DefaultState      quote.SelectedExtraState `json:"default_state"`
	CreatedAt         string                   `json:"created_at"`
	UpdatedAt         string                   `json:"updated_at"`
}

type ExtraListResponse struct {
	Items []ExtraResponse `json:"items"`
}

// Images

type ImageUploadResponse struct {
	URL string `json:"url"`
}

package service

import (
	"time"

	"tentquote_backend/internal/catalog/repository"
	"tentquote_backend/internal/catalog/transport"
	quote "tentquote_backend/internal/quote/domain"
)

func toTentTypeResponse(t repository.TentType) transport.TentTypeResponse {
	return transport.TentTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Key:         t.Key(),
		Description: t.Description,
		ImageURL:    t.ImageURL,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductResponse(p repository.Product) transport.ProductResponse {
	return transport.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        string(p.Type),
		TypeKey:     p.Type.Key(),
		Size:        p.Size,
		PriceCents:  p.PriceCents,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toExtraResponse(d quote.ExtraDefinition) transport.ExtraResponse {
	resp := transport.ExtraResponse{
		ID:                d.ID,
		Name:              d.Name,
		Description:       d.Description,
		Type:              d.Type,
		PriceCents:        d.PriceCents,
		PricePerUnitCents: d.PricePerUnitCents,
		MinQuantity:       d.MinQuantity,
		MaxQuantity:       d.MaxQuantity,
		LeftLabel:         d.LeftLabel,
		RightLabel:        d.RightLabel,
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         d.UpdatedAt.Format(time.RFC3339),
	}
	if extra, err := d.Strategy(); err == nil {
		resp.DefaultState = quote.DefaultState(extra)
	}
	return resp
}

package adapters

import (
	"context"
	"fmt"

	catalogsvc "tentquote_backend/internal/catalog/service"
	enqsvc "tentquote_backend/internal/enquiries/service"
)

// CatalogStats adapts the catalog service for the enquiries dashboard.
type CatalogStats struct {
	svc *catalogsvc.Service
}

// NewCatalogStats creates a new catalog stats adapter.
func NewCatalogStats(svc *catalogsvc.Service) *CatalogStats {
	return &CatalogStats{svc: svc}
}

// CatalogStats returns catalog sizes.
func (a *CatalogStats) CatalogStats(ctx context.Context) (enqsvc.CatalogStats, error) {
	counts, err := a.svc.Counts(ctx)
	if err != nil {
		return enqsvc.CatalogStats{}, fmt.Errorf("catalog stats adapter: %w", err)
	}
	return enqsvc.CatalogStats{
		Products:  counts.Products,
		TentTypes: counts.TentTypes,
		Extras:    counts.Extras,
	}, nil
}

// Compile-time check that CatalogStats implements enqsvc.CatalogCounter.
var _ enqsvc.CatalogCounter = (*CatalogStats)(nil)

package service

import (
	"context"
	"slices"

	"tentquote_backend/internal/catalog/transport"
	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListExtras returns every extra with the state a customer sees before touching it.
func (s *Service) ListExtras(ctx context.Context) (transport.ExtraListResponse, error) {
	defs, err := s.ExtraDefinitions(ctx)
	if err != nil {
		return transport.ExtraListResponse{}, err
	}
	out := make([]transport.ExtraResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, toExtraResponse(d))
	}
	return transport.ExtraListResponse{Items: out}, nil
}

// GetExtra retrieves an extra by id.
func (s *Service) GetExtra(ctx context.Context, id uuid.UUID) (transport.ExtraResponse, error) {
	d, err := s.repo.GetExtra(ctx, id)
	if err != nil {
		return transport.ExtraResponse{}, err
	}
	return toExtraResponse(d), nil
}

// CreateExtra validates and stores a new extra.
func (s *Service) CreateExtra(ctx context.Context, req transport.ExtraRequest) (transport.ExtraResponse, error) {
	def := extraDefinition(uuid.Nil, req)
	if err := def.Validate(); err != nil {
		return transport.ExtraResponse{}, err
	}
	d, err := s.repo.CreateExtra(ctx, def)
	if err != nil {
		return transport.ExtraResponse{}, err
	}

	s.log.Info("extra created", "id", d.ID, "name", d.Name, "type", d.Type)
	s.changed(ctx, entityExtra, d.ID, actionCreated)
	return toExtraResponse(d), nil
}

// UpdateExtra validates and replaces an extra.
func (s *Service) UpdateExtra(ctx context.Context, id uuid.UUID, req transport.ExtraRequest) (transport.ExtraResponse, error) {
	def := extraDefinition(id, req)
	if err := def.Validate(); err != nil {
		return transport.ExtraResponse{}, err
	}
	d, err := s.repo.UpdateExtra(ctx, def)
	if err != nil {
		return transport.ExtraResponse{}, err
	}

	s.log.Info("extra updated", "id", d.ID, "name", d.Name, "type", d.Type)
	s.changed(ctx, entityExtra, d.ID, actionUpdated)
	return toExtraResponse(d), nil
}

// DeleteExtra deletes an extra. Open quotes that configured it stop paying for it.
func (s *Service) DeleteExtra(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteExtra(ctx, id); err != nil {
		return err
	}

	s.log.Info("extra deleted", "id", id)
	s.changed(ctx, entityExtra, id, actionDeleted)
	return nil
}

// ExtraDefinitions returns the extras catalog, served from a short-lived
// cache that catalog edits drop.
func (s *Service) ExtraDefinitions(ctx context.Context) ([]quote.ExtraDefinition, error) {
	s.mu.RLock()
	if s.extrasValid && s.now().Sub(s.extrasAt) < extrasCacheTTL {
		defs := slices.Clone(s.extras)
		s.mu.RUnlock()
		return defs, nil
	}
	gen := s.extrasGen
	s.mu.RUnlock()

	defs, err := s.repo.ListExtras(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.extrasGen == gen {
		s.extras = slices.Clone(defs)
		s.extrasAt = s.now()
		s.extrasValid = true
	}
	s.mu.Unlock()
	return defs, nil
}

// Extras returns the pricing strategies of every valid extra, in catalog order.
func (s *Service) Extras(ctx context.Context) ([]quote.Extra, error) {
	defs, err := s.ExtraDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	extras, invalid := quote.Strategies(defs)
	for _, id := range invalid {
		s.log.Warn("skipping invalid extra definition", "id", id)
	}
	return extras, nil
}

// Extra returns the pricing strategy of a single extra.
func (s *Service) Extra(ctx context.Context, id uuid.UUID) (quote.Extra, error) {
	d, err := s.repo.GetExtra(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Strategy()
}

// InvalidateExtras drops the cached extras catalog.
func (s *Service) InvalidateExtras() {
	s.mu.Lock()
	s.extrasValid = false
	s.extras = nil
	s.extrasGen++
	s.mu.Unlock()
}

func extraDefinition(id uuid.UUID, req transport.ExtraRequest) quote.ExtraDefinition {
	def := quote.ExtraDefinition{
		ID:          id,
		Name:        sanitize.Line(req.Name),
		Description: sanitize.Text(req.Description),
		Type:        quote.ExtraType(req.Type),
		PriceCents:  req.PriceCents,
		LeftLabel:   trimPtr(req.LeftLabel),
		RightLabel:  trimPtr(req.RightLabel),
	}
	// Fields that do not belong to the type are not stored.
	switch def.Type {
	case quote.ExtraRange:
		def.PricePerUnitCents = req.PricePerUnitCents
		def.MinQuantity = req.MinQuantity
		def.MaxQuantity = req.MaxQuantity
		def.LeftLabel, def.RightLabel = nil, nil
		def.PriceCents = nil
	case quote.ExtraToggle:
		def.MinQuantity = req.MinQuantity
		def.MaxQuantity = req.MaxQuantity
	default:
		def.LeftLabel, def.RightLabel = nil, nil
	}
	return def
}

package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"tentquote_backend/internal/adapters/storage"
	"tentquote_backend/internal/catalog/repository"
	"tentquote_backend/internal/catalog/transport"
	"tentquote_backend/internal/events"
	quote "tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	entityTentType = "tent_type"
	entityProduct  = "product"
	entityExtra    = "extra"

	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"

	extrasCacheTTL = time.Minute
)

// Service provides business logic for the catalog.
type Service struct {
	repo   repository.Repository
	images storage.ImageStore
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time

	mu          sync.RWMutex
	extras      []quote.ExtraDefinition
	extrasAt    time.Time
	extrasValid bool
	// extrasGen counts invalidations; a refill read before the latest one is discarded
	extrasGen uint64
}

// New creates a new catalog service. images may be nil when uploads are not configured.
func New(repo repository.Repository, images storage.ImageStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, images: images, bus: bus, log: log, now: time.Now}
}

// ListTentTypes returns the tent types offered in the first quoting step.
func (s *Service) ListTentTypes(ctx context.Context) (transport.TentTypeListResponse, error) {
	items, err := s.repo.ListTentTypes(ctx)
	if err != nil {
		return transport.TentTypeListResponse{}, err
	}
	out := make([]transport.TentTypeResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTentTypeResponse(t))
	}
	return transport.TentTypeListResponse{Items: out}, nil
}

// CreateTentType creates a tent type.
func (s *Service) CreateTentType(ctx context.Context, req transport.TentTypeRequest) (transport.TentTypeResponse, error) {
	t, err := s.repo.CreateTentType(ctx, tentTypeParams(req))
	if err != nil {
		return transport.TentTypeResponse{}, err
	}

	s.log.Info("tent type created", "id", t.ID, "name", t.Name)
	s.changed(ctx, entityTentType, t.ID, actionCreated)
	return toTentTypeResponse(t), nil
}

// UpdateTentType updates a tent type. Renaming carries over to its products.
func (s *Service) UpdateTentType(ctx context.Context, id uuid.UUID, req transport.TentTypeRequest) (transport.TentTypeResponse, error) {
	t, err := s.repo.UpdateTentType(ctx, id, tentTypeParams(req))
	if err != nil {
		return transport.TentTypeResponse{}, err
	}

	s.log.Info("tent type updated", "id", t.ID, "name", t.Name)
	s.changed(ctx, entityTentType, t.ID, actionUpdated)
	return toTentTypeResponse(t), nil
}

// DeleteTentType deletes a tent type if no product references it.
func (s *Service) DeleteTentType(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetTentType(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.repo.CountProductsOfType(ctx, t.Name)
	if err != nil {
		return err
	}
	if used > 0 {
		return apperr.Conflict("tent type is used by products").
			WithOp("catalog.delete_tent_type").
			WithDetails(map[string]int{"products": used})
	}
	if err := s.repo.DeleteTentType(ctx, id); err != nil {
		return err
	}

	s.log.Info("tent type deleted", "id", id, "name", t.Name)
	s.changed(ctx, entityTentType, id, actionDeleted)
	return nil
}

// ListProducts lists products, narrowed to the customer's tent type interest
// when one is given.
func (s *Service) ListProducts(ctx context.Context, req transport.ListProductsRequest) (transport.ProductListResponse, error) {
	params := repository.ListProductsParams{Search: strings.TrimSpace(req.Search)}
	for _, raw := range strings.Split(req.Interested, ",") {
		if key := quote.KeyOf(raw); key != "" {
			params.TypeKeys = append(params.TypeKeys, key)
		}
	}
	if req.Status != "" {
		status := quote.ProductStatus(req.Status)
		params.Status = &status
	}

	items, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return transport.ProductListResponse{}, err
	}
	out := make([]transport.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProductResponse(p))
	}
	return transport.ProductListResponse{Items: out}, nil
}

// GetProduct retrieves a product by id.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toProductResponse(p), nil
}

// CreateProduct creates a product. Its type must name an existing tent type.
func (s *Service) CreateProduct(ctx context.Context, req transport.ProductRequest) (transport.ProductResponse, error) {
	params, err := s.productParams(ctx, req)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	p, err := s.repo.CreateProduct(ctx, params)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product created", "id", p.ID, "name", p.Name, "type", p.Type)
	s.changed(ctx, entityProduct, p.ID, actionCreated)
	return toProductResponse(p), nil
}

// UpdateProduct updates a product.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.ProductRequest) (transport.ProductResponse, error) {
	params, err := s.productParams(ctx, req)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	p, err := s.repo.UpdateProduct(ctx, id, params)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product updated", "id", p.ID, "name", p.Name)
	s.changed(ctx, entityProduct, p.ID, actionUpdated)
	return toProductResponse(p), nil
}

// DeleteProduct deletes a product.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.log.Info("product deleted", "id", id)
	s.changed(ctx, entityProduct, id, actionDeleted)
	return nil
}

// Product returns the quotable snapshot of a catalog product.
func (s *Service) Product(ctx context.Context, id uuid.UUID) (quote.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return quote.Product{}, err
	}
	return p.Product, nil
}

// ExistingProductIDs reports which ids are still in the catalog.
func (s *Service) ExistingProductIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.repo.ExistingProductIDs(ctx, ids)
}

// Counts returns catalog sizes for the staff dashboard.
func (s *Service) Counts(ctx context.Context) (repository.Counts, error) {
	return s.repo.Counts(ctx)
}

func (s *Service) productParams(ctx context.Context, req transport.ProductRequest) (repository.ProductParams, error) {
	tentType, err := s.repo.FindTentTypeByKey(ctx, quote.KeyOf(req.Type))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.ProductParams{}, apperr.Validation("product type must match an existing tent type").
				WithOp("catalog.product_type").
				WithDetails(map[string]string{"type": req.Type})
		}
		return repository.ProductParams{}, err
	}

	status := quote.ProductStatus(req.Status)
	if status == "" {
		status = quote.ProductAvailable
	}
	var price int64
	if req.PriceCents != nil {
		price = *req.PriceCents
	}

	return repository.ProductParams{
		Name:        sanitize.Line(req.Name),
		Type:        tentType.Name,
		Size:        sanitize.Line(req.Size),
		PriceCents:  price,
		Description: sanitize.Text(req.Description),
		ImageURL:    trimPtr(req.ImageURL),
		Status:      status,
	}, nil
}

func tentTypeParams(req transport.TentTypeRequest) repository.TentTypeParams {
	return repository.TentTypeParams{
		Name:        sanitize.Line(req.Name),
		Description: sanitize.Text(req.Description),
		ImageURL:    trimPtr(req.ImageURL),
	}
}

// changed announces a catalog edit. Subscribers run before the edit returns,
// so caches are never observed stale by the caller.
func (s *Service) changed(ctx context.Context, entity string, id uuid.UUID, action string) {
	if s.bus == nil {
		s.InvalidateExtras()
		return
	}
	err := s.bus.PublishSync(ctx, events.CatalogChanged{
		BaseEvent: events.NewBaseEvent(),
		Entity:    entity,
		ID:        id,
		Action:    action,
	})
	if err != nil {
		s.log.Error("catalog change handlers failed", "entity", entity, "id", id, "error", err)
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// TentTypeKeys returns the interest keys of every tent type.
func (s *Service) TentTypeKeys(ctx context.Context) (quote.InterestSet, error) {
	items, err := s.repo.ListTentTypes(ctx)
	if err != nil {
		return nil, err
	}
	keys := make(quote.InterestSet, len(items))
	for _, t := range items {
		keys[t.Key()] = struct{}{}
	}
	return keys, nil
}

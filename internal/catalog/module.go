// Package catalog provides the catalog bounded context module: tent types,
// tents and extras, public reads for the quoting flow and staff CRUD.
package catalog

import (
	"context"

	"tentquote_backend/internal/adapters/storage"
	"tentquote_backend/internal/catalog/handler"
	"tentquote_backend/internal/catalog/repository"
	"tentquote_backend/internal/catalog/service"
	"tentquote_backend/internal/events"
	apphttp "tentquote_backend/internal/http"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module. images may be nil.
func NewModule(pool *pgxpool.Pool, images storage.ImageStore, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, images, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints used by the quoting flow
	public := ctx.Public.Group("/catalog")
	public.GET("/tent-types", m.handler.ListTentTypes)
	public.GET("/products", m.handler.ListProducts)
	public.GET("/products/:id", m.handler.GetProduct)
	public.GET("/extras", m.handler.ListExtras)

	// Staff CRUD endpoints
	admin := ctx.Admin.Group("/catalog")
	admin.GET("/tent-types", m.handler.ListTentTypes)
	admin.POST("/tent-types", m.handler.CreateTentType)
	admin.PUT("/tent-types/:id", m.handler.UpdateTentType)
	admin.DELETE("/tent-types/:id", m.handler.DeleteTentType)

	admin.GET("/products", m.handler.ListProducts)
	admin.GET("/products/:id", m.handler.GetProduct)
	admin.POST("/products", m.handler.CreateProduct)
	admin.PUT("/products/:id", m.handler.UpdateProduct)
	admin.DELETE("/products/:id", m.handler.DeleteProduct)

	admin.GET("/extras", m.handler.ListExtras)
	admin.GET("/extras/:id", m.handler.GetExtra)
	admin.POST("/extras", m.handler.CreateExtra)
	admin.PUT("/extras/:id", m.handler.UpdateExtra)
	admin.DELETE("/extras/:id", m.handler.DeleteExtra)

	admin.POST("/images", m.handler.UploadImage)
}

// RegisterHandlers subscribes to catalog edits to keep the extras cache fresh.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CatalogChanged{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(_ context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CatalogChanged:
		if e.Entity == "extra" {
			m.service.InvalidateExtras()
		}
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

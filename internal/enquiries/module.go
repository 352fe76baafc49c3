// Package enquiries provides the enquiries bounded context module: stored
// quote submissions, their status workflow and the staff dashboard.
package enquiries

import (
	"tentquote_backend/internal/enquiries/domain"
	"tentquote_backend/internal/enquiries/handler"
	"tentquote_backend/internal/enquiries/repository"
	"tentquote_backend/internal/enquiries/service"
	"tentquote_backend/internal/events"
	apphttp "tentquote_backend/internal/http"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the enquiries bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the enquiries module.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogCounter, bus events.Publisher, strict bool, val *validator.Validator, log *logger.Logger) *Module {
	policy := domain.PolicyPermissive
	if strict {
		policy = domain.PolicyStrict
	}

	repo := repository.New(pool)
	svc := service.New(repo, catalog, bus, domain.NewWorkflow(policy), log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "enquiries"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts staff enquiry routes on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	admin := ctx.Admin
	admin.GET("/dashboard", m.handler.Dashboard)

	enquiries := admin.Group("/enquiries")
	enquiries.GET("", m.handler.List)
	enquiries.GET("/statuses", m.handler.Statuses)
	enquiries.GET("/:id", m.handler.Get)
	enquiries.PATCH("/:id/status", m.handler.SetStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

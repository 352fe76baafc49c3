// Package quote provides the customer quoting flow module.
package quote

import (
	"tentquote_backend/internal/events"
	apphttp "tentquote_backend/internal/http"
	"tentquote_backend/internal/quote/handler"
	"tentquote_backend/internal/quote/repository"
	"tentquote_backend/internal/quote/service"
	"tentquote_backend/platform/logger"
	"tentquote_backend/platform/phone"
	"tentquote_backend/platform/validator"
)

// Module is the quote bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the quoting flow to its session store, the catalog and the
// enquiry writer.
func NewModule(store repository.SessionStore, catalog service.CatalogReader, enquiries service.EnquiryWriter, bus events.Publisher, phones phone.Normalizer, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, catalog, enquiries, bus, phones, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quote"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public quoting routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	sessions := ctx.Public.Group("/quote-sessions")
	sessions.POST("", m.handler.Start)
	sessions.GET("/:id", m.handler.Get)
	sessions.PUT("/:id/event-details", m.handler.SaveEventDetails)
	sessions.PUT("/:id/products/:productId", m.handler.AddProduct)
	sessions.DELETE("/:id/products/:productId", m.handler.RemoveProduct)
	sessions.PUT("/:id/extras/:extraId/selected", m.handler.SetExtraSelected)
	sessions.PUT("/:id/extras/:extraId/quantity", m.handler.SetExtraQuantity)
	sessions.POST("/:id/submit", m.handler.Submit)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tentquote_backend/internal/quote/service"
	"tentquote_backend/internal/quote/transport"
	"tentquote_backend/platform/httpkit"
	"tentquote_backend/platform/validator"
)

// Handler handles HTTP requests for quote sessions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// New creates a new quote handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Start opens a quote.
// POST /api/v1/public/quote-sessions
func (h *Handler) Start(c *gin.Context) {
	result, err := h.svc.Start(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Get returns the quote and its price.
// GET /api/v1/public/quote-sessions/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SaveEventDetails stores step one.
// PUT /api/v1/public/quote-sessions/:id/event-details
func (h *Handler) SaveEventDetails(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	var req transport.EventDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.SaveEventDetails(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddProduct selects a tent.
// PUT /api/v1/public/quote-sessions/:id/products/:productId
func (h *Handler) AddProduct(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseParam(c, "productId")
	if !ok {
		return
	}

	result, err := h.svc.AddProduct(c.Request.Context(), id, productID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveProduct deselects a tent.
// DELETE /api/v1/public/quote-sessions/:id/products/:productId
func (h *Handler) RemoveProduct(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseParam(c, "productId")
	if !ok {
		return
	}

	result, err := h.svc.RemoveProduct(c.Request.Context(), id, productID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetExtraSelected switches an extra on or off.
// PUT /api/v1/public/quote-sessions/:id/extras/:extraId/selected
func (h *Handler) SetExtraSelected(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	extraID, ok := parseParam(c, "extraId")
	if !ok {
		return
	}
	var req transport.ExtraSelectedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.SetExtraSelected(c.Request.Context(), id, extraID, *req.Selected)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetExtraQuantity sets an extra's quantity.
// PUT /api/v1/public/quote-sessions/:id/extras/:extraId/quantity
func (h *Handler) SetExtraQuantity(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	extraID, ok := parseParam(c, "extraId")
	if !ok {
		return
	}
	var req transport.ExtraQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.SetExtraQuantity(c.Request.Context(), id, extraID, *req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Submit sends the quote as an enquiry.
// POST /api/v1/public/quote-sessions/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	id, ok := parseParam(c, "id")
	if !ok {
		return
	}
	var req transport.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func parseParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, gin.H{"param": name})
		return uuid.Nil, false
	}
	return id, true
}

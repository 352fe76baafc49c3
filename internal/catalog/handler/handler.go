package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tentquote_backend/internal/catalog/service"
	"tentquote_backend/internal/catalog/transport"
	"tentquote_backend/platform/httpkit"
	"tentquote_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid catalog id"
	msgMissingFile      = "file is required"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListTentTypes lists tent types.
// GET /api/v1/public/catalog/tent-types
func (h *Handler) ListTentTypes(c *gin.Context) {
	result, err := h.svc.ListTentTypes(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateTentType creates a tent type.
// POST /api/v1/admin/catalog/tent-types
func (h *Handler) CreateTentType(c *gin.Context) {
	var req transport.TentTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.CreateTentType(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateTentType updates a tent type.
// PUT /api/v1/admin/catalog/tent-types/:id
func (h *Handler) UpdateTentType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.TentTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.UpdateTentType(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteTentType deletes a tent type.
// DELETE /api/v1/admin/catalog/tent-types/:id
func (h *Handler) DeleteTentType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteTentType(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// ListProducts lists products, optionally by tent type interest and status.
// GET /api/v1/public/catalog/products?interested=stretchtent,marquee&status=available
func (h *Handler) ListProducts(c *gin.Context) {
	var req transport.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.ListProducts(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetProduct retrieves a product.
// GET /api/v1/public/catalog/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetProduct(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateProduct creates a product.
// POST /api/v1/admin/catalog/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req transport.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.CreateProduct(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateProduct updates a product.
// PUT /api/v1/admin/catalog/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteProduct deletes a product.
// DELETE /api/v1/admin/catalog/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteProduct(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// ListExtras lists extras.
// GET /api/v1/public/catalog/extras
func (h *Handler) ListExtras(c *gin.Context) {
	result, err := h.svc.ListExtras(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetExtra retrieves an extra.
// GET /api/v1/admin/catalog/extras/:id
func (h *Handler) GetExtra(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetExtra(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateExtra creates an extra.
// POST /api/v1/admin/catalog/extras
func (h *Handler) CreateExtra(c *gin.Context) {
	var req transport.ExtraRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.CreateExtra(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateExtra updates an extra.
// PUT /api/v1/admin/catalog/extras/:id
func (h *Handler) UpdateExtra(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.ExtraRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.UpdateExtra(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteExtra deletes an extra.
// DELETE /api/v1/admin/catalog/extras/:id
func (h *Handler) DeleteExtra(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteExtra(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// UploadImage stores an image from the multipart field "file".
// POST /api/v1/admin/catalog/images
func (h *Handler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.svc.UploadImage(c.Request.Context(), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
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

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

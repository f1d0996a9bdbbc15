package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pointhub-backend/internal/domains/product/model"
	"pointhub-backend/internal/domains/product/service"
	"pointhub-backend/internal/shared/response"
)

const maxUploadBytes = 5 << 20

type ProductHandler struct {
	service service.ServiceInterface
}

func NewProductHandler(s service.ServiceInterface) *ProductHandler {
	return &ProductHandler{service: s}
}

func parseProductID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}

// ========================================
// PUBLIC CATALOG
// ========================================

// List godoc
// GET /api/v1/products?search=&category=&page=&limit=
func (h *ProductHandler) List(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	filter.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{Page: filter.Page, Limit: filter.Limit, Total: total})
}

// Get godoc
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

type cartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItem godoc
// POST /api/v1/products/:id/cart-item
// Returns the line the client stores in its cart, with name and price snapshotted.
func (h *ProductHandler) CartItem(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	req := cartItemRequest{Quantity: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
	}

	item, err := h.service.BuildCartItem(c.Request.Context(), id, req.Quantity)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// ========================================
// ADMIN
// ========================================

// Create godoc
// POST /api/v1/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// Update godoc
// PATCH /api/v1/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Delete godoc
// DELETE /api/v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage godoc
// POST /api/v1/admin/products/:id/image  (multipart field "image")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, "image exceeds 5MB")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read image")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		response.BadRequest(c, "cannot read image")
		return
	}

	p, err := h.service.UploadImage(c.Request.Context(), id, data)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

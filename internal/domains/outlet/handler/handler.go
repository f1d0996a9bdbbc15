package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pointhub-backend/internal/domains/outlet/model"
	"pointhub-backend/internal/domains/outlet/service"
	"pointhub-backend/internal/shared/response"
)

type OutletHandler struct {
	service service.ServiceInterface
}

func NewOutletHandler(s service.ServiceInterface) *OutletHandler {
	return &OutletHandler{service: s}
}

func parseOutletID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid outlet id")
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// GET /api/v1/admin/outlets
func (h *OutletHandler) List(c *gin.Context) {
	outlets, err := h.service.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, outlets)
}

// Get godoc
// GET /api/v1/admin/outlets/:id
func (h *OutletHandler) Get(c *gin.Context) {
	id, ok := parseOutletID(c)
	if !ok {
		return
	}
	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// Create godoc
// POST /api/v1/admin/outlets
func (h *OutletHandler) Create(c *gin.Context) {
	var req model.CreateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

// Update godoc
// PATCH /api/v1/admin/outlets/:id
func (h *OutletHandler) Update(c *gin.Context) {
	id, ok := parseOutletID(c)
	if !ok {
		return
	}

	var req model.UpdateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// Delete godoc
// DELETE /api/v1/admin/outlets/:id
func (h *OutletHandler) Delete(c *gin.Context) {
	id, ok := parseOutletID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pointhub-backend/internal/domains/pos/model"
	"pointhub-backend/internal/domains/pos/service"
	"pointhub-backend/internal/shared/middleware"
	"pointhub-backend/internal/shared/response"
)

type POSHandler struct {
	service service.ServiceInterface
}

func NewPOSHandler(s service.ServiceInterface) *POSHandler {
	return &POSHandler{service: s}
}

// QuickSale godoc
// POST /api/v1/pos/sales
func (h *POSHandler) QuickSale(c *gin.Context) {
	operatorID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "operator not signed in")
		return
	}

	var req model.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	sale, err := h.service.QuickSale(c.Request.Context(), operatorID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sale)
}

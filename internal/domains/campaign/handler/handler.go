package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pointhub-backend/internal/domains/campaign/model"
	"pointhub-backend/internal/domains/campaign/service"
	"pointhub-backend/internal/shared/response"
)

type CampaignHandler struct {
	service service.ServiceInterface
}

func NewCampaignHandler(s service.ServiceInterface) *CampaignHandler {
	return &CampaignHandler{service: s}
}

// Get godoc
// GET /api/v1/admin/campaign
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaign)
}

// Update godoc
// PATCH /api/v1/admin/campaign
func (h *CampaignHandler) Update(c *gin.Context) {
	var req model.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	campaign, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, campaign)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pointhub-backend/internal/domains/loyalty/service"
	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/shared/middleware"
	"pointhub-backend/internal/shared/response"
)

type LoyaltyHandler struct {
	service service.ServiceInterface
}

func NewLoyaltyHandler(s service.ServiceInterface) *LoyaltyHandler {
	return &LoyaltyHandler{service: s}
}

// targetUser resolves :userId ("me" is accepted). Members may only read themselves.
func targetUser(c *gin.Context) (uuid.UUID, bool) {
	self, _ := middleware.CurrentUserID(c)

	raw := c.Param("userId")
	if raw == "me" {
		return self, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return uuid.Nil, false
	}
	if id != self && middleware.CurrentRole(c) == userModel.RoleUser {
		response.Forbidden(c, "cannot read another member's loyalty data")
		return uuid.Nil, false
	}
	return id, true
}

// GetPoints godoc
// GET /api/v1/loyalty/points/:userId
func (h *LoyaltyHandler) GetPoints(c *gin.Context) {
	userID, ok := targetUser(c)
	if !ok {
		return
	}

	points, err := h.service.GetPoints(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, points)
}

// GetStats godoc
// GET /api/v1/loyalty/stats/:userId
func (h *LoyaltyHandler) GetStats(c *gin.Context) {
	userID, ok := targetUser(c)
	if !ok {
		return
	}

	stats, err := h.service.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

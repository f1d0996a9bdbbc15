package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pointhub-backend/internal/domains/order/model"
	"pointhub-backend/internal/domains/order/service"
	"pointhub-backend/internal/shared/middleware"
	"pointhub-backend/internal/shared/response"
)

type OrderHandler struct {
	orderService service.ServiceInterface
}

func NewOrderHandler(orderService service.ServiceInterface) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func sessionFrom(c *gin.Context) model.Session {
	userID, _ := middleware.CurrentUserID(c)
	return model.Session{UserID: userID, Role: middleware.CurrentRole(c)}
}

func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return id, true
}

// =====================================================
// CHECKOUT
// =====================================================

// PreviewPrice godoc
// POST /api/v1/orders/preview
func (h *OrderHandler) PreviewPrice(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	preview, err := h.orderService.PreviewPrice(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// Checkout godoc
// POST /api/v1/orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", "/api/v1/orders/"+order.ID.String())
	response.Success(c, http.StatusCreated, order)
}

// =====================================================
// STATE TRANSITIONS
// =====================================================

// MarkPaid godoc
// POST /api/v1/orders/:id/mark-paid
// Staff or payment webhook; replays return the already paid order with 200.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// Cancel godoc
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// =====================================================
// QUERIES
// =====================================================

// List godoc
// GET /api/v1/orders?status=PAID,PENDING&userId=&page=&limit=
func (h *OrderHandler) List(c *gin.Context) {
	session := sessionFrom(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := model.ListFilter{Limit: limit, Offset: (page - 1) * limit}
	if !session.IsStaff() {
		filter.UserID = &session.UserID
	} else if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid user id")
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, model.Status(strings.ToUpper(strings.TrimSpace(s))))
		}
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{Page: page, Limit: limit, Total: total})
}

// Get godoc
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// Items godoc
// GET /api/v1/orders/:id/items
func (h *OrderHandler) Items(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	items, err := h.orderService.Items(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

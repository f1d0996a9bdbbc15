package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	userModel "pointhub-backend/internal/domains/user/model"
	"pointhub-backend/internal/domains/voucher/model"
	"pointhub-backend/internal/domains/voucher/service"
	"pointhub-backend/internal/shared/apperr"
	"pointhub-backend/internal/shared/middleware"
	"pointhub-backend/internal/shared/money"
	"pointhub-backend/internal/shared/response"
)

type VoucherHandler struct {
	service service.ServiceInterface
}

func NewVoucherHandler(s service.ServiceInterface) *VoucherHandler {
	return &VoucherHandler{service: s}
}

// Redeem godoc
// POST /api/v1/loyalty/redeem
func (h *VoucherHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req model.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	result, err := h.service.Redeem(c.Request.Context(), userID, req.PointsCost)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

type validateResponse struct {
	*model.Voucher
	Applicable *bool  `json:"applicable,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Validate godoc
// GET /api/v1/loyalty/validate/:code?subtotal=
//
// With a subtotal the response also says whether the voucher applies to a
// cart of that size. Members only ever see their own vouchers.
func (h *VoucherHandler) Validate(c *gin.Context) {
	code := c.Param("code")

	var owner uuid.UUID
	if middleware.CurrentRole(c) == userModel.RoleUser {
		id, ok := middleware.CurrentUserID(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		owner = id
	}

	raw := c.Query("subtotal")
	if raw == "" {
		v, err := h.service.Validate(c.Request.Context(), code)
		if err != nil {
			response.FromError(c, err)
			return
		}
		if !visibleTo(v, owner) {
			response.FromError(c, model.ErrVoucherNotFound)
			return
		}
		response.Success(c, http.StatusOK, validateResponse{Voucher: v})
		return
	}

	subtotal, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || subtotal < 0 {
		response.BadRequest(c, "invalid subtotal")
		return
	}

	res, err := h.service.Resolve(c.Request.Context(), code, owner, money.Rupiah(subtotal))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if res.Voucher == nil {
		response.FromError(c, res.Reason)
		return
	}
	if !visibleTo(res.Voucher, owner) {
		response.FromError(c, model.ErrVoucherNotFound)
		return
	}

	out := validateResponse{Voucher: res.Voucher, Applicable: &res.Applicable}
	if appErr, ok := apperr.As(res.Reason); ok {
		out.Reason = appErr.Code
	}
	response.Success(c, http.StatusOK, out)
}

// visibleTo hides other members' vouchers. A zero owner is staff.
func visibleTo(v *model.Voucher, owner uuid.UUID) bool {
	return owner == uuid.Nil || v.UserID == owner
}

// List godoc
// GET /api/v1/loyalty/vouchers?status=ACTIVE,EXPIRED&userId=
//
// Members always see their own vouchers; staff may pass userId.
func (h *VoucherHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	filter := model.ListFilter{UserID: &userID}
	if middleware.CurrentRole(c) != userModel.RoleUser {
		filter.UserID = nil
		if raw := c.Query("userId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.BadRequest(c, "invalid user id")
				return
			}
			filter.UserID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, model.Status(strings.ToUpper(strings.TrimSpace(s))))
		}
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}

	vouchers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, vouchers)
}

// Tiers godoc
// GET /api/v1/loyalty/tiers
func (h *VoucherHandler) Tiers(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Tiers())
}

// Issue godoc
// POST /api/v1/admin/vouchers/issue
func (h *VoucherHandler) Issue(c *gin.Context) {
	var req model.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.FromError(c, err)
		return
	}

	v, err := h.service.Issue(c.Request.Context(), req.UserID, req.ValueRp)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, v)
}

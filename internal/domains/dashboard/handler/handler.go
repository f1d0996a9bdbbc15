package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pointhub-backend/internal/domains/dashboard/service"
	"pointhub-backend/internal/shared/clock"
	"pointhub-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	service service.ServiceInterface
	clock   clock.Clock
}

func NewDashboardHandler(s service.ServiceInterface, clk clock.Clock) *DashboardHandler {
	return &DashboardHandler{service: s, clock: clk}
}

// KPIs godoc
// GET /api/v1/admin/dashboard/kpis
func (h *DashboardHandler) KPIs(c *gin.Context) {
	k, err := h.service.KPIs(c.Request.Context(), h.clock.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, k)
}

// Revenue godoc
// GET /api/v1/admin/dashboard/revenue?days=30
func (h *DashboardHandler) Revenue(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		response.BadRequest(c, "days must be a number")
		return
	}

	series, err := h.service.Revenue(c.Request.Context(), days, h.clock.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, series)
}

// Export godoc
// GET /api/v1/admin/dashboard/export?from=2026-03-01&to=2026-03-31
// Both dates are inclusive UTC days. Defaults to the last 30 days.
func (h *DashboardHandler) Export(c *gin.Context) {
	today := h.clock.Now().UTC().Truncate(24 * time.Hour)
	from, to := today.AddDate(0, 0, -29), today

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.BadRequest(c, "from must be YYYY-MM-DD")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.BadRequest(c, "to must be YYYY-MM-DD")
			return
		}
		to = t
	}
	if to.Before(from) {
		response.BadRequest(c, "to must not be before from")
		return
	}

	data, err := h.service.ExportOrders(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("orders_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

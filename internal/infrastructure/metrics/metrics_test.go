package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCheckout(t *testing.T) {
	okBefore := testutil.ToFloat64(CheckoutsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(CheckoutsTotal.WithLabelValues("error"))

	ObserveCheckout(nil)
	ObserveCheckout(errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(CheckoutsTotal.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(CheckoutsTotal.WithLabelValues("error")))
}

func TestObservePayment_ReplayDoesNotCreditPoints(t *testing.T) {
	before := testutil.ToFloat64(PointsCreditedTotal)

	ObservePayment(false, 5)
	ObservePayment(true, 5)

	assert.Equal(t, before+5, testutil.ToFloat64(PointsCreditedTotal))
}

func TestHandlerServesMetrics(t *testing.T) {
	ObserveCheckout(nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pointhub_checkouts_total")
}

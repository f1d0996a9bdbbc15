package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pointhub"

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Checkouts by outcome.",
	}, []string{"result"})

	PaymentsConfirmedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_confirmed_total",
		Help:      "Payment confirmations; replayed=true when the order was already paid.",
	}, []string{"replayed"})

	PointsCreditedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "points_credited_total",
		Help:      "Loyalty points credited on payment.",
	})

	VouchersRedeemedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_redeemed_total",
		Help:      "Vouchers issued in exchange for points, by tier cost.",
	}, []string{"points_cost"})

	VouchersConsumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_consumed_total",
		Help:      "Vouchers consumed by checkouts.",
	})

	VouchersSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_swept_expired_total",
		Help:      "Vouchers whose stored status was moved to EXPIRED by the sweep.",
	})
)

// Handler exposes the default registry for GET /metrics.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request latency keyed by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func ObserveCheckout(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CheckoutsTotal.WithLabelValues(result).Inc()
}

func ObservePayment(replayed bool, points int64) {
	PaymentsConfirmedTotal.WithLabelValues(strconv.FormatBool(replayed)).Inc()
	if !replayed && points > 0 {
		PointsCreditedTotal.Add(float64(points))
	}
}

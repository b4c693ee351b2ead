package gateway

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	instrumentOnce sync.Once
	latency        *prometheus.HistogramVec
	responseSize   *prometheus.HistogramVec
)

func registerHistogram(h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return h
}

// Instrumentation records per-route latency and response size. Request counts and
// the /metrics endpoint come from go-gin-prometheus in the binary.
func Instrumentation() gin.HandlerFunc {
	instrumentOnce.Do(func() {
		latency = registerHistogram(prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "googleauth",
			Subsystem: "route",
			Name:      "latency_ms",
			Help:      "Response latency per route in milliseconds",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"route", "code"}))
		responseSize = registerHistogram(prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "googleauth",
			Subsystem: "route",
			Name:      "size_bytes",
			Help:      "Response size per route",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 6),
		}, []string{"route"}))
	})
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := float64(time.Since(start)) / float64(time.Millisecond)

		route := routeLabel(c)
		latency.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Observe(duration)
		if size := c.Writer.Size(); size > 0 {
			responseSize.WithLabelValues(route).Observe(float64(size))
		}
	}
}

// unmatched paths share one label to keep cardinality bounded
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

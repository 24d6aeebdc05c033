package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadboard_http_requests_total",
		Help: "HTTP requests by service, route and status code.",
	}, []string{"service", "method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "threadboard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "method", "route"})

	// LikeToggles counts committed toggles. action is "like" or "unlike".
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadboard_like_toggles_total",
		Help: "Committed like toggles by subject kind and resulting action.",
	}, []string{"kind", "action"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadboard_engagement_events_total",
		Help: "Engagement events handed to the broker, by type and outcome.",
	}, []string{"type", "outcome"})
)

// Middleware records request count and latency under the matched route pattern.
func Middleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequests.WithLabelValues(service, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(service, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

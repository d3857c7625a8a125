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
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	StatusCodeCategoryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category"},
	)

	// ContactRequestsSubmitted counts client submissions; outcome is "created" or "duplicate".
	ContactRequestsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_requests_submitted_total",
			Help: "Contact requests submitted by clients",
		},
		[]string{"outcome"},
	)

	ContactRequestsDecided = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_requests_decided_total",
			Help: "Contact requests decided by the agency",
		},
		[]string{"decision"},
	)

	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_image_uploads_total",
			Help: "Property image uploads by outcome",
		},
		[]string{"outcome"},
	)
)

// HTTPMetrics records request metrics for one service
type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	return &HTTPMetrics{ServiceName: serviceName}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// Middleware records count, latency and status category. Paths are route
// templates so ids do not explode label cardinality.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(m.ServiceName, c.Request.Method, path, statusStr).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, c.Request.Method, path, statusStr).
			Observe(time.Since(start).Seconds())
		if category := statusCategory(status); category != "" {
			StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, category).Inc()
		}
	}
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

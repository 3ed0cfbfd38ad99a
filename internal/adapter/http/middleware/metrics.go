package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/iho/subledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records request counts and latency per normalized route.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics collection.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, http.StatusText(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses resource IDs so the route label cardinality stays
// bounded.
func normalizePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		prev := parts[i-1]
		switch prev {
		case "orders", "charges", "services", "tickets", "accounts":
			if part != "" && !isAction(part) {
				parts[i] = ":id"
			}
		}
	}
	return "/" + strings.Join(parts, "/")
}

func isAction(segment string) bool {
	switch segment {
	case "approve", "reject", "cancel", "evidence", "complete", "reply",
		"close", "balance", "entries", "orders", "services", "tickets":
		return true
	}
	return false
}

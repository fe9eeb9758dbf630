package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// withMetrics counts requests and measures their duration, labelled by
// method and response status. The series are exported on GET /metrics.
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		metrics.GetOrCreateCounter(fmt.Sprintf(`http_requests_total{method=%q,status="%d"}`, r.Method, lw.status)).Inc()
		metrics.GetOrCreateSummary(fmt.Sprintf(`http_request_duration_seconds{method=%q}`, r.Method)).UpdateDuration(start)
	})
}

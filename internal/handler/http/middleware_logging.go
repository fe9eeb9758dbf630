package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

// withLogging emits one summary line per request with method, URI, status,
// duration and response size. The raw RequestURI is logged rather than the
// parsed path: for storage commands the query string holds the selection
// modifiers, which matter when diagnosing a client's sync behavior.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		uri := r.RequestURI
		method := r.Method

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		duration := time.Since(start)

		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", duration).
			Int("size", lw.size).
			Send()
	})
}

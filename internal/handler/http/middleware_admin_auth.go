package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
)

var ErrEmptyAuthorizationHeader = errors.New("empty Authorization header")

// withAdminAuth guards the operator routes with the bearer token issued by
// the admin login endpoint. Requests without a valid token are rejected
// with HTTP 401 Unauthorized.
func (h *Handler) withAdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		if err := h.services.AdminService.VerifyToken(r.Context(), tokenString); err != nil {
			log.Err(err).Msg("error occurred during token verification")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

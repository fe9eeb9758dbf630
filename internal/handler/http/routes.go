// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withMetrics)
	router.Use(withGZipRequest)

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.adminLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.withAdminAuth)
			r.Get("/quota", h.adminGetQuota)
			r.Put("/quota", h.adminSetQuota)
			r.Post("/identities", h.adminCreateIdentity)
			r.Get("/users/{syncHash}/clients", h.adminNumClients)
			r.Delete("/users/{syncHash}/storage", h.adminDeleteStorage)
		})
	})

	// the account API is discriminated from the storage API by the fixed
	// /user prefix; everything else is parsed as a storage URL
	router.HandleFunc("/user/*", h.userAPI)
	router.HandleFunc("/*", h.storageAPI)

	return router
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/service"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var login struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		log.Err(err).Str("func", "*Handler.adminLogin").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AdminService.IssueToken(ctx, login.Secret)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		log.Err(err).Str("func", "*Handler.adminLogin").Msg("error issuing admin token")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, token, http.StatusOK)
}

func (h *Handler) adminGetQuota(w http.ResponseWriter, r *http.Request) {
	setting := models.QuotaSetting{Limit: h.services.AdminService.GetQuota(r.Context())}
	utils.WriteJSON(w, setting, http.StatusOK)
}

func (h *Handler) adminSetQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var setting models.QuotaSetting
	if err := json.NewDecoder(r.Body).Decode(&setting); err != nil {
		log.Err(err).Str("func", "*Handler.adminSetQuota").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AdminService.SetQuota(ctx, setting.Limit); err != nil {
		log.Err(err).Str("func", "*Handler.adminSetQuota").Msg("error persisting quota limit")
		http.Error(w, "error persisting quota limit", statusFromError(err))
		return
	}

	utils.WriteJSON(w, setting, http.StatusOK)
}

// adminCreateIdentity provisions a credential record in the identity store.
// Sync accounts are attached to identities later through the account API.
func (h *Handler) adminCreateIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req struct {
		Login    string `json:"login"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.adminCreateIdentity").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	identity := models.Identity{Login: req.Login, Email: req.Email}
	if err := h.services.IdentityService.CreateIdentity(ctx, identity, req.Password); err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			http.Error(w, "identity already exists", http.StatusConflict)
			return
		}
		log.Err(err).Str("func", "*Handler.adminCreateIdentity").Msg("error creating identity")
		http.Error(w, "error creating identity", statusFromError(err))
		return
	}

	utils.WriteJSON(w, identity, http.StatusCreated)
}

// adminNumClients reports how many sync clients an account has attached,
// counted as records in the reserved "clients" collection.
func (h *Handler) adminNumClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	syncID, err := h.services.IdentityService.Resolve(ctx, chi.URLParam(r, "syncHash"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		log.Err(err).Str("func", "*Handler.adminNumClients").Msg("error resolving sync account")
		http.Error(w, "error resolving sync account", statusFromError(err))
		return
	}

	numClients, err := h.services.StorageService.NumClients(ctx, syncID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.adminNumClients").Msg("error counting sync clients")
		http.Error(w, "error counting sync clients", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ClientCount{Clients: numClients}, http.StatusOK)
}

func (h *Handler) adminDeleteStorage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	syncHash := chi.URLParam(r, "syncHash")

	if err := h.services.AdminService.DeleteUserStorage(ctx, syncHash); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		log.Err(err).Str("func", "*Handler.adminDeleteStorage").Msg("error deleting account storage")
		http.Error(w, "error deleting account storage", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/output"
	"github.com/MKhiriev/go-weave-sync/internal/service"
	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/models"
)

var nodeWeavePattern = regexp.MustCompile(`node/weave`)

// userAPI dispatches account provisioning requests. The /user prefix is
// stripped before parsing so the remainder follows the same
// /{version}/{hash}/{commands} scheme as the storage API.
func (h *Handler) userAPI(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	out := output.NewWriter(w, r)

	parser := urlparser.New(strings.TrimPrefix(r.RequestURI, "/user"), h.logger)
	if !parser.IsValid() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	switch {
	case parser.CommandCount() == 0:
		switch r.Method {
		case http.MethodGet:
			h.userExists(w, r, out, parser.SyncHash())
		case http.MethodPut:
			h.userCreate(w, r, out, parser.SyncHash())
		case http.MethodDelete:
			h.userDelete(w, r, out, parser.SyncHash())
		default:
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		}
	case parser.CommandCount() == 1 && r.Method == http.MethodPost:
		// password changes belong to the identity directory behind this
		// server, not to the sync account itself
		http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
	case parser.Match(nodeWeavePattern):
		_ = out.Write(h.nodeAddress)
	default:
		log.Error().Str("func", "*Handler.userAPI").Str("method", r.Method).Str("path", r.URL.Path).Msg("unknown account command")
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

// userExists answers "1" or "0" with status 200 either way.
func (h *Handler) userExists(w http.ResponseWriter, r *http.Request, out *output.Writer, syncHash string) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	exists, err := h.services.IdentityService.AccountExists(ctx, syncHash)
	if err != nil {
		log.Err(err).Str("func", "*Handler.userExists").Msg("error checking account existence")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	if exists {
		_ = out.Write("1")
		return
	}
	_ = out.Write("0")
}

func (h *Handler) userCreate(w http.ResponseWriter, r *http.Request, out *output.Writer, syncHash string) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var account struct {
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		log.Err(err).Str("func", "*Handler.userCreate").Msg("invalid JSON was passed")
		_ = out.WriteError(http.StatusBadRequest, models.WeaveErrorJSONParse)
		return
	}

	if err := h.services.IdentityService.CreateAccount(ctx, syncHash, account.Email, account.Password); err != nil {
		log.Err(err).Str("func", "*Handler.userCreate").Msg("error creating sync account")
		writeWeaveError(out, w, err)
		return
	}

	// clients build the hash from a lowercased username; echo it in that form
	_ = out.Write(strings.ToLower(syncHash))
}

// userDelete removes the account and everything it stored. Requires Basic
// credentials of the account itself; an unknown hash is a plain 404.
func (h *Handler) userDelete(w http.ResponseWriter, r *http.Request, out *output.Writer, syncHash string) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	exists, err := h.services.IdentityService.AccountExists(ctx, syncHash)
	if err != nil {
		log.Err(err).Str("func", "*Handler.userDelete").Msg("error checking account existence")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if !exists {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	username, password, ok := r.BasicAuth()
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	authenticated, err := h.services.IdentityService.Authenticate(ctx, syncHash, username, password)
	if err != nil {
		log.Err(err).Str("func", "*Handler.userDelete").Msg("error verifying credentials")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if !authenticated {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	syncID, err := h.services.IdentityService.Resolve(ctx, syncHash)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		log.Err(err).Str("func", "*Handler.userDelete").Msg("error resolving sync account")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	if err := h.services.StorageService.DeleteStorage(ctx, syncID); err != nil {
		log.Err(err).Str("func", "*Handler.userDelete").Msg("error deleting account storage")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	if err := h.services.IdentityService.DeleteAccount(ctx, syncID); err != nil {
		log.Err(err).Str("func", "*Handler.userDelete").Msg("error deleting sync account")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	_ = out.Write("0")
}

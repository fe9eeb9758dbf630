// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/output"
	"github.com/MKhiriev/go-weave-sync/internal/service"
	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

// storageAPI dispatches every storage request after authenticating the
// account named in the URL. Expired records are purged before the command
// runs, so a record past its TTL is never observable.
func (h *Handler) storageAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	out := output.NewWriter(w, r)

	parser := urlparser.New(r.RequestURI, h.logger)
	if !parser.IsValid() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	syncID, ok := h.authenticateStorage(w, r, parser.SyncHash())
	if !ok {
		return
	}

	ctx = context.WithValue(ctx, utils.SyncIDCtxKey, syncID)
	r = r.WithContext(ctx)

	h.services.StorageService.ExpireOld(ctx)

	switch {
	case parser.CommandCount() == 2 && parser.Command(0) == "info":
		if r.Method != http.MethodGet {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.storageInfo(w, r, out, syncID, parser.Command(1))
	case parser.CommandCount() == 1 && parser.Command(0) == "storage":
		if r.Method != http.MethodDelete {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.storageDeleteAll(w, r, out, syncID)
	case parser.CommandCount() == 2 && parser.Command(0) == "storage":
		h.storageCollection(w, r, out, syncID, parser)
	case parser.CommandCount() == 3 && parser.Command(0) == "storage":
		h.storageRecord(w, r, out, syncID, parser)
	default:
		log.Error().Str("func", "*Handler.storageAPI").Str("method", r.Method).Str("path", r.URL.Path).Msg("unknown storage command")
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

// authenticateStorage verifies Basic credentials against the sync hash in
// the URL and resolves the internal account id. An unknown account is
// reported as 401, not 404, so probing cannot enumerate registered hashes.
func (h *Handler) authenticateStorage(w http.ResponseWriter, r *http.Request, syncHash string) (int64, bool) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	username, password, ok := r.BasicAuth()
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, false
	}

	authenticated, err := h.services.IdentityService.Authenticate(ctx, syncHash, username, password)
	if err != nil {
		log.Err(err).Str("func", "*Handler.authenticateStorage").Msg("error verifying credentials")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return 0, false
	}
	if !authenticated {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return 0, false
	}

	syncID, err := h.services.IdentityService.Resolve(ctx, syncHash)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return 0, false
		}
		log.Err(err).Str("func", "*Handler.authenticateStorage").Msg("error resolving sync account")
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return 0, false
	}

	return syncID, true
}

func (h *Handler) storageInfo(w http.ResponseWriter, r *http.Request, out *output.Writer, syncID int64, item string) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	switch item {
	case "collections":
		times, err := h.services.StorageService.CollectionTimestamps(ctx, syncID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageInfo").Msg("error getting collection timestamps")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.Write(times)
	case "collection_usage":
		usage, err := h.services.StorageService.CollectionUsage(ctx, syncID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageInfo").Msg("error getting collection usage")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.Write(usage)
	case "collection_counts":
		counts, err := h.services.StorageService.CollectionCounts(ctx, syncID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageInfo").Msg("error getting collection counts")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.Write(counts)
	case "quota":
		usage, err := h.services.QuotaService.Usage(ctx, syncID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageInfo").Msg("error getting storage usage")
			writeWeaveError(out, w, err)
			return
		}
		// a zero limit means no quota is enforced and serializes as null
		quota := []any{usage, nil}
		if limit := h.services.QuotaService.Limit(ctx); limit != 0 {
			quota[1] = limit
		}
		_ = out.Write(quota)
	default:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

// storageDeleteAll wipes everything the account has stored. The client must
// assert the X-Confirm-Delete header or the request fails without deleting.
func (h *Handler) storageDeleteAll(w http.ResponseWriter, r *http.Request, out *output.Writer, syncID int64) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if r.Header.Get(models.HeaderConfirmDelete) == "" {
		http.Error(w, http.StatusText(http.StatusPreconditionFailed), http.StatusPreconditionFailed)
		return
	}

	if err := h.services.StorageService.DeleteStorage(ctx, syncID); err != nil {
		log.Err(err).Str("func", "*Handler.storageDeleteAll").Msg("error deleting storage")
		writeWeaveError(out, w, err)
		return
	}

	_ = out.Write(utils.WeaveTimestamp())
}

func (h *Handler) storageCollection(w http.ResponseWriter, r *http.Request, out *output.Writer, syncID int64, parser *urlparser.Parser) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection := parser.Command(1)

	switch r.Method {
	case http.MethodGet:
		wbos, err := h.services.StorageService.GetCollection(ctx, syncID, collection, parser.Modifiers())
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageCollection").Str("collection", collection).Msg("error getting collection")
			writeWeaveError(out, w, err)
			return
		}
		w.Header().Set(models.HeaderRecords, strconv.Itoa(len(wbos)))
		if parser.Modifiers().Has("full") {
			_ = out.Write(wbos)
			return
		}
		ids := make([]string, 0, len(wbos))
		for _, wbo := range wbos {
			ids = append(ids, wbo.ID)
		}
		_ = out.Write(ids)
	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageCollection").Msg("error reading request body")
			_ = out.WriteError(http.StatusBadRequest, models.WeaveErrorJSONParse)
			return
		}
		results, err := h.services.StorageService.PostCollection(ctx, syncID, collection, body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageCollection").Str("collection", collection).Msg("error storing record batch")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.WriteAt(results, results.Modified)
	case http.MethodDelete:
		modified, err := h.services.StorageService.DeleteCollection(ctx, syncID, collection, parser.Modifiers())
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageCollection").Str("collection", collection).Msg("error deleting collection")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.WriteAt(modified, modified)
	default:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

func (h *Handler) storageRecord(w http.ResponseWriter, r *http.Request, out *output.Writer, syncID int64, parser *urlparser.Parser) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	collection, wboID := parser.Command(1), parser.Command(2)

	switch r.Method {
	case http.MethodGet:
		wbo, err := h.services.StorageService.GetWBO(ctx, syncID, collection, wboID)
		if err != nil {
			if !errors.Is(err, service.ErrNotFound) {
				log.Err(err).Str("func", "*Handler.storageRecord").Str("collection", collection).Msg("error getting record")
			}
			writeWeaveError(out, w, err)
			return
		}
		_ = out.Write(wbo)
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageRecord").Msg("error reading request body")
			_ = out.WriteError(http.StatusBadRequest, models.WeaveErrorJSONParse)
			return
		}
		modified, err := h.services.StorageService.PutWBO(ctx, syncID, collection, wboID, body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageRecord").Str("collection", collection).Msg("error storing record")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.WriteAt(modified, modified)
	case http.MethodDelete:
		modified, err := h.services.StorageService.DeleteWBO(ctx, syncID, collection, wboID)
		if err != nil {
			log.Err(err).Str("func", "*Handler.storageRecord").Str("collection", collection).Msg("error deleting record")
			writeWeaveError(out, w, err)
			return
		}
		_ = out.WriteAt(modified, modified)
	default:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	}
}

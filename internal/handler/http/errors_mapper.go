// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-weave-sync/internal/output"
	"github.com/MKhiriev/go-weave-sync/internal/service"
	"github.com/MKhiriev/go-weave-sync/internal/store"
	"github.com/MKhiriev/go-weave-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrQuotaExceeded:       http.StatusBadRequest,
	service.ErrMissingPassword:     http.StatusBadRequest,
	service.ErrMissingEmail:        http.StatusBadRequest,
	service.ErrUserAlreadyExists:   http.StatusBadRequest,
	service.ErrNotFound:            http.StatusNotFound,
	service.ErrUnauthorized:        http.StatusUnauthorized,
	service.ErrTokenInvalid:        http.StatusUnauthorized,
	service.ErrStorageFailure:      http.StatusServiceUnavailable,

	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrNoIdentityWasFound: http.StatusNotFound,
	store.ErrWBONotFound:        http.StatusNotFound,
	store.ErrUserAlreadyExists:  http.StatusBadRequest,
	store.ErrConfigKeyNotFound:  http.StatusNotFound,

	store.ErrBuildingSQLQuery: http.StatusServiceUnavailable,
	store.ErrExecutingQuery:   http.StatusServiceUnavailable,
	store.ErrScanningRows:     http.StatusServiceUnavailable,
}

// weaveCodeMap lists the errors that carry a numeric Weave response code
// as the body instead of plain status text.
var weaveCodeMap = map[error]int{
	service.ErrInvalidDataProvided: models.WeaveErrorJSONParse,
	service.ErrQuotaExceeded:       models.WeaveErrorOverQuota,
	service.ErrMissingPassword:     models.WeaveErrorMissingPassword,
	service.ErrMissingEmail:        models.WeaveErrorNoEmail,
	service.ErrUserAlreadyExists:   models.WeaveErrorUserExists,
	store.ErrUserAlreadyExists:     models.WeaveErrorUserExists,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusServiceUnavailable
}

// writeWeaveError renders err as a protocol response: a numeric Weave code
// body when one is defined for it, plain status text otherwise.
func writeWeaveError(out *output.Writer, w http.ResponseWriter, err error) {
	status := statusFromError(err)
	for target, code := range weaveCodeMap {
		if errors.Is(err, target) {
			_ = out.WriteError(status, code)
			return
		}
	}
	http.Error(w, http.StatusText(status), status)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

var ErrDirectoryUnavailable = errors.New("directory service unavailable")

// DirectoryConfig configures the HTTP credential directory client.
type DirectoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpDirectory struct {
	client *resty.Client
	logger *logger.Logger
}

// NewHTTPDirectory constructs a [CredentialChecker] talking to an HTTP
// directory endpoint. The directory answers POST /check with 200 for
// accepted credentials and 403 for rejected ones.
func NewHTTPDirectory(cfg DirectoryConfig, log *logger.Logger) CredentialChecker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	adapterLogger := log.GetChildLogger()
	adapterLogger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("adapter", "directory")
	})

	return &httpDirectory{
		client: cli,
		logger: adapterLogger,
	}
}

type checkRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *httpDirectory) CheckPassword(ctx context.Context, email string, password string) (bool, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(checkRequest{Email: email, Password: password}).
		Post("/check")
	if err != nil {
		d.logger.Error().Err(err).Msg("directory request failed")
		return false, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		d.logger.Error().Int("status", resp.StatusCode()).Msg("unexpected directory response")
		return false, fmt.Errorf("%w: http %d", ErrDirectoryUnavailable, resp.StatusCode())
	}
}

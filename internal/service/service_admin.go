// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-weave-sync/internal/config"
	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/store"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

// adminSubject is the "sub" claim of every issued admin token.
const adminSubject = "admin"

// adminService is the concrete implementation of AdminService. Operator
// access is gated by a shared secret exchanged for a short-lived JWT;
// maintenance operations reuse the same services the protocol handlers do.
type adminService struct {
	identity IdentityService
	storage  StorageService
	quota    QuotaService
	config   store.ConfigRepository

	secret        string
	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAdminService constructs an AdminService wired to the identity,
// storage and quota services and populated with token parameters from cfg.
func NewAdminService(identity IdentityService, storage StorageService, quota QuotaService, configRepo store.ConfigRepository, cfg config.Admin, logger *logger.Logger) AdminService {
	return &adminService{
		identity:      identity,
		storage:       storage,
		quota:         quota,
		config:        configRepo,
		secret:        cfg.Secret,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// IssueToken exchanges the shared admin secret for a signed token.
func (s *adminService) IssueToken(ctx context.Context, secret string) (models.AdminToken, error) {
	log := logger.FromContext(ctx)

	if s.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		log.Warn().Msg("admin login rejected")
		return models.AdminToken{}, ErrUnauthorized
	}

	token, err := utils.GenerateJWTToken(s.tokenIssuer, adminSubject, s.tokenDuration, s.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("admin token generation failed")
		return models.AdminToken{}, fmt.Errorf("admin token generation failed: %w", err)
	}

	return models.AdminToken{Token: token}, nil
}

// VerifyToken validates a previously issued admin token.
func (s *adminService) VerifyToken(ctx context.Context, token string) error {
	subject, err := utils.ValidateJWTToken(token, s.tokenSignKey, s.tokenIssuer)
	if err != nil || subject != adminSubject {
		return ErrTokenInvalid
	}

	return nil
}

// SetQuota persists a new quota limit override in kilobytes.
func (s *adminService) SetQuota(ctx context.Context, limitKB int64) error {
	if limitKB < 0 {
		return ErrInvalidDataProvided
	}

	if err := s.config.Set(ctx, quotaConfigKey, strconv.FormatInt(limitKB, 10)); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return nil
}

// GetQuota returns the active quota limit in kilobytes.
func (s *adminService) GetQuota(ctx context.Context) int64 {
	return s.quota.Limit(ctx)
}

// DeleteUserStorage wipes all stored data of the account behind syncHash.
// The account mapping itself is kept.
func (s *adminService) DeleteUserStorage(ctx context.Context, syncHash string) error {
	syncID, err := s.identity.Resolve(ctx, syncHash)
	if err != nil {
		return err
	}

	return s.storage.DeleteStorage(ctx, syncID)
}

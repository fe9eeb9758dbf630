// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/store"
)

// quotaConfigKey is the persisted override for the configured quota limit.
const quotaConfigKey = "quota"

// quotaService is the concrete implementation of QuotaService. The limit
// comes from static configuration unless an override has been persisted
// through the admin API; usage is recomputed from the storage engine on
// every check.
type quotaService struct {
	storage      store.StorageRepository
	config       store.ConfigRepository
	defaultLimit int64
	logger       *logger.Logger
}

// NewQuotaService constructs a QuotaService with defaultLimit as the
// configured cap in kilobytes, 0 meaning unlimited.
func NewQuotaService(storage store.StorageRepository, config store.ConfigRepository, defaultLimit int64, logger *logger.Logger) QuotaService {
	return &quotaService{
		storage:      storage,
		config:       config,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Usage returns the account's total stored payload volume in kilobytes.
func (s *quotaService) Usage(ctx context.Context, syncID int64) (float64, error) {
	sizes, err := s.storage.CollectionSizes(ctx, syncID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	var usage float64
	for _, size := range sizes {
		usage += size
	}

	return usage, nil
}

// Limit returns the active quota limit in kilobytes. A persisted override
// takes precedence; an unreadable override falls back to configuration.
func (s *quotaService) Limit(ctx context.Context) int64 {
	log := logger.FromContext(ctx)

	value, err := s.config.Get(ctx, quotaConfigKey)
	if errors.Is(err, store.ErrConfigKeyNotFound) {
		return s.defaultLimit
	}
	if err != nil {
		log.Err(err).Msg("reading quota override failed")
		return s.defaultLimit
	}

	limit, err := strconv.ParseInt(value, 10, 64)
	if err != nil || limit < 0 {
		log.Warn().Str("value", value).Msg("ignoring malformed quota override")
		return s.defaultLimit
	}

	return limit
}

// Check returns ErrQuotaExceeded when storing additionalKB more data
// would reach the limit. A limit of 0 never rejects.
func (s *quotaService) Check(ctx context.Context, syncID int64, additionalKB float64) error {
	limit := s.Limit(ctx)
	if limit == 0 {
		return nil
	}

	usage, err := s.Usage(ctx, syncID)
	if err != nil {
		return err
	}

	if usage+additionalKB >= float64(limit) {
		return ErrQuotaExceeded
	}

	return nil
}

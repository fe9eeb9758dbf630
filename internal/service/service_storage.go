// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/store"
	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/internal/utils"
	"github.com/MKhiriev/go-weave-sync/models"
)

// storageService is the concrete implementation of StorageService.
// It translates protocol operations into storage engine calls: collection
// resolution, record upserts with server-assigned timestamps, quota
// enforcement on writes and collection cleanup after deletes.
type storageService struct {
	storage store.StorageRepository
	quota   QuotaService
	logger  *logger.Logger
}

// NewStorageService constructs a StorageService backed by the storage
// engine repository and the quota enforcer.
func NewStorageService(storage store.StorageRepository, quota QuotaService, logger *logger.Logger) StorageService {
	return &storageService{
		storage: storage,
		quota:   quota,
		logger:  logger,
	}
}

// ExpireOld removes records whose time to live has elapsed. Expiry runs
// at the start of every storage request and is best-effort: a failure is
// logged and the request proceeds.
func (s *storageService) ExpireOld(ctx context.Context) {
	log := logger.FromContext(ctx)

	if err := s.storage.ExpireWBOs(ctx, utils.WeaveTimestamp()); err != nil {
		event := log.Err(err)
		if syncID, ok := utils.GetSyncIDFromContext(ctx); ok {
			event = event.Int64("sync_id", syncID)
		}
		event.Msg("expiry sweep failed")
	}
}

// CollectionTimestamps returns the last modification time of each
// non-empty collection.
func (s *storageService) CollectionTimestamps(ctx context.Context, syncID int64) (map[string]float64, error) {
	times, err := s.storage.CollectionModifiedTimes(ctx, syncID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return times, nil
}

// CollectionCounts returns the record count of each non-empty collection.
func (s *storageService) CollectionCounts(ctx context.Context, syncID int64) (map[string]int64, error) {
	counts, err := s.storage.CollectionCounts(ctx, syncID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return counts, nil
}

// CollectionUsage returns the payload volume of each non-empty collection
// in kilobytes.
func (s *storageService) CollectionUsage(ctx context.Context, syncID int64) (map[string]float64, error) {
	sizes, err := s.storage.CollectionSizes(ctx, syncID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return sizes, nil
}

// GetCollection returns records matching the query modifiers. The "full"
// modifier selects whole records; its absence selects bare ids.
func (s *storageService) GetCollection(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) ([]models.WBO, error) {
	collectionID, err := s.storage.CollectionID(ctx, syncID, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	wbos, err := s.storage.GetCollection(ctx, collectionID, modifiers, modifiers.Has("full"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return wbos, nil
}

// GetWBO returns a single record by id.
func (s *storageService) GetWBO(ctx context.Context, syncID int64, collection, wboID string) (models.WBO, error) {
	collectionID, err := s.storage.CollectionID(ctx, syncID, collection)
	if err != nil {
		return models.WBO{}, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	wbo, err := s.storage.GetWBO(ctx, collectionID, wboID)
	if err != nil {
		if errors.Is(err, store.ErrWBONotFound) {
			return models.WBO{}, ErrNotFound
		}
		return models.WBO{}, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return wbo, nil
}

// PutWBO stores a single record parsed from the raw request body. The
// record id comes from the URL; a timestamp in the body is honored,
// otherwise the current time is assigned. The write is quota-checked
// with the inbound body size as the usage estimate.
func (s *storageService) PutWBO(ctx context.Context, syncID int64, collection, wboID string, body []byte) (float64, error) {
	log := logger.FromContext(ctx)

	var wbo models.WBO
	if err := json.Unmarshal(body, &wbo); err != nil {
		log.Err(err).Str("collection", collection).Msg("malformed record body")
		return 0, ErrInvalidDataProvided
	}
	wbo.ID = wboID

	if err := s.quota.Check(ctx, syncID, float64(len(body))/1000.0); err != nil {
		return 0, err
	}

	modified := utils.WeaveTimestamp()
	if wbo.Modified != nil {
		modified = utils.RoundTimestamp(*wbo.Modified)
	}

	collectionID, err := s.storage.CollectionID(ctx, syncID, collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	if err := s.storage.SaveWBO(ctx, collectionID, modified, wbo); err != nil {
		if errors.Is(err, store.ErrMissingWBOID) {
			return 0, ErrInvalidDataProvided
		}
		log.Err(err).Str("collection", collection).Str("wbo", wboID).Msg("record upsert failed")
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return modified, nil
}

// PostCollection stores an ordered batch of records. Quota is checked
// once for the whole batch, every stored record shares one timestamp and
// a failing item is reported in the result without aborting the rest.
func (s *storageService) PostCollection(ctx context.Context, syncID int64, collection string, body []byte) (models.PostResults, error) {
	log := logger.FromContext(ctx)

	var wbos []models.WBO
	if err := json.Unmarshal(body, &wbos); err != nil {
		log.Err(err).Str("collection", collection).Msg("malformed batch body")
		return models.PostResults{}, ErrInvalidDataProvided
	}

	if err := s.quota.Check(ctx, syncID, float64(len(body))/1000.0); err != nil {
		return models.PostResults{}, err
	}

	collectionID, err := s.storage.CollectionID(ctx, syncID, collection)
	if err != nil {
		return models.PostResults{}, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	modified := utils.WeaveTimestamp()
	results := models.NewPostResults(modified)

	for i, wbo := range wbos {
		if wbo.ID == "" {
			results.Failed[strconv.Itoa(i)] = "invalid record"
			continue
		}

		if err := s.storage.SaveWBO(ctx, collectionID, modified, wbo); err != nil {
			log.Err(err).Str("collection", collection).Str("wbo", wbo.ID).Msg("record upsert failed")
			results.Failed[wbo.ID] = "failed to store record"
			continue
		}

		results.Success = append(results.Success, wbo.ID)
	}

	return *results, nil
}

// DeleteWBO removes a single record. Removing an absent record succeeds.
func (s *storageService) DeleteWBO(ctx context.Context, syncID int64, collection, wboID string) (float64, error) {
	collectionID, err := s.storage.CollectionID(ctx, syncID, collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	if err := s.storage.DeleteWBO(ctx, collectionID, wboID); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return utils.WeaveTimestamp(), nil
}

// DeleteCollection removes records matching the selection modifiers and
// drops the collection row once empty.
func (s *storageService) DeleteCollection(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) (float64, error) {
	collectionID, err := s.storage.CollectionID(ctx, syncID, collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	if err := s.storage.DeleteCollection(ctx, collectionID, modifiers); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return utils.WeaveTimestamp(), nil
}

// DeleteStorage removes everything the account has stored.
func (s *storageService) DeleteStorage(ctx context.Context, syncID int64) error {
	if err := s.storage.DeleteStorage(ctx, syncID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return nil
}

// NumClients counts records in the reserved "clients" collection.
func (s *storageService) NumClients(ctx context.Context, syncID int64) (int64, error) {
	numClients, err := s.storage.NumClients(ctx, syncID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return numClients, nil
}

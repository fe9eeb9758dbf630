// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

// configRepository is the SQL-backed implementation of [ConfigRepository],
// a key-value table for settings adjustable at runtime (quota overrides).
type configRepository struct {
	logger *logger.Logger
	db     *Database
}

// NewConfigRepository constructs a [ConfigRepository] backed by the
// provided database connection and logger.
func NewConfigRepository(db *Database, logger *logger.Logger) ConfigRepository {
	logger.Debug().Msg("creating config repository")
	return &configRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the stored value for key, or [ErrConfigKeyNotFound].
func (r *configRepository) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("configvalue").
		From("appconfig").
		Where(sq.Eq{"configkey": key}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*configRepository.Get").Msg("error: building query")
		return "", ErrBuildingSQLQuery
	}

	var value string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrConfigKeyNotFound
		}

		log.Err(err).Str("func", "*configRepository.Get").Msg("error: scanning error")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return value, nil
}

// Set stores the value, overwriting any previous one. Both supported
// dialects handle the upsert via ON CONFLICT.
func (r *configRepository) Set(ctx context.Context, key string, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("appconfig").
		Columns("configkey", "configvalue").
		Values(key, value).
		Suffix("ON CONFLICT (configkey) DO UPDATE SET configvalue = EXCLUDED.configvalue").
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*configRepository.Set").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*configRepository.Set").Msg("error: upserting config value")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

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

// userRepository is the SQL-backed implementation of [UserRepository].
// It maintains the "sync_users" table mapping sync hashes to the numeric
// user ids every storage row is keyed by.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *Database
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *Database, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// SyncIDForHash resolves a sync hash to the internal numeric user id.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) SyncIDForHash(ctx context.Context, syncHash string) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("id").
		From("sync_users").
		Where(sq.Eq{"sync_hash": syncHash}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SyncIDForHash").Msg("error: building query")
		return 0, ErrBuildingSQLQuery
	}

	var syncID int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&syncID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.SyncIDForHash").Msg("error: scanning error")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return syncID, nil
}

// LoginForHash resolves a sync hash to the account login it was
// registered for.
func (r *userRepository) LoginForHash(ctx context.Context, syncHash string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("login").
		From("sync_users").
		Where(sq.Eq{"sync_hash": syncHash}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.LoginForHash").Msg("error: building query")
		return "", ErrBuildingSQLQuery
	}

	var login string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoUserWasFound
		}

		log.Err(err).Str("func", "*userRepository.LoginForHash").Msg("error: scanning error")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return login, nil
}

// Exists reports whether a sync user with the given hash is registered.
func (r *userRepository) Exists(ctx context.Context, syncHash string) (bool, error) {
	_, err := r.SyncIDForHash(ctx, syncHash)
	if errors.Is(err, ErrNoUserWasFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Create registers a new sync user for the given account login.
//
// Error handling:
//   - Unique constraint violation on the hash → [ErrUserAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) Create(ctx context.Context, login string, syncHash string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("sync_users").
		Columns("login", "sync_hash").
		Values(login, syncHash).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}

		log.Err(err).Str("func", "*userRepository.Create").Msg("error: inserting sync user")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// Delete removes the sync user row. Storage rows are removed separately
// by [StorageRepository.DeleteStorage].
func (r *userRepository) Delete(ctx context.Context, syncID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("sync_users").
		Where(sq.Eq{"id": syncID}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Delete").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.Delete").Msg("error: deleting sync user")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/models"
)

// identityRepository is the SQL-backed implementation of [IdentityRepository].
// It stores account credentials in the "identities" table with bcrypt
// password hashes.
type identityRepository struct {
	logger *logger.Logger
	db     *Database
}

// NewIdentityRepository constructs an [IdentityRepository] backed by the
// provided database connection and logger.
func NewIdentityRepository(db *Database, logger *logger.Logger) IdentityRepository {
	logger.Debug().Msg("creating identity repository")
	return &identityRepository{
		db:     db,
		logger: logger,
	}
}

// LoginForEmail resolves an email address to the account login.
//
// Error handling:
//   - No matching row → [ErrNoIdentityWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *identityRepository) LoginForEmail(ctx context.Context, email string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("login").
		From("identities").
		Where(sq.Eq{"email": email}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.LoginForEmail").Msg("error: building query")
		return "", ErrBuildingSQLQuery
	}

	var login string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoIdentityWasFound
		}

		log.Err(err).Str("func", "*identityRepository.LoginForEmail").Msg("error: scanning error")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return login, nil
}

// EmailForLogin resolves a login to its registered email address.
func (r *identityRepository) EmailForLogin(ctx context.Context, login string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("email").
		From("identities").
		Where(sq.Eq{"login": login}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.EmailForLogin").Msg("error: building query")
		return "", ErrBuildingSQLQuery
	}

	var email string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoIdentityWasFound
		}

		log.Err(err).Str("func", "*identityRepository.EmailForLogin").Msg("error: scanning error")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return email, nil
}

// CheckPassword verifies a password against the stored bcrypt hash.
// An unknown login yields (false, nil) so callers can fall through to
// secondary credential sources without error branching.
func (r *identityRepository) CheckPassword(ctx context.Context, login string, password string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("password_hash").
		From("identities").
		Where(sq.Eq{"login": login}).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.CheckPassword").Msg("error: building query")
		return false, ErrBuildingSQLQuery
	}

	var passwordHash string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		log.Err(err).Str("func", "*identityRepository.CheckPassword").Msg("error: scanning error")
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return false, nil
	}

	return true, nil
}

// Create stores a new identity, hashing the password with bcrypt at the
// default cost.
func (r *identityRepository) Create(ctx context.Context, identity models.Identity, password string) error {
	log := logger.FromContext(ctx)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.Create").Msg("error: hashing password")
		return err
	}

	query, args, err := sq.Insert("identities").
		Columns("login", "email", "password_hash").
		Values(identity.Login, identity.Email, string(passwordHash)).
		PlaceholderFormat(r.db.Placeholder()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*identityRepository.Create").Msg("error: building query")
		return ErrBuildingSQLQuery
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}

		log.Err(err).Str("func", "*identityRepository.Create").Msg("error: inserting identity")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

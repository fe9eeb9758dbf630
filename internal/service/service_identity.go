// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-weave-sync/internal/adapter"
	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/store"
	"github.com/MKhiriev/go-weave-sync/models"
)

// identityService is the concrete implementation of IdentityService.
// It resolves sync hashes through the UserRepository and verifies
// passwords against local identities first, falling back to an external
// directory keyed by email when the local check rejects. The fallback
// exists because deployments may keep credentials only in the directory,
// keyed differently than the local identity table.
type identityService struct {
	users      store.UserRepository
	identities store.IdentityRepository
	directory  adapter.CredentialChecker
	logger     *logger.Logger
}

// NewIdentityService constructs an IdentityService. directory may be nil
// when no external fallback is configured.
func NewIdentityService(users store.UserRepository, identities store.IdentityRepository, directory adapter.CredentialChecker, logger *logger.Logger) IdentityService {
	return &identityService{
		users:      users,
		identities: identities,
		directory:  directory,
		logger:     logger,
	}
}

// Resolve maps a sync hash to the internal account id.
func (s *identityService) Resolve(ctx context.Context, syncHash string) (int64, error) {
	syncID, err := s.users.SyncIDForHash(ctx, syncHash)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return syncID, nil
}

// Authenticate verifies credentials for the account behind syncHash.
// The transport-level username must equal the hash in the URL exactly;
// then the password is checked against the local identity, and on
// rejection against the directory using the identity's email.
func (s *identityService) Authenticate(ctx context.Context, syncHash, username, password string) (bool, error) {
	log := logger.FromContext(ctx)

	if username != syncHash {
		log.Warn().Str("username", username).Msg("credential username does not match account hash")
		return false, nil
	}

	login, err := s.users.LoginForHash(ctx, syncHash)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	ok, err := s.identities.CheckPassword(ctx, login, password)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if ok {
		return true, nil
	}

	return s.checkDirectory(ctx, login, password)
}

// checkDirectory retries the password check against the external
// directory, keyed by the identity's email.
func (s *identityService) checkDirectory(ctx context.Context, login, password string) (bool, error) {
	log := logger.FromContext(ctx)

	if s.directory == nil {
		return false, nil
	}

	email, err := s.identities.EmailForLogin(ctx, login)
	if errors.Is(err, store.ErrNoIdentityWasFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	ok, err := s.directory.CheckPassword(ctx, email, password)
	if err != nil {
		log.Err(err).Str("login", login).Msg("directory password check failed")
		return false, nil
	}

	return ok, nil
}

// AccountExists reports whether a sync account is registered for the hash.
func (s *identityService) AccountExists(ctx context.Context, syncHash string) (bool, error) {
	exists, err := s.users.Exists(ctx, syncHash)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return exists, nil
}

// CreateAccount registers a sync account for the identity owning email.
// The email must map to a known identity and the password must verify
// before the mapping is inserted.
func (s *identityService) CreateAccount(ctx context.Context, syncHash, email, password string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrMissingEmail
	}
	if password == "" {
		return ErrMissingPassword
	}

	login, err := s.identities.LoginForEmail(ctx, email)
	if errors.Is(err, store.ErrNoIdentityWasFound) {
		return ErrMissingEmail
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	ok, err := s.identities.CheckPassword(ctx, login, password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if !ok {
		ok, err = s.directoryCheckByEmail(ctx, email, password)
		if err != nil {
			return err
		}
	}
	if !ok {
		return ErrUnauthorized
	}

	if err := s.users.Create(ctx, login, syncHash); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return ErrUserAlreadyExists
		}
		log.Err(err).Str("login", login).Msg("sync account creation failed")
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return nil
}

func (s *identityService) directoryCheckByEmail(ctx context.Context, email, password string) (bool, error) {
	if s.directory == nil {
		return false, nil
	}

	ok, err := s.directory.CheckPassword(ctx, email, password)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("directory password check failed")
		return false, nil
	}

	return ok, nil
}

// CreateIdentity provisions a credential record in the identity store.
// Login, email and password are all required.
func (s *identityService) CreateIdentity(ctx context.Context, identity models.Identity, password string) error {
	if identity.Email == "" {
		return ErrMissingEmail
	}
	if password == "" {
		return ErrMissingPassword
	}
	if identity.Login == "" {
		return ErrInvalidDataProvided
	}

	if err := s.identities.Create(ctx, identity, password); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return nil
}

// DeleteAccount removes the sync account mapping.
func (s *identityService) DeleteAccount(ctx context.Context, syncID int64) error {
	if err := s.users.Delete(ctx, syncID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/models"
)

// UserRepository manages the mapping between sync hashes and numeric user ids.
type UserRepository interface {
	// SyncIDForHash resolves a sync hash to the internal user id.
	// Returns ErrNoUserWasFound when the hash is unknown.
	SyncIDForHash(ctx context.Context, syncHash string) (int64, error)
	// LoginForHash resolves a sync hash to the account login.
	LoginForHash(ctx context.Context, syncHash string) (string, error)
	// Exists reports whether a sync user with the given hash is registered.
	Exists(ctx context.Context, syncHash string) (bool, error)
	// Create registers a new sync user. Returns ErrUserAlreadyExists when
	// the hash is already taken.
	Create(ctx context.Context, login string, syncHash string) error
	// Delete removes the sync user row.
	Delete(ctx context.Context, syncID int64) error
}

// IdentityRepository holds account credentials.
type IdentityRepository interface {
	// LoginForEmail resolves an email address to a login.
	// Returns ErrNoIdentityWasFound when no identity carries the email.
	LoginForEmail(ctx context.Context, email string) (string, error)
	// EmailForLogin resolves a login to its email address.
	EmailForLogin(ctx context.Context, login string) (string, error)
	// CheckPassword verifies a password against the stored hash.
	// An unknown login yields (false, nil).
	CheckPassword(ctx context.Context, login string, password string) (bool, error)
	// Create stores a new identity with a hashed password.
	Create(ctx context.Context, identity models.Identity, password string) error
}

// StorageRepository is the sync storage engine: collections and the
// weave basic objects stored in them.
type StorageRepository interface {
	// CollectionID resolves a collection name to its id, creating the
	// collection on first use.
	CollectionID(ctx context.Context, userID int64, name string) (int64, error)
	// ExpireWBOs deletes objects whose time to live has elapsed at now.
	ExpireWBOs(ctx context.Context, now float64) error
	// SaveWBO inserts or updates a single object. Only fields present on
	// wbo overwrite stored values; absent fields are left untouched.
	SaveWBO(ctx context.Context, collectionID int64, modified float64, wbo models.WBO) error
	// GetWBO fetches a single object by id. Returns ErrWBONotFound.
	GetWBO(ctx context.Context, collectionID int64, wboID string) (models.WBO, error)
	// GetCollection fetches objects matching the query modifiers. When
	// full is false only object ids are populated.
	GetCollection(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers, full bool) ([]models.WBO, error)
	// DeleteWBO removes a single object by id.
	DeleteWBO(ctx context.Context, collectionID int64, wboID string) error
	// DeleteCollection removes objects matching the selection modifiers
	// and drops the collection row once it holds no objects.
	DeleteCollection(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers) error
	// DeleteStorage removes every collection and object of the user.
	DeleteStorage(ctx context.Context, userID int64) error
	// CollectionModifiedTimes returns the last modification time per
	// non-empty collection.
	CollectionModifiedTimes(ctx context.Context, userID int64) (map[string]float64, error)
	// CollectionSizes returns the payload volume per non-empty collection
	// in kilobytes.
	CollectionSizes(ctx context.Context, userID int64) (map[string]float64, error)
	// CollectionCounts returns the object count per non-empty collection.
	CollectionCounts(ctx context.Context, userID int64) (map[string]int64, error)
	// NumClients counts records in the reserved "clients" collection.
	NumClients(ctx context.Context, userID int64) (int64, error)
}

// ConfigRepository is persistent key-value configuration storage.
type ConfigRepository interface {
	// Get returns the stored value. Returns ErrConfigKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores the value, overwriting any previous one.
	Set(ctx context.Context, key string, value string) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/models"
)

// IdentityService maps externally-visible sync hashes to internal
// accounts and verifies credentials.
type IdentityService interface {
	// Resolve maps a sync hash to the internal account id.
	// Returns ErrNotFound for an unknown hash.
	Resolve(ctx context.Context, syncHash string) (int64, error)
	// Authenticate verifies transport credentials for the account behind
	// syncHash. The supplied username must equal the hash itself.
	Authenticate(ctx context.Context, syncHash, username, password string) (bool, error)
	// AccountExists reports whether a sync account is registered for the hash.
	AccountExists(ctx context.Context, syncHash string) (bool, error)
	// CreateAccount registers a sync account for the identity owning email.
	CreateAccount(ctx context.Context, syncHash, email, password string) error
	// CreateIdentity provisions a credential record in the identity store.
	CreateIdentity(ctx context.Context, identity models.Identity, password string) error
	// DeleteAccount removes the sync account mapping.
	DeleteAccount(ctx context.Context, syncID int64) error
}

// StorageService implements the record and collection operations of the
// storage protocol on top of the storage engine.
type StorageService interface {
	// ExpireOld removes records whose time to live has elapsed. Failures
	// are logged and swallowed; expiry is best-effort.
	ExpireOld(ctx context.Context)
	// CollectionTimestamps returns the last modification time of each
	// non-empty collection.
	CollectionTimestamps(ctx context.Context, syncID int64) (map[string]float64, error)
	// CollectionCounts returns the record count of each non-empty collection.
	CollectionCounts(ctx context.Context, syncID int64) (map[string]int64, error)
	// CollectionUsage returns the payload volume of each non-empty
	// collection in kilobytes.
	CollectionUsage(ctx context.Context, syncID int64) (map[string]float64, error)
	// GetCollection returns records matching the query modifiers; bare ids
	// unless the "full" modifier is present.
	GetCollection(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) ([]models.WBO, error)
	// GetWBO returns a single record. Returns ErrNotFound if absent.
	GetWBO(ctx context.Context, syncID int64, collection, wboID string) (models.WBO, error)
	// PutWBO stores a single record from a raw request body and returns
	// the timestamp recorded for it.
	PutWBO(ctx context.Context, syncID int64, collection, wboID string, body []byte) (float64, error)
	// PostCollection stores an ordered batch of records from a raw request
	// body. Items failing individually are reported in the result, not as
	// an error.
	PostCollection(ctx context.Context, syncID int64, collection string, body []byte) (models.PostResults, error)
	// DeleteWBO removes a single record and returns the deletion timestamp.
	// Removing an absent record succeeds.
	DeleteWBO(ctx context.Context, syncID int64, collection, wboID string) (float64, error)
	// DeleteCollection removes records matching the selection modifiers
	// and returns the deletion timestamp.
	DeleteCollection(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) (float64, error)
	// DeleteStorage removes everything the account has stored.
	DeleteStorage(ctx context.Context, syncID int64) error
	// NumClients counts records in the reserved "clients" collection.
	NumClients(ctx context.Context, syncID int64) (int64, error)
}

// QuotaService computes storage usage against the configured limit.
type QuotaService interface {
	// Usage returns the account's total stored payload volume in kilobytes.
	Usage(ctx context.Context, syncID int64) (float64, error)
	// Limit returns the active quota limit in kilobytes, 0 meaning
	// unlimited. A persisted override takes precedence over configuration.
	Limit(ctx context.Context) int64
	// Check returns ErrQuotaExceeded when storing additionalKB more data
	// would reach the limit.
	Check(ctx context.Context, syncID int64, additionalKB float64) error
}

// AdminService backs the operator API: token issuance and runtime
// maintenance operations.
type AdminService interface {
	// IssueToken exchanges the shared admin secret for a signed token.
	IssueToken(ctx context.Context, secret string) (models.AdminToken, error)
	// VerifyToken validates a previously issued admin token.
	VerifyToken(ctx context.Context, token string) error
	// SetQuota persists a new quota limit override in kilobytes.
	SetQuota(ctx context.Context, limitKB int64) error
	// GetQuota returns the active quota limit in kilobytes.
	GetQuota(ctx context.Context) int64
	// DeleteUserStorage wipes all stored data of the account behind syncHash.
	DeleteUserStorage(ctx context.Context, syncHash string) error
}

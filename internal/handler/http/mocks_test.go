// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-weave-sync/internal/config"
	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/service"
	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/models"
)

// ─────────────────────────────────────────────
// Mock IdentityService
// ─────────────────────────────────────────────

// mockIdentityService implements service.IdentityService for unit tests.
// Each method field can be overridden per test case.
type mockIdentityService struct {
	resolveFn        func(ctx context.Context, syncHash string) (int64, error)
	authenticateFn   func(ctx context.Context, syncHash, username, password string) (bool, error)
	accountExistsFn  func(ctx context.Context, syncHash string) (bool, error)
	createAccountFn  func(ctx context.Context, syncHash, email, password string) error
	createIdentityFn func(ctx context.Context, identity models.Identity, password string) error
	deleteAccountFn  func(ctx context.Context, syncID int64) error
}

func (m *mockIdentityService) Resolve(ctx context.Context, syncHash string) (int64, error) {
	return m.resolveFn(ctx, syncHash)
}

func (m *mockIdentityService) Authenticate(ctx context.Context, syncHash, username, password string) (bool, error) {
	return m.authenticateFn(ctx, syncHash, username, password)
}

func (m *mockIdentityService) AccountExists(ctx context.Context, syncHash string) (bool, error) {
	return m.accountExistsFn(ctx, syncHash)
}

func (m *mockIdentityService) CreateAccount(ctx context.Context, syncHash, email, password string) error {
	return m.createAccountFn(ctx, syncHash, email, password)
}

func (m *mockIdentityService) CreateIdentity(ctx context.Context, identity models.Identity, password string) error {
	return m.createIdentityFn(ctx, identity, password)
}

func (m *mockIdentityService) DeleteAccount(ctx context.Context, syncID int64) error {
	return m.deleteAccountFn(ctx, syncID)
}

// authedIdentity accepts any credentials and resolves every hash to syncID.
func authedIdentity(syncID int64) *mockIdentityService {
	return &mockIdentityService{
		authenticateFn: func(_ context.Context, _, _, _ string) (bool, error) {
			return true, nil
		},
		resolveFn: func(_ context.Context, _ string) (int64, error) {
			return syncID, nil
		},
	}
}

// ─────────────────────────────────────────────
// Mock StorageService
// ─────────────────────────────────────────────

type mockStorageService struct {
	expired bool

	collectionTimestampsFn func(ctx context.Context, syncID int64) (map[string]float64, error)
	collectionCountsFn     func(ctx context.Context, syncID int64) (map[string]int64, error)
	collectionUsageFn      func(ctx context.Context, syncID int64) (map[string]float64, error)
	getCollectionFn        func(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) ([]models.WBO, error)
	getWBOFn               func(ctx context.Context, syncID int64, collection, wboID string) (models.WBO, error)
	putWBOFn               func(ctx context.Context, syncID int64, collection, wboID string, body []byte) (float64, error)
	postCollectionFn       func(ctx context.Context, syncID int64, collection string, body []byte) (models.PostResults, error)
	deleteWBOFn            func(ctx context.Context, syncID int64, collection, wboID string) (float64, error)
	deleteCollectionFn     func(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) (float64, error)
	deleteStorageFn        func(ctx context.Context, syncID int64) error
	numClientsFn           func(ctx context.Context, syncID int64) (int64, error)
}

func (m *mockStorageService) ExpireOld(_ context.Context) {
	m.expired = true
}

func (m *mockStorageService) CollectionTimestamps(ctx context.Context, syncID int64) (map[string]float64, error) {
	return m.collectionTimestampsFn(ctx, syncID)
}

func (m *mockStorageService) CollectionCounts(ctx context.Context, syncID int64) (map[string]int64, error) {
	return m.collectionCountsFn(ctx, syncID)
}

func (m *mockStorageService) CollectionUsage(ctx context.Context, syncID int64) (map[string]float64, error) {
	return m.collectionUsageFn(ctx, syncID)
}

func (m *mockStorageService) GetCollection(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) ([]models.WBO, error) {
	return m.getCollectionFn(ctx, syncID, collection, modifiers)
}

func (m *mockStorageService) GetWBO(ctx context.Context, syncID int64, collection, wboID string) (models.WBO, error) {
	return m.getWBOFn(ctx, syncID, collection, wboID)
}

func (m *mockStorageService) PutWBO(ctx context.Context, syncID int64, collection, wboID string, body []byte) (float64, error) {
	return m.putWBOFn(ctx, syncID, collection, wboID, body)
}

func (m *mockStorageService) PostCollection(ctx context.Context, syncID int64, collection string, body []byte) (models.PostResults, error) {
	return m.postCollectionFn(ctx, syncID, collection, body)
}

func (m *mockStorageService) DeleteWBO(ctx context.Context, syncID int64, collection, wboID string) (float64, error) {
	return m.deleteWBOFn(ctx, syncID, collection, wboID)
}

func (m *mockStorageService) DeleteCollection(ctx context.Context, syncID int64, collection string, modifiers urlparser.Modifiers) (float64, error) {
	return m.deleteCollectionFn(ctx, syncID, collection, modifiers)
}

func (m *mockStorageService) DeleteStorage(ctx context.Context, syncID int64) error {
	return m.deleteStorageFn(ctx, syncID)
}

func (m *mockStorageService) NumClients(ctx context.Context, syncID int64) (int64, error) {
	return m.numClientsFn(ctx, syncID)
}

// ─────────────────────────────────────────────
// Mock QuotaService
// ─────────────────────────────────────────────

type mockQuotaService struct {
	usageFn func(ctx context.Context, syncID int64) (float64, error)
	limitFn func(ctx context.Context) int64
	checkFn func(ctx context.Context, syncID int64, additionalKB float64) error
}

func (m *mockQuotaService) Usage(ctx context.Context, syncID int64) (float64, error) {
	return m.usageFn(ctx, syncID)
}

func (m *mockQuotaService) Limit(ctx context.Context) int64 {
	if m.limitFn == nil {
		return 0
	}
	return m.limitFn(ctx)
}

func (m *mockQuotaService) Check(ctx context.Context, syncID int64, additionalKB float64) error {
	if m.checkFn == nil {
		return nil
	}
	return m.checkFn(ctx, syncID, additionalKB)
}

// ─────────────────────────────────────────────
// Mock AdminService
// ─────────────────────────────────────────────

type mockAdminService struct {
	issueTokenFn        func(ctx context.Context, secret string) (models.AdminToken, error)
	verifyTokenFn       func(ctx context.Context, token string) error
	setQuotaFn          func(ctx context.Context, limitKB int64) error
	getQuotaFn          func(ctx context.Context) int64
	deleteUserStorageFn func(ctx context.Context, syncHash string) error
}

func (m *mockAdminService) IssueToken(ctx context.Context, secret string) (models.AdminToken, error) {
	return m.issueTokenFn(ctx, secret)
}

func (m *mockAdminService) VerifyToken(ctx context.Context, token string) error {
	if m.verifyTokenFn == nil {
		return nil
	}
	return m.verifyTokenFn(ctx, token)
}

func (m *mockAdminService) SetQuota(ctx context.Context, limitKB int64) error {
	return m.setQuotaFn(ctx, limitKB)
}

func (m *mockAdminService) GetQuota(ctx context.Context) int64 {
	return m.getQuotaFn(ctx)
}

func (m *mockAdminService) DeleteUserStorage(ctx context.Context, syncHash string) error {
	return m.deleteUserStorageFn(ctx, syncHash)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const testNodeAddress = "https://sync.example.test/"

// newTestHandler builds a Handler around the given service set.
func newTestHandler(t *testing.T, svcs *service.Services) *Handler {
	t.Helper()
	cfg := &config.StructuredConfig{
		Sync: config.Sync{NodeAddress: testNodeAddress},
	}
	return NewHandler(svcs, cfg, logger.Nop())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-weave-sync/internal/urlparser"
	"github.com/MKhiriev/go-weave-sync/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	syncIDForHashFn func(ctx context.Context, syncHash string) (int64, error)
	loginForHashFn  func(ctx context.Context, syncHash string) (string, error)
	existsFn        func(ctx context.Context, syncHash string) (bool, error)
	createFn        func(ctx context.Context, login, syncHash string) error
	deleteFn        func(ctx context.Context, syncID int64) error
}

func (m *mockUserRepository) SyncIDForHash(ctx context.Context, syncHash string) (int64, error) {
	if m.syncIDForHashFn != nil {
		return m.syncIDForHashFn(ctx, syncHash)
	}
	return 0, nil
}

func (m *mockUserRepository) LoginForHash(ctx context.Context, syncHash string) (string, error) {
	if m.loginForHashFn != nil {
		return m.loginForHashFn(ctx, syncHash)
	}
	return "", nil
}

func (m *mockUserRepository) Exists(ctx context.Context, syncHash string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, syncHash)
	}
	return false, nil
}

func (m *mockUserRepository) Create(ctx context.Context, login, syncHash string) error {
	if m.createFn != nil {
		return m.createFn(ctx, login, syncHash)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, syncID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, syncID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.IdentityRepository
// ─────────────────────────────────────────────

type mockIdentityRepository struct {
	loginForEmailFn func(ctx context.Context, email string) (string, error)
	emailForLoginFn func(ctx context.Context, login string) (string, error)
	checkPasswordFn func(ctx context.Context, login, password string) (bool, error)
	createFn        func(ctx context.Context, identity models.Identity, password string) error
}

func (m *mockIdentityRepository) LoginForEmail(ctx context.Context, email string) (string, error) {
	if m.loginForEmailFn != nil {
		return m.loginForEmailFn(ctx, email)
	}
	return "", nil
}

func (m *mockIdentityRepository) EmailForLogin(ctx context.Context, login string) (string, error) {
	if m.emailForLoginFn != nil {
		return m.emailForLoginFn(ctx, login)
	}
	return "", nil
}

func (m *mockIdentityRepository) CheckPassword(ctx context.Context, login, password string) (bool, error) {
	if m.checkPasswordFn != nil {
		return m.checkPasswordFn(ctx, login, password)
	}
	return false, nil
}

func (m *mockIdentityRepository) Create(ctx context.Context, identity models.Identity, password string) error {
	if m.createFn != nil {
		return m.createFn(ctx, identity, password)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: adapter.CredentialChecker
// ─────────────────────────────────────────────

type mockDirectory struct {
	checkPasswordFn func(ctx context.Context, email, password string) (bool, error)
}

func (m *mockDirectory) CheckPassword(ctx context.Context, email, password string) (bool, error) {
	if m.checkPasswordFn != nil {
		return m.checkPasswordFn(ctx, email, password)
	}
	return false, nil
}

// ─────────────────────────────────────────────
// Mock: store.StorageRepository
// ─────────────────────────────────────────────

type mockStorageRepository struct {
	collectionIDFn     func(ctx context.Context, userID int64, name string) (int64, error)
	expireWBOsFn       func(ctx context.Context, now float64) error
	saveWBOFn          func(ctx context.Context, collectionID int64, modified float64, wbo models.WBO) error
	getWBOFn           func(ctx context.Context, collectionID int64, wboID string) (models.WBO, error)
	getCollectionFn    func(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers, full bool) ([]models.WBO, error)
	deleteWBOFn        func(ctx context.Context, collectionID int64, wboID string) error
	deleteCollectionFn func(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers) error
	deleteStorageFn    func(ctx context.Context, userID int64) error
	modifiedTimesFn    func(ctx context.Context, userID int64) (map[string]float64, error)
	sizesFn            func(ctx context.Context, userID int64) (map[string]float64, error)
	countsFn           func(ctx context.Context, userID int64) (map[string]int64, error)
	numClientsFn       func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockStorageRepository) CollectionID(ctx context.Context, userID int64, name string) (int64, error) {
	if m.collectionIDFn != nil {
		return m.collectionIDFn(ctx, userID, name)
	}
	return 1, nil
}

func (m *mockStorageRepository) ExpireWBOs(ctx context.Context, now float64) error {
	if m.expireWBOsFn != nil {
		return m.expireWBOsFn(ctx, now)
	}
	return nil
}

func (m *mockStorageRepository) SaveWBO(ctx context.Context, collectionID int64, modified float64, wbo models.WBO) error {
	if m.saveWBOFn != nil {
		return m.saveWBOFn(ctx, collectionID, modified, wbo)
	}
	return nil
}

func (m *mockStorageRepository) GetWBO(ctx context.Context, collectionID int64, wboID string) (models.WBO, error) {
	if m.getWBOFn != nil {
		return m.getWBOFn(ctx, collectionID, wboID)
	}
	return models.WBO{}, nil
}

func (m *mockStorageRepository) GetCollection(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers, full bool) ([]models.WBO, error) {
	if m.getCollectionFn != nil {
		return m.getCollectionFn(ctx, collectionID, modifiers, full)
	}
	return nil, nil
}

func (m *mockStorageRepository) DeleteWBO(ctx context.Context, collectionID int64, wboID string) error {
	if m.deleteWBOFn != nil {
		return m.deleteWBOFn(ctx, collectionID, wboID)
	}
	return nil
}

func (m *mockStorageRepository) DeleteCollection(ctx context.Context, collectionID int64, modifiers urlparser.Modifiers) error {
	if m.deleteCollectionFn != nil {
		return m.deleteCollectionFn(ctx, collectionID, modifiers)
	}
	return nil
}

func (m *mockStorageRepository) DeleteStorage(ctx context.Context, userID int64) error {
	if m.deleteStorageFn != nil {
		return m.deleteStorageFn(ctx, userID)
	}
	return nil
}

func (m *mockStorageRepository) CollectionModifiedTimes(ctx context.Context, userID int64) (map[string]float64, error) {
	if m.modifiedTimesFn != nil {
		return m.modifiedTimesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStorageRepository) CollectionSizes(ctx context.Context, userID int64) (map[string]float64, error) {
	if m.sizesFn != nil {
		return m.sizesFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStorageRepository) CollectionCounts(ctx context.Context, userID int64) (map[string]int64, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStorageRepository) NumClients(ctx context.Context, userID int64) (int64, error) {
	if m.numClientsFn != nil {
		return m.numClientsFn(ctx, userID)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.ConfigRepository
// ─────────────────────────────────────────────

type mockConfigRepository struct {
	getFn func(ctx context.Context, key string) (string, error)
	setFn func(ctx context.Context, key, value string) error
}

func (m *mockConfigRepository) Get(ctx context.Context, key string) (string, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return "", nil
}

func (m *mockConfigRepository) Set(ctx context.Context, key, value string) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "github.com/MKhiriev/go-weave-sync/internal/logger"

// Storages bundles every repository backed by the shared database connection.
type Storages struct {
	UserRepository
	IdentityRepository
	StorageRepository
	ConfigRepository
}

func NewStorages(db *Database, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:     NewUserRepository(db, log),
		IdentityRepository: NewIdentityRepository(db, log),
		StorageRepository:  NewStorageRepository(db, log),
		ConfigRepository:   NewConfigRepository(db, log),
	}
}

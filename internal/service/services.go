// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-weave-sync/internal/adapter"
	"github.com/MKhiriev/go-weave-sync/internal/config"
	"github.com/MKhiriev/go-weave-sync/internal/logger"
	"github.com/MKhiriev/go-weave-sync/internal/store"
)

type Services struct {
	IdentityService IdentityService
	StorageService  StorageService
	QuotaService    QuotaService
	AdminService    AdminService
}

func NewServices(storages *store.Storages, directory adapter.CredentialChecker, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	identity := NewIdentityService(storages.UserRepository, storages.IdentityRepository, directory, logger)
	quota := NewQuotaService(storages.StorageRepository, storages.ConfigRepository, cfg.Sync.Quota, logger)
	storage := NewStorageService(storages.StorageRepository, quota, logger)
	admin := NewAdminService(identity, storage, quota, storages.ConfigRepository, cfg.Admin, logger)

	return &Services{
		IdentityService: identity,
		StorageService:  storage,
		QuotaService:    quota,
		AdminService:    admin,
	}
}

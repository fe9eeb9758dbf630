// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Storage.DB.Driver {
	case "", "pgx", "sqlite3":
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.Quota < 0 {
		return ErrInvalidSyncConfigs
	}

	// A configured admin API needs a signing key for its tokens.
	if cfg.Admin.Secret != "" && cfg.Admin.TokenSignKey == "" {
		return ErrInvalidAdminConfigs
	}

	return nil
}

// DatabaseDriver returns the configured database/sql driver name, defaulting
// to the PostgreSQL driver when unset.
func (cfg *StructuredConfig) DatabaseDriver() string {
	if cfg.Storage.DB.Driver == "" {
		return "pgx"
	}
	return cfg.Storage.DB.Driver
}

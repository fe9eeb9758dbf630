package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or an unsupported driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid sync protocol settings
	// (for example, a negative quota).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidAdminConfigs indicates invalid admin API settings
	// (for example, a shared secret without a token signing key).
	ErrInvalidAdminConfigs = errors.New("invalid admin configuration")
)

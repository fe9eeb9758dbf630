package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{DB: DB{Driver: "pgx", DSN: "postgres://localhost/weave"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(cfg *StructuredConfig) {}},
		{
			name:    "empty DSN",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.Driver = "oracle" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:   "driver may be left empty",
			mutate: func(cfg *StructuredConfig) { cfg.Storage.DB.Driver = "" },
		},
		{
			name:    "negative quota",
			mutate:  func(cfg *StructuredConfig) { cfg.Sync.Quota = -1 },
			wantErr: ErrInvalidSyncConfigs,
		},
		{
			name:    "admin secret without sign key",
			mutate:  func(cfg *StructuredConfig) { cfg.Admin.Secret = "s" },
			wantErr: ErrInvalidAdminConfigs,
		},
		{
			name: "admin secret with sign key",
			mutate: func(cfg *StructuredConfig) {
				cfg.Admin.Secret = "s"
				cfg.Admin.TokenSignKey = "k"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDatabaseDriver_Default(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.DB.Driver = ""
	assert.Equal(t, "pgx", cfg.DatabaseDriver())

	cfg.Storage.DB.Driver = "sqlite3"
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver())
}

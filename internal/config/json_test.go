package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON must be valid time.Duration strings, e.g. "30s".
	jsonBody := `{
		"server": {
			"http_address": "localhost:8080",
			"request_timeout": "30s"
		},
		"storage": {
			"db": { "driver": "sqlite3", "dsn": "weave.db" }
		},
		"sync": {
			"quota": 5000,
			"node_address": "https://sync.example.org/"
		},
		"directory": {
			"address": "https://directory.example.org",
			"request_timeout": "5s"
		},
		"admin": {
			"secret": "shhh",
			"token_sign_key": "jwt_secret",
			"token_issuer": "test_issuer",
			"token_duration": "1h"
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, "weave.db", cfg.Storage.DB.DSN)
	assert.Equal(t, int64(5000), cfg.Sync.Quota)
	assert.Equal(t, "https://sync.example.org/", cfg.Sync.NodeAddress)
	assert.Equal(t, "https://directory.example.org", cfg.Directory.Address)
	assert.Equal(t, 5*time.Second, cfg.Directory.RequestTimeout)
	assert.Equal(t, "shhh", cfg.Admin.Secret)
	assert.Equal(t, time.Hour, cfg.Admin.TokenDuration)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations may also come as raw nanosecond numbers.
	jsonBody := `{"server": {"request_timeout": 30000000000}}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	cfg, err := parseJSON(p)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_FileMissing(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"server": `), 0o600))

	_, err := parseJSON(p)
	assert.Error(t, err)
}

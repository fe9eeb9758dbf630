// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

// NewConnectSQLite opens (and creates if necessary) a SQLite database file.
// Foreign keys are enabled per connection via the DSN pragma.
func NewConnectSQLite(path string, log *logger.Logger) (*Database, error) {
	connectLogger := log.GetChildLogger()
	connectLogger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("database", "sqlite")
	})

	if path == "" {
		connectLogger.Error().Msg("empty database file path passed")
		return nil, errors.New("sqlite: empty database file path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			connectLogger.Error().Err(err).Msg("error occurred during database directory creation")
			return nil, err
		}
	}

	conn, err := sql.Open(DriverSQLite, path+"?_foreign_keys=on")
	if err != nil {
		connectLogger.Error().Err(err).Msg("error occurred during connection to SQLite")
		return nil, err
	}

	if err = conn.Ping(); err != nil {
		connectLogger.Error().Err(err).Msg("SQLite database is unreachable")
		return nil, err
	}

	// go-sqlite3 serializes writes; a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	connectLogger.Info().Str("path", path).Msg("successfully opened SQLite database")

	return &Database{DB: conn, driver: DriverSQLite, log: connectLogger}, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

// NewConnectPostgres opens a PostgreSQL connection using the pgx stdlib driver.
func NewConnectPostgres(dsn string, log *logger.Logger) (*Database, error) {
	connectLogger := log.GetChildLogger()
	connectLogger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("database", "postgres")
	})

	if dsn == "" {
		connectLogger.Error().Msg("empty DSN passed")
		return nil, errors.New("postgres: empty DSN")
	}

	conn, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		connectLogger.Error().Err(err).Msg("error occurred during connection to PostgreSQL")
		return nil, err
	}

	if err = conn.Ping(); err != nil {
		connectLogger.Error().Err(err).Msg("PostgreSQL is unreachable")
		return nil, err
	}

	connectLogger.Info().Msg("successfully connected to PostgreSQL")

	return &Database{DB: conn, driver: DriverPostgres, log: connectLogger}, nil
}

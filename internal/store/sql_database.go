// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-weave-sync/internal/logger"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Database wraps the raw connection together with dialect knowledge.
// Repositories use Placeholder() when building queries so the same
// builder code serves both backends.
type Database struct {
	*sql.DB
	driver string
	log    *logger.Logger
}

// Placeholder returns the squirrel placeholder format for the active dialect.
func (d *Database) Placeholder() sq.PlaceholderFormat {
	if d.driver == DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// Driver returns the database/sql driver name the connection was opened with.
func (d *Database) Driver() string {
	return d.driver
}

// isUniqueViolation reports whether err is a unique constraint violation
// in either dialect. Concurrent collection creation relies on this to
// fall back to a lookup instead of failing the request.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

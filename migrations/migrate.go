// Package migrations embeds the SQL schema migrations for the Weave Sync
// server and applies them with goose. PostgreSQL and SQLite carry separate
// migration sets because their auto-increment and numeric syntax differ.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations for the given goose dialect
// ("pgx" or "sqlite3").
func Migrate(db *sql.DB, dialect string) error {
	dir := "postgres"
	if dialect == "sqlite3" {
		dir = "sqlite"
	}

	sub, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("migration error locating %s migrations: %w", dir, err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

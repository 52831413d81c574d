package db

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

// The schema files are the single source of truth for fresh installs and
// tests. Repository tests load GetSchemaSQL() instead of hand-written
// CREATE TABLE statements so that a column drift fails immediately.

//go:embed schema/sqlite.sql
var sqliteSchema string

//go:embed schema/postgres.sql
var postgresSchema string

// GetSchemaSQL returns the authoritative SQLite schema for use by tests.
func GetSchemaSQL() string {
	return sqliteSchema
}

// SchemaFor returns the schema for a driver.
func SchemaFor(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return sqliteSchema, nil
	case DriverPostgres:
		return postgresSchema, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// InitSchema brings the database to the current schema.
// A database without tables gets the full schema and every migration
// marked as applied; a database with tables runs the pending migrations.
func InitSchema(conn *sqlx.DB, log *slog.Logger) error {
	hasVersion, err := tableExists(conn, "schema_version")
	if err != nil {
		return err
	}
	if hasVersion {
		return RunMigrations(conn, log)
	}

	hasEntries, err := tableExists(conn, "time_entries")
	if err != nil {
		return err
	}
	if hasEntries {
		// Tables created before versioning existed.
		return RunMigrations(conn, log)
	}

	schema, err := SchemaFor(conn.DriverName())
	if err != nil {
		return err
	}
	for _, stmt := range splitStatements(schema) {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec(conn.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	log.Info("database schema created", "driver", conn.DriverName())
	return nil
}

func tableExists(conn *sqlx.DB, name string) (bool, error) {
	var q string
	switch conn.DriverName() {
	case DriverPostgres:
		q = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	default:
		q = "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?"
	}
	var n int
	if err := conn.Get(&n, q, name); err != nil {
		return false, fmt.Errorf("failed to inspect schema: %w", err)
	}
	return n > 0, nil
}

func splitStatements(schema string) []string {
	var out []string
	for _, s := range strings.Split(schema, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

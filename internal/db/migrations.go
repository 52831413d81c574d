package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sqlx.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_batch_id_to_time_entries",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "clear_end_date_of_open_delegations",
		Up:      migrationV2,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(conn *sqlx.DB, log *slog.Logger) error {
	if err := createVersionTable(conn); err != nil {
		return err
	}

	var currentVersion int
	if err := conn.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := conn.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// CurrentVersion returns the highest applied migration.
func CurrentVersion(conn *sqlx.DB) (int, error) {
	var v int
	if err := conn.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

func createVersionTable(conn *sqlx.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// migrationV1 stamps submissions with a batch id; older rows keep NULL and
// are grouped by their legacy tuple.
func migrationV1(tx *sqlx.Tx) error {
	if hasColumn(tx, "time_entries", "batch_id") {
		return nil
	}
	if _, err := tx.Exec(`ALTER TABLE time_entries ADD COLUMN batch_id TEXT`); err != nil {
		return fmt.Errorf("failed to add batch_id: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_time_entries_batch ON time_entries(collaborator_id, batch_id)`); err != nil {
		return fmt.Errorf("failed to index batch_id: %w", err)
	}
	return nil
}

// migrationV2 enforces "end date only when completed" on existing rows.
func migrationV2(tx *sqlx.Tx) error {
	_, err := tx.Exec(`UPDATE delegations SET end_date = NULL WHERE status <> 'completed'`)
	if err != nil {
		return fmt.Errorf("failed to clear end dates: %w", err)
	}
	return nil
}

func hasColumn(tx *sqlx.Tx, table, column string) bool {
	rows, err := tx.Queryx(fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", table))
	if err != nil {
		return false
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return false
	}
	for _, c := range cols {
		if c == column {
			return true
		}
	}
	return false
}

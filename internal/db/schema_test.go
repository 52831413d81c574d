package db

import (
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitSchema_FreshDatabase(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(conn, quietLogger()); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}

	v, err := CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion() error: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("version = %d, want %d", v, len(migrations))
	}

	for _, table := range []string{"collaborators", "plan_items", "work_orders", "delegations", "time_entries", "service_records", "consultation_records"} {
		ok, err := tableExists(conn, table)
		if err != nil || !ok {
			t.Errorf("table %s missing (err=%v)", table, err)
		}
	}

	// Running again is a no-op.
	if err := InitSchema(conn, quietLogger()); err != nil {
		t.Fatalf("second InitSchema() error: %v", err)
	}
}

func TestInitSchema_LegacyDatabase(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer conn.Close()

	conn.MustExec(`CREATE TABLE collaborators (id INTEGER PRIMARY KEY, name TEXT NOT NULL, login TEXT NOT NULL, password_hash TEXT NOT NULL, role TEXT NOT NULL)`)
	conn.MustExec(`CREATE TABLE delegations (id INTEGER PRIMARY KEY, requisitions TEXT NOT NULL, work_order_code TEXT NOT NULL, collaborator_id INTEGER NOT NULL, start_date TEXT NOT NULL, status TEXT NOT NULL, grade TEXT NOT NULL DEFAULT '', criterion TEXT NOT NULL DEFAULT '', end_date TEXT)`)
	conn.MustExec(`CREATE TABLE time_entries (id INTEGER PRIMARY KEY, collaborator_id INTEGER NOT NULL, date TEXT NOT NULL, plan_item_code TEXT, work_order_code TEXT, activity TEXT, start_time TEXT, end_time TEXT, duration TEXT, duration_minutes INTEGER, delegation_id INTEGER, note TEXT)`)
	conn.MustExec(`INSERT INTO delegations (requisitions, work_order_code, collaborator_id, start_date, status, end_date) VALUES ('R-1', 'OS-1', 1, '2026-01-01', 'in_progress', '2026-02-01')`)

	if err := InitSchema(conn, quietLogger()); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}

	tx := conn.MustBegin()
	if !hasColumn(tx, "time_entries", "batch_id") {
		t.Error("expected batch_id column after migration")
	}
	tx.Rollback()

	var endDate *string
	if err := conn.Get(&endDate, "SELECT end_date FROM delegations WHERE id = 1"); err != nil {
		t.Fatalf("select end_date: %v", err)
	}
	if endDate != nil {
		t.Errorf("end_date = %q, want NULL for an in-progress delegation", *endDate)
	}
}

func TestSchemaFor(t *testing.T) {
	if _, err := SchemaFor(DriverPostgres); err != nil {
		t.Errorf("SchemaFor(pgx) error: %v", err)
	}
	if _, err := SchemaFor("oracle"); err == nil {
		t.Error("expected error for unknown driver")
	}
	if len(splitStatements(GetSchemaSQL())) < 7 {
		t.Error("expected at least one statement per table")
	}
}

func TestSQLiteSupportsReturning(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer conn.Close()

	var version string
	if err := conn.Get(&version, "SELECT sqlite_version()"); err != nil {
		t.Fatalf("sqlite_version(): %v", err)
	}

	if err := InitSchema(conn, quietLogger()); err != nil {
		t.Fatalf("InitSchema() error: %v", err)
	}
	var id int64
	err = conn.Get(&id, `INSERT INTO plan_items (code, planned_hours) VALUES ('P-1', 10) RETURNING id`)
	if err != nil {
		t.Fatalf("INSERT ... RETURNING failed on SQLite %s: %v", version, err)
	}
	if id == 0 {
		t.Error("expected a generated id")
	}
}

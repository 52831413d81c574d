// Package sqlite_test contains integration tests for the SQL repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/example/horas/internal/adapters/sqlite"
	"github.com/example/horas/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) (*sqlx.DB, *sqlite.Store) {
	t.Helper()

	testDB, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB, sqlite.NewStore(testDB, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// seedCollaborator inserts a collaborator and returns its ID.
func seedCollaborator(t *testing.T, conn *sqlx.DB, name, role string) int64 {
	t.Helper()
	if role == "" {
		role = "common"
	}
	var id int64
	err := conn.QueryRow(
		"INSERT INTO collaborators (name, login, password_hash, role) VALUES (?, ?, 'x', ?) RETURNING id",
		name, name, role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed collaborator: %v", err)
	}
	return id
}

// seedPlanItem inserts a plan item.
func seedPlanItem(t *testing.T, conn *sqlx.DB, code string, plannedHours float64) {
	t.Helper()
	if _, err := conn.Exec("INSERT INTO plan_items (code, planned_hours) VALUES (?, ?)", code, plannedHours); err != nil {
		t.Fatalf("failed to seed plan item: %v", err)
	}
}

// seedWorkOrder inserts a work order.
func seedWorkOrder(t *testing.T, conn *sqlx.DB, code, planItemCode, summary string) {
	t.Helper()
	if _, err := conn.Exec("INSERT INTO work_orders (code, plan_item_code, summary) VALUES (?, ?, ?)", code, planItemCode, summary); err != nil {
		t.Fatalf("failed to seed work order: %v", err)
	}
}

// seedDelegation inserts an in-progress delegation and returns its ID.
func seedDelegation(t *testing.T, conn *sqlx.DB, collaboratorID int64, workOrderCode string) int64 {
	t.Helper()
	var id int64
	err := conn.QueryRow(
		"INSERT INTO delegations (requisitions, work_order_code, collaborator_id, start_date) VALUES ('R-1', ?, ?, '2026-01-05') RETURNING id",
		workOrderCode, collaboratorID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed delegation: %v", err)
	}
	return id
}

// seedEntry inserts a 60-minute entry and returns its ID.
func seedEntry(t *testing.T, conn *sqlx.DB, collaboratorID int64, date, planItemCode, workOrderCode string) int64 {
	t.Helper()
	var id int64
	err := conn.QueryRow(`INSERT INTO time_entries
		(collaborator_id, batch_id, date, plan_item_code, work_order_code, activity, start_time, end_time, duration, duration_minutes)
		VALUES (?, 'seed', ?, ?, ?, 'analysis', '08:00', '09:00', '01:00', 60) RETURNING id`,
		collaboratorID, date, planItemCode, workOrderCode,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
	return id
}

func countRows(t *testing.T, conn *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := conn.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/horas/internal/adapters/sqlite"
	"github.com/example/horas/internal/core/derived"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/ctxutil"
	"github.com/example/horas/internal/db"
)

const testYear = 2026

// testEnv wires every service against an in-memory database loaded with
// the authoritative schema.
type testEnv struct {
	conn          *sqlx.DB
	entries       *EntryServiceImpl
	delegations   *DelegationServiceImpl
	catalog       *CatalogServiceImpl
	collaborators *CollaboratorServiceImpl
	reports       *ReportServiceImpl
	adminID       int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := conn.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := sqlite.NewStore(conn, log)
	entryRepo := sqlite.NewEntryRepository(store)
	delegationRepo := sqlite.NewDelegationRepository(store)
	collaboratorRepo := sqlite.NewCollaboratorRepository(store)
	planItemRepo := sqlite.NewPlanItemRepository(store)
	workOrderRepo := sqlite.NewWorkOrderRepository(store)
	derivedRepo := sqlite.NewDerivedRecordRepository(store)

	policy, err := derived.NewPolicy(derived.DefaultRules(testYear))
	if err != nil {
		t.Fatalf("failed to build policy: %v", err)
	}
	normalizer := timeunit.NewNormalizer(testYear)
	generator := NewDerivedGenerator(policy, entryRepo, collaboratorRepo, workOrderRepo, derivedRepo)

	env := &testEnv{
		conn:          conn,
		entries:       NewEntryService(store, entryRepo, delegationRepo, generator, normalizer, log),
		delegations:   NewDelegationService(store, delegationRepo, entryRepo, collaboratorRepo, normalizer, log),
		catalog:       NewCatalogService(store, planItemRepo, workOrderRepo, entryRepo, delegationRepo, derivedRepo, log),
		collaborators: NewCollaboratorService(store, collaboratorRepo, entryRepo, delegationRepo, derivedRepo, log),
		reports:       NewReportService(sqlite.NewReportRepository(store)),
	}
	env.collaborators.hashCost = bcrypt.MinCost
	env.adminID = env.seedCollaborator(t, "Admin", ctxutil.RoleAdmin)
	return env
}

// as returns a context acting on behalf of the given collaborator.
func as(id int64, role string) context.Context {
	return ctxutil.WithRequester(context.Background(), ctxutil.Requester{ID: id, Role: role})
}

func (e *testEnv) admin() context.Context {
	return as(e.adminID, ctxutil.RoleAdmin)
}

func (e *testEnv) seedCollaborator(t *testing.T, name, role string) int64 {
	t.Helper()
	var id int64
	err := e.conn.QueryRow(
		"INSERT INTO collaborators (name, login, password_hash, role) VALUES (?, ?, 'x', ?) RETURNING id",
		name, name, role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed collaborator: %v", err)
	}
	return id
}

func (e *testEnv) seedPlanItem(t *testing.T, code string, plannedHours float64) {
	t.Helper()
	if _, err := e.conn.Exec("INSERT INTO plan_items (code, planned_hours) VALUES (?, ?)", code, plannedHours); err != nil {
		t.Fatalf("failed to seed plan item: %v", err)
	}
}

func (e *testEnv) seedWorkOrder(t *testing.T, code, planItemCode, summary string) {
	t.Helper()
	if _, err := e.conn.Exec("INSERT INTO work_orders (code, plan_item_code, summary) VALUES (?, ?, ?)", code, planItemCode, summary); err != nil {
		t.Fatalf("failed to seed work order: %v", err)
	}
}

func (e *testEnv) seedDelegation(t *testing.T, collaboratorID int64, workOrderCode, status string) int64 {
	t.Helper()
	var id int64
	err := e.conn.QueryRow(
		"INSERT INTO delegations (requisitions, work_order_code, collaborator_id, start_date, status) VALUES ('R-1', ?, ?, '2026-01-05', ?) RETURNING id",
		workOrderCode, collaboratorID, status,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed delegation: %v", err)
	}
	return id
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := e.conn.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func (e *testEnv) column(t *testing.T, query string, args ...any) string {
	t.Helper()
	var s string
	if err := e.conn.Get(&s, query, args...); err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return s
}

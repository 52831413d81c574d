package app

import (
	"errors"
	"testing"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ctxutil"
	"github.com/example/horas/internal/ports/primary"
)

func TestCreatePlanItem(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.catalog.CreatePlanItem(env.admin(), primary.PlanItem{Code: " P-1 ", Goal: "monitoring", PlannedHours: 120})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.ID == 0 || p.Code != "P-1" {
		t.Errorf("unexpected plan item %+v", p)
	}

	_, err = env.catalog.CreatePlanItem(env.admin(), primary.PlanItem{Code: "P-1"})
	if !errors.Is(err, apperr.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestCatalogMutations_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	ctx := as(ana, ctxutil.RoleCommon)

	if _, err := env.catalog.CreatePlanItem(ctx, primary.PlanItem{Code: "P-1"}); !errors.Is(err, apperr.ErrPermission) {
		t.Errorf("CreatePlanItem: expected permission error, got %v", err)
	}
	if _, err := env.catalog.CreateWorkOrder(ctx, primary.WorkOrder{Code: "OS-1"}); !errors.Is(err, apperr.ErrPermission) {
		t.Errorf("CreateWorkOrder: expected permission error, got %v", err)
	}
	if err := env.catalog.RenamePlanItemCode(ctx, "P-1", "P-2"); !errors.Is(err, apperr.ErrPermission) {
		t.Errorf("RenamePlanItemCode: expected permission error, got %v", err)
	}
}

func TestRenamePlanItemCode_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	env.seedPlanItem(t, "P-1", 100)
	env.seedWorkOrder(t, "OS-1", "P-1", "")
	env.seedWorkOrder(t, "OS-2", "P-1", "")
	_, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		PlanItemCode:  "P-1",
		Rows:          []primary.EntryRow{{Date: "2026-05-04", StartTime: "08:00", EndTime: "12:00"}},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := env.catalog.RenamePlanItemCode(env.admin(), "P-1", "P-99"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	for _, table := range []string{
		"plan_items WHERE code = 'P-1'",
		"work_orders WHERE plan_item_code = 'P-1'",
		"time_entries WHERE plan_item_code = 'P-1'",
	} {
		if n := env.count(t, table); n != 0 {
			t.Errorf("expected no references left in %s, got %d", table, n)
		}
	}
	if n := env.count(t, "work_orders WHERE plan_item_code = 'P-99'"); n != 2 {
		t.Errorf("expected 2 work orders on P-99, got %d", n)
	}
	if _, err := env.catalog.GetPlanItem(env.admin(), "P-99"); err != nil {
		t.Errorf("expected P-99 to exist: %v", err)
	}
}

func TestRenamePlanItemCode_Idempotency(t *testing.T) {
	tests := []struct {
		name    string
		seed    []string
		from    string
		to      string
		wantErr error
	}{
		{name: "same code is a no-op", seed: []string{"P-1"}, from: "P-1", to: "P-1"},
		{name: "retry after success", seed: []string{"P-99"}, from: "P-1", to: "P-99"},
		{name: "both codes exist", seed: []string{"P-1", "P-99"}, from: "P-1", to: "P-99", wantErr: apperr.ErrDuplicateCode},
		{name: "neither code exists", from: "P-1", to: "P-99", wantErr: apperr.ErrNotFound},
		{name: "blank target", seed: []string{"P-1"}, from: "P-1", to: " ", wantErr: apperr.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			for _, code := range tt.seed {
				env.seedPlanItem(t, code, 10)
			}

			err := env.catalog.RenamePlanItemCode(env.admin(), tt.from, tt.to)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n := env.count(t, "plan_items"); n != len(tt.seed) {
				t.Errorf("expected %d plan items, got %d", len(tt.seed), n)
			}
		})
	}
}

func TestRenamePlanItemCode_RollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	env.seedPlanItem(t, "P-1", 100)
	env.seedWorkOrder(t, "OS-1", "P-1", "")
	_, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		PlanItemCode:  "P-1",
		Rows:          []primary.EntryRow{{Date: "2026-05-04", StartTime: "08:00", EndTime: "12:00"}},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// The entry update is the last step of the cascade; failing it must
	// undo the plan item and work order renames.
	_, err = env.conn.Exec(`CREATE TRIGGER fail_entry_rename BEFORE UPDATE OF plan_item_code ON time_entries
		BEGIN SELECT RAISE(ABORT, 'injected failure'); END`)
	if err != nil {
		t.Fatalf("failed to install trigger: %v", err)
	}

	err = env.catalog.RenamePlanItemCode(env.admin(), "P-1", "P-99")

	if !errors.Is(err, apperr.ErrTransaction) {
		t.Fatalf("expected transaction error, got %v", err)
	}
	if n := env.count(t, "plan_items WHERE code = 'P-1'"); n != 1 {
		t.Errorf("expected plan item to keep its code")
	}
	if n := env.count(t, "work_orders WHERE plan_item_code = 'P-1'"); n != 1 {
		t.Errorf("expected work order to keep its plan item code")
	}
}

func TestRenameWorkOrderCode_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	env.seedWorkOrder(t, "1.15/2026", "P-1", "Services")
	delegationID := env.seedDelegation(t, ana, "1.15/2026", "in_progress")
	_, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "1.15/2026",
		DelegationID:  delegationID,
		Rows:          []primary.EntryRow{{Date: "2026-05-04", StartTime: "08:00", EndTime: "09:00"}},
		Derived:       &primary.DerivedFields{Topic: "audit"},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if err := env.catalog.RenameWorkOrderCode(env.admin(), "1.15/2026", "OS-15"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	for _, table := range []string{"time_entries", "delegations", "service_records"} {
		if n := env.count(t, table+" WHERE work_order_code = '1.15/2026'"); n != 0 {
			t.Errorf("expected no references left in %s, got %d", table, n)
		}
	}
	if n := env.count(t, "work_orders WHERE code = 'OS-15'"); n != 1 {
		t.Errorf("expected renamed work order, got %d", n)
	}
	if summary := env.column(t, "SELECT work_order_summary FROM service_records"); summary != "Services" {
		t.Errorf("expected summary snapshot untouched, got %q", summary)
	}
}

func TestUpdateWorkOrder_CodeChangeCascades(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	ctx := env.admin()
	wo, err := env.catalog.CreateWorkOrder(ctx, primary.WorkOrder{Code: "OS-1", PlanItemCode: "P-1", Summary: "first"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err = env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		Rows:          []primary.EntryRow{{Date: "2026-05-04", StartTime: "08:00", EndTime: "09:00"}},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	wo.Code = "OS-2"
	wo.Executed = true
	updated, err := env.catalog.UpdateWorkOrder(ctx, *wo)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Code != "OS-2" || !updated.Executed {
		t.Errorf("unexpected work order %+v", updated)
	}
	if n := env.count(t, "time_entries WHERE work_order_code = 'OS-2'"); n != 1 {
		t.Errorf("expected entry to follow the code change")
	}

	list, err := env.catalog.ListWorkOrders(ctx, "P-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].Code != "OS-2" {
		t.Errorf("unexpected work orders %+v", list)
	}
}

func TestUpdatePlanItem_CodeChangeCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.admin()
	p, err := env.catalog.CreatePlanItem(ctx, primary.PlanItem{Code: "P-1", PlannedHours: 10})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	env.seedWorkOrder(t, "OS-1", "P-1", "")

	p.Code = "P-2"
	p.PlannedHours = 20
	if _, err := env.catalog.UpdatePlanItem(ctx, *p); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := env.catalog.GetPlanItem(ctx, "P-2")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PlannedHours != 20 {
		t.Errorf("expected planned hours 20, got %v", got.PlannedHours)
	}
	if n := env.count(t, "work_orders WHERE plan_item_code = 'P-2'"); n != 1 {
		t.Errorf("expected work order to follow the code change")
	}
}

func TestDeleteCatalogItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.admin()
	env.seedPlanItem(t, "P-1", 10)
	env.seedWorkOrder(t, "OS-1", "P-1", "")

	if err := env.catalog.DeleteWorkOrder(ctx, "OS-1"); err != nil {
		t.Fatalf("delete work order failed: %v", err)
	}
	if err := env.catalog.DeletePlanItem(ctx, "P-1"); err != nil {
		t.Fatalf("delete plan item failed: %v", err)
	}
	if err := env.catalog.DeletePlanItem(ctx, "P-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

package app

import (
	"errors"
	"testing"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ctxutil"
	"github.com/example/horas/internal/ports/primary"
)

func submitTwoRows(t *testing.T, env *testEnv, ownerID int64) *primary.SubmitEntriesResponse {
	t.Helper()
	resp, err := env.entries.Submit(as(ownerID, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		PlanItemCode:  "P-1",
		Activity:      "analysis",
		Note:          "  field visit ",
		Rows: []primary.EntryRow{
			{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:30"},
			{Date: "2026-03-02", StartTime: "10:00", EndTime: "11:00"},
		},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return resp
}

// ============================================================================
// Submit Tests
// ============================================================================

func TestSubmit_Success(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)

	resp := submitTwoRows(t, env, owner)

	if len(resp.EntryIDs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.EntryIDs))
	}
	if resp.TotalMinutes != 150 || resp.Total != "02:30" {
		t.Errorf("expected 150 minutes (02:30), got %d (%s)", resp.TotalMinutes, resp.Total)
	}
	if resp.BatchID == "" {
		t.Error("expected batch id to be set")
	}

	e, err := env.entries.GetEntry(as(owner, ctxutil.RoleCommon), resp.EntryIDs[0])
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if e.Duration != "01:30" {
		t.Errorf("expected duration 01:30, got %q", e.Duration)
	}
	if e.Note != "field visit" {
		t.Errorf("expected trimmed note, got %q", e.Note)
	}
	if e.BatchID != resp.BatchID {
		t.Errorf("expected batch %q, got %q", resp.BatchID, e.BatchID)
	}
}

func TestSubmit_RejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name  string
		rows  []primary.EntryRow
		cause error
	}{
		{
			name: "date outside operating year",
			rows: []primary.EntryRow{
				{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"},
				{Date: "2025-12-31", StartTime: "08:00", EndTime: "09:00"},
			},
			cause: apperr.ErrInvalidPeriod,
		},
		{
			name: "end before start",
			rows: []primary.EntryRow{
				{Date: "2026-03-02", StartTime: "10:00", EndTime: "09:00"},
			},
			cause: apperr.ErrInvalidTimeRange,
		},
		{
			name: "zero length",
			rows: []primary.EntryRow{
				{Date: "2026-03-02", StartTime: "10:00", EndTime: "10:00"},
			},
			cause: apperr.ErrInvalidTimeRange,
		},
		{
			name:  "empty batch",
			rows:  nil,
			cause: apperr.ErrEmptyBatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)

			_, err := env.entries.Submit(as(owner, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
				WorkOrderCode: "OS-1",
				Rows:          tt.rows,
			})

			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected cause %v, got %v", tt.cause, err)
			}
			if n := env.count(t, "time_entries"); n != 0 {
				t.Errorf("expected no entries written, got %d", n)
			}
		})
	}
}

func TestSubmit_ReportsOffendingRow(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)

	_, err := env.entries.Submit(as(owner, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		Rows: []primary.EntryRow{
			{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"},
			{Date: "2026-03-02", StartTime: "12:00", EndTime: "11:00"},
		},
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	if len(appErr.Rows) != 1 || appErr.Rows[0].Row != 1 {
		t.Errorf("expected row 1 to be reported, got %+v", appErr.Rows)
	}
}

func TestSubmit_NonAdminCannotLogForOthers(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)

	_, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		OwnerID:       bia,
		WorkOrderCode: "OS-1",
		Rows:          []primary.EntryRow{{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"}},
	})

	if !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestSubmit_AdminLogsForOthers(t *testing.T) {
	env := newTestEnv(t)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)

	resp, err := env.entries.Submit(env.admin(), primary.SubmitEntriesRequest{
		OwnerID:       bia,
		WorkOrderCode: "OS-1",
		Rows:          []primary.EntryRow{{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	e, err := env.entries.GetEntry(as(bia, ctxutil.RoleCommon), resp.EntryIDs[0])
	if err != nil {
		t.Fatalf("owner could not read entry: %v", err)
	}
	if e.CollaboratorID != bia || e.CollaboratorName != "Bia" {
		t.Errorf("expected entry owned by Bia, got %d (%s)", e.CollaboratorID, e.CollaboratorName)
	}
}

func TestSubmit_RequiresRequester(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.entries.Submit(as(0, ""), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		Rows:          []primary.EntryRow{{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"}},
	})

	if !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestSubmit_CancelledDelegationRejected(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	delegationID := env.seedDelegation(t, owner, "OS-1", "cancelled")

	_, err := env.entries.Submit(as(owner, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "OS-1",
		DelegationID:  delegationID,
		Rows:          []primary.EntryRow{{Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"}},
	})

	if !errors.Is(err, apperr.ErrDelegationCancelled) {
		t.Fatalf("expected ErrDelegationCancelled, got %v", err)
	}
	if n := env.count(t, "time_entries"); n != 0 {
		t.Errorf("expected no entries written, got %d", n)
	}
}

func TestSubmit_RecognizedCodeCreatesServiceRecordOnce(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)
	env.seedWorkOrder(t, "1.15/2026", "P-1", "Technical services")

	resp, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode:     "1.15/2026",
		Activity:          "support",
		Rows:              []primary.EntryRow{{Date: "2026-04-01", StartTime: "14:00", EndTime: "15:00"}},
		ExtraParticipants: []int64{ana, bia, bia, 9999},
		Derived:           &primary.DerivedFields{Topic: "water quality", Organizations: []string{"Org A", " ", "Org B"}},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if n := env.count(t, "service_records"); n != 1 {
		t.Fatalf("expected exactly 1 service record, got %d", n)
	}
	if n := env.count(t, "time_entries"); n != 2 {
		t.Errorf("expected primary plus one mirrored entry, got %d", n)
	}

	responsible := env.column(t, "SELECT responsible FROM service_records WHERE entry_id = ?", resp.EntryIDs[0])
	if responsible != "Ana, Bia" {
		t.Errorf("expected responsible 'Ana, Bia', got %q", responsible)
	}
	orgs := env.column(t, "SELECT organizations FROM service_records WHERE entry_id = ?", resp.EntryIDs[0])
	if orgs != "Org A, Org B" {
		t.Errorf("expected organizations 'Org A, Org B', got %q", orgs)
	}
	summary := env.column(t, "SELECT work_order_summary FROM service_records WHERE entry_id = ?", resp.EntryIDs[0])
	if summary != "Technical services" {
		t.Errorf("expected summary snapshot, got %q", summary)
	}
	mirrorNote := env.column(t, "SELECT note FROM time_entries WHERE collaborator_id = ?", bia)
	if mirrorNote != "Automatic entry - service on work order 1.15/2026" {
		t.Errorf("unexpected mirror note %q", mirrorNote)
	}
}

func TestSubmit_DerivedFailureRollsBackEntries(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	env.seedWorkOrder(t, "1.15/2026", "P-1", "Technical services")

	_, err := env.conn.Exec(`CREATE TRIGGER fail_service_record BEFORE INSERT ON service_records
		BEGIN SELECT RAISE(ABORT, 'injected failure'); END`)
	if err != nil {
		t.Fatalf("failed to install trigger: %v", err)
	}

	_, err = env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "1.15/2026",
		Rows:          []primary.EntryRow{{Date: "2026-04-01", StartTime: "14:00", EndTime: "15:00"}},
		Derived:       &primary.DerivedFields{Topic: "water quality"},
	})

	if !errors.Is(err, apperr.ErrTransaction) {
		t.Fatalf("expected transaction error, got %v", err)
	}
	if n := env.count(t, "time_entries"); n != 0 {
		t.Errorf("expected the primary entry to be rolled back, got %d entries", n)
	}
}

func TestSubmit_RecognizedCodeWithoutFieldsCreatesNoRecord(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)

	_, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "1.15/2026",
		Rows:          []primary.EntryRow{{Date: "2026-04-01", StartTime: "14:00", EndTime: "15:00"}},
		Derived:       &primary.DerivedFields{Topic: "   "},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if n := env.count(t, "service_records"); n != 0 {
		t.Errorf("expected no service record, got %d", n)
	}
}

func TestSubmit_ConsultationCode(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)

	resp, err := env.entries.Submit(as(ana, ctxutil.RoleCommon), primary.SubmitEntriesRequest{
		WorkOrderCode: "1.16/2026",
		Rows:          []primary.EntryRow{{Date: "2026-04-01", StartTime: "14:00", EndTime: "15:00"}},
		Derived:       &primary.DerivedFields{Keywords: "soil"},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	kind := env.column(t, "SELECT kind FROM consultation_records WHERE entry_id = ?", resp.EntryIDs[0])
	if kind != "training" {
		t.Errorf("expected training consultation, got %q", kind)
	}
}

// ============================================================================
// Group / Reconcile Tests
// ============================================================================

func TestLoadGroup_ReturnsSiblingsInOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	resp := submitTwoRows(t, env, owner)

	group, err := env.entries.LoadGroup(as(owner, ctxutil.RoleCommon), resp.EntryIDs[1])
	if err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	if len(group.Entries) != 2 {
		t.Fatalf("expected 2 members, got %d", len(group.Entries))
	}
	if group.Entries[0].StartTime != "08:00" || group.Entries[1].StartTime != "10:00" {
		t.Errorf("expected members ordered by start, got %s, %s", group.Entries[0].StartTime, group.Entries[1].StartTime)
	}
}

func TestLoadGroup_OtherOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)
	resp := submitTwoRows(t, env, ana)

	_, err := env.entries.LoadGroup(as(bia, ctxutil.RoleCommon), resp.EntryIDs[0])

	if !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestLoadGroup_MissingAnchor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.entries.LoadGroup(env.admin(), 4242)

	if !errors.Is(err, apperr.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func reconcileRequest(group *primary.EntryGroup) primary.ReconcileRequest {
	req := primary.ReconcileRequest{
		AnchorID:      group.AnchorID,
		WorkOrderCode: group.Entries[0].WorkOrderCode,
		PlanItemCode:  group.Entries[0].PlanItemCode,
		Activity:      group.Entries[0].Activity,
		Note:          group.Entries[0].Note,
	}
	for _, e := range group.Entries {
		req.Rows = append(req.Rows, primary.EntryRow{
			EntryID: e.ID, Date: e.Date, StartTime: e.StartTime, EndTime: e.EndTime,
		})
	}
	return req
}

func TestReconcile_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	ctx := as(owner, ctxutil.RoleCommon)
	resp := submitTwoRows(t, env, owner)

	before, err := env.entries.LoadGroup(ctx, resp.EntryIDs[0])
	if err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	req := reconcileRequest(before)

	for i := 0; i < 2; i++ {
		if err := env.entries.Reconcile(ctx, req); err != nil {
			t.Fatalf("reconcile %d failed: %v", i, err)
		}
	}

	after, err := env.entries.LoadGroup(ctx, resp.EntryIDs[0])
	if err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	if len(after.Entries) != len(before.Entries) {
		t.Fatalf("expected %d members, got %d", len(before.Entries), len(after.Entries))
	}
	for i := range before.Entries {
		if *after.Entries[i] != *before.Entries[i] {
			t.Errorf("member %d changed: %+v -> %+v", i, before.Entries[i], after.Entries[i])
		}
	}
}

func TestReconcile_UpdatesInsertsAndDeletes(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	ctx := as(owner, ctxutil.RoleCommon)
	resp := submitTwoRows(t, env, owner)
	kept, dropped := resp.EntryIDs[0], resp.EntryIDs[1]

	err := env.entries.Reconcile(ctx, primary.ReconcileRequest{
		AnchorID:      kept,
		WorkOrderCode: "OS-2",
		Activity:      "review",
		Rows: []primary.EntryRow{
			{EntryID: kept, Date: "2026-03-03", StartTime: "08:00", EndTime: "08:45"},
			{Date: "2026-03-03", StartTime: "13:00", EndTime: "14:00"},
		},
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if _, err := env.entries.GetEntry(ctx, dropped); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected dropped entry to be deleted, got %v", err)
	}
	group, err := env.entries.LoadGroup(ctx, kept)
	if err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	if len(group.Entries) != 2 {
		t.Fatalf("expected 2 members, got %d", len(group.Entries))
	}
	first := group.Entries[0]
	if first.ID != kept || first.Duration != "00:45" || first.WorkOrderCode != "OS-2" || first.Date != "2026-03-03" {
		t.Errorf("kept entry not updated: %+v", first)
	}
	if group.Entries[1].BatchID != first.BatchID {
		t.Error("expected inserted entry to join the group's batch")
	}
}

func TestReconcile_RejectsWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	ctx := as(ana, ctxutil.RoleCommon)
	mine := submitTwoRows(t, env, ana)
	other := submitTwoRows(t, env, ana)

	tests := []struct {
		name  string
		rows  []primary.EntryRow
		cause error
	}{
		{
			name: "foreign entry id",
			rows: []primary.EntryRow{
				{EntryID: mine.EntryIDs[0], Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"},
				{EntryID: other.EntryIDs[0], Date: "2026-03-02", StartTime: "10:00", EndTime: "11:00"},
			},
			cause: apperr.ErrForeignEntry,
		},
		{
			name: "date outside operating year",
			rows: []primary.EntryRow{
				{EntryID: mine.EntryIDs[0], Date: "2027-01-01", StartTime: "08:00", EndTime: "09:00"},
			},
			cause: apperr.ErrInvalidPeriod,
		},
		{
			name:  "no rows",
			rows:  nil,
			cause: apperr.ErrEmptyEdit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.count(t, "time_entries")

			err := env.entries.Reconcile(ctx, primary.ReconcileRequest{
				AnchorID:      mine.EntryIDs[0],
				WorkOrderCode: "OS-1",
				Rows:          tt.rows,
			})

			if !errors.Is(err, tt.cause) {
				t.Fatalf("expected %v, got %v", tt.cause, err)
			}
			if after := env.count(t, "time_entries"); after != before {
				t.Errorf("expected %d entries, got %d", before, after)
			}
			start := env.column(t, "SELECT start_time FROM time_entries WHERE id = ?", mine.EntryIDs[0])
			if start != "08:00" {
				t.Errorf("expected entry untouched, start is %q", start)
			}
		})
	}
}

func TestReconcile_OtherOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)
	resp := submitTwoRows(t, env, ana)

	err := env.entries.Reconcile(as(bia, ctxutil.RoleCommon), primary.ReconcileRequest{
		AnchorID:      resp.EntryIDs[0],
		WorkOrderCode: "OS-1",
		Rows:          []primary.EntryRow{{EntryID: resp.EntryIDs[0], Date: "2026-03-02", StartTime: "08:00", EndTime: "09:00"}},
	})

	if !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestReconcile_LegacyGroupGetsBatch(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	ctx := as(owner, ctxutil.RoleCommon)

	var ids []int64
	for _, start := range []string{"08:00", "10:00"} {
		var id int64
		err := env.conn.QueryRow(`INSERT INTO time_entries
			(collaborator_id, date, work_order_code, activity, start_time, end_time, duration, duration_minutes, note)
			VALUES (?, '2026-02-10', 'OS-1', 'analysis', ?, '11:00', '01:00', 60, 'legacy') RETURNING id`,
			owner, start).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed legacy entry: %v", err)
		}
		ids = append(ids, id)
	}

	group, err := env.entries.LoadGroup(ctx, ids[1])
	if err != nil {
		t.Fatalf("load group failed: %v", err)
	}
	if len(group.Entries) != 2 {
		t.Fatalf("expected legacy tuple to group 2 entries, got %d", len(group.Entries))
	}

	if err := env.entries.Reconcile(ctx, reconcileRequest(group)); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	batches := env.count(t, "(SELECT DISTINCT batch_id FROM time_entries WHERE batch_id IS NOT NULL)")
	if batches != 1 {
		t.Errorf("expected the group to share one batch id, got %d", batches)
	}
}

func TestDeleteEntry(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)
	resp := submitTwoRows(t, env, ana)

	if err := env.entries.DeleteEntry(as(bia, ctxutil.RoleCommon), resp.EntryIDs[0]); !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected permission error for non-owner, got %v", err)
	}
	if err := env.entries.DeleteEntry(as(ana, ctxutil.RoleCommon), resp.EntryIDs[0]); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := env.entries.DeleteEntry(env.admin(), resp.EntryIDs[1]); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if n := env.count(t, "time_entries"); n != 0 {
		t.Errorf("expected no entries left, got %d", n)
	}
}

func TestListEntries_NonAdminSeesOwnOnly(t *testing.T) {
	env := newTestEnv(t)
	ana := env.seedCollaborator(t, "Ana", ctxutil.RoleCommon)
	bia := env.seedCollaborator(t, "Bia", ctxutil.RoleCommon)
	submitTwoRows(t, env, ana)
	submitTwoRows(t, env, bia)

	entries, err := env.entries.ListEntries(as(ana, ctxutil.RoleCommon), primary.EntryFilters{CollaboratorID: bia})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.CollaboratorID != ana {
			t.Errorf("expected only Ana's entries, got owner %d", e.CollaboratorID)
		}
	}

	all, err := env.entries.ListEntries(env.admin(), primary.EntryFilters{Month: 3, Limit: 3})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected limit of 3, got %d", len(all))
	}
}

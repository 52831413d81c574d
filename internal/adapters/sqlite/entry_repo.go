package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

// EntryRepository implements secondary.EntryRepository.
type EntryRepository struct {
	s *Store
}

// NewEntryRepository creates a new time entry repository.
func NewEntryRepository(s *Store) *EntryRepository {
	return &EntryRepository{s: s}
}

type entryRow struct {
	ID               int64  `db:"id"`
	CollaboratorID   int64  `db:"collaborator_id"`
	CollaboratorName string `db:"collaborator_name"`
	BatchID          string `db:"batch_id"`
	Date             string `db:"date"`
	PlanItemCode     string `db:"plan_item_code"`
	WorkOrderCode    string `db:"work_order_code"`
	Activity         string `db:"activity"`
	StartTime        string `db:"start_time"`
	EndTime          string `db:"end_time"`
	Duration         string `db:"duration"`
	DurationMinutes  int    `db:"duration_minutes"`
	DelegationID     int64  `db:"delegation_id"`
	Note             string `db:"note"`
}

func (r entryRow) record() *secondary.EntryRecord {
	return &secondary.EntryRecord{
		ID:               r.ID,
		CollaboratorID:   r.CollaboratorID,
		CollaboratorName: r.CollaboratorName,
		BatchID:          r.BatchID,
		Date:             r.Date,
		PlanItemCode:     r.PlanItemCode,
		WorkOrderCode:    r.WorkOrderCode,
		Activity:         r.Activity,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Duration:         r.Duration,
		DurationMinutes:  r.DurationMinutes,
		DelegationID:     r.DelegationID,
		Note:             r.Note,
	}
}

const entryColumns = `
	e.id, e.collaborator_id, COALESCE(c.name, '') AS collaborator_name,
	COALESCE(e.batch_id, '') AS batch_id, e.date, e.plan_item_code, e.work_order_code,
	e.activity, e.start_time, e.end_time, e.duration, e.duration_minutes,
	COALESCE(e.delegation_id, 0) AS delegation_id, COALESCE(e.note, '') AS note
	FROM time_entries e LEFT JOIN collaborators c ON c.id = e.collaborator_id`

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *EntryRepository) selectEntries(ctx context.Context, where string, args ...any) ([]*secondary.EntryRecord, error) {
	var rows []entryRow
	if err := r.s.selectAll(ctx, &rows, "SELECT "+entryColumns+" "+where, args...); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	out := make([]*secondary.EntryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// Create persists a new entry.
func (r *EntryRepository) Create(ctx context.Context, e *secondary.EntryRecord) error {
	id, err := r.s.insertID(ctx, `INSERT INTO time_entries
		(collaborator_id, batch_id, date, plan_item_code, work_order_code, activity,
		 start_time, end_time, duration, duration_minutes, delegation_id, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CollaboratorID, nullString(e.BatchID), e.Date, e.PlanItemCode, e.WorkOrderCode, e.Activity,
		e.StartTime, e.EndTime, e.Duration, e.DurationMinutes, nullID(e.DelegationID), e.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	e.ID = id
	return nil
}

// GetByID retrieves an entry by its ID.
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*secondary.EntryRecord, error) {
	var row entryRow
	err := r.s.get(ctx, &row, "SELECT "+entryColumns+" WHERE e.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("entry %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return row.record(), nil
}

// Update rewrites the mutable fields of an entry.
func (r *EntryRepository) Update(ctx context.Context, e *secondary.EntryRecord) error {
	n, err := r.s.exec(ctx, `UPDATE time_entries SET
		date = ?, plan_item_code = ?, work_order_code = ?, activity = ?,
		start_time = ?, end_time = ?, duration = ?, duration_minutes = ?,
		delegation_id = ?, note = ?, batch_id = ?
		WHERE id = ?`,
		e.Date, e.PlanItemCode, e.WorkOrderCode, e.Activity,
		e.StartTime, e.EndTime, e.Duration, e.DurationMinutes,
		nullID(e.DelegationID), e.Note, nullString(e.BatchID), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("entry %d not found", e.ID)
	}
	return nil
}

// Delete removes an entry; its derived record goes with it.
func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("entry %d not found", id)
	}
	return nil
}

// List retrieves entries matching the filters, newest first.
func (r *EntryRepository) List(ctx context.Context, f secondary.EntryFilters) ([]*secondary.EntryRecord, error) {
	where := "WHERE 1 = 1"
	var args []any
	if f.CollaboratorID != 0 {
		where += " AND e.collaborator_id = ?"
		args = append(args, f.CollaboratorID)
	}
	if f.Month != 0 {
		where += " AND SUBSTR(e.date, 6, 2) = ?"
		args = append(args, fmt.Sprintf("%02d", f.Month))
	}
	where += " ORDER BY e.date DESC, e.start_time DESC, e.id DESC" + limitClause(f.Limit)
	return r.selectEntries(ctx, where, args...)
}

// ListByBatch retrieves the entries of one submission.
func (r *EntryRepository) ListByBatch(ctx context.Context, ownerID int64, batchID string) ([]*secondary.EntryRecord, error) {
	return r.selectEntries(ctx,
		"WHERE e.collaborator_id = ? AND e.batch_id = ? ORDER BY e.date, e.start_time, e.id",
		ownerID, batchID)
}

// ListByTuple retrieves batchless entries sharing the legacy sibling tuple.
// A missing note matches an empty one.
func (r *EntryRepository) ListByTuple(ctx context.Context, t secondary.EntryTuple) ([]*secondary.EntryRecord, error) {
	return r.selectEntries(ctx, `WHERE e.collaborator_id = ? AND e.date = ?
		AND e.work_order_code = ? AND e.activity = ? AND COALESCE(e.note, '') = ?
		AND e.batch_id IS NULL
		ORDER BY e.start_time, e.id`,
		t.OwnerID, t.Date, t.WorkOrderCode, t.Activity, t.Note)
}

// ListByDelegation retrieves the entries linked to a delegation.
func (r *EntryRepository) ListByDelegation(ctx context.Context, delegationID int64) ([]*secondary.EntryRecord, error) {
	return r.selectEntries(ctx, "WHERE e.delegation_id = ? ORDER BY e.date, e.start_time, e.id", delegationID)
}

// Count returns the number of entries.
func (r *EntryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.s.get(ctx, &n, "SELECT COUNT(*) FROM time_entries"); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// CountByCollaborator returns the number of entries owned by a collaborator.
func (r *EntryRepository) CountByCollaborator(ctx context.Context, collaboratorID int64) (int, error) {
	var n int
	if err := r.s.get(ctx, &n, "SELECT COUNT(*) FROM time_entries WHERE collaborator_id = ?", collaboratorID); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// LatestDateForDelegation returns the latest linked entry date, or "".
func (r *EntryRepository) LatestDateForDelegation(ctx context.Context, delegationID int64) (string, error) {
	var latest sql.NullString
	if err := r.s.get(ctx, &latest, "SELECT MAX(date) FROM time_entries WHERE delegation_id = ?", delegationID); err != nil {
		return "", fmt.Errorf("failed to get latest entry date: %w", err)
	}
	return latest.String, nil
}

// RenamePlanItemCode rewrites every entry referencing oldCode.
func (r *EntryRepository) RenamePlanItemCode(ctx context.Context, oldCode, newCode string) (int64, error) {
	n, err := r.s.exec(ctx, "UPDATE time_entries SET plan_item_code = ? WHERE plan_item_code = ?", newCode, oldCode)
	if err != nil {
		return 0, fmt.Errorf("failed to rename plan item code on entries: %w", err)
	}
	return n, nil
}

// RenameWorkOrderCode rewrites every entry referencing oldCode.
func (r *EntryRepository) RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) (int64, error) {
	n, err := r.s.exec(ctx, "UPDATE time_entries SET work_order_code = ? WHERE work_order_code = ?", newCode, oldCode)
	if err != nil {
		return 0, fmt.Errorf("failed to rename work order code on entries: %w", err)
	}
	return n, nil
}

// SetWorkOrderForDelegation rewrites the work order of entries linked to a delegation.
func (r *EntryRepository) SetWorkOrderForDelegation(ctx context.Context, delegationID int64, code string) error {
	if _, err := r.s.exec(ctx, "UPDATE time_entries SET work_order_code = ? WHERE delegation_id = ?", code, delegationID); err != nil {
		return fmt.Errorf("failed to propagate work order to entries: %w", err)
	}
	return nil
}

// UnlinkDelegation clears the delegation reference of linked entries.
func (r *EntryRepository) UnlinkDelegation(ctx context.Context, delegationID int64) error {
	if _, err := r.s.exec(ctx, "UPDATE time_entries SET delegation_id = NULL WHERE delegation_id = ?", delegationID); err != nil {
		return fmt.Errorf("failed to unlink delegation: %w", err)
	}
	return nil
}

// UnlinkDelegationsOf clears references to any delegation owned by a collaborator.
func (r *EntryRepository) UnlinkDelegationsOf(ctx context.Context, collaboratorID int64) error {
	_, err := r.s.exec(ctx, `UPDATE time_entries SET delegation_id = NULL
		WHERE delegation_id IN (SELECT id FROM delegations WHERE collaborator_id = ?)`, collaboratorID)
	if err != nil {
		return fmt.Errorf("failed to unlink delegations: %w", err)
	}
	return nil
}

// Ensure EntryRepository implements the interface.
var _ secondary.EntryRepository = (*EntryRepository)(nil)

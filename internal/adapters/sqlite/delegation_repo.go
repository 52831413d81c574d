package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

// DelegationRepository implements secondary.DelegationRepository.
type DelegationRepository struct {
	s *Store
}

// NewDelegationRepository creates a new delegation repository.
func NewDelegationRepository(s *Store) *DelegationRepository {
	return &DelegationRepository{s: s}
}

type delegationRow struct {
	ID               int64   `db:"id"`
	Requisitions     string  `db:"requisitions"`
	WorkOrderCode    string  `db:"work_order_code"`
	CollaboratorID   int64   `db:"collaborator_id"`
	CollaboratorName string  `db:"collaborator_name"`
	StartDate        string  `db:"start_date"`
	Status           string  `db:"status"`
	Grade            string  `db:"grade"`
	Criterion        string  `db:"criterion"`
	EndDate          *string `db:"end_date"`
}

const delegationColumns = `
	d.id, d.requisitions, d.work_order_code, d.collaborator_id,
	COALESCE(c.name, '') AS collaborator_name, d.start_date, d.status,
	d.grade, d.criterion, d.end_date
	FROM delegations d LEFT JOIN collaborators c ON c.id = d.collaborator_id`

// Create persists a new delegation.
func (r *DelegationRepository) Create(ctx context.Context, d *secondary.DelegationRecord) error {
	id, err := r.s.insertID(ctx, `INSERT INTO delegations
		(requisitions, work_order_code, collaborator_id, start_date, status, grade, criterion, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Requisitions, d.WorkOrderCode, d.CollaboratorID, d.StartDate, d.Status, d.Grade, d.Criterion, d.EndDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create delegation: %w", err)
	}
	d.ID = id
	return nil
}

// GetByID retrieves a delegation by its ID.
func (r *DelegationRepository) GetByID(ctx context.Context, id int64) (*secondary.DelegationRecord, error) {
	var row delegationRow
	err := r.s.get(ctx, &row, "SELECT "+delegationColumns+" WHERE d.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("delegation %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delegation: %w", err)
	}
	rec := secondary.DelegationRecord(row)
	return &rec, nil
}

// Update rewrites every mutable field of a delegation.
func (r *DelegationRepository) Update(ctx context.Context, d *secondary.DelegationRecord) error {
	n, err := r.s.exec(ctx, `UPDATE delegations SET
		requisitions = ?, work_order_code = ?, collaborator_id = ?, start_date = ?,
		status = ?, grade = ?, criterion = ?, end_date = ?
		WHERE id = ?`,
		d.Requisitions, d.WorkOrderCode, d.CollaboratorID, d.StartDate,
		d.Status, d.Grade, d.Criterion, d.EndDate, d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update delegation: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("delegation %d not found", d.ID)
	}
	return nil
}

// UpdateStatus sets status and end date.
func (r *DelegationRepository) UpdateStatus(ctx context.Context, id int64, status string, endDate *string) error {
	n, err := r.s.exec(ctx, "UPDATE delegations SET status = ?, end_date = ? WHERE id = ?", status, endDate, id)
	if err != nil {
		return fmt.Errorf("failed to update delegation status: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("delegation %d not found", id)
	}
	return nil
}

// Delete removes a delegation.
func (r *DelegationRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, "DELETE FROM delegations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete delegation: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("delegation %d not found", id)
	}
	return nil
}

// List retrieves delegations matching the filters, newest first.
func (r *DelegationRepository) List(ctx context.Context, f secondary.DelegationFilters) ([]*secondary.DelegationRecord, error) {
	where := "WHERE 1 = 1"
	var args []any
	if f.CollaboratorID != 0 {
		where += " AND d.collaborator_id = ?"
		args = append(args, f.CollaboratorID)
	}
	if f.Status != "" {
		where += " AND d.status = ?"
		args = append(args, f.Status)
	}
	where += " ORDER BY d.start_date DESC, d.id DESC" + limitClause(f.Limit)

	var rows []delegationRow
	if err := r.s.selectAll(ctx, &rows, "SELECT "+delegationColumns+" "+where, args...); err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	out := make([]*secondary.DelegationRecord, 0, len(rows))
	for _, row := range rows {
		rec := secondary.DelegationRecord(row)
		out = append(out, &rec)
	}
	return out, nil
}

// RenameWorkOrderCode rewrites every delegation referencing oldCode.
func (r *DelegationRepository) RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) (int64, error) {
	n, err := r.s.exec(ctx, "UPDATE delegations SET work_order_code = ? WHERE work_order_code = ?", newCode, oldCode)
	if err != nil {
		return 0, fmt.Errorf("failed to rename work order code on delegations: %w", err)
	}
	return n, nil
}

// DeleteByCollaborator removes every delegation owned by a collaborator.
func (r *DelegationRepository) DeleteByCollaborator(ctx context.Context, collaboratorID int64) error {
	if _, err := r.s.exec(ctx, "DELETE FROM delegations WHERE collaborator_id = ?", collaboratorID); err != nil {
		return fmt.Errorf("failed to delete delegations: %w", err)
	}
	return nil
}

// Ensure DelegationRepository implements the interface.
var _ secondary.DelegationRepository = (*DelegationRepository)(nil)

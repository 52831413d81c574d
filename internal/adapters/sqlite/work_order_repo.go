package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

// WorkOrderRepository implements secondary.WorkOrderRepository.
type WorkOrderRepository struct {
	s *Store
}

// NewWorkOrderRepository creates a new work order repository.
func NewWorkOrderRepository(s *Store) *WorkOrderRepository {
	return &WorkOrderRepository{s: s}
}

type workOrderRow struct {
	ID                int64  `db:"id"`
	Code              string `db:"code"`
	PlanItemCode      string `db:"plan_item_code"`
	Summary           string `db:"summary"`
	Unit              string `db:"unit"`
	Supervision       string `db:"supervision"`
	Coordination      string `db:"coordination"`
	Team              string `db:"team"`
	Observation       string `db:"observation"`
	Status            string `db:"status"`
	Planned           bool   `db:"planned"`
	Executed          bool   `db:"executed"`
	PreliminaryReport bool   `db:"preliminary_report"`
	FinalReport       bool   `db:"final_report"`
	CompletedOn       string `db:"completed_on"`
}

// Create persists a new work order.
func (r *WorkOrderRepository) Create(ctx context.Context, w *secondary.WorkOrderRecord) error {
	id, err := r.s.insertID(ctx, `INSERT INTO work_orders
		(code, plan_item_code, summary, unit, supervision, coordination, team, observation,
		 status, planned, executed, preliminary_report, final_report, completed_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.Code, w.PlanItemCode, w.Summary, w.Unit, w.Supervision, w.Coordination, w.Team, w.Observation,
		w.Status, w.Planned, w.Executed, w.PreliminaryReport, w.FinalReport, w.CompletedOn,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.ErrDuplicateCode, "work order %q already exists", w.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}
	w.ID = id
	return nil
}

func (r *WorkOrderRepository) getOne(ctx context.Context, where string, arg any) (*secondary.WorkOrderRecord, error) {
	var row workOrderRow
	err := r.s.get(ctx, &row, "SELECT * FROM work_orders WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("work order %v not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	rec := secondary.WorkOrderRecord(row)
	return &rec, nil
}

// GetByID retrieves a work order by its ID.
func (r *WorkOrderRepository) GetByID(ctx context.Context, id int64) (*secondary.WorkOrderRecord, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByCode retrieves a work order by its code.
func (r *WorkOrderRepository) GetByCode(ctx context.Context, code string) (*secondary.WorkOrderRecord, error) {
	return r.getOne(ctx, "code = ?", code)
}

// Update rewrites a work order. The code is changed through RenameCode.
func (r *WorkOrderRepository) Update(ctx context.Context, w *secondary.WorkOrderRecord) error {
	n, err := r.s.exec(ctx, `UPDATE work_orders SET
		plan_item_code = ?, summary = ?, unit = ?, supervision = ?, coordination = ?,
		team = ?, observation = ?, status = ?, planned = ?, executed = ?,
		preliminary_report = ?, final_report = ?, completed_on = ?
		WHERE id = ?`,
		w.PlanItemCode, w.Summary, w.Unit, w.Supervision, w.Coordination,
		w.Team, w.Observation, w.Status, w.Planned, w.Executed,
		w.PreliminaryReport, w.FinalReport, w.CompletedOn, w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("work order %d not found", w.ID)
	}
	return nil
}

// Delete removes a work order.
func (r *WorkOrderRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, "DELETE FROM work_orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("work order %d not found", id)
	}
	return nil
}

// List retrieves work orders ordered by code.
func (r *WorkOrderRepository) List(ctx context.Context, f secondary.WorkOrderFilters) ([]*secondary.WorkOrderRecord, error) {
	query := "SELECT * FROM work_orders"
	var args []any
	if f.PlanItemCode != "" {
		query += " WHERE plan_item_code = ?"
		args = append(args, f.PlanItemCode)
	}
	query += " ORDER BY code"

	var rows []workOrderRow
	if err := r.s.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	out := make([]*secondary.WorkOrderRecord, 0, len(rows))
	for _, row := range rows {
		rec := secondary.WorkOrderRecord(row)
		out = append(out, &rec)
	}
	return out, nil
}

// RenameCode changes the code of the work order holding oldCode.
func (r *WorkOrderRepository) RenameCode(ctx context.Context, oldCode, newCode string) error {
	n, err := r.s.exec(ctx, "UPDATE work_orders SET code = ? WHERE code = ?", newCode, oldCode)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.ErrDuplicateCode, "work order %q already exists", newCode)
	}
	if err != nil {
		return fmt.Errorf("failed to rename work order: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("work order %q not found", oldCode)
	}
	return nil
}

// RenamePlanItemCode rewrites every work order referencing oldCode.
func (r *WorkOrderRepository) RenamePlanItemCode(ctx context.Context, oldCode, newCode string) (int64, error) {
	n, err := r.s.exec(ctx, "UPDATE work_orders SET plan_item_code = ? WHERE plan_item_code = ?", newCode, oldCode)
	if err != nil {
		return 0, fmt.Errorf("failed to rename plan item code on work orders: %w", err)
	}
	return n, nil
}

// Ensure WorkOrderRepository implements the interface.
var _ secondary.WorkOrderRepository = (*WorkOrderRepository)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

// PlanItemRepository implements secondary.PlanItemRepository.
type PlanItemRepository struct {
	s *Store
}

// NewPlanItemRepository creates a new plan item repository.
func NewPlanItemRepository(s *Store) *PlanItemRepository {
	return &PlanItemRepository{s: s}
}

type planItemRow struct {
	ID             int64   `db:"id"`
	Code           string  `db:"code"`
	Classification string  `db:"classification"`
	ActivityType   string  `db:"activity_type"`
	Object         string  `db:"object"`
	Goal           string  `db:"goal"`
	StartDate      string  `db:"start_date"`
	EndDate        string  `db:"end_date"`
	PlannedHours   float64 `db:"planned_hours"`
}

// Create persists a new plan item.
func (r *PlanItemRepository) Create(ctx context.Context, p *secondary.PlanItemRecord) error {
	id, err := r.s.insertID(ctx, `INSERT INTO plan_items
		(code, classification, activity_type, object, goal, start_date, end_date, planned_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Classification, p.ActivityType, p.Object, p.Goal, p.StartDate, p.EndDate, p.PlannedHours,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.ErrDuplicateCode, "plan item %q already exists", p.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to create plan item: %w", err)
	}
	p.ID = id
	return nil
}

func (r *PlanItemRepository) getOne(ctx context.Context, where string, arg any) (*secondary.PlanItemRecord, error) {
	var row planItemRow
	err := r.s.get(ctx, &row, "SELECT * FROM plan_items WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("plan item %v not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan item: %w", err)
	}
	rec := secondary.PlanItemRecord(row)
	return &rec, nil
}

// GetByID retrieves a plan item by its ID.
func (r *PlanItemRepository) GetByID(ctx context.Context, id int64) (*secondary.PlanItemRecord, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByCode retrieves a plan item by its code.
func (r *PlanItemRepository) GetByCode(ctx context.Context, code string) (*secondary.PlanItemRecord, error) {
	return r.getOne(ctx, "code = ?", code)
}

// Update rewrites a plan item. The code is changed through RenameCode.
func (r *PlanItemRepository) Update(ctx context.Context, p *secondary.PlanItemRecord) error {
	n, err := r.s.exec(ctx, `UPDATE plan_items SET
		classification = ?, activity_type = ?, object = ?, goal = ?,
		start_date = ?, end_date = ?, planned_hours = ?
		WHERE id = ?`,
		p.Classification, p.ActivityType, p.Object, p.Goal, p.StartDate, p.EndDate, p.PlannedHours, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan item: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("plan item %d not found", p.ID)
	}
	return nil
}

// Delete removes a plan item.
func (r *PlanItemRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.s.exec(ctx, "DELETE FROM plan_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete plan item: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("plan item %d not found", id)
	}
	return nil
}

// List retrieves all plan items ordered by code.
func (r *PlanItemRepository) List(ctx context.Context) ([]*secondary.PlanItemRecord, error) {
	var rows []planItemRow
	if err := r.s.selectAll(ctx, &rows, "SELECT * FROM plan_items ORDER BY code"); err != nil {
		return nil, fmt.Errorf("failed to list plan items: %w", err)
	}
	out := make([]*secondary.PlanItemRecord, 0, len(rows))
	for _, row := range rows {
		rec := secondary.PlanItemRecord(row)
		out = append(out, &rec)
	}
	return out, nil
}

// RenameCode changes the code of the plan item holding oldCode.
func (r *PlanItemRepository) RenameCode(ctx context.Context, oldCode, newCode string) error {
	n, err := r.s.exec(ctx, "UPDATE plan_items SET code = ? WHERE code = ?", newCode, oldCode)
	if isUniqueViolation(err) {
		return apperr.Conflict(apperr.ErrDuplicateCode, "plan item %q already exists", newCode)
	}
	if err != nil {
		return fmt.Errorf("failed to rename plan item: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("plan item %q not found", oldCode)
	}
	return nil
}

// Ensure PlanItemRepository implements the interface.
var _ secondary.PlanItemRepository = (*PlanItemRepository)(nil)

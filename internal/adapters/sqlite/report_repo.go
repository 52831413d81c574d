package sqlite

import (
	"context"
	"fmt"

	"github.com/example/horas/internal/ports/secondary"
)

// ReportRepository implements secondary.ReportRepository.
type ReportRepository struct {
	s *Store
}

// NewReportRepository creates a new report repository.
func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{s: s}
}

var dimensionKeys = map[string]string{
	secondary.DimensionCollaborator: "COALESCE(c.name, '')",
	secondary.DimensionPlanItem:     "e.plan_item_code",
	secondary.DimensionWorkOrder:    "e.work_order_code",
}

type factRow struct {
	Key     string `db:"group_key"`
	Date    string `db:"date"`
	Minutes int    `db:"minutes"`
}

// Facts returns one (key, date, minutes) row per entry.
func (r *ReportRepository) Facts(ctx context.Context, f secondary.ReportFilters) ([]secondary.FactRecord, error) {
	keyExpr, ok := dimensionKeys[f.Dimension]
	if !ok {
		return nil, fmt.Errorf("unknown report dimension %q", f.Dimension)
	}

	query := fmt.Sprintf(`SELECT %s AS group_key, e.date AS date, COALESCE(e.duration_minutes, 0) AS minutes
		FROM time_entries e LEFT JOIN collaborators c ON c.id = e.collaborator_id
		WHERE 1 = 1`, keyExpr)
	var args []any
	if f.CollaboratorID != 0 {
		query += " AND e.collaborator_id = ?"
		args = append(args, f.CollaboratorID)
	}
	if f.PlanItemCode != "" {
		query += " AND e.plan_item_code = ?"
		args = append(args, f.PlanItemCode)
	}
	if f.WorkOrderCode != "" {
		query += " AND e.work_order_code = ?"
		args = append(args, f.WorkOrderCode)
	}
	if f.Month != 0 {
		query += " AND SUBSTR(e.date, 6, 2) = ?"
		args = append(args, fmt.Sprintf("%02d", f.Month))
	}

	var rows []factRow
	if err := r.s.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read report facts: %w", err)
	}
	out := make([]secondary.FactRecord, len(rows))
	for i, row := range rows {
		out[i] = secondary.FactRecord(row)
	}
	return out, nil
}

// PlanBudgets returns every plan item with its planned hours.
func (r *ReportRepository) PlanBudgets(ctx context.Context) ([]secondary.PlanBudgetRecord, error) {
	var rows []struct {
		Code         string  `db:"code"`
		PlannedHours float64 `db:"planned_hours"`
	}
	if err := r.s.selectAll(ctx, &rows, "SELECT code, COALESCE(planned_hours, 0) AS planned_hours FROM plan_items ORDER BY code"); err != nil {
		return nil, fmt.Errorf("failed to read plan budgets: %w", err)
	}
	out := make([]secondary.PlanBudgetRecord, len(rows))
	for i, row := range rows {
		out[i] = secondary.PlanBudgetRecord(row)
	}
	return out, nil
}

// Ensure ReportRepository implements the interface.
var _ secondary.ReportRepository = (*ReportRepository)(nil)

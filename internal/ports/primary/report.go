package primary

import "context"

// ReportService defines the primary port for read-only aggregates.
type ReportService interface {
	// Totals sums minutes per key of the given dimension.
	Totals(ctx context.Context, req ReportRequest) ([]*TotalRow, error)

	// Monthly buckets minutes per key and month, with a global row.
	Monthly(ctx context.Context, req ReportRequest) (*MonthlyReport, error)

	// PlanProgress reports executed time against each plan item budget.
	PlanProgress(ctx context.Context) ([]*PlanProgressRow, error)

	// Overview reports the whole plan.
	Overview(ctx context.Context) (*Overview, error)
}

// ReportRequest parameterizes an aggregate query.
// Dimension is one of "collaborator", "plan_item" or "work_order".
type ReportRequest struct {
	Dimension      string `json:"dimension"`
	CollaboratorID int64  `json:"collaborator_id"`
	PlanItemCode   string `json:"plan_item_code"`
	WorkOrderCode  string `json:"work_order_code"`
	Month          int    `json:"month"`
	Limit          int    `json:"limit"` // 0 = all
}

// TotalRow is one (groupKey, totalMinutes) row.
type TotalRow struct {
	Key          string `json:"key"`
	TotalMinutes int    `json:"total_minutes"`
	Total        string `json:"total"`
}

// MonthRow is a group key with twelve month buckets.
type MonthRow struct {
	Key     string     `json:"key"`
	Minutes [12]int    `json:"minutes"`
	Totals  [12]string `json:"totals"`
	Total   string     `json:"total"`
}

// MonthlyReport is a wide month-bucketed report.
type MonthlyReport struct {
	Rows   []*MonthRow `json:"rows"`
	Global *MonthRow   `json:"global"`
}

// PlanProgressRow is one plan item line.
type PlanProgressRow struct {
	Code            string  `json:"code"`
	PlannedHours    float64 `json:"planned_hours"`
	ExecutedMinutes int     `json:"executed_minutes"`
	Executed        string  `json:"executed"`
	Percent         string  `json:"percent"`
}

// Overview is the whole-plan summary.
type Overview struct {
	PlannedHours    float64            `json:"planned_hours"`
	ExecutedMinutes int                `json:"executed_minutes"`
	Executed        string             `json:"executed"`
	Percent         string             `json:"percent"`
	Items           []*PlanProgressRow `json:"items"`
}

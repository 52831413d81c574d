package app

import (
	"context"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/core/report"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	reportRepo secondary.ReportRepository
}

// NewReportService creates a new ReportService with injected dependencies.
func NewReportService(reportRepo secondary.ReportRepository) *ReportServiceImpl {
	return &ReportServiceImpl{reportRepo: reportRepo}
}

// Totals sums minutes per key of the requested dimension.
func (s *ReportServiceImpl) Totals(ctx context.Context, req primary.ReportRequest) ([]*primary.TotalRow, error) {
	facts, err := s.facts(ctx, req)
	if err != nil {
		return nil, err
	}
	rows := report.Totals(facts)
	out := make([]*primary.TotalRow, 0, len(rows))
	for _, r := range capRows(rows, req.Limit) {
		out = append(out, &primary.TotalRow{Key: r.Key, TotalMinutes: r.Minutes, Total: r.HHMM})
	}
	return out, nil
}

// Monthly buckets minutes per key and month and adds a global row.
func (s *ReportServiceImpl) Monthly(ctx context.Context, req primary.ReportRequest) (*primary.MonthlyReport, error) {
	facts, err := s.facts(ctx, req)
	if err != nil {
		return nil, err
	}
	rows := report.ByMonth(facts)
	out := &primary.MonthlyReport{Global: toMonthRow(report.Global("total", facts))}
	for _, r := range capRows(rows, req.Limit) {
		out.Rows = append(out.Rows, toMonthRow(r))
	}
	return out, nil
}

// PlanProgress reports executed time against each plan item budget.
func (s *ReportServiceImpl) PlanProgress(ctx context.Context) ([]*primary.PlanProgressRow, error) {
	items, err := s.progress(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.PlanProgressRow, len(items))
	for i, it := range items {
		out[i] = toProgressRow(it)
	}
	return out, nil
}

// Overview reports planned against executed time for the whole plan.
func (s *ReportServiceImpl) Overview(ctx context.Context) (*primary.Overview, error) {
	items, err := s.progress(ctx)
	if err != nil {
		return nil, err
	}
	o := report.BuildOverview(items)
	out := &primary.Overview{
		PlannedHours:    o.PlannedHours,
		ExecutedMinutes: o.ExecutedMinutes,
		Executed:        o.Executed,
		Percent:         o.Percent,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, toProgressRow(it))
	}
	return out, nil
}

func (s *ReportServiceImpl) facts(ctx context.Context, req primary.ReportRequest) ([]report.Fact, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	switch req.Dimension {
	case secondary.DimensionCollaborator, secondary.DimensionPlanItem, secondary.DimensionWorkOrder:
	default:
		return nil, apperr.Validation(apperr.ErrMissingField, "unknown report dimension %q", req.Dimension)
	}
	if req.Month < 0 || req.Month > report.Months {
		return nil, apperr.Validation(apperr.ErrInvalidPeriod, "month %d out of range", req.Month)
	}
	if req.Limit < 0 {
		return nil, apperr.Validation(apperr.ErrMissingField, "limit cannot be negative")
	}

	collaboratorID := req.CollaboratorID
	if !r.IsAdmin() {
		collaboratorID = r.ID
	}
	records, err := s.reportRepo.Facts(ctx, secondary.ReportFilters{
		Dimension:      req.Dimension,
		CollaboratorID: collaboratorID,
		PlanItemCode:   req.PlanItemCode,
		WorkOrderCode:  req.WorkOrderCode,
		Month:          req.Month,
	})
	if err != nil {
		return nil, err
	}
	facts := make([]report.Fact, len(records))
	for i, rec := range records {
		facts[i] = report.Fact(rec)
	}
	return facts, nil
}

func (s *ReportServiceImpl) progress(ctx context.Context) ([]report.PlanItemProgress, error) {
	if _, err := requesterFrom(ctx); err != nil {
		return nil, err
	}
	budgets, err := s.reportRepo.PlanBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan budgets: %w", err)
	}
	records, err := s.reportRepo.Facts(ctx, secondary.ReportFilters{Dimension: secondary.DimensionPlanItem})
	if err != nil {
		return nil, err
	}
	executed := make(map[string]int, len(budgets))
	for _, rec := range records {
		if rec.Minutes > 0 {
			executed[rec.Key] += rec.Minutes
		}
	}
	items := make([]report.PlanItemProgress, len(budgets))
	for i, b := range budgets {
		items[i] = report.Progress(b.Code, b.PlannedHours, executed[b.Code])
	}
	return items, nil
}

// capRows keeps the first limit rows; zero keeps all.
func capRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func toMonthRow(r report.MonthRow) *primary.MonthRow {
	out := &primary.MonthRow{Key: r.Key, Minutes: r.Buckets, Total: timeunit.FormatHHMM(r.Total)}
	for i, m := range r.Buckets {
		out.Totals[i] = timeunit.FormatHHMM(m)
	}
	return out
}

func toProgressRow(p report.PlanItemProgress) *primary.PlanProgressRow {
	row := primary.PlanProgressRow(p)
	return &row
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)

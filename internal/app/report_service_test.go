package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ctxutil"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockReportRepository implements secondary.ReportRepository for testing.
type mockReportRepository struct {
	facts       []secondary.FactRecord
	budgets     []secondary.PlanBudgetRecord
	factsErr    error
	lastFilters secondary.ReportFilters
}

func (m *mockReportRepository) Facts(ctx context.Context, filters secondary.ReportFilters) ([]secondary.FactRecord, error) {
	m.lastFilters = filters
	if m.factsErr != nil {
		return nil, m.factsErr
	}
	return m.facts, nil
}

func (m *mockReportRepository) PlanBudgets(ctx context.Context) ([]secondary.PlanBudgetRecord, error) {
	return m.budgets, nil
}

var _ secondary.ReportRepository = (*mockReportRepository)(nil)

// ============================================================================
// Test Helper
// ============================================================================

func newTestReportService() (*ReportServiceImpl, *mockReportRepository) {
	repo := &mockReportRepository{}
	return NewReportService(repo), repo
}

// ============================================================================
// Totals / Monthly Tests
// ============================================================================

func TestTotals_SumsAndCaps(t *testing.T) {
	service, repo := newTestReportService()
	repo.facts = []secondary.FactRecord{
		{Key: "Bia", Date: "2026-01-10", Minutes: 30},
		{Key: "Ana", Date: "2026-01-10", Minutes: 90},
		{Key: "Ana", Date: "2026-02-10", Minutes: 45},
		{Key: "Caio", Date: "2026-02-10", Minutes: 10},
	}

	rows, err := service.Totals(as(1, ctxutil.RoleAdmin), primary.ReportRequest{Dimension: "collaborator", Limit: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Key != "Ana" || rows[0].TotalMinutes != 135 || rows[0].Total != "02:15" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
}

func TestTotals_NonAdminScopedToSelf(t *testing.T) {
	service, repo := newTestReportService()

	_, err := service.Totals(as(7, ctxutil.RoleCommon), primary.ReportRequest{Dimension: "work_order", CollaboratorID: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.lastFilters.CollaboratorID != 7 {
		t.Errorf("expected filter on requester 7, got %d", repo.lastFilters.CollaboratorID)
	}
}

func TestTotals_Validation(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		req     primary.ReportRequest
		wantErr error
	}{
		{name: "unknown dimension", ctx: as(1, ctxutil.RoleAdmin), req: primary.ReportRequest{Dimension: "team"}, wantErr: apperr.ErrValidation},
		{name: "month out of range", ctx: as(1, ctxutil.RoleAdmin), req: primary.ReportRequest{Dimension: "plan_item", Month: 13}, wantErr: apperr.ErrInvalidPeriod},
		{name: "negative limit", ctx: as(1, ctxutil.RoleAdmin), req: primary.ReportRequest{Dimension: "plan_item", Limit: -1}, wantErr: apperr.ErrValidation},
		{name: "no requester", ctx: context.Background(), req: primary.ReportRequest{Dimension: "plan_item"}, wantErr: apperr.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestReportService()
			_, err := service.Totals(tt.ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTotals_RepositoryError(t *testing.T) {
	service, repo := newTestReportService()
	repo.factsErr = errors.New("database locked")

	_, err := service.Totals(as(1, ctxutil.RoleAdmin), primary.ReportRequest{Dimension: "plan_item"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestMonthly_BucketsAndGlobal(t *testing.T) {
	service, repo := newTestReportService()
	repo.facts = []secondary.FactRecord{
		{Key: "OS-1", Date: "2026-01-10", Minutes: 60},
		{Key: "OS-1", Date: "2026-03-02", Minutes: 30},
		{Key: "OS-2", Date: "2026-03-05", Minutes: 15},
	}

	report, err := service.Monthly(as(1, ctxutil.RoleAdmin), primary.ReportRequest{Dimension: "work_order"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.Rows))
	}
	first := report.Rows[0]
	if first.Minutes[0] != 60 || first.Minutes[2] != 30 || first.Total != "01:30" {
		t.Errorf("unexpected OS-1 row %+v", first)
	}
	if report.Global.Minutes[2] != 45 || report.Global.Totals[2] != "00:45" || report.Global.Total != "01:45" {
		t.Errorf("unexpected global row %+v", report.Global)
	}
}

// ============================================================================
// PlanProgress / Overview Tests
// ============================================================================

func TestPlanProgress_ZeroBudget(t *testing.T) {
	service, repo := newTestReportService()
	repo.budgets = []secondary.PlanBudgetRecord{
		{Code: "P-1", PlannedHours: 10},
		{Code: "P-2", PlannedHours: 0},
	}
	repo.facts = []secondary.FactRecord{
		{Key: "P-1", Date: "2026-01-10", Minutes: 150},
		{Key: "P-2", Date: "2026-01-10", Minutes: 600},
	}

	rows, err := service.PlanProgress(as(1, ctxutil.RoleCommon))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rows[0].Percent != "25.00%" || rows[0].Executed != "02:30" {
		t.Errorf("unexpected P-1 progress %+v", rows[0])
	}
	if rows[1].Percent != "0%" {
		t.Errorf("expected 0%% for zero budget, got %q", rows[1].Percent)
	}
}

func TestOverview(t *testing.T) {
	service, repo := newTestReportService()
	repo.budgets = []secondary.PlanBudgetRecord{
		{Code: "P-1", PlannedHours: 10},
		{Code: "P-2", PlannedHours: 30},
	}
	repo.facts = []secondary.FactRecord{
		{Key: "P-1", Date: "2026-01-10", Minutes: 600},
		{Key: "P-3", Date: "2026-01-10", Minutes: 60},
	}

	o, err := service.Overview(as(1, ctxutil.RoleAdmin))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if o.PlannedHours != 40 || o.ExecutedMinutes != 600 || o.Percent != "25.00%" {
		t.Errorf("unexpected overview %+v", o)
	}
	if len(o.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(o.Items))
	}
}

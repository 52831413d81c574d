package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// CatalogServiceImpl implements the CatalogService interface.
type CatalogServiceImpl struct {
	tx             secondary.Transactor
	planItemRepo   secondary.PlanItemRepository
	workOrderRepo  secondary.WorkOrderRepository
	entryRepo      secondary.EntryRepository
	delegationRepo secondary.DelegationRepository
	derivedRepo    secondary.DerivedRecordRepository
	log            *slog.Logger
}

// NewCatalogService creates a new CatalogService with injected dependencies.
func NewCatalogService(
	tx secondary.Transactor,
	planItemRepo secondary.PlanItemRepository,
	workOrderRepo secondary.WorkOrderRepository,
	entryRepo secondary.EntryRepository,
	delegationRepo secondary.DelegationRepository,
	derivedRepo secondary.DerivedRecordRepository,
	log *slog.Logger,
) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		tx:             tx,
		planItemRepo:   planItemRepo,
		workOrderRepo:  workOrderRepo,
		entryRepo:      entryRepo,
		delegationRepo: delegationRepo,
		derivedRepo:    derivedRepo,
		log:            log,
	}
}

// ============================================================================
// Plan items
// ============================================================================

// CreatePlanItem registers a plan item.
func (s *CatalogServiceImpl) CreatePlanItem(ctx context.Context, req primary.PlanItem) (*primary.PlanItem, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	rec := planItemToRecord(req)
	if err := validatePlanItem(rec); err != nil {
		return nil, err
	}
	if err := s.planItemRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return recordToPlanItem(rec), nil
}

// GetPlanItem retrieves a plan item by code.
func (s *CatalogServiceImpl) GetPlanItem(ctx context.Context, code string) (*primary.PlanItem, error) {
	rec, err := s.planItemRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return recordToPlanItem(rec), nil
}

// ListPlanItems lists every plan item.
func (s *CatalogServiceImpl) ListPlanItems(ctx context.Context) ([]*primary.PlanItem, error) {
	records, err := s.planItemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan items: %w", err)
	}
	out := make([]*primary.PlanItem, len(records))
	for i, rec := range records {
		out[i] = recordToPlanItem(rec)
	}
	return out, nil
}

// UpdatePlanItem rewrites a plan item; a new code goes through the rename cascade.
func (s *CatalogServiceImpl) UpdatePlanItem(ctx context.Context, req primary.PlanItem) (*primary.PlanItem, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	rec := planItemToRecord(req)
	if err := validatePlanItem(rec); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.planItemRepo.GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		if current.Code != rec.Code {
			if err := s.renamePlanItem(ctx, current.Code, rec.Code); err != nil {
				return err
			}
		}
		return s.planItemRepo.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return recordToPlanItem(rec), nil
}

// DeletePlanItem removes a plan item.
func (s *CatalogServiceImpl) DeletePlanItem(ctx context.Context, code string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	rec, err := s.planItemRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	return s.planItemRepo.Delete(ctx, rec.ID)
}

// RenamePlanItemCode renames a plan item code everywhere it is referenced.
func (s *CatalogServiceImpl) RenamePlanItemCode(ctx context.Context, oldCode, newCode string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	oldCode, newCode = strings.TrimSpace(oldCode), strings.TrimSpace(newCode)
	if oldCode == "" || newCode == "" {
		return apperr.Validation(apperr.ErrMissingField, "both codes are required")
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.renamePlanItem(ctx, oldCode, newCode)
	})
}

func (s *CatalogServiceImpl) renamePlanItem(ctx context.Context, oldCode, newCode string) error {
	if oldCode == newCode {
		return nil
	}
	oldExists, err := exists(s.planItemRepo.GetByCode(ctx, oldCode))
	if err != nil {
		return err
	}
	newExists, err := exists(s.planItemRepo.GetByCode(ctx, newCode))
	if err != nil {
		return err
	}
	switch {
	case oldExists && newExists:
		return apperr.Conflict(apperr.ErrDuplicateCode, "plan item %q already exists", newCode)
	case !oldExists && !newExists:
		return apperr.NotFound("plan item %q not found", oldCode)
	case oldExists:
		if err := s.planItemRepo.RenameCode(ctx, oldCode, newCode); err != nil {
			return err
		}
	}
	// A retried rename finds the catalog row already renamed; references
	// are still rewritten so none can be left behind.
	orders, err := s.workOrderRepo.RenamePlanItemCode(ctx, oldCode, newCode)
	if err != nil {
		return err
	}
	entries, err := s.entryRepo.RenamePlanItemCode(ctx, oldCode, newCode)
	if err != nil {
		return err
	}
	s.log.Info("plan item code renamed", "from", oldCode, "to", newCode, "work_orders", orders, "entries", entries)
	return nil
}

// ============================================================================
// Work orders
// ============================================================================

// CreateWorkOrder registers a work order.
func (s *CatalogServiceImpl) CreateWorkOrder(ctx context.Context, req primary.WorkOrder) (*primary.WorkOrder, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	rec := workOrderToRecord(req)
	if rec.Code == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "work order code is required")
	}
	if err := s.workOrderRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return recordToWorkOrder(rec), nil
}

// GetWorkOrder retrieves a work order by code.
func (s *CatalogServiceImpl) GetWorkOrder(ctx context.Context, code string) (*primary.WorkOrder, error) {
	rec, err := s.workOrderRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return recordToWorkOrder(rec), nil
}

// ListWorkOrders lists work orders, optionally for one plan item.
func (s *CatalogServiceImpl) ListWorkOrders(ctx context.Context, planItemCode string) ([]*primary.WorkOrder, error) {
	records, err := s.workOrderRepo.List(ctx, secondary.WorkOrderFilters{PlanItemCode: strings.TrimSpace(planItemCode)})
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	out := make([]*primary.WorkOrder, len(records))
	for i, rec := range records {
		out[i] = recordToWorkOrder(rec)
	}
	return out, nil
}

// UpdateWorkOrder rewrites a work order; a new code goes through the rename cascade.
func (s *CatalogServiceImpl) UpdateWorkOrder(ctx context.Context, req primary.WorkOrder) (*primary.WorkOrder, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	rec := workOrderToRecord(req)
	if rec.Code == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "work order code is required")
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.workOrderRepo.GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		if current.Code != rec.Code {
			if err := s.renameWorkOrder(ctx, current.Code, rec.Code); err != nil {
				return err
			}
		}
		return s.workOrderRepo.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return recordToWorkOrder(rec), nil
}

// DeleteWorkOrder removes a work order.
func (s *CatalogServiceImpl) DeleteWorkOrder(ctx context.Context, code string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	rec, err := s.workOrderRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	return s.workOrderRepo.Delete(ctx, rec.ID)
}

// RenameWorkOrderCode renames a work order code everywhere it is referenced.
func (s *CatalogServiceImpl) RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	oldCode, newCode = strings.TrimSpace(oldCode), strings.TrimSpace(newCode)
	if oldCode == "" || newCode == "" {
		return apperr.Validation(apperr.ErrMissingField, "both codes are required")
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.renameWorkOrder(ctx, oldCode, newCode)
	})
}

func (s *CatalogServiceImpl) renameWorkOrder(ctx context.Context, oldCode, newCode string) error {
	if oldCode == newCode {
		return nil
	}
	oldExists, err := exists(s.workOrderRepo.GetByCode(ctx, oldCode))
	if err != nil {
		return err
	}
	newExists, err := exists(s.workOrderRepo.GetByCode(ctx, newCode))
	if err != nil {
		return err
	}
	switch {
	case oldExists && newExists:
		return apperr.Conflict(apperr.ErrDuplicateCode, "work order %q already exists", newCode)
	case !oldExists && !newExists:
		return apperr.NotFound("work order %q not found", oldCode)
	case oldExists:
		if err := s.workOrderRepo.RenameCode(ctx, oldCode, newCode); err != nil {
			return err
		}
	}

	entries, err := s.entryRepo.RenameWorkOrderCode(ctx, oldCode, newCode)
	if err != nil {
		return err
	}
	delegations, err := s.delegationRepo.RenameWorkOrderCode(ctx, oldCode, newCode)
	if err != nil {
		return err
	}
	if err := s.derivedRepo.RenameWorkOrderCode(ctx, oldCode, newCode); err != nil {
		return err
	}
	s.log.Info("work order code renamed", "from", oldCode, "to", newCode, "entries", entries, "delegations", delegations)
	return nil
}

// exists turns a lookup into a presence flag; only not-found is swallowed.
func exists[T any](v *T, err error) (bool, error) {
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

func validatePlanItem(rec *secondary.PlanItemRecord) error {
	if rec.Code == "" {
		return apperr.Validation(apperr.ErrMissingField, "plan item code is required")
	}
	if rec.PlannedHours < 0 {
		return apperr.Validation(apperr.ErrMissingField, "planned hours cannot be negative")
	}
	return nil
}

func planItemToRecord(p primary.PlanItem) *secondary.PlanItemRecord {
	return &secondary.PlanItemRecord{
		ID:             p.ID,
		Code:           strings.TrimSpace(p.Code),
		Classification: p.Classification,
		ActivityType:   p.ActivityType,
		Object:         p.Object,
		Goal:           p.Goal,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		PlannedHours:   p.PlannedHours,
	}
}

func recordToPlanItem(r *secondary.PlanItemRecord) *primary.PlanItem {
	p := primary.PlanItem(*r)
	return &p
}

func workOrderToRecord(w primary.WorkOrder) *secondary.WorkOrderRecord {
	rec := secondary.WorkOrderRecord(w)
	rec.Code = strings.TrimSpace(rec.Code)
	rec.PlanItemCode = strings.TrimSpace(rec.PlanItemCode)
	return &rec
}

func recordToWorkOrder(r *secondary.WorkOrderRecord) *primary.WorkOrder {
	w := primary.WorkOrder(*r)
	return &w
}

// Ensure CatalogServiceImpl implements the interface
var _ primary.CatalogService = (*CatalogServiceImpl)(nil)

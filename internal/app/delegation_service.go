package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/horas/internal/apperr"
	coredelegation "github.com/example/horas/internal/core/delegation"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// DelegationServiceImpl implements the DelegationService interface.
type DelegationServiceImpl struct {
	tx               secondary.Transactor
	delegationRepo   secondary.DelegationRepository
	entryRepo        secondary.EntryRepository
	collaboratorRepo secondary.CollaboratorRepository
	normalizer       timeunit.Normalizer
	log              *slog.Logger
}

// NewDelegationService creates a new DelegationService with injected dependencies.
func NewDelegationService(
	tx secondary.Transactor,
	delegationRepo secondary.DelegationRepository,
	entryRepo secondary.EntryRepository,
	collaboratorRepo secondary.CollaboratorRepository,
	normalizer timeunit.Normalizer,
	log *slog.Logger,
) *DelegationServiceImpl {
	return &DelegationServiceImpl{
		tx:               tx,
		delegationRepo:   delegationRepo,
		entryRepo:        entryRepo,
		collaboratorRepo: collaboratorRepo,
		normalizer:       normalizer,
		log:              log,
	}
}

// CreateDelegation assigns requisitions to a collaborator.
func (s *DelegationServiceImpl) CreateDelegation(ctx context.Context, req primary.CreateDelegationRequest) (*primary.Delegation, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	requisitions := coredelegation.JoinRequisitions(req.Requisitions)
	if requisitions == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "at least one requisition is required")
	}
	if strings.TrimSpace(req.WorkOrderCode) == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "work order code is required")
	}
	if _, err := s.normalizer.CheckDate(req.StartDate); err != nil {
		return nil, err
	}
	if _, err := s.collaboratorRepo.GetByID(ctx, req.CollaboratorID); err != nil {
		return nil, err
	}

	rec := &secondary.DelegationRecord{
		Requisitions:   requisitions,
		WorkOrderCode:  strings.TrimSpace(req.WorkOrderCode),
		CollaboratorID: req.CollaboratorID,
		StartDate:      req.StartDate,
		Status:         string(coredelegation.InitialStatus()),
		Grade:          strings.TrimSpace(req.Grade),
		Criterion:      strings.TrimSpace(req.Criterion),
	}
	if err := s.delegationRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create delegation: %w", err)
	}

	s.log.Info("delegation created", "delegation", rec.ID, "collaborator", rec.CollaboratorID, "work_order", rec.WorkOrderCode)
	return s.getDelegation(ctx, rec.ID)
}

// getDelegation reads a delegation without permission checks.
func (s *DelegationServiceImpl) getDelegation(ctx context.Context, id int64) (*primary.Delegation, error) {
	rec, err := s.delegationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToDelegation(rec), nil
}

// GetDelegation returns a delegation with its linked entries.
func (s *DelegationServiceImpl) GetDelegation(ctx context.Context, id int64) (*primary.DelegationDetail, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.delegationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := coredelegation.CanView(rec.ID, rec.CollaboratorID, r.ID, r.IsAdmin()).Error(); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByDelegation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegation entries: %w", err)
	}
	detail := &primary.DelegationDetail{Delegation: recordToDelegation(rec)}
	for _, e := range entries {
		detail.Entries = append(detail.Entries, recordToEntry(e))
		detail.TotalMinutes += e.DurationMinutes
	}
	detail.Total = timeunit.FormatHHMM(detail.TotalMinutes)
	return detail, nil
}

// ListDelegations lists delegations. Non-admins only see their own.
func (s *DelegationServiceImpl) ListDelegations(ctx context.Context, filters primary.DelegationFilters) ([]*primary.Delegation, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !r.IsAdmin() {
		filters.CollaboratorID = r.ID
	}
	status := ""
	if filters.Status != "" {
		st, ok := coredelegation.ParseStatus(filters.Status)
		if !ok {
			return nil, apperr.Validation(apperr.ErrInvalidStatus, "unknown status %q", filters.Status)
		}
		status = string(st)
	}

	records, err := s.delegationRepo.List(ctx, secondary.DelegationFilters{
		CollaboratorID: filters.CollaboratorID,
		Status:         status,
		Limit:          filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	out := make([]*primary.Delegation, len(records))
	for i, rec := range records {
		out[i] = recordToDelegation(rec)
	}
	return out, nil
}

// UpdateDelegation rewrites a delegation. A new work order code is
// propagated to the linked entries.
func (s *DelegationServiceImpl) UpdateDelegation(ctx context.Context, req primary.UpdateDelegationRequest) (*primary.Delegation, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	requisitions := coredelegation.JoinRequisitions(req.Requisitions)
	if requisitions == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "at least one requisition is required")
	}
	if strings.TrimSpace(req.WorkOrderCode) == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "work order code is required")
	}
	if _, err := s.normalizer.CheckDate(req.StartDate); err != nil {
		return nil, err
	}
	newStatus, ok := coredelegation.ParseStatus(req.Status)
	if !ok {
		return nil, apperr.Validation(apperr.ErrInvalidStatus, "unknown status %q", req.Status)
	}
	if err := checkEndDate(req.EndDate); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.delegationRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !coredelegation.CanTransition(coredelegation.Status(rec.Status), newStatus) {
			return apperr.Validation(apperr.ErrInvalidTransition,
				"delegation %d cannot go from %s to %s", rec.ID, rec.Status, newStatus)
		}
		if _, err := s.collaboratorRepo.GetByID(ctx, req.CollaboratorID); err != nil {
			return err
		}

		latest, err := s.latestIfNeeded(ctx, rec.ID, newStatus, req.EndDate)
		if err != nil {
			return err
		}
		result := coredelegation.ApplyStatusTransition(newStatus, req.EndDate, latest)

		oldCode := rec.WorkOrderCode
		rec.Requisitions = requisitions
		rec.WorkOrderCode = strings.TrimSpace(req.WorkOrderCode)
		rec.CollaboratorID = req.CollaboratorID
		rec.StartDate = req.StartDate
		rec.Status = string(result.NewStatus)
		rec.Grade = strings.TrimSpace(req.Grade)
		rec.Criterion = strings.TrimSpace(req.Criterion)
		rec.EndDate = result.EndDate
		if err := s.delegationRepo.Update(ctx, rec); err != nil {
			return err
		}
		if oldCode != rec.WorkOrderCode {
			if err := s.entryRepo.SetWorkOrderForDelegation(ctx, rec.ID, rec.WorkOrderCode); err != nil {
				return err
			}
			s.log.Info("delegation work order propagated", "delegation", rec.ID, "from", oldCode, "to", rec.WorkOrderCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getDelegation(ctx, req.ID)
}

// DeleteDelegation unlinks the delegation's entries and removes it.
func (s *DelegationServiceImpl) DeleteDelegation(ctx context.Context, id int64) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.delegationRepo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.entryRepo.UnlinkDelegation(ctx, id); err != nil {
			return err
		}
		return s.delegationRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("delegation deleted", "delegation", id)
	return nil
}

// ChangeStatus moves a delegation through its lifecycle. Re-submitting the
// current status is accepted and recomputes the end date.
func (s *DelegationServiceImpl) ChangeStatus(ctx context.Context, req primary.ChangeStatusRequest) (*primary.Delegation, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	newStatus, ok := coredelegation.ParseStatus(req.NewStatus)
	if !ok {
		return nil, apperr.Validation(apperr.ErrInvalidStatus, "unknown status %q", req.NewStatus)
	}
	if err := checkEndDate(req.EndDate); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.delegationRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		guard := coredelegation.CanChangeStatus(coredelegation.StatusChangeContext{
			DelegationID:   rec.ID,
			OwnerID:        rec.CollaboratorID,
			CurrentStatus:  coredelegation.Status(rec.Status),
			NewStatus:      newStatus,
			RequesterID:    r.ID,
			RequesterAdmin: r.IsAdmin(),
		})
		if !guard.Allowed {
			s.log.Warn("status change rejected", "delegation", rec.ID, "requester", r.ID, "reason", guard.Reason)
			return guard.Error()
		}

		latest, err := s.latestIfNeeded(ctx, rec.ID, newStatus, req.EndDate)
		if err != nil {
			return err
		}
		result := coredelegation.ApplyStatusTransition(newStatus, req.EndDate, latest)
		return s.delegationRepo.UpdateStatus(ctx, rec.ID, string(result.NewStatus), result.EndDate)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("delegation status changed", "delegation", req.ID, "status", newStatus, "requester", r.ID)
	return s.getDelegation(ctx, req.ID)
}

func (s *DelegationServiceImpl) latestIfNeeded(ctx context.Context, id int64, status coredelegation.Status, explicit string) (string, error) {
	if status != coredelegation.StatusCompleted || explicit != "" {
		return "", nil
	}
	return s.entryRepo.LatestDateForDelegation(ctx, id)
}

func checkEndDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(timeunit.DateLayout, date); err != nil {
		return apperr.Validation(apperr.ErrInvalidPeriod, "invalid end date %q", date)
	}
	return nil
}

func recordToDelegation(r *secondary.DelegationRecord) *primary.Delegation {
	d := &primary.Delegation{
		ID:               r.ID,
		Requisitions:     coredelegation.SplitRequisitions(r.Requisitions),
		WorkOrderCode:    r.WorkOrderCode,
		CollaboratorID:   r.CollaboratorID,
		CollaboratorName: r.CollaboratorName,
		StartDate:        r.StartDate,
		Status:           r.Status,
		StatusLabel:      coredelegation.Status(r.Status).Label(),
		Grade:            r.Grade,
		Criterion:        r.Criterion,
	}
	if r.EndDate != nil {
		d.EndDate = *r.EndDate
	}
	return d
}

// Ensure DelegationServiceImpl implements the interface
var _ primary.DelegationService = (*DelegationServiceImpl)(nil)

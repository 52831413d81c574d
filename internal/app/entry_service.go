package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/horas/internal/apperr"
	coredelegation "github.com/example/horas/internal/core/delegation"
	coreentry "github.com/example/horas/internal/core/entry"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// EntryServiceImpl implements the EntryService interface.
type EntryServiceImpl struct {
	tx             secondary.Transactor
	entryRepo      secondary.EntryRepository
	delegationRepo secondary.DelegationRepository
	generator      *DerivedGenerator
	normalizer     timeunit.Normalizer
	newBatchID     func() string
	log            *slog.Logger
}

// NewEntryService creates a new EntryService with injected dependencies.
func NewEntryService(
	tx secondary.Transactor,
	entryRepo secondary.EntryRepository,
	delegationRepo secondary.DelegationRepository,
	generator *DerivedGenerator,
	normalizer timeunit.Normalizer,
	log *slog.Logger,
) *EntryServiceImpl {
	return &EntryServiceImpl{
		tx:             tx,
		entryRepo:      entryRepo,
		delegationRepo: delegationRepo,
		generator:      generator,
		normalizer:     normalizer,
		newBatchID:     uuid.NewString,
		log:            log,
	}
}

// Submit normalizes and stores one batch of entries.
func (s *EntryServiceImpl) Submit(ctx context.Context, req primary.SubmitEntriesRequest) (*primary.SubmitEntriesResponse, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.OwnerID == 0 {
		req.OwnerID = r.ID
	}
	if !r.IsAdmin() && req.OwnerID != r.ID {
		return nil, apperr.Permission("collaborator %d cannot log time for %d", r.ID, req.OwnerID)
	}
	if len(req.Rows) == 0 {
		return nil, apperr.Validation(apperr.ErrEmptyBatch, "no entries submitted")
	}
	if strings.TrimSpace(req.WorkOrderCode) == "" {
		return nil, apperr.Validation(apperr.ErrMissingField, "work order code is required")
	}

	spans, err := s.normalizeRows(req.Rows)
	if err != nil {
		return nil, err
	}

	resp := &primary.SubmitEntriesResponse{BatchID: s.newBatchID()}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkDelegation(ctx, req.DelegationID); err != nil {
			return err
		}
		for _, span := range spans {
			rec := &secondary.EntryRecord{
				CollaboratorID:  req.OwnerID,
				BatchID:         resp.BatchID,
				Date:            span.Date,
				PlanItemCode:    strings.TrimSpace(req.PlanItemCode),
				WorkOrderCode:   strings.TrimSpace(req.WorkOrderCode),
				Activity:        strings.TrimSpace(req.Activity),
				StartTime:       span.Start,
				EndTime:         span.End,
				Duration:        span.HHMM,
				DurationMinutes: span.Minutes,
				DelegationID:    req.DelegationID,
				Note:            coreentry.NormalizeNote(req.Note),
			}
			if err := s.entryRepo.Create(ctx, rec); err != nil {
				return err
			}
			if _, err := s.generator.Generate(ctx, rec, req.ExtraParticipants, req.Derived); err != nil {
				return err
			}
			resp.EntryIDs = append(resp.EntryIDs, rec.ID)
			resp.TotalMinutes += span.Minutes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Total = timeunit.FormatHHMM(resp.TotalMinutes)
	s.log.Info("entries submitted",
		"owner", req.OwnerID, "batch", resp.BatchID, "entries", len(resp.EntryIDs), "minutes", resp.TotalMinutes)
	return resp, nil
}

// GetEntry retrieves a single entry.
func (s *EntryServiceImpl) GetEntry(ctx context.Context, id int64) (*primary.Entry, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	guard := coreentry.CanEditGroup(coreentry.OwnershipContext{
		EntryID: id, OwnerID: rec.CollaboratorID, RequesterID: r.ID, RequesterAdmin: r.IsAdmin(),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	return recordToEntry(rec), nil
}

// ListEntries lists entries, newest first. Non-admins only see their own.
func (s *EntryServiceImpl) ListEntries(ctx context.Context, filters primary.EntryFilters) ([]*primary.Entry, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !r.IsAdmin() {
		filters.CollaboratorID = r.ID
	}
	if filters.Month < 0 || filters.Month > 12 {
		return nil, apperr.Validation(apperr.ErrInvalidPeriod, "month %d is not between 1 and 12", filters.Month)
	}

	records, err := s.entryRepo.List(ctx, secondary.EntryFilters{
		CollaboratorID: filters.CollaboratorID,
		Month:          filters.Month,
		Limit:          filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	entries := make([]*primary.Entry, len(records))
	for i, rec := range records {
		entries[i] = recordToEntry(rec)
	}
	return entries, nil
}

// DeleteEntry removes an entry owned by the requester, or any entry for admins.
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, id int64) error {
	r, err := requesterFrom(ctx)
	if err != nil {
		return err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.entryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		guard := coreentry.CanDeleteEntry(coreentry.OwnershipContext{
			EntryID: id, OwnerID: rec.CollaboratorID, RequesterID: r.ID, RequesterAdmin: r.IsAdmin(),
		})
		if err := guard.Error(); err != nil {
			return err
		}
		return s.entryRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("entry deleted", "entry", id, "requester", r.ID)
	return nil
}

// LoadGroup returns the entries submitted together with entryID.
func (s *EntryServiceImpl) LoadGroup(ctx context.Context, entryID int64) (*primary.EntryGroup, error) {
	r, err := requesterFrom(ctx)
	if err != nil {
		return nil, err
	}
	anchor, members, err := s.loadGroup(ctx, entryID)
	if err != nil {
		return nil, err
	}
	guard := coreentry.CanEditGroup(coreentry.OwnershipContext{
		EntryID: entryID, OwnerID: anchor.CollaboratorID, RequesterID: r.ID, RequesterAdmin: r.IsAdmin(),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	group := &primary.EntryGroup{AnchorID: anchor.ID, OwnerID: anchor.CollaboratorID, BatchID: anchor.BatchID}
	for _, m := range members {
		group.Entries = append(group.Entries, recordToEntry(m))
	}
	return group, nil
}

// Reconcile replaces the group of req.AnchorID with the submitted rows:
// rows with an id are updated, rows without one are inserted and group
// members missing from the submission are deleted.
func (s *EntryServiceImpl) Reconcile(ctx context.Context, req primary.ReconcileRequest) error {
	r, err := requesterFrom(ctx)
	if err != nil {
		return err
	}
	if len(req.Rows) == 0 {
		return apperr.Validation(apperr.ErrEmptyEdit, "edit has no rows")
	}
	if strings.TrimSpace(req.WorkOrderCode) == "" {
		return apperr.Validation(apperr.ErrMissingField, "work order code is required")
	}

	spans, err := s.normalizeRows(req.Rows)
	if err != nil {
		return err
	}

	var stats struct{ updated, inserted, deleted int }
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		anchor, members, err := s.loadGroup(ctx, req.AnchorID)
		if err != nil {
			return err
		}
		owner := anchor.CollaboratorID
		guard := coreentry.CanEditGroup(coreentry.OwnershipContext{
			EntryID: anchor.ID, OwnerID: owner, RequesterID: r.ID, RequesterAdmin: r.IsAdmin(),
		})
		if err := guard.Error(); err != nil {
			return err
		}
		if req.OwnerID != 0 && req.OwnerID != owner {
			return apperr.Validation(apperr.ErrForeignEntry, "group of entry %d belongs to collaborator %d", anchor.ID, owner)
		}
		if req.DelegationID != anchor.DelegationID {
			if err := s.checkDelegation(ctx, req.DelegationID); err != nil {
				return err
			}
		}

		groupIDs := make([]int64, len(members))
		byID := make(map[int64]*secondary.EntryRecord, len(members))
		for i, m := range members {
			groupIDs[i] = m.ID
			byID[m.ID] = m
		}
		submitted := make([]int64, len(req.Rows))
		for i, row := range req.Rows {
			submitted[i] = row.EntryID
		}
		plan, err := coreentry.PlanReconcile(groupIDs, submitted)
		if err != nil {
			return err
		}

		// Batchless groups get a batch id so they stop depending on the tuple.
		batchID := anchor.BatchID
		if batchID == "" {
			batchID = s.newBatchID()
		}
		apply := func(rec *secondary.EntryRecord, span timeunit.Span) {
			rec.BatchID = batchID
			rec.Date = span.Date
			rec.PlanItemCode = strings.TrimSpace(req.PlanItemCode)
			rec.WorkOrderCode = strings.TrimSpace(req.WorkOrderCode)
			rec.Activity = strings.TrimSpace(req.Activity)
			rec.StartTime = span.Start
			rec.EndTime = span.End
			rec.Duration = span.HHMM
			rec.DurationMinutes = span.Minutes
			rec.DelegationID = req.DelegationID
			rec.Note = coreentry.NormalizeNote(req.Note)
		}

		for _, i := range plan.Update {
			rec := byID[req.Rows[i].EntryID]
			apply(rec, spans[i])
			if err := s.entryRepo.Update(ctx, rec); err != nil {
				return err
			}
		}
		for _, i := range plan.Insert {
			rec := &secondary.EntryRecord{CollaboratorID: owner}
			apply(rec, spans[i])
			if err := s.entryRepo.Create(ctx, rec); err != nil {
				return err
			}
		}
		for _, id := range plan.Delete {
			if err := s.entryRepo.Delete(ctx, id); err != nil {
				return err
			}
		}
		stats.updated, stats.inserted, stats.deleted = len(plan.Update), len(plan.Insert), len(plan.Delete)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("entry group reconciled", "anchor", req.AnchorID,
		"updated", stats.updated, "inserted", stats.inserted, "deleted", stats.deleted)
	return nil
}

// loadGroup resolves the anchor and its siblings ordered by start time.
func (s *EntryServiceImpl) loadGroup(ctx context.Context, anchorID int64) (*secondary.EntryRecord, []*secondary.EntryRecord, error) {
	anchor, err := s.entryRepo.GetByID(ctx, anchorID)
	if err != nil {
		if apperr.KindOf(err) == apperr.ErrNotFound {
			return nil, nil, apperr.New(apperr.ErrNotFound, apperr.ErrGroupNotFound, "no entry group for entry %d", anchorID)
		}
		return nil, nil, err
	}

	var members []*secondary.EntryRecord
	if anchor.BatchID != "" {
		members, err = s.entryRepo.ListByBatch(ctx, anchor.CollaboratorID, anchor.BatchID)
	} else {
		members, err = s.entryRepo.ListByTuple(ctx, secondary.EntryTuple{
			OwnerID:       anchor.CollaboratorID,
			Date:          anchor.Date,
			WorkOrderCode: anchor.WorkOrderCode,
			Activity:      anchor.Activity,
			Note:          anchor.Note,
		})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entry group: %w", err)
	}
	if len(members) == 0 {
		return nil, nil, apperr.New(apperr.ErrNotFound, apperr.ErrGroupNotFound, "no entry group for entry %d", anchorID)
	}

	order := make([]coreentry.Member, len(members))
	byID := make(map[int64]*secondary.EntryRecord, len(members))
	for i, m := range members {
		order[i] = coreentry.Member{ID: m.ID, Start: m.Date + " " + m.StartTime}
		byID[m.ID] = m
	}
	coreentry.SortMembers(order)
	sorted := make([]*secondary.EntryRecord, len(order))
	for i, m := range order {
		sorted[i] = byID[m.ID]
	}
	return anchor, sorted, nil
}

// normalizeRows validates every row before anything is written.
func (s *EntryServiceImpl) normalizeRows(rows []primary.EntryRow) ([]timeunit.Span, error) {
	spans := make([]timeunit.Span, len(rows))
	var rowErrs []apperr.RowError
	for i, row := range rows {
		span, err := s.normalizer.Normalize(row.Date, row.StartTime, row.EndTime)
		if err != nil {
			rowErrs = append(rowErrs, apperr.RowError{Row: i, Err: err})
			continue
		}
		spans[i] = span
	}
	if len(rowErrs) > 0 {
		return nil, apperr.RowsInvalid(rowErrs)
	}
	return spans, nil
}

func (s *EntryServiceImpl) checkDelegation(ctx context.Context, delegationID int64) error {
	if delegationID == 0 {
		return nil
	}
	d, err := s.delegationRepo.GetByID(ctx, delegationID)
	if err != nil {
		return err
	}
	return coredelegation.CanLinkEntry(d.ID, coredelegation.Status(d.Status)).Error()
}

func recordToEntry(r *secondary.EntryRecord) *primary.Entry {
	return &primary.Entry{
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

// Ensure EntryServiceImpl implements the interface
var _ primary.EntryService = (*EntryServiceImpl)(nil)

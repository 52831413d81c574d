package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/core/derived"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/ports/secondary"
)

// DerivedGenerator creates the mirrored entries and the service or
// consultation record that follow a primary entry on a recognized work order.
// It must be called inside the submission transaction.
type DerivedGenerator struct {
	policy           derived.Policy
	entryRepo        secondary.EntryRepository
	collaboratorRepo secondary.CollaboratorRepository
	workOrderRepo    secondary.WorkOrderRepository
	derivedRepo      secondary.DerivedRecordRepository
}

// NewDerivedGenerator creates a generator bound to the recognized-code policy.
func NewDerivedGenerator(
	policy derived.Policy,
	entryRepo secondary.EntryRepository,
	collaboratorRepo secondary.CollaboratorRepository,
	workOrderRepo secondary.WorkOrderRepository,
	derivedRepo secondary.DerivedRecordRepository,
) *DerivedGenerator {
	return &DerivedGenerator{
		policy:           policy,
		entryRepo:        entryRepo,
		collaboratorRepo: collaboratorRepo,
		workOrderRepo:    workOrderRepo,
		derivedRepo:      derivedRepo,
	}
}

// GenerationResult reports what was created for one primary entry.
type GenerationResult struct {
	MirrorIDs      []int64
	ServiceID      int64
	ConsultationID int64
}

// Generate runs the derived-record rules for a freshly created primary entry.
func (g *DerivedGenerator) Generate(ctx context.Context, entry *secondary.EntryRecord, participants []int64, fields *primary.DerivedFields) (*GenerationResult, error) {
	result := &GenerationResult{}
	rule := g.policy.Lookup(entry.WorkOrderCode)
	if rule.Kind == derived.KindNone {
		return result, nil
	}

	resolved, err := g.resolveNames(ctx, participants)
	if err != nil {
		return nil, err
	}

	for _, id := range derived.MirrorTargets(entry.CollaboratorID, participants, resolved) {
		mirror := &secondary.EntryRecord{
			CollaboratorID:  id,
			BatchID:         entry.BatchID,
			Date:            entry.Date,
			PlanItemCode:    entry.PlanItemCode,
			WorkOrderCode:   entry.WorkOrderCode,
			Activity:        entry.Activity,
			StartTime:       entry.StartTime,
			EndTime:         entry.EndTime,
			Duration:        entry.Duration,
			DurationMinutes: entry.DurationMinutes,
			Note:            derived.MirrorNote(rule, entry.WorkOrderCode),
		}
		if err := g.entryRepo.Create(ctx, mirror); err != nil {
			return nil, fmt.Errorf("failed to create mirrored entry: %w", err)
		}
		result.MirrorIDs = append(result.MirrorIDs, mirror.ID)
	}

	f := toPolicyFields(fields)
	if !f.Supplied(rule.Kind) {
		return result, nil
	}

	summary, err := g.workOrderSummary(ctx, entry.WorkOrderCode)
	if err != nil {
		return nil, err
	}
	responsible := derived.ResponsibleNames(participants, resolved)

	switch rule.Kind {
	case derived.KindService:
		rec := &secondary.ServiceRecord{
			EntryID:              entry.ID,
			CollaboratorID:       entry.CollaboratorID,
			WorkOrderCode:        entry.WorkOrderCode,
			WorkOrderSummary:     summary,
			Responsible:          responsible,
			Macro:                f.Macro,
			Directorate:          f.Directorate,
			Activity:             f.Activity,
			ConsultedOn:          f.ConsultedOn,
			Topic:                f.Topic,
			ExternalParticipants: f.ExternalParticipants,
			Organizations:        derived.JoinNonEmpty(f.Organizations),
			Channel:              f.Channel,
			Observation:          f.Observation,
			DurationMinutes:      entry.DurationMinutes,
			EntryDate:            entry.Date,
		}
		if err := g.derivedRepo.CreateService(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to create service record: %w", err)
		}
		result.ServiceID = rec.ID
	case derived.KindConsultation:
		rec := &secondary.ConsultationRecord{
			EntryID:          entry.ID,
			CollaboratorID:   entry.CollaboratorID,
			WorkOrderCode:    entry.WorkOrderCode,
			WorkOrderSummary: summary,
			Responsible:      responsible,
			Kind:             rule.Subtype,
			ConsultedOn:      f.ConsultedOn,
			Topic:            f.Topic,
			Departments:      derived.JoinNonEmpty(f.Organizations),
			Channel:          f.Channel,
			Keywords:         f.Keywords,
			OfficialLetter:   f.OfficialLetter,
			Observation:      f.Observation,
			DurationMinutes:  entry.DurationMinutes,
			EntryDate:        entry.Date,
		}
		if err := g.derivedRepo.CreateConsultation(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to create consultation record: %w", err)
		}
		result.ConsultationID = rec.ID
	}
	return result, nil
}

// resolveNames maps participant ids to names; unknown ids are left out.
func (g *DerivedGenerator) resolveNames(ctx context.Context, participants []int64) (map[int64]string, error) {
	names := map[int64]string{}
	if len(participants) == 0 {
		return names, nil
	}
	found, err := g.collaboratorRepo.GetByIDs(ctx, participants)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve participants: %w", err)
	}
	for id, c := range found {
		names[id] = c.Name
	}
	return names, nil
}

func (g *DerivedGenerator) workOrderSummary(ctx context.Context, code string) (string, error) {
	wo, err := g.workOrderRepo.GetByCode(ctx, code)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read work order summary: %w", err)
	}
	return wo.Summary, nil
}

func toPolicyFields(f *primary.DerivedFields) derived.Fields {
	if f == nil {
		return derived.Fields{}
	}
	return derived.Fields{
		ConsultedOn:          f.ConsultedOn,
		Topic:                f.Topic,
		Macro:                f.Macro,
		Directorate:          f.Directorate,
		Activity:             f.Activity,
		ExternalParticipants: f.ExternalParticipants,
		Organizations:        f.Organizations,
		Channel:              f.Channel,
		Keywords:             f.Keywords,
		OfficialLetter:       f.OfficialLetter,
		Observation:          f.Observation,
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/ports/secondary"
)

// DerivedRecordRepository implements secondary.DerivedRecordRepository.
type DerivedRecordRepository struct {
	s *Store
}

// NewDerivedRecordRepository creates a new service/consultation record repository.
func NewDerivedRecordRepository(s *Store) *DerivedRecordRepository {
	return &DerivedRecordRepository{s: s}
}

type serviceRow struct {
	ID                   int64  `db:"id"`
	EntryID              int64  `db:"entry_id"`
	CollaboratorID       int64  `db:"collaborator_id"`
	WorkOrderCode        string `db:"work_order_code"`
	WorkOrderSummary     string `db:"work_order_summary"`
	Responsible          string `db:"responsible"`
	Macro                string `db:"macro"`
	Directorate          string `db:"directorate"`
	Activity             string `db:"activity"`
	ConsultedOn          string `db:"consulted_on"`
	Topic                string `db:"topic"`
	ExternalParticipants string `db:"external_participants"`
	Organizations        string `db:"organizations"`
	Channel              string `db:"channel"`
	Observation          string `db:"observation"`
	DurationMinutes      int    `db:"duration_minutes"`
	EntryDate            string `db:"entry_date"`
}

type consultationRow struct {
	ID               int64  `db:"id"`
	EntryID          int64  `db:"entry_id"`
	CollaboratorID   int64  `db:"collaborator_id"`
	WorkOrderCode    string `db:"work_order_code"`
	WorkOrderSummary string `db:"work_order_summary"`
	Responsible      string `db:"responsible"`
	Kind             string `db:"kind"`
	ConsultedOn      string `db:"consulted_on"`
	Topic            string `db:"topic"`
	Departments      string `db:"departments"`
	Channel          string `db:"channel"`
	Keywords         string `db:"keywords"`
	OfficialLetter   string `db:"official_letter"`
	Observation      string `db:"observation"`
	DurationMinutes  int    `db:"duration_minutes"`
	EntryDate        string `db:"entry_date"`
}

// CreateService persists a service record.
func (r *DerivedRecordRepository) CreateService(ctx context.Context, rec *secondary.ServiceRecord) error {
	id, err := r.s.insertID(ctx, `INSERT INTO service_records
		(entry_id, collaborator_id, work_order_code, work_order_summary, responsible,
		 macro, directorate, activity, consulted_on, topic, external_participants,
		 organizations, channel, observation, duration_minutes, entry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.EntryID, rec.CollaboratorID, rec.WorkOrderCode, rec.WorkOrderSummary, rec.Responsible,
		rec.Macro, rec.Directorate, rec.Activity, rec.ConsultedOn, rec.Topic, rec.ExternalParticipants,
		rec.Organizations, rec.Channel, rec.Observation, rec.DurationMinutes, rec.EntryDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create service record: %w", err)
	}
	rec.ID = id
	return nil
}

// CreateConsultation persists a consultation record.
func (r *DerivedRecordRepository) CreateConsultation(ctx context.Context, rec *secondary.ConsultationRecord) error {
	id, err := r.s.insertID(ctx, `INSERT INTO consultation_records
		(entry_id, collaborator_id, work_order_code, work_order_summary, responsible,
		 kind, consulted_on, topic, departments, channel, keywords, official_letter,
		 observation, duration_minutes, entry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.EntryID, rec.CollaboratorID, rec.WorkOrderCode, rec.WorkOrderSummary, rec.Responsible,
		rec.Kind, rec.ConsultedOn, rec.Topic, rec.Departments, rec.Channel, rec.Keywords, rec.OfficialLetter,
		rec.Observation, rec.DurationMinutes, rec.EntryDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation record: %w", err)
	}
	rec.ID = id
	return nil
}

// GetServiceByEntry retrieves the service record attached to an entry.
func (r *DerivedRecordRepository) GetServiceByEntry(ctx context.Context, entryID int64) (*secondary.ServiceRecord, error) {
	var row serviceRow
	err := r.s.get(ctx, &row, "SELECT * FROM service_records WHERE entry_id = ?", entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no service record for entry %d", entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service record: %w", err)
	}
	rec := secondary.ServiceRecord(row)
	return &rec, nil
}

// GetConsultationByEntry retrieves the consultation record attached to an entry.
func (r *DerivedRecordRepository) GetConsultationByEntry(ctx context.Context, entryID int64) (*secondary.ConsultationRecord, error) {
	var row consultationRow
	err := r.s.get(ctx, &row, "SELECT * FROM consultation_records WHERE entry_id = ?", entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("no consultation record for entry %d", entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consultation record: %w", err)
	}
	rec := secondary.ConsultationRecord(row)
	return &rec, nil
}

// CountServices returns the number of service records.
func (r *DerivedRecordRepository) CountServices(ctx context.Context) (int, error) {
	var n int
	if err := r.s.get(ctx, &n, "SELECT COUNT(*) FROM service_records"); err != nil {
		return 0, fmt.Errorf("failed to count service records: %w", err)
	}
	return n, nil
}

// CountConsultations returns the number of consultation records.
func (r *DerivedRecordRepository) CountConsultations(ctx context.Context) (int, error) {
	var n int
	if err := r.s.get(ctx, &n, "SELECT COUNT(*) FROM consultation_records"); err != nil {
		return 0, fmt.Errorf("failed to count consultation records: %w", err)
	}
	return n, nil
}

// DeleteByCollaborator removes every derived record of a collaborator.
func (r *DerivedRecordRepository) DeleteByCollaborator(ctx context.Context, collaboratorID int64) error {
	if _, err := r.s.exec(ctx, "DELETE FROM service_records WHERE collaborator_id = ?", collaboratorID); err != nil {
		return fmt.Errorf("failed to delete service records: %w", err)
	}
	if _, err := r.s.exec(ctx, "DELETE FROM consultation_records WHERE collaborator_id = ?", collaboratorID); err != nil {
		return fmt.Errorf("failed to delete consultation records: %w", err)
	}
	return nil
}

// RenameWorkOrderCode rewrites the work order code of derived records.
// The summary snapshot is left as it was.
func (r *DerivedRecordRepository) RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) error {
	for _, table := range []string{"service_records", "consultation_records"} {
		q := fmt.Sprintf("UPDATE %s SET work_order_code = ? WHERE work_order_code = ?", table)
		if _, err := r.s.exec(ctx, q, newCode, oldCode); err != nil {
			return fmt.Errorf("failed to rename work order code on %s: %w", table, err)
		}
	}
	return nil
}

// RenameResponsible replaces a collaborator name inside responsible lists.
func (r *DerivedRecordRepository) RenameResponsible(ctx context.Context, oldName, newName string) error {
	if oldName == "" || oldName == newName {
		return nil
	}
	for _, table := range []string{"service_records", "consultation_records"} {
		q := fmt.Sprintf("UPDATE %s SET responsible = REPLACE(responsible, ?, ?) WHERE responsible LIKE ?", table)
		if _, err := r.s.exec(ctx, q, oldName, newName, "%"+oldName+"%"); err != nil {
			return fmt.Errorf("failed to rename responsible on %s: %w", table, err)
		}
	}
	return nil
}

// Ensure DerivedRecordRepository implements the interface.
var _ secondary.DerivedRecordRepository = (*DerivedRecordRepository)(nil)

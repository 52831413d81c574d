package primary

import "context"

// EntryService defines the primary port for the time entry ledger.
// The requester is read from the context (see ctxutil.WithRequester).
type EntryService interface {
	// Submit normalizes and stores one batch of entries, plus any derived records.
	Submit(ctx context.Context, req SubmitEntriesRequest) (*SubmitEntriesResponse, error)

	// GetEntry retrieves a single entry.
	GetEntry(ctx context.Context, id int64) (*Entry, error)

	// ListEntries lists entries, newest first.
	ListEntries(ctx context.Context, filters EntryFilters) ([]*Entry, error)

	// DeleteEntry removes an entry owned by the requester (or any entry for admins).
	DeleteEntry(ctx context.Context, id int64) error

	// LoadGroup returns the entries submitted together with the given one.
	LoadGroup(ctx context.Context, entryID int64) (*EntryGroup, error)

	// Reconcile replaces a group with the submitted rows.
	Reconcile(ctx context.Context, req ReconcileRequest) error
}

// EntryRow is one submitted time interval.
type EntryRow struct {
	EntryID   int64  `json:"entry_id"` // reconcile only, 0 = new row
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DerivedFields carries the optional descriptive fields of service and
// consultation records.
type DerivedFields struct {
	ConsultedOn          string   `json:"consulted_on"`
	Topic                string   `json:"topic"`
	Macro                string   `json:"macro"`
	Directorate          string   `json:"directorate"`
	Activity             string   `json:"activity"`
	ExternalParticipants string   `json:"external_participants"`
	Organizations        []string `json:"organizations"`
	Channel              string   `json:"channel"`
	Keywords             string   `json:"keywords"`
	OfficialLetter       string   `json:"official_letter"`
	Observation          string   `json:"observation"`
}

// SubmitEntriesRequest contains the parameters of a submission.
type SubmitEntriesRequest struct {
	OwnerID           int64          `json:"owner_id"`
	WorkOrderCode     string         `json:"work_order_code"`
	PlanItemCode      string         `json:"plan_item_code"`
	Activity          string         `json:"activity"`
	DelegationID      int64          `json:"delegation_id"` // 0 = none
	Note              string         `json:"note"`
	Rows              []EntryRow     `json:"rows"`
	ExtraParticipants []int64        `json:"extra_participants"`
	Derived           *DerivedFields `json:"derived"`
}

// SubmitEntriesResponse contains the result of a submission.
type SubmitEntriesResponse struct {
	BatchID      string  `json:"batch_id"`
	EntryIDs     []int64 `json:"entry_ids"`
	TotalMinutes int     `json:"total_minutes"`
	Total        string  `json:"total"`
}

// ReconcileRequest contains the resubmitted rows of an entry group.
// AnchorID is any entry of the group being edited.
type ReconcileRequest struct {
	AnchorID      int64      `json:"anchor_id"`
	OwnerID       int64      `json:"owner_id"`
	WorkOrderCode string     `json:"work_order_code"`
	PlanItemCode  string     `json:"plan_item_code"`
	Activity      string     `json:"activity"`
	DelegationID  int64      `json:"delegation_id"`
	Note          string     `json:"note"`
	Rows          []EntryRow `json:"rows"`
}

// EntryFilters contains filter options for listing entries.
type EntryFilters struct {
	CollaboratorID int64 `json:"collaborator_id"`
	Month          int   `json:"month"`
	Limit          int   `json:"limit"` // 0 = all
}

// Entry represents a time entry at the port boundary.
type Entry struct {
	ID               int64  `json:"id"`
	CollaboratorID   int64  `json:"collaborator_id"`
	CollaboratorName string `json:"collaborator_name"`
	BatchID          string `json:"batch_id"`
	Date             string `json:"date"`
	PlanItemCode     string `json:"plan_item_code"`
	WorkOrderCode    string `json:"work_order_code"`
	Activity         string `json:"activity"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Duration         string `json:"duration"`
	DurationMinutes  int    `json:"duration_minutes"`
	DelegationID     int64  `json:"delegation_id"`
	Note             string `json:"note"`
}

// EntryGroup is an anchor entry with its siblings, ordered by start time.
type EntryGroup struct {
	AnchorID int64    `json:"anchor_id"`
	OwnerID  int64    `json:"owner_id"`
	BatchID  string   `json:"batch_id"`
	Entries  []*Entry `json:"entries"`
}

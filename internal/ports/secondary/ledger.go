package secondary

import "context"

// EntryRepository defines the secondary port for time entry persistence.
type EntryRepository interface {
	// Create persists a new entry and sets its ID.
	Create(ctx context.Context, entry *EntryRecord) error

	// GetByID retrieves an entry by its ID.
	GetByID(ctx context.Context, id int64) (*EntryRecord, error)

	// Update rewrites the mutable fields of an existing entry.
	Update(ctx context.Context, entry *EntryRecord) error

	// Delete removes an entry from persistence.
	Delete(ctx context.Context, id int64) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters EntryFilters) ([]*EntryRecord, error)

	// ListByBatch retrieves the entries of one submission, ordered by start time.
	ListByBatch(ctx context.Context, ownerID int64, batchID string) ([]*EntryRecord, error)

	// ListByTuple retrieves batchless entries sharing the legacy sibling tuple.
	ListByTuple(ctx context.Context, tuple EntryTuple) ([]*EntryRecord, error)

	// ListByDelegation retrieves the entries linked to a delegation.
	ListByDelegation(ctx context.Context, delegationID int64) ([]*EntryRecord, error)

	// Count returns the number of entries.
	Count(ctx context.Context) (int, error)

	// CountByCollaborator returns the number of entries owned by a collaborator.
	CountByCollaborator(ctx context.Context, collaboratorID int64) (int, error)

	// LatestDateForDelegation returns the latest entry date linked to a
	// delegation, or "" when none is linked.
	LatestDateForDelegation(ctx context.Context, delegationID int64) (string, error)

	// RenamePlanItemCode rewrites every entry referencing oldCode.
	RenamePlanItemCode(ctx context.Context, oldCode, newCode string) (int64, error)

	// RenameWorkOrderCode rewrites every entry referencing oldCode.
	RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) (int64, error)

	// SetWorkOrderForDelegation rewrites the work order of entries linked to a delegation.
	SetWorkOrderForDelegation(ctx context.Context, delegationID int64, code string) error

	// UnlinkDelegation clears the delegation reference of linked entries.
	UnlinkDelegation(ctx context.Context, delegationID int64) error

	// UnlinkDelegationsOf clears references to any delegation owned by a collaborator.
	UnlinkDelegationsOf(ctx context.Context, collaboratorID int64) error
}

// EntryRecord represents a time entry as stored in persistence.
type EntryRecord struct {
	ID               int64
	CollaboratorID   int64
	CollaboratorName string // read-only, filled by listings
	BatchID          string // empty for entries created before batch ids existed
	Date             string
	PlanItemCode     string
	WorkOrderCode    string
	Activity         string
	StartTime        string
	EndTime          string
	Duration         string
	DurationMinutes  int
	DelegationID     int64 // 0 = no delegation
	Note             string
}

// EntryTuple is the legacy sibling key.
type EntryTuple struct {
	OwnerID       int64
	Date          string
	WorkOrderCode string
	Activity      string
	Note          string
}

// EntryFilters contains filter options for querying entries.
type EntryFilters struct {
	CollaboratorID int64
	Month          int // 1-12, 0 = any
	Limit          int // 0 = no limit
}

// DerivedRecordRepository defines the secondary port for service and consultation records.
type DerivedRecordRepository interface {
	// CreateService persists a service record and sets its ID.
	CreateService(ctx context.Context, rec *ServiceRecord) error

	// CreateConsultation persists a consultation record and sets its ID.
	CreateConsultation(ctx context.Context, rec *ConsultationRecord) error

	// GetServiceByEntry retrieves the service record attached to an entry.
	GetServiceByEntry(ctx context.Context, entryID int64) (*ServiceRecord, error)

	// GetConsultationByEntry retrieves the consultation record attached to an entry.
	GetConsultationByEntry(ctx context.Context, entryID int64) (*ConsultationRecord, error)

	// CountServices returns the number of service records.
	CountServices(ctx context.Context) (int, error)

	// CountConsultations returns the number of consultation records.
	CountConsultations(ctx context.Context) (int, error)

	// DeleteByCollaborator removes every derived record of a collaborator.
	DeleteByCollaborator(ctx context.Context, collaboratorID int64) error

	// RenameWorkOrderCode rewrites the work order code of derived records.
	RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) error

	// RenameResponsible replaces a collaborator name inside responsible lists.
	RenameResponsible(ctx context.Context, oldName, newName string) error
}

// ServiceRecord represents a service ("atendimento") record.
type ServiceRecord struct {
	ID                   int64
	EntryID              int64
	CollaboratorID       int64
	WorkOrderCode        string
	WorkOrderSummary     string
	Responsible          string
	Macro                string
	Directorate          string
	Activity             string
	ConsultedOn          string
	Topic                string
	ExternalParticipants string
	Organizations        string
	Channel              string
	Observation          string
	DurationMinutes      int
	EntryDate            string
}

// ConsultationRecord represents a consultation or training record.
type ConsultationRecord struct {
	ID               int64
	EntryID          int64
	CollaboratorID   int64
	WorkOrderCode    string
	WorkOrderSummary string
	Responsible      string
	Kind             string
	ConsultedOn      string
	Topic            string
	Departments      string
	Channel          string
	Keywords         string
	OfficialLetter   string
	Observation      string
	DurationMinutes  int
	EntryDate        string
}

// DelegationRepository defines the secondary port for delegation persistence.
type DelegationRepository interface {
	// Create persists a new delegation and sets its ID.
	Create(ctx context.Context, d *DelegationRecord) error

	// GetByID retrieves a delegation by its ID.
	GetByID(ctx context.Context, id int64) (*DelegationRecord, error)

	// Update rewrites every mutable field of a delegation.
	Update(ctx context.Context, d *DelegationRecord) error

	// UpdateStatus sets status and end date (nil clears it).
	UpdateStatus(ctx context.Context, id int64, status string, endDate *string) error

	// Delete removes a delegation.
	Delete(ctx context.Context, id int64) error

	// List retrieves delegations matching the given filters, newest first.
	List(ctx context.Context, filters DelegationFilters) ([]*DelegationRecord, error)

	// RenameWorkOrderCode rewrites every delegation referencing oldCode.
	RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) (int64, error)

	// DeleteByCollaborator removes every delegation owned by a collaborator.
	DeleteByCollaborator(ctx context.Context, collaboratorID int64) error
}

// DelegationRecord represents a delegation as stored in persistence.
type DelegationRecord struct {
	ID               int64
	Requisitions     string
	WorkOrderCode    string
	CollaboratorID   int64
	CollaboratorName string // read-only, filled by reads
	StartDate        string
	Status           string
	Grade            string
	Criterion        string
	EndDate          *string
}

// DelegationFilters contains filter options for querying delegations.
type DelegationFilters struct {
	CollaboratorID int64
	Status         string
	Limit          int
}

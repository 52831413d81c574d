package secondary

import "context"

// CollaboratorRepository defines the secondary port for collaborator persistence.
type CollaboratorRepository interface {
	Create(ctx context.Context, c *CollaboratorRecord) error
	GetByID(ctx context.Context, id int64) (*CollaboratorRecord, error)
	GetByLogin(ctx context.Context, login string) (*CollaboratorRecord, error)
	// GetByIDs returns the collaborators that exist among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*CollaboratorRecord, error)
	Update(ctx context.Context, c *CollaboratorRecord) error
	SetPassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	// List returns every collaborator with its logged minutes.
	List(ctx context.Context) ([]*CollaboratorRecord, error)
}

// CollaboratorRecord represents a collaborator as stored in persistence.
type CollaboratorRecord struct {
	ID           int64
	Name         string
	Login        string
	PasswordHash string
	Role         string
	TotalMinutes int // read-only, filled by List
}

// PlanItemRepository defines the secondary port for plan item persistence.
type PlanItemRepository interface {
	Create(ctx context.Context, p *PlanItemRecord) error
	GetByID(ctx context.Context, id int64) (*PlanItemRecord, error)
	GetByCode(ctx context.Context, code string) (*PlanItemRecord, error)
	Update(ctx context.Context, p *PlanItemRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*PlanItemRecord, error)
	// RenameCode changes the code of the plan item holding oldCode.
	RenameCode(ctx context.Context, oldCode, newCode string) error
}

// PlanItemRecord represents a plan item as stored in persistence.
type PlanItemRecord struct {
	ID             int64
	Code           string
	Classification string
	ActivityType   string
	Object         string
	Goal           string
	StartDate      string
	EndDate        string
	PlannedHours   float64
}

// WorkOrderRepository defines the secondary port for work order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, w *WorkOrderRecord) error
	GetByID(ctx context.Context, id int64) (*WorkOrderRecord, error)
	GetByCode(ctx context.Context, code string) (*WorkOrderRecord, error)
	Update(ctx context.Context, w *WorkOrderRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filters WorkOrderFilters) ([]*WorkOrderRecord, error)
	// RenameCode changes the code of the work order holding oldCode.
	RenameCode(ctx context.Context, oldCode, newCode string) error
	// RenamePlanItemCode rewrites every work order referencing oldCode.
	RenamePlanItemCode(ctx context.Context, oldCode, newCode string) (int64, error)
}

// WorkOrderRecord represents a work order as stored in persistence.
type WorkOrderRecord struct {
	ID                int64
	Code              string
	PlanItemCode      string
	Summary           string
	Unit              string
	Supervision       string
	Coordination      string
	Team              string
	Observation       string
	Status            string
	Planned           bool
	Executed          bool
	PreliminaryReport bool
	FinalReport       bool
	CompletedOn       string
}

// WorkOrderFilters contains filter options for querying work orders.
type WorkOrderFilters struct {
	PlanItemCode string
}

// ReportRepository defines the read-only secondary port behind reporting.
type ReportRepository interface {
	// Facts returns one (key, date, minutes) row per entry, keyed by dimension.
	Facts(ctx context.Context, filters ReportFilters) ([]FactRecord, error)

	// PlanBudgets returns every plan item with its planned hours.
	PlanBudgets(ctx context.Context) ([]PlanBudgetRecord, error)
}

// Report dimensions.
const (
	DimensionCollaborator = "collaborator"
	DimensionPlanItem     = "plan_item"
	DimensionWorkOrder    = "work_order"
)

// ReportFilters narrows the facts read for a report.
type ReportFilters struct {
	Dimension      string
	CollaboratorID int64
	PlanItemCode   string
	WorkOrderCode  string
	Month          int
}

// FactRecord is one dated contribution.
type FactRecord struct {
	Key     string
	Date    string
	Minutes int
}

// PlanBudgetRecord is a plan item code with its budget.
type PlanBudgetRecord struct {
	Code         string
	PlannedHours float64
}

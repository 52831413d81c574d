package primary

import "context"

// CatalogService defines the primary port for plan items and work orders.
// Mutations are admin only.
type CatalogService interface {
	CreatePlanItem(ctx context.Context, req PlanItem) (*PlanItem, error)
	GetPlanItem(ctx context.Context, code string) (*PlanItem, error)
	ListPlanItems(ctx context.Context) ([]*PlanItem, error)
	// UpdatePlanItem rewrites the plan item with req.ID; a code change cascades.
	UpdatePlanItem(ctx context.Context, req PlanItem) (*PlanItem, error)
	DeletePlanItem(ctx context.Context, code string) error
	// RenamePlanItemCode renames a code in the plan item, its work orders and entries.
	RenamePlanItemCode(ctx context.Context, oldCode, newCode string) error

	CreateWorkOrder(ctx context.Context, req WorkOrder) (*WorkOrder, error)
	GetWorkOrder(ctx context.Context, code string) (*WorkOrder, error)
	ListWorkOrders(ctx context.Context, planItemCode string) ([]*WorkOrder, error)
	// UpdateWorkOrder rewrites the work order with req.ID; a code change cascades.
	UpdateWorkOrder(ctx context.Context, req WorkOrder) (*WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, code string) error
	// RenameWorkOrderCode renames a code in the work order, its entries and delegations.
	RenameWorkOrderCode(ctx context.Context, oldCode, newCode string) error
}

// PlanItem represents a plan item at the port boundary.
type PlanItem struct {
	ID             int64   `json:"id"`
	Code           string  `json:"code"`
	Classification string  `json:"classification"`
	ActivityType   string  `json:"activity_type"`
	Object         string  `json:"object"`
	Goal           string  `json:"goal"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	PlannedHours   float64 `json:"planned_hours"`
}

// WorkOrder represents a work order at the port boundary.
type WorkOrder struct {
	ID                int64  `json:"id"`
	Code              string `json:"code"`
	PlanItemCode      string `json:"plan_item_code"`
	Summary           string `json:"summary"`
	Unit              string `json:"unit"`
	Supervision       string `json:"supervision"`
	Coordination      string `json:"coordination"`
	Team              string `json:"team"`
	Observation       string `json:"observation"`
	Status            string `json:"status"`
	Planned           bool   `json:"planned"`
	Executed          bool   `json:"executed"`
	PreliminaryReport bool   `json:"preliminary_report"`
	FinalReport       bool   `json:"final_report"`
	CompletedOn       string `json:"completed_on"`
}

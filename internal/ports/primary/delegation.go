package primary

import "context"

// DelegationService defines the primary port for the delegation lifecycle.
type DelegationService interface {
	// CreateDelegation assigns requisitions to a collaborator. Admin only.
	CreateDelegation(ctx context.Context, req CreateDelegationRequest) (*Delegation, error)

	// GetDelegation returns a delegation with its linked entries.
	GetDelegation(ctx context.Context, id int64) (*DelegationDetail, error)

	// ListDelegations lists delegations. Non-admins only see their own.
	ListDelegations(ctx context.Context, filters DelegationFilters) ([]*Delegation, error)

	// UpdateDelegation rewrites a delegation. Admin only.
	UpdateDelegation(ctx context.Context, req UpdateDelegationRequest) (*Delegation, error)

	// DeleteDelegation removes a delegation and unlinks its entries. Admin only.
	DeleteDelegation(ctx context.Context, id int64) error

	// ChangeStatus moves a delegation through its lifecycle.
	ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*Delegation, error)
}

// CreateDelegationRequest contains the parameters for creating a delegation.
type CreateDelegationRequest struct {
	Requisitions   []string `json:"requisitions"`
	WorkOrderCode  string   `json:"work_order_code"`
	CollaboratorID int64    `json:"collaborator_id"`
	StartDate      string   `json:"start_date"`
	Grade          string   `json:"grade"`
	Criterion      string   `json:"criterion"`
}

// UpdateDelegationRequest contains the parameters for editing a delegation.
type UpdateDelegationRequest struct {
	ID             int64    `json:"id"`
	Requisitions   []string `json:"requisitions"`
	WorkOrderCode  string   `json:"work_order_code"`
	CollaboratorID int64    `json:"collaborator_id"`
	StartDate      string   `json:"start_date"`
	Status         string   `json:"status"`
	Grade          string   `json:"grade"`
	Criterion      string   `json:"criterion"`
	EndDate        string   `json:"end_date"` // optional, only honoured for completed
}

// ChangeStatusRequest contains the parameters of a status change.
type ChangeStatusRequest struct {
	ID        int64  `json:"id"`
	NewStatus string `json:"new_status"`
	EndDate   string `json:"end_date"` // optional explicit end date
}

// DelegationFilters contains filter options for listing delegations.
type DelegationFilters struct {
	CollaboratorID int64  `json:"collaborator_id"`
	Status         string `json:"status"`
	Limit          int    `json:"limit"` // 0 = all
}

// Delegation represents a delegation at the port boundary.
type Delegation struct {
	ID               int64    `json:"id"`
	Requisitions     []string `json:"requisitions"`
	WorkOrderCode    string   `json:"work_order_code"`
	CollaboratorID   int64    `json:"collaborator_id"`
	CollaboratorName string   `json:"collaborator_name"`
	StartDate        string   `json:"start_date"`
	Status           string   `json:"status"`
	StatusLabel      string   `json:"status_label"`
	Grade            string   `json:"grade"`
	Criterion        string   `json:"criterion"`
	EndDate          string   `json:"end_date"` // empty unless completed
}

// DelegationDetail is a delegation with its linked entries.
type DelegationDetail struct {
	Delegation   *Delegation `json:"delegation"`
	Entries      []*Entry    `json:"entries"`
	TotalMinutes int         `json:"total_minutes"`
	Total        string      `json:"total"`
}

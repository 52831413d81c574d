package primary

import "context"

// CollaboratorService defines the primary port for collaborator operations.
type CollaboratorService interface {
	// CreateCollaborator registers a collaborator. Admin only.
	CreateCollaborator(ctx context.Context, req CreateCollaboratorRequest) (*Collaborator, error)

	// BootstrapAdmin creates the first admin of an empty store. No requester is needed.
	BootstrapAdmin(ctx context.Context, req CreateCollaboratorRequest) (*Collaborator, error)

	// Login checks credentials and returns the collaborator.
	Login(ctx context.Context, login, password string) (*Collaborator, error)

	GetCollaborator(ctx context.Context, id int64) (*Collaborator, error)

	// ListCollaborators lists collaborators with their logged time.
	ListCollaborators(ctx context.Context) ([]*Collaborator, error)

	// UpdateCollaborator edits a collaborator. Admin only.
	UpdateCollaborator(ctx context.Context, req UpdateCollaboratorRequest) (*Collaborator, error)

	// DeleteCollaborator removes a collaborator without entries. Admin only.
	DeleteCollaborator(ctx context.Context, id int64) error
}

// CreateCollaboratorRequest contains the parameters for creating a collaborator.
type CreateCollaboratorRequest struct {
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateCollaboratorRequest contains the parameters for editing a collaborator.
// An empty Password keeps the current one.
type UpdateCollaboratorRequest struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Collaborator represents a collaborator at the port boundary.
type Collaborator struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Login        string `json:"login"`
	Role         string `json:"role"`
	TotalMinutes int    `json:"total_minutes"`
	Total        string `json:"total"`
}

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/horas/internal/ports/primary"
)

// CollaboratorAdapter translates CLI operations to CollaboratorService calls.
type CollaboratorAdapter struct {
	service primary.CollaboratorService
	out     io.Writer
}

// NewCollaboratorAdapter creates a new CollaboratorAdapter with the given service.
func NewCollaboratorAdapter(service primary.CollaboratorService, out io.Writer) *CollaboratorAdapter {
	return &CollaboratorAdapter{
		service: service,
		out:     out,
	}
}

// Create registers a collaborator.
func (a *CollaboratorAdapter) Create(ctx context.Context, req primary.CreateCollaboratorRequest) error {
	c, err := a.service.CreateCollaborator(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created collaborator %d: %s (%s)\n", c.ID, c.Name, c.Role)
	return nil
}

// List lists collaborators with their logged time.
func (a *CollaboratorAdapter) List(ctx context.Context) error {
	collaborators, err := a.service.ListCollaborators(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collaborators: %w", err)
	}

	if len(collaborators) == 0 {
		fmt.Fprintln(a.out, "No collaborators found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tNAME\tLOGIN\tROLE\tLOGGED")
	for _, c := range collaborators {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Login, c.Role, c.Total)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return nil
}

// Update edits a collaborator.
func (a *CollaboratorAdapter) Update(ctx context.Context, req primary.UpdateCollaboratorRequest) error {
	c, err := a.service.UpdateCollaborator(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to update collaborator: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Collaborator %d updated\n", c.ID)
	return nil
}

// Delete removes a collaborator without entries.
func (a *CollaboratorAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.service.DeleteCollaborator(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Collaborator %d deleted\n", id)
	return nil
}

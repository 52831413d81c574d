package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/horas/internal/ports/primary"
)

// DelegationAdapter translates CLI operations to DelegationService calls.
type DelegationAdapter struct {
	service primary.DelegationService
	out     io.Writer
}

// NewDelegationAdapter creates a new DelegationAdapter with the given service.
func NewDelegationAdapter(service primary.DelegationService, out io.Writer) *DelegationAdapter {
	return &DelegationAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new delegation.
func (a *DelegationAdapter) Create(ctx context.Context, req primary.CreateDelegationRequest) error {
	d, err := a.service.CreateDelegation(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created delegation %d for %s on %s\n", d.ID, d.CollaboratorName, d.WorkOrderCode)
	return nil
}

// List lists delegations.
func (a *DelegationAdapter) List(ctx context.Context, filters primary.DelegationFilters) error {
	delegations, err := a.service.ListDelegations(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list delegations: %w", err)
	}

	if len(delegations) == 0 {
		fmt.Fprintln(a.out, "No delegations found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tSTATUS\tWORK ORDER\tCOLLABORATOR\tSTART\tEND\tREQUISITIONS")
	for _, d := range delegations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, statusBadge(d.Status), d.WorkOrderCode, d.CollaboratorName,
			d.StartDate, dash(d.EndDate), strings.Join(d.Requisitions, ", "))
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a delegation with its linked entries.
func (a *DelegationAdapter) Show(ctx context.Context, id int64) error {
	detail, err := a.service.GetDelegation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get delegation: %w", err)
	}
	d := detail.Delegation

	fmt.Fprintf(a.out, "\n%s %d\n", header("Delegation"), d.ID)
	fmt.Fprintf(a.out, "Status:       %s\n", statusBadge(d.Status))
	fmt.Fprintf(a.out, "Work order:   %s\n", d.WorkOrderCode)
	fmt.Fprintf(a.out, "Collaborator: %s\n", d.CollaboratorName)
	fmt.Fprintf(a.out, "Requisitions: %s\n", strings.Join(d.Requisitions, ", "))
	fmt.Fprintf(a.out, "Started:      %s\n", d.StartDate)
	if d.EndDate != "" {
		fmt.Fprintf(a.out, "Ended:        %s\n", d.EndDate)
	}
	if d.Grade != "" {
		fmt.Fprintf(a.out, "Grade:        %s\n", d.Grade)
	}
	fmt.Fprintf(a.out, "Logged:       %s\n", detail.Total)

	if len(detail.Entries) > 0 {
		fmt.Fprintln(a.out, "\nEntries:")
		for _, e := range detail.Entries {
			fmt.Fprintf(a.out, "  - %d %s %s-%s (%s)\n", e.ID, e.Date, e.StartTime, e.EndTime, e.Duration)
		}
	}
	fmt.Fprintln(a.out)

	return nil
}

// SetStatus moves a delegation to a new status.
func (a *DelegationAdapter) SetStatus(ctx context.Context, id int64, status, endDate string) error {
	d, err := a.service.ChangeStatus(ctx, primary.ChangeStatusRequest{
		ID:        id,
		NewStatus: status,
		EndDate:   endDate,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Delegation %d is now %s", d.ID, statusBadge(d.Status))
	if d.EndDate != "" {
		fmt.Fprintf(a.out, " (ended %s)", d.EndDate)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Delete removes a delegation.
func (a *DelegationAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.service.DeleteDelegation(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Delegation %d deleted\n", id)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

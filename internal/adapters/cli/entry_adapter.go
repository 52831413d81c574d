// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/ports/primary"
)

// EntryAdapter translates CLI operations to EntryService calls.
type EntryAdapter struct {
	service primary.EntryService
	out     io.Writer
}

// NewEntryAdapter creates a new EntryAdapter with the given service.
func NewEntryAdapter(service primary.EntryService, out io.Writer) *EntryAdapter {
	return &EntryAdapter{
		service: service,
		out:     out,
	}
}

// Submit records a batch of rows.
func (a *EntryAdapter) Submit(ctx context.Context, req primary.SubmitEntriesRequest) error {
	resp, err := a.service.Submit(ctx, req)
	if err != nil {
		return rowErrors(a.out, err)
	}

	fmt.Fprintf(a.out, "✓ Logged %d entr%s (%s) in batch %s\n",
		len(resp.EntryIDs), plural(len(resp.EntryIDs), "y", "ies"), resp.Total, resp.BatchID)
	return nil
}

// List prints entries as a table.
func (a *EntryAdapter) List(ctx context.Context, filters primary.EntryFilters) error {
	entries, err := a.service.ListEntries(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries found")
		return nil
	}

	a.printEntries(entries)
	return nil
}

// ShowGroup prints the entries submitted together with entryID.
func (a *EntryAdapter) ShowGroup(ctx context.Context, entryID int64) error {
	group, err := a.service.LoadGroup(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load group: %w", err)
	}

	fmt.Fprintf(a.out, "\n%s %s (owner %d)\n", header("Batch"), group.BatchID, group.OwnerID)
	a.printEntries(group.Entries)
	return nil
}

// Reconcile replaces a group with the given rows.
func (a *EntryAdapter) Reconcile(ctx context.Context, req primary.ReconcileRequest) error {
	if err := a.service.Reconcile(ctx, req); err != nil {
		return rowErrors(a.out, err)
	}

	fmt.Fprintf(a.out, "✓ Group of entry %d updated\n", req.AnchorID)
	return nil
}

// Delete removes one entry.
func (a *EntryAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.service.DeleteEntry(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Entry %d deleted\n", id)
	return nil
}

func (a *EntryAdapter) printEntries(entries []*primary.Entry) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tDATE\tSTART\tEND\tTIME\tWORK ORDER\tCOLLABORATOR")
	var total int
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, e.StartTime, e.EndTime, e.Duration, e.WorkOrderCode, e.CollaboratorName)
		total += e.DurationMinutes
	}
	w.Flush()
	fmt.Fprintf(a.out, "\n%d entr%s, %s\n\n", len(entries), plural(len(entries), "y", "ies"), timeunit.FormatHHMM(total))
}

// rowErrors prints per-row validation failures before returning err.
func rowErrors(out io.Writer, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		for _, r := range appErr.Rows {
			fmt.Fprintf(out, "  %s %s\n", failMark(), r)
		}
	}
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

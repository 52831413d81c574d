package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/horas/internal/ports/primary"
)

// CatalogAdapter translates CLI operations to CatalogService calls.
type CatalogAdapter struct {
	service primary.CatalogService
	out     io.Writer
}

// NewCatalogAdapter creates a new CatalogAdapter with the given service.
func NewCatalogAdapter(service primary.CatalogService, out io.Writer) *CatalogAdapter {
	return &CatalogAdapter{
		service: service,
		out:     out,
	}
}

func (a *CatalogAdapter) CreatePlanItem(ctx context.Context, req primary.PlanItem) error {
	p, err := a.service.CreatePlanItem(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created plan item %s (%.1fh planned)\n", p.Code, p.PlannedHours)
	return nil
}

func (a *CatalogAdapter) ListPlanItems(ctx context.Context) error {
	items, err := a.service.ListPlanItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plan items: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No plan items found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCODE\tHOURS\tTYPE\tOBJECT")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n", p.Code, p.PlannedHours, p.ActivityType, p.Object)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return nil
}

// RenamePlanItem renames a plan item code everywhere it is referenced.
func (a *CatalogAdapter) RenamePlanItem(ctx context.Context, from, to string) error {
	if err := a.service.RenamePlanItemCode(ctx, from, to); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Plan item %s renamed to %s\n", from, to)
	return nil
}

func (a *CatalogAdapter) DeletePlanItem(ctx context.Context, code string) error {
	if err := a.service.DeletePlanItem(ctx, code); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Plan item %s deleted\n", code)
	return nil
}

func (a *CatalogAdapter) CreateWorkOrder(ctx context.Context, req primary.WorkOrder) error {
	w, err := a.service.CreateWorkOrder(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created work order %s", w.Code)
	if w.PlanItemCode != "" {
		fmt.Fprintf(a.out, " under %s", w.PlanItemCode)
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *CatalogAdapter) ListWorkOrders(ctx context.Context, planItemCode string) error {
	orders, err := a.service.ListWorkOrders(ctx, planItemCode)
	if err != nil {
		return fmt.Errorf("failed to list work orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No work orders found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCODE\tPLAN ITEM\tSTATUS\tSUMMARY")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Code, dash(o.PlanItemCode), dash(o.Status), o.Summary)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return nil
}

// RenameWorkOrder renames a work order code everywhere it is referenced.
func (a *CatalogAdapter) RenameWorkOrder(ctx context.Context, from, to string) error {
	if err := a.service.RenameWorkOrderCode(ctx, from, to); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Work order %s renamed to %s\n", from, to)
	return nil
}

func (a *CatalogAdapter) DeleteWorkOrder(ctx context.Context, code string) error {
	if err := a.service.DeleteWorkOrder(ctx, code); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Work order %s deleted\n", code)
	return nil
}

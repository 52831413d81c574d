package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/horas/internal/ports/primary"
)

var monthHeaders = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// ReportAdapter renders ReportService aggregates as tables.
type ReportAdapter struct {
	service primary.ReportService
	out     io.Writer
}

// NewReportAdapter creates a new ReportAdapter with the given service.
func NewReportAdapter(service primary.ReportService, out io.Writer) *ReportAdapter {
	return &ReportAdapter{
		service: service,
		out:     out,
	}
}

// Totals prints one row per group key.
func (a *ReportAdapter) Totals(ctx context.Context, req primary.ReportRequest) error {
	rows, err := a.service.Totals(ctx, req)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No time logged")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\n%s\tTOTAL\n", strings.ToUpper(strings.ReplaceAll(req.Dimension, "_", " ")))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r.Key, r.Total)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return nil
}

// Monthly prints the month-bucketed report with its global row last.
func (a *ReportAdapter) Monthly(ctx context.Context, req primary.ReportRequest) error {
	report, err := a.service.Monthly(ctx, req)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "\nKEY\t%s\tTOTAL\t\n", strings.Join(monthHeaders, "\t"))
	for _, r := range report.Rows {
		writeMonthRow(w, r)
	}
	if report.Global != nil {
		writeMonthRow(w, report.Global)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return nil
}

func writeMonthRow(w io.Writer, r *primary.MonthRow) {
	fmt.Fprintf(w, "%s\t%s\t%s\t\n", r.Key, strings.Join(r.Totals[:], "\t"), r.Total)
}

// PlanProgress prints executed time against each plan item budget.
func (a *ReportAdapter) PlanProgress(ctx context.Context) error {
	rows, err := a.service.PlanProgress(ctx)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No plan items found")
		return nil
	}

	a.printProgress(rows)
	return nil
}

// Overview prints the whole-plan summary followed by each item.
func (a *ReportAdapter) Overview(ctx context.Context) error {
	o, err := a.service.Overview(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s\n", header("Plan overview"))
	fmt.Fprintf(a.out, "Planned:  %.1fh\n", o.PlannedHours)
	fmt.Fprintf(a.out, "Executed: %s\n", o.Executed)
	fmt.Fprintf(a.out, "Progress: %s\n", o.Percent)

	if len(o.Items) > 0 {
		a.printProgress(o.Items)
	} else {
		fmt.Fprintln(a.out)
	}
	return nil
}

func (a *ReportAdapter) printProgress(rows []*primary.PlanProgressRow) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nPLAN ITEM\tPLANNED\tEXECUTED\tPROGRESS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.1fh\t%s\t%s\n", r.Code, r.PlannedHours, r.Executed, r.Percent)
	}
	w.Flush()
	fmt.Fprintln(a.out)
}

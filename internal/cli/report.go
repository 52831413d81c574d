package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate logged time",
}

var reportTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Total time per collaborator, plan item or work order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		req, err := reportRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		return wire.ReportAdapter().Totals(ctx, req)
	},
}

var reportMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Time per key and month, with a total row",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		req, err := reportRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		return wire.ReportAdapter().Monthly(ctx, req)
	},
}

var reportProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Executed time against each plan item budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.ReportAdapter().PlanProgress(ctx)
	},
}

var reportOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Whole-plan summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.ReportAdapter().Overview(ctx)
	},
}

func reportRequestFromFlags(cmd *cobra.Command) (primary.ReportRequest, error) {
	var req primary.ReportRequest
	req.Dimension, _ = cmd.Flags().GetString("by")
	req.CollaboratorID, _ = cmd.Flags().GetInt64("collaborator")
	req.PlanItemCode, _ = cmd.Flags().GetString("plan-item")
	req.WorkOrderCode, _ = cmd.Flags().GetString("work-order")
	req.Month, _ = cmd.Flags().GetInt("month")

	// Reports are unlimited unless asked otherwise.
	if cmd.Flags().Changed("limit") {
		raw, _ := cmd.Flags().GetString("limit")
		limit, err := parseLimit(raw)
		if err != nil {
			return req, err
		}
		req.Limit = limit
	}
	return req, nil
}

func addReportFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("by", "collaborator", "Group by collaborator, plan_item or work_order")
	cmd.Flags().Int64("collaborator", 0, "Filter by collaborator")
	cmd.Flags().String("plan-item", "", "Filter by plan item code")
	cmd.Flags().String("work-order", "", "Filter by work order code")
	cmd.Flags().Int("month", 0, "Filter by month (1-12)")
	cmd.Flags().String("limit", "", `Maximum rows, or "all"`)
}

func init() {
	addReportFilterFlags(reportTotalsCmd)
	addReportFilterFlags(reportMonthlyCmd)

	reportCmd.AddCommand(reportTotalsCmd)
	reportCmd.AddCommand(reportMonthlyCmd)
	reportCmd.AddCommand(reportProgressCmd)
	reportCmd.AddCommand(reportOverviewCmd)
}

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	return reportCmd
}

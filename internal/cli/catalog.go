package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/wire"
)

// ============================================================================
// plan-item
// ============================================================================

var planItemCmd = &cobra.Command{
	Use:   "plan-item",
	Short: "Manage plan items (annual budget lines)",
}

var planItemCreateCmd = &cobra.Command{
	Use:   "create [code]",
	Short: "Create a plan item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		req := primary.PlanItem{Code: args[0]}
		req.PlannedHours, _ = cmd.Flags().GetFloat64("hours")
		req.Classification, _ = cmd.Flags().GetString("classification")
		req.ActivityType, _ = cmd.Flags().GetString("type")
		req.Object, _ = cmd.Flags().GetString("object")
		req.Goal, _ = cmd.Flags().GetString("goal")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.EndDate, _ = cmd.Flags().GetString("end")

		return wire.CatalogAdapter().CreatePlanItem(ctx, req)
	},
}

var planItemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plan items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.CatalogAdapter().ListPlanItems(ctx)
	},
}

var planItemRenameCmd = &cobra.Command{
	Use:   "rename [old-code] [new-code]",
	Short: "Rename a plan item code in the catalog, work orders and entries",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.CatalogAdapter().RenamePlanItem(ctx, args[0], args[1])
	},
}

var planItemDeleteCmd = &cobra.Command{
	Use:   "delete [code]",
	Short: "Delete a plan item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.CatalogAdapter().DeletePlanItem(ctx, args[0])
	},
}

// ============================================================================
// work-order
// ============================================================================

var workOrderCmd = &cobra.Command{
	Use:   "work-order",
	Short: "Manage work orders",
}

var workOrderCreateCmd = &cobra.Command{
	Use:   "create [code]",
	Short: "Create a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		req := primary.WorkOrder{Code: args[0]}
		req.PlanItemCode, _ = cmd.Flags().GetString("plan-item")
		req.Summary, _ = cmd.Flags().GetString("summary")
		req.Unit, _ = cmd.Flags().GetString("unit")
		req.Supervision, _ = cmd.Flags().GetString("supervision")
		req.Coordination, _ = cmd.Flags().GetString("coordination")
		req.Team, _ = cmd.Flags().GetString("team")
		req.Status, _ = cmd.Flags().GetString("status")

		return wire.CatalogAdapter().CreateWorkOrder(ctx, req)
	},
}

var workOrderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		planItem, _ := cmd.Flags().GetString("plan-item")
		return wire.CatalogAdapter().ListWorkOrders(ctx, planItem)
	},
}

var workOrderRenameCmd = &cobra.Command{
	Use:   "rename [old-code] [new-code]",
	Short: "Rename a work order code in the catalog, entries, delegations and records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.CatalogAdapter().RenameWorkOrder(ctx, args[0], args[1])
	},
}

var workOrderDeleteCmd = &cobra.Command{
	Use:   "delete [code]",
	Short: "Delete a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.CatalogAdapter().DeleteWorkOrder(ctx, args[0])
	},
}

func init() {
	planItemCreateCmd.Flags().Float64("hours", 0, "Planned hours")
	planItemCreateCmd.Flags().String("classification", "", "Classification")
	planItemCreateCmd.Flags().String("type", "", "Activity type")
	planItemCreateCmd.Flags().String("object", "", "Object")
	planItemCreateCmd.Flags().String("goal", "", "Goal")
	planItemCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	planItemCreateCmd.Flags().String("end", "", "End date (YYYY-MM-DD)")

	planItemCmd.AddCommand(planItemCreateCmd)
	planItemCmd.AddCommand(planItemListCmd)
	planItemCmd.AddCommand(planItemRenameCmd)
	planItemCmd.AddCommand(planItemDeleteCmd)

	workOrderCreateCmd.Flags().String("plan-item", "", "Plan item code")
	workOrderCreateCmd.Flags().String("summary", "", "Summary")
	workOrderCreateCmd.Flags().String("unit", "", "Unit")
	workOrderCreateCmd.Flags().String("supervision", "", "Supervision")
	workOrderCreateCmd.Flags().String("coordination", "", "Coordination")
	workOrderCreateCmd.Flags().String("team", "", "Team")
	workOrderCreateCmd.Flags().String("status", "", "Status")

	workOrderListCmd.Flags().String("plan-item", "", "Filter by plan item code")

	workOrderCmd.AddCommand(workOrderCreateCmd)
	workOrderCmd.AddCommand(workOrderListCmd)
	workOrderCmd.AddCommand(workOrderRenameCmd)
	workOrderCmd.AddCommand(workOrderDeleteCmd)
}

// PlanItemCmd returns the plan-item command
func PlanItemCmd() *cobra.Command {
	return planItemCmd
}

// WorkOrderCmd returns the work-order command
func WorkOrderCmd() *cobra.Command {
	return workOrderCmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/wire"
)

var delegationCmd = &cobra.Command{
	Use:   "delegation",
	Short: "Manage delegations (requisitions assigned to a collaborator)",
}

var delegationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Assign requisitions to a collaborator",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}

		var req primary.CreateDelegationRequest
		reqs, _ := cmd.Flags().GetString("requisitions")
		req.Requisitions = splitList(reqs)
		req.WorkOrderCode, _ = cmd.Flags().GetString("work-order")
		req.CollaboratorID, _ = cmd.Flags().GetInt64("collaborator")
		req.StartDate, _ = cmd.Flags().GetString("start")
		req.Grade, _ = cmd.Flags().GetString("grade")
		req.Criterion, _ = cmd.Flags().GetString("criterion")

		return wire.DelegationAdapter().Create(ctx, req)
	},
}

var delegationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List delegations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		rawLimit, _ := cmd.Flags().GetString("limit")
		limit, err := parseLimit(rawLimit)
		if err != nil {
			return err
		}
		collaborator, _ := cmd.Flags().GetInt64("collaborator")
		status, _ := cmd.Flags().GetString("status")

		return wire.DelegationAdapter().List(ctx, primary.DelegationFilters{
			CollaboratorID: collaborator,
			Status:         status,
			Limit:          limit,
		})
	},
}

var delegationShowCmd = &cobra.Command{
	Use:   "show [delegation-id]",
	Short: "Show a delegation with its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.DelegationAdapter().Show(ctx, id)
	},
}

var delegationStatusCmd = &cobra.Command{
	Use:   "status [delegation-id] [in_progress|completed|cancelled]",
	Short: "Change the status of a delegation",
	Long: `Move a delegation through its lifecycle. Completing sets the end date to
--end, or to the date of the latest linked entry. Cancelled is final.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		end, _ := cmd.Flags().GetString("end")
		return wire.DelegationAdapter().SetStatus(ctx, id, args[1], end)
	},
}

var delegationUpdateCmd = &cobra.Command{
	Use:   "update [delegation-id]",
	Short: "Edit a delegation (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		detail, err := wire.DelegationService().GetDelegation(ctx, id)
		if err != nil {
			return err
		}
		d := detail.Delegation
		req := primary.UpdateDelegationRequest{
			ID:             d.ID,
			Requisitions:   d.Requisitions,
			WorkOrderCode:  d.WorkOrderCode,
			CollaboratorID: d.CollaboratorID,
			StartDate:      d.StartDate,
			Status:         d.Status,
			Grade:          d.Grade,
			Criterion:      d.Criterion,
			EndDate:        d.EndDate,
		}
		flags := cmd.Flags()
		if flags.Changed("requisitions") {
			reqs, _ := flags.GetString("requisitions")
			req.Requisitions = splitList(reqs)
		}
		if flags.Changed("work-order") {
			req.WorkOrderCode, _ = flags.GetString("work-order")
		}
		if flags.Changed("collaborator") {
			req.CollaboratorID, _ = flags.GetInt64("collaborator")
		}
		if flags.Changed("start") {
			req.StartDate, _ = flags.GetString("start")
		}
		if flags.Changed("status") {
			req.Status, _ = flags.GetString("status")
		}
		if flags.Changed("grade") {
			req.Grade, _ = flags.GetString("grade")
		}
		if flags.Changed("criterion") {
			req.Criterion, _ = flags.GetString("criterion")
		}
		if flags.Changed("end") {
			req.EndDate, _ = flags.GetString("end")
		}

		if _, err := wire.DelegationService().UpdateDelegation(ctx, req); err != nil {
			return err
		}
		return wire.DelegationAdapter().Show(ctx, id)
	},
}

var delegationDeleteCmd = &cobra.Command{
	Use:   "delete [delegation-id]",
	Short: "Delete a delegation and unlink its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.DelegationAdapter().Delete(ctx, id)
	},
}

func addDelegationFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("requisitions", "", "Comma separated requisition numbers")
	cmd.Flags().String("work-order", "", "Work order code")
	cmd.Flags().Int64("collaborator", 0, "Assigned collaborator ID")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("grade", "", "Grade")
	cmd.Flags().String("criterion", "", "Criterion")
}

func init() {
	addDelegationFieldFlags(delegationCreateCmd)
	_ = delegationCreateCmd.MarkFlagRequired("requisitions")
	_ = delegationCreateCmd.MarkFlagRequired("work-order")
	_ = delegationCreateCmd.MarkFlagRequired("collaborator")

	addDelegationFieldFlags(delegationUpdateCmd)
	delegationUpdateCmd.Flags().String("status", "", "Status")
	delegationUpdateCmd.Flags().String("end", "", "End date, kept only when completed")

	delegationListCmd.Flags().Int64("collaborator", 0, "Filter by collaborator")
	delegationListCmd.Flags().String("status", "", "Filter by status")
	delegationListCmd.Flags().String("limit", "", `Maximum rows, or "all" (default 100)`)

	delegationStatusCmd.Flags().String("end", "", "Explicit end date when completing")

	delegationCmd.AddCommand(delegationCreateCmd)
	delegationCmd.AddCommand(delegationListCmd)
	delegationCmd.AddCommand(delegationShowCmd)
	delegationCmd.AddCommand(delegationStatusCmd)
	delegationCmd.AddCommand(delegationUpdateCmd)
	delegationCmd.AddCommand(delegationDeleteCmd)
}

// DelegationCmd returns the delegation command
func DelegationCmd() *cobra.Command {
	return delegationCmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/wire"
)

var collaboratorCmd = &cobra.Command{
	Use:   "collaborator",
	Short: "Manage collaborators",
}

var collaboratorCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Register a collaborator (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		req := primary.CreateCollaboratorRequest{Name: args[0]}
		req.Login, _ = cmd.Flags().GetString("login")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Role, _ = cmd.Flags().GetString("role")

		return wire.CollaboratorAdapter().Create(ctx, req)
	},
}

var collaboratorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collaborators with their logged time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := operatorContext(cmd)
		if err != nil {
			return err
		}
		return wire.CollaboratorAdapter().List(ctx)
	},
}

var collaboratorUpdateCmd = &cobra.Command{
	Use:   "update [collaborator-id]",
	Short: "Edit a collaborator (admin)",
	Long:  "Edit a collaborator. Renaming also rewrites the name on service records.",
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
		current, err := wire.CollaboratorService().GetCollaborator(ctx, id)
		if err != nil {
			return err
		}

		req := primary.UpdateCollaboratorRequest{ID: id, Name: current.Name, Login: current.Login, Role: current.Role}
		flags := cmd.Flags()
		if flags.Changed("name") {
			req.Name, _ = flags.GetString("name")
		}
		if flags.Changed("login") {
			req.Login, _ = flags.GetString("login")
		}
		if flags.Changed("role") {
			req.Role, _ = flags.GetString("role")
		}
		req.Password, _ = flags.GetString("password")

		return wire.CollaboratorAdapter().Update(ctx, req)
	},
}

var collaboratorDeleteCmd = &cobra.Command{
	Use:   "delete [collaborator-id]",
	Short: "Delete a collaborator without time entries (admin)",
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
		return wire.CollaboratorAdapter().Delete(ctx, id)
	},
}

func init() {
	collaboratorCreateCmd.Flags().String("login", "", "Login (required)")
	collaboratorCreateCmd.Flags().String("password", "", "Password (required)")
	collaboratorCreateCmd.Flags().String("role", "common", "Role: common or admin")
	_ = collaboratorCreateCmd.MarkFlagRequired("login")
	_ = collaboratorCreateCmd.MarkFlagRequired("password")

	collaboratorUpdateCmd.Flags().String("name", "", "New name")
	collaboratorUpdateCmd.Flags().String("login", "", "New login")
	collaboratorUpdateCmd.Flags().String("password", "", "New password")
	collaboratorUpdateCmd.Flags().String("role", "", "New role")

	collaboratorCmd.AddCommand(collaboratorCreateCmd)
	collaboratorCmd.AddCommand(collaboratorListCmd)
	collaboratorCmd.AddCommand(collaboratorUpdateCmd)
	collaboratorCmd.AddCommand(collaboratorDeleteCmd)
}

// CollaboratorCmd returns the collaborator command
func CollaboratorCmd() *cobra.Command {
	return collaboratorCmd
}

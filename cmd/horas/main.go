package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/horas/internal/cli"
	"github.com/example/horas/internal/version"
	"github.com/example/horas/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "horas",
		Short:   "horas - time ledger for plan items, work orders and delegations",
		Version: version.String(),
		Long: `horas records the hours collaborators spend on work orders, tracks
delegations through their lifecycle and reports executed time against the
annual plan. It runs as a CLI or as a JSON API (horas serve).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			wire.Configure(path)
		},
	}
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.horas/config.yaml)")
	rootCmd.PersistentFlags().Int64("as", 0, "Collaborator ID the CLI acts as (default: config operator)")

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Ledger
	rootCmd.AddCommand(cli.CollaboratorCmd())
	rootCmd.AddCommand(cli.PlanItemCmd())
	rootCmd.AddCommand(cli.WorkOrderCmd())
	rootCmd.AddCommand(cli.EntryCmd())
	rootCmd.AddCommand(cli.DelegationCmd())
	rootCmd.AddCommand(cli.ReportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/horas/internal/apperr"
	"github.com/example/horas/internal/config"
	"github.com/example/horas/internal/ports/primary"
	"github.com/example/horas/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration, database and the first admin",
		Long: `Write a default configuration (unless one exists), create the database
schema and, when --login is given, register the first admin collaborator.
The admin becomes the CLI operator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Printf("ℹ️  Using existing config at %s\n", path)
			} else {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", path)
			}
			wire.Configure(path)

			cfg := wire.Config()
			wire.DB()
			fmt.Printf("✓ Database ready (%s)\n", cfg.Database.Driver)

			login, _ := cmd.Flags().GetString("login")
			if login == "" {
				return nil
			}
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			if name == "" {
				name = login
			}

			admin, err := wire.CollaboratorService().BootstrapAdmin(cmd.Context(), primary.CreateCollaboratorRequest{
				Name:     name,
				Login:    login,
				Password: password,
			})
			if errors.Is(err, apperr.ErrAlreadyInitialized) {
				fmt.Println("ℹ️  Collaborators already registered, skipping admin bootstrap")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			updated := *cfg
			updated.Operator = admin.ID
			if err := config.Save(path, &updated); err != nil {
				return err
			}
			fmt.Printf("✓ Admin %s created (id %d) and set as operator\n", admin.Login, admin.ID)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  horas plan-item create 1 --hours 120")
			fmt.Println("  horas serve")
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	cmd.Flags().String("login", "", "Login of the first admin")
	cmd.Flags().String("name", "", "Display name of the first admin (defaults to the login)")
	cmd.Flags().String("password", "", "Password of the first admin")
	return cmd
}

// configPath returns --config or the default config location.
func configPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

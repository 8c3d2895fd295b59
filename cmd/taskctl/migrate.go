package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskdesk/internal/config"
	"github.com/rezkam/taskdesk/internal/infrastructure/persistence/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadCLIConfig()
		if err != nil {
			return err
		}
		if err := postgres.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

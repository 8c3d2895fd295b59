// Command taskctl performs operator tasks against the taskdesk database:
// schema migration, worker provisioning and API key issue.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskdesk/internal/config"
	"github.com/rezkam/taskdesk/internal/infrastructure/persistence/postgres"
)

var rootCmd = &cobra.Command{
	Use:   "taskctl",
	Short: "Operator tool for taskdesk",
	Long: `taskctl manages a taskdesk database.

The connection string is read from TASKDESK_DB_DSN.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore connects using the environment configuration. Pending migrations
// are applied on open.
func openStore(ctx context.Context) (*postgres.Store, error) {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return nil, err
	}
	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}

func closeStore(cmd *cobra.Command, store *postgres.Store) {
	if err := store.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to close store: %v\n", err)
	}
}

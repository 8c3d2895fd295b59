package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskdesk/internal/application/auth"
)

var (
	apikeyWorkerID int64
	apikeyName     string
	apikeyDays     int
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys",
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue an API key for a worker",
	Long: `Issue an API key bound to a worker. The key is printed once and cannot be recovered.

Examples:
  taskctl apikey create --worker-id 3 --name laptop
  taskctl apikey create --worker-id 3 --name ci --days 30`,
	Args: cobra.NoArgs,
	RunE: runAPIKeyCreate,
}

func init() {
	apikeyCreateCmd.Flags().Int64Var(&apikeyWorkerID, "worker-id", 0, "Worker the key acts for (required)")
	apikeyCreateCmd.Flags().StringVar(&apikeyName, "name", "", "Name/description for the key (required)")
	apikeyCreateCmd.Flags().IntVar(&apikeyDays, "days", 0, "Days until expiration (0 = never expires)")
	_ = apikeyCreateCmd.MarkFlagRequired("worker-id")
	_ = apikeyCreateCmd.MarkFlagRequired("name")

	apikeyCmd.AddCommand(apikeyCreateCmd)
	rootCmd.AddCommand(apikeyCmd)
}

// expiryFromDays converts a day count into an expiry; zero means none.
func expiryFromDays(days int, now time.Time) (*time.Time, error) {
	if days < 0 {
		return nil, errors.New("--days must not be negative")
	}
	if days == 0 {
		return nil, nil
	}
	t := now.UTC().AddDate(0, 0, days)
	return &t, nil
}

func runAPIKeyCreate(cmd *cobra.Command, _ []string) error {
	expiresAt, err := expiryFromDays(apikeyDays, time.Now())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(cmd, store)

	key, err := auth.CreateAPIKey(ctx, store, apikeyWorkerID, apikeyName, expiresAt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "API key created. Store it now, it will not be shown again:")
	fmt.Fprintln(out, key)
	if expiresAt != nil {
		fmt.Fprintf(out, "Expires: %s\n", expiresAt.Format(time.RFC3339))
	}
	return nil
}

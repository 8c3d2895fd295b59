package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezkam/taskdesk/internal/application/permission"
	"github.com/rezkam/taskdesk/internal/application/team"
	"github.com/rezkam/taskdesk/internal/domain"
)

var (
	workerUsername   string
	workerEmail      string
	workerFirstName  string
	workerLastName   string
	workerPositionID int64
	workerSuperuser  bool
	workerStaff      bool
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Manage workers",
}

var workerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a worker",
	Long: `Provision a worker account, optionally with elevated roles.

Examples:
  taskctl worker create --username admin --email admin@example.com --first-name Ada --last-name Admin --superuser
  taskctl worker create --username jdoe --email jdoe@example.com --first-name John --last-name Doe --position-id 2`,
	Args: cobra.NoArgs,
	RunE: runWorkerCreate,
}

func init() {
	f := workerCreateCmd.Flags()
	f.StringVar(&workerUsername, "username", "", "Unique username (required)")
	f.StringVar(&workerEmail, "email", "", "Unique email address (required)")
	f.StringVar(&workerFirstName, "first-name", "", "First name (required)")
	f.StringVar(&workerLastName, "last-name", "", "Last name (required)")
	f.Int64Var(&workerPositionID, "position-id", 0, "Position to assign (0 = none)")
	f.BoolVar(&workerSuperuser, "superuser", false, "Grant superuser rights")
	f.BoolVar(&workerStaff, "staff", false, "Mark as staff")
	for _, name := range []string{"username", "email", "first-name", "last-name"} {
		_ = workerCreateCmd.MarkFlagRequired(name)
	}

	workerCmd.AddCommand(workerCreateCmd)
	rootCmd.AddCommand(workerCmd)
}

func runWorkerCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(cmd, store)

	params := domain.RegisterWorkerParams{
		Username:  workerUsername,
		Email:     workerEmail,
		FirstName: workerFirstName,
		LastName:  workerLastName,
	}
	if workerPositionID != 0 {
		params.PositionID = &workerPositionID
	}

	svc := team.NewService(store, permission.NewResolver(nil, store))
	w, err := svc.ProvisionWorker(ctx, params, domain.WorkerRoles{Superuser: workerSuperuser, Staff: workerStaff})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Worker %q created with id %d\n", w.Username, w.ID)
	return nil
}

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/rezkam/taskdesk/internal/config"
	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/persistence/postgres"
	"github.com/stretchr/testify/require"
)

// setupStore connects to the database named by TASKDESK_DB_DSN, applies
// migrations and empties every table. Tests are skipped without a DSN.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	cfg, err := config.LoadTestConfig()
	if err != nil {
		t.Skipf("Failed to load test config: %v (set TASKDESK_DB_DSN to run integration tests)", err)
	}

	ctx := context.Background()
	store, err := postgres.NewPostgresStore(ctx, cfg.Database.DSN)
	require.NoError(t, err)

	truncate := func() {
		_, err := store.Pool().Exec(ctx,
			"TRUNCATE TABLE api_keys, task_assignees, tasks, task_types, workers, positions RESTART IDENTITY CASCADE")
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		store.Close()
	})

	return store
}

// fixture holds the reference rows most tests need.
type fixture struct {
	manager   *domain.Position
	developer *domain.Position
	bug       *domain.TaskType
	feature   *domain.TaskType
	alice     *domain.Worker
	bob       *domain.Worker
	carol     *domain.Worker
}

func seed(t *testing.T, store *postgres.Store) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	var err error
	f.manager, err = store.CreatePosition(ctx, "Manager")
	require.NoError(t, err)
	f.developer, err = store.CreatePosition(ctx, "Developer")
	require.NoError(t, err)
	f.bug, err = store.CreateTaskType(ctx, "Bug")
	require.NoError(t, err)
	f.feature, err = store.CreateTaskType(ctx, "Feature")
	require.NoError(t, err)

	f.alice = createWorker(t, store, "alice", f.developer)
	f.bob = createWorker(t, store, "bob", nil)
	f.carol = createWorker(t, store, "carol", f.manager)
	return f
}

func createWorker(t *testing.T, store *postgres.Store, username string, position *domain.Position) *domain.Worker {
	t.Helper()
	w, err := store.CreateWorker(context.Background(), domain.Worker{
		Username:   username,
		Email:      username + "@example.com",
		FirstName:  "First",
		LastName:   "Last",
		IsActive:   true,
		Position:   position,
		DateJoined: time.Now().UTC(),
	})
	require.NoError(t, err)
	return w
}

func createTask(t *testing.T, store *postgres.Store, nt domain.NewTask) *domain.Task {
	t.Helper()
	if nt.Status == "" {
		nt.Status = domain.TaskStatusTodo
	}
	if nt.Priority == "" {
		nt.Priority = domain.TaskPriorityMedium
	}
	if nt.Deadline.IsZero() {
		nt.Deadline = time.Now().UTC().Add(72 * time.Hour)
	}
	if nt.CreatedAt.IsZero() {
		nt.CreatedAt = time.Now().UTC()
	}
	created, err := store.CreateTask(context.Background(), nt)
	require.NoError(t, err)
	return created
}

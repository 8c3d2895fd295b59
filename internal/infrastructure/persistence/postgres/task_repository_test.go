package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskIDs(tasks []domain.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestFindTasks_FiltersAndOrdering(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	login := createTask(t, store, domain.NewTask{
		Name: "Fix login", TaskTypeID: f.bug.ID, CreatedByID: f.carol.ID,
		Priority: domain.TaskPriorityUrgent, AssigneeIDs: []int64{f.alice.ID, f.bob.ID},
		CreatedAt: base,
	})
	report := createTask(t, store, domain.NewTask{
		Name: "Quarterly report", Description: ptr.To("numbers for LOGIN funnel"),
		TaskTypeID: f.feature.ID, CreatedByID: f.alice.ID, CreatedAt: base.Add(time.Minute),
	})
	cleanup := createTask(t, store, domain.NewTask{
		Name: "Cleanup", TaskTypeID: f.feature.ID, CreatedByID: f.bob.ID,
		Status: domain.TaskStatusDone, AssigneeIDs: []int64{f.alice.ID}, CreatedAt: base.Add(2 * time.Minute),
	})

	t.Run("no filters returns newest first", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{})
		require.NoError(t, err)
		assert.Equal(t, []int64{cleanup.ID, report.ID, login.ID}, taskIDs(page.Tasks))
		assert.Equal(t, 3, page.TotalCount)
		assert.False(t, page.HasMore)
	})

	t.Run("search matches name and description case-insensitively", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{Search: "login"})
		require.NoError(t, err)
		assert.Equal(t, []int64{report.ID, login.ID}, taskIDs(page.Tasks))
	})

	t.Run("search matches type name", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{Search: "bug"})
		require.NoError(t, err)
		assert.Equal(t, []int64{login.ID}, taskIDs(page.Tasks))
	})

	t.Run("search on assignee username lists each task once", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{Search: "alice"})
		require.NoError(t, err)
		assert.Equal(t, []int64{cleanup.ID, login.ID}, taskIDs(page.Tasks))
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, page.Tasks)

		page, err = store.FindTasks(ctx, domain.TaskQuery{Search: "_"})
		require.NoError(t, err)
		assert.Empty(t, page.Tasks)
	})

	t.Run("injection attempt is treated as data", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{Search: "'; DROP TABLE tasks; --"})
		require.NoError(t, err)
		assert.Empty(t, page.Tasks)

		page, err = store.FindTasks(ctx, domain.TaskQuery{})
		require.NoError(t, err)
		assert.Len(t, page.Tasks, 3)
	})

	t.Run("equality filters combine with AND", func(t *testing.T) {
		status := domain.TaskStatusDone
		page, err := store.FindTasks(ctx, domain.TaskQuery{Status: &status, AssigneeID: &f.alice.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{cleanup.ID}, taskIDs(page.Tasks))

		priority := domain.TaskPriorityUrgent
		page, err = store.FindTasks(ctx, domain.TaskQuery{Priority: &priority, TaskTypeID: &f.feature.ID})
		require.NoError(t, err)
		assert.Empty(t, page.Tasks)
	})

	t.Run("assignee filter does not duplicate rows", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{AssigneeID: &f.bob.ID, Search: "i"})
		require.NoError(t, err)
		assert.Equal(t, []int64{login.ID}, taskIDs(page.Tasks))
	})

	t.Run("assignees are preloaded by username", func(t *testing.T) {
		page, err := store.FindTasks(ctx, domain.TaskQuery{})
		require.NoError(t, err)
		names := []string{}
		for _, w := range page.Assignees.For(login.ID) {
			names = append(names, w.Username)
		}
		assert.Equal(t, []string{"alice", "bob"}, names)
		assert.Empty(t, page.Assignees.For(report.ID))
	})
}

func TestFindTasks_Pagination(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	var ids []int64
	for i := range 5 {
		task := createTask(t, store, domain.NewTask{
			Name: "Task", TaskTypeID: f.bug.ID, CreatedByID: f.alice.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		ids = append([]int64{task.ID}, ids...)
	}

	page, err := store.FindTasks(ctx, domain.TaskQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, ids[2:4], taskIDs(page.Tasks))
	assert.Equal(t, 5, page.TotalCount)
	assert.True(t, page.HasMore)

	page, err = store.FindTasks(ctx, domain.TaskQuery{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, ids[4:], taskIDs(page.Tasks))
	assert.False(t, page.HasMore)

	page, err = store.FindTasks(ctx, domain.TaskQuery{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 5, page.TotalCount, "total is reported past the last page")
}

func TestCreateTask_InvalidReferences(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()

	_, err := store.CreateTask(ctx, domain.NewTask{
		Name: "x", Deadline: time.Now(), Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow,
		TaskTypeID: 9999, CreatedByID: f.alice.ID, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = store.CreateTask(ctx, domain.NewTask{
		Name: "x", Deadline: time.Now(), Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow,
		TaskTypeID: f.bug.ID, CreatedByID: f.alice.ID, AssigneeIDs: []int64{9999}, CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	page, err := store.FindTasks(ctx, domain.TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks, "failed inserts leave no partial task")
}

func TestUpdateTask_FieldMask(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()

	task := createTask(t, store, domain.NewTask{
		Name: "Original", Description: ptr.To("keep me"), TaskTypeID: f.bug.ID,
		CreatedByID: f.alice.ID, AssigneeIDs: []int64{f.bob.ID},
	})

	priority := domain.TaskPriorityHigh
	updated, err := store.UpdateTask(ctx, domain.UpdateTaskParams{
		TaskID:      task.ID,
		UpdateMask:  []string{domain.FieldName, domain.FieldPriority, domain.FieldAssignees},
		Name:        ptr.To("Renamed"),
		Priority:    &priority,
		AssigneeIDs: []int64{f.carol.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)

	ok, err := store.IsAssignee(ctx, task.ID, f.carol.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.IsAssignee(ctx, task.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	updated, err = store.UpdateTask(ctx, domain.UpdateTaskParams{
		TaskID:     task.ID,
		UpdateMask: []string{domain.FieldDescription},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	_, err = store.UpdateTask(ctx, domain.UpdateTaskParams{
		TaskID:     9999,
		UpdateMask: []string{domain.FieldName},
		Name:       ptr.To("ghost"),
	})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTaskStatus_CompletionTimestamp(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()

	task := createTask(t, store, domain.NewTask{Name: "Ship", TaskTypeID: f.bug.ID, CreatedByID: f.alice.ID})
	assert.Nil(t, task.CompletedAt)

	done, err := store.UpdateTaskStatus(ctx, task.ID, domain.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)

	again, err := store.UpdateTaskStatus(ctx, task.ID, domain.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, *done.CompletedAt, *again.CompletedAt, "re-marking done keeps the first completion time")

	reopened, err := store.UpdateTaskStatus(ctx, task.ID, domain.TaskStatusReview)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)

	_, err = store.UpdateTaskStatus(ctx, 9999, domain.TaskStatusDone)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()

	task := createTask(t, store, domain.NewTask{
		Name: "Temp", TaskTypeID: f.bug.ID, CreatedByID: f.alice.ID, AssigneeIDs: []int64{f.bob.ID},
	})

	require.NoError(t, store.DeleteTask(ctx, task.ID))

	_, err := store.FindTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	ok, err := store.IsAssignee(ctx, task.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, store.DeleteTask(ctx, task.ID), domain.ErrTaskNotFound)
}

func TestLookups(t *testing.T) {
	store := setupStore(t)
	f := seed(t, store)
	ctx := context.Background()

	ok, err := store.TaskTypeExists(ctx, f.bug.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.TaskTypeExists(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.WorkerExists(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := store.CountWorkers(ctx, []int64{f.alice.ID, f.bob.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

package task

import (
	"context"

	"github.com/rezkam/taskdesk/internal/domain"
)

// Repository defines storage operations for task management.
type Repository interface {
	Lookup

	// FindTasks returns tasks matching the query, newest-created first, each task once.
	// Assignees of the returned tasks are loaded with a single extra query.
	FindTasks(ctx context.Context, q domain.TaskQuery) (*domain.TaskPage, error)

	// FindTaskByID retrieves a task with its type and creator.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	FindTaskByID(ctx context.Context, id int64) (*domain.Task, error)

	// FindAssignees loads assignees for the given tasks, ordered by username.
	FindAssignees(ctx context.Context, taskIDs []int64) (domain.AssigneeIndex, error)

	// IsAssignee reports whether the worker is assigned to the task.
	IsAssignee(ctx context.Context, taskID, workerID int64) (bool, error)

	// CountWorkers returns how many of the given ids reference existing workers.
	CountWorkers(ctx context.Context, ids []int64) (int, error)

	// CreateTask inserts a task and its assignments atomically.
	CreateTask(ctx context.Context, t domain.NewTask) (*domain.Task, error)

	// UpdateTask applies a field-mask update. Assignees are replaced as a whole.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error)

	// UpdateTaskStatus writes only the status (and the derived completion time).
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)

	// DeleteTask removes the task; assignment rows cascade.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, id int64) error
}

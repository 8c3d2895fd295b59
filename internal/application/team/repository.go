package team

import (
	"context"

	"github.com/rezkam/taskdesk/internal/domain"
)

// Repository defines storage operations for positions, task types and workers.
// Unique violations are reported as domain.ErrDuplicate.
type Repository interface {
	CreatePosition(ctx context.Context, name string) (*domain.Position, error)
	ListPositions(ctx context.Context) ([]domain.Position, error)
	PositionExists(ctx context.Context, id int64) (bool, error)

	CreateTaskType(ctx context.Context, name string) (*domain.TaskType, error)
	ListTaskTypes(ctx context.Context) ([]domain.TaskType, error)

	// CreateWorker inserts the worker with its flags as given.
	CreateWorker(ctx context.Context, w domain.Worker) (*domain.Worker, error)
	// ListWorkers returns all workers ordered by username.
	ListWorkers(ctx context.Context) ([]domain.Worker, error)
	// FindWorkerByID returns domain.ErrWorkerNotFound if the worker doesn't exist.
	FindWorkerByID(ctx context.Context, id int64) (*domain.Worker, error)
}

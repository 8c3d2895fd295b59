package profile

import (
	"context"

	"github.com/rezkam/taskdesk/internal/domain"
)

// Repository defines the aggregate reads behind the profile dashboard.
type Repository interface {
	// WorkerStats returns the worker's counters and the completed-task count for
	// each window, in window order. Both aggregates come from one consistent snapshot.
	WorkerStats(ctx context.Context, workerID int64, windows []domain.WeekWindow, basis domain.StatsBasis) (*domain.WorkerTaskStats, []int, error)

	// FindActiveTasks returns tasks the worker created or is assigned to that are not done,
	// newest first, at most limit, together with their assignees.
	FindActiveTasks(ctx context.Context, workerID int64, limit int) ([]domain.Task, domain.AssigneeIndex, error)
}

// ReportSink stores rendered profile snapshots.
type ReportSink interface {
	// Put writes the object, replacing any existing object with the same name.
	Put(ctx context.Context, name string, data []byte) error

	// List returns object names with the given prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ReportSource reads stored snapshots back.
type ReportSource interface {
	// Get returns the object. Missing objects return domain.ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
}

// ReportStore is a sink that can also serve what it stored.
type ReportStore interface {
	ReportSink
	ReportSource
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rezkam/taskdesk/internal/domain"
)

// === Profile Repository Implementation ===
// Implements application/profile.Repository interface

// WorkerStats computes the worker's counters and per-window completions with two
// aggregate queries inside one read-only snapshot.
func (s *Store) WorkerStats(ctx context.Context, workerID int64, windows []domain.WeekWindow, basis domain.StatsBasis) (*domain.WorkerTaskStats, []int, error) {
	starts := make([]time.Time, len(windows))
	ends := make([]time.Time, len(windows))
	for i, w := range windows {
		starts[i] = w.Start
		ends[i] = w.End
	}

	var (
		stats  domain.WorkerTaskStats
		counts []int
	)
	err := s.snapshot(ctx, "worker_stats", func(tx *Store) error {
		err := tx.db.QueryRow(ctx, `
			WITH assigned AS (
				SELECT t.status
				FROM tasks t
				JOIN task_assignees ta ON ta.task_id = t.id
				WHERE ta.worker_id = $1
			)
			SELECT
				(SELECT COUNT(*) FROM assigned),
				(SELECT COUNT(*) FROM tasks WHERE created_by_id = $1),
				COUNT(*) FILTER (WHERE status = 'done'),
				COUNT(*) FILTER (WHERE status = 'todo'),
				COUNT(*) FILTER (WHERE status = 'in_progress'),
				COUNT(*) FILTER (WHERE status = 'review'),
				COUNT(*) FILTER (WHERE status = 'done')
			FROM assigned`, workerID,
		).Scan(
			&stats.AssignedCount,
			&stats.CreatedCount,
			&stats.CompletedCount,
			&stats.StatusStats.Todo,
			&stats.StatusStats.InProgress,
			&stats.StatusStats.Review,
			&stats.StatusStats.Done,
		)
		if err != nil {
			return fmt.Errorf("failed to count worker tasks: %w", err)
		}

		rows, err := tx.db.Query(ctx, `
			SELECT COUNT(t.id)
			FROM unnest($2::timestamptz[], $3::timestamptz[]) WITH ORDINALITY AS w(start_at, end_at, idx)
			LEFT JOIN task_assignees ta ON ta.worker_id = $1
			LEFT JOIN tasks t ON t.id = ta.task_id
				AND t.status = 'done'
				AND CASE WHEN $4::text = 'completed' THEN t.completed_at ELSE t.created_at END >= w.start_at
				AND CASE WHEN $4::text = 'completed' THEN t.completed_at ELSE t.created_at END < w.end_at
			GROUP BY w.idx
			ORDER BY w.idx`,
			workerID, starts, ends, string(basis))
		if err != nil {
			return fmt.Errorf("failed to count weekly completions: %w", err)
		}
		counts, err = pgx.CollectRows(rows, pgx.RowTo[int])
		if err != nil {
			return fmt.Errorf("failed to scan weekly completions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &stats, counts, nil
}

// FindActiveTasks returns the worker's unfinished tasks, created or assigned, newest first.
func (s *Store) FindActiveTasks(ctx context.Context, workerID int64, limit int) ([]domain.Task, domain.AssigneeIndex, error) {
	rows, err := s.db.Query(ctx, `SELECT `+taskColumns+taskJoins+`
		WHERE t.status <> 'done'
		AND (t.created_by_id = $1 OR EXISTS (
			SELECT 1 FROM task_assignees ta WHERE ta.task_id = t.id AND ta.worker_id = $1))
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2`, workerID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list active tasks: %w", err)
	}

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]int64, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	assignees, err := s.FindAssignees(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return tasks, assignees, nil
}

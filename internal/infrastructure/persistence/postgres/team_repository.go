package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rezkam/taskdesk/internal/domain"
)

// === Team Repository Implementation ===
// Implements application/team.Repository and the existence checks behind the task filters.

// CreatePosition inserts a position. Duplicate names return domain.ErrDuplicate.
func (s *Store) CreatePosition(ctx context.Context, name string) (*domain.Position, error) {
	p := domain.Position{Name: name}
	err := s.db.QueryRow(ctx, `INSERT INTO positions (name) VALUES ($1) RETURNING id`, name).Scan(&p.ID)
	if err != nil {
		return nil, wrapWriteError(err, "create position")
	}
	return &p, nil
}

// ListPositions returns all positions ordered by name.
func (s *Store) ListPositions(ctx context.Context) ([]domain.Position, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM positions ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	positions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Position, error) {
		var p domain.Position
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan positions: %w", err)
	}
	return positions, nil
}

// PositionExists reports whether a position with the id exists.
func (s *Store) PositionExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM positions WHERE id = $1)`, id)
}

// CreateTaskType inserts a task type. Duplicate names return domain.ErrDuplicate.
func (s *Store) CreateTaskType(ctx context.Context, name string) (*domain.TaskType, error) {
	tt := domain.TaskType{Name: name}
	err := s.db.QueryRow(ctx, `INSERT INTO task_types (name) VALUES ($1) RETURNING id`, name).Scan(&tt.ID)
	if err != nil {
		return nil, wrapWriteError(err, "create task type")
	}
	return &tt, nil
}

// ListTaskTypes returns all task types ordered by name.
func (s *Store) ListTaskTypes(ctx context.Context) ([]domain.TaskType, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM task_types ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TaskType, error) {
		var tt domain.TaskType
		err := row.Scan(&tt.ID, &tt.Name)
		return tt, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan task types: %w", err)
	}
	return types, nil
}

// TaskTypeExists reports whether a task type with the id exists.
func (s *Store) TaskTypeExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM task_types WHERE id = $1)`, id)
}

// CreateWorker inserts a worker and returns it with its position loaded.
// Duplicate usernames or emails return domain.ErrDuplicate.
func (s *Store) CreateWorker(ctx context.Context, w domain.Worker) (*domain.Worker, error) {
	var positionID *int64
	if w.Position != nil {
		positionID = &w.Position.ID
	}

	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO workers (username, email, first_name, last_name, is_superuser, is_staff, is_active, position_id, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		w.Username, w.Email, w.FirstName, w.LastName,
		w.IsSuperuser, w.IsStaff, w.IsActive, positionID, w.DateJoined,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteError(err, "create worker")
	}

	return s.FindWorkerByID(ctx, id)
}

// ListWorkers returns all workers ordered by username.
func (s *Store) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	rows, err := s.db.Query(ctx, `SELECT `+workerColumns+workerJoins+` ORDER BY w.username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	workers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Worker, error) {
		w, err := scanWorker(row)
		if err != nil {
			return domain.Worker{}, err
		}
		return *w, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workers: %w", err)
	}
	return workers, nil
}

// FindWorkerByID loads a worker and its position.
// Returns domain.ErrWorkerNotFound if the worker doesn't exist.
func (s *Store) FindWorkerByID(ctx context.Context, id int64) (*domain.Worker, error) {
	w, err := scanWorker(s.db.QueryRow(ctx, `SELECT `+workerColumns+workerJoins+` WHERE w.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrWorkerNotFound, id)
		}
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return w, nil
}

// WorkerExists reports whether a worker with the id exists.
func (s *Store) WorkerExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM workers WHERE id = $1)`, id)
}

// CountWorkers returns how many of the given ids reference existing workers.
func (s *Store) CountWorkers(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM workers WHERE id = ANY($1)`, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count workers: %w", err)
	}
	return n, nil
}

func (s *Store) exists(ctx context.Context, query string, id int64) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return ok, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rezkam/taskdesk/internal/domain"
)

// === Task Repository Implementation ===
// Implements application/task.Repository interface

// taskFilter applies a domain.TaskQuery. Every predicate is skipped when its
// parameter is empty or NULL so one statement serves all filter combinations.
// Assignee predicates use EXISTS so a task never repeats in the result.
const taskFilter = `
	WHERE ($1::text = '' OR t.name ILIKE $2 OR t.description ILIKE $2 OR tt.name ILIKE $2
		OR EXISTS (
			SELECT 1 FROM task_assignees sa
			JOIN workers sw ON sw.id = sa.worker_id
			WHERE sa.task_id = t.id AND sw.username ILIKE $2))
	AND ($3::text IS NULL OR t.status = $3)
	AND ($4::text IS NULL OR t.priority = $4)
	AND ($5::bigint IS NULL OR t.task_type_id = $5)
	AND ($6::bigint IS NULL OR EXISTS (
		SELECT 1 FROM task_assignees fa WHERE fa.task_id = t.id AND fa.worker_id = $6))`

// escapeLike escapes LIKE wildcards so the search term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func filterArgs(q domain.TaskQuery) []any {
	var status, priority *string
	if q.Status != nil {
		v := string(*q.Status)
		status = &v
	}
	if q.Priority != nil {
		v := string(*q.Priority)
		priority = &v
	}
	return []any{
		q.Search,
		"%" + escapeLike(q.Search) + "%",
		status,
		priority,
		q.TaskTypeID,
		q.AssigneeID,
	}
}

// FindTasks returns the tasks matching q, newest-created first, with their assignees.
func (s *Store) FindTasks(ctx context.Context, q domain.TaskQuery) (*domain.TaskPage, error) {
	var limit *int
	if q.Limit > 0 {
		limit = &q.Limit
	}
	offset := max(q.Offset, 0)

	args := append(filterArgs(q), limit, offset)
	rows, err := s.db.Query(ctx, `SELECT `+taskColumns+`, COUNT(*) OVER()`+taskJoins+taskFilter+`
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $7 OFFSET $8`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var total int
	tasks, err := collectTasks(rows, &total)
	if err != nil {
		return nil, err
	}

	// The window count is only visible on returned rows.
	if len(tasks) == 0 && offset > 0 {
		err := s.db.QueryRow(ctx, `SELECT COUNT(*)`+taskJoins+taskFilter, filterArgs(q)...).Scan(&total)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
	}

	ids := make([]int64, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	assignees, err := s.FindAssignees(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &domain.TaskPage{
		Tasks:      tasks,
		Assignees:  assignees,
		TotalCount: total,
		HasMore:    offset+len(tasks) < total,
	}, nil
}

// FindTaskByID retrieves a task with its type and creator.
func (s *Store) FindTaskByID(ctx context.Context, id int64) (*domain.Task, error) {
	var r taskRow
	err := s.db.QueryRow(ctx, `SELECT `+taskColumns+taskJoins+` WHERE t.id = $1`, id).Scan(r.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	t := r.toDomain()
	return &t, nil
}

// FindAssignees loads the assignees of the given tasks in one query, ordered by username.
func (s *Store) FindAssignees(ctx context.Context, taskIDs []int64) (domain.AssigneeIndex, error) {
	idx := make(domain.AssigneeIndex, len(taskIDs))
	if len(taskIDs) == 0 {
		return idx, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT ta.task_id, w.id, w.username, w.first_name, w.last_name, p.id, p.name
		FROM task_assignees ta
		JOIN workers w ON w.id = ta.worker_id
		LEFT JOIN positions p ON p.id = w.position_id
		WHERE ta.task_id = ANY($1)
		ORDER BY ta.task_id, w.username`, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID       int64
			w            domain.WorkerSummary
			positionID   *int64
			positionName *string
		)
		if err := rows.Scan(&taskID, &w.ID, &w.Username, &w.FirstName, &w.LastName, &positionID, &positionName); err != nil {
			return nil, fmt.Errorf("failed to scan assignee: %w", err)
		}
		w.Position = positionOf(positionID, positionName)
		idx[taskID] = append(idx[taskID], w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignees: %w", err)
	}
	return idx, nil
}

// IsAssignee reports whether the worker is assigned to the task.
func (s *Store) IsAssignee(ctx context.Context, taskID, workerID int64) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM task_assignees WHERE task_id = $1 AND worker_id = $2)`,
		taskID, workerID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return ok, nil
}

// CreateTask inserts the task and its assignments in one transaction.
func (s *Store) CreateTask(ctx context.Context, nt domain.NewTask) (*domain.Task, error) {
	var created *domain.Task
	err := s.executeInTransaction(ctx, "create_task", pgx.TxOptions{}, func(tx *Store) error {
		var id int64
		err := tx.db.QueryRow(ctx, `
			INSERT INTO tasks (name, description, deadline, status, priority, task_type_id, created_by_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING id`,
			nt.Name, nt.Description, nt.Deadline, string(nt.Status), string(nt.Priority),
			nt.TaskTypeID, nt.CreatedByID, nt.CreatedAt,
		).Scan(&id)
		if err != nil {
			return wrapWriteError(err, "create task")
		}

		if err := tx.insertAssignees(ctx, id, nt.AssigneeIDs); err != nil {
			return err
		}

		created, err = tx.FindTaskByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) insertAssignees(ctx context.Context, taskID int64, workerIDs []int64) error {
	if len(workerIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO task_assignees (task_id, worker_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, taskID, workerIDs)
	if err != nil {
		return wrapWriteError(err, "assign workers")
	}
	return nil
}

// UpdateTask applies the fields named in the update mask. Assignees are replaced as a whole.
func (s *Store) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{params.TaskID}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if params.Has(domain.FieldName) {
		set("name", *params.Name)
	}
	if params.Has(domain.FieldDescription) {
		set("description", params.Description)
	}
	if params.Has(domain.FieldDeadline) {
		set("deadline", *params.Deadline)
	}
	if params.Has(domain.FieldPriority) {
		set("priority", string(*params.Priority))
	}
	if params.Has(domain.FieldTaskType) {
		set("task_type_id", *params.TaskTypeID)
	}

	var updated *domain.Task
	err := s.executeInTransaction(ctx, "update_task", pgx.TxOptions{}, func(tx *Store) error {
		tag, err := tx.db.Exec(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
		if err != nil {
			return wrapWriteError(err, "update task")
		}
		if err := checkRowsAffected(tag.RowsAffected(), domain.ErrTaskNotFound, params.TaskID); err != nil {
			return err
		}

		if params.Has(domain.FieldAssignees) {
			if _, err := tx.db.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, params.TaskID); err != nil {
				return fmt.Errorf("failed to clear assignees: %w", err)
			}
			if err := tx.insertAssignees(ctx, params.TaskID, params.AssigneeIDs); err != nil {
				return err
			}
		}

		updated, err = tx.FindTaskByID(ctx, params.TaskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateTaskStatus writes the status. Entering done stamps completed_at once;
// leaving done clears it.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	var updated *domain.Task
	err := s.executeInTransaction(ctx, "update_task_status", pgx.TxOptions{}, func(tx *Store) error {
		tag, err := tx.db.Exec(ctx, `
			UPDATE tasks SET
				status = $2::text,
				updated_at = now(),
				completed_at = CASE WHEN $2::text = 'done' THEN COALESCE(completed_at, now()) ELSE NULL END
			WHERE id = $1`, id, string(status))
		if err != nil {
			return wrapWriteError(err, "update task status")
		}
		if err := checkRowsAffected(tag.RowsAffected(), domain.ErrTaskNotFound, id); err != nil {
			return err
		}

		updated, err = tx.FindTaskByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes the task. Assignment rows cascade.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkRowsAffected(tag.RowsAffected(), domain.ErrTaskNotFound, id)
}

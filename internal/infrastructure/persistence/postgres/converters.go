package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rezkam/taskdesk/internal/domain"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// checkRowsAffected validates that an UPDATE/DELETE operation affected at least one row.
func checkRowsAffected(rowsAffected int64, notFound error, entityID int64) error {
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %d", notFound, entityID)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// isForeignKeyViolation checks if an error is a PostgreSQL FK violation on the given column.
// An empty column matches any FK violation.
func isForeignKeyViolation(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		if column == "" {
			return true
		}
		return strings.Contains(pgErr.ConstraintName, column) ||
			strings.Contains(pgErr.Message, column)
	}
	return false
}

// wrapWriteError maps constraint violations to domain errors and keeps the driver error in the chain.
func wrapWriteError(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %w", domain.ErrDuplicate, err)
	case isForeignKeyViolation(err, ""):
		return fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

// utc normalizes a timestamp read from the database.
func utc(t time.Time) time.Time {
	return t.UTC()
}

// utcPtr normalizes an optional timestamp read from the database.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// === Task rows ===

// taskColumns selects a task with its type and creator (and the creator's position).
const taskColumns = `
	t.id, t.name, t.description, t.deadline, t.status, t.priority,
	t.created_at, t.updated_at, t.completed_at,
	tt.id, tt.name,
	w.id, w.username, w.first_name, w.last_name, p.id, p.name`

const taskJoins = `
	FROM tasks t
	JOIN task_types tt ON tt.id = t.task_type_id
	JOIN workers w ON w.id = t.created_by_id
	LEFT JOIN positions p ON p.id = w.position_id`

// taskRow receives the columns listed in taskColumns.
type taskRow struct {
	id           int64
	name         string
	description  *string
	deadline     time.Time
	status       string
	priority     string
	createdAt    time.Time
	updatedAt    time.Time
	completedAt  *time.Time
	typeID       int64
	typeName     string
	creatorID    int64
	creatorUser  string
	creatorFirst string
	creatorLast  string
	positionID   *int64
	positionName *string
}

// dest returns the scan targets in taskColumns order, followed by extra.
func (r *taskRow) dest(extra ...any) []any {
	return append([]any{
		&r.id, &r.name, &r.description, &r.deadline, &r.status, &r.priority,
		&r.createdAt, &r.updatedAt, &r.completedAt,
		&r.typeID, &r.typeName,
		&r.creatorID, &r.creatorUser, &r.creatorFirst, &r.creatorLast, &r.positionID, &r.positionName,
	}, extra...)
}

func (r *taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:          r.id,
		Name:        r.name,
		Description: r.description,
		Deadline:    utc(r.deadline),
		Status:      domain.TaskStatus(r.status),
		Priority:    domain.TaskPriority(r.priority),
		TaskType:    domain.TaskType{ID: r.typeID, Name: r.typeName},
		CreatedBy: domain.WorkerSummary{
			ID:        r.creatorID,
			Username:  r.creatorUser,
			FirstName: r.creatorFirst,
			LastName:  r.creatorLast,
			Position:  positionOf(r.positionID, r.positionName),
		},
		CreatedAt:   utc(r.createdAt),
		UpdatedAt:   utc(r.updatedAt),
		CompletedAt: utcPtr(r.completedAt),
	}
}

func positionOf(id *int64, name *string) *domain.Position {
	if id == nil || name == nil {
		return nil
	}
	return &domain.Position{ID: *id, Name: *name}
}

// collectTasks scans every row into tasks. extra receives any trailing columns per row.
func collectTasks(rows pgx.Rows, extra ...any) ([]domain.Task, error) {
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var r taskRow
		if err := rows.Scan(r.dest(extra...)...); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, r.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// === Worker rows ===

const workerColumns = `
	w.id, w.username, w.email, w.first_name, w.last_name,
	w.is_superuser, w.is_staff, w.is_active, w.date_joined, p.id, p.name`

const workerJoins = `
	FROM workers w
	LEFT JOIN positions p ON p.id = w.position_id`

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var (
		w            domain.Worker
		positionID   *int64
		positionName *string
	)
	err := row.Scan(
		&w.ID, &w.Username, &w.Email, &w.FirstName, &w.LastName,
		&w.IsSuperuser, &w.IsStaff, &w.IsActive, &w.DateJoined, &positionID, &positionName,
	)
	if err != nil {
		return nil, err
	}
	w.DateJoined = utc(w.DateJoined)
	w.Position = positionOf(positionID, positionName)
	return &w, nil
}

// === API key rows ===

const apiKeyColumns = `
	id::text, worker_id, short_token, long_secret_hash, name,
	is_active, created_at, expires_at, last_used_at`

func scanAPIKey(row pgx.Row) (*domain.APIKey, error) {
	var k domain.APIKey
	err := row.Scan(
		&k.ID, &k.WorkerID, &k.ShortToken, &k.LongSecretHash, &k.Name,
		&k.IsActive, &k.CreatedAt, &k.ExpiresAt, &k.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}
	k.CreatedAt = utc(k.CreatedAt)
	k.ExpiresAt = utcPtr(k.ExpiresAt)
	k.LastUsedAt = utcPtr(k.LastUsedAt)
	return &k, nil
}

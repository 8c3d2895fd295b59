package task

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/rezkam/taskdesk/internal/application/permission"
	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/ptr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultPageSize is the list page size when none is configured.
const DefaultPageSize = 20

// Config holds configuration for the Service.
type Config struct {
	PageSize      int // Tasks per list page
	MaxBoardTasks int // Optional bound on tasks loaded for the kanban board; zero loads every match
}

// ListResult is one page of the task list together with everything needed to render it.
type ListResult struct {
	Tasks       []domain.Task
	Assignees   domain.AssigneeIndex
	Permissions domain.PermissionMap
	Form        domain.FilterForm
	Search      string
	Sticky      string // Filter parameters for pagination links, without "page"
	Page        int
	PageSize    int
	TotalCount  int
	HasMore     bool
}

// BoardResult is the kanban view of the filtered task set.
type BoardResult struct {
	Board       domain.Board
	Assignees   domain.AssigneeIndex
	Permissions domain.PermissionMap
	Form        domain.FilterForm
	Search      string
	Sticky      string
	TotalCount  int  // Matching tasks, including any not loaded onto the board
	Truncated   bool // Set when MaxBoardTasks cut the board short
}

// Detail is a single task with its assignees and the actor's decision.
type Detail struct {
	Task       *domain.Task
	Assignees  []domain.WorkerSummary
	Permission domain.Decision
}

// StatusChange is the outcome of a status toggle.
type StatusChange struct {
	TaskID        int64
	Status        domain.TaskStatus
	StatusDisplay string
}

// Service provides business logic for task management.
type Service struct {
	repo          Repository
	builder       *Builder
	resolver      *permission.Resolver
	config        Config
	now           func() time.Time
	statusChanges metric.Int64Counter
}

// NewService creates a new task service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, resolver *permission.Resolver, config Config) *Service {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.MaxBoardTasks < 0 {
		config.MaxBoardTasks = 0
	}

	counter, err := otel.Meter("github.com/rezkam/taskdesk/internal/application/task").Int64Counter(
		"taskdesk.task.status_changes",
		metric.WithDescription("Number of task status changes"),
	)
	if err != nil {
		slog.Warn("failed to create status change counter", slog.String("error", err.Error()))
	}

	return &Service{
		repo:          repo,
		builder:       NewBuilder(repo),
		resolver:      resolver,
		config:        config,
		now:           func() time.Time { return time.Now().UTC() },
		statusChanges: counter,
	}
}

// ListTasks returns one page of tasks matching the filter parameters.
// An invalid or missing "page" value means the first page.
func (s *Service) ListTasks(ctx context.Context, actor domain.Actor, values url.Values) (*ListResult, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}

	q, form, search := s.builder.Build(ctx, values)

	page := parsePage(values.Get(domain.ParamPage), s.config.PageSize)
	q.Limit = s.config.PageSize
	q.Offset = (page - 1) * s.config.PageSize

	result, err := s.repo.FindTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &ListResult{
		Tasks:       result.Tasks,
		Assignees:   result.Assignees,
		Permissions: s.resolver.ComputePermissions(actor, result.Tasks, result.Assignees),
		Form:        form,
		Search:      search,
		Sticky:      domain.StickyQuery(values),
		Page:        page,
		PageSize:    s.config.PageSize,
		TotalCount:  result.TotalCount,
		HasMore:     result.HasMore,
	}, nil
}

// Kanban returns the filtered task set grouped by status.
func (s *Service) Kanban(ctx context.Context, actor domain.Actor, values url.Values) (*BoardResult, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}

	q, form, search := s.builder.Build(ctx, values)
	q.Limit = s.config.MaxBoardTasks

	result, err := s.repo.FindTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	if result.HasMore {
		slog.WarnContext(ctx, "kanban board truncated",
			slog.Int("limit", s.config.MaxBoardTasks),
			slog.Int("total", result.TotalCount))
	}
	total := result.TotalCount
	if total < len(result.Tasks) {
		total = len(result.Tasks)
	}

	return &BoardResult{
		Board:       GroupByStatus(result.Tasks),
		Assignees:   result.Assignees,
		Permissions: s.resolver.ComputePermissions(actor, result.Tasks, result.Assignees),
		Form:        form,
		Search:      search,
		Sticky:      domain.StickyQuery(values),
		TotalCount:  total,
		Truncated:   result.HasMore,
	}, nil
}

// parsePage reads a 1-based page number. Missing, invalid or non-positive
// values mean the first page; values whose offset would overflow are clamped
// to the last addressable page.
func parsePage(raw string, pageSize int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return min(n, math.MaxInt/pageSize)
}

// GetTask returns a task with its assignees and the actor's permissions on it.
func (s *Service) GetTask(ctx context.Context, actor domain.Actor, id int64) (*Detail, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}

	t, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	idx, err := s.repo.FindAssignees(ctx, []int64{t.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}
	assignees := idx.For(t.ID)

	return &Detail{
		Task:       t,
		Assignees:  assignees,
		Permission: s.resolver.Decide(actor, t, assignees),
	}, nil
}

// CreateTask validates the input and creates a task owned by the actor.
func (s *Service) CreateTask(ctx context.Context, actor domain.Actor, params domain.CreateTaskParams) (*domain.Task, error) {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	name, err := domain.NewTaskName(params.Name)
	if err != nil {
		return nil, err
	}
	description, err := domain.NewDescription(params.Description)
	if err != nil {
		return nil, err
	}
	if params.Deadline == nil {
		return nil, domain.ErrDeadlineRequired
	}
	priority, err := domain.NewTaskPriority(params.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaskType(ctx, params.TaskTypeID); err != nil {
		return nil, err
	}
	assignees, err := s.checkAssignees(ctx, params.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTask(ctx, domain.NewTask{
		Name:        name.String(),
		Description: description,
		Deadline:    params.Deadline.UTC(),
		Status:      domain.TaskStatusTodo,
		Priority:    priority,
		TaskTypeID:  params.TaskTypeID,
		CreatedByID: m.WorkerID,
		AssigneeIDs: assignees,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.InfoContext(ctx, "task created",
		slog.Int64("task_id", created.ID),
		slog.Int64("worker_id", m.WorkerID))
	return created, nil
}

// UpdateTask applies a field-mask edit. Only managers and the creator may edit.
func (s *Service) UpdateTask(ctx context.Context, actor domain.Actor, params domain.UpdateTaskParams) (*domain.Task, error) {
	if _, err := s.authorizeEdit(ctx, actor, params.TaskID); err != nil {
		return nil, err
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Has(domain.FieldName) {
		name, err := domain.NewTaskName(*params.Name)
		if err != nil {
			return nil, err
		}
		params.Name = ptr.To(name.String())
	}
	if params.Has(domain.FieldDescription) {
		description, err := domain.NewDescription(params.Description)
		if err != nil {
			return nil, err
		}
		params.Description = description
	}
	if params.Has(domain.FieldDeadline) {
		deadline := params.Deadline.UTC()
		params.Deadline = &deadline
	}
	if params.Has(domain.FieldTaskType) {
		if err := s.checkTaskType(ctx, *params.TaskTypeID); err != nil {
			return nil, err
		}
	}
	if params.Has(domain.FieldAssignees) {
		assignees, err := s.checkAssignees(ctx, params.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		params.AssigneeIDs = assignees
	}

	updated, err := s.repo.UpdateTask(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// DeleteTask removes a task. Only managers and the creator may delete.
func (s *Service) DeleteTask(ctx context.Context, actor domain.Actor, id int64) error {
	t, err := s.authorizeEdit(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	slog.InfoContext(ctx, "task deleted", slog.Int64("task_id", id), slog.String("name", t.Name))
	return nil
}

// ToggleStatus moves a task to the requested status.
//
// Checks run in order: authentication, existence, modify permission, then the
// status value. A rejected request never mutates the task. Only the status
// (and its completion time) is written; concurrent toggles are last-write-wins.
func (s *Service) ToggleStatus(ctx context.Context, actor domain.Actor, id int64, raw string) (*StatusChange, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}

	t, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanModifyTask(ctx, actor, t) {
		return nil, domain.ErrForbidden
	}

	status, err := domain.NewTaskStatus(raw)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	if s.statusChanges != nil {
		s.statusChanges.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(t.Status)),
			attribute.String("to", string(updated.Status)),
		))
	}

	return &StatusChange{
		TaskID:        updated.ID,
		Status:        updated.Status,
		StatusDisplay: updated.Status.Display(),
	}, nil
}

// authorizeEdit loads the task and checks edit/delete rights.
// Not-found is reported before forbidden.
func (s *Service) authorizeEdit(ctx context.Context, actor domain.Actor, id int64) (*domain.Task, error) {
	if !domain.IsAuthenticated(actor) {
		return nil, domain.ErrUnauthenticated
	}

	t, err := s.repo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanEditOrDeleteTask(actor, t) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

func (s *Service) checkTaskType(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrTaskTypeRequired
	}
	ok, err := s.repo.TaskTypeExists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check task type: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: task type %d", domain.ErrInvalidReference, id)
	}
	return nil
}

// checkAssignees de-duplicates the ids and verifies every one references a worker.
func (s *Service) checkAssignees(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	n, err := s.repo.CountWorkers(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignees: %w", err)
	}
	if n != len(unique) {
		return nil, fmt.Errorf("%w: unknown assignee", domain.ErrInvalidReference)
	}
	return unique, nil
}

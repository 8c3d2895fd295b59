package domain

import "time"

// TaskQuery is the normalized, validated predicate set for listing tasks.
//
// Zero values impose no constraint. Results are always ordered newest-created-first
// and each task appears at most once.
//
// Common use cases:
//   - Board for one person: AssigneeID=X
//   - "Urgent bugs": Priority=urgent, TaskTypeID=bug
//   - Free text: Search="login" (name, description, type name, assignee username)
type TaskQuery struct {
	Search     string        // Case-insensitive substring, OR across searchable fields
	Status     *TaskStatus   // Equality
	Priority   *TaskPriority // Equality
	TaskTypeID *int64        // Equality
	AssigneeID *int64        // Task has this worker among its assignees

	// Pagination (Limit 0 = no limit)
	Limit  int
	Offset int
}

// TaskPage contains tasks matching a TaskQuery plus their preloaded assignees.
type TaskPage struct {
	Tasks      []Task
	Assignees  AssigneeIndex
	TotalCount int  // Total matching tasks across all pages
	HasMore    bool // Whether there are more pages
}

// FilterForm reports how raw filter parameters were interpreted.
// Values echoes the submitted strings so the presentation layer can redisplay them.
type FilterForm struct {
	Values map[string]string
	Errors map[string]string // field -> issue; empty when Valid
	Valid  bool
}

// Decision is the per (task, actor) permission outcome. Never stored.
type Decision struct {
	CanModify     bool // Update status (managers, creator, assignees)
	CanEditDelete bool // Edit the record or delete it (managers, creator)
}

// PermissionMap maps task id to the actor's Decision for that task.
type PermissionMap map[int64]Decision

// Board partitions tasks by status. Each column keeps the input order.
type Board struct {
	Todo       []Task
	InProgress []Task
	Review     []Task
	Done       []Task
}

// Column returns the tasks in the given status column.
func (b *Board) Column(status TaskStatus) []Task {
	switch status {
	case TaskStatusTodo:
		return b.Todo
	case TaskStatusInProgress:
		return b.InProgress
	case TaskStatusReview:
		return b.Review
	case TaskStatusDone:
		return b.Done
	default:
		return nil
	}
}

// Len returns the number of tasks across all columns.
func (b *Board) Len() int {
	return len(b.Todo) + len(b.InProgress) + len(b.Review) + len(b.Done)
}

// StatusCounts counts tasks per status.
type StatusCounts struct {
	Todo       int
	InProgress int
	Review     int
	Done       int
}

// WeekWindow is a half-open [Start, End) interval of seven days.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// WorkerTaskStats are the aggregate counters for one worker.
type WorkerTaskStats struct {
	AssignedCount  int
	CreatedCount   int
	CompletedCount int
	StatusStats    StatusCounts
}

// WeeklyStat is one bucket of the completion trend.
type WeeklyStat struct {
	Label       string // "Week 1" is the oldest window
	Completed   int
	WindowStart time.Time
	WindowEnd   time.Time
	StartLabel  string // MM/DD
	EndLabel    string // MM/DD
}

// ProfileData is the dashboard payload for one worker.
type ProfileData struct {
	AssignedCount   int
	CreatedCount    int
	CompletedCount  int
	StatusStats     StatusCounts
	ActiveTasks     []Task
	ActiveAssignees AssigneeIndex
	WeeklyStats     []WeeklyStat
}

// CreateTaskParams holds the input for creating a task.
type CreateTaskParams struct {
	Name        string
	Description *string
	Deadline    *time.Time
	Priority    string
	TaskTypeID  int64
	AssigneeIDs []int64
}

// NewTask is a validated task ready to be inserted.
type NewTask struct {
	Name        string
	Description *string
	Deadline    time.Time
	Status      TaskStatus
	Priority    TaskPriority
	TaskTypeID  int64
	CreatedByID int64
	AssigneeIDs []int64
	CreatedAt   time.Time
}

// RegisterWorkerParams holds the input for creating a worker account.
type RegisterWorkerParams struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	PositionID *int64
}

// WorkerRoles are the elevated flags an operator may grant at provisioning time.
type WorkerRoles struct {
	Superuser bool
	Staff     bool
}

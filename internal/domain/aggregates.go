package domain

import (
	"slices"
	"time"
)

// Position is a named role a Worker may hold (e.g. "Manager").
type Position struct {
	ID   int64
	Name string
}

// Worker is an account in the system, optionally tied to a Position.
type Worker struct {
	ID          int64
	Username    string
	Email       string
	FirstName   string
	LastName    string
	IsSuperuser bool
	IsStaff     bool
	IsActive    bool
	Position    *Position // Optional
	DateJoined  time.Time
}

// DisplayName returns "username (First Last)" when both names are set, otherwise the username.
func (w *Worker) DisplayName() string {
	return Summarize(w).DisplayName()
}

// WorkerSummary is the slim worker projection attached to task listings.
type WorkerSummary struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Position  *Position
}

// Summarize projects a Worker onto a WorkerSummary.
func Summarize(w *Worker) WorkerSummary {
	return WorkerSummary{
		ID:        w.ID,
		Username:  w.Username,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Position:  w.Position,
	}
}

// DisplayName returns "username (First Last)" when both names are set, otherwise the username.
func (w WorkerSummary) DisplayName() string {
	if w.FirstName != "" && w.LastName != "" {
		return w.Username + " (" + w.FirstName + " " + w.LastName + ")"
	}
	return w.Username
}

// TaskType is a category label applied to tasks.
type TaskType struct {
	ID   int64
	Name string
}

// Task is the central work item.
//
// Assignees are NOT part of the Task value. Repositories return them separately
// in an AssigneeIndex so a page of tasks is loaded with one extra query and
// permission checks can reuse the already materialized rows.
type Task struct {
	ID          int64
	Name        string
	Description *string // Optional
	Deadline    time.Time
	Status      TaskStatus
	Priority    TaskPriority

	TaskType  TaskType
	CreatedBy WorkerSummary

	CreatedAt time.Time // Immutable once set
	UpdatedAt time.Time

	// CompletedAt is set when the task enters done and cleared when it leaves done.
	CompletedAt *time.Time
}

// IsCreatedBy reports whether the worker created the task.
func (t *Task) IsCreatedBy(workerID int64) bool {
	return t != nil && workerID != 0 && t.CreatedBy.ID == workerID
}

// AssigneeIndex maps a task id to its assignees, ordered by username.
type AssigneeIndex map[int64][]WorkerSummary

// For returns the assignees of a task (nil when none were loaded).
func (idx AssigneeIndex) For(taskID int64) []WorkerSummary {
	if idx == nil {
		return nil
	}
	return idx[taskID]
}

// Contains reports whether the worker is among the preloaded assignees of the task.
func (idx AssigneeIndex) Contains(taskID, workerID int64) bool {
	return slices.ContainsFunc(idx.For(taskID), func(w WorkerSummary) bool {
		return w.ID == workerID
	})
}

// APIKey binds a hashed secret to the worker it authenticates.
type APIKey struct {
	ID             string
	WorkerID       int64
	ShortToken     string
	LongSecretHash string
	Name           string
	IsActive       bool
	CreatedAt      time.Time
	ExpiresAt      *time.Time
	LastUsedAt     *time.Time
}

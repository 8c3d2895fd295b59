// Package permission decides what an actor may do with a task.
package permission

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rezkam/taskdesk/internal/domain"
)

// DefaultManagerPositions are the position names that grant manager rights.
var DefaultManagerPositions = []string{"Manager", "Project Manager", "Team Lead"}

// Membership answers whether a worker is assigned to a task.
type Membership interface {
	// IsAssignee reports whether workerID is among the assignees of taskID.
	IsAssignee(ctx context.Context, taskID, workerID int64) (bool, error)
}

// Resolver evaluates task permissions for actors.
// It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	managerPositions map[string]struct{}
	membership       Membership
}

// NewResolver creates a resolver with the given manager-role set.
// An empty set falls back to DefaultManagerPositions.
// Position names are matched exactly after trimming surrounding whitespace.
func NewResolver(positions []string, membership Membership) *Resolver {
	if len(positions) == 0 {
		positions = DefaultManagerPositions
	}

	set := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		if p = strings.TrimSpace(p); p != "" {
			set[p] = struct{}{}
		}
	}

	return &Resolver{
		managerPositions: set,
		membership:       membership,
	}
}

// IsManager reports whether the actor has elevated rights:
// superuser, staff, or holding a position in the manager-role set.
func (r *Resolver) IsManager(actor domain.Actor) bool {
	m, ok := domain.MemberOf(actor)
	if !ok {
		return false
	}
	if m.Superuser || m.Staff {
		return true
	}
	if m.Position == "" {
		return false
	}
	_, ok = r.managerPositions[m.Position]
	return ok
}

// CanModifyTask reports whether the actor may change the task's status.
// Managers, the creator, and assignees may. Assignment is checked with a
// single membership lookup; a failed lookup denies.
func (r *Resolver) CanModifyTask(ctx context.Context, actor domain.Actor, task *domain.Task) bool {
	m, ok := domain.MemberOf(actor)
	if !ok || task == nil {
		return false
	}
	if r.IsManager(actor) || task.IsCreatedBy(m.WorkerID) {
		return true
	}
	if r.membership == nil {
		return false
	}

	assigned, err := r.membership.IsAssignee(ctx, task.ID, m.WorkerID)
	if err != nil {
		slog.WarnContext(ctx, "assignee lookup failed, denying task modification",
			slog.Int64("task_id", task.ID),
			slog.Int64("worker_id", m.WorkerID),
			slog.String("error", err.Error()))
		return false
	}
	return assigned
}

// CanEditOrDeleteTask reports whether the actor may edit the task record or delete it.
// Only managers and the creator may; assignment is not enough.
func (r *Resolver) CanEditOrDeleteTask(actor domain.Actor, task *domain.Task) bool {
	m, ok := domain.MemberOf(actor)
	if !ok || task == nil {
		return false
	}
	return r.IsManager(actor) || task.IsCreatedBy(m.WorkerID)
}

// Decide returns the full decision for one task using preloaded assignees.
func (r *Resolver) Decide(actor domain.Actor, task *domain.Task, assignees []domain.WorkerSummary) domain.Decision {
	m, ok := domain.MemberOf(actor)
	if !ok || task == nil {
		return domain.Decision{}
	}
	return decide(r.IsManager(actor), m.WorkerID, task, assignees)
}

func decide(manager bool, workerID int64, task *domain.Task, assignees []domain.WorkerSummary) domain.Decision {
	if manager {
		return domain.Decision{CanModify: true, CanEditDelete: true}
	}

	creator := task.IsCreatedBy(workerID)
	assigned := false
	for _, a := range assignees {
		if a.ID == workerID {
			assigned = true
			break
		}
	}

	return domain.Decision{
		CanModify:     creator || assigned,
		CanEditDelete: creator,
	}
}

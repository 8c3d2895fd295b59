package permission

import "github.com/rezkam/taskdesk/internal/domain"

// ComputePermissions returns the actor's decision for every task in the batch.
//
// The manager check runs once per call and assignment is read from the preloaded
// index, so no store access happens here. Each input task gets exactly one entry
// keyed by its id. Anonymous actors get an all-false decision for every task.
func (r *Resolver) ComputePermissions(actor domain.Actor, tasks []domain.Task, assignees domain.AssigneeIndex) domain.PermissionMap {
	out := make(domain.PermissionMap, len(tasks))

	m, ok := domain.MemberOf(actor)
	if !ok {
		for i := range tasks {
			out[tasks[i].ID] = domain.Decision{}
		}
		return out
	}

	manager := r.IsManager(actor)
	for i := range tasks {
		t := &tasks[i]
		out[t.ID] = decide(manager, m.WorkerID, t, assignees.For(t.ID))
	}
	return out
}

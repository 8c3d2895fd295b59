package task

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
)

// fakeRepository is an in-memory Repository that evaluates TaskQuery the way
// the store does and records the queries it receives.
type fakeRepository struct {
	mu sync.Mutex

	tasks     map[int64]*domain.Task
	assignees map[int64][]domain.WorkerSummary
	workers   map[int64]domain.WorkerSummary
	taskTypes map[int64]domain.TaskType
	nextID    int64

	lookupErr     error
	findTasksErr  error
	queries       []domain.TaskQuery
	statusUpdates int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		tasks:     make(map[int64]*domain.Task),
		assignees: make(map[int64][]domain.WorkerSummary),
		workers:   make(map[int64]domain.WorkerSummary),
		taskTypes: make(map[int64]domain.TaskType),
		nextID:    100,
	}
}

func (f *fakeRepository) addWorker(id int64, username string) domain.WorkerSummary {
	w := domain.WorkerSummary{ID: id, Username: username}
	f.workers[id] = w
	return w
}

func (f *fakeRepository) addTaskType(id int64, name string) domain.TaskType {
	tt := domain.TaskType{ID: id, Name: name}
	f.taskTypes[id] = tt
	return tt
}

func (f *fakeRepository) addTask(t domain.Task, assignees ...domain.WorkerSummary) *domain.Task {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(t.ID) * time.Hour)
	}
	if t.Status == "" {
		t.Status = domain.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.TaskPriorityMedium
	}
	f.tasks[t.ID] = &t
	if len(assignees) > 0 {
		f.assignees[t.ID] = assignees
	}
	return &t
}

func (f *fakeRepository) TaskTypeExists(_ context.Context, id int64) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	_, ok := f.taskTypes[id]
	return ok, nil
}

func (f *fakeRepository) WorkerExists(_ context.Context, id int64) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	_, ok := f.workers[id]
	return ok, nil
}

func (f *fakeRepository) matches(t *domain.Task, q domain.TaskQuery) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		hit := strings.Contains(strings.ToLower(t.Name), needle) ||
			(t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)) ||
			strings.Contains(strings.ToLower(t.TaskType.Name), needle)
		for _, a := range f.assignees[t.ID] {
			hit = hit || strings.Contains(strings.ToLower(a.Username), needle)
		}
		if !hit {
			return false
		}
	}
	if q.Status != nil && t.Status != *q.Status {
		return false
	}
	if q.Priority != nil && t.Priority != *q.Priority {
		return false
	}
	if q.TaskTypeID != nil && t.TaskType.ID != *q.TaskTypeID {
		return false
	}
	if q.AssigneeID != nil && !slices.ContainsFunc(f.assignees[t.ID], func(w domain.WorkerSummary) bool {
		return w.ID == *q.AssigneeID
	}) {
		return false
	}
	return true
}

func (f *fakeRepository) FindTasks(_ context.Context, q domain.TaskQuery) (*domain.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.findTasksErr != nil {
		return nil, f.findTasksErr
	}

	var all []domain.Task
	for _, t := range f.tasks {
		if f.matches(t, q) {
			all = append(all, *t)
		}
	}
	slices.SortFunc(all, func(a, b domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})

	total := len(all)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	page := all[start:end]

	idx := domain.AssigneeIndex{}
	for _, t := range page {
		if a, ok := f.assignees[t.ID]; ok {
			idx[t.ID] = a
		}
	}
	return &domain.TaskPage{Tasks: page, Assignees: idx, TotalCount: total, HasMore: end < total}, nil
}

func (f *fakeRepository) FindTaskByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepository) FindAssignees(_ context.Context, ids []int64) (domain.AssigneeIndex, error) {
	idx := domain.AssigneeIndex{}
	for _, id := range ids {
		if a, ok := f.assignees[id]; ok {
			idx[id] = a
		}
	}
	return idx, nil
}

func (f *fakeRepository) IsAssignee(_ context.Context, taskID, workerID int64) (bool, error) {
	return slices.ContainsFunc(f.assignees[taskID], func(w domain.WorkerSummary) bool {
		return w.ID == workerID
	}), nil
}

func (f *fakeRepository) CountWorkers(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := f.workers[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) CreateTask(_ context.Context, nt domain.NewTask) (*domain.Task, error) {
	f.nextID++
	t := domain.Task{
		ID:          f.nextID,
		Name:        nt.Name,
		Description: nt.Description,
		Deadline:    nt.Deadline,
		Status:      nt.Status,
		Priority:    nt.Priority,
		TaskType:    f.taskTypes[nt.TaskTypeID],
		CreatedBy:   f.workers[nt.CreatedByID],
		CreatedAt:   nt.CreatedAt,
		UpdatedAt:   nt.CreatedAt,
	}
	var assignees []domain.WorkerSummary
	for _, id := range nt.AssigneeIDs {
		assignees = append(assignees, f.workers[id])
	}
	return f.addTask(t, assignees...), nil
}

func (f *fakeRepository) UpdateTask(_ context.Context, p domain.UpdateTaskParams) (*domain.Task, error) {
	t, ok := f.tasks[p.TaskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if p.Has(domain.FieldName) {
		t.Name = *p.Name
	}
	if p.Has(domain.FieldDescription) {
		t.Description = p.Description
	}
	if p.Has(domain.FieldPriority) {
		t.Priority = *p.Priority
	}
	if p.Has(domain.FieldTaskType) {
		t.TaskType = f.taskTypes[*p.TaskTypeID]
	}
	if p.Has(domain.FieldAssignees) {
		var assignees []domain.WorkerSummary
		for _, id := range p.AssigneeIDs {
			assignees = append(assignees, f.workers[id])
		}
		f.assignees[t.ID] = assignees
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepository) UpdateTaskStatus(_ context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	f.statusUpdates++
	t.Status = status
	cp := *t
	return &cp, nil
}

func (f *fakeRepository) DeleteTask(_ context.Context, id int64) error {
	if _, ok := f.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	delete(f.assignees, id)
	return nil
}

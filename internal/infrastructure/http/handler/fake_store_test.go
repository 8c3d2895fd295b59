package handler_test

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
)

// fakeStore backs every service the handlers call.
type fakeStore struct {
	mu sync.Mutex

	positions []domain.Position
	taskTypes []domain.TaskType
	workers   map[int64]*domain.Worker
	tasks     map[int64]*domain.Task
	assignees map[int64][]int64
	nextID    int64

	weekly []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workers:   make(map[int64]*domain.Worker),
		tasks:     make(map[int64]*domain.Task),
		assignees: make(map[int64][]int64),
		nextID:    100,
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) summary(id int64) domain.WorkerSummary {
	if w, ok := f.workers[id]; ok {
		return domain.Summarize(w)
	}
	return domain.WorkerSummary{ID: id}
}

func (f *fakeStore) index(ids []int64) domain.AssigneeIndex {
	idx := domain.AssigneeIndex{}
	for _, id := range ids {
		for _, wid := range f.assignees[id] {
			idx[id] = append(idx[id], f.summary(wid))
		}
	}
	return idx
}

func (f *fakeStore) taskType(id int64) domain.TaskType {
	for _, tt := range f.taskTypes {
		if tt.ID == id {
			return tt
		}
	}
	return domain.TaskType{ID: id}
}

// Lookup

func (f *fakeStore) TaskTypeExists(_ context.Context, id int64) (bool, error) {
	return slices.ContainsFunc(f.taskTypes, func(tt domain.TaskType) bool { return tt.ID == id }), nil
}

func (f *fakeStore) WorkerExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.workers[id]
	return ok, nil
}

// task.Repository

func (f *fakeStore) FindTasks(_ context.Context, q domain.TaskQuery) (*domain.TaskPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []domain.Task
	for _, t := range f.tasks {
		if q.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Status != nil && t.Status != *q.Status {
			continue
		}
		if q.TaskTypeID != nil && t.TaskType.ID != *q.TaskTypeID {
			continue
		}
		all = append(all, *t)
	}
	slices.SortFunc(all, func(a, b domain.Task) int { return cmp.Compare(b.ID, a.ID) })

	total := len(all)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	page := all[start:end]

	ids := make([]int64, 0, len(page))
	for _, t := range page {
		ids = append(ids, t.ID)
	}
	return &domain.TaskPage{Tasks: page, Assignees: f.index(ids), TotalCount: total, HasMore: end < total}, nil
}

func (f *fakeStore) FindTaskByID(_ context.Context, id int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) FindAssignees(_ context.Context, ids []int64) (domain.AssigneeIndex, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index(ids), nil
}

func (f *fakeStore) IsAssignee(_ context.Context, taskID, workerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.assignees[taskID], workerID), nil
}

func (f *fakeStore) CountWorkers(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := f.workers[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateTask(_ context.Context, nt domain.NewTask) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &domain.Task{
		ID:          f.id(),
		Name:        nt.Name,
		Description: nt.Description,
		Deadline:    nt.Deadline,
		Status:      nt.Status,
		Priority:    nt.Priority,
		TaskType:    f.taskType(nt.TaskTypeID),
		CreatedBy:   f.summary(nt.CreatedByID),
		CreatedAt:   nt.CreatedAt,
		UpdatedAt:   nt.CreatedAt,
	}
	f.tasks[t.ID] = t
	f.assignees[t.ID] = nt.AssigneeIDs
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, p domain.UpdateTaskParams) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[p.TaskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if p.Has(domain.FieldName) {
		t.Name = *p.Name
	}
	if p.Has(domain.FieldPriority) {
		t.Priority = *p.Priority
	}
	if p.Has(domain.FieldAssignees) {
		f.assignees[t.ID] = p.AssigneeIDs
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpdateTaskStatus(_ context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	delete(f.assignees, id)
	return nil
}

// profile.Repository

func (f *fakeStore) WorkerStats(_ context.Context, workerID int64, windows []domain.WeekWindow, _ domain.StatsBasis) (*domain.WorkerTaskStats, []int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &domain.WorkerTaskStats{}
	for _, t := range f.tasks {
		if t.CreatedBy.ID == workerID {
			stats.CreatedCount++
		}
		if !slices.Contains(f.assignees[t.ID], workerID) {
			continue
		}
		stats.AssignedCount++
		switch t.Status {
		case domain.TaskStatusTodo:
			stats.StatusStats.Todo++
		case domain.TaskStatusInProgress:
			stats.StatusStats.InProgress++
		case domain.TaskStatusReview:
			stats.StatusStats.Review++
		case domain.TaskStatusDone:
			stats.StatusStats.Done++
			stats.CompletedCount++
		}
	}

	counts := make([]int, len(windows))
	copy(counts, f.weekly)
	return stats, counts, nil
}

func (f *fakeStore) FindActiveTasks(_ context.Context, workerID int64, limit int) ([]domain.Task, domain.AssigneeIndex, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Task
	for _, t := range f.tasks {
		if t.Status == domain.TaskStatusDone {
			continue
		}
		if t.CreatedBy.ID == workerID || slices.Contains(f.assignees[t.ID], workerID) {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b domain.Task) int { return cmp.Compare(b.ID, a.ID) })
	if len(out) > limit {
		out = out[:limit]
	}
	ids := make([]int64, 0, len(out))
	for _, t := range out {
		ids = append(ids, t.ID)
	}
	return out, f.index(ids), nil
}

// team.Repository

func (f *fakeStore) CreatePosition(_ context.Context, name string) (*domain.Position, error) {
	if slices.ContainsFunc(f.positions, func(p domain.Position) bool { return p.Name == name }) {
		return nil, domain.ErrDuplicate
	}
	p := domain.Position{ID: f.id(), Name: name}
	f.positions = append(f.positions, p)
	return &p, nil
}

func (f *fakeStore) ListPositions(_ context.Context) ([]domain.Position, error) {
	return slices.Clone(f.positions), nil
}

func (f *fakeStore) PositionExists(_ context.Context, id int64) (bool, error) {
	return slices.ContainsFunc(f.positions, func(p domain.Position) bool { return p.ID == id }), nil
}

func (f *fakeStore) CreateTaskType(_ context.Context, name string) (*domain.TaskType, error) {
	if slices.ContainsFunc(f.taskTypes, func(tt domain.TaskType) bool { return tt.Name == name }) {
		return nil, domain.ErrDuplicate
	}
	tt := domain.TaskType{ID: f.id(), Name: name}
	f.taskTypes = append(f.taskTypes, tt)
	return &tt, nil
}

func (f *fakeStore) ListTaskTypes(_ context.Context) ([]domain.TaskType, error) {
	return slices.Clone(f.taskTypes), nil
}

func (f *fakeStore) CreateWorker(_ context.Context, w domain.Worker) (*domain.Worker, error) {
	for _, existing := range f.workers {
		if existing.Username == w.Username || existing.Email == w.Email {
			return nil, domain.ErrDuplicate
		}
	}
	w.ID = f.id()
	f.workers[w.ID] = &w
	return &w, nil
}

func (f *fakeStore) ListWorkers(_ context.Context) ([]domain.Worker, error) {
	out := make([]domain.Worker, 0, len(f.workers))
	for _, w := range f.workers {
		out = append(out, *w)
	}
	slices.SortFunc(out, func(a, b domain.Worker) int { return cmp.Compare(a.Username, b.Username) })
	return out, nil
}

func (f *fakeStore) FindWorkerByID(_ context.Context, id int64) (*domain.Worker, error) {
	w, ok := f.workers[id]
	if !ok {
		return nil, domain.ErrWorkerNotFound
	}
	cp := *w
	return &cp, nil
}

// seed adds the workers, types and tasks most tests use:
// task 1 "Fix bug" by alice with bob assigned, task 2 "Write docs" by carol.
func (f *fakeStore) seed() {
	manager := domain.Position{ID: 1, Name: "Manager"}
	f.positions = []domain.Position{manager, {ID: 2, Name: "Developer"}}
	f.taskTypes = []domain.TaskType{{ID: 1, Name: "Bug"}, {ID: 2, Name: "Docs"}}

	f.workers[10] = &domain.Worker{ID: 10, Username: "alice", FirstName: "Alice", LastName: "Smith", IsActive: true}
	f.workers[11] = &domain.Worker{ID: 11, Username: "bob", IsActive: true}
	f.workers[12] = &domain.Worker{ID: 12, Username: "carol", IsActive: true, Position: &manager}

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.tasks[1] = &domain.Task{ID: 1, Name: "Fix bug", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityHigh,
		TaskType: f.taskTypes[0], CreatedBy: f.summary(10), CreatedAt: created}
	f.tasks[2] = &domain.Task{ID: 2, Name: "Write docs", Status: domain.TaskStatusReview, Priority: domain.TaskPriorityMedium,
		TaskType: f.taskTypes[1], CreatedBy: f.summary(12), CreatedAt: created.Add(time.Hour)}
	f.assignees[1] = []int64{11}
}

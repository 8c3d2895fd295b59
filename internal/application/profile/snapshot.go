package profile

import (
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
)

// Snapshot is the stored JSON form of a profile export.
type Snapshot struct {
	WorkerID       int64            `json:"worker_id"`
	Username       string           `json:"username"`
	GeneratedAt    time.Time        `json:"generated_at"`
	AssignedCount  int              `json:"assigned_count"`
	CreatedCount   int              `json:"created_count"`
	CompletedCount int              `json:"completed_count"`
	StatusStats    map[string]int   `json:"status_stats"`
	ActiveTasks    []SnapshotTask   `json:"active_tasks"`
	WeeklyStats    []SnapshotWindow `json:"weekly_stats"`
}

// SnapshotTask is an active task entry in a Snapshot.
type SnapshotTask struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	Deadline  time.Time `json:"deadline"`
	Assignees []string  `json:"assignees"`
}

// SnapshotWindow is one weekly bucket in a Snapshot.
type SnapshotWindow struct {
	Week      string `json:"week"`
	Completed int    `json:"completed"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
}

// NewSnapshot builds the export document for a member's profile.
func NewSnapshot(m domain.Member, data *domain.ProfileData, generated time.Time) Snapshot {
	s := Snapshot{
		WorkerID:       m.WorkerID,
		Username:       m.Username,
		GeneratedAt:    generated,
		AssignedCount:  data.AssignedCount,
		CreatedCount:   data.CreatedCount,
		CompletedCount: data.CompletedCount,
		StatusStats:    StatusMap(data.StatusStats),
		ActiveTasks:    make([]SnapshotTask, 0, len(data.ActiveTasks)),
		WeeklyStats:    make([]SnapshotWindow, 0, len(data.WeeklyStats)),
	}

	for _, t := range data.ActiveTasks {
		entry := SnapshotTask{
			ID:        t.ID,
			Name:      t.Name,
			Status:    string(t.Status),
			Priority:  string(t.Priority),
			Deadline:  t.Deadline,
			Assignees: []string{},
		}
		for _, a := range data.ActiveAssignees.For(t.ID) {
			entry.Assignees = append(entry.Assignees, a.Username)
		}
		s.ActiveTasks = append(s.ActiveTasks, entry)
	}

	for _, w := range data.WeeklyStats {
		s.WeeklyStats = append(s.WeeklyStats, SnapshotWindow{
			Week:      w.Label,
			Completed: w.Completed,
			WeekStart: w.StartLabel,
			WeekEnd:   w.EndLabel,
		})
	}
	return s
}

// StatusMap keys the status breakdown by status value.
func StatusMap(c domain.StatusCounts) map[string]int {
	return map[string]int{
		string(domain.TaskStatusTodo):       c.Todo,
		string(domain.TaskStatusInProgress): c.InProgress,
		string(domain.TaskStatusReview):     c.Review,
		string(domain.TaskStatusDone):       c.Done,
	}
}

package handler

import (
	"time"

	"github.com/rezkam/taskdesk/internal/application/profile"
	"github.com/rezkam/taskdesk/internal/domain"
)

// PositionDTO is a position in responses.
type PositionDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskTypeDTO is a task type in responses.
type TaskTypeDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WorkerSummaryDTO is the slim worker form attached to tasks.
type WorkerSummaryDTO struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Position    *string `json:"position,omitempty"`
}

// WorkerDTO is a full worker record.
type WorkerDTO struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	DisplayName string       `json:"display_name"`
	IsStaff     bool         `json:"is_staff"`
	IsSuperuser bool         `json:"is_superuser"`
	Position    *PositionDTO `json:"position,omitempty"`
	DateJoined  time.Time    `json:"date_joined"`
}

// PermissionDTO is the caller's rights on one task.
type PermissionDTO struct {
	CanModify     bool `json:"can_modify"`
	CanEditDelete bool `json:"can_edit_delete"`
}

// TaskDTO is a task with its assignees.
type TaskDTO struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Description     *string            `json:"description,omitempty"`
	Deadline        time.Time          `json:"deadline"`
	Status          string             `json:"status"`
	StatusDisplay   string             `json:"status_display"`
	Priority        string             `json:"priority"`
	PriorityDisplay string             `json:"priority_display"`
	TaskType        TaskTypeDTO        `json:"task_type"`
	CreatedBy       WorkerSummaryDTO   `json:"created_by"`
	Assignees       []WorkerSummaryDTO `json:"assignees"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	Permissions     *PermissionDTO     `json:"permissions,omitempty"`
}

// FilterDTO echoes how the filter parameters were understood.
type FilterDTO struct {
	Values map[string]string `json:"values"`
	Errors map[string]string `json:"errors"`
	Valid  bool              `json:"valid"`
	Search string            `json:"search"`
	Sticky string            `json:"sticky"`
}

// ListTasksResponse is one page of tasks.
type ListTasksResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Filter     FilterDTO `json:"filter"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int       `json:"total_count"`
	PrevPage   *string   `json:"prev_page,omitempty"`
	NextPage   *string   `json:"next_page,omitempty"`
}

// ColumnDTO is one kanban column.
type ColumnDTO struct {
	Status  string    `json:"status"`
	Display string    `json:"display"`
	Count   int       `json:"count"`
	Tasks   []TaskDTO `json:"tasks"`
}

// KanbanResponse is the board in column order.
// Total counts the tasks on the board; TotalCount counts every match and only
// differs from it when Truncated is set.
type KanbanResponse struct {
	Columns    []ColumnDTO `json:"columns"`
	Total      int         `json:"total"`
	TotalCount int         `json:"total_count"`
	Truncated  bool        `json:"truncated"`
	Filter     FilterDTO   `json:"filter"`
}

// StatusToggleResponse keeps the shape browser scripts already consume.
type StatusToggleResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status,omitempty"`
	StatusDisplay string `json:"status_display,omitempty"`
	Error         string `json:"error,omitempty"`
}

// WeeklyStatDTO is one bucket of the completion trend.
type WeeklyStatDTO struct {
	Week      string `json:"week"`
	Completed int    `json:"completed"`
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
}

// ProfileResponse is the dashboard payload.
type ProfileResponse struct {
	AssignedCount  int             `json:"assigned_count"`
	CreatedCount   int             `json:"created_count"`
	CompletedCount int             `json:"completed_count"`
	StatusStats    map[string]int  `json:"status_stats"`
	ActiveTasks    []TaskDTO       `json:"active_tasks"`
	WeeklyStats    []WeeklyStatDTO `json:"weekly_stats"`
}

// ExportDTO names a stored profile snapshot.
type ExportDTO struct {
	Name string `json:"name"`
	File string `json:"file"`
}

func mapPosition(p *domain.Position) *PositionDTO {
	if p == nil {
		return nil
	}
	return &PositionDTO{ID: p.ID, Name: p.Name}
}

func mapSummary(w domain.WorkerSummary) WorkerSummaryDTO {
	dto := WorkerSummaryDTO{
		ID:          w.ID,
		Username:    w.Username,
		DisplayName: w.DisplayName(),
	}
	if w.Position != nil {
		dto.Position = &w.Position.Name
	}
	return dto
}

func mapWorker(w *domain.Worker) WorkerDTO {
	return WorkerDTO{
		ID:          w.ID,
		Username:    w.Username,
		Email:       w.Email,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		DisplayName: w.DisplayName(),
		IsStaff:     w.IsStaff,
		IsSuperuser: w.IsSuperuser,
		Position:    mapPosition(w.Position),
		DateJoined:  w.DateJoined,
	}
}

// mapTask converts a task. perms is nil when the caller's rights are not part of the response.
func mapTask(t *domain.Task, assignees []domain.WorkerSummary, perms *domain.Decision) TaskDTO {
	dto := TaskDTO{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Deadline:        t.Deadline,
		Status:          string(t.Status),
		StatusDisplay:   t.Status.Display(),
		Priority:        string(t.Priority),
		PriorityDisplay: t.Priority.Display(),
		TaskType:        TaskTypeDTO{ID: t.TaskType.ID, Name: t.TaskType.Name},
		CreatedBy:       mapSummary(t.CreatedBy),
		Assignees:       make([]WorkerSummaryDTO, 0, len(assignees)),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		CompletedAt:     t.CompletedAt,
	}
	for _, a := range assignees {
		dto.Assignees = append(dto.Assignees, mapSummary(a))
	}
	if perms != nil {
		dto.Permissions = &PermissionDTO{CanModify: perms.CanModify, CanEditDelete: perms.CanEditDelete}
	}
	return dto
}

func mapTasks(tasks []domain.Task, idx domain.AssigneeIndex, perms domain.PermissionMap) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for i := range tasks {
		var d *domain.Decision
		if perms != nil {
			decision := perms[tasks[i].ID]
			d = &decision
		}
		out = append(out, mapTask(&tasks[i], idx.For(tasks[i].ID), d))
	}
	return out
}

func mapFilter(form domain.FilterForm, search, sticky string) FilterDTO {
	dto := FilterDTO{
		Values: form.Values,
		Errors: form.Errors,
		Valid:  form.Valid,
		Search: search,
		Sticky: sticky,
	}
	if dto.Values == nil {
		dto.Values = map[string]string{}
	}
	if dto.Errors == nil {
		dto.Errors = map[string]string{}
	}
	return dto
}

func mapProfile(data *domain.ProfileData) ProfileResponse {
	resp := ProfileResponse{
		AssignedCount:  data.AssignedCount,
		CreatedCount:   data.CreatedCount,
		CompletedCount: data.CompletedCount,
		StatusStats:    profile.StatusMap(data.StatusStats),
		ActiveTasks:    mapTasks(data.ActiveTasks, data.ActiveAssignees, nil),
		WeeklyStats:    make([]WeeklyStatDTO, 0, len(data.WeeklyStats)),
	}
	for _, w := range data.WeeklyStats {
		resp.WeeklyStats = append(resp.WeeklyStats, WeeklyStatDTO{
			Week:      w.Label,
			Completed: w.Completed,
			WeekStart: w.StartLabel,
			WeekEnd:   w.EndLabel,
		})
	}
	return resp
}

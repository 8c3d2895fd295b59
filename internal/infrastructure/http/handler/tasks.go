package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/http/response"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Priority    string     `json:"priority"`
	TaskTypeID  int64      `json:"task_type_id"`
	AssigneeIDs []int64    `json:"assignee_ids"`
}

// TaskFields carries the editable fields of PATCH /tasks/{id}.
type TaskFields struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Deadline    *time.Time           `json:"deadline"`
	Priority    *domain.TaskPriority `json:"priority"`
	TaskTypeID  *int64               `json:"task_type_id"`
	AssigneeIDs []int64              `json:"assignee_ids"`
}

// UpdateTaskRequest is the body of PATCH /tasks/{id}. Only fields named in
// update_mask are applied.
type UpdateTaskRequest struct {
	Task       TaskFields `json:"task"`
	UpdateMask []string   `json:"update_mask"`
}

// ListTasks handles GET /tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	result, err := h.tasks.ListTasks(r.Context(), actor(r), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	prev, next := pageLinks(result.Sticky, result.Page, result.HasMore)
	response.OK(w, ListTasksResponse{
		Tasks:      mapTasks(result.Tasks, result.Assignees, result.Permissions),
		Filter:     mapFilter(result.Form, result.Search, result.Sticky),
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		PrevPage:   prev,
		NextPage:   next,
	})
}

// Kanban handles GET /tasks/kanban.
func (h *Handler) Kanban(w http.ResponseWriter, r *http.Request) {
	result, err := h.tasks.Kanban(r.Context(), actor(r), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := KanbanResponse{
		Columns:    make([]ColumnDTO, 0, len(domain.TaskStatuses())),
		Total:      result.Board.Len(),
		TotalCount: result.TotalCount,
		Truncated:  result.Truncated,
		Filter:     mapFilter(result.Form, result.Search, result.Sticky),
	}
	for _, status := range domain.TaskStatuses() {
		column := result.Board.Column(status)
		resp.Columns = append(resp.Columns, ColumnDTO{
			Status:  string(status),
			Display: status.Display(),
			Count:   len(column),
			Tasks:   mapTasks(column, result.Assignees, result.Permissions),
		})
	}
	response.OK(w, resp)
}

// GetTask handles GET /tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.tasks.GetTask(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, mapTask(detail.Task, detail.Assignees, &detail.Permission))
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	created, err := h.tasks.CreateTask(r.Context(), actor(r), domain.CreateTaskParams{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		TaskTypeID:  req.TaskTypeID,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, mapTask(created, h.assigneesOf(r, created.ID), nil))
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req UpdateTaskRequest
	if !decode(w, r, &req) {
		return
	}

	updated, err := h.tasks.UpdateTask(r.Context(), actor(r), domain.UpdateTaskParams{
		TaskID:      id,
		UpdateMask:  req.UpdateMask,
		Name:        req.Task.Name,
		Description: req.Task.Description,
		Deadline:    req.Task.Deadline,
		Priority:    req.Task.Priority,
		TaskTypeID:  req.Task.TaskTypeID,
		AssigneeIDs: req.Task.AssigneeIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, mapTask(updated, h.assigneesOf(r, updated.ID), nil))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// assigneesOf reloads assignees for a task just written. Failure only drops them
// from the response; the write already succeeded.
func (h *Handler) assigneesOf(r *http.Request, id int64) []domain.WorkerSummary {
	detail, err := h.tasks.GetTask(r.Context(), actor(r), id)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to reload task assignees", "task_id", id, "error", err)
		return nil
	}
	return detail.Assignees
}

// StatusToggleRequest is the body of POST /tasks/{id}/status.
type StatusToggleRequest struct {
	Status string `json:"status"`
}

// ToggleStatus handles POST /tasks/{id}/status.
// The value is read from a JSON body, or from a form field for plain HTML forms.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		toggleFailure(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var raw string
	if isJSON(r) {
		var req StatusToggleRequest
		if err := decodeBody(r, &req); err != nil {
			toggleFailure(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		raw = req.Status
	} else {
		raw = r.FormValue("status")
	}

	change, err := h.tasks.ToggleStatus(r.Context(), actor(r), id, raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			toggleFailure(w, http.StatusUnauthorized, "Authentication required")
		case errors.Is(err, domain.ErrTaskNotFound):
			toggleFailure(w, http.StatusNotFound, "Task not found")
		case errors.Is(err, domain.ErrForbidden):
			toggleFailure(w, http.StatusForbidden, "Permission denied")
		case errors.Is(err, domain.ErrInvalidTaskStatus):
			toggleFailure(w, http.StatusBadRequest, "Invalid status")
		default:
			slog.ErrorContext(r.Context(), "status toggle failed", "task_id", id, "error", err)
			toggleFailure(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	response.OK(w, StatusToggleResponse{
		Success:       true,
		Status:        string(change.Status),
		StatusDisplay: change.StatusDisplay,
	})
}

func toggleFailure(w http.ResponseWriter, status int, message string) {
	response.JSON(w, status, StatusToggleResponse{Success: false, Error: message})
}

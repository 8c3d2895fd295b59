// Package handler adapts HTTP requests to the task, profile and team services.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskdesk/internal/application/profile"
	"github.com/rezkam/taskdesk/internal/application/task"
	"github.com/rezkam/taskdesk/internal/application/team"
	"github.com/rezkam/taskdesk/internal/domain"
	mw "github.com/rezkam/taskdesk/internal/infrastructure/http/middleware"
	"github.com/rezkam/taskdesk/internal/infrastructure/http/response"
)

// Handler serves the /api/v1 resources.
type Handler struct {
	tasks    *task.Service
	profiles *profile.Service
	team     *team.Service
}

// New creates a handler over the application services.
func New(tasks *task.Service, profiles *profile.Service, team *team.Service) *Handler {
	return &Handler{
		tasks:    tasks,
		profiles: profiles,
		team:     team,
	}
}

// Routes returns the API router. The caller mounts it and resolves the actor
// with middleware.Auth before these handlers run.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Get("/kanban", h.Kanban)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Patch("/", h.UpdateTask)
			r.Delete("/", h.DeleteTask)
			r.Post("/status", h.ToggleStatus)
		})
	})

	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Post("/exports", h.ExportProfile)
		r.Get("/exports", h.ListExports)
		r.Get("/exports/{file}", h.DownloadExport)
	})

	r.Get("/positions", h.ListPositions)
	r.Post("/positions", h.CreatePosition)
	r.Get("/task-types", h.ListTaskTypes)
	r.Post("/task-types", h.CreateTaskType)
	r.Get("/workers", h.ListWorkers)
	r.Post("/workers", h.RegisterWorker)
	r.Get("/me", h.Me)

	return r
}

func actor(r *http.Request) domain.Actor {
	return mw.ActorFrom(r.Context())
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// decode reads a JSON body into dst and writes a 400 when it cannot.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeBody(r, dst); err != nil {
		response.BadRequest(w, "invalid JSON")
		return false
	}
	return true
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// fieldErrors names the request field a validation error belongs to.
var fieldErrors = []struct {
	err   error
	field string
}{
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameTooLong, "name"},
	{domain.ErrDescriptionTooLong, "description"},
	{domain.ErrDeadlineRequired, "deadline"},
	{domain.ErrTaskTypeRequired, "task_type_id"},
	{domain.ErrInvalidTaskPriority, "priority"},
	{domain.ErrInvalidTaskStatus, "status"},
	{domain.ErrUnknownField, "update_mask"},
	{domain.ErrEmptyUpdateMask, "update_mask"},
	{domain.ErrUsernameRequired, "username"},
	{domain.ErrUsernameTooLong, "username"},
	{domain.ErrInvalidEmail, "email"},
	{domain.ErrPersonNameRequired, "first_name"},
}

// writeError maps a service error, attaching the offending field when known.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			response.FromDomainFieldError(w, r, fe.field, err)
			return
		}
	}
	if errors.Is(err, profile.ErrExportDisabled) {
		response.Error(w, "EXPORT_DISABLED", err.Error(), http.StatusNotImplemented)
		return
	}
	response.FromDomainError(w, r, err)
}

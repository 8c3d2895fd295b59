package handler

import (
	"net/http"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/http/response"
)

// NameRequest is the body for creating positions and task types.
type NameRequest struct {
	Name string `json:"name"`
}

// RegisterWorkerRequest is the body of POST /workers.
type RegisterWorkerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PositionID *int64 `json:"position_id"`
}

// ListPositions handles GET /positions. Open to anonymous callers so sign-up
// forms can offer a position.
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.team.ListPositions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]PositionDTO, 0, len(positions))
	for i := range positions {
		out = append(out, *mapPosition(&positions[i]))
	}
	response.OK(w, map[string]any{"positions": out})
}

// CreatePosition handles POST /positions.
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.team.CreatePosition(r.Context(), actor(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, mapPosition(p))
}

// ListTaskTypes handles GET /task-types.
func (h *Handler) ListTaskTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.team.ListTaskTypes(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]TaskTypeDTO, 0, len(types))
	for _, tt := range types {
		out = append(out, TaskTypeDTO{ID: tt.ID, Name: tt.Name})
	}
	response.OK(w, map[string]any{"task_types": out})
}

// CreateTaskType handles POST /task-types.
func (h *Handler) CreateTaskType(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decode(w, r, &req) {
		return
	}

	tt, err := h.team.CreateTaskType(r.Context(), actor(r), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, TaskTypeDTO{ID: tt.ID, Name: tt.Name})
}

// ListWorkers handles GET /workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.team.ListWorkers(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]WorkerDTO, 0, len(workers))
	for i := range workers {
		out = append(out, mapWorker(&workers[i]))
	}
	response.OK(w, map[string]any{"workers": out})
}

// RegisterWorker handles POST /workers.
func (h *Handler) RegisterWorker(w http.ResponseWriter, r *http.Request) {
	var req RegisterWorkerRequest
	if !decode(w, r, &req) {
		return
	}

	created, err := h.team.RegisterWorker(r.Context(), domain.RegisterWorkerParams{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		PositionID: req.PositionID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, mapWorker(created))
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.team.Me(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, mapWorker(me))
}

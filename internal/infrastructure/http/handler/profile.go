package handler

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskdesk/internal/infrastructure/http/response"
)

// GetProfile handles GET /profile?weeks=N.
// Anonymous callers receive the empty dashboard rather than an error.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	data, err := h.profiles.ComputeProfile(r.Context(), actor(r), parseWeeks(r.URL.Query().Get("weeks")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, mapProfile(data))
}

// ExportProfile handles POST /profile/exports?weeks=N.
func (h *Handler) ExportProfile(w http.ResponseWriter, r *http.Request) {
	name, err := h.profiles.ExportProfile(r.Context(), actor(r), parseWeeks(r.URL.Query().Get("weeks")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, ExportDTO{Name: name, File: path.Base(name)})
}

// ListExports handles GET /profile/exports.
func (h *Handler) ListExports(w http.ResponseWriter, r *http.Request) {
	names, err := h.profiles.ListExports(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	exports := make([]ExportDTO, 0, len(names))
	for _, n := range names {
		exports = append(exports, ExportDTO{Name: n, File: path.Base(n)})
	}
	response.OK(w, map[string]any{"exports": exports})
}

// DownloadExport handles GET /profile/exports/{file}.
// The stored document is already JSON and is written unchanged.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	data, err := h.profiles.ReadExport(r.Context(), actor(r), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(r.Context(), "failed to write profile export", "file", file, "error", err)
	}
}

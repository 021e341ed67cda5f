package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/krishakhanal/Tasks-API/internal/apperrors"
	"github.com/krishakhanal/Tasks-API/internal/models"
	"github.com/krishakhanal/Tasks-API/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a new Handlers instance. A nil logger uses slog.Default.
func New(s store.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		store:  s,
		logger: logger,
	}
}

// parseID extracts and parses a base-10 integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// taskID returns the {id} path parameter. ok is false when it is not an
// integer, in which case it can match no task.
func taskID(r *http.Request) (id int64, ok bool) {
	id, err := parseID(r, "id")
	return id, err == nil
}

// loadTasks reads the whole collection, logging storage failures.
func (h *Handlers) loadTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := h.store.Load(ctx)
	if err != nil {
		h.logger.Error("Error loading tasks", "error", err)
		return nil, err
	}
	return tasks, nil
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an {"error": message} response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

// fail answers with the status carried by err. Anything that is not a
// client error is logged and answered with a generic 500.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.From(err)
	if appErr.Code >= http.StatusInternalServerError {
		h.logger.Error("Error:", "method", r.Method, "url", r.URL.RequestURI(), "error", err)
	}
	respondError(w, appErr.Code, appErr.PublicMessage())
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"net/http"

	"github.com/krishakhanal/Tasks-API/internal/apperrors"
	"github.com/krishakhanal/Tasks-API/internal/models"
)

const taskNotFound = "Task not found"

// ListTasks returns all tasks, optionally filtered by the status query
// parameter.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.loadTasks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tasks = models.FilterByStatus(tasks, r.URL.Query().Get("status"))
	respondJSON(w, http.StatusOK, tasks)
}

// GetTask returns a single task.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.loadTasks(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id, ok := taskID(r)
	idx := models.IndexOf(tasks, id)
	if !ok || idx == -1 {
		h.fail(w, r, apperrors.NewNotFoundError(taskNotFound))
		return
	}

	respondJSON(w, http.StatusOK, tasks[idx])
}

// CreateTask appends a new task with the next free ID.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in := InputFromContext(ctx)

	tasks, err := h.loadTasks(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task := models.Task{
		ID:          models.NextID(tasks),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
	}
	tasks = append(tasks, task)

	if err := h.store.Save(ctx, tasks); err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask replaces the name, description and status of an existing task.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in := InputFromContext(ctx)
	found, _ := TaskFromContext(ctx)

	tasks, err := h.loadTasks(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// The task may have been deleted since the existence check loaded it.
	idx := models.IndexOf(tasks, found.ID)
	if idx == -1 {
		h.fail(w, r, apperrors.NewNotFoundError(taskNotFound))
		return
	}
	tasks[idx].Apply(in)

	if err := h.store.Save(ctx, tasks); err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks[idx])
}

// PatchTask replaces only the status of an existing task.
func (h *Handlers) PatchTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in := InputFromContext(ctx)
	found, _ := TaskFromContext(ctx)

	if err := in.ValidateStatus(); err != nil {
		h.fail(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	tasks, err := h.loadTasks(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	idx := models.IndexOf(tasks, found.ID)
	if idx == -1 {
		h.fail(w, r, apperrors.NewNotFoundError(taskNotFound))
		return
	}
	tasks[idx].Status = in.Status

	if err := h.store.Save(ctx, tasks); err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tasks[idx])
}

// DeleteTask removes an existing task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	found, _ := TaskFromContext(ctx)

	tasks, err := h.loadTasks(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.store.Save(ctx, models.Remove(tasks, found.ID)); err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

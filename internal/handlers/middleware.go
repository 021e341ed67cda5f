package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/krishakhanal/Tasks-API/internal/apperrors"
	"github.com/krishakhanal/Tasks-API/internal/models"
)

// maxBodyBytes caps request bodies at 100KB.
const maxBodyBytes = 100 << 10

type ctxKey int

const (
	inputKey ctxKey = iota
	taskKey
)

// InputFromContext returns the decoded request body, or a zero TaskInput.
func InputFromContext(ctx context.Context) models.TaskInput {
	in, _ := ctx.Value(inputKey).(models.TaskInput)
	return in
}

// TaskFromContext returns the task found by the existence check.
func TaskFromContext(ctx context.Context) (models.Task, bool) {
	task, ok := ctx.Value(taskKey).(models.Task)
	return task, ok
}

// logRequest logs "<METHOD> <URL>" for every request.
func (h *Handlers) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info(fmt.Sprintf("%s %s", r.Method, r.URL.RequestURI()))
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a panic into a logged 500 with a generic JSON body. If
// the handler already sent a status line, only the log entry is written.
func (h *Handlers) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			h.logger.Error("Error:", "panic", rvr, "stack", string(debug.Stack()))
			if ww.Status() != 0 || r.Header.Get("Connection") == "Upgrade" {
				return
			}
			respondError(ww, http.StatusInternalServerError, apperrors.InternalMessage)
		}()
		next.ServeHTTP(ww, r)
	})
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeTaskInput reads exactly one JSON value from body. An empty body
// yields a zero input.
func decodeTaskInput(body io.Reader) (models.TaskInput, error) {
	var in models.TaskInput
	dec := json.NewDecoder(body)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return models.TaskInput{}, nil
		}
		return in, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return in, err
	}
	return in, nil
}

// parseJSONBody decodes the request body into a TaskInput and stores it in
// the request context.
func parseJSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in models.TaskInput
		if r.Body != nil {
			var err error
			in, err = decodeTaskInput(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			var tooLarge *http.MaxBytesError
			switch {
			case err == nil:
			case errors.As(err, &tooLarge):
				respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			default:
				respondError(w, http.StatusBadRequest, "Invalid JSON body")
				return
			}
		}

		ctx := context.WithValue(r.Context(), inputKey, in)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireFields rejects bodies without both a name and a status.
func (h *Handlers) requireFields(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := InputFromContext(r.Context()).Validate(); err != nil {
			h.fail(w, r, apperrors.NewValidationError(err.Error()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireTask answers 404 unless the {id} path parameter names an existing
// task. The found task is attached to the request context.
func (h *Handlers) requireTask(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tasks, err := h.loadTasks(ctx)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		idx := -1
		if id, ok := taskID(r); ok {
			idx = models.IndexOf(tasks, id)
		}
		if idx == -1 {
			h.logger.Error(fmt.Sprintf("Task with ID %s not found.", chi.URLParam(r, "id")))
			h.fail(w, r, apperrors.NewNotFoundError(taskNotFound))
			return
		}

		ctx = context.WithValue(ctx, taskKey, tasks[idx])
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the router for the task API.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(h.logRequest)
	r.Use(h.recoverer)
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", h.Health)

	// Task API routes. Bodies are decoded after the existence check so a
	// missing task answers 404 whatever the body holds.
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.With(parseJSONBody, h.requireFields).Post("/", h.CreateTask)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.With(h.requireTask, parseJSONBody, h.requireFields).Put("/", h.UpdateTask)
			r.With(h.requireTask, parseJSONBody).Patch("/", h.PatchTask)
			r.With(h.requireTask).Delete("/", h.DeleteTask)
		})
	})

	return r
}

package models

import "errors"

// ErrRequiredFields is returned when a task body lacks a name or a status.
var ErrRequiredFields = errors.New("Name and status are required")

// ErrStatusRequired is returned when a status update carries no status.
var ErrStatusRequired = errors.New("Status is required")

// Task is a single tracked item.
type Task struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"` // free text, e.g. "todo", "done"
}

// TaskInput is the request body accepted by create, update and patch.
// Every field is optional at decode time; an empty string counts as missing.
type TaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Validate checks that both name and status are present.
func (in TaskInput) Validate() error {
	if in.Name == "" || in.Status == "" {
		return ErrRequiredFields
	}
	return nil
}

// ValidateStatus checks that a status is present.
func (in TaskInput) ValidateStatus() error {
	if in.Status == "" {
		return ErrStatusRequired
	}
	return nil
}

// Apply overwrites name, description and status, keeping the ID.
func (t *Task) Apply(in TaskInput) {
	t.Name = in.Name
	t.Description = in.Description
	t.Status = in.Status
}

// NextID returns the ID for a new task: one past the highest existing ID,
// or 1 for an empty collection.
func NextID(tasks []Task) int64 {
	var highest int64
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// IndexOf returns the position of the task with the given ID, or -1.
func IndexOf(tasks []Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FilterByStatus returns the tasks whose status equals status, in order.
// An empty status returns the collection unchanged.
func FilterByStatus(tasks []Task, status string) []Task {
	if status == "" {
		return tasks
	}
	filtered := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Remove returns the collection without the task that has the given ID.
func Remove(tasks []Task, id int64) []Task {
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return kept
}

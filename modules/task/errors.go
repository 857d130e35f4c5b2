package task

import "errors"

// Error taxonomy for task operations. The API layer maps these onto
// HTTP statuses: validation 400, not-owner 403, not-found 404,
// title conflict 409.
var (
	// ErrTitleRequired is returned when the title is empty after trimming.
	ErrTitleRequired = errors.New("title is required")
	// ErrDescriptionRequired is returned when the description is empty after trimming.
	ErrDescriptionRequired = errors.New("description is required")
	// ErrInvalidPriority is returned when the priority is not low/medium/high.
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
	// ErrTitleExists is returned when the owner already has a task with this title.
	ErrTitleExists = errors.New("a task with this title already exists")
	// ErrNotFound is returned when the task id is unknown.
	ErrNotFound = errors.New("task not found")
	// ErrNotOwner is returned when the caller does not own the task.
	ErrNotOwner = errors.New("not authorized")
)

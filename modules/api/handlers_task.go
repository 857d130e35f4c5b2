package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/task-manager/modules/task"
)

// CreateTask handles task creation for the authenticated user.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.tasks.Create(c.UserContext(), task.CreateTaskRequest{
		UserID:      claims.UserID,
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Status:      body.Status,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": created})
}

// ListTasks returns all of the caller's tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	tasks, err := h.tasks.List(c.UserContext(), claims.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"length": len(tasks),
		"tasks":  tasks,
	})
}

// GetTask returns one of the caller's tasks.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	found, err := h.tasks.Get(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"task": found})
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.tasks.Update(c.UserContext(), task.UpdateTaskRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
		Priority:    body.Priority,
		Status:      body.Status,
		Completed:   body.Completed,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"task": updated})
}

// DeleteTask removes one of the caller's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	deleted, err := h.tasks.Delete(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"task": deleted})
}

// TaskStatus returns the caller's 30-day task statistics.
func (h *Handlers) TaskStatus(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	stats, err := h.tasks.Statistics(c.UserContext(), claims.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

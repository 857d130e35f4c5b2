package api

import (
	"github.com/gofiber/fiber/v2"
)

// CreateNotification persists a notification for the caller.
func (h *Handlers) CreateNotification(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	var body CreateNotificationBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.notifications.Create(c.UserContext(), claims.UserID, body.Message, body.TaskID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"notification": created})
}

// ListNotifications returns a user's notifications, newest first. A
// caller may only read their own.
func (h *Handlers) ListNotifications(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	userID := c.Params("userId")
	if userID != claims.UserID {
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Not authorized",
		})
	}

	notifications, unread, err := h.notifications.List(c.UserContext(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"notifications": notifications,
		"unread":        unread,
	})
}

// UpdateNotification marks a notification as read.
func (h *Handlers) UpdateNotification(c *fiber.Ctx) error {
	claims := CurrentUser(c)

	updated, err := h.notifications.MarkRead(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"notification": updated})
}

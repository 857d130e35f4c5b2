package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// handleServiceError maps a service error to an HTTP response. Errors
// cross the service container as message strings, so matching happens
// on known sentinel texts.
func handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	// Validation
	case strings.Contains(errStr, "all fields are required"),
		strings.Contains(errStr, "invalid email format"),
		strings.Contains(errStr, "password must be at least"),
		strings.Contains(errStr, "password must be at most"),
		strings.Contains(errStr, "title is required"),
		strings.Contains(errStr, "description is required"),
		strings.Contains(errStr, "priority must be one of"),
		strings.Contains(errStr, "notification message is required"),
		strings.Contains(errStr, "notification user is required"),
		strings.Contains(errStr, "user is already verified"),
		strings.Contains(errStr, "verification token not found or expired"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: sentinelMessage(errStr),
		})

	// Authentication
	case strings.Contains(errStr, "invalid email or password"),
		strings.Contains(errStr, "invalid token"),
		strings.Contains(errStr, "token has expired"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: sentinelMessage(errStr),
		})

	// Authorization
	case strings.Contains(errStr, "not authorized"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Not authorized",
		})

	// Not found
	case strings.Contains(errStr, "task not found"),
		strings.Contains(errStr, "notification not found"),
		strings.Contains(errStr, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: sentinelMessage(errStr),
		})

	// Conflict
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: sentinelMessage(errStr),
		})

	default:
		// Log the actual error but don't expose it to the client.
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// sentinelMessage strips the transport wrapping so only the sentinel
// text reaches the client.
func sentinelMessage(errStr string) string {
	if idx := strings.LastIndex(errStr, ": "); idx >= 0 {
		return capitalize(errStr[idx+2:])
	}
	return capitalize(errStr)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

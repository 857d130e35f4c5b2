package api

import "time"

// CreateTaskBody is the request body for task creation.
type CreateTaskBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// UpdateTaskBody is the request body for task updates. Fields left out
// of the JSON body stay untouched; fields present replace the stored
// value, including false and empty strings. A zero due_date clears the
// due date.
type UpdateTaskBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	Completed   *bool      `json:"completed"`
}

// CreateNotificationBody is the request body for manual notification
// creation.
type CreateNotificationBody struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// ChangePasswordBody is the request body for a password change.
type ChangePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ForgotPasswordBody is the request body for starting a password reset.
type ForgotPasswordBody struct {
	Email string `json:"email"`
}

// ResetPasswordBody is the request body for completing a password reset.
type ResetPasswordBody struct {
	Password string `json:"password"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

package api

import (
	"encoding/json"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"

	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/notification"
	"github.com/example/task-manager/modules/task"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	tasks         task.TaskPort
	notifications notification.NotificationPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, authAdapter auth.AuthPort, tasks task.TaskPort, notifications notification.NotificationPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		authAdapter:   authAdapter,
		tasks:         tasks,
		notifications: notifications,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var resp auth.RegisterResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceRegister,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	setTokenCookies(c, resp.Tokens)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	var resp auth.LoginResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceLogin,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}

	setTokenCookies(c, resp.Tokens)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Logout clears the token cookies. Tokens themselves stay valid until
// expiry, there is no server-side session state.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	clearTokenCookies(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// Refresh handles token refresh from the body or the refresh cookie.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req auth.RefreshRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(RefreshTokenCookie)
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	var resp auth.RefreshResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceRefreshToken,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	setTokenCookies(c, resp.Tokens)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// LoginStatus reports whether the caller holds a valid access token.
// The body is a bare boolean so browser clients can poll it cheaply.
func (h *Handlers) LoginStatus(c *fiber.Ctx) error {
	token := extractToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(false)
	}
	if _, err := h.authAdapter.ValidateToken(c.UserContext(), token); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(false)
	}
	return c.JSON(true)
}

// CurrentUser returns the authenticated user's profile.
func (h *Handlers) CurrentUser(c *fiber.Ctx) error {
	claims := CurrentUser(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// RequestVerification sends a fresh verification mail to the caller.
func (h *Handlers) RequestVerification(c *fiber.Ctx) error {
	claims := CurrentUser(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	req := auth.RequestVerifyRequest{UserID: claims.UserID}
	var resp auth.EmptyResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceRequestVerify,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// VerifyUser consumes an emailed verification token.
func (h *Handlers) VerifyUser(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "Verification token is required")
	}

	req := auth.VerifyEmailRequest{Token: token}
	var resp auth.EmptyResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceVerifyEmail,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// ForgotPassword starts a password reset. It always answers 200 so the
// endpoint cannot be used to probe which emails have accounts.
func (h *Handlers) ForgotPassword(c *fiber.Ctx) error {
	var body ForgotPasswordBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Email == "" {
		return badRequest(c, "Email is required")
	}

	req := auth.ForgotPasswordRequest{Email: body.Email}
	var resp auth.EmptyResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceForgotPassword,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// ResetPassword consumes an emailed reset token.
func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "Reset token is required")
	}
	var body ResetPasswordBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Password == "" {
		return badRequest(c, "Password is required")
	}

	req := auth.ResetPasswordRequest{Token: token, Password: body.Password}
	var resp auth.EmptyResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceResetPassword,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// ChangePassword updates the caller's password.
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	claims := CurrentUser(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
	}

	var body ChangePasswordBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.CurrentPassword == "" || body.NewPassword == "" {
		return badRequest(c, "Current and new passwords are required")
	}

	req := auth.ChangePasswordRequest{
		UserID:          claims.UserID,
		CurrentPassword: body.CurrentPassword,
		NewPassword:     body.NewPassword,
	}
	var resp auth.EmptyResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, auth.ServiceChangePassword,
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func setTokenCookies(c *fiber.Ctx, tokens auth.TokenPayload) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    tokens.AccessToken,
		Expires:  time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    tokens.RefreshToken,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

func clearTokenCookies(c *fiber.Ctx) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
			Path:     "/",
		})
	}
}

package auth

import (
	"time"
)

// Service names registered in the auth service container.
const (
	ServiceRegister       = "register"
	ServiceLogin          = "login"
	ServiceRefreshToken   = "refresh-token"
	ServiceValidateToken  = "validate-token"
	ServiceGetUser        = "get-user"
	ServiceRequestVerify  = "request-verify"
	ServiceVerifyEmail    = "verify-email"
	ServiceChangePassword = "change-password"
	ServiceForgotPassword = "forgot-password"
	ServiceResetPassword  = "reset-password"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPayload is the user representation exchanged between modules.
type UserPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	Bio       string    `json:"bio"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	User   UserPayload  `json:"user"`
	Tokens TokenPayload `json:"tokens"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPayload carries a token pair between modules.
type TokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// LoginResponse represents a user login response with tokens.
type LoginResponse struct {
	User   UserPayload  `json:"user"`
	Tokens TokenPayload `json:"tokens"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	Tokens TokenPayload `json:"tokens"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Verified bool   `json:"verified,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	User UserPayload `json:"user"`
}

// RequestVerifyRequest asks for a verification mail for a user.
type RequestVerifyRequest struct {
	UserID string `json:"user_id"`
}

// VerifyEmailRequest consumes a verification token.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ChangePasswordRequest updates the caller's password.
type ChangePasswordRequest struct {
	UserID          string `json:"user_id"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// EmptyResponse is returned by operations with no payload.
type EmptyResponse struct {
	OK bool `json:"ok"`
}

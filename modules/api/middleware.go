package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	domain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/auth"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"

	// AccessTokenCookie is the cookie carrying the access token for
	// browser clients.
	AccessTokenCookie = "access_token"

	// RefreshTokenCookie is the cookie carrying the refresh token.
	RefreshTokenCookie = "refresh_token"
)

// AuthMiddleware validates the caller's access token, taken from the
// Authorization header or the access_token cookie.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authentication required",
			})
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// RequireVerified gates mutations behind a verified email address. It
// must run after AuthMiddleware.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentUser(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "User not authenticated",
			})
		}
		if !claims.Verified {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Please verify your email address first",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the claims stored by AuthMiddleware, or nil.
func CurrentUser(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals(UserContextKey).(*domain.Claims)
	return claims
}

func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies(AccessTokenCookie)
}

package auth

import (
	"errors"
	"testing"
	"time"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "task-manager",
	}
}

func testJWTManager() *JWTManager {
	return NewJWTManager(testJWTConfig())
}

func TestJWTManager_AccessToken(t *testing.T) {
	manager := testJWTManager()

	token, err := manager.GenerateAccessToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user ID user-1, got %q", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("expected email user@example.com, got %q", claims.Email)
	}
	if claims.TokenType != TokenKindAccess {
		t.Errorf("expected token kind %q, got %q", TokenKindAccess, claims.TokenType)
	}
}

func TestJWTManager_TokenKindMismatch(t *testing.T) {
	manager := testJWTManager()

	refresh, err := manager.GenerateRefreshToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := manager.ValidateAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for refresh-as-access, got %v", err)
	}

	access, err := manager.GenerateAccessToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := manager.ValidateRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := testJWTManager()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.ValidateAccessToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		config := testJWTConfig()
		config.SecretKey = "different-secret"
		other := NewJWTManager(config)

		token, err := other.GenerateAccessToken("user-1", "user@example.com")
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}
		if _, err := manager.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	config := testJWTConfig()
	config.AccessTokenDuration = -time.Minute
	manager := NewJWTManager(config)

	token, err := manager.GenerateAccessToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestLoadJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("JWT_ISSUER", "staging")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("JWT_REFRESH_TTL", "48h")

	config := LoadJWTConfig()
	if config.SecretKey != "env-secret" {
		t.Errorf("expected secret from environment, got %q", config.SecretKey)
	}
	if config.Issuer != "staging" {
		t.Errorf("expected issuer staging, got %q", config.Issuer)
	}
	if config.AccessTokenDuration != 5*time.Minute {
		t.Errorf("expected 5m access TTL, got %v", config.AccessTokenDuration)
	}
	if config.RefreshTokenDuration != 48*time.Hour {
		t.Errorf("expected 48h refresh TTL, got %v", config.RefreshTokenDuration)
	}

	t.Setenv("JWT_ACCESS_TTL", "bogus")
	config = LoadJWTConfig()
	if config.AccessTokenDuration != 15*time.Minute {
		t.Errorf("expected default access TTL for a bad value, got %v", config.AccessTokenDuration)
	}
}

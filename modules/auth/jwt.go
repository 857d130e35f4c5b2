package auth

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// Token kinds carried in the token_type claim. Access tokens authorize
// API calls; refresh tokens only mint new pairs.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	Issuer               string
}

// LoadJWTConfig reads signing configuration from the environment:
// JWT_SECRET_KEY, JWT_ISSUER, JWT_ACCESS_TTL, JWT_REFRESH_TTL. Without
// JWT_SECRET_KEY a development secret is used and a warning logged.
func LoadJWTConfig() JWTConfig {
	config := JWTConfig{
		SecretKey:            os.Getenv("JWT_SECRET_KEY"),
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 30 * 24 * time.Hour,
		Issuer:               "task-manager",
	}
	if config.SecretKey == "" {
		config.SecretKey = "dev-secret-do-not-deploy"
		log.Println("[auth] JWT_SECRET_KEY not set, using development secret")
	}
	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}
	if ttl, err := time.ParseDuration(os.Getenv("JWT_ACCESS_TTL")); err == nil && ttl > 0 {
		config.AccessTokenDuration = ttl
	}
	if ttl, err := time.ParseDuration(os.Getenv("JWT_REFRESH_TTL")); err == nil && ttl > 0 {
		config.RefreshTokenDuration = ttl
	}
	return config
}

// TokenClaims is the claim set signed into both token kinds. The
// verified flag is deliberately absent: it is read from storage on
// every validation so verifying an email takes effect without a new
// login.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates the access/refresh token pair.
type JWTManager struct {
	config JWTConfig
}

// NewJWTManager creates a JWTManager with the given configuration.
func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{config: config}
}

// GenerateAccessToken signs a short-lived access token for the user.
func (m *JWTManager) GenerateAccessToken(userID, email string) (string, error) {
	return m.sign(userID, email, TokenKindAccess, m.config.AccessTokenDuration)
}

// GenerateRefreshToken signs a long-lived refresh token for the user.
func (m *JWTManager) GenerateRefreshToken(userID, email string) (string, error) {
	return m.sign(userID, email, TokenKindRefresh, m.config.RefreshTokenDuration)
}

func (m *JWTManager) sign(userID, email, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		Email:     email,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.SecretKey))
}

// ValidateAccessToken parses and checks an access token.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	return m.validate(tokenString, TokenKindAccess)
}

// ValidateRefreshToken parses and checks a refresh token.
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	return m.validate(tokenString, TokenKindRefresh)
}

// validate checks signature, expiry and token kind. A refresh token
// never passes as an access token, nor the reverse.
func (m *JWTManager) validate(tokenString, kind string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.TokenType != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenDuration returns the access token lifetime in seconds, as
// reported to clients in expires_in.
func (m *JWTManager) AccessTokenDuration() int64 {
	return int64(m.config.AccessTokenDuration.Seconds())
}

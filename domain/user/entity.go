package user

import (
	"time"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultPhoto is assigned to accounts created without an avatar.
const DefaultPhoto = "https://avatars.githubusercontent.com/u/19819005?v=4"

// User represents a user account.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Name         string `gorm:"not null;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	Photo        string `gorm:"type:text"`
	Bio          string `gorm:"type:text"`
	Role         string `gorm:"type:text;default:user"`
	Verified     bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// VerificationToken is a hashed, single-use token for email verification
// or password reset. Only the hash is stored.
type VerificationToken struct {
	ID        string `gorm:"primaryKey;type:text"`
	UserID    string `gorm:"index;not null;type:text"`
	TokenHash string `gorm:"uniqueIndex;not null;type:text"`
	Purpose   string `gorm:"not null;type:text"` // "verify-email" or "reset-password"
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TableName returns the table name for the VerificationToken entity.
func (VerificationToken) TableName() string {
	return "verification_tokens"
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims represents the identity carried by a validated token.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

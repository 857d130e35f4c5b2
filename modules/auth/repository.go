package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/example/task-manager/domain/user"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a user already exists.
	ErrUserExists = errors.New("user with this email already exists")
	// ErrTokenNotFound is returned when a verification token is unknown or expired.
	ErrTokenNotFound = errors.New("verification token not found or expired")
)

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user in the database.
func (r *UserRepository) Create(user *domain.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return result.Error
	}
	return nil
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	result := r.db.First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *UserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	result := r.db.First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// EmailExists checks if a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	result := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *domain.User) error {
	result := r.db.Save(user)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// MarkVerified sets the verified flag for a user.
func (r *UserRepository) MarkVerified(userID string) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", userID).Update("verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TokenRepository handles verification tokens. Tokens are stored hashed;
// the plain token only ever leaves the process inside the mailed link.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Store replaces any existing token for (userID, purpose) with the given one.
func (r *TokenRepository) Store(token *domain.VerificationToken) error {
	if err := r.db.Where("user_id = ? AND purpose = ?", token.UserID, token.Purpose).
		Delete(&domain.VerificationToken{}).Error; err != nil {
		return err
	}
	return r.db.Create(token).Error
}

// Consume looks up an unexpired token by its plain value and purpose, and
// deletes it so it cannot be reused.
func (r *TokenRepository) Consume(plainToken, purpose string) (*domain.VerificationToken, error) {
	var token domain.VerificationToken
	result := r.db.First(&token,
		"token_hash = ? AND purpose = ? AND expires_at > ?",
		HashToken(plainToken), purpose, time.Now())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}

	if err := r.db.Delete(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

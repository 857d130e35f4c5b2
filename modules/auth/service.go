package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/jaevor/go-nanoid"

	domain "github.com/example/task-manager/domain/user"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrMissingFields is returned when a required field is empty.
	ErrMissingFields = errors.New("all fields are required")
	// ErrAlreadyVerified is returned when verification is requested for a verified user.
	ErrAlreadyVerified = errors.New("user is already verified")
)

const (
	verificationTokenLength = 64
	verificationTokenTTL    = 24 * time.Hour

	purposeVerifyEmail   = "verify-email"
	purposeResetPassword = "reset-password"
)

// MailSender delivers templated mail. The auth service treats delivery as
// fire-and-forget; a send failure never fails the originating operation.
type MailSender interface {
	SendTemplate(ctx context.Context, to, subject, template string, data map[string]any) error
}

// Service handles authentication business logic.
type Service struct {
	users     *UserRepository
	tokens    *TokenRepository
	hasher    *PasswordHasher
	jwt       *JWTManager
	mailer    MailSender
	clientURL string
	newToken  func() string
}

// NewService creates a new auth Service. mailer may be nil, in which case
// verification and reset mails are skipped (tokens are still issued).
func NewService(users *UserRepository, tokens *TokenRepository, hasher *PasswordHasher, jwt *JWTManager, mailer MailSender, clientURL string) (*Service, error) {
	gen, err := gonanoid.Standard(verificationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create token generator: %w", err)
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		jwt:       jwt,
		mailer:    mailer,
		clientURL: clientURL,
		newToken:  gen,
	}, nil
}

// Register creates a new user account and mails a verification link.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Photo:        domain.DefaultPhoto,
		Bio:          "I am a new user.",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Kick off verification out of band; registration succeeds regardless.
	if err := s.RequestEmailVerification(ctx, user.ID); err != nil {
		log.Printf("[auth] failed to issue verification for %s: %v", user.ID, err)
	}

	return user, nil
}

// Login authenticates a user and returns tokens.
func (s *Service) Login(_ context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, ErrMissingFields
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshTokens generates new access and refresh tokens.
func (s *Service) RefreshTokens(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.generateTokenPair(user.ID, user.Email)
}

// ValidateToken validates an access token and returns the caller's identity,
// including the current verified flag from storage.
func (s *Service) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Verified: user.Verified,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(userID)
}

// RequestEmailVerification issues a verification token and mails the link.
func (s *Service) RequestEmailVerification(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	plain := s.newToken()
	if err := s.tokens.Store(&domain.VerificationToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: HashToken(plain),
		Purpose:   purposeVerifyEmail,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	s.sendMail(ctx, user, "Email Verification", "verify-email",
		fmt.Sprintf("%s/verify-email/%s", s.clientURL, plain))
	return nil
}

// VerifyEmail consumes a verification token and marks the user verified.
func (s *Service) VerifyEmail(_ context.Context, plainToken string) error {
	token, err := s.tokens.Consume(plainToken, purposeVerifyEmail)
	if err != nil {
		return err
	}
	return s.users.MarkVerified(token.UserID)
}

// ChangePassword updates the password after checking the current one.
func (s *Service) ChangePassword(_ context.Context, userID, current, next string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	return s.users.Update(user)
}

// ForgotPassword issues a reset token and mails the link. Unknown emails
// return nil so the endpoint does not leak which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	plain := s.newToken()
	if err := s.tokens.Store(&domain.VerificationToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: HashToken(plain),
		Purpose:   purposeResetPassword,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.sendMail(ctx, user, "Password Reset", "reset-password",
		fmt.Sprintf("%s/reset-password/%s", s.clientURL, plain))
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(_ context.Context, plainToken, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}

	token, err := s.tokens.Consume(plainToken, purposeResetPassword)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	return s.users.Update(user)
}

func (s *Service) sendMail(ctx context.Context, user *domain.User, subject, template, link string) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.SendTemplate(ctx, user.Email, subject, template, map[string]any{
		"name": user.Name,
		"link": link,
	})
	if err != nil {
		log.Printf("[auth] failed to send %s mail to %s: %v", template, user.Email, err)
	}
}

func (s *Service) generateTokenPair(userID, email string) (*domain.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}

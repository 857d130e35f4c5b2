package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/mailer"
	"github.com/example/task-manager/storage"
)

// Module provides authentication services: accounts, tokens and email
// verification.
type Module struct {
	db      *gorm.DB
	service *Service
	mail    MailSender
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new auth Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKMANAGER_DB_PATH")
	if dbPath == "" {
		dbPath = "taskmanager.db"
	}
	return &Module{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"mailer"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "mailer" {
		m.mail = mailer.NewAdapter(container)
	}
}

// Start initializes the auth module.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(storage.SQLiteDSN(m.dbPath)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}, &domain.VerificationToken{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	users := NewUserRepository(db)
	tokens := NewTokenRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(LoadJWTConfig())

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	service, err := NewService(users, tokens, hasher, jwtManager, m.mail, clientURL)
	if err != nil {
		return err
	}
	m.service = service

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRegister, json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRegister, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceLogin, json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceLogin, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRefreshToken, json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRefreshToken, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceValidateToken, json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceValidateToken, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetUser, json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetUser, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRequestVerify, json.Unmarshal, json.Marshal, m.handleRequestVerify,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRequestVerify, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceVerifyEmail, json.Unmarshal, json.Marshal, m.handleVerifyEmail,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceVerifyEmail, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceChangePassword, json.Unmarshal, json.Marshal, m.handleChangePassword,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceChangePassword, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceForgotPassword, json.Unmarshal, json.Marshal, m.handleForgotPassword,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceForgotPassword, err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceResetPassword, json.Unmarshal, json.Marshal, m.handleResetPassword,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceResetPassword, err)
	}

	log.Println("[auth] Registered services: register, login, refresh-token, validate-token, get-user, verification and password flows")
	return nil
}

func (m *Module) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return RegisterResponse{}, err
	}

	pair, err := m.service.generateTokenPair(user.ID, user.Email)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		User:   toUserPayload(user),
		Tokens: toTokenPayload(pair),
	}, nil
}

func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	user, pair, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		User:   toUserPayload(user),
		Tokens: toTokenPayload(pair),
	}, nil
}

func (m *Module) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (RefreshResponse, error) {
	pair, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return RefreshResponse{}, err
	}
	return RefreshResponse{Tokens: toTokenPayload(pair)}, nil
}

func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if err == ErrExpiredToken {
			errMsg = "token expired"
		}
		// Return a response, not an error, for validation failures.
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   claims.UserID,
		Email:    claims.Email,
		Verified: claims.Verified,
	}, nil
}

func (m *Module) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: toUserPayload(user)}, nil
}

func (m *Module) handleRequestVerify(ctx context.Context, req RequestVerifyRequest, _ *mono.Msg) (EmptyResponse, error) {
	if err := m.service.RequestEmailVerification(ctx, req.UserID); err != nil {
		return EmptyResponse{}, err
	}
	return EmptyResponse{OK: true}, nil
}

func (m *Module) handleVerifyEmail(ctx context.Context, req VerifyEmailRequest, _ *mono.Msg) (EmptyResponse, error) {
	if err := m.service.VerifyEmail(ctx, req.Token); err != nil {
		return EmptyResponse{}, err
	}
	return EmptyResponse{OK: true}, nil
}

func (m *Module) handleChangePassword(ctx context.Context, req ChangePasswordRequest, _ *mono.Msg) (EmptyResponse, error) {
	if err := m.service.ChangePassword(ctx, req.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return EmptyResponse{}, err
	}
	return EmptyResponse{OK: true}, nil
}

func (m *Module) handleForgotPassword(ctx context.Context, req ForgotPasswordRequest, _ *mono.Msg) (EmptyResponse, error) {
	if err := m.service.ForgotPassword(ctx, req.Email); err != nil {
		return EmptyResponse{}, err
	}
	return EmptyResponse{OK: true}, nil
}

func (m *Module) handleResetPassword(ctx context.Context, req ResetPasswordRequest, _ *mono.Msg) (EmptyResponse, error) {
	if err := m.service.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return EmptyResponse{}, err
	}
	return EmptyResponse{OK: true}, nil
}

func toUserPayload(u *domain.User) UserPayload {
	return UserPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		Bio:       u.Bio,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

func toTokenPayload(p *domain.TokenPair) TokenPayload {
	return TokenPayload{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
		TokenType:    p.TokenType,
	}
}

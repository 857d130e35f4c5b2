package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/notification"
	"github.com/example/task-manager/modules/relay"
	"github.com/example/task-manager/modules/task"
)

// Module is the HTTP API module. It exposes the REST surface and the
// WebSocket endpoint backed by the relay hub.
type Module struct {
	app           *fiber.App
	hub           *relay.Hub
	addr          string
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	taskAdapter   task.TaskPort
	notifAdapter  notification.NotificationPort
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API Module serving the relay hub's events.
func NewModule(hub *relay.Hub) *Module {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return &Module{
		hub:  hub,
		addr: addr,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth", "task", "notification"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAdapter(container)
	case "task":
		m.taskAdapter = task.NewAdapter(container)
	case "notification":
		m.notifAdapter = notification.NewAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.authContainer == nil || m.taskAdapter == nil || m.notifAdapter == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		AppName:               "Task Manager",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	m.app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: true,
	}))

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *Module) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.authAdapter, m.taskAdapter, m.notifAdapter)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/logout", handlers.Logout)
	authRoutes.Post("/refresh", handlers.Refresh)
	authRoutes.Post("/verify-user/:token", handlers.VerifyUser)
	authRoutes.Post("/forgot-password", handlers.ForgotPassword)
	authRoutes.Post("/reset-password/:token", handlers.ResetPassword)
	authRoutes.Get("/login-status", handlers.LoginStatus)

	// Protected auth routes
	authRoutes.Get("/user", AuthMiddleware(m.authAdapter), handlers.CurrentUser)
	authRoutes.Post("/verify-email", AuthMiddleware(m.authAdapter), handlers.RequestVerification)
	authRoutes.Patch("/change-password", AuthMiddleware(m.authAdapter), handlers.ChangePassword)

	// Protected routes. Mutations additionally require a verified email.
	protected := v1.Group("", AuthMiddleware(m.authAdapter))
	protected.Post("/task/create", RequireVerified(), handlers.CreateTask)
	protected.Get("/tasks", handlers.ListTasks)
	protected.Get("/tasks/status", handlers.TaskStatus)
	protected.Get("/task/:id", handlers.GetTask)
	protected.Patch("/task/:id", RequireVerified(), handlers.UpdateTask)
	protected.Delete("/task/:id", RequireVerified(), handlers.DeleteTask)

	protected.Post("/create-notification", RequireVerified(), handlers.CreateNotification)
	protected.Get("/notifications/:userId", handlers.ListNotifications)
	protected.Patch("/update-notification/:id", handlers.UpdateNotification)

	// WebSocket endpoint. The token travels in the query string since
	// browsers cannot set headers on WebSocket upgrades.
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		token := c.Query("token")
		if token == "" {
			token = c.Cookies(AccessTokenCookie)
		}
		claims, err := m.authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals(UserContextKey, claims)
		return c.Next()
	})
	m.app.Get("/ws", websocket.New(handlers.HandleWebSocket(m.hub)))
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

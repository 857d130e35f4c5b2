package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"

	"github.com/example/task-manager/modules/api"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/mailer"
	"github.com/example/task-manager/modules/notification"
	"github.com/example/task-manager/modules/relay"
	"github.com/example/task-manager/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	godotenv.Load()

	log.Println("=== Task Manager ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	mailerModule := mailer.NewModule()
	authModule := auth.NewModule()
	taskModule := task.NewModule()
	notificationModule := notification.NewModule()
	relayModule := relay.NewModule()
	apiModule := api.NewModule(relayModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - mailer: outbound mail worker pool
	// - auth: users, tokens, verification (depends on mailer)
	// - task: task CRUD + statistics, emits task events
	// - notification: persists notifications, consumes task events
	// - relay: WebSocket hub, consumes task events
	// - api: Fiber HTTP/WebSocket surface (depends on auth, task, notification)
	app.Register(mailerModule)
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(notificationModule)
	app.Register(relayModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s/api/v1):", addr)
	log.Println("  POST   /auth/register               - Create an account")
	log.Println("  POST   /auth/login                  - Log in")
	log.Println("  POST   /auth/logout                 - Clear token cookies")
	log.Println("  POST   /auth/refresh                - Refresh tokens")
	log.Println("  GET    /auth/login-status           - Check token validity")
	log.Println("  GET    /auth/user                   - Current user profile")
	log.Println("  POST   /auth/verify-email           - Request verification mail")
	log.Println("  POST   /auth/verify-user/:token     - Confirm email address")
	log.Println("  POST   /auth/forgot-password        - Request password reset")
	log.Println("  POST   /auth/reset-password/:token  - Complete password reset")
	log.Println("  PATCH  /auth/change-password        - Change password")
	log.Println("  POST   /task/create                 - Create a task")
	log.Println("  GET    /tasks                       - List tasks")
	log.Println("  GET    /task/:id                    - Get a task")
	log.Println("  PATCH  /task/:id                    - Update a task")
	log.Println("  DELETE /task/:id                    - Delete a task")
	log.Println("  GET    /tasks/status                - 30-day statistics")
	log.Println("  POST   /create-notification         - Create a notification")
	log.Println("  GET    /notifications/:userId       - List notifications")
	log.Println("  PATCH  /update-notification/:id     - Mark notification read")
	log.Println("")
	log.Printf("WebSocket Endpoint: ws://localhost%s/ws?token=<access token>", addr)
	log.Println("  Frames: taskCreated, taskUpdated, taskDeleted")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

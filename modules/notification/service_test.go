package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/task-manager/domain/notification"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewService(NewRepository(db)), db
}

func TestService_Create(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, "user-1", "New task added: Buy groceries", "task-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if n.Status != domain.StatusUnread {
		t.Errorf("expected new notification to be unread, got %q", n.Status)
	}
	if n.ID == "" {
		t.Error("expected an ID to be assigned")
	}

	t.Run("empty message", func(t *testing.T) {
		_, err := svc.Create(ctx, "user-1", "   ", "")
		if !errors.Is(err, ErrMessageRequired) {
			t.Errorf("expected ErrMessageRequired, got %v", err)
		}
	})

	t.Run("empty user", func(t *testing.T) {
		_, err := svc.Create(ctx, "", "hello", "")
		if !errors.Is(err, ErrUserRequired) {
			t.Errorf("expected ErrUserRequired, got %v", err)
		}
	})
}

func TestService_List(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	now := time.Now()
	rows := []domain.Notification{
		{ID: "n-old", UserID: "user-1", Message: "old", Status: domain.StatusRead, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "n-new", UserID: "user-1", Message: "new", Status: domain.StatusUnread, CreatedAt: now},
		{ID: "n-other", UserID: "user-2", Message: "other", Status: domain.StatusUnread, CreatedAt: now},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
	}

	notifications, unread, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].ID != "n-new" {
		t.Errorf("expected newest first, got %q", notifications[0].ID)
	}
	if unread != 1 {
		t.Errorf("expected 1 unread, got %d", unread)
	}
}

func TestService_MarkRead(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, "user-1", "Task updated: Buy groceries", "task-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, "user-1", "no-such-id")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		_, err := svc.MarkRead(ctx, "user-2", n.ID)
		if !errors.Is(err, ErrNotOwner) {
			t.Errorf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("unread to read", func(t *testing.T) {
		updated, err := svc.MarkRead(ctx, "user-1", n.ID)
		if err != nil {
			t.Fatalf("MarkRead() error = %v", err)
		}
		if updated.Status != domain.StatusRead {
			t.Errorf("expected read status, got %q", updated.Status)
		}
	})

	t.Run("marking read twice is a no-op", func(t *testing.T) {
		updated, err := svc.MarkRead(ctx, "user-1", n.ID)
		if err != nil {
			t.Fatalf("MarkRead() error = %v", err)
		}
		if updated.Status != domain.StatusRead {
			t.Errorf("expected status to stay read, got %q", updated.Status)
		}

		_, unread, err := svc.List(ctx, "user-1")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if unread != 0 {
			t.Errorf("expected 0 unread, got %d", unread)
		}
	})
}

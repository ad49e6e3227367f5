package repositories

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/pokerconnect/backend/internal/models"
)

func TestNotifications_NewestFirstAndEligibleOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	repo.CreateNotification(&models.Notification{Type: models.NotificationLike, ActorID: bob.ID, RecipientID: alice.ID})
	repo.CreateNotification(&models.Notification{Type: models.NotificationComment, ActorID: bob.ID, RecipientID: alice.ID})
	// A record of an unknown type must never surface.
	repo.CreateNotification(&models.Notification{Type: "system_banner", ActorID: bob.ID, RecipientID: alice.ID})

	notifications, total, err := repo.GetByRecipientID(alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(notifications) != 2 {
		t.Fatalf("expected 2 eligible records, got %d (total %d)", len(notifications), total)
	}
	for _, n := range notifications {
		if n.Type == "system_banner" {
			t.Fatal("ineligible type leaked into the listing")
		}
	}
}

func TestNotifications_UnreadCountExcludesIneligibleAndRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	first := &models.Notification{Type: models.NotificationFriendRequest, ActorID: bob.ID, RecipientID: alice.ID}
	repo.CreateNotification(first)
	repo.CreateNotification(&models.Notification{Type: models.NotificationShare, ActorID: bob.ID, RecipientID: alice.ID})
	repo.CreateNotification(&models.Notification{Type: "system_banner", ActorID: bob.ID, RecipientID: alice.ID})

	count, err := repo.GetUnreadCount(alice.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	if err := repo.MarkAsRead(first.ID, alice.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, _ = repo.GetUnreadCount(alice.ID)
	if count != 1 {
		t.Fatalf("expected 1 unread after marking, got %d", count)
	}
}

func TestNotifications_MarkAsReadScopedToRecipient(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	n := &models.Notification{Type: models.NotificationLike, ActorID: bob.ID, RecipientID: alice.ID}
	repo.CreateNotification(n)

	if err := repo.MarkAsRead(n.ID, bob.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected scoping failure, got %v", err)
	}

	count, _ := repo.GetUnreadCount(alice.ID)
	if count != 1 {
		t.Fatalf("notification must stay unread, count %d", count)
	}
}

func TestNotifications_MarkAllAsRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		repo.CreateNotification(&models.Notification{Type: models.NotificationComment, ActorID: bob.ID, RecipientID: alice.ID})
	}
	repo.CreateNotification(&models.Notification{Type: models.NotificationComment, ActorID: alice.ID, RecipientID: bob.ID})

	if err := repo.MarkAllAsRead(alice.ID); err != nil {
		t.Fatalf("mark all: %v", err)
	}

	count, _ := repo.GetUnreadCount(alice.ID)
	if count != 0 {
		t.Fatalf("expected 0 unread for alice, got %d", count)
	}
	count, _ = repo.GetUnreadCount(bob.ID)
	if count != 1 {
		t.Fatalf("bob's unread must be untouched, got %d", count)
	}
}

func TestNotifications_DeleteAllForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	// alice as recipient, alice as actor, and an unrelated record.
	repo.CreateNotification(&models.Notification{Type: models.NotificationLike, ActorID: bob.ID, RecipientID: alice.ID})
	repo.CreateNotification(&models.Notification{Type: models.NotificationLike, ActorID: alice.ID, RecipientID: bob.ID})
	repo.CreateNotification(&models.Notification{Type: models.NotificationLike, ActorID: carol.ID, RecipientID: bob.ID})

	if err := repo.DeleteAllForUser(alice.ID); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the unrelated record, got %d", count)
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pokerconnect/backend/internal/models"
)

func TestSendRequest_NotifiesReceiver(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")

	h := NewFriendshipHandler(te.friendships, te.users, te.notifications, te.hub)
	body := fmt.Sprintf(`{"receiver_id": %d}`, bob.ID)
	c, rec := newRequest(te.e, http.MethodPost, "/api/v1/friends/request", body, alice.ID)

	if err := h.SendRequest(c); err != nil {
		t.Fatalf("send: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	notifications, total, _ := te.notifications.GetByRecipientID(bob.ID, 1, 10)
	if total != 1 || notifications[0].Type != models.NotificationFriendRequest {
		t.Fatalf("notifications = %+v", notifications)
	}
}

func TestSendRequest_DuplicateConflict(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")

	h := NewFriendshipHandler(te.friendships, te.users, te.notifications, te.hub)
	body := fmt.Sprintf(`{"receiver_id": %d}`, bob.ID)

	c, _ := newRequest(te.e, http.MethodPost, "/api/v1/friends/request", body, alice.ID)
	if err := h.SendRequest(c); err != nil {
		t.Fatalf("first send: %v", err)
	}

	// Reverse direction while pending.
	reverse := fmt.Sprintf(`{"receiver_id": %d}`, alice.ID)
	c, _ = newRequest(te.e, http.MethodPost, "/api/v1/friends/request", reverse, bob.ID)
	err := h.SendRequest(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestAcceptRequest_OnlyReceiverMay(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")
	mallory := seedUser(t, te.db, "mallory")

	req, _ := te.friendships.SendRequest(alice.ID, bob.ID)

	h := NewFriendshipHandler(te.friendships, te.users, te.notifications, te.hub)
	c, _ := newRequest(te.e, http.MethodPut, "/", "", mallory.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(req.ID))

	err := h.AcceptRequest(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-receiver, got %v", err)
	}

	// The sender cannot accept their own request either.
	c, _ = newRequest(te.e, http.MethodPut, "/", "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(req.ID))
	err = h.AcceptRequest(c)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for sender, got %v", err)
	}
}

func TestAcceptRequest_NotifiesSenderAndCreatesFriendship(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")

	req, _ := te.friendships.SendRequest(alice.ID, bob.ID)

	h := NewFriendshipHandler(te.friendships, te.users, te.notifications, te.hub)
	c, rec := newRequest(te.e, http.MethodPut, "/", "", bob.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(req.ID))

	if err := h.AcceptRequest(c); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	friends, _ := te.friendships.AreFriends(alice.ID, bob.ID)
	if !friends {
		t.Fatal("friendship not created")
	}

	notifications, total, _ := te.notifications.GetByRecipientID(alice.ID, 1, 10)
	if total != 1 || notifications[0].Type != models.NotificationFriendRequestAccepted {
		t.Fatalf("notifications = %+v", notifications)
	}
}

func TestUnfriend_NotFriends404(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")

	h := NewFriendshipHandler(te.friendships, te.users, te.notifications, te.hub)
	c, _ := newRequest(te.e, http.MethodDelete, "/", "", alice.ID)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(bob.ID))

	err := h.Unfriend(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

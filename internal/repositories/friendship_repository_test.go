package repositories

import (
	"errors"
	"testing"

	"github.com/pokerconnect/backend/internal/models"
)

func TestSendRequest_SelfRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")

	if _, err := repo.SendRequest(alice.ID, alice.ID); !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}
}

func TestSendRequest_PendingUniquePerPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	if _, err := repo.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("first request: %v", err)
	}

	// Same direction again.
	if _, err := repo.SendRequest(alice.ID, bob.ID); !errors.Is(err, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending for duplicate, got %v", err)
	}
	// Reverse direction while the first is still pending.
	if _, err := repo.SendRequest(bob.ID, alice.ID); !errors.Is(err, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending for reverse, got %v", err)
	}
}

func TestAccept_CreatesSymmetricEdges(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	req, err := repo.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	accepted, err := repo.Accept(req.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != models.FriendRequestAccepted {
		t.Fatalf("expected accepted status, got %s", accepted.Status)
	}

	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		friends, err := repo.AreFriends(pair[0], pair[1])
		if err != nil {
			t.Fatalf("are friends: %v", err)
		}
		if !friends {
			t.Fatalf("expected edge %d -> %d", pair[0], pair[1])
		}
	}
}

func TestAccept_AlreadyResolved(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	req, _ := repo.SendRequest(alice.ID, bob.ID)
	if _, err := repo.Accept(req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := repo.Accept(req.ID); !errors.Is(err, ErrRequestResolved) {
		t.Fatalf("expected ErrRequestResolved, got %v", err)
	}
	if _, err := repo.Decline(req.ID); !errors.Is(err, ErrRequestResolved) {
		t.Fatalf("expected ErrRequestResolved on decline, got %v", err)
	}
}

func TestDecline_NoEdges(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	req, _ := repo.SendRequest(alice.ID, bob.ID)
	declined, err := repo.Decline(req.ID)
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Status != models.FriendRequestDeclined {
		t.Fatalf("expected declined status, got %s", declined.Status)
	}

	friends, _ := repo.AreFriends(alice.ID, bob.ID)
	if friends {
		t.Fatal("decline must not create edges")
	}
}

func TestSendRequest_AfterDeclineAllowed(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	req, _ := repo.SendRequest(alice.ID, bob.ID)
	if _, err := repo.Decline(req.ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	// A resolved request no longer blocks a new one.
	if _, err := repo.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("expected new request after decline, got %v", err)
	}
}

func TestSendRequest_AlreadyFriends(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	req, _ := repo.SendRequest(alice.ID, bob.ID)
	if _, err := repo.Accept(req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := repo.SendRequest(bob.ID, alice.ID); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestStatus_Resolution(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	status, err := repo.Status(alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != models.StatusNotFriends {
		t.Fatalf("expected not_friends, got %s", status)
	}

	req, _ := repo.SendRequest(alice.ID, bob.ID)

	if status, _ = repo.Status(alice.ID, bob.ID); status != models.StatusPendingSent {
		t.Fatalf("expected pending_sent, got %s", status)
	}
	if status, _ = repo.Status(bob.ID, alice.ID); status != models.StatusPendingReceived {
		t.Fatalf("expected pending_received, got %s", status)
	}

	repo.Accept(req.ID)
	if status, _ = repo.Status(alice.ID, bob.ID); status != models.StatusFriends {
		t.Fatalf("expected friends, got %s", status)
	}
}

func TestUnfriend_RemovesBothEdges(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	req, _ := repo.SendRequest(alice.ID, bob.ID)
	repo.Accept(req.ID)

	if err := repo.Unfriend(bob.ID, alice.ID); err != nil {
		t.Fatalf("unfriend: %v", err)
	}

	var count int64
	db.Model(&models.FriendEdge{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no edges, found %d", count)
	}
}

func TestUnfriend_NotFriends(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	if err := repo.Unfriend(alice.ID, bob.ID); !errors.Is(err, ErrNotFriends) {
		t.Fatalf("expected ErrNotFriends, got %v", err)
	}
}

func TestListFriends(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	for _, other := range []uint{bob.ID, carol.ID} {
		req, _ := repo.SendRequest(alice.ID, other)
		repo.Accept(req.ID)
	}

	friends, err := repo.ListFriends(alice.ID)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(friends))
	}

	bobFriends, _ := repo.ListFriends(bob.ID)
	if len(bobFriends) != 1 || bobFriends[0].ID != alice.ID {
		t.Fatalf("expected bob's only friend to be alice, got %+v", bobFriends)
	}
}

func TestDeleteAllForUser_RemovesEdgesAndRequests(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	req, _ := repo.SendRequest(alice.ID, bob.ID)
	repo.Accept(req.ID)
	repo.SendRequest(carol.ID, alice.ID)

	if err := repo.DeleteAllForUser(alice.ID); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	var edges, requests int64
	db.Model(&models.FriendEdge{}).Count(&edges)
	db.Model(&models.FriendRequest{}).Count(&requests)
	if edges != 0 || requests != 0 {
		t.Fatalf("expected clean slate, got %d edges %d requests", edges, requests)
	}
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/repositories"
)

type feedResponse struct {
	Success bool       `json:"success"`
	Data    []FeedItem `json:"data"`
	Meta    struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"meta"`
}

func TestGetFeed_EnrichedPerViewer(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")

	post := te.posts.addPost(bob.ID, "flopped a set today")
	te.likes.CreateLike(&models.Like{PostID: post.ID.Hex(), UserID: alice.ID})
	te.comments.CreateComment(&models.Comment{PostID: post.ID.Hex(), UserID: alice.ID, Content: "well played"})

	h := NewFeedHandler(te.posts, te.users, te.likes, te.comments)
	c, rec := newRequest(te.e, http.MethodGet, "/api/v1/feed", "", alice.ID)

	if err := h.GetFeed(c); err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp feedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 feed item, got %d", len(resp.Data))
	}

	item := resp.Data[0]
	if item.Author.ID != bob.ID || item.Author.Username != "bob" {
		t.Fatalf("author = %+v", item.Author)
	}
	if !item.HasLiked {
		t.Fatal("viewer's like must be reflected")
	}
	if len(item.Comments) != 1 || item.Comments[0].Author.ID != alice.ID {
		t.Fatalf("comments = %+v", item.Comments)
	}
	if resp.Meta.Total != 1 {
		t.Fatalf("meta total = %d", resp.Meta.Total)
	}
}

func TestGetFeed_MissingAuthorDegradesToPlaceholder(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")

	// Post authored by a user that no longer exists.
	te.posts.addPost(9999, "ghost post")

	h := NewFeedHandler(te.posts, te.users, te.likes, te.comments)
	c, rec := newRequest(te.e, http.MethodGet, "/api/v1/feed", "", alice.ID)

	if err := h.GetFeed(c); err != nil {
		t.Fatalf("get feed: %v", err)
	}

	var resp feedResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Data) != 1 {
		t.Fatalf("the post must still render, got %d items", len(resp.Data))
	}
	if resp.Data[0].Author.DisplayName != models.PlaceholderAuthor.DisplayName {
		t.Fatalf("author = %+v, want placeholder", resp.Data[0].Author)
	}
}

// failingLikeRepo reports an error for every like lookup
type failingLikeRepo struct {
	repositories.LikeRepository
}

func (failingLikeRepo) HasUserLikedPost(string, uint) (bool, error) {
	return false, fmt.Errorf("like store unavailable")
}

// failingCommentRepo reports an error for every comment listing
type failingCommentRepo struct {
	repositories.CommentRepository
}

func (failingCommentRepo) GetCommentsByPostID(string) ([]models.Comment, error) {
	return nil, fmt.Errorf("comment store unavailable")
}

func TestGetFeed_SubFetchFailureDegradesPost(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	bob := seedUser(t, te.db, "bob")
	te.posts.addPost(bob.ID, "still readable")

	h := NewFeedHandler(te.posts, te.users,
		failingLikeRepo{te.likes}, failingCommentRepo{te.comments})
	c, rec := newRequest(te.e, http.MethodGet, "/api/v1/feed", "", alice.ID)

	if err := h.GetFeed(c); err != nil {
		t.Fatalf("a sub-fetch failure must not fail the page: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp feedResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Data) != 1 {
		t.Fatalf("the post must still render, got %d items", len(resp.Data))
	}

	item := resp.Data[0]
	if item.Author.Username != "bob" {
		t.Fatalf("author = %+v", item.Author)
	}
	if item.HasLiked {
		t.Fatal("like state must degrade to false when the lookup fails")
	}
	if len(item.Comments) != 0 {
		t.Fatalf("comments must degrade to empty, got %+v", item.Comments)
	}
}

func TestGetFeed_Unauthenticated(t *testing.T) {
	te := newEnv(t)
	h := NewFeedHandler(te.posts, te.users, te.likes, te.comments)
	c, _ := newRequest(te.e, http.MethodGet, "/api/v1/feed", "", 0)

	err := h.GetFeed(c)
	if err == nil {
		t.Fatal("expected unauthorized error")
	}
}

func TestGetFeed_Pagination(t *testing.T) {
	te := newEnv(t)
	alice := seedUser(t, te.db, "alice")
	for i := 0; i < 15; i++ {
		te.posts.addPost(alice.ID, "hand review")
	}

	h := NewFeedHandler(te.posts, te.users, te.likes, te.comments)
	c, rec := newRequest(te.e, http.MethodGet, "/api/v1/feed?page=2&limit=10", "", alice.ID)

	if err := h.GetFeed(c); err != nil {
		t.Fatalf("get feed: %v", err)
	}

	var resp feedResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Data) != 5 {
		t.Fatalf("expected 5 items on page 2, got %d", len(resp.Data))
	}
	if resp.Meta.Total != 15 {
		t.Fatalf("meta total = %d", resp.Meta.Total)
	}
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlertest_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.FriendEdge{},
		&models.FriendRequest{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Chat{},
		&models.Message{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// newRequest builds an echo context carrying the given user's JWT claims,
// the way the auth middleware would.
func newRequest(e *echo.Echo, method, target string, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

// fakePostRepo is an in-memory stand-in for the MongoDB post store
type fakePostRepo struct {
	posts       map[string]*models.Post
	order       []string
	failCounter bool
}

var _ repositories.PostRepository = (*fakePostRepo)(nil)

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (f *fakePostRepo) addPost(userID uint, content string) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.posts[post.ID.Hex()] = post
	f.order = append([]string{post.ID.Hex()}, f.order...)
	return post
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID.Hex()] = post
	f.order = append([]string{post.ID.Hex()}, f.order...)
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post not found")
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostRepo) GetPostsByUserID(_ context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	posts := []models.Post{}
	for _, id := range f.order {
		if f.posts[id].UserID == userID {
			posts = append(posts, *f.posts[id])
		}
	}
	return paginate(posts, skip, limit), nil
}

func (f *fakePostRepo) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	posts := []models.Post{}
	for _, id := range f.order {
		posts = append(posts, *f.posts[id])
	}
	return paginate(posts, skip, limit), nil
}

func paginate(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return []models.Post{}
	}
	posts = posts[skip:]
	if limit < int64(len(posts)) {
		posts = posts[:limit]
	}
	return posts
}

func (f *fakePostRepo) CountPosts(context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostRepo) SharePost(_ context.Context, original *models.Post, sharerID uint, caption string) (*models.Post, error) {
	share := &models.Post{
		ID:              primitive.NewObjectID(),
		UserID:          sharerID,
		Content:         caption,
		OriginalPostID:  original.ID.Hex(),
		OriginalUserID:  original.UserID,
		OriginalContent: original.Content,
		CreatedAt:       time.Now(),
	}
	f.posts[share.ID.Hex()] = share
	f.order = append([]string{share.ID.Hex()}, f.order...)
	f.posts[original.ID.Hex()].SharesCount++
	return share, nil
}

func (f *fakePostRepo) IncrementLikesCount(_ context.Context, postID string) error {
	if f.failCounter {
		return fmt.Errorf("counter store unavailable")
	}
	f.posts[postID].LikesCount++
	return nil
}

func (f *fakePostRepo) DecrementLikesCount(_ context.Context, postID string) error {
	if f.failCounter {
		return fmt.Errorf("counter store unavailable")
	}
	f.posts[postID].LikesCount--
	return nil
}

func (f *fakePostRepo) IncrementCommentsCount(_ context.Context, postID string) error {
	if f.failCounter {
		return fmt.Errorf("counter store unavailable")
	}
	f.posts[postID].CommentsCount++
	return nil
}

func (f *fakePostRepo) DeletePostsByUser(_ context.Context, userID uint) error {
	for id, post := range f.posts {
		if post.UserID == userID {
			delete(f.posts, id)
		}
	}
	kept := f.order[:0]
	for _, id := range f.order {
		if _, ok := f.posts[id]; ok {
			kept = append(kept, id)
		}
	}
	f.order = kept
	return nil
}

// env bundles the sqlite-backed repositories shared by handler tests
type env struct {
	db            *gorm.DB
	e             *echo.Echo
	users         repositories.UserRepository
	friendships   repositories.FriendshipRepository
	likes         repositories.LikeRepository
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
	chats         repositories.ChatRepository
	posts         *fakePostRepo
	hub           *realtime.Hub
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := newTestDB(t)
	return &env{
		db:            db,
		e:             echo.New(),
		users:         repositories.NewPostgresUserRepository(db),
		friendships:   repositories.NewPostgresFriendshipRepository(db),
		likes:         repositories.NewPostgresLikeRepository(db),
		comments:      repositories.NewPostgresCommentRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		chats:         repositories.NewPostgresChatRepository(db),
		posts:         newFakePostRepo(),
		hub:           realtime.NewHub(),
	}
}

func (te *env) befriend(t *testing.T, a, b uint) {
	t.Helper()
	req, err := te.friendships.SendRequest(a, b)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := te.friendships.Accept(req.ID); err != nil {
		t.Fatalf("accept request: %v", err)
	}
}

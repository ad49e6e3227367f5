package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pokerconnect/backend/internal/metrics"
	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/sanitize"
)

// PostHandler handles post creation, lookup, and resharing
type PostHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	hub              *realtime.Hub
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *PostHandler {
	return &PostHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// RegisterRoutes registers post routes to the given echo group
func (h *PostHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPostByID)
	g.POST("/posts/:id/share", h.SharePost)
	g.GET("/users/:id/posts", h.GetPostsByUser)
}

// CreatePost creates a new post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		UserID:   user.ID,
		Content:  sanitize.Text(req.Content),
		ImageURL: req.ImageURL,
	}
	if post.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post content cannot be empty")
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}
	metrics.PostsCreated.Inc()

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// GetPostByID returns a single post with its author attached
func (h *PostHandler) GetPostByID(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	author := models.PlaceholderAuthor
	if u, err := h.userRepository.GetUserByID(post.UserID); err == nil {
		author = u.ToCompact()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"post": post, "author": author},
	})
}

// GetPostsByUser returns a user's posts, newest first
func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	page, limit := pageParams(c, 10)
	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), targetID, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    posts,
		"meta":    echo.Map{"page": page, "limit": limit},
	})
}

// SharePost reshares a post with a mandatory caption. The reshare document
// and the original's share counter land atomically; the original author is
// notified afterwards.
func (h *PostHandler) SharePost(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.SharePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A caption is required to share a post")
	}

	ctx := c.Request().Context()
	original, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	share, err := h.postRepository.SharePost(ctx, original, user.ID, sanitize.Text(req.Caption))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to share post")
	}
	metrics.PostsCreated.Inc()

	fanOutNotification(h.notificationRepo, h.userRepository, h.hub, &models.Notification{
		Type:        models.NotificationShare,
		ActorID:     user.ID,
		RecipientID: original.UserID,
		PostID:      original.ID.Hex(),
		Preview:     truncatePreview(share.Content, 80),
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": share})
}

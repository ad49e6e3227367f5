package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/metrics"
	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/logger"
	"github.com/pokerconnect/backend/pkg/sanitize"
)

// CommentHandler handles comments on posts
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	notificationRepo  repositories.NotificationRepository
	hub               *realtime.Hub
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		notificationRepo:  notificationRepo,
		hub:               hub,
	}
}

// RegisterRoutes registers comment routes to the given echo group
func (h *CommentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetComments)
}

// CreateComment adds a comment to a post. The comment row and the post's
// counter live in different stores, so a counter failure reports an error
// rather than claiming success with a stale count.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	content := sanitize.Text(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment cannot be empty")
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  user.ID,
		Content: content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}

	if err := h.postRepository.IncrementCommentsCount(ctx, postID); err != nil {
		// Undo the comment row so the counter and the rows stay aligned.
		if compErr := h.commentRepository.DeleteComment(comment.ID); compErr != nil {
			logger.Error("comment compensation failed, comment row and counter diverged",
				zap.String("post_id", postID), zap.Uint("comment_id", comment.ID), zap.Error(compErr))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update comment count")
	}
	metrics.CommentsCreated.Inc()

	fanOutNotification(h.notificationRepo, h.userRepository, h.hub, &models.Notification{
		Type:        models.NotificationComment,
		ActorID:     user.ID,
		RecipientID: post.UserID,
		PostID:      postID,
		Preview:     truncatePreview(content, 80),
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments lists a post's comments oldest first, each with the author's
// compact profile.
func (h *CommentHandler) GetComments(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comments")
	}

	enriched := make([]FeedComment, 0, len(comments))
	for _, comment := range comments {
		item := FeedComment{Comment: comment, Author: models.PlaceholderAuthor}
		if u, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
			item.Author = u.ToCompact()
		}
		enriched = append(enriched, item)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched})
}

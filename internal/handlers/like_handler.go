package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/metrics"
	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/logger"
)

// LikeHandler handles the like toggle on posts
type LikeHandler struct {
	likeRepository   repositories.LikeRepository
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	hub              *realtime.Hub
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:   likeRepo,
		postRepository:   postRepo,
		userRepository:   userRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// RegisterRoutes registers like routes to the given echo group
func (h *LikeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCount)
	g.GET("/posts/:post_id/likes/status", h.GetLikeStatus)
}

// ToggleLike likes the post if the caller has not liked it, unlikes it
// otherwise. The like row and the post's counter live in different stores,
// so a counter failure undoes the row write to keep them aligned.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check like status")
	}

	var liked bool
	var likesCount int

	if hasLiked {
		if err := h.likeRepository.DeleteLike(postID, user.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove like")
		}
		if err := h.postRepository.DecrementLikesCount(ctx, postID); err != nil {
			// Restore the like row so the toggle stays consistent.
			if compErr := h.likeRepository.CreateLike(&models.Like{PostID: postID, UserID: user.ID}); compErr != nil {
				logger.Error("like compensation failed, like row and counter diverged",
					zap.String("post_id", postID), zap.Uint("user_id", user.ID), zap.Error(compErr))
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like count")
		}
		liked = false
		likesCount = post.LikesCount - 1
	} else {
		if err := h.likeRepository.CreateLike(&models.Like{PostID: postID, UserID: user.ID}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create like")
		}
		if err := h.postRepository.IncrementLikesCount(ctx, postID); err != nil {
			if compErr := h.likeRepository.DeleteLike(postID, user.ID); compErr != nil {
				logger.Error("like compensation failed, like row and counter diverged",
					zap.String("post_id", postID), zap.Uint("user_id", user.ID), zap.Error(compErr))
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update like count")
		}
		liked = true
		likesCount = post.LikesCount + 1

		fanOutNotification(h.notificationRepo, h.userRepository, h.hub, &models.Notification{
			Type:        models.NotificationLike,
			ActorID:     user.ID,
			RecipientID: post.UserID,
			PostID:      postID,
		})
	}
	metrics.LikesToggled.Inc()

	if likesCount < 0 {
		likesCount = 0
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"liked": liked, "likes_count": likesCount},
	})
}

// GetLikesCount returns the like count for a post
func (h *LikeHandler) GetLikesCount(c echo.Context) error {
	if getUserIDFromContext(c) == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.likeRepository.GetLikesCountByPostID(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch like count")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"likes_count": count}})
}

// GetLikeStatus reports whether the caller has liked a post
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(c.Param("post_id"), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch like status")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"has_liked": hasLiked}})
}

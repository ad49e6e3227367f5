package handlers

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/logger"
)

// FeedHandler assembles the enriched post feed
type FeedHandler struct {
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:    postRepo,
		userRepository:    userRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
	}
}

// RegisterRoutes registers feed routes to the given echo group
func (h *FeedHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// FeedItem is a post enriched with author, viewer like state, and comments
type FeedItem struct {
	models.Post
	Author   models.UserCompact `json:"author"`
	HasLiked bool               `json:"has_liked"`
	Comments []FeedComment      `json:"comments"`
}

// FeedComment is a comment with its author's compact profile attached
type FeedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// GetFeed returns the global feed, newest first, each post enriched per
// viewer. A sub-fetch failure degrades that post instead of failing the
// whole page.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pageParams(c, 10)
	skip := int64((page - 1) * limit)
	ctx := c.Request().Context()

	posts, err := h.postRepository.GetAllPosts(ctx, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch feed")
	}
	total, err := h.postRepository.CountPosts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count posts")
	}

	// Authors repeat across a page; cache compact profiles per request.
	authors := map[uint]models.UserCompact{}
	resolveAuthor := func(userID uint) models.UserCompact {
		if compact, ok := authors[userID]; ok {
			return compact
		}
		compact := models.PlaceholderAuthor
		if u, err := h.userRepository.GetUserByID(userID); err == nil {
			compact = u.ToCompact()
		}
		authors[userID] = compact
		return compact
	}

	items := make([]FeedItem, 0, len(posts))
	for _, post := range posts {
		item := FeedItem{
			Post:     post,
			Author:   resolveAuthor(post.UserID),
			Comments: []FeedComment{},
		}

		postID := post.ID.Hex()
		hasLiked, err := h.likeRepository.HasUserLikedPost(postID, viewerID)
		if err != nil {
			logger.Warn("feed like lookup failed",
				zap.String("post_id", postID), zap.Uint("viewer_id", viewerID), zap.Error(err))
		}
		item.HasLiked = hasLiked

		comments, err := h.commentRepository.GetCommentsByPostID(postID)
		if err != nil {
			logger.Warn("feed comment lookup failed",
				zap.String("post_id", postID), zap.Error(err))
		}
		for _, comment := range comments {
			item.Comments = append(item.Comments, FeedComment{
				Comment: comment,
				Author:  resolveAuthor(comment.UserID),
			})
		}

		items = append(items, item)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"meta": echo.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

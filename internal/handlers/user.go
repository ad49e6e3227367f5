package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/firebase"
	"github.com/pokerconnect/backend/pkg/sanitize"
)

const maxAvatarSize = 2 << 20 // 2 MB

// UserHandler handles profile and user lookup requests
type UserHandler struct {
	userRepository       repositories.UserRepository
	friendshipRepository repositories.FriendshipRepository
	firebaseApp          *firebase.App
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, friendshipRepo repositories.FriendshipRepository, firebaseApp *firebase.App) *UserHandler {
	return &UserHandler{
		userRepository:       userRepo,
		friendshipRepository: friendshipRepo,
		firebaseApp:          firebaseApp,
	}
}

// RegisterRoutes registers user routes to the given echo group
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/profile/avatar", h.UploadAvatar)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUserByID)
}

// GetOwnProfile returns the authenticated user's profile
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// UpdateProfile applies partial edits to the authenticated user's profile.
// The username is a permanent handle and cannot be changed here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.DisplayName != "" {
		user.DisplayName = sanitize.Text(req.DisplayName)
	}
	if req.Bio != "" {
		user.Bio = sanitize.Text(req.Bio)
	}
	if req.SkillLevel != "" {
		user.SkillLevel = req.SkillLevel
	}
	if req.Interests != "" {
		user.Interests = sanitize.Text(req.Interests)
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// UploadAvatar accepts a multipart image, stores it in the bucket, and
// updates the profile's avatar URL. Size and content type are validated
// before a single byte reaches storage.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	if h.firebaseApp == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Avatar storage is not configured")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing avatar file")
	}
	if fileHeader.Size > maxAvatarSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Avatar must be 2MB or smaller")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return echo.NewHTTPError(http.StatusBadRequest, "Avatar must be an image")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read avatar file")
	}
	defer src.Close()

	objectName := fmt.Sprintf("avatars/%d/%s", user.ID, uuid.NewString())
	avatarURL, err := h.firebaseApp.UploadObject(c.Request().Context(), objectName, contentType, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to store avatar")
	}

	user.AvatarURL = avatarURL
	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile with new avatar")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"avatar_url": avatarURL}})
}

// GetUserByID returns another user's profile together with the friendship
// status from the viewer's perspective.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	viewerID := getUserIDFromContext(c)
	if viewerID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	target, err := h.userRepository.GetUserByID(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	status := models.StatusNotFriends
	if viewerID != targetID {
		status, err = h.friendshipRepository.Status(viewerID, targetID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve friendship status")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":              target,
			"friendship_status": status,
		},
	})
}

// SearchUsers searches users by username or display name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	_, limit := pageParams(c, 20)
	users, err := h.userRepository.SearchUsers(query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}

	results := make([]models.UserCompact, 0, len(users))
	for i := range users {
		results = append(results, users[i].ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": results})
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/repositories"
)

// NotificationHandler handles the notification stream and the unread badge
type NotificationHandler struct {
	notificationRepo repositories.NotificationRepository
	userRepository   repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		userRepository:   userRepo,
	}
}

// RegisterRoutes registers notification routes to the given echo group
func (h *NotificationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// NotificationItem is a stored notification with the actor's compact profile
// and the rendered display message attached.
type NotificationItem struct {
	models.Notification
	Actor   models.UserCompact `json:"actor"`
	Message string             `json:"message"`
}

// GetNotifications lists the caller's notifications, newest first. The
// display text is derived at render time from the type tag and payload.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	page, limit := pageParams(c, 20)
	notifications, total, err := h.notificationRepo.GetByRecipientID(user.ID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	actors := map[uint]models.UserCompact{}
	items := make([]NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		actor, ok := actors[n.ActorID]
		if !ok {
			actor = models.PlaceholderAuthor
			if u, err := h.userRepository.GetUserByID(n.ActorID); err == nil {
				actor = u.ToCompact()
			}
			actors[n.ActorID] = actor
		}
		items = append(items, NotificationItem{
			Notification: n,
			Actor:        actor,
			Message:      n.RenderMessage(actor.DisplayName),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"meta":    echo.Map{"page": page, "limit": limit, "total": total},
	})
}

// GetUnreadCount returns the badge count, recomputed from unread eligible
// records.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	count, err := h.notificationRepo.GetUnreadCount(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch unread count")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unread_count": count}})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	notificationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationRepo.MarkAsRead(notificationID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	if err := h.notificationRepo.MarkAllAsRead(user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

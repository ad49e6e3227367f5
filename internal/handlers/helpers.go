package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/metrics"
	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
	"github.com/pokerconnect/backend/pkg/logger"
)

// getUserIDFromContext extracts the authenticated user ID set by the JWT
// middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// requireUser resolves the authenticated user's profile or fails with 401
func requireUser(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := users.GetUserByID(userID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
	}
	return user, nil
}

// parseUintParam parses a numeric path parameter
func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(v), nil
}

// pageParams reads page/limit query parameters with sane bounds
func pageParams(c echo.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = defaultLimit
	}
	return page, limit
}

// fanOutNotification persists a notification and pushes it to the recipient
// over the hub. Self-targeted fan-outs are skipped. Fan-out is a side
// effect: a failure is logged, never propagated to the triggering request.
func fanOutNotification(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	hub *realtime.Hub,
	n *models.Notification,
) {
	if n.RecipientID == n.ActorID {
		return
	}
	if err := notifications.CreateNotification(n); err != nil {
		logger.Error("failed to create notification",
			zap.String("type", n.Type), zap.Uint("recipient_id", n.RecipientID), zap.Error(err))
		return
	}
	metrics.NotificationsFanout.WithLabelValues(n.Type).Inc()

	actorName := ""
	if actor, err := users.GetUserByID(n.ActorID); err == nil {
		actorName = actor.DisplayName
	}
	hub.SendToUser(n.RecipientID, realtime.Event{
		Type: realtime.EventNotification,
		Payload: echo.Map{
			"notification": n,
			"message":      n.RenderMessage(actorName),
		},
	})
}

// truncatePreview shortens user text for notification payloads
func truncatePreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

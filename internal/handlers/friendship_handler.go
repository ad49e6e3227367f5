package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/internal/realtime"
	"github.com/pokerconnect/backend/internal/repositories"
)

// FriendshipHandler handles friend requests and the friend graph
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
	notificationRepo     repositories.NotificationRepository
	hub                  *realtime.Hub
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(
	friendshipRepo repositories.FriendshipRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
		notificationRepo:     notificationRepo,
		hub:                  hub,
	}
}

// RegisterRoutes registers friendship routes to the given echo group
func (h *FriendshipHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendRequest)
	g.GET("/friends/requests/pending", h.GetPendingRequests)
	g.PUT("/friends/request/:id/accept", h.AcceptRequest)
	g.PUT("/friends/request/:id/decline", h.DeclineRequest)
	g.DELETE("/friends/:id", h.Unfriend)
	g.GET("/friends", h.ListFriends)
	g.GET("/friends/status/:id", h.GetStatus)
}

// SendRequest creates a pending friend request and notifies the receiver
func (h *FriendshipHandler) SendRequest(c echo.Context) error {
	sender, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.SendFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Receiver not found")
	}

	request, err := h.friendshipRepository.SendRequest(sender.ID, req.ReceiverID)
	if err != nil {
		switch err {
		case repositories.ErrSelfRequest:
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
		case repositories.ErrAlreadyFriends:
			return echo.NewHTTPError(http.StatusConflict, "Already friends")
		case repositories.ErrRequestPending:
			return echo.NewHTTPError(http.StatusConflict, "A pending request already exists between these users")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send friend request")
		}
	}

	fanOutNotification(h.notificationRepo, h.userRepository, h.hub, &models.Notification{
		Type:        models.NotificationFriendRequest,
		ActorID:     sender.ID,
		RecipientID: req.ReceiverID,
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": request})
}

// GetPendingRequests lists pending requests addressed to the caller,
// enriched with the sender's compact profile.
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	requests, err := h.friendshipRepository.GetPendingRequests(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch pending requests")
	}

	type pendingRequest struct {
		models.FriendRequest
		Sender models.UserCompact `json:"sender"`
	}
	enriched := make([]pendingRequest, 0, len(requests))
	for _, r := range requests {
		item := pendingRequest{FriendRequest: r, Sender: models.PlaceholderAuthor}
		if sender, err := h.userRepository.GetUserByID(r.SenderID); err == nil {
			item.Sender = sender.ToCompact()
		}
		enriched = append(enriched, item)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched})
}

// AcceptRequest accepts a pending request addressed to the caller. The
// status change and both friendship edges land atomically.
func (h *FriendshipHandler) AcceptRequest(c echo.Context) error {
	return h.resolveRequest(c, true)
}

// DeclineRequest declines a pending request addressed to the caller
func (h *FriendshipHandler) DeclineRequest(c echo.Context) error {
	return h.resolveRequest(c, false)
}

func (h *FriendshipHandler) resolveRequest(c echo.Context, accept bool) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	request, err := h.friendshipRepository.GetRequestByID(requestID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
	}
	// Only the receiver may resolve a request.
	if request.ReceiverID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not the receiver of this request")
	}

	notificationType := models.NotificationFriendRequestAccepted
	if accept {
		request, err = h.friendshipRepository.Accept(requestID)
	} else {
		request, err = h.friendshipRepository.Decline(requestID)
		notificationType = models.NotificationFriendRequestDeclined
	}
	if err != nil {
		if err == repositories.ErrRequestResolved {
			return echo.NewHTTPError(http.StatusConflict, "Request has already been resolved")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve friend request")
	}

	fanOutNotification(h.notificationRepo, h.userRepository, h.hub, &models.Notification{
		Type:        notificationType,
		ActorID:     user.ID,
		RecipientID: request.SenderID,
	})
	if accept {
		h.hub.SendToUser(request.SenderID, realtime.Event{
			Type:    realtime.EventFriendship,
			Payload: echo.Map{"friend_id": user.ID, "status": models.StatusFriends},
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": request})
}

// Unfriend removes a confirmed friendship in both directions
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	friendID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.Unfriend(user.ID, friendID); err != nil {
		if err == repositories.ErrNotFriends {
			return echo.NewHTTPError(http.StatusNotFound, "Not friends with this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to unfriend")
	}

	h.hub.SendToUser(friendID, realtime.Event{
		Type:    realtime.EventFriendship,
		Payload: echo.Map{"friend_id": user.ID, "status": models.StatusNotFriends},
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ListFriends returns the caller's confirmed friends as compact profiles
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	friends, err := h.friendshipRepository.ListFriends(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch friends")
	}

	compact := make([]models.UserCompact, 0, len(friends))
	for i := range friends {
		compact = append(compact, friends[i].ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": compact})
}

// GetStatus resolves the relationship between the caller and another user
func (h *FriendshipHandler) GetStatus(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	otherID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	status, err := h.friendshipRepository.Status(user.ID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve friendship status")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": status}})
}

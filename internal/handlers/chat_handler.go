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

// ChatHandler handles direct messaging between friends
type ChatHandler struct {
	chatRepository       repositories.ChatRepository
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
	hub                  *realtime.Hub
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(
	chatRepo repositories.ChatRepository,
	friendshipRepo repositories.FriendshipRepository,
	userRepo repositories.UserRepository,
	hub *realtime.Hub,
) *ChatHandler {
	return &ChatHandler{
		chatRepository:       chatRepo,
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
		hub:                  hub,
	}
}

// RegisterRoutes registers chat routes to the given echo group
func (h *ChatHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/chats", h.ListChats)
	g.POST("/chats/:user_id/open", h.OpenChat)
	g.GET("/chats/:id/messages", h.GetMessages)
	g.POST("/chats/:id/messages", h.SendMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// ChatItem is a conversation with the counterpart's compact profile and the
// caller's own unread counter attached.
type ChatItem struct {
	models.Chat
	Counterpart models.UserCompact `json:"counterpart"`
	UnreadCount int                `json:"unread_count"`
	IsOnline    bool               `json:"is_online"`
}

// ListChats returns the caller's conversations, most recently active first
func (h *ChatHandler) ListChats(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	chats, err := h.chatRepository.ListChatsForUser(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch chats")
	}

	items := make([]ChatItem, 0, len(chats))
	for _, chat := range chats {
		otherID := chat.Other(user.ID)
		counterpart := models.PlaceholderAuthor
		if u, err := h.userRepository.GetUserByID(otherID); err == nil {
			counterpart = u.ToCompact()
		}
		items = append(items, ChatItem{
			Chat:        chat,
			Counterpart: counterpart,
			UnreadCount: chat.UnreadFor(user.ID),
			IsOnline:    h.hub.IsOnline(otherID),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// OpenChat returns the conversation with another user, creating it on first
// contact. Messaging is restricted to confirmed friends.
func (h *ChatHandler) OpenChat(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	otherID, err := parseUintParam(c, "user_id")
	if err != nil {
		return err
	}
	if otherID == user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot open a chat with yourself")
	}

	if err := h.requireFriendship(user.ID, otherID); err != nil {
		return err
	}

	chat, err := h.chatRepository.GetOrCreateChat(user.ID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open chat")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": chat})
}

// GetMessages returns the full history of a conversation, oldest first.
// Opening the conversation marks the counterpart's messages as read and
// zeroes the caller's unread counter before the listing.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	chat, err := h.requireChatAccess(c, user.ID)
	if err != nil {
		return err
	}

	if err := h.chatRepository.MarkConversationRead(chat.ID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark conversation as read")
	}

	messages, err := h.chatRepository.ListMessages(chat.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch messages")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": messages})
}

// SendMessage appends a message to a conversation and pushes it to the
// recipient over the hub.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	chat, err := h.requireChatAccess(c, user.ID)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	content := sanitize.Text(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message cannot be empty")
	}

	msg, err := h.chatRepository.SendMessage(chat.ID, user.ID, content)
	if err != nil {
		if err == repositories.ErrNotMessageOwner {
			return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this chat")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}
	metrics.MessagesSent.Inc()

	h.hub.SendToUser(chat.Other(user.ID), realtime.Event{
		Type:    realtime.EventChatMessage,
		Payload: echo.Map{"chat_id": chat.ID, "message": msg, "sender": user.ToCompact()},
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// DeleteMessage soft-deletes one of the caller's own messages. The message
// row survives as a tombstone; the chat's last-message snapshot is
// recomputed when it pointed at the deleted message.
func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	user, err := requireUser(c, h.userRepository)
	if err != nil {
		return err
	}

	messageID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	chat, err := h.chatRepository.SoftDeleteMessage(messageID, user.ID)
	if err != nil {
		if err == repositories.ErrNotMessageOwner {
			return echo.NewHTTPError(http.StatusForbidden, "Only the sender can delete a message")
		}
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}

	h.hub.SendToUser(chat.Other(user.ID), realtime.Event{
		Type:    realtime.EventChatMessage,
		Payload: echo.Map{"chat_id": chat.ID, "deleted_message_id": messageID, "chat": chat},
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"chat": chat}})
}

// requireChatAccess loads the chat from the :id parameter and verifies the
// caller is a participant and still friends with the counterpart. Friendship
// is re-validated on every access, not just at creation.
func (h *ChatHandler) requireChatAccess(c echo.Context, userID uint) (*models.Chat, error) {
	chatID, err := parseUintParam(c, "id")
	if err != nil {
		return nil, err
	}

	chat, err := h.chatRepository.GetChatByID(chatID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Chat not found")
	}
	if !chat.HasParticipant(userID) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not a participant of this chat")
	}
	if err := h.requireFriendship(userID, chat.Other(userID)); err != nil {
		return nil, err
	}
	return chat, nil
}

func (h *ChatHandler) requireFriendship(userID, otherID uint) error {
	friends, err := h.friendshipRepository.AreFriends(userID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify friendship")
	}
	if !friends {
		return echo.NewHTTPError(http.StatusForbidden, "Messaging is limited to friends")
	}
	return nil
}

package repositories

import (
	"time"

	"github.com/pokerconnect/backend/internal/models"
	"gorm.io/gorm"
)

// ChatRepository manages two-party conversations. Every mutation that
// touches both a message row and the chat's denormalized snapshot/unread
// counters runs in a single transaction so they cannot diverge.
type ChatRepository interface {
	GetOrCreateChat(userID, otherID uint) (*models.Chat, error)
	GetChatByID(id uint) (*models.Chat, error)
	ListChatsForUser(userID uint) ([]models.Chat, error)
	ListMessages(chatID uint) ([]models.Message, error)
	SendMessage(chatID, senderID uint, content string) (*models.Message, error)
	MarkConversationRead(chatID, viewerID uint) error
	SoftDeleteMessage(messageID, senderID uint) (*models.Chat, error)
	DeleteAllForUser(userID uint) error
}

// PostgresChatRepository implements ChatRepository for PostgreSQL
type PostgresChatRepository struct {
	db *gorm.DB
}

// NewPostgresChatRepository creates a new PostgresChatRepository
func NewPostgresChatRepository(db *gorm.DB) *PostgresChatRepository {
	return &PostgresChatRepository{db: db}
}

// GetOrCreateChat returns the conversation for the pair, creating it lazily
// on first contact. Participants are stored in ascending ID order.
func (r *PostgresChatRepository) GetOrCreateChat(userID, otherID uint) (*models.Chat, error) {
	a, b := models.ChatPair(userID, otherID)
	var chat models.Chat
	err := r.db.Where(models.Chat{UserAID: a, UserBID: b}).FirstOrCreate(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChatByID retrieves a chat by ID
func (r *PostgresChatRepository) GetChatByID(id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChatsForUser returns the user's conversations, most recently active first
func (r *PostgresChatRepository) ListChatsForUser(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	if err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC").Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

// ListMessages returns the full message history of a chat, oldest first.
// Soft-deleted messages are included; they render as placeholders.
func (r *PostgresChatRepository) ListMessages(chatID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends an unread message and, in the same transaction,
// refreshes the chat's last-message snapshot, increments the recipient's
// unread counter, and resets the sender's.
func (r *PostgresChatRepository) SendMessage(chatID, senderID uint, content string) (*models.Message, error) {
	msg := &models.Message{
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, chatID).Error; err != nil {
			return err
		}
		if !chat.HasParticipant(senderID) {
			return ErrNotMessageOwner
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"last_message_id":        msg.ID,
			"last_message_text":      content,
			"last_message_sender_id": senderID,
			"last_message_at":        msg.CreatedAt,
		}
		if chat.UserAID == senderID {
			updates["unread_a"] = 0
			updates["unread_b"] = gorm.Expr("unread_b + 1")
		} else {
			updates["unread_b"] = 0
			updates["unread_a"] = gorm.Expr("unread_a + 1")
		}
		return tx.Model(&models.Chat{}).Where("id = ?", chatID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkConversationRead marks every counterpart message as read and zeroes
// the viewer's unread counter in one transaction. Invoked whenever the
// viewer fetches an open conversation.
func (r *PostgresChatRepository) MarkConversationRead(chatID, viewerID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, chatID).Error; err != nil {
			return err
		}
		if !chat.HasParticipant(viewerID) {
			return ErrNotMessageOwner
		}
		if err := tx.Model(&models.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, viewerID, false).
			Update("is_read", true).Error; err != nil {
			return err
		}
		column := "unread_b"
		if chat.UserAID == viewerID {
			column = "unread_a"
		}
		return tx.Model(&models.Chat{}).Where("id = ?", chatID).Update(column, 0).Error
	})
}

// SoftDeleteMessage clears a message's text and sets its tombstone flag. If
// the message backed the chat's last-message snapshot, the snapshot is
// recomputed from the latest surviving non-deleted message, falling back to
// a generic placeholder when none remains. Returns the updated chat.
func (r *PostgresChatRepository) SoftDeleteMessage(messageID, senderID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		if err := tx.First(&msg, messageID).Error; err != nil {
			return err
		}
		if msg.SenderID != senderID {
			return ErrNotMessageOwner
		}
		if err := tx.Model(&models.Message{}).Where("id = ?", messageID).
			Updates(map[string]interface{}{"content": "", "is_deleted": true}).Error; err != nil {
			return err
		}
		if err := tx.First(&chat, msg.ChatID).Error; err != nil {
			return err
		}
		if chat.LastMessageID != messageID {
			return nil
		}

		var latest models.Message
		err := tx.Where("chat_id = ? AND is_deleted = ?", msg.ChatID, false).
			Order("created_at DESC, id DESC").First(&latest).Error
		updates := map[string]interface{}{}
		switch {
		case err == nil:
			updates["last_message_id"] = latest.ID
			updates["last_message_text"] = latest.Content
			updates["last_message_sender_id"] = latest.SenderID
			updates["last_message_at"] = latest.CreatedAt
		case err == gorm.ErrRecordNotFound:
			updates["last_message_id"] = 0
			updates["last_message_text"] = models.MessageDeletedPlaceholder
			updates["last_message_sender_id"] = msg.SenderID
		default:
			return err
		}
		if err := tx.Model(&models.Chat{}).Where("id = ?", chat.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&chat, chat.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteAllForUser removes the user's chats and every message in them. Part
// of the account-deletion cascade.
func (r *PostgresChatRepository) DeleteAllForUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var chatIDs []uint
		if err := tx.Model(&models.Chat{}).
			Where("user_a_id = ? OR user_b_id = ?", userID, userID).
			Pluck("id", &chatIDs).Error; err != nil {
			return err
		}
		if len(chatIDs) == 0 {
			return nil
		}
		if err := tx.Where("chat_id IN ?", chatIDs).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", chatIDs).Delete(&models.Chat{}).Error
	})
}

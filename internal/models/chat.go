package models

import "time"

// MessageDeletedPlaceholder replaces the last-message snapshot when no
// non-deleted message remains in a chat.
const MessageDeletedPlaceholder = "Message deleted"

// Chat is a two-party conversation container. Participants are stored in
// ascending ID order so the pair is unique regardless of who messaged first.
// The last-message snapshot and the per-participant unread counters are
// denormalized and only ever mutated inside the same transaction as the
// message write they describe.
type Chat struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	UserAID             uint      `json:"user_a_id" gorm:"index;uniqueIndex:idx_chat_pair"`
	UserBID             uint      `json:"user_b_id" gorm:"index;uniqueIndex:idx_chat_pair"`
	LastMessageID       uint      `json:"last_message_id"`
	LastMessageText     string    `json:"last_message_text"`
	LastMessageSenderID uint      `json:"last_message_sender_id"`
	LastMessageAt       time.Time `json:"last_message_at"`
	UnreadA             int       `json:"unread_a" gorm:"default:0"`
	UnreadB             int       `json:"unread_b" gorm:"default:0"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ChatPair orders two participant IDs the way Chat stores them.
func ChatPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether the user is one of the two parties.
func (c *Chat) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Other returns the counterpart of the given participant.
func (c *Chat) Other(userID uint) uint {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// UnreadFor returns the unread counter belonging to the given participant.
func (c *Chat) UnreadFor(userID uint) int {
	if c.UserAID == userID {
		return c.UnreadA
	}
	return c.UnreadB
}

// Message is a single chat message. Deletion is soft: the text is cleared
// and the tombstone flag set, the row is never removed.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ChatID    uint      `json:"chat_id" gorm:"index"`
	SenderID  uint      `json:"sender_id" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	IsDeleted bool      `json:"is_deleted" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

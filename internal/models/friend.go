package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendRequest status values. A request transitions out of pending exactly
// once and never back.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

// FriendshipStatus is the resolved relationship between two users from the
// first user's perspective.
type FriendshipStatus string

const (
	StatusFriends         FriendshipStatus = "friends"
	StatusPendingSent     FriendshipStatus = "pending_sent"
	StatusPendingReceived FriendshipStatus = "pending_received"
	StatusNotFriends      FriendshipStatus = "not_friends"
)

// FriendEdge is one half of a confirmed friendship. Edges are always created
// and deleted in symmetric pairs inside a single transaction: an edge under
// UserID referencing FriendID must imply the reverse edge.
type FriendEdge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_friend"`
	FriendID  uint      `json:"friend_id" gorm:"index;uniqueIndex:idx_user_friend"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendRequest represents a friend request between two users
type FriendRequest struct {
	gorm.Model
	SenderID   uint   `json:"sender_id" gorm:"index"`   // User ID of the sender
	ReceiverID uint   `json:"receiver_id" gorm:"index"` // User ID of the receiver
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}

// SendFriendRequest defines the request body for sending a friend request
type SendFriendRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

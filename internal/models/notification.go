package models

import (
	"fmt"
	"time"
)

// Notification types eligible for the stream and the unread badge.
const (
	NotificationFriendRequest         = "friend_request"
	NotificationFriendRequestAccepted = "friend_request_accepted"
	NotificationFriendRequestDeclined = "friend_request_declined"
	NotificationLike                  = "like"
	NotificationComment               = "comment"
	NotificationShare                 = "share"
)

// EligibleNotificationTypes is the fixed set of actionable types. Records of
// any other type are excluded from listings and from the unread count.
var EligibleNotificationTypes = []string{
	NotificationFriendRequest,
	NotificationFriendRequestAccepted,
	NotificationFriendRequestDeclined,
	NotificationLike,
	NotificationComment,
	NotificationShare,
}

// Notification is a fan-out record created as a side effect of an
// interaction. The display text is never stored; it is derived from the type
// tag and payload at render time.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	PostID      string    `json:"post_id,omitempty"` // Related post, when the type has one
	Preview     string    `json:"preview,omitempty"` // Comment text or share caption excerpt
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// RenderMessage derives the human-readable message purely from the type tag
// and payload.
func (n *Notification) RenderMessage(actorName string) string {
	if actorName == "" {
		actorName = "Someone"
	}
	switch n.Type {
	case NotificationFriendRequest:
		return fmt.Sprintf("%s sent you a friend request", actorName)
	case NotificationFriendRequestAccepted:
		return fmt.Sprintf("%s accepted your friend request", actorName)
	case NotificationFriendRequestDeclined:
		return fmt.Sprintf("%s declined your friend request", actorName)
	case NotificationLike:
		return fmt.Sprintf("%s liked your post", actorName)
	case NotificationComment:
		if n.Preview != "" {
			return fmt.Sprintf("%s commented on your post: %s", actorName, n.Preview)
		}
		return fmt.Sprintf("%s commented on your post", actorName)
	case NotificationShare:
		if n.Preview != "" {
			return fmt.Sprintf("%s shared your post: %s", actorName, n.Preview)
		}
		return fmt.Sprintf("%s shared your post", actorName)
	}
	return fmt.Sprintf("%s interacted with you", actorName)
}

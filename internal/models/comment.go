package models

import "gorm.io/gorm"

// Comment represents a comment on a post. Comments are immutable once
// created and are listed ascending by creation time.
type Comment struct {
	gorm.Model
	PostID  string `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID  uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

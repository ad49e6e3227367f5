package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed item stored in MongoDB. A reshare carries the
// original post's identity plus a content snapshot so the feed can render it
// even if the original author disappears.
type Post struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           uint               `json:"user_id" bson:"user_id"`
	Content          string             `json:"content" bson:"content"`
	ImageURL         string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	OriginalPostID   string             `json:"original_post_id,omitempty" bson:"original_post_id,omitempty"`
	OriginalUserID   uint               `json:"original_user_id,omitempty" bson:"original_user_id,omitempty"`
	OriginalContent  string             `json:"original_content,omitempty" bson:"original_content,omitempty"`
	OriginalImageURL string             `json:"original_image_url,omitempty" bson:"original_image_url,omitempty"`
	LikesCount       int                `json:"likes_count" bson:"likes_count"`
	CommentsCount    int                `json:"comments_count" bson:"comments_count"`
	SharesCount      int                `json:"shares_count" bson:"shares_count"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// SharePostRequest defines the request body for resharing a post. The
// caption is mandatory.
type SharePostRequest struct {
	Caption string `json:"caption" validate:"required,min=1,max=500"`
}

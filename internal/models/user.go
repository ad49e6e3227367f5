package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User represents a poker player profile
type User struct {
	gorm.Model  `json:"-"`
	ID          uint    `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"uniqueIndex;size:30"` // Unique handle, not editable after signup
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Bio         string  `json:"bio"`
	AvatarURL   string  `json:"avatar_url"`
	SkillLevel  string  `json:"skill_level" gorm:"size:20;default:'beginner'"` // beginner, intermediate, advanced
	Interests   string  `json:"interests"`                                     // Comma-separated poker interests
	Password    string  `json:"-"`                                             // Store hashed password, ignore for JSON serialization
	FirebaseUID *string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`     // Link to Firebase User UID, NULL for local accounts
}

// UserCompact is the minimal author/actor projection embedded in feeds,
// comments, and notifications.
type UserCompact struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// ToCompact returns the compact projection of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// PlaceholderAuthor is rendered when a post's author record no longer
// resolves; the feed degrades the post instead of failing.
var PlaceholderAuthor = UserCompact{DisplayName: "Unknown player"}

type CreateLocalUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=500"`
	SkillLevel  string `json:"skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Interests   string `json:"interests,omitempty" validate:"omitempty,max=200"`
}

// DeleteAccountRequest requires credential re-verification before the
// destructive cascade runs.
type DeleteAccountRequest struct {
	Password string `json:"password,omitempty"`
	IDToken  string `json:"id_token,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents an account. FollowersCount and FollowingCount are
// denormalized snapshots of the follow-edge collection; the reconciler
// recomputes them from the edges, they are never incremented in place.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:30;uniqueIndex"`
	DisplayName    string    `json:"display_name" gorm:"size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Password       string    `json:"-"`
	FirebaseUID    string    `json:"firebase_uid,omitempty" gorm:"index"`
	Bio            string    `json:"bio,omitempty" gorm:"size:200"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	DeviceToken    string    `json:"-" gorm:"size:255"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the compact user shape embedded in list responses.
// IsFollowing is viewer-relative and stamped by the follow decorator;
// nil means the flag was never computed (e.g. anonymous viewer).
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	IsFollowing *bool  `json:"is_following,omitempty"`
}

// ToSummary converts a User to its compact representation
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest carries a Firebase ID token obtained by the client
// after a social sign-in (Google, Apple, phone-SMS).
type FirebaseLoginRequest struct {
	IDToken     string `json:"id_token" validate:"required"`
	Username    string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
}

type UpdateUserRequest struct {
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=200"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	DeviceToken string `json:"device_token,omitempty" validate:"omitempty,max=255"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

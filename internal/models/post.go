package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a short-video post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Caption       string             `json:"caption" bson:"caption"`
	VideoURL      string             `json:"video_url" bson:"video_url"`
	ThumbnailURL  string             `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	DurationSecs  int                `json:"duration_secs,omitempty" bson:"duration_secs,omitempty"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption      string `json:"caption" validate:"max=500"`
	VideoURL     string `json:"video_url" validate:"required,url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	DurationSecs int    `json:"duration_secs,omitempty" validate:"omitempty,min=1,max=600"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Caption      string `json:"caption,omitempty" validate:"omitempty,max=500"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a post in the DawgSocial application, possibly a
// reshare of another post's content.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`

	// Share fields. SharedAt is written only by the share operation, so
	// editing a post never reshuffles the feed ordering.
	SharedAt      *time.Time `json:"shared_at,omitempty"`
	SharedCaption *string    `gorm:"type:text" json:"shared_caption,omitempty"`
	SharedUserID  *uint      `gorm:"index" json:"shared_user_id,omitempty"`
	SharedUser    *User      `gorm:"foreignKey:SharedUserID;constraint:OnDelete:CASCADE" json:"shared_user,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int `gorm:"->" json:"dislikes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Disliked indicates whether the current requesting user disliked this post (computed)
	Disliked bool `gorm:"->" json:"disliked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

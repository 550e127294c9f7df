package models

import (
	"time"
)

// PostLike records a user's membership in a post's liked_by set.
// The combination of UserID and PostID must be unique.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
}

// TableName keeps the historical table name for the liked_by relation.
func (PostLike) TableName() string {
	return "post_likes"
}

// PostDislike records a user's membership in a post's disliked_by set.
// The combination of UserID and PostID must be unique.
type PostDislike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_dislike_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_dislike_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
}

// TableName keeps the historical table name for the disliked_by relation.
func (PostDislike) TableName() string {
	return "post_dislikes"
}

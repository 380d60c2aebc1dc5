package models

import (
	"time"
)

// Post represents a post in the feed
type Post struct {
	ID        string    `gorm:"type:varchar(36);primaryKey;column:id"`
	AuthorID  string    `gorm:"type:varchar(36);not null;index:posts_author_idx;column:author_id"`
	Content   string    `gorm:"type:text;not null;default:'';column:content"`
	MediaURLs []string  `gorm:"serializer:json;type:text;column:media_urls"`
	IsDeleted bool      `gorm:"not null;default:false;index:posts_live_idx;column:is_deleted"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Author *User      `gorm:"foreignKey:AuthorID;references:ID"`
	Views  []PostView `gorm:"foreignKey:PostID;references:ID"`
	Likes  []PostLike `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// PostView is one viewer's history on a post. ViewCount starts at 1 and is
// incremented on every repeat view.
type PostView struct {
	PostID       string    `gorm:"type:varchar(36);primaryKey;column:post_id"`
	ViewerID     string    `gorm:"type:varchar(36);primaryKey;column:viewer_id"`
	ViewCount    int       `gorm:"not null;default:1;column:view_count"`
	LastViewedAt time.Time `gorm:"not null;column:last_viewed_at"`
}

// TableName specifies the table name for PostView
func (PostView) TableName() string {
	return "post_views"
}

// PostLike records a user liking a post
type PostLike struct {
	PostID  string    `gorm:"type:varchar(36);primaryKey;column:post_id"`
	UserID  string    `gorm:"type:varchar(36);primaryKey;column:user_id"`
	LikedAt time.Time `gorm:"not null;column:liked_at"`
}

// TableName specifies the table name for PostLike
func (PostLike) TableName() string {
	return "post_likes"
}

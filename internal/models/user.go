package models

import (
	"time"
)

// User represents a member account
type User struct {
	ID          string `gorm:"type:varchar(36);primaryKey;column:id"`
	Username    string `gorm:"type:varchar(32);not null;uniqueIndex:users_username_ux;column:username"`
	DisplayName string `gorm:"type:varchar(64);not null;default:'';column:display_name"`
	AvatarURL   string `gorm:"type:varchar(1024);not null;default:'';column:avatar_url"`

	// Social stats, kept in step with the follows table
	FollowerCount  int64 `gorm:"not null;default:0;column:follower_count"`
	FollowingCount int64 `gorm:"not null;default:0;column:following_count"`

	IsDeleted bool      `gorm:"not null;default:false;column:is_deleted"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

package models

import (
	"time"
)

// Follow is a directed edge: Follower follows Followed. The "following" list
// of a user and the "followers" list of the other are both read from this
// table, so the two sides cannot drift apart.
type Follow struct {
	FollowerID string    `gorm:"type:varchar(36);primaryKey;column:follower_id"`
	FollowedID string    `gorm:"type:varchar(36);primaryKey;index:follows_followed_idx;column:followed_id"`
	FollowedAt time.Time `gorm:"not null;column:followed_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID"`
	Followed *User `gorm:"foreignKey:FollowedID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

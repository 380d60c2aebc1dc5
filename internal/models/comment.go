package models

import (
	"time"
)

// Comment is a comment attached to any content item
type Comment struct {
	ID          string      `gorm:"type:varchar(36);primaryKey;column:id"`
	AuthorID    string      `gorm:"type:varchar(36);not null;column:author_id"`
	ContentType ContentType `gorm:"type:varchar(16);not null;index:comments_target_idx,priority:1;column:content_type"`
	ContentID   string      `gorm:"type:varchar(36);not null;index:comments_target_idx,priority:2;column:content_id"`
	Text        string      `gorm:"type:text;not null;column:text"`
	IsDeleted   bool        `gorm:"not null;default:false;column:is_deleted"`
	CreatedAt   time.Time   `gorm:"not null;column:created_at"`

	// Relationships
	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

package models

import (
	"time"
)

// NotificationType is the activity that produced a notification
type NotificationType string

// Notification type constants
const (
	NotifyTypeFollow  NotificationType = "follow"
	NotifyTypeLike    NotificationType = "like"
	NotifyTypeComment NotificationType = "comment"
)

// Notification represents a notification delivered to Recipient
type Notification struct {
	ID          string           `gorm:"type:varchar(36);primaryKey;column:id"`
	Type        NotificationType `gorm:"type:varchar(16);not null;column:type"`
	RecipientID string           `gorm:"type:varchar(36);not null;index:notifications_recipient_idx,priority:1;column:recipient_id"`
	ActorID     string           `gorm:"type:varchar(36);not null;column:actor_id"`
	ContentType ContentType      `gorm:"type:varchar(16);not null;column:content_type"`
	ContentID   string           `gorm:"type:varchar(36);not null;column:content_id"`
	Message     string           `gorm:"type:text;not null;default:'';column:message"`
	Payload     string           `gorm:"type:text;not null;default:'';column:payload"`
	IsRead      bool             `gorm:"not null;default:false;column:is_read"`
	CreatedAt   time.Time        `gorm:"not null;index:notifications_recipient_idx,priority:2;column:created_at"`

	// Relationships
	Actor *User `gorm:"foreignKey:ActorID;references:ID"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

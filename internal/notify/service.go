package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reseau-local/reseau/internal/models"
)

// MaxLimit caps a notification listing
const MaxLimit = 100

// ErrNotFound is returned when marking a notification the viewer does not own
var ErrNotFound = errors.New("notify: notification not found")

// Notification is the rendered form returned to clients
type Notification struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	ActorID     string             `json:"actorId"`
	ContentType models.ContentType `json:"contentType"`
	ContentID   string             `json:"contentId"`
	Message     string             `json:"message"`
	Payload     models.Payload     `json:"payload,omitempty"`
	IsRead      bool               `json:"isRead"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Service reads and updates a recipient's notifications
type Service struct {
	store Store
}

// NewService creates a new notification service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the recipient's notifications, newest first
func (s *Service) List(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	rows, err := s.store.ListNotifications(ctx, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]Notification, 0, len(rows))
	for _, n := range rows {
		r := Notification{
			ID:          n.ID,
			Type:        string(n.Type),
			ActorID:     n.ActorID,
			ContentType: n.ContentType,
			ContentID:   n.ContentID,
			Message:     n.Message,
			IsRead:      n.IsRead,
			CreatedAt:   n.CreatedAt,
		}
		if n.Payload != "" {
			// A payload that no longer decodes is dropped, the message still renders
			if p, err := models.DecodePayload(n.Payload); err == nil {
				r.Payload = p
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Unread returns how many notifications the recipient has not read
func (s *Service) Unread(ctx context.Context, recipientID string) (int64, error) {
	n, err := s.store.UnreadCount(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the recipient's notifications as read
func (s *Service) MarkRead(ctx context.Context, id, recipientID string) error {
	ok, err := s.store.MarkRead(ctx, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

package db

import (
	"context"

	"github.com/reseau-local/reseau/internal/models"
)

// NotifyStore backs notification handling and reads
type NotifyStore struct {
	users         *UserRepository
	posts         *PostRepository
	notifications *NotificationRepository
}

// NewNotifyStore creates a notification store backed by repo
func NewNotifyStore(repo *Repository) *NotifyStore {
	return &NotifyStore{
		users:         NewUserRepository(repo),
		posts:         NewPostRepository(repo),
		notifications: NewNotificationRepository(repo),
	}
}

func (s *NotifyStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *NotifyStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *NotifyStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.notifications.Create(ctx, n)
}

func (s *NotifyStore) ListNotifications(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	return s.notifications.ListForRecipient(ctx, recipientID, limit)
}

func (s *NotifyStore) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.notifications.UnreadCount(ctx, recipientID)
}

func (s *NotifyStore) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	return s.notifications.MarkRead(ctx, id, recipientID)
}

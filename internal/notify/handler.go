package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/events"
	"github.com/reseau-local/reseau/internal/models"
	"github.com/reseau-local/reseau/pkg/logging"
)

// Store persists notifications and resolves what they refer to
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
}

// Handler turns activity events into stored notifications
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a new notification handler
func NewHandler(store Store) *Handler {
	return &Handler{
		store:  store,
		logger: logging.WithComponent("notifier"),
	}
}

// Handle stores the notification for one event. Self-notifications and
// events whose actor or recipient no longer exists are skipped.
func (h *Handler) Handle(ctx context.Context, e events.Event) error {
	if e.ActorID == e.RecipientID {
		return nil
	}

	actor, err := h.store.GetUser(ctx, e.ActorID)
	if err != nil {
		return fmt.Errorf("failed to get actor: %w", err)
	}
	recipient, err := h.store.GetUser(ctx, e.RecipientID)
	if err != nil {
		return fmt.Errorf("failed to get recipient: %w", err)
	}
	if actor == nil || recipient == nil {
		h.logger.Debug("Skipping event for unknown user",
			zap.String("event_id", e.ID),
			zap.String("actor_id", e.ActorID),
			zap.String("recipient_id", e.RecipientID))
		return nil
	}

	var post *models.Post
	if e.ContentType == models.ContentPost {
		if post, err = h.store.GetPost(ctx, e.ContentID); err != nil {
			return fmt.Errorf("failed to get post: %w", err)
		}
	}

	n := &models.Notification{
		ID:          e.ID,
		Type:        models.NotificationType(e.Type),
		RecipientID: e.RecipientID,
		ActorID:     e.ActorID,
		ContentType: e.ContentType,
		ContentID:   e.ContentID,
		Message:     Message(e.Type, actor.Name(), e.ContentType),
		CreatedAt:   e.OccurredAt,
	}
	if payload := buildPayload(e, actor, post); payload != nil {
		if n.Payload, err = models.EncodePayload(payload); err != nil {
			return err
		}
	}

	if err := h.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	h.logger.Info("[NOTIFY]",
		zap.String("type", string(e.Type)),
		zap.String("actor_id", e.ActorID),
		zap.String("recipient_id", e.RecipientID),
		zap.String("content_type", string(e.ContentType)),
		zap.String("content_id", e.ContentID))
	return nil
}

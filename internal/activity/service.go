package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/events"
	"github.com/reseau-local/reseau/internal/models"
	"github.com/reseau-local/reseau/pkg/logging"
)

// MaxCommentLength bounds comment text, in runes
const MaxCommentLength = 2000

// Service applies follows, views, likes and comments
type Service struct {
	store       Store
	publisher   events.Publisher
	invalidator Invalidator
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates a new activity service. publisher and invalidator may be nil.
func NewService(store Store, publisher events.Publisher, invalidator Invalidator) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if invalidator == nil {
		invalidator = nopInvalidator{}
	}
	return &Service{
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logging.WithComponent("activity"),
	}
}

// Follow makes followerID follow followedID. Following twice is a no-op.
func (s *Service) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalid)
	}
	if err := s.requireUsers(ctx, followerID, followedID); err != nil {
		return err
	}

	at := s.now()
	created, err := s.store.Follow(ctx, followerID, followedID, at)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	s.invalidator.Invalidate(ctx, followerID, followedID)

	if created {
		s.publish(ctx, events.New(events.TypeFollow, followerID, followedID, models.ContentUser, followedID, at))
	}

	s.logger.Debug("Processed follow",
		zap.String("follower", followerID),
		zap.String("followed", followedID),
		zap.Bool("created", created))
	return nil
}

// Unfollow removes the edge. Unfollowing someone not followed is a no-op.
func (s *Service) Unfollow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return fmt.Errorf("%w: cannot unfollow yourself", ErrInvalid)
	}
	removed, err := s.store.Unfollow(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	s.invalidator.Invalidate(ctx, followerID, followedID)

	s.logger.Debug("Processed unfollow",
		zap.String("follower", followerID),
		zap.String("followed", followedID),
		zap.Bool("removed", removed))
	return nil
}

// Followers lists the users following userID
func (s *Service) Followers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.ListFollowers(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

// Following lists the users userID follows
func (s *Service) Following(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	if err := s.requireUsers(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.store.ListFollowing(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

// RecordView notes that viewerID has seen postID
func (s *Service) RecordView(ctx context.Context, postID, viewerID string) error {
	if _, err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	if err := s.store.RecordView(ctx, postID, viewerID, s.now()); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// Like records userID liking postID. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, postID, userID string) error {
	post, err := s.requirePost(ctx, postID)
	if err != nil {
		return err
	}

	at := s.now()
	created, err := s.store.Like(ctx, postID, userID, at)
	if err != nil {
		return fmt.Errorf("failed to like: %w", err)
	}
	if created && post.AuthorID != userID {
		s.publish(ctx, events.New(events.TypeLike, userID, post.AuthorID, models.ContentPost, postID, at))
	}
	return nil
}

// Unlike removes the like. Unliking a post not liked is a no-op.
func (s *Service) Unlike(ctx context.Context, postID, userID string) error {
	if _, err := s.store.Unlike(ctx, postID, userID); err != nil {
		return fmt.Errorf("failed to unlike: %w", err)
	}
	return nil
}

// CommentInput is a new comment
type CommentInput struct {
	ContentType models.ContentType `json:"contentType"`
	ContentID   string             `json:"contentId"`
	Text        string             `json:"text"`
}

// CreateComment attaches a comment by authorID to a content item
func (s *Service) CreateComment(ctx context.Context, authorID string, in CommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is empty", ErrInvalid)
	}
	if len([]rune(text)) > MaxCommentLength {
		return nil, fmt.Errorf("%w: comment longer than %d characters", ErrInvalid, MaxCommentLength)
	}
	if !in.ContentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalid, in.ContentType)
	}
	if in.ContentID == "" {
		return nil, fmt.Errorf("%w: content id is required", ErrInvalid)
	}

	// Only posts live in this service; other content is owned elsewhere
	var recipient string
	if in.ContentType == models.ContentPost {
		post, err := s.requirePost(ctx, in.ContentID)
		if err != nil {
			return nil, err
		}
		recipient = post.AuthorID
	}

	c := &models.Comment{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		Text:        text,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if recipient != "" && recipient != authorID {
		s.publish(ctx, events.New(events.TypeComment, authorID, recipient, c.ContentType, c.ContentID, c.CreatedAt))
	}
	return c, nil
}

// DeleteComment soft-deletes a comment. Only its author may delete it.
func (s *Service) DeleteComment(ctx context.Context, commentID, actorID string) error {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if c == nil {
		return fmt.Errorf("%w: comment %s", ErrNotFound, commentID)
	}
	if c.AuthorID != actorID {
		return fmt.Errorf("%w: comment %s belongs to another user", ErrForbidden, commentID)
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *Service) requireUsers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		u, err := s.store.GetUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if u == nil {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
	}
	return nil
}

func (s *Service) requirePost(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
	}
	return p, nil
}

// publish never fails the write that triggered it
func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logging.WithSpan(ctx, s.logger).Warn("Failed to publish activity event",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Error(err))
	}
}

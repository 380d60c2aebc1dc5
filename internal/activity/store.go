package activity

import (
	"context"
	"time"

	"github.com/reseau-local/reseau/internal/models"
)

// Store is the persistence the write-side operations need
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)

	Follow(ctx context.Context, followerID, followedID string, at time.Time) (bool, error)
	Unfollow(ctx context.Context, followerID, followedID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)

	RecordView(ctx context.Context, postID, viewerID string, at time.Time) error
	Like(ctx context.Context, postID, userID string, at time.Time) (bool, error)
	Unlike(ctx context.Context, postID, userID string) (bool, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
}

// Invalidator drops cached relationship sets after a follow edge changes
type Invalidator interface {
	Invalidate(ctx context.Context, followerID, followedID string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, string, string) {}

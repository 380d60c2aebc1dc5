package db

import (
	"context"
	"time"

	"github.com/reseau-local/reseau/internal/models"
)

// ActivityStore gathers the repositories used by the write-side operations
type ActivityStore struct {
	users    *UserRepository
	follows  *FollowRepository
	posts    *PostRepository
	comments *CommentRepository
}

// NewActivityStore creates an activity store backed by repo
func NewActivityStore(repo *Repository) *ActivityStore {
	return &ActivityStore{
		users:    NewUserRepository(repo),
		follows:  NewFollowRepository(repo),
		posts:    NewPostRepository(repo),
		comments: NewCommentRepository(repo),
	}
}

func (s *ActivityStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *ActivityStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *ActivityStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

func (s *ActivityStore) Follow(ctx context.Context, followerID, followedID string, at time.Time) (bool, error) {
	return s.follows.Follow(ctx, followerID, followedID, at)
}

func (s *ActivityStore) Unfollow(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.follows.Unfollow(ctx, followerID, followedID)
}

func (s *ActivityStore) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	return s.follows.ListFollowers(ctx, userID, limit, offset)
}

func (s *ActivityStore) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	return s.follows.ListFollowing(ctx, userID, limit, offset)
}

func (s *ActivityStore) RecordView(ctx context.Context, postID, viewerID string, at time.Time) error {
	return s.posts.RecordView(ctx, postID, viewerID, at)
}

func (s *ActivityStore) Like(ctx context.Context, postID, userID string, at time.Time) (bool, error) {
	return s.posts.Like(ctx, postID, userID, at)
}

func (s *ActivityStore) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	return s.posts.Unlike(ctx, postID, userID)
}

func (s *ActivityStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.comments.Create(ctx, c)
}

func (s *ActivityStore) DeleteComment(ctx context.Context, id string) error {
	return s.comments.SoftDelete(ctx, id)
}

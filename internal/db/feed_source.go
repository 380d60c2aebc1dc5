package db

import (
	"context"

	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/internal/models"
)

// FeedSource serves the feed ranker from Postgres.
type FeedSource struct {
	users    *UserRepository
	follows  *FollowRepository
	posts    *PostRepository
	comments *CommentRepository
}

// NewFeedSource creates a feed source backed by repo
func NewFeedSource(repo *Repository) *FeedSource {
	return &FeedSource{
		users:    NewUserRepository(repo),
		follows:  NewFollowRepository(repo),
		posts:    NewPostRepository(repo),
		comments: NewCommentRepository(repo),
	}
}

// Sources exposes s as every source the ranker needs
func (s *FeedSource) Sources() feed.Sources {
	return feed.Sources{Candidates: s, Relationships: s, Authors: s, Comments: s}
}

// ListNonDeletedPosts implements feed.CandidateSource
func (s *FeedSource) ListNonDeletedPosts(ctx context.Context) ([]feed.Post, error) {
	rows, err := s.posts.ListLive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]feed.Post, 0, len(rows))
	for i := range rows {
		out = append(out, toFeedPost(&rows[i]))
	}
	return out, nil
}

// GetFollowing implements feed.RelationshipSource
func (s *FeedSource) GetFollowing(ctx context.Context, userID string) (feed.IDSet, error) {
	ids, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return feed.NewIDSet(ids...), nil
}

// GetFollowers implements feed.RelationshipSource
func (s *FeedSource) GetFollowers(ctx context.Context, userID string) (feed.IDSet, error) {
	ids, err := s.follows.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return feed.NewIDSet(ids...), nil
}

// GetUser implements feed.AuthorResolver
func (s *FeedSource) GetUser(ctx context.Context, id string) (*feed.UserSummary, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	summary := ToUserSummary(u)
	return &summary, nil
}

// CountComments implements feed.CommentCounter
func (s *FeedSource) CountComments(ctx context.Context, postID string) (int64, error) {
	return s.comments.Count(ctx, models.ContentPost, postID)
}

// ToUserSummary projects a user row onto the public summary
func ToUserSummary(u *models.User) feed.UserSummary {
	return feed.UserSummary{
		ID:            u.ID,
		DisplayName:   u.Name(),
		Avatar:        u.AvatarURL,
		FollowerCount: u.FollowerCount,
	}
}

func toFeedPost(p *models.Post) feed.Post {
	out := feed.Post{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		Media:     p.MediaURLs,
		CreatedAt: p.CreatedAt,
		IsDeleted: p.IsDeleted,
	}
	for _, v := range p.Views {
		out.Views = append(out.Views, feed.View{
			ViewerID:     v.ViewerID,
			LastViewedAt: v.LastViewedAt,
			Count:        v.ViewCount,
		})
	}
	for _, l := range p.Likes {
		out.Likes = append(out.Likes, feed.Like{UserID: l.UserID, LikedAt: l.LikedAt})
	}
	return out
}

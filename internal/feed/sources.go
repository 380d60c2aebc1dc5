package feed

import "context"

// CandidateSource lists every post that is not soft-deleted, in any order.
type CandidateSource interface {
	ListNonDeletedPosts(ctx context.Context) ([]Post, error)
}

// RelationshipSource resolves the follow graph around a user.
type RelationshipSource interface {
	GetFollowing(ctx context.Context, userID string) (IDSet, error)
	GetFollowers(ctx context.Context, userID string) (IDSet, error)
}

// AuthorResolver returns a user summary, or nil when the account is missing
// or deleted.
type AuthorResolver interface {
	GetUser(ctx context.Context, id string) (*UserSummary, error)
}

// CommentCounter counts the non-deleted comments on a post.
type CommentCounter interface {
	CountComments(ctx context.Context, postID string) (int64, error)
}

// Sources bundles the four collaborators the ranker reads from.
type Sources struct {
	Candidates    CandidateSource
	Relationships RelationshipSource
	Authors       AuthorResolver
	Comments      CommentCounter
}

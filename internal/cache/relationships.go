package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/pkg/logging"
)

// Relationships caches a viewer's follow sets in front of another
// RelationshipSource. Cache failures never fail the lookup; the inner
// source is authoritative.
type Relationships struct {
	inner  feed.RelationshipSource
	cache  *Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewRelationships wraps inner with a TTL cache
func NewRelationships(inner feed.RelationshipSource, cache *Cache, ttl time.Duration) *Relationships {
	return &Relationships{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logging.WithComponent("relationship-cache"),
	}
}

func followingKey(userID string) string { return "rel:" + HashKey("following", userID) }
func followersKey(userID string) string { return "rel:" + HashKey("followers", userID) }

// GetFollowing implements feed.RelationshipSource
func (r *Relationships) GetFollowing(ctx context.Context, userID string) (feed.IDSet, error) {
	return r.load(ctx, followingKey(userID), func() (feed.IDSet, error) {
		return r.inner.GetFollowing(ctx, userID)
	})
}

// GetFollowers implements feed.RelationshipSource
func (r *Relationships) GetFollowers(ctx context.Context, userID string) (feed.IDSet, error) {
	return r.load(ctx, followersKey(userID), func() (feed.IDSet, error) {
		return r.inner.GetFollowers(ctx, userID)
	})
}

// Invalidate drops the cached sets touched by a follow edge change
func (r *Relationships) Invalidate(ctx context.Context, followerID, followedID string) {
	err := r.cache.Delete(ctx, followingKey(followerID), followersKey(followedID))
	if err != nil && !errors.Is(err, ErrCacheDisabled) {
		r.logger.Warn("Failed to invalidate relationship cache",
			zap.String("follower_id", followerID),
			zap.String("followed_id", followedID),
			zap.Error(err))
	}
}

func (r *Relationships) load(ctx context.Context, key string, fetch func() (feed.IDSet, error)) (feed.IDSet, error) {
	var ids []string
	err := r.cache.GetJSON(ctx, key, &ids)
	if err == nil {
		return feed.NewIDSet(ids...), nil
	}
	if !errors.Is(err, ErrCacheDisabled) && !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("Relationship cache read failed", zap.String("key", key), zap.Error(err))
	}

	set, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, key, set.IDs(), r.ttl); err != nil && !errors.Is(err, ErrCacheDisabled) {
		r.logger.Warn("Relationship cache write failed", zap.String("key", key), zap.Error(err))
	}
	return set, nil
}

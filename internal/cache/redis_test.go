package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reseau-local/reseau/internal/feed"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string // We'll check consistency, not exact value
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"test", "key", "with", "many", "parts"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "reseau:test",
		},
		{
			name:     "key with colon",
			key:      "test:key",
			expected: "reseau:test:key",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "reseau:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}


func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Get() error = %v, want ErrCacheDisabled", err)
	}
	if err := c.SetJSON(ctx, "k", []string{"a"}, time.Minute); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("SetJSON() error = %v, want ErrCacheDisabled", err)
	}
	if err := c.Delete(ctx, "k"); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Delete() error = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

type stubRelationships struct {
	following feed.IDSet
	followers feed.IDSet
	err       error
	calls     int
}

func (s *stubRelationships) GetFollowing(ctx context.Context, userID string) (feed.IDSet, error) {
	s.calls++
	return s.following, s.err
}

func (s *stubRelationships) GetFollowers(ctx context.Context, userID string) (feed.IDSet, error) {
	s.calls++
	return s.followers, s.err
}

func TestRelationshipsFallsThroughWithoutRedis(t *testing.T) {
	inner := &stubRelationships{
		following: feed.NewIDSet("alice"),
		followers: feed.NewIDSet("bob", "carol"),
	}
	r := NewRelationships(inner, nil, time.Minute)
	ctx := context.Background()

	following, err := r.GetFollowing(ctx, "viewer")
	if err != nil {
		t.Fatalf("GetFollowing() error = %v", err)
	}
	if !following.Has("alice") {
		t.Errorf("following = %v, want alice", following.IDs())
	}

	followers, err := r.GetFollowers(ctx, "viewer")
	if err != nil {
		t.Fatalf("GetFollowers() error = %v", err)
	}
	if len(followers) != 2 {
		t.Errorf("Expected 2 followers, got %d", len(followers))
	}
	if inner.calls != 2 {
		t.Errorf("Expected 2 inner calls, got %d", inner.calls)
	}

	// Must not panic without a cache
	r.Invalidate(ctx, "viewer", "alice")
}

func TestRelationshipsPropagatesSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewRelationships(&stubRelationships{err: boom}, nil, time.Minute)

	if _, err := r.GetFollowing(context.Background(), "viewer"); !errors.Is(err, boom) {
		t.Errorf("GetFollowing() error = %v, want %v", err, boom)
	}
}

package docstore

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPostDocDecode(t *testing.T) {
	created := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "p1"},
		{Key: "authorId", Value: "alice"},
		{Key: "content", Value: "Vide-grenier dimanche"},
		{Key: "createdAt", Value: created},
		{Key: "views", Value: bson.A{
			bson.D{{Key: "viewerId", Value: "bob"}, {Key: "viewCount", Value: 2}, {Key: "lastViewedAt", Value: created}},
		}},
		{Key: "likes", Value: bson.A{
			bson.D{{Key: "userId", Value: "carol"}, {Key: "likedAt", Value: created}},
		}},
	})
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}

	var doc postDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("bson.Unmarshal() error = %v", err)
	}

	p := doc.toFeed()
	if p.ID != "p1" || p.AuthorID != "alice" {
		t.Errorf("unexpected identity: %+v", p)
	}
	if !p.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, created)
	}
	if got := p.ViewCount("bob"); got != 2 {
		t.Errorf("ViewCount(bob) = %d, want 2", got)
	}
	if p.IsDeleted {
		t.Error("missing isDeleted must decode as false")
	}
	if len(p.Likes) != 1 || p.Likes[0].UserID != "carol" {
		t.Errorf("unexpected likes: %+v", p.Likes)
	}
}

func TestUserDocSummary(t *testing.T) {
	tests := []struct {
		name     string
		doc      userDoc
		expected string
	}{
		{"display name", userDoc{ID: "u1", Username: "alice", DisplayName: "Alice M."}, "Alice M."},
		{"username fallback", userDoc{ID: "u2", Username: "bob"}, "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.doc.toSummary()
			if s.DisplayName != tt.expected {
				t.Errorf("DisplayName = %q, want %q", s.DisplayName, tt.expected)
			}
		})
	}
}

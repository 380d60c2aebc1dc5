package db

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"

	"github.com/reseau-local/reseau/internal/models"
)

func TestToFeedPost(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := &models.Post{
		ID:        "p1",
		AuthorID:  "alice",
		Content:   "Marché ce samedi",
		MediaURLs: []string{"https://cdn.example/1.jpg"},
		CreatedAt: created,
		Views: []models.PostView{
			{PostID: "p1", ViewerID: "bob", ViewCount: 3, LastViewedAt: created.Add(time.Hour)},
		},
		Likes: []models.PostLike{{PostID: "p1", UserID: "carol", LikedAt: created}},
	}

	got := toFeedPost(p)
	if got.ID != "p1" || got.AuthorID != "alice" || got.Content != p.Content {
		t.Errorf("unexpected identity fields: %+v", got)
	}
	if len(got.Media) != 1 {
		t.Errorf("Expected 1 media URL, got %d", len(got.Media))
	}
	if got.ViewCount("bob") != 3 {
		t.Errorf("ViewCount(bob) = %d, want 3", got.ViewCount("bob"))
	}
	if got.ViewCount("carol") != 0 {
		t.Errorf("ViewCount(carol) = %d, want 0", got.ViewCount("carol"))
	}
	if len(got.Likes) != 1 || got.Likes[0].UserID != "carol" {
		t.Errorf("unexpected likes: %+v", got.Likes)
	}
}

func TestToUserSummary(t *testing.T) {
	tests := []struct {
		name     string
		user     models.User
		expected string
	}{
		{"display name", models.User{ID: "u1", Username: "alice", DisplayName: "Alice"}, "Alice"},
		{"username fallback", models.User{ID: "u2", Username: "bob"}, "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ToUserSummary(&tt.user)
			if s.DisplayName != tt.expected {
				t.Errorf("DisplayName = %q, want %q", s.DisplayName, tt.expected)
			}
			if s.ID != tt.user.ID {
				t.Errorf("ID = %q, want %q", s.ID, tt.user.ID)
			}
		})
	}
}

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected logger.LogLevel
	}{
		{"debug", logger.Info},
		{"INFO", logger.Warn},
		{"warning", logger.Error},
		{"error", logger.Silent},
		{"", logger.Warn},
	}
	for _, tt := range tests {
		if got := gormLogLevel(tt.level); got != tt.expected {
			t.Errorf("gormLogLevel(%q) = %v, want %v", tt.level, got, tt.expected)
		}
	}
}

package activity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reseau-local/reseau/internal/events"
	"github.com/reseau-local/reseau/internal/models"
)

type edge struct{ from, to string }

type memStore struct {
	users    map[string]*models.User
	posts    map[string]*models.Post
	comments map[string]*models.Comment
	follows  map[edge]bool
	views    map[edge]int
	likes    map[edge]bool
	err      error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		posts:    map[string]*models.Post{},
		comments: map[string]*models.Comment{},
		follows:  map[edge]bool{},
		views:    map[edge]int{},
		likes:    map[edge]bool{},
	}
}

func (m *memStore) addUser(id string) {
	m.users[id] = &models.User{ID: id, Username: id}
}

func (m *memStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return m.users[id], m.err
}

func (m *memStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return m.posts[id], m.err
}

func (m *memStore) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	c := m.comments[id]
	if c != nil && c.IsDeleted {
		return nil, nil
	}
	return c, m.err
}

func (m *memStore) Follow(ctx context.Context, followerID, followedID string, at time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	e := edge{followerID, followedID}
	if m.follows[e] {
		return false, nil
	}
	m.follows[e] = true
	m.users[followerID].FollowingCount++
	m.users[followedID].FollowerCount++
	return true, nil
}

func (m *memStore) Unfollow(ctx context.Context, followerID, followedID string) (bool, error) {
	e := edge{followerID, followedID}
	if !m.follows[e] {
		return false, m.err
	}
	delete(m.follows, e)
	m.users[followerID].FollowingCount--
	m.users[followedID].FollowerCount--
	return true, m.err
}

func (m *memStore) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for e := range m.follows {
		if e.to == userID {
			out = append(out, m.users[e.from])
		}
	}
	return out, m.err
}

func (m *memStore) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for e := range m.follows {
		if e.from == userID {
			out = append(out, m.users[e.to])
		}
	}
	return out, m.err
}

func (m *memStore) RecordView(ctx context.Context, postID, viewerID string, at time.Time) error {
	m.views[edge{postID, viewerID}]++
	return m.err
}

func (m *memStore) Like(ctx context.Context, postID, userID string, at time.Time) (bool, error) {
	e := edge{postID, userID}
	if m.likes[e] {
		return false, m.err
	}
	m.likes[e] = true
	return true, m.err
}

func (m *memStore) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	e := edge{postID, userID}
	had := m.likes[e]
	delete(m.likes, e)
	return had, m.err
}

func (m *memStore) CreateComment(ctx context.Context, c *models.Comment) error {
	if m.err != nil {
		return m.err
	}
	m.comments[c.ID] = c
	return nil
}

func (m *memStore) DeleteComment(ctx context.Context, id string) error {
	m.comments[id].IsDeleted = true
	return m.err
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingInvalidator struct{ calls []edge }

func (r *recordingInvalidator) Invalidate(ctx context.Context, followerID, followedID string) {
	r.calls = append(r.calls, edge{followerID, followedID})
}

func newTestService() (*Service, *memStore, *recordingPublisher, *recordingInvalidator) {
	store := newMemStore()
	for _, id := range []string{"alice", "bob", "carol"} {
		store.addUser(id)
	}
	store.posts["p1"] = &models.Post{ID: "p1", AuthorID: "alice"}
	pub := &recordingPublisher{}
	inv := &recordingInvalidator{}
	return NewService(store, pub, inv), store, pub, inv
}

func TestFollowIsIdempotent(t *testing.T) {
	svc, store, pub, inv := newTestService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.Follow(ctx, "bob", "alice"); err != nil {
			t.Fatalf("Follow() error = %v", err)
		}
	}

	if store.users["alice"].FollowerCount != 1 || store.users["bob"].FollowingCount != 1 {
		t.Errorf("counters = %d/%d, want 1/1", store.users["alice"].FollowerCount, store.users["bob"].FollowingCount)
	}
	if len(pub.events) != 1 {
		t.Fatalf("Expected 1 follow event, got %d", len(pub.events))
	}
	e := pub.events[0]
	if e.Type != events.TypeFollow || e.ActorID != "bob" || e.RecipientID != "alice" || e.ContentType != models.ContentUser {
		t.Errorf("unexpected event: %+v", e)
	}
	if len(inv.calls) != 2 {
		t.Errorf("Expected 2 invalidations, got %d", len(inv.calls))
	}
}

func TestFollowRejections(t *testing.T) {
	svc, _, pub, _ := newTestService()
	ctx := context.Background()

	if err := svc.Follow(ctx, "bob", "bob"); !errors.Is(err, ErrInvalid) {
		t.Errorf("self-follow error = %v, want ErrInvalid", err)
	}
	if err := svc.Follow(ctx, "bob", "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("rejected follows must not publish, got %d events", len(pub.events))
	}
}

func TestUnfollow(t *testing.T) {
	svc, store, _, inv := newTestService()
	ctx := context.Background()

	if err := svc.Follow(ctx, "bob", "alice"); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.Unfollow(ctx, "bob", "alice"); err != nil {
			t.Fatalf("Unfollow() error = %v", err)
		}
	}
	if store.users["alice"].FollowerCount != 0 {
		t.Errorf("FollowerCount = %d, want 0", store.users["alice"].FollowerCount)
	}
	if len(inv.calls) != 3 {
		t.Errorf("Expected 3 invalidations, got %d", len(inv.calls))
	}
}

func TestFollowersAndFollowing(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_ = svc.Follow(ctx, "bob", "alice")
	_ = svc.Follow(ctx, "carol", "alice")

	followers, err := svc.Followers(ctx, "alice", 20, 0)
	if err != nil {
		t.Fatalf("Followers() error = %v", err)
	}
	if len(followers) != 2 {
		t.Errorf("Expected 2 followers, got %d", len(followers))
	}

	following, err := svc.Following(ctx, "bob", 20, 0)
	if err != nil {
		t.Fatalf("Following() error = %v", err)
	}
	if len(following) != 1 || following[0].ID != "alice" {
		t.Errorf("unexpected following: %v", following)
	}

	if _, err := svc.Followers(ctx, "ghost", 20, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}

func TestRecordView(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RecordView(ctx, "p1", "bob"); err != nil {
			t.Fatalf("RecordView() error = %v", err)
		}
	}
	if got := store.views[edge{"p1", "bob"}]; got != 3 {
		t.Errorf("view count = %d, want 3", got)
	}
	if err := svc.RecordView(ctx, "missing", "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing post error = %v, want ErrNotFound", err)
	}
}

func TestLike(t *testing.T) {
	svc, store, pub, _ := newTestService()
	ctx := context.Background()

	_ = svc.Like(ctx, "p1", "bob")
	_ = svc.Like(ctx, "p1", "bob")
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeLike || pub.events[0].RecipientID != "alice" {
		t.Fatalf("unexpected events: %+v", pub.events)
	}

	// Liking your own post does not notify
	_ = svc.Like(ctx, "p1", "alice")
	if len(pub.events) != 1 {
		t.Errorf("self-like published an event")
	}

	if err := svc.Unlike(ctx, "p1", "bob"); err != nil {
		t.Fatalf("Unlike() error = %v", err)
	}
	if store.likes[edge{"p1", "bob"}] {
		t.Error("like should be removed")
	}
	if err := svc.Unlike(ctx, "p1", "bob"); err != nil {
		t.Errorf("second Unlike() error = %v", err)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, store, pub, _ := newTestService()
	pub.err = errors.New("broker down")

	if err := svc.Like(context.Background(), "p1", "bob"); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if !store.likes[edge{"p1", "bob"}] {
		t.Error("like should be stored even when publishing fails")
	}
}

func TestCreateComment(t *testing.T) {
	tests := []struct {
		name      string
		author    string
		in        CommentInput
		wantErr   error
		wantEvent bool
	}{
		{"on post", "bob", CommentInput{ContentType: models.ContentPost, ContentID: "p1", Text: "Super !"}, nil, true},
		{"own post", "alice", CommentInput{ContentType: models.ContentPost, ContentID: "p1", Text: "Merci"}, nil, false},
		{"on event", "bob", CommentInput{ContentType: models.ContentEvent, ContentID: "e1", Text: "J'y serai"}, nil, false},
		{"empty text", "bob", CommentInput{ContentType: models.ContentPost, ContentID: "p1", Text: "   "}, ErrInvalid, false},
		{"too long", "bob", CommentInput{ContentType: models.ContentPost, ContentID: "p1", Text: strings.Repeat("a", MaxCommentLength+1)}, ErrInvalid, false},
		{"bad type", "bob", CommentInput{ContentType: "story", ContentID: "x", Text: "hi"}, ErrInvalid, false},
		{"missing id", "bob", CommentInput{ContentType: models.ContentPlace, Text: "hi"}, ErrInvalid, false},
		{"missing post", "bob", CommentInput{ContentType: models.ContentPost, ContentID: "nope", Text: "hi"}, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, pub, _ := newTestService()
			c, err := svc.CreateComment(context.Background(), tt.author, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateComment() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateComment() error = %v", err)
			}
			if c.ID == "" || c.AuthorID != tt.author {
				t.Errorf("unexpected comment: %+v", c)
			}
			if got := len(pub.events) == 1; got != tt.wantEvent {
				t.Errorf("event published = %v, want %v", got, tt.wantEvent)
			}
		})
	}
}

func TestDeleteComment(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	c, err := svc.CreateComment(ctx, "bob", CommentInput{ContentType: models.ContentPost, ContentID: "p1", Text: "Bonjour"})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if err := svc.DeleteComment(ctx, c.ID, "carol"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign delete error = %v, want ErrForbidden", err)
	}
	if err := svc.DeleteComment(ctx, c.ID, "bob"); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if !store.comments[c.ID].IsDeleted {
		t.Error("comment should be soft-deleted")
	}
	if err := svc.DeleteComment(ctx, c.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

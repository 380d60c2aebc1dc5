package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/reseau-local/reseau/internal/events"
	"github.com/reseau-local/reseau/internal/models"
)

type memStore struct {
	users  map[string]*models.User
	posts  map[string]*models.Post
	notifs []*models.Notification
	err    error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{
			"alice": {ID: "alice", Username: "alice", DisplayName: "Alice"},
			"bob":   {ID: "bob", Username: "bob"},
		},
		posts: map[string]*models.Post{
			"p1": {ID: "p1", AuthorID: "alice", Content: strings.Repeat("é", 100)},
		},
	}
}

func (m *memStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return m.users[id], m.err
}

func (m *memStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return m.posts[id], m.err
}

func (m *memStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.notifs = append(m.notifs, n)
	return nil
}

func (m *memStore) ListNotifications(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for i := len(m.notifs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notifs[i].RecipientID == recipientID {
			out = append(out, m.notifs[i])
		}
	}
	return out, m.err
}

func (m *memStore) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var n int64
	for _, notif := range m.notifs {
		if notif.RecipientID == recipientID && !notif.IsRead {
			n++
		}
	}
	return n, m.err
}

func (m *memStore) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	for _, notif := range m.notifs {
		if notif.ID == id && notif.RecipientID == recipientID {
			notif.IsRead = true
			return true, nil
		}
	}
	return false, m.err
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name        string
		typ         events.Type
		contentType models.ContentType
		expected    string
	}{
		{"follow", events.TypeFollow, models.ContentUser, "Alice a commencé à vous suivre"},
		{"like", events.TypeLike, models.ContentPost, "Alice a aimé votre publication"},
		{"comment", events.TypeComment, models.ContentPost, "Alice a commenté votre publication"},
		{"comment on event", events.TypeComment, models.ContentEvent, "Alice a commenté votre événement"},
		{"unknown content", events.TypeLike, "story", "Alice a aimé votre contenu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.typ, "Alice", tt.contentType); got != tt.expected {
				t.Errorf("Message() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHandleStoresNotification(t *testing.T) {
	store := newMemStore()
	h := NewHandler(store)
	at := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	e := events.New(events.TypeLike, "bob", "alice", models.ContentPost, "p1", at)
	if err := h.Handle(context.Background(), e); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(store.notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(store.notifs))
	}

	n := store.notifs[0]
	if n.ID != e.ID || n.RecipientID != "alice" || n.ActorID != "bob" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.Message != "bob a aimé votre publication" {
		t.Errorf("Message = %q", n.Message)
	}
	if !n.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", n.CreatedAt, at)
	}

	p, err := models.DecodePayload(n.Payload)
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	post, ok := p.(models.PostPayload)
	if !ok {
		t.Fatalf("payload type = %T, want PostPayload", p)
	}
	if post.PostID != "p1" || !strings.HasSuffix(post.Excerpt, "…") {
		t.Errorf("unexpected post payload: %+v", post)
	}
}

func TestHandleFollowPayload(t *testing.T) {
	store := newMemStore()
	h := NewHandler(store)

	e := events.New(events.TypeFollow, "alice", "bob", models.ContentUser, "bob", time.Now())
	if err := h.Handle(context.Background(), e); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	p, err := models.DecodePayload(store.notifs[0].Payload)
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if u, ok := p.(models.UserPayload); !ok || u.UserID != "alice" || u.DisplayName != "Alice" {
		t.Errorf("unexpected payload: %#v", p)
	}
}

func TestHandleSkips(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
	}{
		{"self", events.New(events.TypeLike, "alice", "alice", models.ContentPost, "p1", time.Now())},
		{"unknown actor", events.New(events.TypeFollow, "ghost", "alice", models.ContentUser, "alice", time.Now())},
		{"unknown recipient", events.New(events.TypeFollow, "alice", "ghost", models.ContentUser, "ghost", time.Now())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			if err := NewHandler(store).Handle(context.Background(), tt.event); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if len(store.notifs) != 0 {
				t.Errorf("Expected no notification, got %d", len(store.notifs))
			}
		})
	}
}

func TestHandleStoreError(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("db down")
	e := events.New(events.TypeLike, "bob", "alice", models.ContentPost, "p1", time.Now())

	if err := NewHandler(store).Handle(context.Background(), e); err == nil {
		t.Error("Handle() should fail when the store fails")
	}
}

func TestServiceListUnreadMarkRead(t *testing.T) {
	store := newMemStore()
	h := NewHandler(store)
	svc := NewService(store)
	ctx := context.Background()

	first := events.New(events.TypeFollow, "bob", "alice", models.ContentUser, "alice", time.Now())
	second := events.New(events.TypeLike, "bob", "alice", models.ContentPost, "p1", time.Now())
	for _, e := range []events.Event{first, second} {
		if err := h.Handle(ctx, e); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}

	list, err := svc.List(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("List() should return newest first, got %+v", list)
	}
	if list[0].Payload == nil {
		t.Error("payload should be decoded")
	}

	unread, _ := svc.Unread(ctx, "alice")
	if unread != 2 {
		t.Errorf("Unread() = %d, want 2", unread)
	}

	if err := svc.MarkRead(ctx, first.ID, "alice"); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	unread, _ = svc.Unread(ctx, "alice")
	if unread != 1 {
		t.Errorf("Unread() after MarkRead = %d, want 1", unread)
	}

	if err := svc.MarkRead(ctx, first.ID, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead() by another user error = %v, want ErrNotFound", err)
	}
}

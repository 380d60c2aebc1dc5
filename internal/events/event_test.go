package events

import (
	"strings"
	"testing"
	"time"

	"github.com/reseau-local/reseau/internal/models"
)

func TestEventEncodeDecode(t *testing.T) {
	at := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)
	e := New(TypeLike, "alice", "bob", models.ContentPost, "p1", at)

	if e.ID == "" {
		t.Fatal("New() must assign an ID")
	}

	b, err := e.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for _, key := range []string{`"actorId":"alice"`, `"recipientId":"bob"`, `"contentType":"post"`, `"type":"like"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("encoded event missing %s: %s", key, b)
		}
	}

	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.ID != e.ID || got.Type != e.Type || got.ContentID != "p1" {
		t.Errorf("Decode() = %+v, want %+v", got, e)
	}
	if !got.OccurredAt.Equal(at) {
		t.Errorf("OccurredAt = %v, want %v", got.OccurredAt, at)
	}
}

func TestEventValidate(t *testing.T) {
	valid := func() Event {
		return New(TypeFollow, "alice", "bob", models.ContentUser, "bob", time.Now())
	}

	tests := []struct {
		name    string
		mutate  func(e *Event)
		wantErr bool
	}{
		{"valid", func(e *Event) {}, false},
		{"unknown type", func(e *Event) { e.Type = "share" }, true},
		{"missing actor", func(e *Event) { e.ActorID = "" }, true},
		{"missing recipient", func(e *Event) { e.RecipientID = "" }, true},
		{"missing id", func(e *Event) { e.ID = "" }, true},
		{"bad content type", func(e *Event) { e.ContentType = "story" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("{")); err == nil {
		t.Error("Decode() should fail on invalid JSON")
	}
	if _, err := Decode([]byte(`{"type":"follow"}`)); err == nil {
		t.Error("Decode() should fail on incomplete event")
	}
}

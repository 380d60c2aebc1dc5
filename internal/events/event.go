package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reseau-local/reseau/internal/models"
)

// Type is the kind of activity an event reports
type Type string

// Event types
const (
	TypeFollow  Type = "follow"
	TypeLike    Type = "like"
	TypeComment Type = "comment"
)

// Event is the envelope published on the activity topic
type Event struct {
	ID          string             `json:"id"`
	Type        Type               `json:"type"`
	ActorID     string             `json:"actorId"`
	RecipientID string             `json:"recipientId"`
	ContentType models.ContentType `json:"contentType"`
	ContentID   string             `json:"contentId"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

// New builds an event with a fresh ID
func New(typ Type, actorID, recipientID string, contentType models.ContentType, contentID string, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		ActorID:     actorID,
		RecipientID: recipientID,
		ContentType: contentType,
		ContentID:   contentID,
		OccurredAt:  at.UTC(),
	}
}

// Validate checks the envelope is complete
func (e *Event) Validate() error {
	switch e.Type {
	case TypeFollow, TypeLike, TypeComment:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.ID == "" || e.ActorID == "" || e.RecipientID == "" {
		return fmt.Errorf("event %q is missing id, actor or recipient", e.Type)
	}
	if !e.ContentType.Valid() {
		return fmt.Errorf("event %s has invalid content type %q", e.ID, e.ContentType)
	}
	return nil
}

// Encode serializes the event for the wire
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses and validates an event from the wire
func Decode(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("invalid event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

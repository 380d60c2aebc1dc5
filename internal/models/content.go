package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContentType names the kind of item a comment or notification points at
type ContentType string

// Content types
const (
	ContentEvent       ContentType = "event"
	ContentPlace       ContentType = "place"
	ContentOpportunity ContentType = "opportunity"
	ContentShop        ContentType = "shop"
	ContentProduct     ContentType = "product"
	ContentPost        ContentType = "post"
	ContentUser        ContentType = "user"
)

// Valid reports whether c is a known content type
func (c ContentType) Valid() bool {
	switch c {
	case ContentEvent, ContentPlace, ContentOpportunity, ContentShop, ContentProduct, ContentPost, ContentUser:
		return true
	}
	return false
}

// Payload is the content-specific part of a notification. Each variant only
// carries the fields relevant to its content type.
type Payload interface {
	ContentType() ContentType
}

// EventPayload describes an event
type EventPayload struct {
	EventID  string    `json:"eventId"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"startsAt"`
}

// PlacePayload describes a place
type PlacePayload struct {
	PlaceID string `json:"placeId"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
}

// OpportunityPayload describes an opportunity
type OpportunityPayload struct {
	OpportunityID string `json:"opportunityId"`
	Title         string `json:"title"`
}

// ShopPayload describes a shop
type ShopPayload struct {
	ShopID string `json:"shopId"`
	Name   string `json:"name"`
}

// ProductPayload describes a product sold by a shop
type ProductPayload struct {
	ProductID string `json:"productId"`
	ShopID    string `json:"shopId"`
	Name      string `json:"name"`
}

// PostPayload describes a post
type PostPayload struct {
	PostID  string `json:"postId"`
	Excerpt string `json:"excerpt,omitempty"`
}

// UserPayload describes a user
type UserPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (EventPayload) ContentType() ContentType       { return ContentEvent }
func (PlacePayload) ContentType() ContentType       { return ContentPlace }
func (OpportunityPayload) ContentType() ContentType { return ContentOpportunity }
func (ShopPayload) ContentType() ContentType        { return ContentShop }
func (ProductPayload) ContentType() ContentType     { return ContentProduct }
func (PostPayload) ContentType() ContentType        { return ContentPost }
func (UserPayload) ContentType() ContentType        { return ContentUser }

type payloadEnvelope struct {
	ContentType ContentType     `json:"contentType"`
	Data        json.RawMessage `json:"data"`
}

// EncodePayload serializes p with its content type tag
func EncodePayload(p Payload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("nil payload")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s payload: %w", p.ContentType(), err)
	}
	b, err := json.Marshal(payloadEnvelope{ContentType: p.ContentType(), Data: data})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodePayload restores the variant written by EncodePayload
func DecodePayload(s string) (Payload, error) {
	var env payloadEnvelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	var p Payload
	var err error
	switch env.ContentType {
	case ContentEvent:
		var v EventPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case ContentPlace:
		var v PlacePayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case ContentOpportunity:
		var v OpportunityPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case ContentShop:
		var v ShopPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case ContentProduct:
		var v ProductPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case ContentPost:
		var v PostPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	case ContentUser:
		var v UserPayload
		err = json.Unmarshal(env.Data, &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown content type %q", env.ContentType)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", env.ContentType, err)
	}
	return p, nil
}

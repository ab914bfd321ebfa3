package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventCheckoutRequested = "CheckoutRequested"

// Event is the envelope written to the activity stream. Data holds the
// JSON payload for Type: a cart.Change for cart events or a
// CheckoutRequested.
type Event struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEvent(sessionID, eventType string, data any) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}, nil
}

// CheckoutLine is one product of a checkout request.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

// CheckoutRequested records that a visitor pressed checkout.
type CheckoutRequested struct {
	Lines     []CheckoutLine `json:"lines"`
	Total     int            `json:"total"`
	ItemCount int            `json:"item_count"`
}

// Publisher delivers an event keyed by session id.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, key string, event any) error

func (f PublisherFunc) Publish(ctx context.Context, key string, event any) error {
	return f(ctx, key, event)
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, string, any) error { return nil })

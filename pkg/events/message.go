// Package events publishes reservation lifecycle events to Kafka so
// downstream consumers (notifications, reporting) can react without
// polling the API.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types carried in the event-type header.
const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationUpdated   = "reservation.updated"
	TypeReservationCancelled = "reservation.cancelled"
)

// Header keys shared with consumers.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Message is one event on the wire. Key carries the objectId so all events
// for one resource land in the same partition, preserving order.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewMessage builds a message with a JSON payload and standard headers.
func NewMessage(eventType, key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	now := time.Now().UTC()
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    "reservio",
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}, nil
}

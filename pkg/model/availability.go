package model

import "time"

// AvailabilityCheck answers "is this object free in this window".
// IsAvailable is true iff Conflicts is empty.
type AvailabilityCheck struct {
	ObjectID    string         `json:"objectId"`
	Interval    Interval       `json:"interval"`
	IsAvailable bool           `json:"isAvailable"`
	Conflicts   []*Reservation `json:"conflicts,omitempty"`
}

// AvailabilitySlot is one per-resource entry of a multi-object
// availability query.
type AvailabilitySlot struct {
	ObjectID    string            `json:"objectId"`
	Object      *ReservableObject `json:"object"`
	IsAvailable bool              `json:"isAvailable"`
	Conflicts   []*Reservation    `json:"conflicts,omitempty"`
}

// ObjectLock is a short-lived advisory lock serializing the conflict-scan
// plus write sequence for a single object. Whoever holds the lock is the
// only writer for that object until release or expiry.
type ObjectLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

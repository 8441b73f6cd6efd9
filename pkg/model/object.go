package model

import "time"

// ObjectType enumerates the kinds of bookable resources. The set is open
// for extension; validators enumerate the accepted values.
type ObjectType string

const (
	ObjectTypeDesk         ObjectType = "desk"
	ObjectTypeParkingSpace ObjectType = "parking_space"
)

// ReservableObject is a bookable physical resource such as a desk or a
// parking space. Deletion is always a flip of IsActive so historical
// reservations keep a stable reference.
type ReservableObject struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Type        ObjectType `json:"type" bson:"type" validate:"required,oneof=desk parking_space"`
	Name        string     `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Location    string     `json:"location" bson:"location" validate:"required,min=1,max=200"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    bool       `json:"isActive" bson:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
}

// ObjectUpdate carries a partial update. Nil pointers and empty strings
// mean "leave unchanged"; Description uses a pointer so it can be cleared.
type ObjectUpdate struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Location    string  `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

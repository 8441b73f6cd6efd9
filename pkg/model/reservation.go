package model

import (
	"fmt"
	"time"
)

// ReservationStatus is the lifecycle state of a reservation. Only active
// reservations participate in conflict detection and default listings.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// Counts reports whether the status participates in conflict detection and
// default listings. This is the single "visible by default" rule; every
// query filters through it rather than re-deriving the check.
func (s ReservationStatus) Counts() bool {
	return s == ReservationStatusActive
}

// Reservation is a claimed time interval on one ReservableObject by one
// user. The interval is half-open: [StartDateTime, EndDateTime).
type Reservation struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	ObjectID      string            `json:"objectId" bson:"object_id" validate:"required"`
	UserID        string            `json:"userId" bson:"user_id" validate:"required"`
	StartDateTime time.Time         `json:"startDateTime" bson:"start_date_time" validate:"required"`
	EndDateTime   time.Time         `json:"endDateTime" bson:"end_date_time" validate:"required"`
	Status        ReservationStatus `json:"status" bson:"status" validate:"required,oneof=active cancelled completed"`
	Notes         string            `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updated_at"`
}

// Interval returns the reservation's half-open time window.
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.StartDateTime, End: r.EndDateTime}
}

// ReservationCreate is the decoded create request. The end instant comes
// from either EndDateTime or Duration (minutes from start); supplying
// neither is a validation error, never a silent default.
type ReservationCreate struct {
	ObjectID      string    `json:"objectId"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime,omitempty"`
	Duration      int       `json:"duration,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// ResolveInterval computes the effective window. An explicit EndDateTime
// takes precedence over Duration when both are supplied.
func (c *ReservationCreate) ResolveInterval() (Interval, error) {
	if c.StartDateTime.IsZero() {
		return Interval{}, fmt.Errorf("startDateTime is required")
	}

	var end time.Time
	switch {
	case !c.EndDateTime.IsZero():
		end = c.EndDateTime
	case c.Duration > 0:
		end = c.StartDateTime.Add(time.Duration(c.Duration) * time.Minute)
	default:
		return Interval{}, fmt.Errorf("either endDateTime or a positive duration is required")
	}

	interval := Interval{Start: c.StartDateTime, End: end}
	if err := interval.Validate(); err != nil {
		return Interval{}, err
	}
	return interval, nil
}

// ReservationUpdate carries a partial update of the time window or notes.
// Unset fields keep their prior values; status changes go through Cancel.
type ReservationUpdate struct {
	StartDateTime *time.Time `json:"startDateTime,omitempty"`
	EndDateTime   *time.Time `json:"endDateTime,omitempty"`
	Duration      *int       `json:"duration,omitempty" validate:"omitempty,min=1"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ChangesWindow reports whether the update touches the time interval.
func (u *ReservationUpdate) ChangesWindow() bool {
	return u.StartDateTime != nil || u.EndDateTime != nil || u.Duration != nil
}

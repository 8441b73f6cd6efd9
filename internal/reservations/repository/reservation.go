package repository

import (
	"context"

	mongotx "reservio/pkg/db/mongo"
	"reservio/pkg/model"
)

// ReservationRepository owns reservation records. Cancellation is a status
// flip, never a row removal, so history stays queryable.
type ReservationRepository interface {
	// Create assigns a fresh ID and timestamps before storing.
	Create(ctx context.Context, reservation *model.Reservation) error
	// FindByID returns ErrNotFound for unknown IDs.
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// FindByUser lists a user's reservations. With includeInactive false
	// only statuses that count toward conflicts are returned. A limit of
	// zero or less means no page bound.
	FindByUser(ctx context.Context, userID string, includeInactive bool, limit int, offset int64) ([]*model.Reservation, error)
	// CountByUser reports the total matching FindByUser's filter.
	CountByUser(ctx context.Context, userID string, includeInactive bool) (int64, error)
	// FindByObject lists an object's reservations, optionally restricted
	// to those overlapping the window.
	FindByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool, limit int, offset int64) ([]*model.Reservation, error)
	// CountByObject reports the total matching FindByObject's filter.
	CountByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool) (int64, error)
	// FindConflicts returns the counting reservations on objectID whose
	// window overlaps the given one, excluding excludeID (itself during an
	// update). The overlap rule is the half-open Interval.Overlaps.
	FindConflicts(ctx context.Context, objectID string, window model.Interval, excludeID string) ([]*model.Reservation, error)
	// Update overwrites the mutable fields and bumps UpdatedAt.
	Update(ctx context.Context, id string, reservation *model.Reservation) (*model.Reservation, error)
	// UpdateStatus flips the lifecycle status and bumps UpdatedAt.
	UpdateStatus(ctx context.Context, id string, status model.ReservationStatus) (*model.Reservation, error)
	// ExecuteTransaction runs fn atomically where the backend supports it;
	// the in-memory backend relies on the advisory lock instead.
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// ObjectLockRepository provides per-object advisory locks so conflict
// checking and writing happen without interleaving.
type ObjectLockRepository interface {
	// Acquire stores the lock, returning ErrLockHeld when an unexpired
	// lock with the same ID already exists.
	Acquire(ctx context.Context, lock *model.ObjectLock) error
	// Release removes the lock. Releasing an unknown ID is a no-op.
	Release(ctx context.Context, lockID string) error
}

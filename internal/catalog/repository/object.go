package repository

import (
	"context"
	"time"

	"reservio/pkg/model"
)

// ObjectRepository owns ReservableObject records. Implementations must
// never remove rows: deletion is always an IsActive flip so reservations
// keep a stable reference.
type ObjectRepository interface {
	// Create assigns a fresh ID and timestamps before storing.
	Create(ctx context.Context, obj *model.ReservableObject) error
	// FindByID returns ErrNotFound for unknown IDs, including soft-deleted
	// lookups only when the ID never existed.
	FindByID(ctx context.Context, id string) (*model.ReservableObject, error)
	// FindAll lists objects, optionally filtered by type. With
	// includeInactive false only active objects are returned. A limit of
	// zero or less means no page bound.
	FindAll(ctx context.Context, typeFilter model.ObjectType, includeInactive bool, limit int, offset int64) ([]*model.ReservableObject, error)
	// Count reports the total matching FindAll's filter, ignoring paging.
	Count(ctx context.Context, typeFilter model.ObjectType, includeInactive bool) (int64, error)
	// Update overwrites the mutable fields and bumps UpdatedAt.
	Update(ctx context.Context, id string, obj *model.ReservableObject) (*model.ReservableObject, error)
	// SoftDelete flips IsActive to false. Repeating it on an inactive
	// object succeeds; an unknown ID returns ErrNotFound.
	SoftDelete(ctx context.Context, id string) error
	// Search matches name, location and description case-insensitively by
	// substring, across active and inactive objects.
	Search(ctx context.Context, query string) ([]*model.ReservableObject, error)
}

func touch(obj *model.ReservableObject, now time.Time) {
	obj.UpdatedAt = now.UTC().Truncate(time.Millisecond)
}

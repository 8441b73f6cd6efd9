package service

import (
	"context"

	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
)

// Catalog is the slice of the resource catalog the availability engine
// reads: single lookups and the active-object listing.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*model.ReservableObject, error)
	GetActive(ctx context.Context, typeFilter string) ([]*model.ReservableObject, error)
}

// ConflictFinder is the ledger's overlap scan. Availability never
// re-implements the overlap rule; it reads through the same query the
// ledger writes with.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, objectID string, window model.Interval, excludeID string) ([]*model.Reservation, error)
}

// AvailabilityService answers point checks and fleet-wide queries. It is
// read-only and advisory: the answer can go stale the moment it is
// produced, and only the ledger's own check-then-act decides.
type AvailabilityService interface {
	Check(ctx context.Context, objectID string, window model.Interval) (*model.AvailabilityCheck, error)
	Query(ctx context.Context, window model.Interval, typeFilter, objectID string) ([]*model.AvailabilitySlot, error)
}

type availabilityService struct {
	catalog   Catalog
	conflicts ConflictFinder
	cfg       *config.Config
}

func NewAvailabilityService(catalog Catalog, conflicts ConflictFinder, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		catalog:   catalog,
		conflicts: conflicts,
		cfg:       cfg,
	}
}

func (s *availabilityService) Check(ctx context.Context, objectID string, window model.Interval) (*model.AvailabilityCheck, error) {
	if objectID == "" {
		return nil, apperrors.InvalidInput("Object ID cannot be empty")
	}
	if err := window.Validate(); err != nil {
		return nil, apperrors.Validation("Invalid query window", map[string]any{"error": err.Error()})
	}

	if _, err := s.catalog.GetByID(ctx, objectID); err != nil {
		return nil, err
	}

	conflicts, err := s.conflicts.FindConflicts(ctx, objectID, window, "")
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "object_id", objectID, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	return &model.AvailabilityCheck{
		ObjectID:    objectID,
		Interval:    window,
		IsAvailable: len(conflicts) == 0,
		Conflicts:   conflicts,
	}, nil
}

func (s *availabilityService) Query(ctx context.Context, window model.Interval, typeFilter, objectID string) ([]*model.AvailabilitySlot, error) {
	if err := window.Validate(); err != nil {
		return nil, apperrors.Validation("Invalid query window", map[string]any{"error": err.Error()})
	}

	var objects []*model.ReservableObject
	if objectID != "" {
		obj, err := s.catalog.GetByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		objects = []*model.ReservableObject{obj}
	} else {
		var err error
		objects, err = s.catalog.GetActive(ctx, typeFilter)
		if err != nil {
			return nil, err
		}
	}

	slots := make([]*model.AvailabilitySlot, 0, len(objects))
	for _, obj := range objects {
		conflicts, err := s.conflicts.FindConflicts(ctx, obj.ID, window, "")
		if err != nil {
			s.cfg.Log.Error("Failed to query availability", "object_id", obj.ID, "error", err)
			return nil, apperrors.Internal("Failed to query availability", err)
		}
		slots = append(slots, &model.AvailabilitySlot{
			ObjectID:    obj.ID,
			Object:      obj,
			IsAvailable: len(conflicts) == 0,
			Conflicts:   conflicts,
		})
	}

	return slots, nil
}

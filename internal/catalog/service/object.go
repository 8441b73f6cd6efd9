package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "reservio/internal/catalog/errors"
	"reservio/internal/catalog/repository"
	"reservio/internal/catalog/validator"
	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
	"reservio/pkg/sanitizer"
)

// ObjectService is the resource catalog: CRUD, soft delete and search over
// reservable objects.
type ObjectService interface {
	Create(ctx context.Context, obj *model.ReservableObject) error
	GetByID(ctx context.Context, id string) (*model.ReservableObject, error)
	// GetAll returns one page plus the total matching count.
	GetAll(ctx context.Context, typeFilter string, includeInactive bool, limit int, offset int64) ([]*model.ReservableObject, int64, error)
	// GetActive lists every active object without paging; the availability
	// engine scans whole fleets with it.
	GetActive(ctx context.Context, typeFilter string) ([]*model.ReservableObject, error)
	Update(ctx context.Context, id string, updates *model.ObjectUpdate) (*model.ReservableObject, error)
	SoftDelete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*model.ReservableObject, error)
}

type objectService struct {
	repo      repository.ObjectRepository
	validator *validator.ObjectValidator
	cfg       *config.Config
}

func NewObjectService(repo repository.ObjectRepository, v *validator.ObjectValidator, cfg *config.Config) ObjectService {
	return &objectService{repo: repo, validator: v, cfg: cfg}
}

func (s *objectService) Create(ctx context.Context, obj *model.ReservableObject) error {
	s.sanitize(obj)
	if err := s.validator.Validate(obj); err != nil {
		s.cfg.Log.Warn("Reservable object validation failed", "error", err)
		return apperrors.Validation("Reservable object validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, obj); err != nil {
		s.cfg.Log.Error("Failed to create reservable object", "error", err)
		return apperrors.Internal("Failed to create reservable object", err)
	}

	s.cfg.Log.Info("Reservable object created",
		"id", obj.ID, "type", obj.Type, "name", obj.Name)
	return nil
}

func (s *objectService) GetByID(ctx context.Context, id string) (*model.ReservableObject, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Object ID cannot be empty")
	}

	obj, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservable object", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservable object", err)
	}
	return obj, nil
}

func (s *objectService) GetAll(ctx context.Context, typeFilter string, includeInactive bool, limit int, offset int64) ([]*model.ReservableObject, int64, error) {
	filter, err := parseTypeFilter(typeFilter)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	var objects []*model.ReservableObject
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter, includeInactive)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservable objects", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservable objects", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		objects, errFind = s.repo.FindAll(ctx, filter, includeInactive, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservable objects", "error", errFind)
			errFind = apperrors.Internal("Failed to list reservable objects", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return objects, count, nil
}

func (s *objectService) GetActive(ctx context.Context, typeFilter string) ([]*model.ReservableObject, error) {
	filter, err := parseTypeFilter(typeFilter)
	if err != nil {
		return nil, err
	}

	objects, err := s.repo.FindAll(ctx, filter, false, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservable objects", "error", err)
		return nil, apperrors.Internal("Failed to list reservable objects", err)
	}
	return objects, nil
}

func parseTypeFilter(typeFilter string) (model.ObjectType, error) {
	filter := model.ObjectType(typeFilter)
	if filter != "" && filter != model.ObjectTypeDesk && filter != model.ObjectTypeParkingSpace {
		return "", apperrors.InvalidInput("Unknown object type: " + typeFilter)
	}
	return filter, nil
}

func (s *objectService) Update(ctx context.Context, id string, updates *model.ObjectUpdate) (*model.ReservableObject, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Object ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Object update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservable object", id)
		}
		return nil, apperrors.Internal("Failed to check object existence", err)
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Reservable object validation failed", map[string]any{"error": err.Error()})
	}

	updated, err := s.repo.Update(ctx, id, merged)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservable object", id)
		}
		s.cfg.Log.Error("Failed to update reservable object", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update reservable object", err)
	}

	s.cfg.Log.Info("Reservable object updated", "id", id)
	return updated, nil
}

func (s *objectService) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Object ID cannot be empty")
	}

	// Repeating a soft delete on an already-inactive object succeeds; only
	// an unknown ID fails.
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservable object", id)
		}
		s.cfg.Log.Error("Failed to soft delete reservable object", "id", id, "error", err)
		return apperrors.Internal("Failed to delete reservable object", err)
	}

	s.cfg.Log.Info("Reservable object deactivated", "id", id)
	return nil
}

func (s *objectService) Search(ctx context.Context, query string) ([]*model.ReservableObject, error) {
	objects, err := s.repo.Search(ctx, sanitizer.CollapseWhitespace(query))
	if err != nil {
		s.cfg.Log.Error("Failed to search reservable objects", "query", query, "error", err)
		return nil, apperrors.Internal("Failed to search reservable objects", err)
	}
	return objects, nil
}

func (s *objectService) sanitize(obj *model.ReservableObject) {
	obj.Name = sanitizer.DisplayName(obj.Name)
	obj.Location = sanitizer.DisplayName(obj.Location)
	obj.Description = sanitizer.FreeText(obj.Description)
}

func (s *objectService) merge(existing *model.ReservableObject, updates *model.ObjectUpdate) *model.ReservableObject {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	return &merged
}

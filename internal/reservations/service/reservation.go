package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	reservationerrors "reservio/internal/reservations/errors"
	"reservio/internal/reservations/repository"
	"reservio/internal/reservations/validator"
	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/events"
	"reservio/pkg/model"
	"reservio/pkg/sanitizer"
)

// ObjectCatalog is the slice of the resource catalog the ledger needs:
// existence and active checks before accepting a reservation.
type ObjectCatalog interface {
	GetByID(ctx context.Context, id string) (*model.ReservableObject, error)
}

// ReservationService is the reservation ledger. It is the only writer of
// reservation records and the only place the conflict check runs.
type ReservationService interface {
	Create(ctx context.Context, userID string, req *model.ReservationCreate) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetByUser(ctx context.Context, userID string, includeInactive bool, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool, limit int, offset int64) ([]*model.Reservation, int64, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Cancel(ctx context.Context, id string) (*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.ObjectLockRepository
	catalog   ObjectCatalog
	validator *validator.ReservationValidator
	notifier  events.Notifier
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ObjectLockRepository,
	catalog ObjectCatalog,
	v *validator.ReservationValidator,
	notifier events.Notifier,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		catalog:   catalog,
		validator: v,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, userID string, req *model.ReservationCreate) (*model.Reservation, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if req.ObjectID == "" {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": "objectId is required"})
	}

	window, err := req.ResolveInterval()
	if err != nil {
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	reservation := &model.Reservation{
		ObjectID:      req.ObjectID,
		UserID:        userID,
		StartDateTime: window.Start,
		EndDateTime:   window.End,
		Status:        model.ReservationStatusActive,
		Notes:         sanitizer.FreeText(req.Notes),
	}
	if err := s.validate(reservation, true); err != nil {
		return nil, err
	}

	obj, err := s.catalog.GetByID(ctx, req.ObjectID)
	if err != nil {
		return nil, err
	}
	if !obj.IsActive {
		return nil, apperrors.InvalidState("Reservable object is not active: " + obj.ID)
	}

	lockID, err := s.acquireObjectLock(ctx, req.ObjectID)
	if err != nil {
		return nil, err
	}
	defer s.releaseObjectLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoConflict(txCtx, reservation.ObjectID, window, ""); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"object_id", reservation.ObjectID, "user_id", userID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"object_id", reservation.ObjectID,
		"user_id", reservation.UserID,
		"start", reservation.StartDateTime,
		"end", reservation.EndDateTime,
	)
	s.notifier.ReservationCreated(ctx, reservation)
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) GetByUser(ctx context.Context, userID string, includeInactive bool, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	return s.listPage(
		func() (int64, error) { return s.repo.CountByUser(ctx, userID, includeInactive) },
		func() ([]*model.Reservation, error) { return s.repo.FindByUser(ctx, userID, includeInactive, limit, offset) },
		"user_id", userID,
	)
}

func (s *reservationService) GetByObject(ctx context.Context, objectID string, window *model.Interval, includeInactive bool, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if objectID == "" {
		return nil, 0, apperrors.InvalidInput("Object ID cannot be empty")
	}
	if window != nil {
		if err := window.Validate(); err != nil {
			return nil, 0, apperrors.Validation("Invalid query window", map[string]any{"error": err.Error()})
		}
	}

	if _, err := s.catalog.GetByID(ctx, objectID); err != nil {
		return nil, 0, err
	}

	return s.listPage(
		func() (int64, error) { return s.repo.CountByObject(ctx, objectID, window, includeInactive) },
		func() ([]*model.Reservation, error) {
			return s.repo.FindByObject(ctx, objectID, window, includeInactive, limit, offset)
		},
		"object_id", objectID,
	)
}

// listPage runs the count and the page fetch concurrently.
func (s *reservationService) listPage(
	count func() (int64, error),
	find func() ([]*model.Reservation, error),
	logKey, logValue string,
) ([]*model.Reservation, int64, error) {
	var total int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count()
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", logKey, logValue, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = find()
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", logKey, logValue, "error", errFind)
			errFind = apperrors.Internal("Failed to list reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, total, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.Counts() {
		return nil, apperrors.InvalidState(fmt.Sprintf("Cannot update a %s reservation", existing.Status))
	}

	merged, err := s.merge(existing, updates)
	if err != nil {
		return nil, err
	}
	// The no-past-start rule applies only when the window moves; editing
	// notes on an in-progress reservation stays legal.
	if err := s.validate(merged, updates.ChangesWindow()); err != nil {
		return nil, err
	}

	if !updates.ChangesWindow() {
		updated, err := s.repo.Update(ctx, id, merged)
		if err != nil {
			return nil, s.mapUpdateError(id, err)
		}
		s.notifier.ReservationUpdated(ctx, updated)
		return updated, nil
	}

	lockID, err := s.acquireObjectLock(ctx, existing.ObjectID)
	if err != nil {
		return nil, err
	}
	defer s.releaseObjectLock(ctx, lockID)

	var updated *model.Reservation
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoConflict(txCtx, merged.ObjectID, merged.Interval(), id); err != nil {
			return err
		}
		var txErr error
		updated, txErr = s.repo.Update(txCtx, id, merged)
		if txErr != nil {
			return s.mapUpdateError(id, txErr)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation updated", "id", id,
		"start", updated.StartDateTime, "end", updated.EndDateTime)
	s.notifier.ReservationUpdated(ctx, updated)
	return updated, nil
}

func (s *reservationService) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.Counts() {
		return nil, apperrors.InvalidState(fmt.Sprintf("Cannot cancel a %s reservation", existing.Status))
	}

	cancelled, err := s.repo.UpdateStatus(ctx, id, model.ReservationStatusCancelled)
	if err != nil {
		if errors.Is(err, reservationerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel reservation", err)
	}

	s.cfg.Log.Info("Reservation cancelled", "id", id, "object_id", cancelled.ObjectID)
	s.notifier.ReservationCancelled(ctx, cancelled)
	return cancelled, nil
}

// --- Helpers ---

func (s *reservationService) validate(reservation *model.Reservation, requireFuture bool) error {
	if err := s.validator.Validate(reservation, requireFuture); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// merge applies a partial update. An explicit endDateTime wins over
// duration; duration alone recomputes the end from the effective start.
func (s *reservationService) merge(existing *model.Reservation, updates *model.ReservationUpdate) (*model.Reservation, error) {
	merged := *existing

	if updates.StartDateTime != nil {
		merged.StartDateTime = *updates.StartDateTime
	}
	switch {
	case updates.EndDateTime != nil:
		merged.EndDateTime = *updates.EndDateTime
	case updates.Duration != nil:
		merged.EndDateTime = merged.StartDateTime.Add(time.Duration(*updates.Duration) * time.Minute)
	}
	if updates.Notes != nil {
		merged.Notes = sanitizer.FreeText(*updates.Notes)
	}

	return &merged, nil
}

func (s *reservationService) mapUpdateError(id string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, reservationerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Reservation", id)
	}
	return apperrors.Internal("Failed to update reservation", err)
}

func (s *reservationService) verifyNoConflict(ctx context.Context, objectID string, window model.Interval, excludeID string) error {
	conflicts, err := s.repo.FindConflicts(ctx, objectID, window, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}
	if len(conflicts) > 0 {
		first := conflicts[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Requested window overlaps an existing reservation (%s - %s)",
			first.StartDateTime.Format(time.RFC3339),
			first.EndDateTime.Format(time.RFC3339),
		))
	}
	return nil
}

// acquireObjectLock takes the per-object advisory lock so the conflict
// scan and the write cannot interleave with another request on the same
// object. Contention surfaces as a retryable conflict.
func (s *reservationService) acquireObjectLock(ctx context.Context, objectID string) (string, error) {
	lock := &model.ObjectLock{
		ID:        "reservation_lock_" + objectID,
		ExpiresAt: time.Now().Add(s.lockTTL()),
	}

	if err := s.lockRepo.Acquire(ctx, lock); err != nil {
		if errors.Is(err, reservationerrors.ErrLockHeld) {
			return "", apperrors.Conflict("This object is currently being reserved by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire object lock", err)
	}
	return lock.ID, nil
}

func (s *reservationService) releaseObjectLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release object lock", "lock_id", lockID, "error", err)
	}
}

func (s *reservationService) lockTTL() time.Duration {
	if s.cfg.LockTTL > 0 {
		return s.cfg.LockTTL
	}
	return config.DefaultLockTTL
}

package service

import (
	"context"
	"testing"
	"time"

	catalogrepo "reservio/internal/catalog/repository"
	catalogservice "reservio/internal/catalog/service"
	catalogvalidator "reservio/internal/catalog/validator"
	reservationrepo "reservio/internal/reservations/repository"
	reservationservice "reservio/internal/reservations/service"
	reservationvalidator "reservio/internal/reservations/validator"
	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/events"
	"reservio/pkg/logger"
	"reservio/pkg/model"
)

type fixture struct {
	availability AvailabilityService
	catalog      catalogservice.ObjectService
	reservations reservationservice.ReservationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{Log: logger.Discard(), LockTTL: 10 * time.Second}

	catalog := catalogservice.NewObjectService(
		catalogrepo.NewMemoryObjectRepository(), catalogvalidator.NewObjectValidator(), cfg)
	repo := reservationrepo.NewMemoryReservationRepository()
	reservations := reservationservice.NewReservationService(
		repo,
		reservationrepo.NewMemoryObjectLockRepository(),
		catalog,
		reservationvalidator.NewReservationValidator(),
		events.NewNoopNotifier(),
		cfg,
	)

	return &fixture{
		availability: NewAvailabilityService(catalog, repo, cfg),
		catalog:      catalog,
		reservations: reservations,
	}
}

func (f *fixture) seedObject(t *testing.T, objectType model.ObjectType, name string) string {
	t.Helper()
	obj := &model.ReservableObject{Type: objectType, Name: name, Location: "Floor 1"}
	if err := f.catalog.Create(context.Background(), obj); err != nil {
		t.Fatalf("failed to seed object: %v", err)
	}
	return obj.ID
}

func (f *fixture) reserve(t *testing.T, objectID string, start, end time.Time) *model.Reservation {
	t.Helper()
	reservation, err := f.reservations.Create(context.Background(), "u1", &model.ReservationCreate{
		ObjectID:      objectID,
		StartDateTime: start,
		EndDateTime:   end,
	})
	if err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}
	return reservation
}

func at(hour, min int) time.Time {
	return time.Date(2030, 3, 4, hour, min, 0, 0, time.UTC)
}

func window(startHour, endHour int) model.Interval {
	return model.Interval{Start: at(startHour, 0), End: at(endHour, 0)}
}

func TestCheck_FreeAndBusy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	objectID := f.seedObject(t, model.ObjectTypeDesk, "Desk 1")
	f.reserve(t, objectID, at(9, 0), at(11, 0))

	busy, err := f.availability.Check(ctx, objectID, window(10, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if busy.IsAvailable {
		t.Error("expected overlapping window to be unavailable")
	}
	if len(busy.Conflicts) != 1 {
		t.Errorf("expected 1 conflict listed, got %d", len(busy.Conflicts))
	}

	free, err := f.availability.Check(ctx, objectID, window(11, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free.IsAvailable {
		t.Error("expected back-to-back window to be available")
	}
	if len(free.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %d", len(free.Conflicts))
	}
}

func TestCheck_CancelledReservationFreesWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	objectID := f.seedObject(t, model.ObjectTypeDesk, "Desk 1")
	reservation := f.reserve(t, objectID, at(9, 0), at(11, 0))

	if _, err := f.reservations.Cancel(ctx, reservation.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	check, err := f.availability.Check(ctx, objectID, window(9, 11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.IsAvailable {
		t.Error("expected window freed by cancellation to be available")
	}
}

func TestCheck_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	objectID := f.seedObject(t, model.ObjectTypeDesk, "Desk 1")

	_, err := f.availability.Check(ctx, "missing", window(9, 11))
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s for unknown object, got %v", apperrors.CodeNotFound, err)
	}

	inverted := model.Interval{Start: at(11, 0), End: at(9, 0)}
	_, err = f.availability.Check(ctx, objectID, inverted)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s for inverted window, got %v", apperrors.CodeValidation, err)
	}
}

func TestQuery_PartitionsFleet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	busyID := f.seedObject(t, model.ObjectTypeDesk, "Desk 1")
	freeID := f.seedObject(t, model.ObjectTypeDesk, "Desk 2")
	f.reserve(t, busyID, at(9, 0), at(11, 0))

	slots, err := f.availability.Query(ctx, window(10, 12), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}

	byID := make(map[string]*model.AvailabilitySlot, len(slots))
	for _, slot := range slots {
		byID[slot.ObjectID] = slot
	}
	if byID[busyID].IsAvailable {
		t.Error("expected reserved desk to be unavailable")
	}
	if !byID[freeID].IsAvailable {
		t.Error("expected free desk to be available")
	}
}

func TestQuery_ValidatesWindowBeforeScanning(t *testing.T) {
	f := newFixture(t)

	inverted := model.Interval{Start: at(11, 0), End: at(9, 0)}
	_, err := f.availability.Query(context.Background(), inverted, "", "")
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestQuery_ExcludesInactiveObjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activeID := f.seedObject(t, model.ObjectTypeDesk, "Desk 1")
	retiredID := f.seedObject(t, model.ObjectTypeParkingSpace, "P-01")
	if err := f.catalog.SoftDelete(ctx, retiredID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots, err := f.availability.Query(ctx, window(9, 11), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ObjectID != activeID {
		t.Errorf("expected only the active object, got %d slots", len(slots))
	}
}

func TestQuery_SingleObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedObject(t, model.ObjectTypeDesk, "Desk 1")
	targetID := f.seedObject(t, model.ObjectTypeDesk, "Desk 2")
	f.reserve(t, targetID, at(9, 0), at(11, 0))

	slots, err := f.availability.Query(ctx, window(10, 12), "", targetID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ObjectID != targetID {
		t.Fatalf("expected a single slot for the requested object, got %d slots", len(slots))
	}
	if slots[0].IsAvailable {
		t.Error("expected the requested object to be unavailable")
	}

	_, err = f.availability.Query(ctx, window(10, 12), "", "missing")
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected %s for unknown object, got %v", apperrors.CodeNotFound, err)
	}
}

func TestQuery_TypeFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedObject(t, model.ObjectTypeDesk, "Desk 1")
	parkingID := f.seedObject(t, model.ObjectTypeParkingSpace, "P-01")

	slots, err := f.availability.Query(ctx, window(9, 11), "parking_space", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ObjectID != parkingID {
		t.Errorf("expected only parking spaces, got %d slots", len(slots))
	}
}

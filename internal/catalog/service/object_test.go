package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	catalogerrors "reservio/internal/catalog/errors"
	"reservio/internal/catalog/repository"
	"reservio/internal/catalog/validator"
	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/logger"
	"reservio/pkg/model"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Errorf("expected code %s, got %s (%v)", code, appErr.Code, err)
	}
}

func newTestService(t *testing.T) (ObjectService, repository.ObjectRepository) {
	t.Helper()
	cfg := &config.Config{Log: logger.Discard()}
	repo := repository.NewMemoryObjectRepository()
	return NewObjectService(repo, validator.NewObjectValidator(), cfg), repo
}

func desk(name, location string) *model.ReservableObject {
	return &model.ReservableObject{
		Type:     model.ObjectTypeDesk,
		Name:     name,
		Location: location,
		IsActive: true,
	}
}

func TestObjectService_Create(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	obj := desk("Desk 12", "Floor 3")
	if err := svc.Create(ctx, obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.ID == "" {
		t.Error("expected generated ID")
	}
	if obj.CreatedAt.IsZero() || obj.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestObjectService_Create_Sanitizes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	obj := desk("  Desk   12  ", "\tFloor 3 ")
	if err := svc.Create(ctx, obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.Name != "Desk 12" {
		t.Errorf("expected sanitized name %q, got %q", "Desk 12", obj.Name)
	}
	if obj.Location != "Floor 3" {
		t.Errorf("expected sanitized location %q, got %q", "Floor 3", obj.Location)
	}
}

func TestObjectService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		obj  *model.ReservableObject
	}{
		{"missing name", &model.ReservableObject{Type: model.ObjectTypeDesk, Location: "Floor 1"}},
		{"missing location", &model.ReservableObject{Type: model.ObjectTypeDesk, Name: "Desk 1"}},
		{"unknown type", &model.ReservableObject{Type: "meeting_room", Name: "Room 1", Location: "Floor 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertErrorCode(t, svc.Create(ctx, tt.obj), apperrors.CodeValidation)
		})
	}
}

func TestObjectService_GetByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	obj := desk("Desk 1", "Floor 1")
	if err := svc.Create(ctx, obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetByID(ctx, obj.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Desk 1" {
		t.Errorf("expected name %q, got %q", "Desk 1", got.Name)
	}

	_, err = svc.GetByID(ctx, "missing-id")
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestObjectService_GetAll_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	d := desk("Desk 1", "Floor 1")
	p := &model.ReservableObject{Type: model.ObjectTypeParkingSpace, Name: "P-01", Location: "Garage", IsActive: true}
	for _, obj := range []*model.ReservableObject{d, p} {
		if err := svc.Create(ctx, obj); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := svc.SoftDelete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, total, err := svc.GetAll(ctx, "", false, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 || all[0].ID != d.ID {
		t.Errorf("expected only the active desk, got %d objects", len(all))
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}

	withInactive, total, err := svc.GetAll(ctx, "", true, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(withInactive) != 2 || total != 2 {
		t.Errorf("expected 2 objects with inactive included, got %d (total %d)", len(withInactive), total)
	}

	desks, _, err := svc.GetAll(ctx, "desk", true, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(desks) != 1 || desks[0].Type != model.ObjectTypeDesk {
		t.Errorf("expected 1 desk, got %d objects", len(desks))
	}

	if _, _, err := svc.GetAll(ctx, "boat", false, 0, 0); err == nil {
		t.Error("expected error for unknown type filter")
	}
}

func TestObjectService_GetAll_Paginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ids := make([]string, 0, 5)
	for _, name := range []string{"Desk 1", "Desk 2", "Desk 3", "Desk 4", "Desk 5"} {
		obj := desk(name, "Floor 1")
		if err := svc.Create(ctx, obj); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, obj.ID)
	}

	// Walk the listing in pages of 2 and check the pages partition the
	// whole set without overlap.
	seen := make(map[string]bool)
	for _, offset := range []int64{0, 2, 4} {
		page, total, err := svc.GetAll(ctx, "", false, 2, offset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 5 {
			t.Errorf("expected total 5 regardless of paging, got %d", total)
		}
		want := 2
		if offset == 4 {
			want = 1
		}
		if len(page) != want {
			t.Fatalf("expected a page of %d at offset %d, got %d", want, offset, len(page))
		}
		for _, obj := range page {
			if seen[obj.ID] {
				t.Errorf("object %q appeared on two pages", obj.Name)
			}
			seen[obj.ID] = true
		}
	}
	if len(seen) != len(ids) {
		t.Errorf("expected the pages to cover all %d objects, got %d", len(ids), len(seen))
	}

	empty, _, err := svc.GetAll(ctx, "", false, 10, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty page past the end, got %d objects", len(empty))
	}
}

func TestObjectService_GetActive_Unpaged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inactive := desk("Desk 0", "Floor 1")
	if err := svc.Create(ctx, inactive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SoftDelete(ctx, inactive.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 15; i++ {
		if err := svc.Create(ctx, desk(fmt.Sprintf("Desk %d", i+1), "Floor 1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	objects, err := svc.GetActive(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objects) != 15 {
		t.Errorf("expected all 15 active objects without a page bound, got %d", len(objects))
	}
	for _, obj := range objects {
		if !obj.IsActive {
			t.Errorf("expected only active objects, got inactive %q", obj.Name)
		}
	}
}

func TestObjectService_Update(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	obj := desk("Desk 1", "Floor 1")
	if err := svc.Create(ctx, obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newDesc := "Standing desk"
	updated, err := svc.Update(ctx, obj.ID, &model.ObjectUpdate{
		Name:        "Desk 1A",
		Description: &newDesc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Desk 1A" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Description != "Standing desk" {
		t.Errorf("expected updated description, got %q", updated.Description)
	}
	if updated.Location != "Floor 1" {
		t.Errorf("expected untouched location, got %q", updated.Location)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("expected updatedAt to be at or after createdAt")
	}
}

func TestObjectService_Update_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing-id", &model.ObjectUpdate{Name: "X"})
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestObjectService_SoftDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	obj := desk("Desk 1", "Floor 1")
	if err := svc.Create(ctx, obj); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SoftDelete(ctx, obj.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.GetByID(ctx, obj.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsActive {
		t.Error("expected object to be inactive after soft delete")
	}

	// Second delete on an already-inactive object still succeeds.
	if err := svc.SoftDelete(ctx, obj.ID); err != nil {
		t.Fatalf("expected repeated soft delete to succeed, got %v", err)
	}

	assertErrorCode(t, svc.SoftDelete(ctx, "missing-id"), apperrors.CodeNotFound)
}

func TestObjectService_Search(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := desk("Window Desk", "Floor 2 North")
	b := desk("Corner Desk", "Floor 5")
	b.Description = "Near the window"
	for _, obj := range []*model.ReservableObject{a, b} {
		if err := svc.Create(ctx, obj); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	results, err := svc.Search(ctx, "  WINDOW ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 matches on name and description, got %d", len(results))
	}

	results, err = svc.Search(ctx, "north")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != a.ID {
		t.Errorf("expected 1 location match, got %d", len(results))
	}
}

// errorObjectRepository forces repository failures to verify error mapping.
type errorObjectRepository struct {
	err error
}

func (r *errorObjectRepository) Create(ctx context.Context, obj *model.ReservableObject) error {
	return r.err
}

func (r *errorObjectRepository) FindByID(ctx context.Context, id string) (*model.ReservableObject, error) {
	return nil, r.err
}

func (r *errorObjectRepository) FindAll(ctx context.Context, typeFilter model.ObjectType, includeInactive bool, limit int, offset int64) ([]*model.ReservableObject, error) {
	return nil, r.err
}

func (r *errorObjectRepository) Count(ctx context.Context, typeFilter model.ObjectType, includeInactive bool) (int64, error) {
	return 0, r.err
}

func (r *errorObjectRepository) Update(ctx context.Context, id string, obj *model.ReservableObject) (*model.ReservableObject, error) {
	return nil, r.err
}

func (r *errorObjectRepository) SoftDelete(ctx context.Context, id string) error {
	return r.err
}

func (r *errorObjectRepository) Search(ctx context.Context, query string) ([]*model.ReservableObject, error) {
	return nil, r.err
}

func TestObjectService_RepositoryErrorsMapToInternal(t *testing.T) {
	cfg := &config.Config{Log: logger.Discard()}
	repo := &errorObjectRepository{err: errors.New("backend down")}
	svc := NewObjectService(repo, validator.NewObjectValidator(), cfg)
	ctx := context.Background()

	assertErrorCode(t, svc.Create(ctx, desk("Desk 1", "Floor 1")), apperrors.CodeInternal)

	_, err := svc.GetByID(ctx, "some-id")
	assertErrorCode(t, err, apperrors.CodeInternal)

	repo.err = catalogerrors.ErrNotFound
	_, err = svc.GetByID(ctx, "some-id")
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservio/internal/availability/service"
	catalogrepo "reservio/internal/catalog/repository"
	catalogservice "reservio/internal/catalog/service"
	catalogvalidator "reservio/internal/catalog/validator"
	reservationrepo "reservio/internal/reservations/repository"
	"reservio/pkg/config"
	"reservio/pkg/logger"
	"reservio/pkg/model"

	"github.com/julienschmidt/httprouter"
)

func newTestRouter(t *testing.T) (*httprouter.Router, string) {
	t.Helper()
	cfg := &config.Config{Log: logger.Discard()}

	catalog := catalogservice.NewObjectService(
		catalogrepo.NewMemoryObjectRepository(), catalogvalidator.NewObjectValidator(), cfg)
	repo := reservationrepo.NewMemoryReservationRepository()

	ctx := context.Background()
	obj := &model.ReservableObject{Type: model.ObjectTypeDesk, Name: "Desk 1", Location: "Floor 1"}
	if err := catalog.Create(ctx, obj); err != nil {
		t.Fatalf("failed to seed object: %v", err)
	}
	if err := repo.Create(ctx, &model.Reservation{
		ObjectID:      obj.ID,
		UserID:        "u1",
		StartDateTime: time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2030, 3, 4, 11, 0, 0, 0, time.UTC),
		Status:        model.ReservationStatusActive,
	}); err != nil {
		t.Fatalf("failed to seed reservation: %v", err)
	}

	router := httprouter.New()
	NewAvailabilityHandler(service.NewAvailabilityService(catalog, repo, cfg), cfg.Log).RegisterRoutes(router)
	return router, obj.ID
}

func get(router *httprouter.Router, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestAvailabilityHandler_Check(t *testing.T) {
	router, objectID := newTestRouter(t)

	rec := get(router, "/api/v1/availability/check?objectId="+objectID+
		"&startDateTime=2030-03-04T10:00:00Z&endDateTime=2030-03-04T12:00:00Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data model.AvailabilityCheck `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.IsAvailable {
		t.Error("expected overlapping window to be unavailable")
	}

	rec = get(router, "/api/v1/availability/check?objectId="+objectID+
		"&startDateTime=2030-03-04T11:00:00Z&endDateTime=2030-03-04T12:00:00Z")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Data.IsAvailable {
		t.Error("expected free window to be available")
	}
}

func TestAvailabilityHandler_Check_ParameterErrors(t *testing.T) {
	router, objectID := newTestRouter(t)

	tests := []struct {
		name string
		url  string
	}{
		{"missing objectId", "/api/v1/availability/check?startDateTime=2030-03-04T09:00:00Z&endDateTime=2030-03-04T10:00:00Z"},
		{"missing window", "/api/v1/availability/check?objectId=" + objectID},
		{"bad timestamp", "/api/v1/availability/check?objectId=" + objectID + "&startDateTime=yesterday&endDateTime=2030-03-04T10:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(router, tt.url); rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAvailabilityHandler_Query(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/api/v1/availability?startDateTime=2030-03-04T10:00:00Z&endDateTime=2030-03-04T12:00:00Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data []model.AvailabilitySlot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(resp.Data))
	}
	if resp.Data[0].IsAvailable {
		t.Error("expected reserved desk to be unavailable")
	}
}

package validator

import (
	"testing"
	"time"

	"reservio/pkg/model"
)

func fixedValidator(now time.Time) *ReservationValidator {
	v := NewReservationValidator()
	v.now = func() time.Time { return now }
	return v
}

func validReservation(start, end time.Time) *model.Reservation {
	return &model.Reservation{
		ObjectID:      "obj-1",
		UserID:        "user-1",
		StartDateTime: start,
		EndDateTime:   end,
		Status:        model.ReservationStatusActive,
	}
}

func TestReservationValidator_Validate(t *testing.T) {
	now := time.Date(2030, 3, 4, 12, 0, 0, 0, time.UTC)
	v := fixedValidator(now)

	tests := []struct {
		name          string
		reservation   *model.Reservation
		requireFuture bool
		wantErr       bool
	}{
		{
			name:          "valid future reservation",
			reservation:   validReservation(now.Add(time.Hour), now.Add(2*time.Hour)),
			requireFuture: true,
			wantErr:       false,
		},
		{
			name: "missing object id",
			reservation: &model.Reservation{
				UserID:        "user-1",
				StartDateTime: now.Add(time.Hour),
				EndDateTime:   now.Add(2 * time.Hour),
				Status:        model.ReservationStatusActive,
			},
			requireFuture: true,
			wantErr:       true,
		},
		{
			name:          "end before start",
			reservation:   validReservation(now.Add(2*time.Hour), now.Add(time.Hour)),
			requireFuture: true,
			wantErr:       true,
		},
		{
			name:          "zero-length interval",
			reservation:   validReservation(now.Add(time.Hour), now.Add(time.Hour)),
			requireFuture: true,
			wantErr:       true,
		},
		{
			name:          "past start rejected when future required",
			reservation:   validReservation(now.Add(-time.Hour), now.Add(time.Hour)),
			requireFuture: true,
			wantErr:       true,
		},
		{
			name:          "past start allowed when future not required",
			reservation:   validReservation(now.Add(-time.Hour), now.Add(time.Hour)),
			requireFuture: false,
			wantErr:       false,
		},
		{
			name: "unknown status",
			reservation: &model.Reservation{
				ObjectID:      "obj-1",
				UserID:        "user-1",
				StartDateTime: now.Add(time.Hour),
				EndDateTime:   now.Add(2 * time.Hour),
				Status:        "paused",
			},
			requireFuture: false,
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.reservation, tt.requireFuture)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReservationValidator_ValidateUpdate(t *testing.T) {
	v := NewReservationValidator()

	badDuration := 0
	longNotes := string(make([]byte, 501))

	tests := []struct {
		name    string
		update  *model.ReservationUpdate
		wantErr bool
	}{
		{"empty update", &model.ReservationUpdate{}, false},
		{"zero duration", &model.ReservationUpdate{Duration: &badDuration}, true},
		{"overlong notes", &model.ReservationUpdate{Notes: &longNotes}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package validator

import (
	"strings"
	"testing"

	"reservio/pkg/model"
)

func validObject() *model.ReservableObject {
	return &model.ReservableObject{
		Type:     model.ObjectTypeDesk,
		Name:     "Desk 12",
		Location: "Floor 3, East Wing",
	}
}

func TestValidate(t *testing.T) {
	v := NewObjectValidator()

	tests := []struct {
		name    string
		mutate  func(*model.ReservableObject)
		wantErr string
	}{
		{"valid desk", func(o *model.ReservableObject) {}, ""},
		{
			"valid parking space with description",
			func(o *model.ReservableObject) {
				o.Type = model.ObjectTypeParkingSpace
				o.Description = "Underground, near elevator"
			},
			"",
		},
		{"missing name", func(o *model.ReservableObject) { o.Name = "" }, "Name"},
		{"missing location", func(o *model.ReservableObject) { o.Location = "" }, "Location"},
		{"unknown type", func(o *model.ReservableObject) { o.Type = "meeting_room" }, "Type"},
		{"missing type", func(o *model.ReservableObject) { o.Type = "" }, "Type"},
		{
			"name too long",
			func(o *model.ReservableObject) { o.Name = strings.Repeat("x", 101) },
			"Name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := validObject()
			tt.mutate(obj)

			err := v.Validate(obj)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention field %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewObjectValidator()

	longDesc := strings.Repeat("y", 501)
	tests := []struct {
		name    string
		update  *model.ObjectUpdate
		wantErr bool
	}{
		{"empty update", &model.ObjectUpdate{}, false},
		{"name only", &model.ObjectUpdate{Name: "Desk 13"}, false},
		{"description too long", &model.ObjectUpdate{Description: &longDesc}, true},
		{"name too long", &model.ObjectUpdate{Name: strings.Repeat("x", 101)}, true},
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

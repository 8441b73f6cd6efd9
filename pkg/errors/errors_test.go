package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "reservation not found",
			},
			expected: "NOT_FOUND: reservation not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "store failure",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: store failure (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(cause, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(wrapped) != cause {
		t.Error("Unwrap() should return the original error")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"NotFound", NotFound("Reservation"), CodeNotFound, http.StatusNotFound},
		{"Validation", Validation("bad interval", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"InvalidInput", InvalidInput("missing id"), CodeInvalidInput, http.StatusBadRequest},
		{"Conflict", Conflict("interval overlaps"), CodeConflict, http.StatusConflict},
		{"InvalidState", InvalidState("already cancelled"), CodeInvalidState, http.StatusConflict},
		{"Unauthorized", Unauthorized("token required"), CodeUnauthorized, http.StatusUnauthorized},
		{"Forbidden", Forbidden("not the owner"), CodeForbidden, http.StatusForbidden},
		{"Internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("ReservableObject", "b2f1")

	if err.Details["id"] != "b2f1" {
		t.Errorf("expected id detail 'b2f1', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "ReservableObject" {
		t.Errorf("expected resource detail, got %v", err.Details["resource"])
	}
	if !strings.Contains(err.Message, "not found") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("interval invalid", nil).WithDetails(map[string]any{"field": "endDateTime"})

	if err.Details["field"] != "endDateTime" {
		t.Errorf("expected field detail, got %v", err.Details["field"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("overlap")
	if AsAppError(appErr) != appErr {
		t.Error("AsAppError() should return the same AppError")
	}

	plain := errors.New("plain")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors wrapped as internal, got %s", converted.Code)
	}
	if converted.Err != plain {
		t.Error("expected original error preserved")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(NotFound("X")) {
		t.Error("IsAppError() should be true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("IsAppError() should be false for plain errors")
	}
}

package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"reservio/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewReservationValidator() *ReservationValidator {
	return &ReservationValidator{
		validate: validator.New(),
		now:      time.Now,
	}
}

// Validate checks a fully-merged reservation. requireFuture applies the
// no-past-start rule: on at creation and when an update moves the window,
// off when only notes change.
func (v *ReservationValidator) Validate(reservation *model.Reservation, requireFuture bool) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}

	var out ValidationErrors
	if !reservation.StartDateTime.Before(reservation.EndDateTime) {
		out = append(out, ValidationError{
			Field:   "endDateTime",
			Message: "endDateTime must be after startDateTime",
		})
	}
	if requireFuture && reservation.StartDateTime.Before(v.now()) {
		out = append(out, ValidationError{
			Field:   "startDateTime",
			Message: "startDateTime must not be in the past",
		})
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}

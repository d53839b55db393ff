package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors reported to the shell. Check with errors.Is.
var (
	// ErrNotFound is returned when an id does not name an existing card or set.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCollection is returned when a study session has no cards to work with.
	ErrEmptyCollection = errors.New("no cards to study")

	// ErrInvalidInput is returned when user-supplied fields fail validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSession is returned when a study operation needs an active session.
	ErrNoSession = errors.New("no active study session")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and wraps any failure in ErrInvalidInput.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

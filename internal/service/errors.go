package service

import "errors"

// ErrNotFound is returned when a referenced entity (recipe, user, tag,
// ingredient) does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is a user-correctable input problem: duplicate ingredient
// line, out-of-range amount, relation already present/absent, self-follow.
// Storage constraint violations are translated into this type before they
// leave the service layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

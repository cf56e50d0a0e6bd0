package services

import (
	"errors"
	"fmt"
)

// Business outcomes. Controllers translate these to HTTP responses; anything
// not listed here is an internal failure and must not leak storage details.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("not the owner")
	ErrAlreadyCheckedIn    = errors.New("already checked in today")
	ErrInsufficientBalance = errors.New("insufficient points balance")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package session

import (
	"errors"
	"fmt"
)

// Reason classifies a validation failure.
type Reason int

const (
	Invalid Reason = iota + 1
	NotFound
	Conflict
)

func (r Reason) String() string {
	switch r {
	case Invalid:
		return "invalid"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// ErrUnexpected is returned in place of infrastructure and programming
// failures. The underlying error is logged, never returned.
var ErrUnexpected = errors.New("internal error, the change was not applied")

// ValidationError is a user-facing rejection. Its message is safe to show
// to the operator as is.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Rejectf builds a ValidationError.
func Rejectf(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

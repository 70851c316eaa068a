package models

import "errors"

// ValidationError reports caller-supplied data that violates a trade
// invariant. The message names the specific rule so the caller can fix the
// input; validation failures are never retried or logged as server faults.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrTradeNotFound covers both "no such trade" and "trade owned by someone
// else". The two are indistinguishable so existence is never leaked across
// users.
var ErrTradeNotFound = errors.New("trade not found")

// ErrOpenTradeNotFound is returned when closing a trade that is not in the
// open state. It reuses not-found semantics rather than a distinct conflict
// so a caller cannot tell "already closed" from "never existed".
var ErrOpenTradeNotFound = errors.New("open trade not found")

// IsNotFound reports whether err carries not-found semantics.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTradeNotFound) || errors.Is(err, ErrOpenTradeNotFound)
}

package models

import "errors"

// Domain errors shared by all services. Handlers map these to HTTP status
// codes in one place; services never import fiber.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidState        = errors.New("operation not allowed in current status")
	ErrConflict            = errors.New("already decided by a concurrent update")
	ErrAlreadyCompleted    = errors.New("already completed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPaymentDeclined     = errors.New("payment declined")
	ErrForbidden           = errors.New("forbidden")
)

// ValidationError carries field-level messages for a 422 response.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	return "validation error"
}

// OrNil lets validators build up errors and return a plain nil when the
// input was fine.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

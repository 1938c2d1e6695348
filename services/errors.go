package services

import "fmt"

// ValidationError reports a malformed or missing input field. The operation
// was a no-op.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports an attempt that the current state forbids: re-locking
// a locked order, receiving against an unconfirmed order, or receiving more
// than the residual. Nothing was mutated.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NotFoundError reports a reference to a row that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func conflictErr(format string, args ...interface{}) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

func notFoundErr(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

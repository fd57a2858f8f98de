// Package apperrors defines the error taxonomy shared by services and
// handlers. Services return these; handlers translate them to HTTP
// responses. The package has no transport dependencies so services stay
// usable from any caller.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range input. The caller can
// recover by correcting the request. It is always raised before any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError reports that the principal lacks rights for an operation
// on an entity known to exist. Never returned for missing entities; that
// distinction is load-bearing for callers.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError reports that the request contradicts existing state, such
// as a duplicate email or deleting a user still referenced by tasks.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PersistenceError wraps a storage failure. The wrapped driver error is
// kept for logs; user-visible messages must never include it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Validation creates a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NotFoundError for the named resource.
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// Forbidden creates a ForbiddenError.
func Forbidden(message string) error {
	return &ForbiddenError{Message: message}
}

// Conflict creates a ConflictError.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// Persistence wraps a storage failure under the given operation name.
func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

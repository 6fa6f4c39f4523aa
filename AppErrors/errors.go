// Package AppErrors defines the typed failures raised by the core packages.
// The core never logs or talks HTTP; handlers translate these at the boundary.
package AppErrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports a missing or malformed required field. Caller's
// fault, never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a reference to a nonexistent inspection, catalog item
// or vehicle type.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NotFound(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a duplicate submission within the cool-down window or
// a duplicate catalog-item name. PriorTimestamp is set for duplicate
// submissions so the client can show when the earlier one happened.
type ConflictError struct {
	Message        string
	PriorTimestamp time.Time
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(message string) error {
	return &ConflictError{Message: message}
}

func DuplicateSubmission(prior time.Time) error {
	return &ConflictError{
		Message:        "duplicate submission within cool-down window",
		PriorTimestamp: prior,
	}
}

// StorageError wraps a failure of the underlying store. Surfaced as-is; retry
// policy, if any, belongs to the caller.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// AsConflict returns the ConflictError inside err, if any.
func AsConflict(err error) (*ConflictError, bool) {
	var c *ConflictError
	ok := errors.As(err, &c)
	return c, ok
}

// HTTPStatus maps a core error onto the handler boundary's status codes.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return fiber.StatusBadRequest
	case IsNotFound(err):
		return fiber.StatusNotFound
	case IsConflict(err):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

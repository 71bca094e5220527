package store

import "fmt"

// Error taxonomy of the engine. Validation and conflict errors are
// detected before any remote call; a PersistenceError means the remote
// write failed and local state was left untouched.

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

type ConflictError struct {
	ZoneID string
	Day    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("zone %s is already booked on %s", e.ZoneID, e.Day)
}

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure on %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type NotAuthorizedError struct {
	Message string
}

func (e *NotAuthorizedError) Error() string { return e.Message }

// ErrBookingNotFound is returned when an operation targets an id that is
// not in the canonical collection.
var ErrBookingNotFound = fmt.Errorf("booking not found")

var ErrZoneNotFound = fmt.Errorf("zone not found")

var ErrNotificationNotFound = fmt.Errorf("notification not found")

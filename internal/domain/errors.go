package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// InsufficientCapacityError is a business rejection, not a system fault: at
// least one trip sharing the physical run cannot seat the requested count.
type InsufficientCapacityError struct {
	TripID    int64
	Requested int
	Available int
}

func (e InsufficientCapacityError) Error() string {
	return fmt.Sprintf("trip %d: kursi tidak cukup (diminta %d, tersisa %d)", e.TripID, e.Requested, e.Available)
}

// InvalidSegmentError means a segment endpoint could not be resolved against
// its route's waypoint order. This indicates route/sub-trip drift and is never
// retried.
type InvalidSegmentError struct {
	Route    int64
	Waypoint string
}

func (e InvalidSegmentError) Error() string {
	return fmt.Sprintf("segment tidak valid: waypoint %q tidak ada di route %d", e.Waypoint, e.Route)
}

// ConcurrentModificationError surfaces after the bounded retry loop loses the
// row race every attempt.
type ConcurrentModificationError struct {
	TripID int64
	Err    error
}

func (e ConcurrentModificationError) Error() string {
	if e.TripID > 0 {
		return fmt.Sprintf("trip %d: concurrent modification", e.TripID)
	}
	return "concurrent modification"
}

func (e ConcurrentModificationError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsInsufficientCapacity(err error) bool {
	var target InsufficientCapacityError
	return errors.As(err, &target)
}

func IsInvalidSegment(err error) bool {
	var target InvalidSegmentError
	return errors.As(err, &target)
}

func IsConcurrentModification(err error) bool {
	var target ConcurrentModificationError
	return errors.As(err, &target)
}

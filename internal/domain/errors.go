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
	switch {
	case e.Msg != "" && e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
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

// SeatUnavailableError means the seat was taken by the time the flip ran.
// The caller must pick another seat; retrying the same call cannot succeed.
type SeatUnavailableError struct {
	TripID     int64
	SeatNumber string
}

func (e SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s on trip %d is not available", e.SeatNumber, e.TripID)
}

// TripNotBookableError rejects reservations while the trip status is
// outside {upcoming, ongoing}.
type TripNotBookableError struct {
	TripID int64
	Status string
}

func (e TripNotBookableError) Error() string {
	return fmt.Sprintf("trip %d is not bookable (status %s)", e.TripID, e.Status)
}

// AlreadyCancelledError distinguishes a lost cancel race from a no-op.
type AlreadyCancelledError struct {
	TicketID int64
	Status   string
}

func (e AlreadyCancelledError) Error() string {
	return fmt.Sprintf("ticket %d is already %s", e.TicketID, e.Status)
}

// InvalidRouteError rejects pickup/dropoff stops that do not belong to the
// trip or are out of order.
type InvalidRouteError struct {
	Msg string
}

func (e InvalidRouteError) Error() string {
	if e.Msg == "" {
		return "invalid route"
	}
	return e.Msg
}

// RetryableError signals transient store contention (deadlock, lock wait
// timeout). The operation left no partial state and may be retried as-is.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string {
	if e.Err == nil {
		return "transient conflict, retry"
	}
	return fmt.Sprintf("transient conflict, retry: %v", e.Err)
}

func (e RetryableError) Unwrap() error { return e.Err }

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

func IsSeatUnavailable(err error) bool {
	var target SeatUnavailableError
	return errors.As(err, &target)
}

func IsTripNotBookable(err error) bool {
	var target TripNotBookableError
	return errors.As(err, &target)
}

func IsAlreadyCancelled(err error) bool {
	var target AlreadyCancelledError
	return errors.As(err, &target)
}

func IsInvalidRoute(err error) bool {
	var target InvalidRouteError
	return errors.As(err, &target)
}

func IsRetryable(err error) bool {
	var target RetryableError
	return errors.As(err, &target)
}

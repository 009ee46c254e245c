package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		err   error
		check func(error) bool
		name  string
	}{
		{NotFoundError{Resource: "trip"}, IsNotFound, "not found"},
		{ValidationError{Field: "seat_number", Msg: "required"}, IsValidation, "validation"},
		{ConflictError{Resource: "ticket"}, IsConflict, "conflict"},
		{InternalError{Msg: "boom"}, IsInternal, "internal"},
		{SeatUnavailableError{TripID: 7, SeatNumber: "L5"}, IsSeatUnavailable, "seat unavailable"},
		{TripNotBookableError{TripID: 7, Status: "cancelled"}, IsTripNotBookable, "not bookable"},
		{AlreadyCancelledError{TicketID: 11, Status: "cancelled"}, IsAlreadyCancelled, "already cancelled"},
		{InvalidRouteError{Msg: "pickup must precede dropoff"}, IsInvalidRoute, "invalid route"},
		{RetryableError{Err: errors.New("deadlock")}, IsRetryable, "retryable"},
	}

	for _, tc := range cases {
		if !tc.check(tc.err) {
			t.Fatalf("%s: classifier rejected its own error %v", tc.name, tc.err)
		}
		// wrapping must not break classification
		wrapped := fmt.Errorf("outer: %w", tc.err)
		if !tc.check(wrapped) {
			t.Fatalf("%s: classifier rejected wrapped error %v", tc.name, wrapped)
		}
	}
}

func TestClassifiersAreDisjoint(t *testing.T) {
	if IsSeatUnavailable(TripNotBookableError{TripID: 1, Status: "cancelled"}) {
		t.Fatal("seat classifier matched trip error")
	}
	if IsConflict(SeatUnavailableError{TripID: 1, SeatNumber: "A1"}) {
		t.Fatal("conflict classifier matched seat error")
	}
	if IsRetryable(InternalError{Msg: "x"}) {
		t.Fatal("retryable classifier matched internal error")
	}
	if IsNotFound(nil) {
		t.Fatal("classifier matched nil")
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{SeatUnavailableError{TripID: 7, SeatNumber: "L5"}, "seat L5 on trip 7 is not available"},
		{TripNotBookableError{TripID: 7, Status: "cancelled"}, "trip 7 is not bookable (status cancelled)"},
		{AlreadyCancelledError{TicketID: 11, Status: "refunded"}, "ticket 11 is already refunded"},
		{NotFoundError{Resource: "trip"}, "trip not found"},
		{ValidationError{Field: "seat_number", Msg: "required"}, "seat_number: required"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}
}

func TestRetryableUnwrap(t *testing.T) {
	inner := errors.New("lock wait timeout")
	err := RetryableError{Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("RetryableError should unwrap to the store error")
	}
}

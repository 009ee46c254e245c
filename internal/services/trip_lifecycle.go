package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/cache"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/utils"
)

// TripLifecycleService owns trip status transitions and their cascades.
type TripLifecycleService struct {
	DB         *sql.DB
	TripRepo   repositories.TripRepository
	SeatRepo   repositories.TripSeatRepository
	TicketRepo repositories.TicketRepository
	Cache      *cache.SeatCache
}

// transitions is the full state machine; completed and cancelled accept
// nothing further.
var transitions = map[models.TripStatus][]models.TripStatus{
	models.TripUpcoming: {models.TripOngoing, models.TripCancelled, models.TripDelayed},
	models.TripOngoing:  {models.TripCompleted, models.TripCancelled},
	models.TripDelayed:  {models.TripUpcoming, models.TripOngoing},
}

func canTransition(from, to models.TripStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionResult reports what a lifecycle move touched.
type TransitionResult struct {
	TripID        int64             `json:"tripId"`
	From          models.TripStatus `json:"from"`
	To            models.TripStatus `json:"to"`
	TicketsMoved  int64             `json:"ticketsMoved"`
	SeatsReleased int64             `json:"seatsReleased"`
}

// Transition moves a trip to the next status. Cancellation cascades to
// every booked ticket and seat of the trip; completion settles booked
// tickets. Each cascade is bulk statements inside the same transaction
// as the status move, so readers never observe it half-applied.
func (s TripLifecycleService) Transition(ctx context.Context, tripID int64, next models.TripStatus) (TransitionResult, error) {
	if tripID <= 0 {
		return TransitionResult{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	switch next {
	case models.TripUpcoming, models.TripOngoing, models.TripCompleted, models.TripCancelled, models.TripDelayed:
	default:
		return TransitionResult{}, domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", next)}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return TransitionResult{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	current, err := s.TripRepo.GetStatusForUpdate(ctx, tx, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return TransitionResult{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return TransitionResult{}, classifyStoreErr(err)
	}

	if current == next {
		return TransitionResult{}, domain.ConflictError{
			Resource: "trip",
			Msg:      fmt.Sprintf("already %s", current),
		}
	}
	if !canTransition(current, next) {
		msg := fmt.Sprintf("cannot move from %s to %s", current, next)
		if current.Terminal() {
			msg = fmt.Sprintf("trip is %s and accepts no further transitions", current)
		}
		return TransitionResult{}, domain.ValidationError{Field: "status", Msg: msg}
	}

	result := TransitionResult{TripID: tripID, From: current, To: next}

	switch next {
	case models.TripCancelled:
		moved, err := s.TicketRepo.BulkMoveByTripTx(ctx, tx, tripID, models.TicketBooked, models.TicketCancelled)
		if err != nil {
			return TransitionResult{}, classifyStoreErr(err)
		}
		released, err := s.SeatRepo.ReleaseAllByTripTx(ctx, tx, tripID)
		if err != nil {
			return TransitionResult{}, classifyStoreErr(err)
		}
		result.TicketsMoved = moved
		result.SeatsReleased = released
	case models.TripCompleted:
		moved, err := s.TicketRepo.BulkMoveByTripTx(ctx, tx, tripID, models.TicketBooked, models.TicketCompleted)
		if err != nil {
			return TransitionResult{}, classifyStoreErr(err)
		}
		result.TicketsMoved = moved
	}

	if err := s.TripRepo.UpdateStatusTx(ctx, tx, tripID, next); err != nil {
		return TransitionResult{}, classifyStoreErr(err)
	}

	if err := tx.Commit(); err != nil {
		return TransitionResult{}, classifyStoreErr(err)
	}

	s.Cache.Invalidate(ctx, tripID)
	utils.LogEvent("", "trip_lifecycle", "transition",
		fmt.Sprintf("trip=%d %s->%s tickets=%d seats=%d", tripID, current, next, result.TicketsMoved, result.SeatsReleased))
	return result, nil
}

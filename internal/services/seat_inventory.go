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

// SeatInventoryService materializes seat templates into per-trip seat
// rows and serves availability. It never flips is_booked; that is the
// booking ledger's job.
type SeatInventoryService struct {
	TripRepo        repositories.TripRepository
	VehicleRepo     repositories.VehicleRepository
	VehicleTypeRepo repositories.VehicleTypeRepository
	SeatRepo        repositories.TripSeatRepository
	Cache           *cache.SeatCache
}

// Availability is the read model for one trip's seat map.
type Availability struct {
	TripID    int64             `json:"tripId"`
	Total     int               `json:"total"`
	Booked    int               `json:"booked"`
	Available int               `json:"available"`
	Seats     []models.TripSeat `json:"seats"`
}

// InstantiateForTrip creates one trip_seat per template entry of the
// trip's vehicle type. Re-running it is a no-op for seats that already
// exist, so adding entries to the template later backfills cleanly.
// Returns the trip's total seat count after the call.
func (s SeatInventoryService) InstantiateForTrip(ctx context.Context, tripID int64) (int, error) {
	if tripID <= 0 {
		return 0, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}

	trip, err := s.TripRepo.GetByID(ctx, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}

	vehicle, err := s.VehicleRepo.GetByID(ctx, trip.VehicleID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}

	entries, err := s.VehicleTypeRepo.ListTemplate(ctx, vehicle.VehicleTypeID)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	if len(entries) == 0 {
		return 0, domain.ConflictError{
			Resource: "seat template",
			Msg:      "vehicle type has no seat template entries",
		}
	}

	if err := s.SeatRepo.Instantiate(ctx, tripID, entries); err != nil {
		return 0, domain.InternalError{Err: err}
	}
	s.Cache.Invalidate(ctx, tripID)

	total, err := s.SeatRepo.CountByTrip(ctx, tripID)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	utils.LogEvent("", "seat_inventory", "instantiate",
		fmt.Sprintf("trip=%d seats=%d", tripID, total))
	return total, nil
}

// GetAvailability returns the ordered seat map with booked flags. The
// redis snapshot is used when warm; misses fall through to the database
// and refill it.
func (s SeatInventoryService) GetAvailability(ctx context.Context, tripID int64) (Availability, error) {
	if tripID <= 0 {
		return Availability{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}

	seats, ok := s.Cache.Get(ctx, tripID)
	if !ok {
		var err error
		seats, err = s.SeatRepo.ListByTrip(ctx, tripID)
		if err != nil {
			return Availability{}, domain.InternalError{Err: err}
		}
		if len(seats) == 0 {
			if _, err := s.TripRepo.GetByID(ctx, tripID); errors.Is(err, sql.ErrNoRows) {
				return Availability{}, domain.NotFoundError{Resource: "trip", Err: err}
			} else if err != nil {
				return Availability{}, domain.InternalError{Err: err}
			}
		}
		s.Cache.Set(ctx, tripID, seats)
	}

	out := Availability{TripID: tripID, Total: len(seats), Seats: seats}
	for _, seat := range seats {
		if seat.IsBooked {
			out.Booked++
		}
	}
	out.Available = out.Total - out.Booked
	return out, nil
}

package models

import "time"

type TripStatus string

const (
	TripUpcoming  TripStatus = "upcoming"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
	TripDelayed   TripStatus = "delayed"
)

// Bookable reports whether the booking ledger accepts reservations for a
// trip in this status.
func (s TripStatus) Bookable() bool {
	return s == TripUpcoming || s == TripOngoing
}

// Terminal statuses accept no further lifecycle transitions.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

type StopKind string

const (
	StopPickup  StopKind = "pickup"
	StopDropoff StopKind = "dropoff"
)

type Trip struct {
	ID        int64      `json:"id"`
	VehicleID int64      `json:"vehicleId"`
	DriverID  int64      `json:"driverId"`
	Status    TripStatus `json:"status"`
	Note      string     `json:"note"`
	Stops     []TripStop `json:"stops,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type TripStop struct {
	ID         int64      `json:"id"`
	TripID     int64      `json:"tripId"`
	LocationID int64      `json:"locationId"`
	StopOrder  int        `json:"stopOrder"`
	ArrivesAt  *time.Time `json:"arrivesAt,omitempty"`
	DepartsAt  *time.Time `json:"departsAt,omitempty"`
	Kind       StopKind   `json:"kind"`
}

// TripSeat is the per-trip instantiation of a seat template entry. The
// booked flag and the ticket reference only ever move together, inside a
// booking ledger transaction.
type TripSeat struct {
	TripID     int64  `json:"tripId"`
	SeatNumber string `json:"seatNumber"`
	IsBooked   bool   `json:"isBooked"`
	TicketID   *int64 `json:"ticketId,omitempty"`
}

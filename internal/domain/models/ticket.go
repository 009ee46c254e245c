package models

import "time"

type TicketStatus string

const (
	TicketBooked    TicketStatus = "booked"
	TicketCancelled TicketStatus = "cancelled"
	TicketCompleted TicketStatus = "completed"
	TicketRefunded  TicketStatus = "refunded"
)

// Active reports whether the ticket still holds its seat.
func (s TicketStatus) Active() bool {
	return s == TicketBooked
}

type Ticket struct {
	ID            int64        `json:"id"`
	Code          string       `json:"code"`
	UserID        int64        `json:"userId"`
	TripID        int64        `json:"tripId"`
	PickupStopID  int64        `json:"pickupStopId"`
	DropoffStopID int64        `json:"dropoffStopId"`
	SeatNumber    string       `json:"seatNumber"`
	Price         int64        `json:"price"`
	Status        TicketStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Payments      []Payment    `json:"payments,omitempty"`
}

type Payment struct {
	ID       int64     `json:"id"`
	TicketID int64     `json:"ticketId"`
	Amount   int64     `json:"amount"`
	Method   string    `json:"method"`
	PaidAt   time.Time `json:"paid_at"`
}

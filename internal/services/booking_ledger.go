package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/cache"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/monitoring"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/utils"
)

// BookingLedgerService is the only writer of ticket and trip_seat state.
// Every operation runs as a single MySQL transaction; partial state never
// survives an error.
type BookingLedgerService struct {
	DB         *sql.DB
	TripRepo   repositories.TripRepository
	SeatRepo   repositories.TripSeatRepository
	TicketRepo repositories.TicketRepository
	Cache      *cache.SeatCache
}

// ReserveRequest carries one seat reservation attempt.
type ReserveRequest struct {
	TripID        int64  `json:"tripId"`
	SeatNumber    string `json:"seatNumber"`
	UserID        int64  `json:"-"`
	PickupStopID  int64  `json:"pickupStopId"`
	DropoffStopID int64  `json:"dropoffStopId"`
}

// ReserveSeat books one seat on one trip. Under concurrency the
// conditional seat flip decides the winner; the loser gets
// SeatUnavailableError and must pick another seat.
func (s BookingLedgerService) ReserveSeat(ctx context.Context, req ReserveRequest) (models.Ticket, error) {
	start := time.Now()
	ticket, err := s.reserveSeat(ctx, req)
	monitoring.TrackLedgerTx("reserve", time.Since(start))
	monitoring.TrackReservation(reserveOutcome(err))
	return ticket, err
}

func (s BookingLedgerService) reserveSeat(ctx context.Context, req ReserveRequest) (models.Ticket, error) {
	req.SeatNumber = strings.ToUpper(strings.TrimSpace(req.SeatNumber))
	switch {
	case req.TripID <= 0:
		return models.Ticket{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	case req.SeatNumber == "":
		return models.Ticket{}, domain.ValidationError{Field: "seat_number", Msg: "required"}
	case req.UserID <= 0:
		return models.Ticket{}, domain.ValidationError{Field: "user_id", Msg: "must be positive"}
	case req.PickupStopID <= 0 || req.DropoffStopID <= 0:
		return models.Ticket{}, domain.ValidationError{Field: "stops", Msg: "pickup and dropoff stop required"}
	case req.PickupStopID == req.DropoffStopID:
		return models.Ticket{}, domain.InvalidRouteError{Msg: "pickup and dropoff must differ"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Ticket{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	status, err := s.TripRepo.GetStatusForUpdate(ctx, tx, req.TripID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}
	if !status.Bookable() {
		return models.Ticket{}, domain.TripNotBookableError{TripID: req.TripID, Status: string(status)}
	}

	pickup, dropoff, err := s.TripRepo.StopsOnTrip(ctx, tx, req.TripID, req.PickupStopID, req.DropoffStopID)
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}
	if pickup.ID == 0 || dropoff.ID == 0 {
		return models.Ticket{}, domain.InvalidRouteError{Msg: "stop does not belong to trip"}
	}
	if pickup.StopOrder >= dropoff.StopOrder {
		return models.Ticket{}, domain.InvalidRouteError{Msg: "pickup must precede dropoff"}
	}

	price, err := s.TripRepo.PricePerSeatTx(ctx, tx, req.TripID)
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	ticket := models.Ticket{
		Code:          uuid.NewString(),
		UserID:        req.UserID,
		TripID:        req.TripID,
		PickupStopID:  req.PickupStopID,
		DropoffStopID: req.DropoffStopID,
		SeatNumber:    req.SeatNumber,
		Price:         price,
		Status:        models.TicketBooked,
	}
	ticketID, err := s.TicketRepo.InsertTx(ctx, tx, ticket)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return models.Ticket{}, domain.SeatUnavailableError{TripID: req.TripID, SeatNumber: req.SeatNumber}
		}
		return models.Ticket{}, classifyStoreErr(err)
	}
	ticket.ID = ticketID

	flipped, err := s.SeatRepo.MarkBookedTx(ctx, tx, req.TripID, req.SeatNumber, ticketID)
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}
	if flipped == 0 {
		exists, err := s.SeatRepo.SeatExistsTx(ctx, tx, req.TripID, req.SeatNumber)
		if err != nil {
			return models.Ticket{}, classifyStoreErr(err)
		}
		if !exists {
			return models.Ticket{}, domain.NotFoundError{Resource: "seat"}
		}
		return models.Ticket{}, domain.SeatUnavailableError{TripID: req.TripID, SeatNumber: req.SeatNumber}
	}

	if err := tx.Commit(); err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	s.Cache.Invalidate(ctx, req.TripID)
	utils.LogEvent("", "booking_ledger", "reserve",
		fmt.Sprintf("trip=%d seat=%s ticket=%d", req.TripID, req.SeatNumber, ticketID))
	return ticket, nil
}

// CancelTicket moves a booked ticket to cancelled and releases its seat,
// in one transaction. Cancelling twice is an error, never a silent no-op.
func (s BookingLedgerService) CancelTicket(ctx context.Context, ticketID int64) (models.Ticket, error) {
	start := time.Now()
	defer func() { monitoring.TrackLedgerTx("cancel", time.Since(start)) }()

	if ticketID <= 0 {
		return models.Ticket{}, domain.ValidationError{Field: "ticket_id", Msg: "must be positive"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Ticket{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	ticket, err := s.TicketRepo.GetForUpdateTx(ctx, tx, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, domain.NotFoundError{Resource: "ticket", Err: err}
	}
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	switch ticket.Status {
	case models.TicketCancelled, models.TicketRefunded:
		return models.Ticket{}, domain.AlreadyCancelledError{TicketID: ticketID, Status: string(ticket.Status)}
	case models.TicketCompleted:
		return models.Ticket{}, domain.ConflictError{Resource: "ticket", Msg: "completed ticket cannot be cancelled"}
	}

	moved, err := s.TicketRepo.UpdateStatusCondTx(ctx, tx, ticketID, models.TicketBooked, models.TicketCancelled)
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}
	if moved == 0 {
		return models.Ticket{}, domain.AlreadyCancelledError{TicketID: ticketID, Status: string(ticket.Status)}
	}

	if _, err := s.SeatRepo.MarkReleasedTx(ctx, tx, ticket.TripID, ticket.SeatNumber, ticketID); err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	s.Cache.Invalidate(ctx, ticket.TripID)
	utils.LogEvent("", "booking_ledger", "cancel",
		fmt.Sprintf("ticket=%d trip=%d seat=%s", ticketID, ticket.TripID, ticket.SeatNumber))
	ticket.Status = models.TicketCancelled
	return ticket, nil
}

// RecordPayment appends a payment row for an active ticket. Cumulative
// payments never exceed the ticket price.
func (s BookingLedgerService) RecordPayment(ctx context.Context, ticketID, amount int64, method string) (models.Payment, error) {
	method = strings.TrimSpace(method)
	switch {
	case ticketID <= 0:
		return models.Payment{}, domain.ValidationError{Field: "ticket_id", Msg: "must be positive"}
	case amount <= 0:
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	case method == "":
		return models.Payment{}, domain.ValidationError{Field: "method", Msg: "required"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	ticket, err := s.TicketRepo.GetForUpdateTx(ctx, tx, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, domain.NotFoundError{Resource: "ticket", Err: err}
	}
	if err != nil {
		return models.Payment{}, classifyStoreErr(err)
	}
	if !ticket.Status.Active() {
		return models.Payment{}, domain.ConflictError{
			Resource: "ticket",
			Msg:      fmt.Sprintf("cannot pay a %s ticket", ticket.Status),
		}
	}

	paid, err := s.TicketRepo.SumPaymentsTx(ctx, tx, ticketID)
	if err != nil {
		return models.Payment{}, classifyStoreErr(err)
	}
	if paid+amount > ticket.Price {
		return models.Payment{}, domain.ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("payment exceeds price %s", utils.FormatRupiah(ticket.Price)),
		}
	}

	payment := models.Payment{TicketID: ticketID, Amount: amount, Method: method}
	paymentID, err := s.TicketRepo.InsertPaymentTx(ctx, tx, payment)
	if err != nil {
		return models.Payment{}, classifyStoreErr(err)
	}
	payment.ID = paymentID

	if err := tx.Commit(); err != nil {
		return models.Payment{}, classifyStoreErr(err)
	}

	utils.LogEvent("", "booking_ledger", "payment",
		fmt.Sprintf("ticket=%d amount=%d method=%s", ticketID, amount, method))
	return payment, nil
}

// RefundTicket moves a cancelled or completed ticket to refunded and
// records the refund as a negative payment row. The refund never exceeds
// the net amount paid, and never re-opens the seat: cancellation already
// released it, and a completed trip's seat map is historical.
func (s BookingLedgerService) RefundTicket(ctx context.Context, ticketID, amount int64) (models.Ticket, error) {
	start := time.Now()
	defer func() { monitoring.TrackLedgerTx("refund", time.Since(start)) }()

	switch {
	case ticketID <= 0:
		return models.Ticket{}, domain.ValidationError{Field: "ticket_id", Msg: "must be positive"}
	case amount <= 0:
		return models.Ticket{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Ticket{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	ticket, err := s.TicketRepo.GetForUpdateTx(ctx, tx, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ticket{}, domain.NotFoundError{Resource: "ticket", Err: err}
	}
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	switch ticket.Status {
	case models.TicketRefunded:
		return models.Ticket{}, domain.AlreadyCancelledError{TicketID: ticketID, Status: string(ticket.Status)}
	case models.TicketBooked:
		return models.Ticket{}, domain.ConflictError{Resource: "ticket", Msg: "cancel or complete the ticket before refunding"}
	}

	paid, err := s.TicketRepo.SumPaymentsTx(ctx, tx, ticketID)
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}
	if amount > paid {
		return models.Ticket{}, domain.ValidationError{
			Field: "amount",
			Msg:   fmt.Sprintf("refund exceeds amount paid %s", utils.FormatRupiah(paid)),
		}
	}

	moved, err := s.TicketRepo.UpdateStatusCondTx(ctx, tx, ticketID, ticket.Status, models.TicketRefunded)
	if err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}
	if moved == 0 {
		return models.Ticket{}, domain.AlreadyCancelledError{TicketID: ticketID, Status: string(ticket.Status)}
	}

	if _, err := s.TicketRepo.InsertPaymentTx(ctx, tx, models.Payment{
		TicketID: ticketID,
		Amount:   -amount,
		Method:   "refund",
	}); err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Ticket{}, classifyStoreErr(err)
	}

	utils.LogEvent("", "booking_ledger", "refund",
		fmt.Sprintf("ticket=%d amount=%d", ticketID, amount))
	ticket.Status = models.TicketRefunded
	return ticket, nil
}

// classifyStoreErr maps MySQL engine errors onto the ledger's error
// taxonomy. 1213 (deadlock) and 1205 (lock wait timeout) are transient;
// 1062 (duplicate key) means another tx claimed the row first.
func classifyStoreErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1213, 1205:
			return domain.RetryableError{Err: err}
		case 1062:
			return domain.ConflictError{Resource: "record", Msg: "duplicate entry", Err: err}
		}
	}
	return domain.InternalError{Err: err}
}

func reserveOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsSeatUnavailable(err):
		return "seat_taken"
	case domain.IsTripNotBookable(err):
		return "not_bookable"
	case domain.IsInvalidRoute(err):
		return "invalid_route"
	case domain.IsRetryable(err):
		return "retryable"
	default:
		return "error"
	}
}

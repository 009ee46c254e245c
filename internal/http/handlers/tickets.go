package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/http/middleware"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/services"
)

type TicketHandler struct {
	Tickets repositories.TicketRepository
	Ledger  services.BookingLedgerService
	Docs    services.TicketDocsService
}

type reservePayload struct {
	TripID        int64  `json:"tripId" binding:"required"`
	SeatNumber    string `json:"seatNumber" binding:"required"`
	PickupStopID  int64  `json:"pickupStopId" binding:"required"`
	DropoffStopID int64  `json:"dropoffStopId" binding:"required"`
}

// POST /api/tickets
func (h TicketHandler) Reserve(c *gin.Context) {
	var req reservePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	if userID == 0 {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	ticket, err := h.Ledger.ReserveSeat(c.Request.Context(), services.ReserveRequest{
		TripID:        req.TripID,
		SeatNumber:    req.SeatNumber,
		UserID:        userID,
		PickupStopID:  req.PickupStopID,
		DropoffStopID: req.DropoffStopID,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// GET /api/tickets/:id
func (h TicketHandler) Get(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	ticket, err := h.Tickets.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "ticket"})
		return
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	if !h.mayAccess(c, ticket.UserID) {
		RespondError(c, http.StatusForbidden, "not your ticket", nil)
		return
	}

	payments, err := h.Tickets.ListPayments(ctx, id)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	ticket.Payments = payments
	c.JSON(http.StatusOK, ticket)
}

// GET /api/tickets?tripId=&userId=
func (h TicketHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if middleware.GetUserRole(c) != "admin" {
		tickets, err := h.Tickets.ListByUser(ctx, middleware.GetUserID(c))
		if err != nil {
			RespondDomainError(c, domain.InternalError{Err: err})
			return
		}
		c.JSON(http.StatusOK, tickets)
		return
	}

	if tripID := c.Query("tripId"); tripID != "" {
		id, err := strconv.ParseInt(tripID, 10, 64)
		if err != nil || id <= 0 {
			RespondDomainError(c, domain.ValidationError{Field: "tripId", Msg: "invalid id"})
			return
		}
		tickets, err := h.Tickets.ListByTrip(ctx, id)
		if err != nil {
			RespondDomainError(c, domain.InternalError{Err: err})
			return
		}
		c.JSON(http.StatusOK, tickets)
		return
	}

	tickets, err := h.Tickets.ListAll(ctx)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// PUT /api/tickets/:id/cancel
func (h TicketHandler) Cancel(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if !h.mayMutate(c, id) {
		return
	}

	ticket, err := h.Ledger.CancelTicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type refundPayload struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// PUT /api/tickets/:id/refund (admin only, enforced by route group)
func (h TicketHandler) Refund(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req refundPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	ticket, err := h.Ledger.RefundTicket(c.Request.Context(), id, req.Amount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type paymentPayload struct {
	Amount int64  `json:"amount" binding:"required,min=1"`
	Method string `json:"method" binding:"required"`
}

// POST /api/tickets/:id/payments
func (h TicketHandler) RecordPayment(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if !h.mayMutate(c, id) {
		return
	}
	var req paymentPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	payment, err := h.Ledger.RecordPayment(c.Request.Context(), id, req.Amount, req.Method)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GET /api/tickets/:id/e-ticket
func (h TicketHandler) ETicketPDF(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if !h.mayMutate(c, id) {
		return
	}

	docs := h.Docs
	docs.RequestID = middleware.GetRequestID(c)
	data, filename, err := docs.GenerateETicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// GET /api/tickets/:id/invoice
func (h TicketHandler) InvoicePDF(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if !h.mayMutate(c, id) {
		return
	}

	docs := h.Docs
	docs.RequestID = middleware.GetRequestID(c)
	data, filename, err := docs.GenerateInvoice(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h TicketHandler) mayAccess(c *gin.Context, ownerID int64) bool {
	if middleware.GetUserRole(c) == "admin" {
		return true
	}
	return middleware.GetUserID(c) == ownerID
}

// mayMutate loads the ticket owner and enforces owner-or-admin. Responds
// on failure.
func (h TicketHandler) mayMutate(c *gin.Context, ticketID int64) bool {
	if middleware.GetUserRole(c) == "admin" {
		return true
	}
	ticket, err := h.Tickets.GetByID(c.Request.Context(), ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		RespondDomainError(c, domain.NotFoundError{Resource: "ticket"})
		return false
	}
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return false
	}
	if ticket.UserID != middleware.GetUserID(c) {
		RespondError(c, http.StatusForbidden, "not your ticket", nil)
		return false
	}
	return true
}

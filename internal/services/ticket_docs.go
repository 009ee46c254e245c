package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/utils"
)

// TicketDocsService renders the e-ticket and invoice PDFs for one ticket.
type TicketDocsService struct {
	TicketRepo   repositories.TicketRepository
	TripRepo     repositories.TripRepository
	UserRepo     repositories.UserRepository
	VehicleRepo  repositories.VehicleRepository
	LocationRepo repositories.LocationRepository
	RequestID    string
}

type ticketDocData struct {
	TicketID      int64
	Code          string
	PassengerName string
	Phone         string
	SeatNumber    string
	PickupName    string
	DropoffName   string
	Plate         string
	TripNote      string
	Price         int64
	Status        string
	BookedAt      time.Time
}

func (s TicketDocsService) GenerateETicket(ctx context.Context, ticketID int64) ([]byte, string, error) {
	data, err := s.loadDocData(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildETicketPDF(data)
}

func (s TicketDocsService) GenerateInvoice(ctx context.Context, ticketID int64) ([]byte, string, error) {
	data, err := s.loadDocData(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildInvoicePDF(data)
}

func (s TicketDocsService) loadDocData(ctx context.Context, ticketID int64) (ticketDocData, error) {
	var out ticketDocData

	ticket, err := s.TicketRepo.GetByID(ctx, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, domain.NotFoundError{Resource: "ticket", Err: err}
	}
	if err != nil {
		return out, domain.InternalError{Err: err}
	}

	out.TicketID = ticket.ID
	out.Code = ticket.Code
	out.SeatNumber = ticket.SeatNumber
	out.Price = ticket.Price
	out.Status = string(ticket.Status)
	out.BookedAt = ticket.CreatedAt

	if user, err := s.UserRepo.GetByID(ctx, ticket.UserID); err == nil {
		out.PassengerName = user.Name
		out.Phone = user.Phone
	}

	trip, err := s.TripRepo.GetByID(ctx, ticket.TripID)
	if err == nil {
		out.TripNote = trip.Note
		if vehicle, err := s.VehicleRepo.GetByID(ctx, trip.VehicleID); err == nil {
			out.Plate = vehicle.PlateNumber
		}
		for _, stop := range trip.Stops {
			var target *string
			switch stop.ID {
			case ticket.PickupStopID:
				target = &out.PickupName
			case ticket.DropoffStopID:
				target = &out.DropoffName
			default:
				continue
			}
			if loc, err := s.LocationRepo.GetByID(ctx, stop.LocationID); err == nil {
				*target = loc.Name
			}
		}
	}

	return out, nil
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket Code  : %s", safe(d.Code, "-")),
		fmt.Sprintf("Passenger    : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Phone        : %s", safe(d.Phone, "-")),
		fmt.Sprintf("Seat         : %s", safe(d.SeatNumber, "-")),
		fmt.Sprintf("Route        : %s -> %s", safe(d.PickupName, "-"), safe(d.DropoffName, "-")),
		fmt.Sprintf("Vehicle      : %s", safe(d.Plate, "-")),
		fmt.Sprintf("Status       : %s", safe(d.Status, "-")),
		fmt.Sprintf("Booked At    : %s", utils.FormatDateTime(d.BookedAt)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket covers 1 passenger (1 seat). Present it at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render e-ticket", Err: err}
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", d.TicketID, safeFilenamePart(d.SeatNumber))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Invoice No : INV-%d-%s", d.TicketID, safeFilenamePart(d.SeatNumber)))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+utils.FormatDateTime(time.Now()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(d.PassengerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Phone : %s", safe(d.Phone, "-")))
	pdf.Ln(10)

	desc := fmt.Sprintf("Bus ticket %s -> %s, seat %s",
		safe(d.PickupName, "-"), safe(d.DropoffName, "-"), safe(d.SeatNumber, "-"))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Items:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, "Price: "+utils.FormatRupiah(d.Price))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatRupiah(d.Price))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This invoice covers 1 passenger (1 seat).", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render invoice", Err: err}
	}

	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", d.TicketID, safeFilenamePart(d.SeatNumber))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

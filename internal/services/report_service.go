package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/utils"
)

type ReportService struct {
	DB         *sql.DB
	TicketRepo repositories.TicketRepository
}

// TripSales aggregates one trip's ticket counts and collected revenue.
type TripSales struct {
	TripID      int64  `json:"tripId"`
	Status      string `json:"status"`
	Tickets     int64  `json:"tickets"`
	Booked      int64  `json:"booked"`
	Cancelled   int64  `json:"cancelled"`
	Completed   int64  `json:"completed"`
	Refunded    int64  `json:"refunded"`
	Revenue     int64  `json:"revenue"`
	RevenueNice string `json:"revenueFormatted"`
}

// SalesReport groups ticket counts and net payment totals per trip.
// Revenue is the net of payments minus refunds, which the payments table
// stores as negative rows.
func (s ReportService) SalesReport(ctx context.Context) ([]TripSales, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT t.trip_id, tr.status,
			COUNT(*) AS tickets,
			SUM(t.status = 'booked') AS booked,
			SUM(t.status = 'cancelled') AS cancelled,
			SUM(t.status = 'completed') AS completed,
			SUM(t.status = 'refunded') AS refunded,
			COALESCE((SELECT SUM(p.amount) FROM payments p
				JOIN tickets t2 ON t2.id = p.ticket_id
				WHERE t2.trip_id = t.trip_id), 0) AS revenue
		FROM tickets t
		JOIN trips tr ON tr.id = t.trip_id
		GROUP BY t.trip_id, tr.status
		ORDER BY t.trip_id DESC`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []TripSales{}
	for rows.Next() {
		var ts TripSales
		if err := rows.Scan(&ts.TripID, &ts.Status, &ts.Tickets, &ts.Booked,
			&ts.Cancelled, &ts.Completed, &ts.Refunded, &ts.Revenue); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		ts.RevenueNice = utils.FormatRupiah(ts.Revenue)
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// ExportTickets serializes all tickets as CSV or JSON. Returns the bytes,
// the content type and a filename.
func (s ReportService) ExportTickets(ctx context.Context, format string) ([]byte, string, string, error) {
	tickets, err := s.TicketRepo.ListAll(ctx)
	if err != nil {
		return nil, "", "", domain.InternalError{Err: err}
	}

	switch format {
	case "", "csv":
		data, err := ticketsCSV(tickets)
		if err != nil {
			return nil, "", "", domain.InternalError{Err: err}
		}
		return data, "text/csv", "tickets.csv", nil
	case "json":
		data, err := json.MarshalIndent(tickets, "", "  ")
		if err != nil {
			return nil, "", "", domain.InternalError{Err: err}
		}
		return data, "application/json", "tickets.json", nil
	default:
		return nil, "", "", domain.ValidationError{Field: "format", Msg: fmt.Sprintf("unsupported format %q", format)}
	}
}

func ticketsCSV(tickets []models.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "code", "user_id", "trip_id", "seat_number", "price", "status", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Code,
			strconv.FormatInt(t.UserID, 10),
			strconv.FormatInt(t.TripID, 10),
			t.SeatNumber,
			strconv.FormatInt(t.Price, 10),
			string(t.Status),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

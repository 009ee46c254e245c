package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

func newReports(t *testing.T) (ReportService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	svc := ReportService{DB: db, TicketRepo: repositories.TicketRepository{DB: db}}
	return svc, mock, func() { db.Close() }
}

func ticketListRows() *sqlmock.Rows {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "code", "user_id", "trip_id", "pickup_stop_id", "dropoff_stop_id",
		"seat_number", "price", "status", "created_at", "updated_at",
	}).
		AddRow(2, "code-2", 42, 7, 100, 200, "A2", 150000, "cancelled", created, created).
		AddRow(1, "code-1", 42, 7, 100, 200, "A1", 150000, "booked", created, created)
}

func TestExportTicketsCSV(t *testing.T) {
	svc, mock, done := newReports(t)
	defer done()

	mock.ExpectQuery("FROM tickets").WillReturnRows(ticketListRows())

	data, contentType, filename, err := svc.ExportTickets(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "tickets.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,code,user_id,trip_id,seat_number,price,status,created_at", lines[0])
	assert.Contains(t, lines[1], "code-2")
	assert.Contains(t, lines[1], "cancelled")
	assert.Contains(t, lines[2], "booked")
}

func TestExportTicketsJSON(t *testing.T) {
	svc, mock, done := newReports(t)
	defer done()

	mock.ExpectQuery("FROM tickets").WillReturnRows(ticketListRows())

	data, contentType, filename, err := svc.ExportTickets(context.Background(), "json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "tickets.json", filename)
	assert.Contains(t, string(data), `"code-1"`)
}

func TestExportTicketsUnknownFormat(t *testing.T) {
	svc, _, done := newReports(t)
	defer done()

	_, _, _, err := svc.ExportTickets(context.Background(), "xml")
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestSalesReport(t *testing.T) {
	svc, mock, done := newReports(t)
	defer done()

	mock.ExpectQuery("GROUP BY").
		WillReturnRows(sqlmock.NewRows([]string{
			"trip_id", "status", "tickets", "booked", "cancelled", "completed", "refunded", "revenue",
		}).AddRow(7, "ongoing", 4, 2, 1, 1, 0, 450000))

	report, err := svc.SalesReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, int64(7), report[0].TripID)
	assert.Equal(t, int64(450000), report[0].Revenue)
	assert.Equal(t, "Rp450.000", report[0].RevenueNice)
}

package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

func newInventory(t *testing.T) (SeatInventoryService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := SeatInventoryService{
		TripRepo:        repositories.TripRepository{DB: db},
		VehicleRepo:     repositories.VehicleRepository{DB: db},
		VehicleTypeRepo: repositories.VehicleTypeRepository{DB: db},
		SeatRepo:        repositories.TripSeatRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func expectTripLoad(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM trips").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "driver_id", "status", "note", "created_at", "updated_at",
		}).AddRow(7, 3, 1, "upcoming", "", time.Now(), time.Now()))
	mock.ExpectQuery("FROM trip_stops").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "trip_id", "location_id", "stop_order", "arrives_at", "departs_at", "kind",
		}))
}

func expectVehicleLoad(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM vehicles").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plate_number", "vehicle_type_id"}).
			AddRow(3, "B 1234 CD", 2))
}

// limousineRows builds the 22-seat limousine template: L1..L22.
func limousineRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "vehicle_type_id", "seat_number", "seat_row", "seat_col", "default_available",
	})
	for i := 1; i <= 22; i++ {
		rows.AddRow(i, 2, fmt.Sprintf("L%d", i), (i-1)/2+1, (i-1)%2+1, true)
	}
	return rows
}

func TestInstantiateForTripLimousine(t *testing.T) {
	svc, mock, done := newInventory(t)
	defer done()

	expectTripLoad(mock)
	expectVehicleLoad(mock)
	mock.ExpectQuery("FROM seat_template_entries").
		WithArgs(int64(2)).
		WillReturnRows(limousineRows())

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO trip_seats")
	for i := 1; i <= 22; i++ {
		prepared.ExpectExec().
			WithArgs(int64(7), fmt.Sprintf("L%d", i)).
			WillReturnResult(sqlmock.NewResult(int64(i), 1))
	}
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(22))

	count, err := svc.InstantiateForTrip(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 22, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstantiateForTripIdempotent(t *testing.T) {
	svc, mock, done := newInventory(t)
	defer done()

	expectTripLoad(mock)
	expectVehicleLoad(mock)
	mock.ExpectQuery("FROM seat_template_entries").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_type_id", "seat_number", "seat_row", "seat_col", "default_available",
		}).AddRow(1, 2, "A1", 1, 1, true).AddRow(2, 2, "A2", 1, 2, true))

	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO trip_seats")
	// ON DUPLICATE KEY no-op form: rerun affects zero rows, still succeeds
	prepared.ExpectExec().WithArgs(int64(7), "A1").WillReturnResult(sqlmock.NewResult(0, 0))
	prepared.ExpectExec().WithArgs(int64(7), "A2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	// rerun reports the same seat count: nothing was duplicated
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(2))

	count, err := svc.InstantiateForTrip(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstantiateForTripEmptyTemplate(t *testing.T) {
	svc, mock, done := newInventory(t)
	defer done()

	expectTripLoad(mock)
	expectVehicleLoad(mock)
	mock.ExpectQuery("FROM seat_template_entries").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_type_id", "seat_number", "seat_row", "seat_col", "default_available",
		}))

	_, err := svc.InstantiateForTrip(context.Background(), 7)
	assert.True(t, domain.IsConflict(err), "got %v", err)
}

func TestInstantiateForTripUnknownTrip(t *testing.T) {
	svc, mock, done := newInventory(t)
	defer done()

	mock.ExpectQuery("FROM trips").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "driver_id", "status", "note", "created_at", "updated_at",
		}))

	_, err := svc.InstantiateForTrip(context.Background(), 99)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestGetAvailabilityCounts(t *testing.T) {
	svc, mock, done := newInventory(t)
	defer done()

	mock.ExpectQuery("FROM trip_seats").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "seat_number", "is_booked", "ticket_id"}).
			AddRow(7, "A1", true, 11).
			AddRow(7, "A2", false, nil).
			AddRow(7, "A3", false, nil))

	availability, err := svc.GetAvailability(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, availability.Total)
	assert.Equal(t, 1, availability.Booked)
	assert.Equal(t, 2, availability.Available)
	require.NotNil(t, availability.Seats[0].TicketID)
	assert.Equal(t, int64(11), *availability.Seats[0].TicketID)
}

func TestGetAvailabilityUnknownTrip(t *testing.T) {
	svc, mock, done := newInventory(t)
	defer done()

	mock.ExpectQuery("FROM trip_seats").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "seat_number", "is_booked", "ticket_id"}))
	mock.ExpectQuery("FROM trips").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehicle_id", "driver_id", "status", "note", "created_at", "updated_at",
		}))

	_, err := svc.GetAvailability(context.Background(), 99)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

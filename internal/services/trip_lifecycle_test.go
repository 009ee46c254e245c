package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/repositories"
)

func newLifecycle(t *testing.T) (TripLifecycleService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := TripLifecycleService{
		DB:         db,
		TripRepo:   repositories.TripRepository{DB: db},
		SeatRepo:   repositories.TripSeatRepository{DB: db},
		TicketRepo: repositories.TicketRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func expectTripStatus(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery("SELECT status FROM trips").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(status))
}

func TestTransitionMatrix(t *testing.T) {
	cases := []struct {
		from, to models.TripStatus
		ok       bool
	}{
		{models.TripUpcoming, models.TripOngoing, true},
		{models.TripUpcoming, models.TripDelayed, true},
		{models.TripUpcoming, models.TripCompleted, false},
		{models.TripOngoing, models.TripCompleted, true},
		{models.TripOngoing, models.TripDelayed, false},
		{models.TripOngoing, models.TripUpcoming, false},
		{models.TripDelayed, models.TripUpcoming, true},
		{models.TripDelayed, models.TripOngoing, true},
		{models.TripDelayed, models.TripCompleted, false},
		{models.TripCompleted, models.TripOngoing, false},
		{models.TripCancelled, models.TripUpcoming, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, canTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionSimpleMove(t *testing.T) {
	svc, mock, done := newLifecycle(t)
	defer done()

	mock.ExpectBegin()
	expectTripStatus(mock, "upcoming")
	mock.ExpectExec("UPDATE trips SET status").
		WithArgs(string(models.TripOngoing), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.Transition(context.Background(), 7, models.TripOngoing)
	require.NoError(t, err)
	assert.Equal(t, models.TripUpcoming, result.From)
	assert.Equal(t, models.TripOngoing, result.To)
	assert.Zero(t, result.TicketsMoved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionCancelCascades(t *testing.T) {
	svc, mock, done := newLifecycle(t)
	defer done()

	mock.ExpectBegin()
	expectTripStatus(mock, "upcoming")
	// cascade is bulk statements, one per table, inside the same tx
	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs(string(models.TicketCancelled), int64(7), string(models.TicketBooked)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("UPDATE trip_seats").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("UPDATE trips SET status").
		WithArgs(string(models.TripCancelled), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.Transition(context.Background(), 7, models.TripCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.TicketsMoved)
	assert.Equal(t, int64(5), result.SeatsReleased)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionCompleteSettlesTickets(t *testing.T) {
	svc, mock, done := newLifecycle(t)
	defer done()

	mock.ExpectBegin()
	expectTripStatus(mock, "ongoing")
	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs(string(models.TicketCompleted), int64(7), string(models.TicketBooked)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("UPDATE trips SET status").
		WithArgs(string(models.TripCompleted), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.Transition(context.Background(), 7, models.TripCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TicketsMoved)
	// seat rows stay booked: the finished trip's seat map is historical
	assert.Zero(t, result.SeatsReleased)
}

func TestTransitionInvalidMoveRejected(t *testing.T) {
	svc, mock, done := newLifecycle(t)
	defer done()

	mock.ExpectBegin()
	expectTripStatus(mock, "completed")
	mock.ExpectRollback()

	_, err := svc.Transition(context.Background(), 7, models.TripOngoing)
	assert.True(t, domain.IsValidation(err), "got %v", err)
	assert.Contains(t, err.Error(), "no further transitions")
}

func TestTransitionSameStatusConflict(t *testing.T) {
	svc, mock, done := newLifecycle(t)
	defer done()

	mock.ExpectBegin()
	expectTripStatus(mock, "ongoing")
	mock.ExpectRollback()

	_, err := svc.Transition(context.Background(), 7, models.TripOngoing)
	assert.True(t, domain.IsConflict(err), "got %v", err)
}

func TestTransitionUnknownTrip(t *testing.T) {
	svc, mock, done := newLifecycle(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM trips").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	_, err := svc.Transition(context.Background(), 99, models.TripOngoing)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestTransitionUnknownStatusRejected(t *testing.T) {
	svc, _, done := newLifecycle(t)
	defer done()

	_, err := svc.Transition(context.Background(), 7, models.TripStatus("boarding"))
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

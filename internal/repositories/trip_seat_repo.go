package repositories

import (
	"context"
	"database/sql"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

// TripSeatRepository owns the trip_seats table. The Tx-suffixed mutators
// take an open transaction and are called only from the booking ledger;
// nothing else is allowed to flip is_booked.
type TripSeatRepository struct {
	DB *sql.DB
}

// Instantiate materializes one trip_seat per template entry. The INSERT
// is a no-op for (trip, seat) pairs that already exist, which makes the
// call idempotent.
func (r TripSeatRepository) Instantiate(ctx context.Context, tripID int64, entries []models.SeatTemplateEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trip_seats (trip_id, seat_number, is_booked, ticket_id)
		VALUES (?, ?, 0, NULL)
		ON DUPLICATE KEY UPDATE trip_id = trip_id`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, tripID, e.SeatNumber); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByTrip returns the seats ordered by seat number.
func (r TripSeatRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.TripSeat, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT trip_id, seat_number, is_booked, ticket_id
		FROM trip_seats
		WHERE trip_id = ?
		ORDER BY LENGTH(seat_number), seat_number`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TripSeat{}
	for rows.Next() {
		var s models.TripSeat
		var ticketID sql.NullInt64
		if err := rows.Scan(&s.TripID, &s.SeatNumber, &s.IsBooked, &ticketID); err != nil {
			return out, err
		}
		if ticketID.Valid {
			v := ticketID.Int64
			s.TicketID = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r TripSeatRepository) CountByTrip(ctx context.Context, tripID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM trip_seats WHERE trip_id = ?`, tripID).Scan(&n)
	return n, err
}

// MarkBookedTx is the check-and-flip: it only succeeds when the seat row
// exists and is currently free. Returns the number of rows flipped (0 or
// 1); 0 means the seat was taken or does not exist.
func (r TripSeatRepository) MarkBookedTx(ctx context.Context, tx *sql.Tx, tripID int64, seatNumber string, ticketID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE trip_seats
		SET is_booked = 1, ticket_id = ?
		WHERE trip_id = ? AND seat_number = ? AND is_booked = 0`, ticketID, tripID, seatNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkReleasedTx frees a seat held by the given ticket. Conditioning on
// ticket_id keeps a stale release from clobbering a seat that was
// rebooked in between.
func (r TripSeatRepository) MarkReleasedTx(ctx context.Context, tx *sql.Tx, tripID int64, seatNumber string, ticketID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE trip_seats
		SET is_booked = 0, ticket_id = NULL
		WHERE trip_id = ? AND seat_number = ? AND ticket_id = ?`, tripID, seatNumber, ticketID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseAllByTripTx frees every booked seat of a trip in one statement.
// Used by the trip cancellation cascade.
func (r TripSeatRepository) ReleaseAllByTripTx(ctx context.Context, tx *sql.Tx, tripID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE trip_seats
		SET is_booked = 0, ticket_id = NULL
		WHERE trip_id = ? AND is_booked = 1`, tripID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SeatExistsTx reports whether the seat row exists, under the current tx.
func (r TripSeatRepository) SeatExistsTx(ctx context.Context, tx *sql.Tx, tripID int64, seatNumber string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `
		SELECT 1 FROM trip_seats WHERE trip_id = ? AND seat_number = ?`, tripID, seatNumber).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

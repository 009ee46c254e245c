package repositories

import (
	"context"
	"database/sql"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

type TicketRepository struct {
	DB *sql.DB
}

func (r TicketRepository) GetByID(ctx context.Context, id int64) (models.Ticket, error) {
	var t models.Ticket
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, code, user_id, trip_id, pickup_stop_id, dropoff_stop_id, seat_number, price, status, created_at, updated_at
		FROM tickets
		WHERE id = ?`, id).Scan(
		&t.ID, &t.Code, &t.UserID, &t.TripID, &t.PickupStopID, &t.DropoffStopID,
		&t.SeatNumber, &t.Price, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

func (r TicketRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.Ticket, error) {
	return r.list(ctx, `WHERE trip_id = ?`, tripID)
}

func (r TicketRepository) ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

func (r TicketRepository) ListAll(ctx context.Context) ([]models.Ticket, error) {
	return r.list(ctx, ``)
}

func (r TicketRepository) list(ctx context.Context, where string, args ...any) ([]models.Ticket, error) {
	query := `
		SELECT id, code, user_id, trip_id, pickup_stop_id, dropoff_stop_id, seat_number, price, status, created_at, updated_at
		FROM tickets ` + where + ` ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(
			&t.ID, &t.Code, &t.UserID, &t.TripID, &t.PickupStopID, &t.DropoffStopID,
			&t.SeatNumber, &t.Price, &t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertTx creates the ticket row inside the reservation transaction.
func (r TicketRepository) InsertTx(ctx context.Context, tx *sql.Tx, t models.Ticket) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO tickets (code, user_id, trip_id, pickup_stop_id, dropoff_stop_id, seat_number, price, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Code, t.UserID, t.TripID, t.PickupStopID, t.DropoffStopID, t.SeatNumber, t.Price, t.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetForUpdateTx locks the ticket row for the duration of the tx.
func (r TicketRepository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id int64) (models.Ticket, error) {
	var t models.Ticket
	err := tx.QueryRowContext(ctx, `
		SELECT id, code, user_id, trip_id, pickup_stop_id, dropoff_stop_id, seat_number, price, status, created_at, updated_at
		FROM tickets
		WHERE id = ?
		FOR UPDATE`, id).Scan(
		&t.ID, &t.Code, &t.UserID, &t.TripID, &t.PickupStopID, &t.DropoffStopID,
		&t.SeatNumber, &t.Price, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

// UpdateStatusCondTx moves status only when the current status matches.
// Returns rows affected so the caller can tell a lost race from success.
func (r TicketRepository) UpdateStatusCondTx(ctx context.Context, tx *sql.Tx, id int64, from, to models.TicketStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE tickets SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BulkMoveByTripTx moves every ticket of a trip from one status to
// another in a single statement; used by lifecycle cascades.
func (r TicketRepository) BulkMoveByTripTx(ctx context.Context, tx *sql.Tx, tripID int64, from, to models.TicketStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE tickets SET status = ? WHERE trip_id = ? AND status = ?`, to, tripID, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertPaymentTx appends a payment row under the caller's transaction.
// Refunds are stored as negative amounts.
func (r TicketRepository) InsertPaymentTx(ctx context.Context, tx *sql.Tx, p models.Payment) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO payments (ticket_id, amount, method)
		VALUES (?, ?, ?)`, p.TicketID, p.Amount, p.Method)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TicketRepository) ListPayments(ctx context.Context, ticketID int64) ([]models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, ticket_id, amount, method, paid_at
		FROM payments
		WHERE ticket_id = ?
		ORDER BY id ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.TicketID, &p.Amount, &p.Method, &p.PaidAt); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumPaymentsTx totals recorded payments under the current tx, so the
// refund ceiling check and the status move see the same snapshot.
func (r TicketRepository) SumPaymentsTx(ctx context.Context, tx *sql.Tx, ticketID int64) (int64, error) {
	var total int64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE ticket_id = ?`, ticketID).Scan(&total)
	return total, err
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	var t models.Trip
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, vehicle_id, driver_id, status, note, created_at, updated_at
		FROM trips
		WHERE id = ?`, id).Scan(&t.ID, &t.VehicleID, &t.DriverID, &t.Status, &t.Note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Trip{}, err
	}
	stops, err := r.ListStops(ctx, id)
	if err != nil {
		return models.Trip{}, err
	}
	t.Stops = stops
	return t, nil
}

func (r TripRepository) List(ctx context.Context, status string) ([]models.Trip, error) {
	query := `
		SELECT id, vehicle_id, driver_id, status, note, created_at, updated_at
		FROM trips`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.DriverID, &t.Status, &t.Note, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts the trip and its stops in one transaction. Stop order
// must already be validated as strictly increasing by the caller.
func (r TripRepository) Create(ctx context.Context, t models.Trip) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO trips (vehicle_id, driver_id, status, note)
		VALUES (?, ?, ?, ?)`, t.VehicleID, t.DriverID, models.TripUpcoming, t.Note)
	if err != nil {
		return 0, err
	}
	tripID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trip_stops (trip_id, location_id, stop_order, arrives_at, departs_at, kind)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, s := range t.Stops {
		if _, err := stmt.ExecContext(ctx, tripID, s.LocationID, s.StopOrder, s.ArrivesAt, s.DepartsAt, s.Kind); err != nil {
			return 0, fmt.Errorf("insert stop order %d: %w", s.StopOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return tripID, nil
}

func (r TripRepository) Update(ctx context.Context, id int64, driverID int64, note string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE trips
		SET driver_id = ?, note = ?
		WHERE id = ?`, driverID, note, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// Delete removes a trip and, via FK cascade, its stops and seats. Only
// trips without tickets should reach this point; the handler checks.
func (r TripRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r TripRepository) CountTickets(ctx context.Context, tripID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE trip_id = ?`, tripID).Scan(&n)
	return n, err
}

func (r TripRepository) ListStops(ctx context.Context, tripID int64) ([]models.TripStop, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, trip_id, location_id, stop_order, arrives_at, departs_at, kind
		FROM trip_stops
		WHERE trip_id = ?
		ORDER BY stop_order ASC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TripStop{}
	for rows.Next() {
		var s models.TripStop
		var arrives, departs sql.NullTime
		if err := rows.Scan(&s.ID, &s.TripID, &s.LocationID, &s.StopOrder, &arrives, &departs, &s.Kind); err != nil {
			return out, err
		}
		if arrives.Valid {
			t := arrives.Time
			s.ArrivesAt = &t
		}
		if departs.Valid {
			t := departs.Time
			s.DepartsAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStatusForUpdate reads the trip status under a row lock so the
// booking ledger's status gate cannot race a lifecycle transition.
func (r TripRepository) GetStatusForUpdate(ctx context.Context, tx *sql.Tx, tripID int64) (models.TripStatus, error) {
	var status models.TripStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM trips WHERE id = ? FOR UPDATE`, tripID).Scan(&status)
	return status, err
}

func (r TripRepository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, tripID int64, status models.TripStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE trips SET status = ? WHERE id = ?`, status, tripID)
	return err
}

// PricePerSeatTx resolves the trip's snapshot price from its vehicle
// type, under the reservation transaction.
func (r TripRepository) PricePerSeatTx(ctx context.Context, tx *sql.Tx, tripID int64) (int64, error) {
	var price int64
	err := tx.QueryRowContext(ctx, `
		SELECT vt.price_per_seat
		FROM trips t
		JOIN vehicles v ON v.id = t.vehicle_id
		JOIN vehicle_types vt ON vt.id = v.vehicle_type_id
		WHERE t.id = ?`, tripID).Scan(&price)
	return price, err
}

// StopsOnTrip loads two stops of the trip keyed by id, in one query.
// Missing stops come back as zero-valued entries.
func (r TripRepository) StopsOnTrip(ctx context.Context, tx *sql.Tx, tripID, pickupStopID, dropoffStopID int64) (pickup, dropoff models.TripStop, err error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, trip_id, location_id, stop_order, kind
		FROM trip_stops
		WHERE trip_id = ? AND id IN (?, ?)`, tripID, pickupStopID, dropoffStopID)
	if err != nil {
		return pickup, dropoff, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.TripStop
		if err := rows.Scan(&s.ID, &s.TripID, &s.LocationID, &s.StopOrder, &s.Kind); err != nil {
			return pickup, dropoff, err
		}
		if s.ID == pickupStopID {
			pickup = s
		}
		if s.ID == dropoffStopID {
			dropoff = s
		}
	}
	return pickup, dropoff, rows.Err()
}

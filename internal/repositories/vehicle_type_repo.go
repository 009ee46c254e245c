package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

type VehicleTypeRepository struct {
	DB *sql.DB
}

func (r VehicleTypeRepository) GetByID(ctx context.Context, id int64) (models.VehicleType, error) {
	var vt models.VehicleType
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, seat_capacity, price_per_seat
		FROM vehicle_types
		WHERE id = ?`, id).Scan(&vt.ID, &vt.Name, &vt.SeatCapacity, &vt.PricePerSeat)
	if err != nil {
		return models.VehicleType{}, err
	}
	return vt, nil
}

func (r VehicleTypeRepository) List(ctx context.Context) ([]models.VehicleType, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, seat_capacity, price_per_seat
		FROM vehicle_types
		ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.VehicleType{}
	for rows.Next() {
		var vt models.VehicleType
		if err := rows.Scan(&vt.ID, &vt.Name, &vt.SeatCapacity, &vt.PricePerSeat); err != nil {
			return out, err
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}

func (r VehicleTypeRepository) Create(ctx context.Context, vt models.VehicleType) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO vehicle_types (name, seat_capacity, price_per_seat)
		VALUES (?, ?, ?)`, vt.Name, vt.SeatCapacity, vt.PricePerSeat)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleTypeRepository) Update(ctx context.Context, vt models.VehicleType) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicle_types
		SET name = ?, seat_capacity = ?, price_per_seat = ?
		WHERE id = ?`, vt.Name, vt.SeatCapacity, vt.PricePerSeat, vt.ID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r VehicleTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicle_types WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// ListTemplate returns the seat template ordered by row then column.
func (r VehicleTypeRepository) ListTemplate(ctx context.Context, vehicleTypeID int64) ([]models.SeatTemplateEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, vehicle_type_id, seat_number, seat_row, seat_col, default_available
		FROM seat_template_entries
		WHERE vehicle_type_id = ?
		ORDER BY seat_row ASC, seat_col ASC, seat_number ASC`, vehicleTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeatTemplateEntry{}
	for rows.Next() {
		var e models.SeatTemplateEntry
		if err := rows.Scan(&e.ID, &e.VehicleTypeID, &e.SeatNumber, &e.Row, &e.Col, &e.DefaultAvailable); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountTemplate returns how many template entries the vehicle type has.
func (r VehicleTypeRepository) CountTemplate(ctx context.Context, vehicleTypeID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM seat_template_entries WHERE vehicle_type_id = ?`, vehicleTypeID).Scan(&n)
	return n, err
}

// ReplaceTemplate swaps the whole seat template in one transaction. The
// unique key on (vehicle_type_id, seat_number) rejects duplicate seats.
func (r VehicleTypeRepository) ReplaceTemplate(ctx context.Context, vehicleTypeID int64, entries []models.SeatTemplateEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_template_entries WHERE vehicle_type_id = ?`, vehicleTypeID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seat_template_entries (vehicle_type_id, seat_number, seat_row, seat_col, default_available)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, vehicleTypeID, e.SeatNumber, e.Row, e.Col, e.DefaultAvailable); err != nil {
			return fmt.Errorf("insert template seat %s: %w", e.SeatNumber, err)
		}
	}

	return tx.Commit()
}

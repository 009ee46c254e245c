package repositories

import (
	"context"
	"database/sql"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	var v models.Vehicle
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, plate_number, vehicle_type_id
		FROM vehicles
		WHERE id = ?`, id).Scan(&v.ID, &v.PlateNumber, &v.VehicleTypeID)
	if err != nil {
		return models.Vehicle{}, err
	}
	return v, nil
}

func (r VehicleRepository) List(ctx context.Context, q string) ([]models.Vehicle, error) {
	query := `
		SELECT id, plate_number, vehicle_type_id
		FROM vehicles`
	args := []any{}
	if q != "" {
		query += ` WHERE plate_number LIKE ?`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.VehicleTypeID); err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO vehicles (plate_number, vehicle_type_id)
		VALUES (?, ?)`, v.PlateNumber, v.VehicleTypeID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vehicles
		SET plate_number = ?, vehicle_type_id = ?
		WHERE id = ?`, v.PlateNumber, v.VehicleTypeID, v.ID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r VehicleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// CountActiveTrips counts trips of the vehicle that are not completed or
// cancelled. A vehicle with active trips must not be deleted.
func (r VehicleRepository) CountActiveTrips(ctx context.Context, vehicleID int64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM trips
		WHERE vehicle_id = ? AND status NOT IN ('completed', 'cancelled')`, vehicleID).Scan(&n)
	return n, err
}

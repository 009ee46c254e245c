package repositories

import (
	"context"
	"database/sql"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

type LocationRepository struct {
	DB *sql.DB
}

func (r LocationRepository) GetByID(ctx context.Context, id int64) (models.Location, error) {
	var l models.Location
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, city, address
		FROM locations
		WHERE id = ?`, id).Scan(&l.ID, &l.Name, &l.City, &l.Address)
	if err != nil {
		return models.Location{}, err
	}
	return l, nil
}

func (r LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, city, address
		FROM locations
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Location{}
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.City, &l.Address); err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r LocationRepository) Create(ctx context.Context, l models.Location) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO locations (name, city, address)
		VALUES (?, ?, ?)`, l.Name, l.City, l.Address)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r LocationRepository) Update(ctx context.Context, l models.Location) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE locations
		SET name = ?, city = ?, address = ?
		WHERE id = ?`, l.Name, l.City, l.Address, l.ID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r LocationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

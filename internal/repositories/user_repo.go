package repositories

import (
	"context"
	"database/sql"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

// GetByLogin matches either email or username, for the login form.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE email = ? OR username = ?`, login, login).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE id = ?`, id).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, status, created_at, updated_at
		FROM users
		ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
			&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) CountByLogin(ctx context.Context, email, username string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`, email, username).Scan(&n)
	return n, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, username, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) Update(ctx context.Context, u models.User) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users
		SET name = ?, phone = ?, role = ?, status = ?
		WHERE id = ?`, u.Name, u.Phone, u.Role, u.Status, u.ID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

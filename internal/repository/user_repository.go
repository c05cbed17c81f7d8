package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quicktickets/backend/internal/model"
)

// UserRepo provides CRUD operations on the users table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, first_name, last_name, email, password_hash, phone, state, country, role, is_subscribed, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Phone, &u.State, &u.Country, &u.Role, &u.IsSubscribed, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. The ID is generated here and written back
// onto the record. A duplicate email yields ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO users (id, first_name, last_name, email, password_hash, phone, state, country, role, is_subscribed, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.FirstName, u.LastName, u.Email,
		u.PasswordHash, u.Phone, u.State, u.Country, u.Role, u.IsSubscribed, true)
	if err != nil {
		// 1062 = duplicate entry; matching on the message avoids a
		// driver-specific error type in the signature.
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrEmailTaken
		}
		return err
	}
	u.IsActive = true
	return nil
}

// GetByID returns a user by primary key or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByEmail returns a user by email or ErrUserNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile updates the mutable profile columns of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	const q = `UPDATE users SET first_name = ?, last_name = ?, phone = ?, state = ?, country = ?, is_subscribed = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, u.FirstName, u.LastName, u.Phone, u.State, u.Country, u.IsSubscribed, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; confirm existence.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE users SET password_hash = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, passwordHash, id)
	return err
}

// Deactivate soft-deletes a user by clearing is_active. Login is denied
// for inactive accounts; the row itself remains.
func (r *UserRepo) Deactivate(ctx context.Context, id string) error {
	const q = `UPDATE users SET is_active = 0 WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user permanently. Admin accounts cannot be deleted.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == model.RoleAdmin {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

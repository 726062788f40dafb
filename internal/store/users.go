package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/rewear/internal/model"
)

const userColumns = `id, email, full_name, password_hash, role, points, created_at, suspended_at, deleted_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.Points,
		&u.CreatedAt, &u.SuspendedAt, &u.DeletedAt)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser creates a new user.
func CreateUser(ctx context.Context, db DBTX, email, fullName, passwordHash, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, full_name, password_hash, role) VALUES (?, ?, ?, ?)`,
		NormalizeEmail(email), fullName, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db DBTX, id int64) (*model.User, error) {
	u := &model.User{}
	err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	), u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns the non-deleted user with the given email.
func GetUserByEmail(ctx context.Context, db DBTX, email string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, NormalizeEmail(email),
	), u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db DBTX) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db DBTX, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// SetUserSuspended suspends or reinstates a user.
func SetUserSuspended(ctx context.Context, db DBTX, id int64, suspended bool) error {
	query := `UPDATE users SET suspended_at = NULL WHERE id = ? AND deleted_at IS NULL`
	if suspended {
		query = `UPDATE users SET suspended_at = COALESCE(suspended_at, CURRENT_TIMESTAMP) WHERE id = ? AND deleted_at IS NULL`
	}
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("setting user suspension: %w", err)
	}
	return nil
}

// AddUserPoints adjusts a user's points balance by delta.
func AddUserPoints(ctx context.Context, db DBTX, id int64, delta int) error {
	if delta == 0 {
		return nil
	}
	_, err := db.ExecContext(ctx,
		`UPDATE users SET points = points + ? WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("adjusting user points: %w", err)
	}
	return nil
}

// CountUsers returns the number of non-deleted users.
func CountUsers(ctx context.Context, db DBTX) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

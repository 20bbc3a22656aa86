package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"greep/internal/core"
)

// Credentials pairs a user with its stored password hash for login checks.
// The hash never leaves this package through any other query.
type Credentials struct {
	User         core.User
	PasswordHash string
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, tier, active, can_login, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, string(u.Role), string(u.Tier),
		boolToInt(u.Active), boolToInt(u.CanLogin), formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, u core.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, role = ?, tier = ?, active = ?, can_login = ?
		WHERE id = ?`,
		u.Name, u.Email, string(u.Role), string(u.Tier),
		boolToInt(u.Active), boolToInt(u.CanLogin), u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRowAffected(res, "user")
}

func (r *SQLiteRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRowAffected(res, "user")
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, tier, active, can_login, created_at
		FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, role, tier, active, can_login, created_at
		FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetCredentialsByEmail fetches a login-enabled user and its password hash.
func (r *SQLiteRepository) GetCredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, tier, active, can_login, created_at, password_hash
		FROM users WHERE email = ? AND can_login = 1`, email)

	var c Credentials
	var role, tier, createdAt string
	var active, canLogin int64
	err := row.Scan(&c.User.ID, &c.User.Name, &c.User.Email, &role, &tier,
		&active, &canLogin, &createdAt, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Credentials{}, fmt.Errorf("get credentials: %w", ErrNotFound)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("get credentials: %w", err)
	}
	c.User.Role = core.Role(role)
	c.User.Tier = core.Tier(tier)
	c.User.Active = active == 1
	c.User.CanLogin = canLogin == 1
	c.User.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (r *SQLiteRepository) SetUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, can_login = 1 WHERE id = ?`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("set user password: %w", err)
	}
	return requireRowAffected(res, "user")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	var role, tier, createdAt string
	var active, canLogin int64
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &tier, &active, &canLogin, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, err
	}
	u.Role = core.Role(role)
	u.Tier = core.Tier(tier)
	u.Active = active == 1
	u.CanLogin = canLogin == 1
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

func requireRowAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}

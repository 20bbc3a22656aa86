package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"greep/internal/auth"
	"greep/internal/core"
	"greep/internal/storage"
)

// Users returns the full user collection, cache-first.
func (s *TrackerService) Users(ctx context.Context) ([]core.User, error) {
	if users, ok := s.users.All(); ok {
		return users, nil
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	s.users.Replace(users)
	return users, nil
}

func (s *TrackerService) GetUser(ctx context.Context, id string) (core.User, error) {
	if u, ok := s.users.Get(id); ok {
		return u, nil
	}
	return s.store.GetUser(ctx, id)
}

func (s *TrackerService) CreateUser(ctx context.Context, u core.User, actor string) (core.User, error) {
	if u.ID == "" {
		u.ID = s.newID()
	}
	u.CreatedAt = s.now()
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		s.users.Invalidate()
		return core.User{}, err
	}
	s.users.Put(u)
	s.publishChange(ctx, "user", u.ID, "create", actor)
	return u, nil
}

func (s *TrackerService) UpdateUser(ctx context.Context, u core.User, actor string) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	current, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return core.User{}, err
	}
	u.CreatedAt = current.CreatedAt

	if err := s.store.UpdateUser(ctx, u); err != nil {
		s.users.Invalidate()
		return core.User{}, err
	}
	s.users.Put(u)
	s.publishChange(ctx, "user", u.ID, "update", actor)
	return u, nil
}

func (s *TrackerService) DeleteUser(ctx context.Context, id, actor string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		s.users.Invalidate()
		return err
	}
	s.users.Delete(id)
	s.publishChange(ctx, "user", id, "delete", actor)
	return nil
}

// ToggleUserActive flips the active flag. Inactive users keep their records
// but drop out of the dashboard eligibility counts.
func (s *TrackerService) ToggleUserActive(ctx context.Context, id, actor string) (core.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return core.User{}, err
	}
	u.Active = !u.Active

	if err := s.store.UpdateUser(ctx, u); err != nil {
		s.users.Invalidate()
		return core.User{}, err
	}
	s.users.Put(u)
	s.publishChange(ctx, "user", id, "update", actor)
	return u, nil
}

// SetUserPassword hashes and stores a password, enabling login for the user.
func (s *TrackerService) SetUserPassword(ctx context.Context, id, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.SetUserPassword(ctx, id, hash); err != nil {
		s.users.Invalidate()
		return err
	}
	s.users.Invalidate()
	return nil
}

// Authenticate verifies an email and password pair for login. Only active
// admins may hold a session; other accounts are rejected even with valid
// credentials.
func (s *TrackerService) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	creds, err := s.store.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return core.User{}, auth.ErrInvalidCredentials
		}
		return core.User{}, err
	}
	if err := auth.VerifyPassword(creds.PasswordHash, password); err != nil {
		return core.User{}, err
	}
	if creds.User.Role != core.RoleAdmin || !creds.User.Active {
		slog.WarnContext(ctx, "Login rejected for non-admin or inactive account",
			"email", email, "role", creds.User.Role, "active", creds.User.Active)
		return core.User{}, auth.ErrInvalidCredentials
	}
	return creds.User, nil
}

// EnsureAdmin bootstraps a login-enabled admin account on first start. It is
// a no-op when the configured email already has credentials or when no
// email/password pair is configured.
func (s *TrackerService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		slog.InfoContext(ctx, "No bootstrap admin configured, skipping")
		return nil
	}

	_, err := s.store.GetCredentialsByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check bootstrap admin: %w", err)
	}

	admin := core.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Role:      core.RoleAdmin,
		Active:    true,
		CanLogin:  true,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	if err := s.SetUserPassword(ctx, admin.ID, password); err != nil {
		return fmt.Errorf("set bootstrap admin password: %w", err)
	}

	slog.InfoContext(ctx, "Bootstrap admin created", "email", email)
	return nil
}

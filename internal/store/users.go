package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a dashboard login. Only the password hash is stored.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUser stores a user, or replaces the password hash when the email is
// already registered. Emails compare case-insensitively.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || passwordHash == "" {
		return nil, errors.New("create user: email and password hash required")
	}
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash`,
		uuid.NewString(), email, passwordHash, formatTime(s.now()),
	); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.UserByEmail(ctx, email)
}

// UserByEmail looks a user up. A missing user returns nil, nil.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	var (
		user       User
		createdRaw string
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		strings.TrimSpace(email),
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user by email: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		user.CreatedAt = created
	}
	return &user, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

package leads

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"leadradar/internal/auth"
	"leadradar/internal/logging"
	"leadradar/internal/services"
)

var errInvalidCredentials = fmt.Errorf("%w: Invalid credentials", services.ErrUnauthorized)

// UserView is the public part of a user.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, services.Validation("Email and password are required")
	}
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, services.Wrap(services.ErrTransient, "leads", "login", "", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "login rejected", "login_failed",
			logging.String("email", email),
			logging.String(logging.FieldErrorHint, "check the email and password"),
			logging.String(logging.FieldImpact, "no session issued"),
		)
		return LoginResult{}, errInvalidCredentials
	}
	return LoginResult{
		Success: true,
		Token:   s.tokens.Issue(user.Email),
		User:    UserView{ID: user.ID, Email: user.Email},
	}, nil
}

// Authenticate verifies a session token.
func (s *Service) Authenticate(token string) (auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return claims, fmt.Errorf("%w: Session expired", services.ErrUnauthorized)
		}
		return claims, fmt.Errorf("%w: Invalid token", services.ErrUnauthorized)
	}
	return claims, nil
}

// EnsureUser creates or updates a login with a freshly hashed password.
func (s *Service) EnsureUser(ctx context.Context, email, password string) (UserView, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return UserView{}, services.Validation("Email and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return UserView{}, services.Wrap(services.ErrValidation, "leads", "user", "hash password", err)
	}
	user, err := s.store.CreateUser(ctx, email, hash)
	if err != nil {
		return UserView{}, services.Wrap(services.ErrTransient, "leads", "user", "", err)
	}
	return UserView{ID: user.ID, Email: user.Email}, nil
}

// EnsureAdmin provisions the bootstrap admin when both values are set.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	user, err := s.EnsureUser(ctx, email, password)
	if err != nil {
		return err
	}
	s.logger.Info("admin account ready", logging.String("email", user.Email))
	return nil
}

const usageResetMessage = "Daily scrape counter reset to 0"

// ResetUsage zeroes today's scrape counter. bearer must equal the configured
// cron secret; an unset secret rejects every call.
func (s *Service) ResetUsage(ctx context.Context, bearer string) (string, error) {
	if s.cronSecret == "" || subtle.ConstantTimeCompare([]byte(bearer), []byte(s.cronSecret)) != 1 {
		return "", fmt.Errorf("%w: Unauthorized", services.ErrUnauthorized)
	}
	if err := s.store.ResetScrapes(ctx, s.now()); err != nil {
		return "", services.Wrap(services.ErrTransient, "leads", "reset usage", "", err)
	}
	s.logger.Info("scrape counter reset")
	return usageResetMessage, nil
}

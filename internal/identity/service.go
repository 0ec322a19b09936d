// Package identity handles account registration, login and profile
// settings. Passwords are stored as bcrypt hashes only.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/currency"
	"fintrack/internal/storage"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUnsupportedCurrency = errors.New("unsupported currency code")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrInvalidEmail        = errors.New("invalid email address")
)

type Service struct {
	users storage.UserStore
}

func NewService(users storage.UserStore) *Service {
	return &Service{users: users}
}

// Register creates an account. An empty currencyCode defaults to USD.
// The returned user never carries the password hash.
func (s *Service) Register(ctx context.Context, email, password, name, currencyCode string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return core.User{}, ErrInvalidEmail
	}
	if len(password) < 6 {
		return core.User{}, ErrPasswordTooShort
	}
	if currencyCode == "" {
		currencyCode = "USD"
	}
	if !currency.Supports(currencyCode) {
		return core.User{}, ErrUnsupportedCurrency
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := core.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Currency:     currencyCode,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return core.User{}, err
	}
	return sanitize(u), nil
}

// Login verifies credentials. Unknown emails and wrong passwords both
// come back as ErrInvalidCredentials so the response does not reveal
// which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return core.User{}, ErrInvalidCredentials
	}
	if u.Currency == "" {
		u.Currency = "USD"
	}
	return sanitize(u), nil
}

// Get returns a user's profile without credentials.
func (s *Service) Get(ctx context.Context, userID string) (core.User, error) {
	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return core.User{}, err
	}
	if u.Currency == "" {
		u.Currency = "USD"
	}
	return sanitize(u), nil
}

// UpdateCurrency switches a user's display currency.
func (s *Service) UpdateCurrency(ctx context.Context, userID, currencyCode string) (core.User, error) {
	if !currency.Supports(currencyCode) {
		return core.User{}, ErrUnsupportedCurrency
	}

	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return core.User{}, err
	}
	u.Currency = currencyCode
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	return sanitize(u), nil
}

func sanitize(u core.User) core.User {
	u.PasswordHash = ""
	return u
}

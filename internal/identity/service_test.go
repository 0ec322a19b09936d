package identity

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/storage"
)

func newService() *Service {
	return NewService(storage.NewMemoryStore())
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newService()

	u, err := s.Register(ctx, "Ada@Example.com", "hunter22", "Ada", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == "" {
		t.Error("registered user has no ID")
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.Currency != "USD" {
		t.Errorf("currency = %q, want default USD", u.Currency)
	}
	if u.PasswordHash != "" {
		t.Error("password hash leaked in register response")
	}

	got, err := s.Login(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("login user ID = %q, want %q", got.ID, u.ID)
	}
	if got.PasswordHash != "" {
		t.Error("password hash leaked in login response")
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	s := newService()

	tests := []struct {
		name     string
		email    string
		password string
		currency string
		wantErr  error
	}{
		{"bad email", "nope", "hunter22", "", ErrInvalidEmail},
		{"short password", "a@b.com", "12345", "", ErrPasswordTooShort},
		{"unknown currency", "a@b.com", "hunter22", "DOGE", ErrUnsupportedCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Register(ctx, tt.email, tt.password, "X", tt.currency); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newService()

	if _, err := s.Register(ctx, "ada@example.com", "hunter22", "Ada", "EUR"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.Register(ctx, "ADA@example.com", "other-pass", "Imposter", ""); !errors.Is(err, storage.ErrEmailTaken) {
		t.Errorf("duplicate register err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	s := newService()

	if _, err := s.Register(ctx, "ada@example.com", "hunter22", "Ada", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := s.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(ctx, "ghost@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUpdateCurrency(t *testing.T) {
	ctx := context.Background()
	s := newService()

	u, err := s.Register(ctx, "ada@example.com", "hunter22", "Ada", "USD")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := s.UpdateCurrency(ctx, u.ID, "EUR")
	if err != nil {
		t.Fatalf("UpdateCurrency: %v", err)
	}
	if updated.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", updated.Currency)
	}

	if _, err := s.UpdateCurrency(ctx, u.ID, "DOGE"); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Errorf("unknown currency err = %v, want ErrUnsupportedCurrency", err)
	}

	again, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Currency != "EUR" {
		t.Errorf("persisted currency = %q, want EUR", again.Currency)
	}
}

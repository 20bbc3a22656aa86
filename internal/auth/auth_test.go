package auth

import (
	"errors"
	"testing"
	"time"

	"greep/internal/core"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)

	user := core.User{ID: "u1", Email: "admin@example.com", Role: core.RoleAdmin}
	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "admin@example.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	other := NewJWTManager("fedcba9876543210", time.Hour)

	token, err := m.Generate(core.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: got %v, want ErrInvalidToken", err)
	}
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", -time.Minute)

	token, err := m.Generate(core.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestJWTGarbage(t *testing.T) {
	m := NewJWTManager("0123456789abcdef", time.Hour)
	if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: got %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the password")
	}

	if err := VerifyPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestWeakPasswordRejected(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("got %v, want ErrWeakPassword", err)
	}
}

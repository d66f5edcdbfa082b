package token

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("secret", time.Minute)

	signed, expiresAt, err := m.Generate("teacher@school.org", "Approved")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "teacher@school.org" || claims.Role != "Approved" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	signed, _, err := NewManager("one", time.Minute).Generate("a@x.com", "Approved")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := NewManager("two", time.Minute).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.ttl = -time.Minute

	signed, _, err := m.Generate("a@x.com", "Approved")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

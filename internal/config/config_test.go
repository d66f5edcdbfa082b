package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OTP_TTL", "")
	t.Setenv("PRESIGN_TTL", "")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://lounge.example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("expected 10m otp ttl, got %v", cfg.OTPTTL)
	}
	if cfg.PresignTTL != time.Hour {
		t.Fatalf("expected 1h presign ttl, got %v", cfg.PresignTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://lounge.example.org" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("OTP_TTL", "ten minutes")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid OTP_TTL")
	}
}

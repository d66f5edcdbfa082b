package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type verifyInput struct {
	Email string `validate:"required,email"`
	OTP   string `validate:"required,len=6,numeric"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(verifyInput{Email: "not-an-email", OTP: "12ab56"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	msg := FormatValidationError(err)
	if !strings.Contains(msg, "Email must be a valid email") {
		t.Fatalf("missing email message in %q", msg)
	}
	if !strings.Contains(msg, "OTP must contain digits only") {
		t.Fatalf("missing otp message in %q", msg)
	}
}

func TestFormatValidationErrorPassesThroughOtherErrors(t *testing.T) {
	if got := FormatValidationError(errors.New("EOF")); got != "EOF" {
		t.Fatalf("expected raw message, got %q", got)
	}
}

package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"github.com/Justin66666/teachersLoungeBE/internal/modules/otp/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/mailer"
)

const mailSubject = "Your Teachers Lounge 2FA Code"

type OTPService interface {
	SendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

type otpService struct {
	store    repository.CodeStore
	sender   mailer.Sender
	ttl      time.Duration
	generate func() (string, error)
}

func NewOTPService(store repository.CodeStore, sender mailer.Sender, ttl time.Duration) OTPService {
	return &otpService{
		store:    store,
		sender:   sender,
		ttl:      ttl,
		generate: generateCode,
	}
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SendCode replaces any pending code for the email and mails the new one.
func (s *otpService) SendCode(ctx context.Context, email string) error {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return apperror.BadRequest("Email is required")
	}

	code, err := s.generate()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, email, code, s.ttl); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	text := fmt.Sprintf("Your 2-factor authentication code is: %s", code)
	html := fmt.Sprintf("<p>Your 2-factor authentication code is: <b>%s</b></p><p>It expires in %d minutes.</p>",
		code, int(s.ttl.Minutes()))
	if err := s.sender.Send(ctx, email, mailSubject, text, html); err != nil {
		return apperror.New(http.StatusInternalServerError, "Failed to send 2FA code", err)
	}
	return nil
}

func (s *otpService) VerifyCode(ctx context.Context, email, code string) error {
	email = entity.NormalizeEmail(email)
	if email == "" || code == "" {
		return apperror.BadRequest("Email and code are required")
	}

	ok, err := s.store.Consume(ctx, email, code)
	if err != nil {
		return fmt.Errorf("failed to check code: %w", err)
	}
	if !ok {
		return apperror.Unauthorized("Invalid code")
	}
	return nil
}

package otp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/otp/repository"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type sentMail struct {
	to, subject, text, html string
}

type recordingSender struct {
	sent []sentMail
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, subject, text, html string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{to, subject, text, html})
	return nil
}

func newRedisStore(t *testing.T) repository.CodeStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewRedisCodeStore(client)
}

func TestWrongCodeDoesNotConsume(t *testing.T) {
	sender := &recordingSender{}
	svc := NewOTPService(newRedisStore(t), sender, 10*time.Minute).(*otpService)
	svc.generate = func() (string, error) { return "482913", nil }
	ctx := context.Background()

	if err := svc.SendCode(ctx, "E@X.com"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "e@x.com" || mail.subject != "Your Teachers Lounge 2FA Code" {
		t.Fatalf("unexpected mail %+v", mail)
	}
	if !strings.Contains(mail.text, "482913") || !strings.Contains(mail.html, "<b>482913</b>") {
		t.Fatalf("code missing from mail bodies: %+v", mail)
	}

	err := svc.VerifyCode(ctx, "e@x.com", "000000")
	if apperror.MapErrorToStatus(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	if err := svc.VerifyCode(ctx, "e@x.com", "482913"); err != nil {
		t.Fatalf("correct code after a wrong attempt: %v", err)
	}
	if err := svc.VerifyCode(ctx, "e@x.com", "482913"); err == nil {
		t.Fatal("code must be consumed after a successful verify")
	}
}

func TestSendCodeMailFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewOTPService(repository.NewMemoryCodeStore(), sender, time.Minute)

	err := svc.SendCode(context.Background(), "e@x.com")
	if apperror.MapErrorToStatus(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if err.Error() != "Failed to send 2FA code" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSendCodeRequiresEmail(t *testing.T) {
	svc := NewOTPService(repository.NewMemoryCodeStore(), &recordingSender{}, time.Minute)

	if err := svc.SendCode(context.Background(), "   "); apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestGenerateCodeIsSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 || code[0] == '0' {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

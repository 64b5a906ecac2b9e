package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/notification/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/mail"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
)

type captureMail struct {
	sent []mail.Message
	err  error
}

func (c *captureMail) Send(_ context.Context, msg mail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func newUsecase(t *testing.T, m *captureMail) *Usecase {
	t.Helper()
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}
	uc, err := New(Dependency{RepoMail: m, Validator: v, Instrument: instrument.NewNoop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return uc
}

func TestSendEmail_OTP(t *testing.T) {
	// Arrange
	m := &captureMail{}
	uc := newUsecase(t, m)

	// Act
	ok := uc.SendEmail(context.Background(), SendEmailInput{
		Kind:    entity.KindOTP,
		To:      "ahmed@example.com",
		Name:    "Ahmed <b>",
		Purpose: "password_reset",
		Code:    "4821",
	})

	// Assert
	if !ok || len(m.sent) != 1 {
		t.Fatalf("SendEmail() = %v, sent %d", ok, len(m.sent))
	}
	got := m.sent[0]
	if got.Subject != "Reset your password" || got.To[0] != "ahmed@example.com" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if !strings.Contains(got.HTMLBody, "4821") || !strings.Contains(got.HTMLBody, "Ahmed &lt;b&gt;") {
		t.Fatalf("body not rendered or not escaped: %s", got.HTMLBody)
	}
}

func TestSendEmail_ProfileViews(t *testing.T) {
	m := &captureMail{}
	uc := newUsecase(t, m)
	at := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

	ok := uc.SendEmail(context.Background(), SendEmailInput{
		Kind:       entity.KindProfileViews,
		To:         "owner@example.com",
		ViewerName: "Mona",
		TotalViews: 6,
		ViewedAt:   []time.Time{at, at.Add(time.Hour)},
	})

	if !ok {
		t.Fatalf("SendEmail() = false")
	}
	body := m.sent[0].HTMLBody
	for _, want := range []string{"Mona", "6 times", "04 Mar 2026 09:30 UTC", "04 Mar 2026 10:30 UTC"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
}

func TestSendEmail_Failures(t *testing.T) {
	tests := []struct {
		name string
		in   SendEmailInput
		err  error
	}{
		{name: "unknown kind", in: SendEmailInput{Kind: "sms", To: "a@example.com"}},
		{name: "bad address", in: SendEmailInput{Kind: entity.KindOTP, To: "nope", Code: "1234"}},
		{name: "otp without code", in: SendEmailInput{Kind: entity.KindOTP, To: "a@example.com"}},
		{name: "smtp down", in: SendEmailInput{Kind: entity.KindOTP, To: "a@example.com", Code: "1234"}, err: errors.New("dial tcp: refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &captureMail{err: tt.err}
			uc := newUsecase(t, m)

			if uc.SendEmail(context.Background(), tt.in) {
				t.Fatalf("SendEmail() = true, want false")
			}
		})
	}
}

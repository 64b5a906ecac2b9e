package email

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	pkgmail "github.com/shandysiswandi/gosocial/internal/pkg/mail"
)

type captureMail struct {
	got pkgmail.Message
	err error
}

func (c *captureMail) Send(_ context.Context, msg pkgmail.Message) error {
	c.got = msg
	return c.err
}

func (c *captureMail) Close() error { return nil }

func TestSender_Send(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		msgFrom  string
		wantFrom string
		err      error
	}{
		{name: "display name", address: "no-reply@gosocial.dev", wantFrom: `"Gosocial" <no-reply@gosocial.dev>`},
		{name: "client default", wantFrom: ""},
		{name: "message wins", address: "no-reply@gosocial.dev", msgFrom: "ops@gosocial.dev", wantFrom: "ops@gosocial.dev"},
		{name: "client error", err: errors.New("smtp down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			client := &captureMail{err: tt.err}
			s := New(client, "Gosocial", tt.address, instrument.NewNoop())

			// Act
			err := s.Send(context.Background(), pkgmail.Message{From: tt.msgFrom, To: []string{"a@b.c"}})

			// Assert
			if !errors.Is(err, tt.err) {
				t.Fatalf("Send() error = %v, want %v", err, tt.err)
			}
			if tt.err == nil && client.got.From != tt.wantFrom {
				t.Fatalf("From = %q, want %q", client.got.From, tt.wantFrom)
			}
		})
	}
}

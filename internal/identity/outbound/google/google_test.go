package google

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"google.golang.org/api/idtoken"
)

type fakeValidator struct {
	payload  *idtoken.Payload
	err      error
	audience string
}

func (f *fakeValidator) Validate(_ context.Context, _, audience string) (*idtoken.Payload, error) {
	f.audience = audience
	return f.payload, f.err
}

func TestVerifier_Verify(t *testing.T) {
	tests := []struct {
		name     string
		payload  *idtoken.Payload
		err      error
		wantErr  error
		verified bool
	}{
		{
			name:     "bool verified",
			payload:  &idtoken.Payload{Subject: "s1", Claims: map[string]any{"email": "a@gmail.com", "email_verified": true, "name": "A"}},
			verified: true,
		},
		{
			name:     "string verified",
			payload:  &idtoken.Payload{Subject: "s1", Claims: map[string]any{"email": "a@gmail.com", "email_verified": "true"}},
			verified: true,
		},
		{
			name:    "no email",
			payload: &idtoken.Payload{Subject: "s1", Claims: map[string]any{}},
			wantErr: ErrEmailMissing,
		},
		{
			name:    "rejected",
			err:     errors.New("idtoken: audience provided does not match"),
			wantErr: errors.New("any"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			fv := &fakeValidator{payload: tt.payload, err: tt.err}
			g := &Verifier{validator: fv, clientID: "client-1", ins: instrument.NewNoop()}

			// Act
			got, err := g.Verify(context.Background(), "token")

			// Assert
			if fv.audience != "client-1" {
				t.Fatalf("audience = %q", fv.audience)
			}
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Verify() error = nil, want error")
				}
				if errors.Is(tt.wantErr, ErrEmailMissing) && !errors.Is(err, ErrEmailMissing) {
					t.Fatalf("Verify() error = %v, want %v", err, ErrEmailMissing)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got.EmailVerified != tt.verified || got.Email != "a@gmail.com" {
				t.Fatalf("unexpected identity: %+v", got)
			}
		})
	}
}

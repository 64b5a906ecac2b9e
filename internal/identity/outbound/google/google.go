// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var (
	ErrClientIDRequired = errors.New("google: client id is required")
	ErrEmailMissing     = errors.New("google: id token has no email claim")
)

type validator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

type Verifier struct {
	validator validator
	clientID  string
	ins       instrument.Instrumentation
}

func NewVerifier(ctx context.Context, clientID string, ins instrument.Instrumentation) (*Verifier, error) {
	if clientID == "" {
		return nil, ErrClientIDRequired
	}

	v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}))
	if err != nil {
		return nil, err
	}

	return &Verifier{validator: v, clientID: clientID, ins: ins}, nil
}

func (g *Verifier) Verify(ctx context.Context, token string) (*entity.GoogleIdentity, error) {
	ctx, span := g.ins.Tracer("identity.outbound.google").Start(ctx, "Verify")
	defer span.End()

	payload, err := g.validator.Validate(ctx, token, g.clientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*entity.GoogleIdentity, error) {
	email, _ := p.Claims["email"].(string)
	if email == "" {
		return nil, ErrEmailMissing
	}

	id := &entity.GoogleIdentity{Subject: p.Subject, Email: email}
	id.Name, _ = p.Claims["name"].(string)
	id.Picture, _ = p.Claims["picture"].(string)

	// google sends email_verified as a bool, older tokens as a string
	switch v := p.Claims["email_verified"].(type) {
	case bool:
		id.EmailVerified = v
	case string:
		id.EmailVerified = v == "true"
	}

	return id, nil
}

package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosocial/internal/notification/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/mail"
)

// codeLifetime is shown in otp emails.
const codeLifetime = "2 minutes"

type SendEmailInput struct {
	Kind entity.Kind `validate:"required,oneof=otp profile_views"`
	To   string      `validate:"required,email"`
	Name string

	Purpose string
	Code    string `validate:"required_if=Kind otp"`

	ViewerName string
	TotalViews int64
	ViewedAt   []time.Time
}

type otpData struct {
	Name      string
	Intro     string
	Code      string
	ExpiresIn string
}

type profileViewsData struct {
	Name       string
	ViewerName string
	TotalViews int64
	ViewedAt   []time.Time
}

var otpSubjects = map[string][2]string{
	"email_confirm":  {"Confirm your email", "Use this code to confirm your email address."},
	"password_reset": {"Reset your password", "Use this code to reset your password."},
	"two_factor":     {"Your sign-in code", "Use this code to finish signing in."},
	"email_change":   {"Confirm your new email", "Use this code to confirm your new email address."},
}

// SendEmail renders and sends one notification. Failures are logged and
// reported as false; callers never retry.
func (s *Usecase) SendEmail(ctx context.Context, in SendEmailInput) bool {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "invalid email notification", "kind", in.Kind, "error", err)
		return false
	}

	subject, body, err := s.render(in)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email notification", "kind", in.Kind, "error", err)
		return false
	}

	if err := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.To},
		Subject:  subject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send notification email", "kind", in.Kind, "to", in.To, "error", err)
		return false
	}

	slog.InfoContext(ctx, "notification email sent", "kind", in.Kind, "purpose", in.Purpose)
	return true
}

func (s *Usecase) render(in SendEmailInput) (subject, body string, err error) {
	var data any
	switch in.Kind {
	case entity.KindOTP:
		text, ok := otpSubjects[in.Purpose]
		if !ok {
			text = [2]string{"Your verification code", "Use this code to continue."}
		}
		subject = text[0]
		data = otpData{Name: in.Name, Intro: text[1], Code: in.Code, ExpiresIn: codeLifetime}
	case entity.KindProfileViews:
		subject = "Someone keeps viewing your profile"
		data = profileViewsData{
			Name:       in.Name,
			ViewerName: in.ViewerName,
			TotalViews: in.TotalViews,
			ViewedAt:   in.ViewedAt,
		}
	default:
		return "", "", fmt.Errorf("unknown email kind %q", in.Kind)
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, in.Kind.String()+".html", data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}

package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gosocial/internal/identity/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
)

type uc interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error)
	ConfirmEmail(ctx context.Context, in usecase.ConfirmEmailInput) error
	ResendEmailCode(ctx context.Context, in usecase.ResendEmailCodeInput) error

	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	LoginGoogle(ctx context.Context, in usecase.LoginGoogleInput) (*usecase.LoginOutput, error)
	LoginConfirm(ctx context.Context, in usecase.LoginConfirmInput) (*usecase.LoginOutput, error)
	Refresh(ctx context.Context, in usecase.RefreshInput) (*usecase.LoginOutput, error)

	EnableTwoFactor(ctx context.Context) error
	VerifyTwoFactor(ctx context.Context, in usecase.VerifyTwoFactorInput) error

	ForgotPassword(ctx context.Context, in usecase.ForgotPasswordInput) error
	ResetPassword(ctx context.Context, in usecase.ResetPasswordInput) error
}

const prefix = "/api/v1/identity"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Signup
	r.POST(prefix+"/signup", end.Signup)
	r.PATCH(prefix+"/confirm-email", end.ConfirmEmail)
	r.POST(prefix+"/resend-email-code", end.ResendEmailCode)

	// Sessions
	r.POST(prefix+"/login", end.Login)
	r.POST(prefix+"/login/google", end.LoginGoogle)
	r.POST(prefix+"/login/confirm", end.LoginConfirm)
	r.POST(prefix+"/refresh", end.Refresh)

	// Password
	r.POST(prefix+"/password/forgot", end.ForgotPassword)
	r.PATCH(prefix+"/password/reset", end.ResetPassword)

	// Two-factor (need authenticated)
	r.PATCH(prefix+"/two-factor/enable", end.EnableTwoFactor)
	r.POST(prefix+"/two-factor/verify", end.VerifyTwoFactor)

	for _, p := range []struct{ method, path string }{
		{http.MethodPost, "/signup"},
		{http.MethodPatch, "/confirm-email"},
		{http.MethodPost, "/resend-email-code"},
		{http.MethodPost, "/login"},
		{http.MethodPost, "/login/google"},
		{http.MethodPost, "/login/confirm"},
		{http.MethodPost, "/refresh"},
		{http.MethodPost, "/password/forgot"},
		{http.MethodPatch, "/password/reset"},
	} {
		r.Public(p.method, prefix+p.path)
	}
}

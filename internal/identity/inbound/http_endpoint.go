package inbound

import (
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/gosocial/internal/identity/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

// HTTPEndpoint exposes the signup, session and password flows.
type HTTPEndpoint struct {
	uc uc
}

// Signup reads a multipart form with an optional "image" file.
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	ctx := r.Context()

	if err := r.ParseMultipart(); err != nil {
		return nil, err
	}

	in := usecase.SignupInput{
		Name:     r.GetForm("name"),
		Email:    r.GetForm("email"),
		Password: r.GetForm("password"),
		Phone:    r.GetForm("phone"),
		Gender:   r.GetForm("gender"),
	}

	fhs, err := r.GetFiles("image", 1)
	if err != nil {
		return nil, err
	}
	if len(fhs) == 1 {
		file, err := upload.Open(fhs[0])
		if err != nil {
			return nil, goerror.NewInvalidFormat("Invalid image file")
		}
		defer func() {
			if err := file.Close(); err != nil {
				slog.ErrorContext(ctx, "failed to close file", "error", err)
			}
		}()
		in.Image = &file
	}

	resp, err := h.uc.Signup(ctx, in)
	if err != nil {
		return nil, err
	}

	return SignupResponse{ID: strconv.FormatInt(resp.ID, 10), Email: resp.Email}, nil
}

func (h *HTTPEndpoint) ConfirmEmail(r *router.Request) (any, error) {
	var req ConfirmEmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ConfirmEmail(r.Context(), usecase.ConfirmEmailInput{
		Email: req.Email,
		Code:  req.Code,
	}); err != nil {
		return nil, err
	}

	return ConfirmEmailResponse{}, nil
}

func (h *HTTPEndpoint) ResendEmailCode(r *router.Request) (any, error) {
	var req EmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResendEmailCode(r.Context(), usecase.ResendEmailCodeInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return CodeSentResponse{}, nil
}

func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return toLoginResponse(resp), nil
}

func (h *HTTPEndpoint) LoginGoogle(r *router.Request) (any, error) {
	var req LoginGoogleRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginGoogle(r.Context(), usecase.LoginGoogleInput{IDToken: req.IDToken})
	if err != nil {
		return nil, err
	}

	return toLoginResponse(resp), nil
}

func (h *HTTPEndpoint) LoginConfirm(r *router.Request) (any, error) {
	var req LoginConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.LoginConfirm(r.Context(), usecase.LoginConfirmInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return toLoginResponse(resp), nil
}

// Refresh takes the refresh token in the body as "<prefix> <token>".
func (h *HTTPEndpoint) Refresh(r *router.Request) (any, error) {
	var req RefreshRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Refresh(r.Context(), usecase.RefreshInput{Authorization: req.Authorization})
	if err != nil {
		return nil, err
	}

	return toLoginResponse(resp), nil
}

func (h *HTTPEndpoint) EnableTwoFactor(r *router.Request) (any, error) {
	if err := h.uc.EnableTwoFactor(r.Context()); err != nil {
		return nil, err
	}

	return CodeSentResponse{}, nil
}

func (h *HTTPEndpoint) VerifyTwoFactor(r *router.Request) (any, error) {
	var req VerifyTwoFactorRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyTwoFactor(r.Context(), usecase.VerifyTwoFactorInput{Code: req.Code}); err != nil {
		return nil, err
	}

	return TwoFactorResponse{}, nil
}

func (h *HTTPEndpoint) ForgotPassword(r *router.Request) (any, error) {
	var req EmailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ForgotPassword(r.Context(), usecase.ForgotPasswordInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return CodeSentResponse{}, nil
}

func (h *HTTPEndpoint) ResetPassword(r *router.Request) (any, error) {
	var req ResetPasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ResetPassword(r.Context(), usecase.ResetPasswordInput{
		Email:    req.Email,
		Code:     req.Code,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return ResetPasswordResponse{}, nil
}

func toLoginResponse(out *usecase.LoginOutput) LoginResponse {
	return LoginResponse{
		TwoFactorRequired: out.TwoFactorRequired,
		TokenType:         out.TokenType,
		AccessToken:       out.AccessToken,
		RefreshToken:      out.RefreshToken,
	}
}

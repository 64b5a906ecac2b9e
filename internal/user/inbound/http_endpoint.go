package inbound

import (
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"github.com/shandysiswandi/gosocial/internal/user/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) GetProfile(r *router.Request) (any, error) {
	out, err := h.uc.GetProfile(r.Context())
	if err != nil {
		return nil, err
	}

	return toProfileResponse(out), nil
}

// UpdateProfile reads a multipart form; an "image" file replaces the avatar.
func (h *HTTPEndpoint) UpdateProfile(r *router.Request) (any, error) {
	ctx := r.Context()

	if err := r.ParseMultipart(); err != nil {
		return nil, err
	}

	in := usecase.UpdateProfileInput{
		Name:   r.GetForm("name"),
		Gender: r.GetForm("gender"),
		Phone:  r.GetForm("phone"),
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

	out, err := h.uc.UpdateProfile(ctx, in)
	if err != nil {
		return nil, err
	}

	return toProfileResponse(out), nil
}

func (h *HTTPEndpoint) ViewProfile(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ViewProfile(r.Context(), usecase.ViewProfileInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toProfileResponse(out), nil
}

func (h *HTTPEndpoint) ChangePassword(r *router.Request) (any, error) {
	var req ChangePasswordRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ChangePassword(r.Context(), usecase.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return ChangePasswordResponse{}, nil
}

func (h *HTTPEndpoint) Block(r *router.Request) (any, error) {
	var req BlockRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Block(r.Context(), usecase.BlockInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return BlockResponse{msg: "User blocked"}, nil
}

func (h *HTTPEndpoint) Unblock(r *router.Request) (any, error) {
	var req BlockRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Unblock(r.Context(), usecase.BlockInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return BlockResponse{msg: "User unblocked"}, nil
}

func (h *HTTPEndpoint) ToggleFriend(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ToggleFriend(r.Context(), usecase.ToggleFriendInput{ID: id})
	if err != nil {
		return nil, err
	}

	return FriendToggleResponse{Friends: out.Friends}, nil
}

func (h *HTTPEndpoint) RequestEmailChange(r *router.Request) (any, error) {
	var req EmailChangeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.RequestEmailChange(r.Context(), usecase.RequestEmailChangeInput{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return nil, err
	}

	return EmailChangeRequestResponse{}, nil
}

func (h *HTTPEndpoint) ConfirmEmailChange(r *router.Request) (any, error) {
	var req EmailChangeConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.ConfirmEmailChange(r.Context(), usecase.ConfirmEmailChangeInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	return EmailChangeConfirmResponse{Email: out.Email}, nil
}

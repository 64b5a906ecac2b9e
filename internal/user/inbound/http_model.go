package inbound

import (
	"strconv"

	"github.com/shandysiswandi/gosocial/internal/user/usecase"
)

type FriendResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ProfileResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email,omitempty"`
	Name      string           `json:"name"`
	Gender    string           `json:"gender,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	AvatarURL string           `json:"avatar_url,omitempty"`
	Friends   []FriendResponse `json:"friends,omitempty"`
}

func toProfileResponse(out *usecase.ProfileOutput) ProfileResponse {
	resp := ProfileResponse{
		ID:        strconv.FormatInt(out.ID, 10),
		Email:     out.Email,
		Name:      out.Name,
		Gender:    string(out.Gender),
		Phone:     out.Phone,
		AvatarURL: out.AvatarURL,
	}
	for _, f := range out.Friends {
		resp.Friends = append(resp.Friends, FriendResponse{
			ID:        strconv.FormatInt(f.ID, 10),
			Name:      f.Name,
			AvatarURL: f.AvatarURL,
		})
	}
	return resp
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordResponse struct{}

func (ChangePasswordResponse) Message() string {
	return "Password changed. Please login again."
}

type BlockRequest struct {
	Email string `json:"email"`
}

type BlockResponse struct{ msg string }

func (r BlockResponse) Message() string { return r.msg }

type FriendToggleResponse struct {
	Friends bool `json:"friends"`
}

func (r FriendToggleResponse) Message() string {
	if r.Friends {
		return "Friend added"
	}
	return "Friend removed"
}

type EmailChangeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailChangeRequestResponse struct{}

func (EmailChangeRequestResponse) Message() string {
	return "Code sent to the new email address"
}

type EmailChangeConfirmRequest struct {
	Code string `json:"code"`
}

type EmailChangeConfirmResponse struct {
	Email string `json:"email"`
}

func (EmailChangeConfirmResponse) Message() string {
	return "Email changed. Please login again."
}

package inbound

import (
	"context"

	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/user/usecase"
)

type uc interface {
	GetProfile(ctx context.Context) (*usecase.ProfileOutput, error)
	UpdateProfile(ctx context.Context, in usecase.UpdateProfileInput) (*usecase.ProfileOutput, error)
	ViewProfile(ctx context.Context, in usecase.ViewProfileInput) (*usecase.ProfileOutput, error)
	ChangePassword(ctx context.Context, in usecase.ChangePasswordInput) error

	Block(ctx context.Context, in usecase.BlockInput) error
	Unblock(ctx context.Context, in usecase.BlockInput) error
	ToggleFriend(ctx context.Context, in usecase.ToggleFriendInput) (*usecase.ToggleFriendOutput, error)

	RequestEmailChange(ctx context.Context, in usecase.RequestEmailChangeInput) error
	ConfirmEmailChange(ctx context.Context, in usecase.ConfirmEmailChangeInput) (*usecase.ConfirmEmailChangeOutput, error)
}

// every endpoint needs an authenticated account
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/users/profile", end.GetProfile)
	r.PATCH("/api/v1/users/profile", end.UpdateProfile)
	r.PATCH("/api/v1/users/password", end.ChangePassword)
	r.GET("/api/v1/users/view/:id", end.ViewProfile)

	r.PATCH("/api/v1/users/block", end.Block)
	r.PATCH("/api/v1/users/unblock", end.Unblock)
	r.PATCH("/api/v1/users/friend/:id", end.ToggleFriend)

	r.PATCH("/api/v1/users/email/request", end.RequestEmailChange)
	r.PATCH("/api/v1/users/email", end.ConfirmEmailChange)
}

package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/shared/account"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"github.com/shandysiswandi/gosocial/internal/user/entity"
)

type ProfileOutput struct {
	ID        int64
	Email     string
	Name      string
	Gender    account.Gender
	Phone     string
	AvatarURL string
	Friends   []entity.Friend
}

func (s *Usecase) GetProfile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "GetProfile")
	defer span.End()

	acc, err := s.me(ctx)
	if err != nil {
		return nil, err
	}

	return s.ownProfile(ctx, acc)
}

func (s *Usecase) ownProfile(ctx context.Context, acc *entity.Account) (*ProfileOutput, error) {
	out := &ProfileOutput{
		ID:        acc.ID,
		Email:     acc.Email,
		Name:      acc.Name,
		Gender:    acc.Gender,
		AvatarURL: acc.AvatarURL,
	}

	if acc.PhoneCipher != "" {
		phone, err := s.cipher.Open(acc.ID, acc.PhoneCipher)
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt phone", "account_id", acc.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out.Phone = phone
	}

	friends, err := s.repoDB.ListFriends(ctx, acc.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list friends", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	out.Friends = friends

	return out, nil
}

type UpdateProfileInput struct {
	Name   string `validate:"omitempty,min=3,max=30,alphaspace"`
	Gender string `validate:"omitempty,oneof=male female"`
	Phone  string `validate:"omitempty,phone"`
	Image  *upload.File
}

// UpdateProfile changes only the fields that are set. A new image replaces
// the stored one.
func (s *Usecase) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "UpdateProfile")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Name == "" && in.Gender == "" && in.Phone == "" && in.Image == nil {
		return nil, goerror.NewInvalidFormat("Nothing to update")
	}

	acc, err := s.me(ctx)
	if err != nil {
		return nil, err
	}

	upd := entity.ProfileUpdate{
		ID:          acc.ID,
		Name:        acc.Name,
		Gender:      acc.Gender,
		PhoneCipher: acc.PhoneCipher,
		AvatarKey:   acc.AvatarKey,
		AvatarURL:   acc.AvatarURL,
	}
	if in.Name != "" {
		upd.Name = strings.TrimSpace(in.Name)
	}
	if in.Gender != "" {
		upd.Gender = account.Gender(in.Gender)
	}
	if in.Phone != "" {
		upd.PhoneCipher, err = s.cipher.Seal(acc.ID, in.Phone)
		if err != nil {
			slog.ErrorContext(ctx, "failed to encrypt phone", "account_id", acc.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	var stored []upload.Attachment
	if in.Image != nil {
		files := []upload.File{*in.Image}
		if err := s.uploader.Check(files); err != nil {
			return nil, goerror.NewInvalidFormat(err.Error())
		}
		stored, err = s.uploader.Store(ctx, "avatars/"+strconv.FormatInt(acc.ID, 10), files)
		if err != nil {
			slog.ErrorContext(ctx, "failed to store avatar", "account_id", acc.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		upd.AvatarKey = stored[0].Key
		upd.AvatarURL = stored[0].URL
	}

	if err := s.repoDB.UpdateProfile(ctx, upd); err != nil {
		s.uploader.Remove(ctx, stored)
		slog.ErrorContext(ctx, "failed to repo update profile", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if len(stored) > 0 && acc.AvatarKey != "" {
		s.uploader.Remove(ctx, []upload.Attachment{{Key: acc.AvatarKey}})
	}

	acc.Name = upd.Name
	acc.Gender = upd.Gender
	acc.PhoneCipher = upd.PhoneCipher
	acc.AvatarKey = upd.AvatarKey
	acc.AvatarURL = upd.AvatarURL

	return s.ownProfile(ctx, acc)
}

type ViewProfileInput struct {
	ID int64 `validate:"required,gt=0"`
}

// ViewProfile shows another account and counts the view. Viewing yourself
// returns your own profile without counting.
func (s *Usecase) ViewProfile(ctx context.Context, in ViewProfileInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "ViewProfile")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	viewer, err := s.me(ctx)
	if err != nil {
		return nil, err
	}

	if viewer.ID == in.ID {
		return s.ownProfile(ctx, viewer)
	}

	owner, err := s.liveAccount(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blocked(ctx, owner.ID, viewer.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, goerror.NewBusiness("You are not allowed to view this profile", goerror.CodeForbidden)
	}

	view, err := s.repoDB.RecordView(ctx, owner.ID, viewer.ID, s.clock.Now(), ViewHistorySize)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo record profile view", "owner_id", owner.ID, "viewer_id", viewer.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if view.TotalViews > ViewHistorySize {
		ev := ProfileViewsEvent{
			OwnerEmail: owner.Email,
			OwnerName:  owner.Name,
			ViewerName: viewer.Name,
			TotalViews: view.TotalViews,
			ViewedAt:   view.ViewedAt,
		}
		if !s.runner.Go(ctx, "user.profile_views_email", func(ctx context.Context) error {
			if err := s.repoMsg.PublishProfileViews(ctx, ev); err != nil {
				slog.ErrorContext(ctx, "failed to publish profile views", "owner_id", owner.ID, "error", err)
			}
			return nil
		}) {
			slog.WarnContext(ctx, "profile views email dropped", "owner_id", owner.ID)
		}
	}

	return &ProfileOutput{
		ID:        owner.ID,
		Name:      owner.Name,
		Gender:    owner.Gender,
		AvatarURL: owner.AvatarURL,
	}, nil
}

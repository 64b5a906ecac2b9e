package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

type CreatePostInput struct {
	Content string        `validate:"required,min=3,max=5000"`
	Files   []upload.File `validate:"max=5"`
}

func (s *Usecase) CreatePost(ctx context.Context, in CreatePostInput) (*entity.Post, error) {
	ctx, span := s.startSpan(ctx, "CreatePost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	id := s.uid.Generate()
	atts, err := s.store(ctx, "posts/"+strconv.FormatInt(id, 10), in.Files)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := entity.Post{
		ID:          id,
		AuthorID:    clm.UserID,
		Content:     strings.TrimSpace(in.Content),
		Attachments: atts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repoDB.CreatePost(ctx, p); err != nil {
		s.uploader.Remove(ctx, atts)
		slog.ErrorContext(ctx, "failed to repo create post", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &p, nil
}

type UpdatePostInput struct {
	ID      int64         `validate:"required,gt=0"`
	Content string        `validate:"omitempty,min=3,max=5000"`
	Files   []upload.File `validate:"max=5"`
}

// UpdatePost edits an own live post. New files replace every old attachment.
func (s *Usecase) UpdatePost(ctx context.Context, in UpdatePostInput) (*entity.Post, error) {
	ctx, span := s.startSpan(ctx, "UpdatePost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.Content == "" && len(in.Files) == 0 {
		return nil, goerror.NewInvalidFormat("Nothing to update")
	}

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if p.Deleted || p.AuthorID != clm.UserID {
		return nil, errPostNotFound
	}

	old := p.Attachments
	if len(in.Files) > 0 {
		p.Attachments, err = s.store(ctx, "posts/"+strconv.FormatInt(p.ID, 10), in.Files)
		if err != nil {
			return nil, err
		}
	}
	if in.Content != "" {
		p.Content = strings.TrimSpace(in.Content)
	}
	p.UpdatedAt = s.clock.Now()

	if err := s.repoDB.UpdatePost(ctx, *p); err != nil {
		if len(in.Files) > 0 {
			s.uploader.Remove(ctx, p.Attachments)
		}
		slog.ErrorContext(ctx, "failed to repo update post", "post_id", p.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if len(in.Files) > 0 {
		s.uploader.Remove(ctx, old)
	}

	return p, nil
}

type PostInput struct {
	ID int64 `validate:"required,gt=0"`
}

// UndoPost removes an own post for good, only shortly after creating it.
func (s *Usecase) UndoPost(ctx context.Context, in PostInput) error {
	ctx, span := s.startSpan(ctx, "UndoPost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return err
	}
	if p.Deleted || p.AuthorID != clm.UserID {
		return errPostForbidden
	}
	if s.clock.Now().Sub(p.CreatedAt) > entity.UndoWindow {
		return goerror.NewBusiness("Cannot undo post after 2 minutes", goerror.CodeInvalidFormat)
	}

	if err := s.repoDB.DeletePost(ctx, p.ID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return errPostNotFound
		}
		slog.ErrorContext(ctx, "failed to repo delete post", "post_id", p.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.uploader.Remove(ctx, p.Attachments)

	return nil
}

// FreezePost soft deletes a post and its comments. Admins may freeze any
// post.
func (s *Usecase) FreezePost(ctx context.Context, in PostInput) error {
	ctx, span := s.startSpan(ctx, "FreezePost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return err
	}
	if p.Deleted {
		return errPostForbidden
	}
	if p.AuthorID != clm.UserID {
		ok, err := s.can(ctx, clm, "post", "freeze_any")
		if err != nil {
			return err
		}
		if !ok {
			return errPostForbidden
		}
	}

	err = s.repoDB.FreezePost(ctx, p.ID, clm.UserID, s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		return errPostForbidden
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo freeze post", "post_id", p.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// RestorePost undoes a freeze. Only whoever froze the post can restore it.
func (s *Usecase) RestorePost(ctx context.Context, in PostInput) error {
	ctx, span := s.startSpan(ctx, "RestorePost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return err
	}
	if !p.Deleted || p.DeletedBy != clm.UserID {
		return errPostForbidden
	}

	err = s.repoDB.RestorePost(ctx, p.ID, clm.UserID, s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		return errPostForbidden
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo restore post", "post_id", p.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type ReactOutput struct {
	Liked bool
}

// ReactPost likes a live post, or takes the like back.
func (s *Usecase) ReactPost(ctx context.Context, in PostInput) (*ReactOutput, error) {
	ctx, span := s.startSpan(ctx, "ReactPost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if p.Deleted {
		return nil, errPostNotFound
	}

	liked, err := s.repoDB.TogglePostLike(ctx, p.ID, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo toggle post like", "post_id", p.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ReactOutput{Liked: liked}, nil
}

// ArchivePost hides an own post from every feed once it is a day old.
func (s *Usecase) ArchivePost(ctx context.Context, in PostInput) error {
	ctx, span := s.startSpan(ctx, "ArchivePost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return err
	}
	if p.Deleted || p.Archived || p.AuthorID != clm.UserID {
		return errPostForbidden
	}

	now := s.clock.Now()
	if now.Sub(p.CreatedAt) < entity.ArchiveAfter {
		return goerror.NewBusiness("Cannot archive post before 24 hours have passed", goerror.CodeInvalidFormat)
	}

	return s.setArchived(ctx, p.ID, true)
}

func (s *Usecase) UnarchivePost(ctx context.Context, in PostInput) error {
	ctx, span := s.startSpan(ctx, "UnarchivePost")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	p, err := s.post(ctx, in.ID)
	if err != nil {
		return err
	}
	if p.Deleted || !p.Archived || p.AuthorID != clm.UserID {
		return errPostForbidden
	}

	return s.setArchived(ctx, p.ID, false)
}

func (s *Usecase) setArchived(ctx context.Context, id int64, archived bool) error {
	err := s.repoDB.SetArchived(ctx, id, archived, s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		return errPostForbidden
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo set archived", "post_id", id, "archived", archived, "error", err)
		return goerror.NewServer(err)
	}
	return nil
}

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

type CreateCommentInput struct {
	PostID  int64         `validate:"required,gt=0"`
	Content string        `validate:"required,min=3,max=2000"`
	Files   []upload.File `validate:"max=5"`
}

func (s *Usecase) CreateComment(ctx context.Context, in CreateCommentInput) (*entity.Comment, error) {
	ctx, span := s.startSpan(ctx, "CreateComment")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.post(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, errPostNotFound
	}

	id := s.uid.Generate()
	atts, err := s.store(ctx, "comments/"+strconv.FormatInt(id, 10), in.Files)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	c := entity.Comment{
		ID:          id,
		PostID:      p.ID,
		AuthorID:    clm.UserID,
		Content:     strings.TrimSpace(in.Content),
		Attachments: atts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repoDB.CreateComment(ctx, c); err != nil {
		s.uploader.Remove(ctx, atts)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, errPostNotFound
		}
		slog.ErrorContext(ctx, "failed to repo create comment", "post_id", p.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &c, nil
}

type UpdateCommentInput struct {
	PostID    int64         `validate:"required,gt=0"`
	CommentID int64         `validate:"required,gt=0"`
	Content   string        `validate:"omitempty,min=3,max=2000"`
	Files     []upload.File `validate:"max=5"`
}

// UpdateComment edits an own live comment on a visible post.
func (s *Usecase) UpdateComment(ctx context.Context, in UpdateCommentInput) (*entity.Comment, error) {
	ctx, span := s.startSpan(ctx, "UpdateComment")
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

	c, p, err := s.commentOnPost(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if c.Deleted || c.AuthorID != clm.UserID || !p.Visible() {
		return nil, errCommentNotAllow
	}

	old := c.Attachments
	if len(in.Files) > 0 {
		c.Attachments, err = s.store(ctx, "comments/"+strconv.FormatInt(c.ID, 10), in.Files)
		if err != nil {
			return nil, err
		}
	}
	if in.Content != "" {
		c.Content = strings.TrimSpace(in.Content)
	}
	c.UpdatedAt = s.clock.Now()

	if err := s.repoDB.UpdateComment(ctx, *c); err != nil {
		if len(in.Files) > 0 {
			s.uploader.Remove(ctx, c.Attachments)
		}
		slog.ErrorContext(ctx, "failed to repo update comment", "comment_id", c.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if len(in.Files) > 0 {
		s.uploader.Remove(ctx, old)
	}

	return c, nil
}

type CommentInput struct {
	PostID    int64 `validate:"required,gt=0"`
	CommentID int64 `validate:"required,gt=0"`
}

// FreezeComment soft deletes a comment. The comment author, the post author
// and admins may do it.
func (s *Usecase) FreezeComment(ctx context.Context, in CommentInput) error {
	ctx, span := s.startSpan(ctx, "FreezeComment")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	c, p, err := s.commentOnPost(ctx, in.PostID, in.CommentID)
	if err != nil {
		return err
	}
	if c.Deleted {
		return errCommentNotAllow
	}
	if c.AuthorID != clm.UserID && p.AuthorID != clm.UserID {
		ok, err := s.can(ctx, clm, "comment", "freeze_any")
		if err != nil {
			return err
		}
		if !ok {
			return errCommentNotAllow
		}
	}

	err = s.repoDB.FreezeComment(ctx, c.ID, clm.UserID, s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		return errCommentNotAllow
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo freeze comment", "comment_id", c.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

// RestoreComment undoes a freeze made by the caller while the post is live.
func (s *Usecase) RestoreComment(ctx context.Context, in CommentInput) error {
	ctx, span := s.startSpan(ctx, "RestoreComment")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return err
	}

	c, p, err := s.commentOnPost(ctx, in.PostID, in.CommentID)
	if err != nil {
		return err
	}
	if !c.Deleted || c.DeletedBy != clm.UserID || p.Deleted {
		return errCommentNotAllow
	}

	err = s.repoDB.RestoreComment(ctx, c.ID, clm.UserID, s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		return errCommentNotAllow
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo restore comment", "comment_id", c.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) ReactComment(ctx context.Context, in CommentInput) (*ReactOutput, error) {
	ctx, span := s.startSpan(ctx, "ReactComment")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	c, p, err := s.commentOnPost(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if c.Deleted || !p.Visible() {
		return nil, errCommentNotAllow
	}

	liked, err := s.repoDB.ToggleCommentLike(ctx, c.ID, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo toggle comment like", "comment_id", c.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ReactOutput{Liked: liked}, nil
}

func (s *Usecase) commentOnPost(ctx context.Context, postID, commentID int64) (*entity.Comment, *entity.Post, error) {
	c, err := s.comment(ctx, postID, commentID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.post(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

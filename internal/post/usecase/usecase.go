package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/shared/account"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreatePost(ctx context.Context, p entity.Post) error
	GetPost(ctx context.Context, id int64) (*entity.Post, error)
	UpdatePost(ctx context.Context, p entity.Post) error
	DeletePost(ctx context.Context, id int64) error
	FreezePost(ctx context.Context, id, by int64, at time.Time) error
	RestorePost(ctx context.Context, id, by int64, at time.Time) error
	SetArchived(ctx context.Context, id int64, archived bool, at time.Time) error
	TogglePostLike(ctx context.Context, postID, accountID int64) (bool, error)
	ListPosts(ctx context.Context, authorIDs []int64) ([]entity.FeedPost, error)

	ListFriendIDs(ctx context.Context, id int64) ([]int64, error)
	BlockersOf(ctx context.Context, blockedID int64, among []int64) ([]int64, error)

	CreateComment(ctx context.Context, c entity.Comment) error
	GetComment(ctx context.Context, postID, commentID int64) (*entity.Comment, error)
	UpdateComment(ctx context.Context, c entity.Comment) error
	FreezeComment(ctx context.Context, id, by int64, at time.Time) error
	RestoreComment(ctx context.Context, id, by int64, at time.Time) error
	ToggleCommentLike(ctx context.Context, commentID, accountID int64) (bool, error)
}

type uploader interface {
	Check(files []upload.File) error
	Store(ctx context.Context, dir string, files []upload.File) ([]upload.Attachment, error)
	Remove(ctx context.Context, atts []upload.Attachment)
}

// authorizer is satisfied by *casbin.Enforcer.
type authorizer interface {
	Enforce(rvals ...any) (bool, error)
}

type Usecase struct {
	repoDB    repoDB
	uploader  uploader
	authz     authorizer
	validator validator.Validator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Uploader   uploader
	Authorizer authorizer
	Validator  validator.Validator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		uploader:  dep.Uploader,
		authz:     dep.Authorizer,
		validator: dep.Validator,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("post.usecase").Start(ctx, name)
}

var errUnauthenticated = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)

func me(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID == 0 {
		return nil, errUnauthenticated
	}
	return clm, nil
}

// can asks the enforcer whether the caller's role may act on obj regardless
// of ownership.
func (s *Usecase) can(ctx context.Context, clm *jwt.Claims, obj, act string) (bool, error) {
	role := account.RoleFromJWT(clm.Role)
	ok, err := s.authz.Enforce(string(role), obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enforce policy", "role", role, "object", obj, "action", act, "error", err)
		return false, goerror.NewServer(err)
	}
	return ok, nil
}

func (s *Usecase) post(ctx context.Context, id int64) (*entity.Post, error) {
	p, err := s.repoDB.GetPost(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errPostNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get post", "post_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	return p, nil
}

func (s *Usecase) comment(ctx context.Context, postID, commentID int64) (*entity.Comment, error) {
	c, err := s.repoDB.GetComment(ctx, postID, commentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errCommentNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get comment", "post_id", postID, "comment_id", commentID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return c, nil
}

// store checks and uploads files under dir. No files means no attachments.
func (s *Usecase) store(ctx context.Context, dir string, files []upload.File) ([]upload.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := s.uploader.Check(files); err != nil {
		return nil, goerror.NewInvalidFormat(err.Error())
	}

	atts, err := s.uploader.Store(ctx, dir, files)
	if err != nil {
		slog.ErrorContext(ctx, "failed to store attachments", "dir", dir, "error", err)
		return nil, goerror.NewServer(err)
	}
	return atts, nil
}

var (
	errPostNotFound    = goerror.NewBusiness("Post not found", goerror.CodeNotFound)
	errPostForbidden   = goerror.NewBusiness("Post not found or not authorized", goerror.CodeNotFound)
	errCommentNotFound = goerror.NewBusiness("Comment not found", goerror.CodeNotFound)
	errCommentNotAllow = goerror.NewBusiness("Comment or post not found or not authorized", goerror.CodeNotFound)
)

package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
)

// MyPosts lists the caller's visible posts.
func (s *Usecase) MyPosts(ctx context.Context) ([]entity.FeedPost, error) {
	ctx, span := s.startSpan(ctx, "MyPosts")
	defer span.End()

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.list(ctx, []int64{clm.UserID})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, goerror.NewBusiness("No post added yet", goerror.CodeNotFound)
	}

	return posts, nil
}

func (s *Usecase) FriendsPosts(ctx context.Context) ([]entity.FeedPost, error) {
	ctx, span := s.startSpan(ctx, "FriendsPosts")
	defer span.End()

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.repoDB.ListFriendIDs(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list friend ids", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.list(ctx, ids)
}

type UsersPostsInput struct {
	UserIDs []int64 `validate:"required,min=1,max=50,dive,gt=0"`
}

// UsersPosts lists posts of the requested users, skipping anyone who
// blocked the caller.
func (s *Usecase) UsersPosts(ctx context.Context, in UsersPostsInput) ([]entity.FeedPost, error) {
	ctx, span := s.startSpan(ctx, "UsersPosts")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := me(ctx)
	if err != nil {
		return nil, err
	}

	ids := lo.Uniq(in.UserIDs)
	blockers, err := s.repoDB.BlockersOf(ctx, clm.UserID, ids)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list blockers", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.list(ctx, lo.Without(ids, blockers...))
}

func (s *Usecase) list(ctx context.Context, authorIDs []int64) ([]entity.FeedPost, error) {
	if len(authorIDs) == 0 {
		return []entity.FeedPost{}, nil
	}

	posts, err := s.repoDB.ListPosts(ctx, authorIDs)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list posts", "authors", len(authorIDs), "error", err)
		return nil, goerror.NewServer(err)
	}
	if posts == nil {
		posts = []entity.FeedPost{}
	}
	return posts, nil
}

package inbound

import (
	"context"

	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/post/usecase"
)

type uc interface {
	CreatePost(ctx context.Context, in usecase.CreatePostInput) (*entity.Post, error)
	UpdatePost(ctx context.Context, in usecase.UpdatePostInput) (*entity.Post, error)
	UndoPost(ctx context.Context, in usecase.PostInput) error
	FreezePost(ctx context.Context, in usecase.PostInput) error
	RestorePost(ctx context.Context, in usecase.PostInput) error
	ReactPost(ctx context.Context, in usecase.PostInput) (*usecase.ReactOutput, error)
	ArchivePost(ctx context.Context, in usecase.PostInput) error
	UnarchivePost(ctx context.Context, in usecase.PostInput) error

	MyPosts(ctx context.Context) ([]entity.FeedPost, error)
	FriendsPosts(ctx context.Context) ([]entity.FeedPost, error)
	UsersPosts(ctx context.Context, in usecase.UsersPostsInput) ([]entity.FeedPost, error)

	CreateComment(ctx context.Context, in usecase.CreateCommentInput) (*entity.Comment, error)
	UpdateComment(ctx context.Context, in usecase.UpdateCommentInput) (*entity.Comment, error)
	FreezeComment(ctx context.Context, in usecase.CommentInput) error
	RestoreComment(ctx context.Context, in usecase.CommentInput) error
	ReactComment(ctx context.Context, in usecase.CommentInput) (*usecase.ReactOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/posts", end.CreatePost)
	r.GET("/api/v1/posts", end.UsersPosts)
	r.GET("/api/v1/posts/me", end.MyPosts)
	r.GET("/api/v1/posts/friends", end.FriendsPosts)
	r.PATCH("/api/v1/posts/:id", end.UpdatePost)
	r.DELETE("/api/v1/posts/:id/undo", end.UndoPost)
	r.DELETE("/api/v1/posts/:id/freeze", end.FreezePost)
	r.PATCH("/api/v1/posts/:id/restore", end.RestorePost)
	r.PATCH("/api/v1/posts/:id/react", end.ReactPost)
	r.PATCH("/api/v1/posts/:id/archive", end.ArchivePost)
	r.PATCH("/api/v1/posts/:id/unarchive", end.UnarchivePost)

	r.POST("/api/v1/posts/:id/comments", end.CreateComment)
	r.PATCH("/api/v1/posts/:id/comments/:commentId", end.UpdateComment)
	r.DELETE("/api/v1/posts/:id/comments/:commentId/freeze", end.FreezeComment)
	r.PATCH("/api/v1/posts/:id/comments/:commentId/restore", end.RestoreComment)
	r.PATCH("/api/v1/posts/:id/comments/:commentId/react", end.ReactComment)
}

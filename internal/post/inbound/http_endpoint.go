package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/post/usecase"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

type HTTPEndpoint struct {
	uc uc
}

// form reads the multipart "content" field and up to five "attachments".
// The returned files must be closed by the caller.
func form(r *router.Request) (string, []upload.File, error) {
	if err := r.ParseMultipart(); err != nil {
		return "", nil, err
	}

	fhs, err := r.GetFiles("attachments", entity.MaxAttachments)
	if err != nil {
		return "", nil, err
	}

	files, err := upload.OpenAll(fhs)
	if err != nil {
		return "", nil, goerror.NewInvalidFormat("Invalid attachment file")
	}

	return r.GetForm("content"), files, nil
}

func postID(r *router.Request) (int64, error) {
	return r.GetParamInt64("id")
}

func commentIDs(r *router.Request) (usecase.CommentInput, error) {
	pid, err := r.GetParamInt64("id")
	if err != nil {
		return usecase.CommentInput{}, err
	}
	cid, err := r.GetParamInt64("commentId")
	if err != nil {
		return usecase.CommentInput{}, err
	}
	return usecase.CommentInput{PostID: pid, CommentID: cid}, nil
}

func (h *HTTPEndpoint) CreatePost(r *router.Request) (any, error) {
	content, files, err := form(r)
	if err != nil {
		return nil, err
	}
	defer upload.CloseAll(files)

	p, err := h.uc.CreatePost(r.Context(), usecase.CreatePostInput{Content: content, Files: files})
	if err != nil {
		return nil, err
	}

	return toPostResponse(p, http.StatusCreated), nil
}

func (h *HTTPEndpoint) UpdatePost(r *router.Request) (any, error) {
	id, err := postID(r)
	if err != nil {
		return nil, err
	}

	content, files, err := form(r)
	if err != nil {
		return nil, err
	}
	defer upload.CloseAll(files)

	p, err := h.uc.UpdatePost(r.Context(), usecase.UpdatePostInput{ID: id, Content: content, Files: files})
	if err != nil {
		return nil, err
	}

	return toPostResponse(p, http.StatusOK), nil
}

// postAction runs one of the id only post operations.
func postAction(r *router.Request, fn func(context.Context, usecase.PostInput) error, msg string) (any, error) {
	id, err := postID(r)
	if err != nil {
		return nil, err
	}

	if err := fn(r.Context(), usecase.PostInput{ID: id}); err != nil {
		return nil, err
	}

	return DoneResponse{msg: msg}, nil
}

func (h *HTTPEndpoint) UndoPost(r *router.Request) (any, error) {
	return postAction(r, h.uc.UndoPost, "Post removed")
}

func (h *HTTPEndpoint) FreezePost(r *router.Request) (any, error) {
	return postAction(r, h.uc.FreezePost, "Post frozen")
}

func (h *HTTPEndpoint) RestorePost(r *router.Request) (any, error) {
	return postAction(r, h.uc.RestorePost, "Post restored")
}

func (h *HTTPEndpoint) ArchivePost(r *router.Request) (any, error) {
	return postAction(r, h.uc.ArchivePost, "Post archived")
}

func (h *HTTPEndpoint) UnarchivePost(r *router.Request) (any, error) {
	return postAction(r, h.uc.UnarchivePost, "Post unarchived")
}

func (h *HTTPEndpoint) ReactPost(r *router.Request) (any, error) {
	id, err := postID(r)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ReactPost(r.Context(), usecase.PostInput{ID: id})
	if err != nil {
		return nil, err
	}

	return ReactResponse{Liked: out.Liked}, nil
}

func (h *HTTPEndpoint) MyPosts(r *router.Request) (any, error) {
	posts, err := h.uc.MyPosts(r.Context())
	if err != nil {
		return nil, err
	}

	return toFeedResponse(posts), nil
}

func (h *HTTPEndpoint) FriendsPosts(r *router.Request) (any, error) {
	posts, err := h.uc.FriendsPosts(r.Context())
	if err != nil {
		return nil, err
	}

	return toFeedResponse(posts), nil
}

func (h *HTTPEndpoint) UsersPosts(r *router.Request) (any, error) {
	ids, err := r.GetQueryInt64s("user_ids")
	if err != nil {
		return nil, err
	}

	posts, err := h.uc.UsersPosts(r.Context(), usecase.UsersPostsInput{UserIDs: ids})
	if err != nil {
		return nil, err
	}

	return toFeedResponse(posts), nil
}

func (h *HTTPEndpoint) CreateComment(r *router.Request) (any, error) {
	id, err := postID(r)
	if err != nil {
		return nil, err
	}

	content, files, err := form(r)
	if err != nil {
		return nil, err
	}
	defer upload.CloseAll(files)

	c, err := h.uc.CreateComment(r.Context(), usecase.CreateCommentInput{PostID: id, Content: content, Files: files})
	if err != nil {
		return nil, err
	}

	return toCommentResponse(*c, http.StatusCreated), nil
}

func (h *HTTPEndpoint) UpdateComment(r *router.Request) (any, error) {
	ids, err := commentIDs(r)
	if err != nil {
		return nil, err
	}

	content, files, err := form(r)
	if err != nil {
		return nil, err
	}
	defer upload.CloseAll(files)

	c, err := h.uc.UpdateComment(r.Context(), usecase.UpdateCommentInput{
		PostID:    ids.PostID,
		CommentID: ids.CommentID,
		Content:   content,
		Files:     files,
	})
	if err != nil {
		return nil, err
	}

	return toCommentResponse(*c, http.StatusOK), nil
}

func (h *HTTPEndpoint) FreezeComment(r *router.Request) (any, error) {
	in, err := commentIDs(r)
	if err != nil {
		return nil, err
	}

	if err := h.uc.FreezeComment(r.Context(), in); err != nil {
		return nil, err
	}

	return DoneResponse{msg: "Comment frozen"}, nil
}

func (h *HTTPEndpoint) RestoreComment(r *router.Request) (any, error) {
	in, err := commentIDs(r)
	if err != nil {
		return nil, err
	}

	if err := h.uc.RestoreComment(r.Context(), in); err != nil {
		return nil, err
	}

	return DoneResponse{msg: "Comment restored"}, nil
}

func (h *HTTPEndpoint) ReactComment(r *router.Request) (any, error) {
	in, err := commentIDs(r)
	if err != nil {
		return nil, err
	}

	out, err := h.uc.ReactComment(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return ReactResponse{Liked: out.Liked}, nil
}

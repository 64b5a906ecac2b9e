package inbound

import (
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

type AttachmentResponse struct {
	URL string `json:"url"`
}

func toAttachments(atts []upload.Attachment) []AttachmentResponse {
	return lo.Map(atts, func(a upload.Attachment, _ int) AttachmentResponse {
		return AttachmentResponse{URL: a.URL}
	})
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

type PostResponse struct {
	ID          string               `json:"id"`
	AuthorID    string               `json:"author_id"`
	Content     string               `json:"content"`
	Attachments []AttachmentResponse `json:"attachments"`
	Archived    bool                 `json:"archived"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	code int
}

func (r PostResponse) StatusCode() int {
	if r.code != 0 {
		return r.code
	}
	return http.StatusOK
}

func (r PostResponse) Message() string {
	if r.code == http.StatusCreated {
		return "Post created"
	}
	return "Post updated"
}

func toPostResponse(p *entity.Post, code int) PostResponse {
	return PostResponse{
		ID:          id(p.ID),
		AuthorID:    id(p.AuthorID),
		Content:     p.Content,
		Attachments: toAttachments(p.Attachments),
		Archived:    p.Archived,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		code:        code,
	}
}

type CommentResponse struct {
	ID          string               `json:"id"`
	PostID      string               `json:"post_id"`
	AuthorID    string               `json:"author_id"`
	Content     string               `json:"content"`
	Attachments []AttachmentResponse `json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	code int
}

func (r CommentResponse) StatusCode() int {
	if r.code != 0 {
		return r.code
	}
	return http.StatusOK
}

func (r CommentResponse) Message() string {
	if r.code == http.StatusCreated {
		return "Comment created"
	}
	return "Comment updated"
}

func toCommentResponse(c entity.Comment, code int) CommentResponse {
	return CommentResponse{
		ID:          id(c.ID),
		PostID:      id(c.PostID),
		AuthorID:    id(c.AuthorID),
		Content:     c.Content,
		Attachments: toAttachments(c.Attachments),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		code:        code,
	}
}

type AuthorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type FeedPostResponse struct {
	ID          string               `json:"id"`
	Author      AuthorResponse       `json:"author"`
	Content     string               `json:"content"`
	Attachments []AttachmentResponse `json:"attachments"`
	Likes       int64                `json:"likes"`
	Comments    []CommentResponse    `json:"comments"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FeedResponse is a list of posts; the router sends it as data.
type FeedResponse []FeedPostResponse

func (r FeedResponse) Meta() map[string]any {
	return map[string]any{"count": len(r)}
}

func toFeedResponse(posts []entity.FeedPost) FeedResponse {
	return lo.Map(posts, func(fp entity.FeedPost, _ int) FeedPostResponse {
		return FeedPostResponse{
			ID: id(fp.ID),
			Author: AuthorResponse{
				ID:    id(fp.Author.ID),
				Name:  fp.Author.Name,
				Email: fp.Author.Email,
			},
			Content:     fp.Content,
			Attachments: toAttachments(fp.Attachments),
			Likes:       fp.Likes,
			Comments: lo.Map(fp.Comments, func(c entity.Comment, _ int) CommentResponse {
				return toCommentResponse(c, 0)
			}),
			CreatedAt: fp.CreatedAt,
		}
	})
}

type ReactResponse struct {
	Liked bool `json:"liked"`
}

func (r ReactResponse) Message() string {
	if r.Liked {
		return "Liked"
	}
	return "Like removed"
}

type DoneResponse struct{ msg string }

func (r DoneResponse) Message() string { return r.msg }

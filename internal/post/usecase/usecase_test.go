package usecase

import (
	"context"
	"errors"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/rbac"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

type like struct{ target, account int64 }

type fakeRepo struct {
	posts        map[int64]*entity.Post
	comments     map[int64]*entity.Comment
	postLikes    map[like]bool
	commentLikes map[like]bool
	friends      map[int64][]int64
	blocks       map[int64][]int64 // blocker -> blocked
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:        map[int64]*entity.Post{},
		comments:     map[int64]*entity.Comment{},
		postLikes:    map[like]bool{},
		commentLikes: map[like]bool{},
		friends:      map[int64][]int64{},
		blocks:       map[int64][]int64{},
	}
}

func (r *fakeRepo) CreatePost(_ context.Context, p entity.Post) error {
	r.posts[p.ID] = &p
	return nil
}

func (r *fakeRepo) GetPost(_ context.Context, id int64) (*entity.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) UpdatePost(_ context.Context, p entity.Post) error {
	r.posts[p.ID] = &p
	return nil
}

func (r *fakeRepo) DeletePost(_ context.Context, id int64) error {
	delete(r.posts, id)
	return nil
}

func (r *fakeRepo) FreezePost(_ context.Context, id, by int64, _ time.Time) error {
	p := r.posts[id]
	p.Deleted, p.DeletedBy = true, by
	for _, c := range r.comments {
		if c.PostID == id && !c.Deleted {
			c.Deleted, c.DeletedBy = true, by
		}
	}
	return nil
}

func (r *fakeRepo) RestorePost(_ context.Context, id, by int64, _ time.Time) error {
	p := r.posts[id]
	p.Deleted, p.DeletedBy = false, 0
	for _, c := range r.comments {
		if c.PostID == id && c.DeletedBy == by {
			c.Deleted, c.DeletedBy = false, 0
		}
	}
	return nil
}

func (r *fakeRepo) SetArchived(_ context.Context, id int64, archived bool, _ time.Time) error {
	r.posts[id].Archived = archived
	return nil
}

func (r *fakeRepo) TogglePostLike(_ context.Context, postID, accountID int64) (bool, error) {
	k := like{postID, accountID}
	r.postLikes[k] = !r.postLikes[k]
	return r.postLikes[k], nil
}

func (r *fakeRepo) ListPosts(_ context.Context, authorIDs []int64) ([]entity.FeedPost, error) {
	var out []entity.FeedPost
	for _, p := range r.posts {
		if p.Visible() && slices.Contains(authorIDs, p.AuthorID) {
			out = append(out, entity.FeedPost{Post: *p, Author: entity.Author{ID: p.AuthorID}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) ListFriendIDs(_ context.Context, id int64) ([]int64, error) {
	return r.friends[id], nil
}

func (r *fakeRepo) BlockersOf(_ context.Context, blockedID int64, among []int64) ([]int64, error) {
	var out []int64
	for _, id := range among {
		if slices.Contains(r.blocks[id], blockedID) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateComment(_ context.Context, c entity.Comment) error {
	r.comments[c.ID] = &c
	return nil
}

func (r *fakeRepo) GetComment(_ context.Context, postID, commentID int64) (*entity.Comment, error) {
	c, ok := r.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, goerror.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) UpdateComment(_ context.Context, c entity.Comment) error {
	r.comments[c.ID] = &c
	return nil
}

func (r *fakeRepo) FreezeComment(_ context.Context, id, by int64, _ time.Time) error {
	c := r.comments[id]
	c.Deleted, c.DeletedBy = true, by
	return nil
}

func (r *fakeRepo) RestoreComment(_ context.Context, id, _ int64, _ time.Time) error {
	c := r.comments[id]
	c.Deleted, c.DeletedBy = false, 0
	return nil
}

func (r *fakeRepo) ToggleCommentLike(_ context.Context, commentID, accountID int64) (bool, error) {
	k := like{commentID, accountID}
	r.commentLikes[k] = !r.commentLikes[k]
	return r.commentLikes[k], nil
}

type fakeUploader struct {
	stored  int
	removed []string
}

func (f *fakeUploader) Check(files []upload.File) error {
	for _, file := range files {
		if file.ContentType != "image/png" {
			return upload.ErrUnsupportedType
		}
	}
	return nil
}

func (f *fakeUploader) Store(_ context.Context, dir string, files []upload.File) ([]upload.Attachment, error) {
	out := make([]upload.Attachment, len(files))
	for i, file := range files {
		f.stored++
		out[i] = upload.Attachment{Key: dir + "/" + file.Name, URL: "https://cdn.test/" + dir + "/" + file.Name}
	}
	return out, nil
}

func (f *fakeUploader) Remove(_ context.Context, atts []upload.Attachment) {
	for _, a := range atts {
		f.removed = append(f.removed, a.Key)
	}
}

type seqNumber struct{ n int64 }

func (s *seqNumber) Generate() int64 {
	s.n++
	return 100 + s.n
}

type fixture struct {
	uc       *Usecase
	repo     *fakeRepo
	uploader *fakeUploader
	clock    *clock.Manual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}
	enf, err := rbac.New(rbac.DefaultPolicies(), nil)
	if err != nil {
		t.Fatalf("rbac.New() error = %v", err)
	}

	f := &fixture{
		repo:     newFakeRepo(),
		uploader: &fakeUploader{},
		clock:    clock.NewManual(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)),
	}
	f.uc = New(Dependency{
		RepoDB:     f.repo,
		Uploader:   f.uploader,
		Authorizer: enf,
		Validator:  v,
		UID:        &seqNumber{},
		Clock:      f.clock,
		Instrument: instrument.NewNoop(),
	})
	return f
}

func as(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, Role: jwt.RoleUser})
}

func asAdmin(id int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, Role: jwt.RoleAdmin})
}

func png(name string) upload.File {
	return upload.NewFile(name, []byte("\x89PNG\r\n\x1a\n0000"))
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	gerr, ok := goerror.As(err)
	if !ok || gerr.StatusCode() != code {
		t.Fatalf("error = %v, want status %d", err, code)
	}
}

func (f *fixture) mustPost(t *testing.T, author int64) *entity.Post {
	t.Helper()
	p, err := f.uc.CreatePost(as(author), CreatePostInput{Content: "first post"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	return p
}

func TestCreatePost(t *testing.T) {
	t.Run("stores attachments under the post id", func(t *testing.T) {
		f := newFixture(t)

		p, err := f.uc.CreatePost(as(1), CreatePostInput{Content: "  hello there ", Files: []upload.File{png("a.png"), png("b.png")}})
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		if p.Content != "hello there" || len(p.Attachments) != 2 || p.Attachments[0].Key != "posts/101/a.png" {
			t.Fatalf("unexpected post: %+v", p)
		}
		if f.repo.posts[p.ID] == nil {
			t.Fatalf("post not saved")
		}
	})

	t.Run("rejects", func(t *testing.T) {
		f := newFixture(t)
		six := make([]upload.File, 6)
		for i := range six {
			six[i] = png("x.png")
		}

		tests := []struct {
			name       string
			in         CreatePostInput
			wantStatus int
		}{
			{name: "short content", in: CreatePostInput{Content: "hi"}, wantStatus: 422},
			{name: "too many files", in: CreatePostInput{Content: "hello", Files: six}, wantStatus: 422},
			{name: "not an image", in: CreatePostInput{Content: "hello", Files: []upload.File{upload.NewFile("a.txt", []byte("plain text"))}}, wantStatus: 400},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.uc.CreatePost(as(1), tt.in)
				wantStatus(t, err, tt.wantStatus)
			})
		}
		if f.uploader.stored != 0 || len(f.repo.posts) != 0 {
			t.Fatalf("rejected input left state: stored=%d posts=%d", f.uploader.stored, len(f.repo.posts))
		}
	})
}

func TestUpdatePost_ReplacesAttachments(t *testing.T) {
	f := newFixture(t)
	p, err := f.uc.CreatePost(as(1), CreatePostInput{Content: "first post", Files: []upload.File{png("old.png")}})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	_, err = f.uc.UpdatePost(as(2), UpdatePostInput{ID: p.ID, Content: "stolen"})
	wantStatus(t, err, 404)

	got, err := f.uc.UpdatePost(as(1), UpdatePostInput{ID: p.ID, Files: []upload.File{png("new.png")}})
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if got.Content != "first post" || len(got.Attachments) != 1 || got.Attachments[0].Key != "posts/101/new.png" {
		t.Fatalf("unexpected post: %+v", got)
	}
	if len(f.uploader.removed) != 1 || f.uploader.removed[0] != "posts/101/old.png" {
		t.Fatalf("removed = %v", f.uploader.removed)
	}
}

func TestUndoPost(t *testing.T) {
	f := newFixture(t)
	p := f.mustPost(t, 1)

	wantStatus(t, f.uc.UndoPost(as(2), PostInput{ID: p.ID}), 404)

	f.clock.Advance(entity.UndoWindow + time.Second)
	wantStatus(t, f.uc.UndoPost(as(1), PostInput{ID: p.ID}), 400)

	f.clock.Set(p.CreatedAt.Add(entity.UndoWindow))
	if err := f.uc.UndoPost(as(1), PostInput{ID: p.ID}); err != nil {
		t.Fatalf("UndoPost() error = %v", err)
	}
	if _, ok := f.repo.posts[p.ID]; ok {
		t.Fatalf("post still present")
	}
}

func TestFreezeRestorePost(t *testing.T) {
	tests := []struct {
		name      string
		freezer   context.Context
		wantCode  int
		restorer  context.Context
		restoreOK bool
	}{
		{name: "owner", freezer: as(1), restorer: as(1), restoreOK: true},
		{name: "stranger", freezer: as(2), wantCode: 404},
		{name: "admin", freezer: asAdmin(9), restorer: as(1), restoreOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)
			p := f.mustPost(t, 1)
			c, err := f.uc.CreateComment(as(2), CreateCommentInput{PostID: p.ID, Content: "nice one"})
			if err != nil {
				t.Fatalf("CreateComment() error = %v", err)
			}

			// Act
			err = f.uc.FreezePost(tt.freezer, PostInput{ID: p.ID})

			// Assert
			if tt.wantCode != 0 {
				wantStatus(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("FreezePost() error = %v", err)
			}
			if !f.repo.comments[c.ID].Deleted {
				t.Fatalf("comment not frozen with post")
			}
			if _, err := f.uc.ReactPost(as(3), PostInput{ID: p.ID}); err == nil {
				t.Fatalf("ReactPost() on frozen post succeeded")
			}

			err = f.uc.RestorePost(tt.restorer, PostInput{ID: p.ID})
			if tt.restoreOK != (err == nil) {
				t.Fatalf("RestorePost() error = %v, want ok=%v", err, tt.restoreOK)
			}
			if tt.restoreOK && f.repo.comments[c.ID].Deleted {
				t.Fatalf("comment not restored")
			}
		})
	}
}

func TestArchivePost(t *testing.T) {
	f := newFixture(t)
	p := f.mustPost(t, 1)

	f.clock.Advance(entity.ArchiveAfter - time.Minute)
	wantStatus(t, f.uc.ArchivePost(as(1), PostInput{ID: p.ID}), 400)
	wantStatus(t, f.uc.UnarchivePost(as(1), PostInput{ID: p.ID}), 404)

	f.clock.Advance(time.Minute)
	if err := f.uc.ArchivePost(as(1), PostInput{ID: p.ID}); err != nil {
		t.Fatalf("ArchivePost() error = %v", err)
	}
	wantStatus(t, f.uc.ArchivePost(as(1), PostInput{ID: p.ID}), 404)
	_, err := f.uc.CreateComment(as(2), CreateCommentInput{PostID: p.ID, Content: "late comment"})
	wantStatus(t, err, 404)
	_, err = f.uc.MyPosts(as(1))
	wantStatus(t, err, 404)

	if err := f.uc.UnarchivePost(as(1), PostInput{ID: p.ID}); err != nil {
		t.Fatalf("UnarchivePost() error = %v", err)
	}
	posts, err := f.uc.MyPosts(as(1))
	if err != nil || len(posts) != 1 {
		t.Fatalf("MyPosts() = %v, %v", posts, err)
	}
}

func TestReactPost_Toggles(t *testing.T) {
	f := newFixture(t)
	p := f.mustPost(t, 1)

	for _, want := range []bool{true, false, true} {
		out, err := f.uc.ReactPost(as(2), PostInput{ID: p.ID})
		if err != nil || out.Liked != want {
			t.Fatalf("ReactPost() = %+v, %v, want liked=%v", out, err, want)
		}
	}
	_, err := f.uc.ReactPost(as(2), PostInput{ID: 999})
	wantStatus(t, err, 404)
}

func TestFeeds(t *testing.T) {
	f := newFixture(t)
	f.mustPost(t, 1)
	f.mustPost(t, 2)
	f.mustPost(t, 3)
	f.repo.friends[1] = []int64{2}
	f.repo.blocks[3] = []int64{1}

	t.Run("friends", func(t *testing.T) {
		posts, err := f.uc.FriendsPosts(as(1))
		if err != nil || len(posts) != 1 || posts[0].AuthorID != 2 {
			t.Fatalf("FriendsPosts() = %+v, %v", posts, err)
		}

		posts, err = f.uc.FriendsPosts(as(4))
		if err != nil || posts == nil || len(posts) != 0 {
			t.Fatalf("FriendsPosts() without friends = %+v, %v", posts, err)
		}
	})

	t.Run("users skips blockers", func(t *testing.T) {
		posts, err := f.uc.UsersPosts(as(1), UsersPostsInput{UserIDs: []int64{2, 3, 2}})
		if err != nil || len(posts) != 1 || posts[0].AuthorID != 2 {
			t.Fatalf("UsersPosts() = %+v, %v", posts, err)
		}

		posts, err = f.uc.UsersPosts(as(4), UsersPostsInput{UserIDs: []int64{2, 3}})
		if err != nil || len(posts) != 2 {
			t.Fatalf("UsersPosts() unblocked = %+v, %v", posts, err)
		}

		_, err = f.uc.UsersPosts(as(1), UsersPostsInput{})
		wantStatus(t, err, 422)
	})
}

func TestFreezeComment_Permissions(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		allowed bool
	}{
		{name: "comment author", ctx: as(2), allowed: true},
		{name: "post author", ctx: as(1), allowed: true},
		{name: "admin", ctx: asAdmin(9), allowed: true},
		{name: "stranger", ctx: as(3), allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.mustPost(t, 1)
			c, err := f.uc.CreateComment(as(2), CreateCommentInput{PostID: p.ID, Content: "nice one"})
			if err != nil {
				t.Fatalf("CreateComment() error = %v", err)
			}
			in := CommentInput{PostID: p.ID, CommentID: c.ID}

			err = f.uc.FreezeComment(tt.ctx, in)
			if !tt.allowed {
				wantStatus(t, err, 404)
				return
			}
			if err != nil {
				t.Fatalf("FreezeComment() error = %v", err)
			}

			// only whoever froze it can bring it back
			wantStatus(t, f.uc.RestoreComment(as(3), in), 404)
			if err := f.uc.RestoreComment(tt.ctx, in); err != nil {
				t.Fatalf("RestoreComment() error = %v", err)
			}
		})
	}
}

func TestCommentLifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.mustPost(t, 1)

	_, err := f.uc.CreateComment(as(2), CreateCommentInput{PostID: 999, Content: "nice one"})
	wantStatus(t, err, 404)

	c, err := f.uc.CreateComment(as(2), CreateCommentInput{PostID: p.ID, Content: "nice one", Files: []upload.File{png("c.png")}})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	in := CommentInput{PostID: p.ID, CommentID: c.ID}

	_, err = f.uc.UpdateComment(as(1), UpdateCommentInput{PostID: p.ID, CommentID: c.ID, Content: "edited"})
	wantStatus(t, err, 404)
	got, err := f.uc.UpdateComment(as(2), UpdateCommentInput{PostID: p.ID, CommentID: c.ID, Content: "edited"})
	if err != nil || got.Content != "edited" || len(got.Attachments) != 1 {
		t.Fatalf("UpdateComment() = %+v, %v", got, err)
	}

	out, err := f.uc.ReactComment(as(3), in)
	if err != nil || !out.Liked {
		t.Fatalf("ReactComment() = %+v, %v", out, err)
	}

	_, err = f.uc.ReactComment(as(3), CommentInput{PostID: p.ID + 1, CommentID: c.ID})
	if !errors.Is(err, errCommentNotFound) {
		t.Fatalf("ReactComment() on other post error = %v", err)
	}
}

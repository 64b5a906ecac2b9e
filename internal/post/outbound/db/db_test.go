package db

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql/pgsqltest"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

var t0 = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T, ids ...int64) *DB {
	t.Helper()
	pool := pgsqltest.Postgres(t)
	for _, id := range ids {
		if _, err := pool.Exec(context.Background(),
			`INSERT INTO accounts (id, email, name) VALUES ($1, $2, $3)`,
			id, "u"+strconv.FormatInt(id, 10)+"@gosocial.test", "User "+strconv.FormatInt(id, 10)); err != nil {
			t.Fatalf("seed account: %v", err)
		}
	}
	return NewDB(pool, instrument.NewNoop())
}

func post(id, author int64) entity.Post {
	return entity.Post{ID: id, AuthorID: author, Content: "hello world", CreatedAt: t0, UpdatedAt: t0}
}

func comment(id, postID, author int64) entity.Comment {
	return entity.Comment{ID: id, PostID: postID, AuthorID: author, Content: "nice one", CreatedAt: t0, UpdatedAt: t0}
}

func TestDB_PostRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1)

	p := post(10, 1)
	p.Attachments = []upload.Attachment{{Key: "posts/10/a.png", URL: "https://cdn.test/posts/10/a.png"}}
	if err := db.CreatePost(ctx, p); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	got, err := db.GetPost(ctx, 10)
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	if got.Content != "hello world" || len(got.Attachments) != 1 || got.Attachments[0].Key != "posts/10/a.png" {
		t.Fatalf("unexpected post: %+v", got)
	}

	got.Attachments = nil
	got.Content = "edited"
	if err := db.UpdatePost(ctx, *got); err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	got, err = db.GetPost(ctx, 10)
	if err != nil || got.Content != "edited" || len(got.Attachments) != 0 {
		t.Fatalf("after update = %+v, %v", got, err)
	}

	if err := db.DeletePost(ctx, 10); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if _, err := db.GetPost(ctx, 10); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("GetPost() after delete error = %v", err)
	}
}

func TestDB_FreezeCascadesToComments(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t, 1, 2, 3)
	if err := db.CreatePost(ctx, post(10, 1)); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	for i, author := range []int64{2, 3} {
		if err := db.CreateComment(ctx, comment(int64(20+i), 10, author)); err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}
	}
	// frozen by someone else before the post goes
	if err := db.FreezeComment(ctx, 21, 3, t0); err != nil {
		t.Fatalf("FreezeComment() error = %v", err)
	}

	// Act
	if err := db.FreezePost(ctx, 10, 1, t0); err != nil {
		t.Fatalf("FreezePost() error = %v", err)
	}

	// Assert
	c, err := db.GetComment(ctx, 10, 20)
	if err != nil || !c.Deleted || c.DeletedBy != 1 {
		t.Fatalf("comment 20 = %+v, %v", c, err)
	}
	if err := db.FreezePost(ctx, 10, 1, t0); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("second FreezePost() error = %v", err)
	}
	if err := db.RestorePost(ctx, 10, 2, t0); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("RestorePost() by other error = %v", err)
	}

	if err := db.RestorePost(ctx, 10, 1, t0); err != nil {
		t.Fatalf("RestorePost() error = %v", err)
	}
	c, err = db.GetComment(ctx, 10, 20)
	if err != nil || c.Deleted {
		t.Fatalf("comment 20 after restore = %+v, %v", c, err)
	}
	c, err = db.GetComment(ctx, 10, 21)
	if err != nil || !c.Deleted || c.DeletedBy != 3 {
		t.Fatalf("comment 21 after restore = %+v, %v", c, err)
	}
}

func TestDB_ListPosts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1, 2)

	for i, p := range []entity.Post{post(10, 1), post(11, 1), post(12, 2), post(13, 1)} {
		p.CreatedAt = t0.Add(time.Duration(i) * time.Hour)
		if err := db.CreatePost(ctx, p); err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
	}
	if err := db.SetArchived(ctx, 11, true, t0); err != nil {
		t.Fatalf("SetArchived() error = %v", err)
	}
	if err := db.SetArchived(ctx, 11, true, t0); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("SetArchived() twice error = %v", err)
	}
	if err := db.CreateComment(ctx, comment(30, 13, 2)); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if _, err := db.TogglePostLike(ctx, 13, 2); err != nil {
		t.Fatalf("TogglePostLike() error = %v", err)
	}

	posts, err := db.ListPosts(ctx, []int64{1})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 2 || posts[0].ID != 13 || posts[1].ID != 10 {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if posts[0].Likes != 1 || len(posts[0].Comments) != 1 || posts[0].Author.Name != "User 1" {
		t.Fatalf("unexpected feed post: %+v", posts[0])
	}
}

func TestDB_ToggleLikes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1, 2)
	if err := db.CreatePost(ctx, post(10, 1)); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if err := db.CreateComment(ctx, comment(20, 10, 2)); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	for _, want := range []bool{true, false, true} {
		liked, err := db.TogglePostLike(ctx, 10, 2)
		if err != nil || liked != want {
			t.Fatalf("TogglePostLike() = %v, %v, want %v", liked, err, want)
		}
		liked, err = db.ToggleCommentLike(ctx, 20, 1)
		if err != nil || liked != want {
			t.Fatalf("ToggleCommentLike() = %v, %v, want %v", liked, err, want)
		}
	}
}

func TestDB_Relations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1, 2, 3)
	pool := db.conn
	if _, err := pool.Exec(ctx, `INSERT INTO account_friends (low_id, high_id) VALUES (1, 2), (2, 3)`); err != nil {
		t.Fatalf("seed friends: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO account_blocks (blocker_id, blocked_id) VALUES (3, 1)`); err != nil {
		t.Fatalf("seed blocks: %v", err)
	}

	ids, err := db.ListFriendIDs(ctx, 2)
	if err != nil || len(ids) != 2 {
		t.Fatalf("ListFriendIDs() = %v, %v", ids, err)
	}

	blockers, err := db.BlockersOf(ctx, 1, []int64{2, 3})
	if err != nil || len(blockers) != 1 || blockers[0] != 3 {
		t.Fatalf("BlockersOf() = %v, %v", blockers, err)
	}
}

func TestDB_CommentOnMissingPost(t *testing.T) {
	db := newTestDB(t, 1)

	err := db.CreateComment(context.Background(), comment(20, 99, 1))
	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("CreateComment() error = %v, want ErrNotFound", err)
	}
}

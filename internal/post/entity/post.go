// Package entity holds posts and comments as the post module sees them.
package entity

import (
	"time"

	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

const (
	// MaxAttachments is the most images a post or comment may carry.
	MaxAttachments = 5
	// UndoWindow is how long after creation a post can still be removed
	// for good.
	UndoWindow = 2 * time.Minute
	// ArchiveAfter is the minimum age of a post before it can be archived.
	ArchiveAfter = 24 * time.Hour
)

type Post struct {
	ID          int64
	AuthorID    int64
	Content     string
	Attachments []upload.Attachment
	Archived    bool
	Deleted     bool
	// DeletedBy is the account that froze the post, zero when live.
	DeletedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Visible reports whether the post shows up in feeds.
func (p Post) Visible() bool { return !p.Deleted && !p.Archived }

type Comment struct {
	ID          int64
	PostID      int64
	AuthorID    int64
	Content     string
	Attachments []upload.Attachment
	Deleted     bool
	DeletedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Author struct {
	ID    int64
	Name  string
	Email string
}

// FeedPost is a visible post with its author, like count and live comments.
type FeedPost struct {
	Post
	Author   Author
	Likes    int64
	Comments []Comment
}

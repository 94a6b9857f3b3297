// Package store provides the Postgres persistence behind the board and the
// FMS result report.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

// ErrNotFound is returned when a post does not exist.
var ErrNotFound = errors.New("not found")

// StoreError wraps a failed database operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// PostSummary is a row of the post list.
type PostSummary struct {
	ID        int64
	Title     string
	Author    string
	CreatedAt time.Time
	ViewCount int
	LikeCount int
}

// Post is a full post.
type Post struct {
	PostSummary
	Content   string
	UpdatedAt *time.Time
}

// Comment belongs to a post.
type Comment struct {
	ID        int64
	PostID    int64
	Author    string
	Content   string
	CreatedAt time.Time
}

// NewPost is the input for creating a post.
type NewPost struct {
	Title   string
	Author  string
	Content string
}

// Board is the persistence used by the board pages.
type Board interface {
	ListPosts(ctx context.Context) ([]PostSummary, error)
	CreatePost(ctx context.Context, p NewPost) (int64, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	IncrementViews(ctx context.Context, id int64) error
	UpdatePost(ctx context.Context, id int64, title, content string, at time.Time) error
	DeletePost(ctx context.Context, id int64) error
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
	AddComment(ctx context.Context, postID int64, author, content string) error
	HasLiked(ctx context.Context, postID int64, ip string) (bool, error)
	ToggleLike(ctx context.Context, postID int64, ip string) (bool, error)
	Ping(ctx context.Context) error
}

var (
	_ Board      = (*Postgres)(nil)
	_ fms.Source = (*Postgres)(nil)
)

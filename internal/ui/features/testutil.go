// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/store"
	"github.com/leapstack-labs/fmsboard/internal/ui/notifier"
)

// FakeBoard is an in-memory store.Board.
type FakeBoard struct {
	mu       sync.Mutex
	nextID   int64
	posts    map[int64]*store.Post
	comments map[int64][]store.Comment
	likes    map[int64]map[string]bool
	now      time.Time

	// Err, when set, is returned by every method.
	Err error
}

var _ store.Board = (*FakeBoard)(nil)

// NewFakeBoard returns an empty board.
func NewFakeBoard() *FakeBoard {
	return &FakeBoard{
		posts:    make(map[int64]*store.Post),
		comments: make(map[int64][]store.Comment),
		likes:    make(map[int64]map[string]bool),
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns increasing timestamps so ordering by time is stable.
func (f *FakeBoard) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

// Seed adds a post and returns its id.
func (f *FakeBoard) Seed(title, author, content string) int64 {
	id, _ := f.CreatePost(context.Background(), store.NewPost{Title: title, Author: author, Content: content})
	return id
}

// Post returns a copy of the stored post, or nil.
func (f *FakeBoard) Post(id int64) *store.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (f *FakeBoard) ListPosts(_ context.Context) ([]store.PostSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]store.PostSummary, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p.PostSummary)
	}
	slices.SortFunc(out, func(a, b store.PostSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (f *FakeBoard) CreatePost(_ context.Context, np store.NewPost) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	f.nextID++
	f.posts[f.nextID] = &store.Post{
		PostSummary: store.PostSummary{
			ID:        f.nextID,
			Title:     np.Title,
			Author:    np.Author,
			CreatedAt: f.tick(),
		},
		Content: np.Content,
	}
	return f.nextID, nil
}

func (f *FakeBoard) GetPost(_ context.Context, id int64) (*store.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *FakeBoard) IncrementViews(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if p, ok := f.posts[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (f *FakeBoard) UpdatePost(_ context.Context, id int64, title, content string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if p, ok := f.posts[id]; ok {
		p.Title, p.Content = title, content
		p.UpdatedAt = &at
	}
	return nil
}

func (f *FakeBoard) DeletePost(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	delete(f.posts, id)
	delete(f.comments, id)
	delete(f.likes, id)
	return nil
}

func (f *FakeBoard) ListComments(_ context.Context, postID int64) ([]store.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return slices.Clone(f.comments[postID]), nil
}

func (f *FakeBoard) AddComment(_ context.Context, postID int64, author, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.comments[postID] = append(f.comments[postID], store.Comment{
		ID:        int64(len(f.comments[postID]) + 1),
		PostID:    postID,
		Author:    author,
		Content:   content,
		CreatedAt: f.tick(),
	})
	return nil
}

func (f *FakeBoard) HasLiked(_ context.Context, postID int64, ip string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	return f.likes[postID][ip], nil
}

func (f *FakeBoard) ToggleLike(_ context.Context, postID int64, ip string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	if f.likes[postID] == nil {
		f.likes[postID] = make(map[string]bool)
	}
	liked := !f.likes[postID][ip]
	f.likes[postID][ip] = liked
	if p, ok := f.posts[postID]; ok {
		if liked {
			p.LikeCount++
		} else {
			p.LikeCount--
		}
	}
	return liked, nil
}

func (f *FakeBoard) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Err
}

// FakeSource is an fms.Source returning fixed records.
type FakeSource struct {
	Records []fms.Record
	Err     error
}

var _ fms.Source = (*FakeSource)(nil)

func (s *FakeSource) FetchAll(_ context.Context, table string) ([]fms.Record, error) {
	if s.Err != nil {
		return nil, &store.StoreError{Op: "fetch " + table, Err: s.Err}
	}
	return s.Records, nil
}

// ErrDatabaseDown is a convenience error for failure cases.
var ErrDatabaseDown = errors.New("connection refused")

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithCookies copies the cookies set on a previous response onto r.
func WithCookies(r *http.Request, resp *http.Response) *http.Request {
	for _, c := range resp.Cookies() {
		r.AddCookie(c)
	}
	return r
}

// NewTestNotifier creates a notifier for testing.
func NewTestNotifier() *notifier.Notifier {
	return notifier.New()
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

package board

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leapstack-labs/fmsboard/internal/testutil"
	"github.com/leapstack-labs/fmsboard/internal/ui/features"
	"github.com/leapstack-labs/fmsboard/internal/ui/features/common"
	"github.com/leapstack-labs/fmsboard/internal/ui/notifier"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

var fixedNow = time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

func setupTestHandlers(t *testing.T) (*Handlers, *features.FakeBoard, *notifier.Notifier) {
	t.Helper()

	board := features.NewFakeBoard()
	notify := features.NewTestNotifier()
	h := NewHandlers(board, features.NewTestSessionStore(), notify, testutil.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, board, notify
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withID(r *http.Request, id string) *http.Request {
	return features.RequestWithPathParam(r, "id", id)
}

// flashesAfter returns the flash messages a redirect response left behind.
func flashesAfter(t *testing.T, h *Handlers, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	req := features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec.Result())
	return common.ConsumeFlashes(httptest.NewRecorder(), req, h.sessionStore, h.logger)
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

// =============================================================================
// Page Tests
// =============================================================================

func TestListPosts(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	board.Seed("첫 글", "kim", "hello")
	board.Seed("둘째 글", "lee", "world")

	rec := httptest.NewRecorder()
	h.ListPosts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>게시판 - FMS Board</title>",
		`data-init="@get('/updates')"`,
		`id="post-list"`,
		`href="/post/1"`,
		`href="/post/2"`,
	} {
		assert.Contains(t, body, want)
	}
	// newest first
	assert.Less(t, strings.Index(body, "둘째 글"), strings.Index(body, "첫 글"))
}

func TestListPosts_Empty(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ListPosts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "게시글이 없습니다.")
}

func TestListPosts_StoreError(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	board.Err = features.ErrDatabaseDown

	rec := httptest.NewRecorder()
	h.ListPosts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestListPosts_EscapesTitles(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	board.Seed("<script>alert(1)</script>", "x", "y")

	rec := httptest.NewRecorder()
	h.ListPosts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantLoc   string
		wantFlash string
		wantPosts int
	}{
		{
			name:      "all fields",
			form:      url.Values{"title": {"제목"}, "author": {"kim"}, "content": {"본문"}},
			wantLoc:   "/post/1",
			wantFlash: MsgCreated,
			wantPosts: 1,
		},
		{
			name:      "missing title",
			form:      url.Values{"author": {"kim"}, "content": {"본문"}},
			wantLoc:   "/create/",
			wantFlash: MsgCreateMissing,
		},
		{
			name:      "empty author",
			form:      url.Values{"title": {"제목"}, "author": {""}, "content": {"본문"}},
			wantLoc:   "/create/",
			wantFlash: MsgCreateMissing,
		},
		{
			name:      "missing content",
			form:      url.Values{"title": {"제목"}, "author": {"kim"}},
			wantLoc:   "/create/",
			wantFlash: MsgCreateMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, board, _ := setupTestHandlers(t)

			rec := httptest.NewRecorder()
			h.CreatePost(rec, postForm("/create/", tt.form))

			assertRedirect(t, rec, tt.wantLoc)
			assert.Equal(t, []string{tt.wantFlash}, flashesAfter(t, h, rec))

			posts, err := board.ListPosts(context.Background())
			require.NoError(t, err)
			assert.Len(t, posts, tt.wantPosts)
		})
	}
}

func TestCreateForm_ShowsFlash(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.CreatePost(rec, postForm("/create/", url.Values{}))

	req := features.WithCookies(httptest.NewRequest(http.MethodGet, "/create/", nil), rec.Result())
	page := httptest.NewRecorder()
	h.CreateForm(page, req)

	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), MsgCreateMissing)
	assert.Contains(t, page.Body.String(), `action="/create/"`)
}

func TestViewPost(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	id := board.Seed("제목", "kim", "본문 내용")
	require.NoError(t, board.AddComment(context.Background(), id, "lee", "좋은 글"))

	rec := httptest.NewRecorder()
	h.ViewPost(rec, withID(httptest.NewRequest(http.MethodGet, "/post/1", nil), "1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "본문 내용")
	assert.Contains(t, body, "좋은 글")
	assert.Contains(t, body, `data-init="@get(&#39;/post/1/updates&#39;)"`)
	assert.Contains(t, body, `id="post-stats"`)
	assert.Contains(t, body, "♡ 좋아요")
	assert.Equal(t, 1, board.Post(id).ViewCount)
}

func TestViewPost_Liked(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	id := board.Seed("제목", "kim", "본문")

	req := withID(httptest.NewRequest(http.MethodGet, "/post/1", nil), "1")
	_, err := board.ToggleLike(context.Background(), id, common.ClientIP(req))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ViewPost(rec, req)

	assert.Contains(t, rec.Body.String(), "♥ 좋아요 취소")
}

func TestViewPost_NotFound(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ViewPost(rec, withID(httptest.NewRequest(http.MethodGet, "/post/9", nil), "9"))

	assertRedirect(t, rec, "/")
	assert.Equal(t, []string{MsgNotFound}, flashesAfter(t, h, rec))
}

func TestEditForm(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	board.Seed(`a "quoted" title`, "kim", "본문")

	rec := httptest.NewRecorder()
	h.EditForm(rec, withID(httptest.NewRequest(http.MethodGet, "/edit/1", nil), "1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="a &#34;quoted&#34; title"`)
	assert.Contains(t, rec.Body.String(), `action="/edit/1"`)

	missing := httptest.NewRecorder()
	h.EditForm(missing, withID(httptest.NewRequest(http.MethodGet, "/edit/2", nil), "2"))
	assertRedirect(t, missing, "/")
	assert.Equal(t, []string{MsgNotFound}, flashesAfter(t, h, missing))
}

func TestUpdatePost(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantLoc   string
		wantFlash string
		wantTitle string
	}{
		{
			name:      "updated",
			form:      url.Values{"title": {"새 제목"}, "content": {"새 본문"}},
			wantLoc:   "/post/1",
			wantFlash: MsgUpdated,
			wantTitle: "새 제목",
		},
		{
			name:      "missing content",
			form:      url.Values{"title": {"새 제목"}},
			wantLoc:   "/edit/1",
			wantFlash: MsgEditMissing,
			wantTitle: "제목",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, board, _ := setupTestHandlers(t)
			id := board.Seed("제목", "kim", "본문")

			rec := httptest.NewRecorder()
			h.UpdatePost(rec, withID(postForm("/edit/1", tt.form), "1"))

			assertRedirect(t, rec, tt.wantLoc)
			assert.Equal(t, []string{tt.wantFlash}, flashesAfter(t, h, rec))
			assert.Equal(t, tt.wantTitle, board.Post(id).Title)
		})
	}
}

func TestUpdatePost_StampsUpdatedAt(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	id := board.Seed("제목", "kim", "본문")

	rec := httptest.NewRecorder()
	h.UpdatePost(rec, withID(postForm("/edit/1", url.Values{"title": {"t"}, "content": {"c"}}), "1"))

	post := board.Post(id)
	require.NotNil(t, post.UpdatedAt)
	assert.Equal(t, fixedNow, *post.UpdatedAt)
}

func TestDeletePost(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	id := board.Seed("제목", "kim", "본문")

	rec := httptest.NewRecorder()
	h.DeletePost(rec, withID(httptest.NewRequest(http.MethodPost, "/delete/1", nil), "1"))

	assertRedirect(t, rec, "/")
	assert.Equal(t, []string{MsgDeleted}, flashesAfter(t, h, rec))
	assert.Nil(t, board.Post(id))
}

func TestAddComment(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	id := board.Seed("제목", "kim", "본문")

	rec := httptest.NewRecorder()
	h.AddComment(rec, withID(postForm("/post/comment/1", url.Values{"author": {"lee"}, "content": {"댓글"}}), "1"))
	assertRedirect(t, rec, "/post/1")
	assert.Equal(t, []string{MsgCommented}, flashesAfter(t, h, rec))

	missing := httptest.NewRecorder()
	h.AddComment(missing, withID(postForm("/post/comment/1", url.Values{"author": {"lee"}}), "1"))
	assertRedirect(t, missing, "/post/1")
	assert.Equal(t, []string{MsgCommentMissing}, flashesAfter(t, h, missing))

	comments, err := board.ListComments(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "댓글", comments[0].Content)
}

func TestToggleLike(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	id := board.Seed("제목", "kim", "본문")

	like := func() *httptest.ResponseRecorder {
		req := withID(httptest.NewRequest(http.MethodPost, "/post/like/1", nil), "1")
		req.RemoteAddr = "203.0.113.7:40000"
		rec := httptest.NewRecorder()
		h.ToggleLike(rec, req)
		return rec
	}

	rec := like()
	assertRedirect(t, rec, "/post/1")
	assert.Equal(t, []string{MsgLiked}, flashesAfter(t, h, rec))
	assert.Equal(t, 1, board.Post(id).LikeCount)

	rec = like()
	assert.Equal(t, []string{MsgUnliked}, flashesAfter(t, h, rec))
	assert.Equal(t, 0, board.Post(id).LikeCount)
}

func TestStoreErrors(t *testing.T) {
	h, board, _ := setupTestHandlers(t)
	board.Seed("제목", "kim", "본문")
	board.Err = features.ErrDatabaseDown

	handlers := map[string]http.HandlerFunc{
		"view":    h.ViewPost,
		"edit":    h.EditForm,
		"delete":  h.DeletePost,
		"like":    h.ToggleLike,
		"comment": h.AddComment,
		"update":  h.UpdatePost,
	}
	form := url.Values{"title": {"t"}, "author": {"a"}, "content": {"c"}}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(rec, withID(postForm("/x/1", form), "1"))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}
}

func TestInvalidID(t *testing.T) {
	h, _, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ViewPost(rec, withID(httptest.NewRequest(http.MethodGet, "/post/abc", nil), "abc"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes(t *testing.T) {
	board := features.NewFakeBoard()
	board.Seed("제목", "kim", "본문")
	r := chi.NewRouter()
	SetupRoutes(r, board, features.NewTestSessionStore(), features.NewTestNotifier(), testutil.NewTestLogger(t))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/create/", http.StatusOK},
		{http.MethodGet, "/post/1", http.StatusOK},
		{http.MethodGet, "/edit/1", http.StatusOK},
		{http.MethodGet, "/post/abc", http.StatusNotFound},
		{http.MethodGet, "/edit/-1", http.StatusNotFound},
		{http.MethodPost, "/delete/x", http.StatusNotFound},
		{http.MethodGet, "/delete/1", http.StatusMethodNotAllowed},
		{http.MethodPost, "/post/like/1", http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// =============================================================================
// SSE Tests
// =============================================================================

// runSSE starts handler and returns a cancel func that waits for it to exit.
func runSSE(t *testing.T, n *notifier.Notifier, handler http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, func(), <-chan struct{}) {
	t.Helper()

	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return n.Len() == 1 }, time.Second, 5*time.Millisecond)

	stop := func() {
		cancel()
		<-done
	}
	return rec, stop, done
}

func TestListUpdates_SendsListOnEvent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h, board, notify := setupTestHandlers(t)
	board.Seed("실시간 글", "kim", "본문")

	rec, stop, _ := runSSE(t, notify, h.ListUpdates, httptest.NewRequest(http.MethodGet, "/updates", nil))
	notify.Publish(notifier.Event{PostID: 1})
	time.Sleep(50 * time.Millisecond)
	stop()

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, "post-list")
	assert.Contains(t, body, "실시간 글")
	assert.Equal(t, 0, notify.Len())
}

func TestListUpdates_NoInitialState(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h, board, notify := setupTestHandlers(t)
	board.Seed("글", "kim", "본문")

	rec, stop, _ := runSSE(t, notify, h.ListUpdates, httptest.NewRequest(http.MethodGet, "/updates", nil))
	time.Sleep(30 * time.Millisecond)
	stop()

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"))
}

func TestPostUpdates_FiltersByPost(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h, board, notify := setupTestHandlers(t)
	board.Seed("하나", "kim", "본문")
	board.Seed("둘", "kim", "본문")

	req := withID(httptest.NewRequest(http.MethodGet, "/post/1/updates", nil), "1")
	rec, stop, _ := runSSE(t, notify, h.PostUpdates, req)

	notify.Publish(notifier.Event{PostID: 2})
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, board.IncrementViews(context.Background(), 1))
	notify.Publish(notifier.Event{PostID: 1})
	time.Sleep(50 * time.Millisecond)
	stop()

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, "event:"))
	assert.Contains(t, body, "post-stats")
	assert.Contains(t, body, "조회 1")
}

func TestPostUpdates_DeletedPostRedirects(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h, board, notify := setupTestHandlers(t)
	board.Seed("하나", "kim", "본문")

	req := withID(httptest.NewRequest(http.MethodGet, "/post/1/updates", nil), "1")
	rec, stop, done := runSSE(t, notify, h.PostUpdates, req)
	defer stop()

	require.NoError(t, board.DeletePost(context.Background(), 1))
	notify.Publish(notifier.Event{PostID: 1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler kept streaming for a deleted post")
	}
	assert.Contains(t, rec.Body.String(), "window.location.href")
}

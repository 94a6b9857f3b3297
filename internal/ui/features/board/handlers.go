package board

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/fmsboard/internal/store"
	"github.com/leapstack-labs/fmsboard/internal/ui/features/board/pages"
	"github.com/leapstack-labs/fmsboard/internal/ui/features/common"
	"github.com/leapstack-labs/fmsboard/internal/ui/notifier"
)

// Flash messages shown after board actions.
const (
	MsgCreateMissing  = "모든 필드를 똑바로 채워주세요!!!!"
	MsgCreated        = "게시글이 성공적으로 등록되었음"
	MsgNotFound       = "게시글을 찾을 수 없습니다."
	MsgEditMissing    = "제목과 내용을 모두 입력해주세요."
	MsgUpdated        = "게시글이 성공적으로 수정되었습니다."
	MsgDeleted        = "게시글이 성공적으로 삭제되었습니다."
	MsgCommentMissing = "작성자와 내용을 모두 입력해주세요."
	MsgCommented      = "댓글이 등록되었습니다."
	MsgUnliked        = "좋아요가 취소되었습니다."
	MsgLiked          = "좋아요가 등록되었습니다."
)

// Handlers provides HTTP handlers for the board feature.
type Handlers struct {
	board        store.Board
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(board store.Board, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		board:        board,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
		now:          time.Now,
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	common.Render(w, r, common.Page{
		Title:   title,
		Flashes: common.ConsumeFlashes(w, r, h.sessionStore, h.logger),
		Body:    body,
	})
}

func (h *Handlers) flash(w http.ResponseWriter, r *http.Request, msg, url string) {
	common.FlashRedirect(w, r, h.sessionStore, h.logger, msg, url)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("board request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handlers) publish(postID int64) {
	if h.notifier != nil {
		h.notifier.Publish(notifier.Event{PostID: postID})
	}
}

func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := common.IDParam(r, "id")
	if !ok {
		http.NotFound(w, r)
	}
	return id, ok
}

// formValue returns the submitted field. Presence is the only check made on
// board input.
func formValue(r *http.Request, key string) string {
	return r.PostFormValue(key)
}

// ListPosts renders every post, newest first.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.board.ListPosts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "게시판", pages.ListPage(posts))
}

// CreateForm renders the new post form.
func (h *Handlers) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "글쓰기", pages.CreatePage())
}

// CreatePost stores a new post and redirects to it.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	np := store.NewPost{
		Title:   formValue(r, "title"),
		Author:  formValue(r, "author"),
		Content: formValue(r, "content"),
	}
	if np.Title == "" || np.Author == "" || np.Content == "" {
		h.flash(w, r, MsgCreateMissing, "/create/")
		return
	}

	id, err := h.board.CreatePost(r.Context(), np)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(id)
	h.flash(w, r, MsgCreated, pages.PostURL(id))
}

// ViewPost counts a view and renders the post with its comments.
func (h *Handlers) ViewPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.board.IncrementViews(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	post, err := h.board.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		h.flash(w, r, MsgNotFound, "/")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	comments, err := h.board.ListComments(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	liked, err := h.board.HasLiked(ctx, id, common.ClientIP(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.publish(id)
	h.render(w, r, post.Title, pages.PostPage(post, comments, liked))
}

// EditForm renders the edit form for a post.
func (h *Handlers) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := h.board.GetPost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.flash(w, r, MsgNotFound, "/")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "글 수정", pages.EditPage(post))
}

// UpdatePost saves a new title and content.
func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	title, content := formValue(r, "title"), formValue(r, "content")
	if title == "" || content == "" {
		h.flash(w, r, MsgEditMissing, "/edit/"+strconv.FormatInt(id, 10))
		return
	}

	if err := h.board.UpdatePost(r.Context(), id, title, content, h.now()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(id)
	h.flash(w, r, MsgUpdated, pages.PostURL(id))
}

// DeletePost removes a post.
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.board.DeletePost(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(id)
	h.flash(w, r, MsgDeleted, "/")
}

// AddComment appends a comment to a post.
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	author, content := formValue(r, "author"), formValue(r, "content")
	if author == "" || content == "" {
		h.flash(w, r, MsgCommentMissing, pages.PostURL(id))
		return
	}

	if err := h.board.AddComment(r.Context(), id, author, content); err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(id)
	h.flash(w, r, MsgCommented, pages.PostURL(id))
}

// ToggleLike likes or unlikes a post for the client IP.
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	liked, err := h.board.ToggleLike(r.Context(), id, common.ClientIP(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.publish(id)
	msg := MsgUnliked
	if liked {
		msg = MsgLiked
	}
	h.flash(w, r, msg, pages.PostURL(id))
}

// ListUpdates is the long-lived SSE endpoint for the index page. It does not
// send initial state; ListPosts already rendered it.
func (h *Handlers) ListUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	sub := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			if err := h.sendPostList(ctx, sse); err != nil {
				_ = sse.ConsoleError(err)
				// keep trying on the next event
			}
		}
	}
}

func (h *Handlers) sendPostList(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	posts, err := h.board.ListPosts(ctx)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(pages.PostList(posts))
}

// PostUpdates is the SSE endpoint of a single post. It re-renders the
// counters when that post changes and sends the visitor home once the post
// is deleted.
func (h *Handlers) PostUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	ip := common.ClientIP(r)
	sse := datastar.NewSSE(w, r)

	sub := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if ev.PostID != id && ev.PostID != 0 {
				continue
			}
			gone, err := h.sendPostStats(ctx, sse, id, ip)
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if gone {
				return
			}
		}
	}
}

func (h *Handlers) sendPostStats(ctx context.Context, sse *datastar.ServerSentEventGenerator, id int64, ip string) (bool, error) {
	post, err := h.board.GetPost(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return true, sse.ExecuteScript("window.location.href = '/'")
	}
	if err != nil {
		return false, err
	}
	liked, err := h.board.HasLiked(ctx, id, ip)
	if err != nil {
		return false, err
	}
	return false, sse.PatchElementTempl(pages.PostStats(post, liked))
}

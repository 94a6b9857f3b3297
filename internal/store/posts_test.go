package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_ListPosts(t *testing.T) {
	p, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, title, author, created_at, view_count, like_count FROM "board"."posts" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author", "created_at", "view_count", "like_count"}).
			AddRow(2, "second", "kim", created, 5, 1).
			AddRow(1, "first", "lee", created.Add(-time.Hour), 0, 0))

	posts, err := p.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, PostSummary{ID: 2, Title: "second", Author: "kim", CreatedAt: created, ViewCount: 5, LikeCount: 1}, posts[0])
	assert.Equal(t, int64(1), posts[1].ID)
}

func TestPostgres_ListPostsError(t *testing.T) {
	p, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT id, title, author, created_at, view_count, like_count FROM "board"."posts" ORDER BY created_at DESC`).
		WillReturnError(errors.New("relation does not exist"))

	_, err := p.ListPosts(context.Background())

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "list posts", storeErr.Op)
}

func TestPostgres_CreatePost(t *testing.T) {
	p, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO "board"."posts" (title, content, author) VALUES ($1, $2, $3) RETURNING id`).
		WithArgs("hello", "body", "kim").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := p.CreatePost(context.Background(), NewPost{Title: "hello", Author: "kim", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestPostgres_GetPost(t *testing.T) {
	const query = `SELECT id, title, content, author, created_at, updated_at, view_count, like_count FROM "board"."posts" WHERE id = $1`
	cols := []string{"id", "title", "content", "author", "created_at", "updated_at", "view_count", "like_count"}
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("found and edited", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(query).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "t", "c", "a", created, updated, 3, 2))

		post, err := p.GetPost(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "c", post.Content)
		require.NotNil(t, post.UpdatedAt)
		assert.Equal(t, updated, *post.UpdatedAt)
		assert.Equal(t, 3, post.ViewCount)
	})

	t.Run("never edited", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(query).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "t", "c", "a", created, nil, 0, 0))

		post, err := p.GetPost(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, post.UpdatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(query).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(cols))

		_, err := p.GetPost(context.Background(), 9)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgres_Mutations(t *testing.T) {
	at := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query string
		args  []driver.Value
		run   func(p *Postgres) error
	}{
		{
			name:  "increment views",
			query: `UPDATE "board"."posts" SET view_count = view_count + 1 WHERE id = $1`,
			args:  []driver.Value{int64(1)},
			run:   func(p *Postgres) error { return p.IncrementViews(context.Background(), 1) },
		},
		{
			name:  "update post",
			query: `UPDATE "board"."posts" SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
			args:  []driver.Value{"t", "c", at, int64(1)},
			run:   func(p *Postgres) error { return p.UpdatePost(context.Background(), 1, "t", "c", at) },
		},
		{
			name:  "delete post",
			query: `DELETE FROM "board"."posts" WHERE id = $1`,
			args:  []driver.Value{int64(1)},
			run:   func(p *Postgres) error { return p.DeletePost(context.Background(), 1) },
		},
		{
			name:  "add comment",
			query: `INSERT INTO "board"."comments" (post_id, author, content) VALUES ($1, $2, $3)`,
			args:  []driver.Value{int64(1), "park", "nice"},
			run:   func(p *Postgres) error { return p.AddComment(context.Background(), 1, "park", "nice") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newMockStore(t)
			mock.ExpectExec(tt.query).WithArgs(tt.args...).WillReturnResult(sqlmock.NewResult(0, 1))
			require.NoError(t, tt.run(p))
		})

		t.Run(tt.name+" error", func(t *testing.T) {
			p, mock := newMockStore(t)
			mock.ExpectExec(tt.query).WillReturnError(errors.New("boom"))
			err := tt.run(p)
			var storeErr *StoreError
			require.ErrorAs(t, err, &storeErr)
		})
	}
}

func TestPostgres_CustomSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`DELETE FROM "forum"."posts" WHERE id = $1`).WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, New(db, "forum", nil).DeletePost(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

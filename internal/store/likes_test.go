package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	countLikes     = `SELECT COUNT(*) FROM "board"."likes" WHERE post_id = $1 AND user_ip = $2`
	deleteLike     = `DELETE FROM "board"."likes" WHERE post_id = $1 AND user_ip = $2`
	insertLike     = `INSERT INTO "board"."likes" (post_id, user_ip) VALUES ($1, $2)`
	decrementLikes = `UPDATE "board"."posts" SET like_count = like_count - 1 WHERE id = $1`
	incrementLikes = `UPDATE "board"."posts" SET like_count = like_count + 1 WHERE id = $1`
)

func TestPostgres_HasLiked(t *testing.T) {
	p, mock := newMockStore(t)
	mock.ExpectQuery(countLikes).WithArgs(int64(5), "10.0.0.1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(countLikes).WithArgs(int64(5), "10.0.0.2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	liked, err := p.HasLiked(context.Background(), 5, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = p.HasLiked(context.Background(), 5, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestPostgres_ToggleLike(t *testing.T) {
	t.Run("like", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(countLikes).WithArgs(int64(5), "10.0.0.1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(insertLike).WithArgs(int64(5), "10.0.0.1").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(incrementLikes).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

		liked, err := p.ToggleLike(context.Background(), 5, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, liked)
	})

	t.Run("unlike", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(countLikes).WithArgs(int64(5), "10.0.0.1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectExec(deleteLike).WithArgs(int64(5), "10.0.0.1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(decrementLikes).WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

		liked, err := p.ToggleLike(context.Background(), 5, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("count fails", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(countLikes).WillReturnError(errors.New("boom"))

		_, err := p.ToggleLike(context.Background(), 5, "10.0.0.1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "check like")
	})

	t.Run("counter update fails after insert", func(t *testing.T) {
		p, mock := newMockStore(t)
		mock.ExpectQuery(countLikes).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(insertLike).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(incrementLikes).WillReturnError(errors.New("boom"))

		liked, err := p.ToggleLike(context.Background(), 5, "10.0.0.1")
		require.Error(t, err)
		assert.True(t, liked, "the like row was written even though the counter was not")
	})
}

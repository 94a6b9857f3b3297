package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ListPosts returns every post, newest first.
func (p *Postgres) ListPosts(ctx context.Context) ([]PostSummary, error) {
	query := fmt.Sprintf(
		`SELECT id, title, author, created_at, view_count, like_count FROM %s ORDER BY created_at DESC`,
		p.table("posts"))

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap("list posts", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []PostSummary
	for rows.Next() {
		var ps PostSummary
		if err := rows.Scan(&ps.ID, &ps.Title, &ps.Author, &ps.CreatedAt, &ps.ViewCount, &ps.LikeCount); err != nil {
			return nil, wrap("scan post", err)
		}
		posts = append(posts, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list posts", err)
	}
	return posts, nil
}

// CreatePost inserts a post and returns its id.
func (p *Postgres) CreatePost(ctx context.Context, np NewPost) (int64, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (title, content, author) VALUES ($1, $2, $3) RETURNING id`,
		p.table("posts"))

	var id int64
	if err := p.db.QueryRowContext(ctx, query, np.Title, np.Content, np.Author).Scan(&id); err != nil {
		return 0, wrap("create post", err)
	}
	p.logger.Debug("post created", "id", id, "author", np.Author)
	return id, nil
}

// GetPost loads a post. It returns ErrNotFound when the id is unknown.
func (p *Postgres) GetPost(ctx context.Context, id int64) (*Post, error) {
	query := fmt.Sprintf(
		`SELECT id, title, content, author, created_at, updated_at, view_count, like_count FROM %s WHERE id = $1`,
		p.table("posts"))

	var (
		post      Post
		updatedAt sql.NullTime
	)
	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Content, &post.Author,
		&post.CreatedAt, &updatedAt, &post.ViewCount, &post.LikeCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get post", err)
	}
	if updatedAt.Valid {
		post.UpdatedAt = &updatedAt.Time
	}
	return &post, nil
}

// IncrementViews bumps the view counter of a post.
func (p *Postgres) IncrementViews(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE %s SET view_count = view_count + 1 WHERE id = $1`, p.table("posts"))
	_, err := p.db.ExecContext(ctx, query, id)
	return wrap("increment views", err)
}

// UpdatePost replaces title and content and stamps updated_at.
func (p *Postgres) UpdatePost(ctx context.Context, id int64, title, content string, at time.Time) error {
	query := fmt.Sprintf(
		`UPDATE %s SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		p.table("posts"))
	_, err := p.db.ExecContext(ctx, query, title, content, at, id)
	return wrap("update post", err)
}

// DeletePost removes a post. Deleting a missing post is not an error.
func (p *Postgres) DeletePost(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, p.table("posts"))
	_, err := p.db.ExecContext(ctx, query, id)
	return wrap("delete post", err)
}

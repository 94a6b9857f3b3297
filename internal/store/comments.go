package store

import (
	"context"
	"fmt"
)

// ListComments returns the comments of a post, oldest first.
func (p *Postgres) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	query := fmt.Sprintf(
		`SELECT id, post_id, author, content, created_at FROM %s WHERE post_id = $1 ORDER BY created_at`,
		p.table("comments"))

	rows, err := p.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, wrap("scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list comments", err)
	}
	return comments, nil
}

// AddComment inserts a comment.
func (p *Postgres) AddComment(ctx context.Context, postID int64, author, content string) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (post_id, author, content) VALUES ($1, $2, $3)`,
		p.table("comments"))
	_, err := p.db.ExecContext(ctx, query, postID, author, content)
	return wrap("add comment", err)
}

package store

import (
	"context"
	"fmt"
)

// HasLiked reports whether ip has liked the post.
func (p *Postgres) HasLiked(ctx context.Context, postID int64, ip string) (bool, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE post_id = $1 AND user_ip = $2`,
		p.table("likes"))

	var n int
	if err := p.db.QueryRowContext(ctx, query, postID, ip).Scan(&n); err != nil {
		return false, wrap("check like", err)
	}
	return n > 0, nil
}

// ToggleLike flips the like of ip on the post and keeps like_count in step.
// It reports whether the post is liked afterwards. The statements run one
// after another without a transaction.
func (p *Postgres) ToggleLike(ctx context.Context, postID int64, ip string) (bool, error) {
	liked, err := p.HasLiked(ctx, postID, ip)
	if err != nil {
		return false, err
	}

	likes, posts := p.table("likes"), p.table("posts")
	if liked {
		if _, err := p.db.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE post_id = $1 AND user_ip = $2`, likes),
			postID, ip); err != nil {
			return true, wrap("remove like", err)
		}
		if _, err := p.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET like_count = like_count - 1 WHERE id = $1`, posts),
			postID); err != nil {
			return false, wrap("decrement likes", err)
		}
		return false, nil
	}

	if _, err := p.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (post_id, user_ip) VALUES ($1, $2)`, likes),
		postID, ip); err != nil {
		return false, wrap("add like", err)
	}
	if _, err := p.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET like_count = like_count + 1 WHERE id = $1`, posts),
		postID); err != nil {
		return true, wrap("increment likes", err)
	}
	return true, nil
}

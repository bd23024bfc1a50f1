package database

import (
	"database/sql"
	"fmt"
)

var _ PostRepository = (*PostRepo)(nil)

// PostRepo handles database operations for processed posts
type PostRepo struct {
	db *DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// MarkProcessed records the post as seen. The UNIQUE constraint on post_hash
// is the authoritative duplicate check: a conflicting insert affects zero
// rows and is reported as "already seen", never as an error.
func (r *PostRepo) MarkProcessed(post ProcessedPost) (bool, error) {
	result, err := r.db.Exec(`
		INSERT INTO processed_posts (post_hash, title, content, event_at, notifications_sent)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(post_hash) DO NOTHING
	`, post.PostHash, post.Title, post.Content, post.EventAt, post.NotificationsSent)
	if err != nil {
		return false, fmt.Errorf("failed to insert processed post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetRecentPosts returns the most recently processed posts.
func (r *PostRepo) GetRecentPosts(limit int) ([]ProcessedPost, error) {
	rows, err := r.db.Query(`
		SELECT id, post_hash, title, content, event_at, notifications_sent, processed_at
		FROM processed_posts
		ORDER BY processed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent posts: %w", err)
	}
	defer rows.Close()

	var posts []ProcessedPost
	for rows.Next() {
		var p ProcessedPost
		if err := rows.Scan(&p.ID, &p.PostHash, &p.Title, &p.Content, &p.EventAt, &p.NotificationsSent, &p.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// GetLastPost returns the most recently processed post, or nil when the
// table is empty.
func (r *PostRepo) GetLastPost() (*ProcessedPost, error) {
	var p ProcessedPost
	err := r.db.QueryRow(`
		SELECT id, post_hash, title, content, event_at, notifications_sent, processed_at
		FROM processed_posts
		ORDER BY processed_at DESC, id DESC
		LIMIT 1
	`).Scan(&p.ID, &p.PostHash, &p.Title, &p.Content, &p.EventAt, &p.NotificationsSent, &p.ProcessedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last post: %w", err)
	}

	return &p, nil
}

// GetPostCount returns the total number of processed posts.
func (r *PostRepo) GetPostCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM processed_posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}

	return count, nil
}

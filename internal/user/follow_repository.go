package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// FollowRepository persists the follow graph.
type FollowRepository struct {
	db *sql.DB
}

// NewFollowRepository creates a new FollowRepository.
func NewFollowRepository(d *sql.DB) *FollowRepository {
	return &FollowRepository{db: d}
}

// Follow records that follower follows target. Following someone twice
// is not an error.
func (r *FollowRepository) Follow(ctx context.Context, followerID, targetID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, targetID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge, if present.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, targetID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// ListFollowing returns the users the given user follows.
func (r *FollowRepository) ListFollowing(ctx context.Context, followerID string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.email, u.created_at
		 FROM follows f JOIN users u ON u.id = f.followed_id
		 WHERE f.follower_id = ?
		 ORDER BY f.created_at`,
		followerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan followed user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

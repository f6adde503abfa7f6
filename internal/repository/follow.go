package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

// Follow inserts the pair. A duplicate fails on follows_pkey.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	stmt := `INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2)`

	if _, err := r.pool.Exec(ctx, stmt, followerID, followedID); err != nil {
		return fmt.Errorf("failed to follow %s -> %s: %w", followerID, followedID, err)
	}
	return nil
}

// Unfollow deletes the pair if present.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	stmt := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`

	if _, err := r.pool.Exec(ctx, stmt, followerID, followedID); err != nil {
		return fmt.Errorf("failed to unfollow %s -> %s: %w", followerID, followedID, err)
	}
	return nil
}

func (r *FollowRepository) Stats(ctx context.Context, userID uuid.UUID) (model.FollowStats, error) {
	stmt := `
		SELECT
			(SELECT count(*) FROM follows WHERE followed_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1)`

	var stats model.FollowStats
	if err := r.pool.QueryRow(ctx, stmt, userID).Scan(&stats.Followers, &stats.Following); err != nil {
		return stats, fmt.Errorf("failed to count follows for user_id=%s: %w", userID, err)
	}
	return stats, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	stmt := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`

	var ok bool
	if err := r.pool.QueryRow(ctx, stmt, followerID, followedID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check follow %s -> %s: %w", followerID, followedID, err)
	}
	return ok, nil
}

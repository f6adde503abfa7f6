package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EngagementRepository stores likes and comments on memes and battles.
// The target column is chosen by model.PostType, never from user input.
type EngagementRepository struct {
	pool *pgxpool.Pool
}

func NewEngagementRepository(pool *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{pool: pool}
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func postExists(ctx context.Context, q querier, postType model.PostType, postID uuid.UUID) (bool, error) {
	stmt := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, postType.Table())

	var ok bool
	err := q.QueryRow(ctx, stmt, postID).Scan(&ok)
	return ok, err
}

func countLikes(ctx context.Context, q querier, postType model.PostType, postID uuid.UUID) (int64, error) {
	stmt := fmt.Sprintf(`SELECT count(*) FROM likes WHERE %s = $1`, postType.Column())

	var n int64
	err := q.QueryRow(ctx, stmt, postID).Scan(&n)
	return n, err
}

// ToggleLike removes userID's like on the post when present and adds it
// otherwise, returning the resulting state. Both steps run in one
// transaction so the count matches the toggle.
func (r *EngagementRepository) ToggleLike(ctx context.Context, userID uuid.UUID, postType model.PostType, postID uuid.UUID) (model.LikeState, error) {
	var state model.LikeState

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		ok, err := postExists(ctx, tx, postType, postID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(postType.Table())
		}

		deleteStmt := fmt.Sprintf(`DELETE FROM likes WHERE user_id = $1 AND %s = $2`, postType.Column())
		tag, err := tx.Exec(ctx, deleteStmt, userID, postID)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			insertStmt := fmt.Sprintf(
				`INSERT INTO likes (user_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				postType.Column(),
			)
			if _, err := tx.Exec(ctx, insertStmt, userID, postID); err != nil {
				return err
			}
			state.Liked = true
		}

		state.LikesCount, err = countLikes(ctx, tx, postType, postID)
		return err
	})
	if err != nil {
		return state, fmt.Errorf("failed to toggle like on %s id=%s: %w", postType, postID, err)
	}
	return state, nil
}

func (r *EngagementRepository) LikesCount(ctx context.Context, postType model.PostType, postID uuid.UUID) (int64, error) {
	n, err := countLikes(ctx, r.pool, postType, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes on %s id=%s: %w", postType, postID, err)
	}
	return n, nil
}

func (r *EngagementRepository) PostExists(ctx context.Context, postType model.PostType, postID uuid.UUID) (bool, error) {
	ok, err := postExists(ctx, r.pool, postType, postID)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s id=%s: %w", postType, postID, err)
	}
	return ok, nil
}

var commentSelect = `
	SELECT
		c.id, c.user_id, c.meme_id, c.battle_id, c.parent_comment_id, c.content, c.created_at,
		` + authorColumns("p") + `
	FROM comments c
	JOIN profiles p ON p.id = c.user_id`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var (
		c      model.Comment
		author model.Author
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.MemeID, &c.BattleID, &c.ParentCommentID, &c.Content, &c.CreatedAt,
		&author.ID, &author.Username, &author.Handle, &author.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	c.Author = &author
	return &c, nil
}

func (r *EngagementRepository) AddComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	stmt := `
		INSERT INTO comments (user_id, meme_id, battle_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, stmt, c.UserID, c.MemeID, c.BattleID, c.ParentCommentID, c.Content).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment by user_id=%s: %w", c.UserID, err)
	}

	return r.GetComment(ctx, id)
}

func (r *EngagementRepository) GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get comment id=%s: %w", id, notFound("comments"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment id=%s: %w", id, err)
	}
	return c, nil
}

// ListComments returns the post's comments oldest first.
func (r *EngagementRepository) ListComments(ctx context.Context, postType model.PostType, postID uuid.UUID) ([]model.Comment, error) {
	stmt := commentSelect + fmt.Sprintf(` WHERE c.%s = $1 ORDER BY c.created_at ASC, c.id`, postType.Column())

	rows, err := r.pool.Query(ctx, stmt, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments on %s id=%s: %w", postType, postID, err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return model.Comment{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect comments on %s id=%s: %w", postType, postID, err)
	}
	return comments, nil
}

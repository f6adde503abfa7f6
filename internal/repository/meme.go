package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemeRepository struct {
	pool *pgxpool.Pool
}

func NewMemeRepository(pool *pgxpool.Pool) *MemeRepository {
	return &MemeRepository{pool: pool}
}

// memeSelect reads memes with creator, counts and has_liked for the viewer
// bound to $1 (NULL for anonymous).
var memeSelect = `
	SELECT
		m.id, m.creator_id, m.image_url, m.storage_path, m.caption,
		m.reward_amount, m.reward_token, m.created_at, m.updated_at,
		` + authorColumns("p") + `,
		(SELECT count(*) FROM likes l WHERE l.meme_id = m.id),
		(SELECT count(*) FROM comments c WHERE c.meme_id = m.id),
		EXISTS (SELECT 1 FROM likes l WHERE l.meme_id = m.id AND l.user_id = $1::uuid)
	FROM memes m
	JOIN profiles p ON p.id = m.creator_id`

func scanMeme(row pgx.Row) (*model.Meme, error) {
	var (
		m      model.Meme
		author model.Author
	)
	err := row.Scan(
		&m.ID, &m.CreatorID, &m.ImageURL, &m.StoragePath, &m.Caption,
		&m.RewardAmount, &m.RewardToken, &m.CreatedAt, &m.UpdatedAt,
		&author.ID, &author.Username, &author.Handle, &author.AvatarURL,
		&m.LikesCount, &m.CommentsCount, &m.HasLiked,
	)
	if err != nil {
		return nil, err
	}
	m.Creator = &author
	return &m, nil
}

func collectMemes(rows pgx.Rows) ([]model.Meme, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Meme, error) {
		m, err := scanMeme(row)
		if err != nil {
			return model.Meme{}, err
		}
		return *m, nil
	})
}

func (r *MemeRepository) Create(ctx context.Context, m *model.Meme) (*model.Meme, error) {
	stmt := `
		INSERT INTO memes (creator_id, image_url, storage_path, caption)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, stmt, m.CreatorID, m.ImageURL, m.StoragePath, m.Caption).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create meme for creator_id=%s: %w", m.CreatorID, err)
	}

	return r.GetByID(ctx, id, &m.CreatorID)
}

func (r *MemeRepository) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Meme, error) {
	stmt := memeSelect + ` WHERE m.id = $2`

	m, err := scanMeme(r.pool.QueryRow(ctx, stmt, nullableUUID(viewerID), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get meme id=%s: %w", id, notFound("memes"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meme id=%s: %w", id, err)
	}
	return m, nil
}

// DeleteOwned removes the meme only when creatorID made it and returns the
// deleted row, so the caller can clean up its image.
func (r *MemeRepository) DeleteOwned(ctx context.Context, id, creatorID uuid.UUID) (*model.Meme, error) {
	stmt := `
		DELETE FROM memes
		WHERE id = $1 AND creator_id = $2
		RETURNING id, creator_id, image_url, storage_path, caption, created_at`

	var m model.Meme
	err := r.pool.QueryRow(ctx, stmt, id, creatorID).Scan(
		&m.ID, &m.CreatorID, &m.ImageURL, &m.StoragePath, &m.Caption, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to delete meme id=%s: %w", id, notFound("memes"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete meme id=%s: %w", id, err)
	}
	return &m, nil
}

// ListLatest returns up to limit memes created strictly before the cursor,
// newest first, without viewer state.
func (r *MemeRepository) ListLatest(ctx context.Context, before *time.Time, limit int) ([]model.Meme, error) {
	stmt := memeSelect + `
		WHERE ($2::timestamptz IS NULL OR m.created_at < $2)
		ORDER BY m.created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, stmt, nil, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest memes: %w", err)
	}

	memes, err := collectMemes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to collect latest memes: %w", err)
	}
	return memes, nil
}

func (r *MemeRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Meme, error) {
	stmt := memeSelect + `
		WHERE m.creator_id = $2
		ORDER BY m.created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, stmt, nullableUUID(viewerID), creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list memes of creator_id=%s: %w", creatorID, err)
	}

	memes, err := collectMemes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to collect memes of creator_id=%s: %w", creatorID, err)
	}
	return memes, nil
}

// ListLikedBy returns the memes userID liked, most recently liked first.
func (r *MemeRepository) ListLikedBy(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Meme, error) {
	stmt := memeSelect + `
		JOIN likes lk ON lk.meme_id = m.id AND lk.user_id = $2
		ORDER BY lk.created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, stmt, nullableUUID(viewerID), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list memes liked by user_id=%s: %w", userID, err)
	}

	memes, err := collectMemes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to collect memes liked by user_id=%s: %w", userID, err)
	}
	return memes, nil
}

// LikedIDs returns which of memeIDs userID has liked.
func (r *MemeRepository) LikedIDs(ctx context.Context, userID uuid.UUID, memeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if len(memeIDs) == 0 {
		return liked, nil
	}

	stmt := `SELECT meme_id FROM likes WHERE user_id = $1 AND meme_id = ANY($2)`

	rows, err := r.pool.Query(ctx, stmt, userID, memeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to read meme likes of user_id=%s: %w", userID, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to collect meme likes of user_id=%s: %w", userID, err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

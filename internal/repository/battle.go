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

type BattleRepository struct {
	pool *pgxpool.Pool
}

func NewBattleRepository(pool *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{pool: pool}
}

// battleSelect reads battles with both memes, creator, sponsor, vote tallies
// and the state of the viewer bound to $1 (NULL for anonymous).
var battleSelect = `
	SELECT
		b.id, b.creator_id, b.meme1_id, b.meme2_id, b.sponsor_id, b.winner_meme_id,
		b.is_active, b.reward_amount, b.reward_token, b.ends_at, b.created_at,
		` + authorColumns("cp") + `,
		m1.creator_id, m1.image_url, m1.caption, m1.created_at,
		m2.creator_id, m2.image_url, m2.caption, m2.created_at,
		s.id, s.company_name, s.logo_url,
		(SELECT count(*) FROM battle_votes v WHERE v.battle_id = b.id AND v.voted_meme_id = b.meme1_id),
		(SELECT count(*) FROM battle_votes v WHERE v.battle_id = b.id AND v.voted_meme_id = b.meme2_id),
		(SELECT count(*) FROM likes l WHERE l.battle_id = b.id),
		(SELECT count(*) FROM comments c WHERE c.battle_id = b.id),
		EXISTS (SELECT 1 FROM likes l WHERE l.battle_id = b.id AND l.user_id = $1::uuid),
		(SELECT v.voted_meme_id FROM battle_votes v WHERE v.battle_id = b.id AND v.voter_id = $1::uuid)
	FROM meme_battles b
	JOIN profiles cp ON cp.id = b.creator_id
	JOIN memes m1 ON m1.id = b.meme1_id
	JOIN memes m2 ON m2.id = b.meme2_id
	LEFT JOIN sponsors s ON s.id = b.sponsor_id`

func scanBattle(row pgx.Row) (*model.Battle, error) {
	var (
		b              model.Battle
		creator        model.Author
		m1, m2         model.Meme
		sponsorID      *uuid.UUID
		sponsorName    *string
		sponsorLogoURL *string
	)
	err := row.Scan(
		&b.ID, &b.CreatorID, &b.Meme1ID, &b.Meme2ID, &b.SponsorID, &b.WinnerMemeID,
		&b.IsActive, &b.RewardAmount, &b.RewardToken, &b.EndsAt, &b.CreatedAt,
		&creator.ID, &creator.Username, &creator.Handle, &creator.AvatarURL,
		&m1.CreatorID, &m1.ImageURL, &m1.Caption, &m1.CreatedAt,
		&m2.CreatorID, &m2.ImageURL, &m2.Caption, &m2.CreatedAt,
		&sponsorID, &sponsorName, &sponsorLogoURL,
		&b.Meme1Votes, &b.Meme2Votes, &b.LikesCount, &b.CommentsCount,
		&b.HasLiked, &b.VotedMemeID,
	)
	if err != nil {
		return nil, err
	}

	m1.ID, m2.ID = b.Meme1ID, b.Meme2ID
	b.Creator, b.Meme1, b.Meme2 = &creator, &m1, &m2
	b.HasVoted = b.VotedMemeID != nil
	if sponsorID != nil {
		b.Sponsor = &model.SponsorSummary{ID: *sponsorID, CompanyName: *sponsorName, LogoURL: *sponsorLogoURL}
	}
	return &b, nil
}

func collectBattles(rows pgx.Rows) ([]model.Battle, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Battle, error) {
		b, err := scanBattle(row)
		if err != nil {
			return model.Battle{}, err
		}
		return *b, nil
	})
}

func (r *BattleRepository) Create(ctx context.Context, b *model.Battle) (*model.Battle, error) {
	stmt := `
		INSERT INTO meme_battles (creator_id, meme1_id, meme2_id, sponsor_id, ends_at, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, stmt, b.CreatorID, b.Meme1ID, b.Meme2ID, b.SponsorID, b.EndsAt).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create battle for creator_id=%s: %w", b.CreatorID, err)
	}

	return r.GetByID(ctx, id, &b.CreatorID)
}

func (r *BattleRepository) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Battle, error) {
	stmt := battleSelect + ` WHERE b.id = $2`

	b, err := scanBattle(r.pool.QueryRow(ctx, stmt, nullableUUID(viewerID), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get battle id=%s: %w", id, notFound("meme_battles"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battle id=%s: %w", id, err)
	}
	return b, nil
}

// ErrBattleClosed is returned by Vote when the battle stopped accepting
// votes after the caller checked it.
var ErrBattleClosed = errors.New("battle is closed")

// voteCountStmt counts the votes of battle $1 against its own meme ids.
const voteCountStmt = `
	SELECT
		count(*) FILTER (WHERE v.voted_meme_id = b.meme1_id),
		count(*) FILTER (WHERE v.voted_meme_id = b.meme2_id)
	FROM meme_battles b
	LEFT JOIN battle_votes v ON v.battle_id = b.id
	WHERE b.id = $1
	GROUP BY b.id`

// Vote records a vote while holding a share lock on the battle row, so it
// cannot interleave with Close. A second vote by the same user fails on
// battle_votes_battle_id_voter_id_key.
func (r *BattleRepository) Vote(ctx context.Context, battleID, voterID, memeID uuid.UUID) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var active bool
		err := tx.QueryRow(ctx, `SELECT is_active FROM meme_battles WHERE id = $1 FOR SHARE`, battleID).Scan(&active)
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("meme_battles")
		}
		if err != nil {
			return err
		}
		if !active {
			return ErrBattleClosed
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO battle_votes (battle_id, voter_id, voted_meme_id) VALUES ($1, $2, $3)`,
			battleID, voterID, memeID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to vote in battle id=%s: %w", battleID, err)
	}
	return nil
}

// Votes counts votes against the battle's own meme ids.
func (r *BattleRepository) Votes(ctx context.Context, battleID uuid.UUID) (model.BattleVotes, error) {
	var votes model.BattleVotes
	err := r.pool.QueryRow(ctx, voteCountStmt, battleID).Scan(&votes.Meme1Votes, &votes.Meme2Votes)
	if errors.Is(err, pgx.ErrNoRows) {
		return votes, fmt.Errorf("failed to count votes of battle id=%s: %w", battleID, notFound("meme_battles"))
	}
	if err != nil {
		return votes, fmt.Errorf("failed to count votes of battle id=%s: %w", battleID, err)
	}
	return votes, nil
}

// Close deactivates an active battle and records the winner of its final
// count. The battle row is locked FOR UPDATE before counting, so votes
// either land before the count or see the battle closed. It reports false
// when the battle was already closed.
func (r *BattleRepository) Close(ctx context.Context, battleID uuid.UUID) (model.BattleVotes, bool, error) {
	var (
		votes  model.BattleVotes
		closed bool
	)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var meme1ID, meme2ID uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT meme1_id, meme2_id FROM meme_battles WHERE id = $1 AND is_active FOR UPDATE`,
			battleID).Scan(&meme1ID, &meme2ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, voteCountStmt, battleID).Scan(&votes.Meme1Votes, &votes.Meme2Votes); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE meme_battles SET is_active = false, winner_meme_id = $2 WHERE id = $1`,
			battleID, votes.Winner(meme1ID, meme2ID))
		if err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return votes, false, fmt.Errorf("failed to close battle id=%s: %w", battleID, err)
	}
	return votes, closed, nil
}

// ListExpired returns active battles whose ends_at is not after now,
// oldest first.
func (r *BattleRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Battle, error) {
	stmt := battleSelect + `
		WHERE b.is_active AND b.ends_at <= $2
		ORDER BY b.ends_at
		LIMIT $3`

	rows, err := r.pool.Query(ctx, stmt, nil, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired battles: %w", err)
	}

	battles, err := collectBattles(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to collect expired battles: %w", err)
	}
	return battles, nil
}

// ListLatest returns up to limit battles created strictly before the
// cursor, newest first, without viewer state.
func (r *BattleRepository) ListLatest(ctx context.Context, before *time.Time, limit int) ([]model.Battle, error) {
	stmt := battleSelect + `
		WHERE ($2::timestamptz IS NULL OR b.created_at < $2)
		ORDER BY b.created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, stmt, nil, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest battles: %w", err)
	}

	battles, err := collectBattles(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to collect latest battles: %w", err)
	}
	return battles, nil
}

func (r *BattleRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Battle, error) {
	stmt := battleSelect + `
		WHERE b.creator_id = $2
		ORDER BY b.created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, stmt, nullableUUID(viewerID), creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles of creator_id=%s: %w", creatorID, err)
	}

	battles, err := collectBattles(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to collect battles of creator_id=%s: %w", creatorID, err)
	}
	return battles, nil
}

// ViewerState reports, for battleIDs, which ones userID liked and which
// meme userID voted for.
func (r *BattleRepository) ViewerState(ctx context.Context, userID uuid.UUID, battleIDs []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID]uuid.UUID, error) {
	liked := make(map[uuid.UUID]bool)
	voted := make(map[uuid.UUID]uuid.UUID)
	if len(battleIDs) == 0 {
		return liked, voted, nil
	}

	likedStmt := `SELECT battle_id FROM likes WHERE user_id = $1 AND battle_id = ANY($2)`
	rows, err := r.pool.Query(ctx, likedStmt, userID, battleIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read battle likes of user_id=%s: %w", userID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect battle likes of user_id=%s: %w", userID, err)
	}
	for _, id := range ids {
		liked[id] = true
	}

	votedStmt := `SELECT battle_id, voted_meme_id FROM battle_votes WHERE voter_id = $1 AND battle_id = ANY($2)`
	rows, err = r.pool.Query(ctx, votedStmt, userID, battleIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read votes of user_id=%s: %w", userID, err)
	}
	var battleID, memeID uuid.UUID
	_, err = pgx.ForEachRow(rows, []any{&battleID, &memeID}, func() error {
		voted[battleID] = memeID
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to collect votes of user_id=%s: %w", userID, err)
	}

	return liked, voted, nil
}

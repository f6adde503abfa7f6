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

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, username, handle, avatar_url, bio, role, email, solana_wallet_address, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Handle,
		&p.AvatarURL,
		&p.Bio,
		&p.Role,
		&p.Email,
		&p.SolanaWalletAddress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("profiles")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	stmt := `
		INSERT INTO profiles (id, username, handle, avatar_url, bio, role, email, solana_wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + profileColumns

	created, err := scanProfile(r.pool.QueryRow(ctx, stmt,
		p.ID, p.Username, p.Handle, p.AvatarURL, p.Bio, p.Role, p.Email, p.SolanaWalletAddress,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile for user_id=%s: %w", p.ID, err)
	}
	return created, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	stmt := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, stmt, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile id=%s: %w", id, err)
	}
	return p, nil
}

// GetByHandle matches handles case-insensitively.
func (r *ProfileRepository) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	stmt := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(handle) = lower($1)`

	p, err := scanProfile(r.pool.QueryRow(ctx, stmt, handle))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile handle=%s: %w", handle, err)
	}
	return p, nil
}

// Update applies the non-nil fields of upd.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Profile, error) {
	stmt := `
		UPDATE profiles SET
			username = COALESCE($2, username),
			avatar_url = COALESCE($3, avatar_url),
			bio = COALESCE($4, bio),
			solana_wallet_address = CASE WHEN $6 THEN NULL ELSE COALESCE($5, solana_wallet_address) END
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, stmt, id, upd.Username, upd.AvatarURL, upd.Bio, upd.Wallet, upd.ClearWallet))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile id=%s: %w", id, err)
	}
	return p, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CoinRepository struct {
	pool *pgxpool.Pool
}

func NewCoinRepository(pool *pgxpool.Pool) *CoinRepository {
	return &CoinRepository{pool: pool}
}

const coinColumns = `id, creator_id, name, symbol, decimals, description, total_supply, image_cid,
	creator_wallet, revoke_mint, revoke_freeze, estimated_fee_sol, status, created_at`

func scanCoin(row pgx.Row) (*model.MemeCoin, error) {
	var c model.MemeCoin
	err := row.Scan(
		&c.ID, &c.CreatorID, &c.Name, &c.Symbol, &c.Decimals, &c.Description, &c.TotalSupply, &c.ImageCID,
		&c.CreatorWallet, &c.RevokeMint, &c.RevokeFreeze, &c.EstimatedFeeSOL, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CoinRepository) Create(ctx context.Context, c *model.MemeCoin) (*model.MemeCoin, error) {
	stmt := `
		INSERT INTO meme_coins (
			creator_id, name, symbol, decimals, description, total_supply, image_cid,
			creator_wallet, revoke_mint, revoke_freeze, estimated_fee_sol, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + coinColumns

	created, err := scanCoin(r.pool.QueryRow(ctx, stmt,
		c.CreatorID, c.Name, c.Symbol, c.Decimals, c.Description, c.TotalSupply, c.ImageCID,
		c.CreatorWallet, c.RevokeMint, c.RevokeFreeze, c.EstimatedFeeSOL, model.MemeCoinStatusDraft,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create meme coin %s for creator_id=%s: %w", c.Symbol, c.CreatorID, err)
	}
	return created, nil
}

func (r *CoinRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]model.MemeCoin, error) {
	stmt := `SELECT ` + coinColumns + ` FROM meme_coins WHERE creator_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, stmt, creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meme coins of creator_id=%s: %w", creatorID, err)
	}

	coins, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.MemeCoin, error) {
		c, err := scanCoin(row)
		if err != nil {
			return model.MemeCoin{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect meme coins of creator_id=%s: %w", creatorID, err)
	}
	return coins, nil
}

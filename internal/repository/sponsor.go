package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SponsorRepository struct {
	pool *pgxpool.Pool
}

func NewSponsorRepository(pool *pgxpool.Pool) *SponsorRepository {
	return &SponsorRepository{pool: pool}
}

const sponsorColumns = `id, owner_id, company_name, website_url, contact_email, logo_url,
	is_main_sponsor, current_bid_usd, last_bid_at, created_at, updated_at`

func scanSponsor(row pgx.Row) (*model.Sponsor, error) {
	var s model.Sponsor
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.CompanyName, &s.WebsiteURL, &s.ContactEmail, &s.LogoURL,
		&s.IsMainSponsor, &s.CurrentBidUSD, &s.LastBidAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SponsorRepository) Create(ctx context.Context, s *model.Sponsor) (*model.Sponsor, error) {
	stmt := `
		INSERT INTO sponsors (owner_id, company_name, website_url, contact_email, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + sponsorColumns

	created, err := scanSponsor(r.pool.QueryRow(ctx, stmt, s.OwnerID, s.CompanyName, s.WebsiteURL, s.ContactEmail, s.LogoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create sponsor %q: %w", s.CompanyName, err)
	}
	return created, nil
}

func (r *SponsorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sponsor, error) {
	s, err := scanSponsor(r.pool.QueryRow(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get sponsor id=%s: %w", id, notFound("sponsors"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor id=%s: %w", id, err)
	}
	return s, nil
}

// List orders sponsors by current bid, highest first.
func (r *SponsorRepository) List(ctx context.Context) ([]model.Sponsor, error) {
	stmt := `SELECT ` + sponsorColumns + ` FROM sponsors ORDER BY current_bid_usd DESC, created_at ASC`

	rows, err := r.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}

	sponsors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Sponsor, error) {
		s, err := scanSponsor(row)
		if err != nil {
			return model.Sponsor{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect sponsors: %w", err)
	}
	return sponsors, nil
}

// GetMain returns the main sponsor, or nil when no sponsor holds the slot.
func (r *SponsorRepository) GetMain(ctx context.Context) (*model.Sponsor, error) {
	s, err := scanSponsor(r.pool.QueryRow(ctx, `SELECT `+sponsorColumns+` FROM sponsors WHERE is_main_sponsor`))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get main sponsor: %w", err)
	}
	return s, nil
}

// BidCheck decides whether a bid may proceed. It sees the bidding sponsor
// and the current main sponsor (nil when there is none) while both rows are
// locked.
type BidCheck func(bidder, main *model.Sponsor) error

// PlaceBid makes sponsorID the main sponsor at amount and records the bid.
// The bidder and current main rows are locked FOR UPDATE before check runs,
// so concurrent bids are serialized; a race that still slips through fails
// on the sponsors_single_main index.
func (r *SponsorRepository) PlaceBid(
	ctx context.Context,
	sponsorID, bidderID uuid.UUID,
	amount decimal.Decimal,
	check BidCheck,
) (*model.BidResult, error) {
	result := &model.BidResult{}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		lockStmt := `SELECT ` + sponsorColumns + ` FROM sponsors WHERE id = $1 FOR UPDATE`
		bidder, err := scanSponsor(tx.QueryRow(ctx, lockStmt, sponsorID))
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("sponsors")
		}
		if err != nil {
			return err
		}

		mainStmt := `SELECT ` + sponsorColumns + ` FROM sponsors WHERE is_main_sponsor FOR UPDATE`
		main, err := scanSponsor(tx.QueryRow(ctx, mainStmt))
		if errors.Is(err, pgx.ErrNoRows) {
			main = nil
		} else if err != nil {
			return err
		}

		if err := check(bidder, main); err != nil {
			return err
		}

		if main != nil && main.ID != bidder.ID {
			if _, err := tx.Exec(ctx, `UPDATE sponsors SET is_main_sponsor = false WHERE id = $1`, main.ID); err != nil {
				return err
			}
			result.PreviousMain = main
		}

		promoteStmt := `
			UPDATE sponsors
			SET is_main_sponsor = true, current_bid_usd = $2, last_bid_at = now()
			WHERE id = $1
			RETURNING ` + sponsorColumns
		result.Sponsor, err = scanSponsor(tx.QueryRow(ctx, promoteStmt, sponsorID, amount))
		if err != nil {
			return err
		}

		bidStmt := `
			INSERT INTO sponsor_bids (sponsor_id, bidder_id, amount_usd)
			VALUES ($1, $2, $3)
			RETURNING id, sponsor_id, bidder_id, amount_usd, created_at`
		var bid model.SponsorBid
		err = tx.QueryRow(ctx, bidStmt, sponsorID, bidderID, amount).Scan(
			&bid.ID, &bid.SponsorID, &bid.BidderID, &bid.AmountUSD, &bid.CreatedAt,
		)
		if err != nil {
			return err
		}
		result.Bid = &bid
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to place bid on sponsor id=%s: %w", sponsorID, err)
	}
	return result, nil
}

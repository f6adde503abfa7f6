package service

import (
	"context"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
)

// defaultTabLimit applies when a profile tab request has no limit.
const defaultTabLimit = 20

type ProfileService struct {
	profiles ProfileStore
	follows  FollowStore
	memes    MemeStore
	battles  BattleStore
	coins    CoinStore
}

func NewProfileService(profiles ProfileStore, follows FollowStore, memes MemeStore, battles BattleStore, coins CoinStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		follows:  follows,
		memes:    memes,
		battles:  battles,
		coins:    coins,
	}
}

// CreateProfile creates the caller's profile when the identity comes from an
// external provider and no sign-up ran through this API.
func (s *ProfileService) CreateProfile(ctx context.Context, userID uuid.UUID, req *model.CreateProfileRequest) (*model.Profile, error) {
	return s.profiles.Create(ctx, model.NewProfile(userID, nil, req.Username, req.Handle, req.Role, req.SolanaWalletAddress))
}

func (s *ProfileService) details(ctx context.Context, p *model.Profile, viewerID *uuid.UUID) (*model.ProfileDetails, error) {
	stats, err := s.follows.Stats(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	d := &model.ProfileDetails{Profile: *p, FollowStats: stats}
	if viewerID != nil && *viewerID != p.ID {
		d.IsFollowing, err = s.follows.IsFollowing(ctx, *viewerID, p.ID)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *ProfileService) GetMe(ctx context.Context, userID uuid.UUID) (*model.ProfileDetails, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, p, nil)
}

func (s *ProfileService) GetByHandle(ctx context.Context, handle string, viewerID *uuid.UUID) (*model.ProfileDetails, error) {
	p, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, p, viewerID)
}

// UpdateMe applies a partial update. Creators must keep a wallet.
func (s *ProfileService) UpdateMe(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	upd := req.ToUpdate()

	if upd.ClearWallet {
		p, err := s.profiles.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p.Role == model.RoleCreator {
			return nil, errs.NewBadRequestError("Creators must connect a Solana wallet.", true, nil,
				[]errs.FieldError{{Field: "solana_wallet_address", Error: "Creators must connect a Solana wallet."}}, nil)
		}
	}

	return s.profiles.Update(ctx, userID, upd)
}

func tabLimit(limit int) int {
	if limit <= 0 {
		return defaultTabLimit
	}
	return limit
}

func (s *ProfileService) ListMemes(ctx context.Context, handle string, viewerID *uuid.UUID, limit int) ([]model.Meme, error) {
	p, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.memes.ListByCreator(ctx, p.ID, viewerID, tabLimit(limit))
}

func (s *ProfileService) ListBattles(ctx context.Context, handle string, viewerID *uuid.UUID, limit int) ([]model.Battle, error) {
	p, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.battles.ListByCreator(ctx, p.ID, viewerID, tabLimit(limit))
}

func (s *ProfileService) ListLikedMemes(ctx context.Context, handle string, viewerID *uuid.UUID, limit int) ([]model.Meme, error) {
	p, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.memes.ListLikedBy(ctx, p.ID, viewerID, tabLimit(limit))
}

func (s *ProfileService) ListMemeCoins(ctx context.Context, handle string, limit int) ([]model.MemeCoin, error) {
	p, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.coins.ListByCreator(ctx, p.ID, tabLimit(limit))
}

package service

import (
	"bytes"
	"context"
	"strings"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/solana"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenService validates meme coin drafts and stores them. Nothing is
// submitted on chain.
type TokenService struct {
	profiles ProfileStore
	coins    CoinStore
	pinner   Pinner
	maxBytes int64
	logger   *zerolog.Logger
}

func NewTokenService(profiles ProfileStore, coins CoinStore, pinner Pinner, maxBytes int64, logger *zerolog.Logger) *TokenService {
	return &TokenService{
		profiles: profiles,
		coins:    coins,
		pinner:   pinner,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *TokenService) EstimateFee(revokeMint, revokeFreeze bool) model.FeeEstimate {
	total := solana.EstimateCreationFee(revokeMint, revokeFreeze)
	return model.FeeEstimate{
		BaseFeeSOL:   solana.BaseCreationFee,
		RevokeFeeSOL: total.Sub(solana.BaseCreationFee),
		TotalSOL:     total,
	}
}

// draft reads the image and checks every field of the form. The image
// bytes are returned so the caller can pin them.
func (s *TokenService) draft(form *model.MemeCoinForm, image *FileUpload) (solana.TokenDraft, []byte, error) {
	d := solana.TokenDraft{
		Name:         strings.TrimSpace(form.Name),
		Symbol:       strings.TrimSpace(form.Symbol),
		Decimals:     form.Decimals,
		Description:  strings.TrimSpace(form.Description),
		TotalSupply:  form.TotalSupply,
		RevokeMint:   form.RevokeMint,
		RevokeFreeze: form.RevokeFreeze,
	}

	var data []byte
	if image != nil {
		raw, mime, err := readFile(image, s.maxBytes)
		if err != nil {
			return d, nil, err
		}
		data = raw
		d.HasImage = true
		d.ImageIsPNG = mime.Is("image/png")
	}

	if failures := d.Validate(); len(failures) > 0 {
		return d, nil, errs.NewBadRequestError("Validation failed", true, nil, failures, nil)
	}
	return d, data, nil
}

// ValidateDraft checks the form without storing anything.
func (s *TokenService) ValidateDraft(form *model.MemeCoinForm, image *FileUpload) (*model.DraftValidation, error) {
	if _, _, err := s.draft(form, image); err != nil {
		return nil, err
	}
	return &model.DraftValidation{
		Valid:       true,
		FeeEstimate: s.EstimateFee(form.RevokeMint, form.RevokeFreeze),
	}, nil
}

// CreateDraft validates the form, pins the image to IPFS and stores the
// draft. Only creators with a connected wallet may create tokens.
func (s *TokenService) CreateDraft(ctx context.Context, userID uuid.UUID, form *model.MemeCoinForm, image *FileUpload) (*model.MemeCoin, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Role != model.RoleCreator || profile.SolanaWalletAddress == nil {
		return nil, errs.NewForbiddenError("Only creators with a connected wallet can create meme coins.", true)
	}

	d, data, err := s.draft(form, image)
	if err != nil {
		return nil, err
	}
	supply, err := d.Supply()
	if err != nil {
		return nil, err
	}

	cid, err := s.pinner.Upload(ctx, pinName(image.Filename, mimetype.Detect(data)), bytes.NewReader(data))
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("token image upload failed")
		return nil, errs.NewInternalServerErrorWithMessage("Upload failed")
	}
	metrics.RecordEvent(metrics.EventIPFSUpload)

	coin, err := s.coins.Create(ctx, &model.MemeCoin{
		CreatorID:       userID,
		Name:            d.Name,
		Symbol:          d.Symbol,
		Decimals:        d.Decimals,
		Description:     d.Description,
		TotalSupply:     supply,
		ImageCID:        cid,
		CreatorWallet:   *profile.SolanaWalletAddress,
		RevokeMint:      d.RevokeMint,
		RevokeFreeze:    d.RevokeFreeze,
		EstimatedFeeSOL: solana.EstimateCreationFee(d.RevokeMint, d.RevokeFreeze),
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordEvent(metrics.EventTokenDraft)
	return coin, nil
}

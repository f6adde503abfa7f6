package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/job"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type SponsorService struct {
	sponsors     SponsorStore
	jobs         TaskEnqueuer
	minIncrement decimal.Decimal
	logger       *zerolog.Logger
}

func NewSponsorService(sponsors SponsorStore, jobs TaskEnqueuer, minIncrement float64, logger *zerolog.Logger) *SponsorService {
	return &SponsorService{
		sponsors:     sponsors,
		jobs:         jobs,
		minIncrement: decimal.NewFromFloat(minIncrement),
		logger:       logger,
	}
}

func (s *SponsorService) CreateSponsor(ctx context.Context, userID uuid.UUID, req *model.CreateSponsorRequest) (*model.Sponsor, error) {
	sponsor, err := s.sponsors.Create(ctx, &model.Sponsor{
		OwnerID:      &userID,
		CompanyName:  req.CompanyName,
		WebsiteURL:   req.WebsiteURL,
		ContactEmail: req.ContactEmail,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordEvent(metrics.EventSponsorCreated)
	return sponsor, nil
}

// ListSponsors returns every sponsor, highest bid first.
func (s *SponsorService) ListSponsors(ctx context.Context) ([]model.Sponsor, error) {
	return s.sponsors.List(ctx)
}

func (s *SponsorService) GetMainSponsor(ctx context.Context) (*model.Sponsor, error) {
	main, err := s.sponsors.GetMain(ctx)
	if err != nil {
		return nil, err
	}
	if main == nil {
		code := "SPONSOR_NOT_FOUND"
		return nil, errs.NewNotFoundError("There is no main sponsor yet.", true, &code)
	}
	return main, nil
}

// bidCheck runs inside the bid transaction with both rows locked. The bid
// must beat the current main bid by the increment, also when the bidder
// already is the main sponsor and raises its own bid.
func (s *SponsorService) bidCheck(userID uuid.UUID, amount decimal.Decimal) repository.BidCheck {
	return func(bidder, main *model.Sponsor) error {
		if !bidder.OwnedBy(userID) {
			return errs.NewForbiddenError("Only the sponsor owner can place bids.", true)
		}
		if main == nil {
			return nil
		}

		minimum := main.CurrentBidUSD.Add(s.minIncrement)
		if amount.LessThan(minimum) {
			msg := fmt.Sprintf("Bid must be at least $%s.", minimum.StringFixed(2))
			code := "BID_TOO_LOW"
			return errs.NewBadRequestError(msg, true, &code, []errs.FieldError{{Field: "amount_usd", Error: msg}}, nil)
		}
		return nil
	}
}

// PlaceBid makes the sponsor the main sponsor at amount. The sponsor that
// lost the slot is told by email.
func (s *SponsorService) PlaceBid(ctx context.Context, userID, sponsorID uuid.UUID, amount decimal.Decimal) (*model.BidResult, error) {
	result, err := s.sponsors.PlaceBid(ctx, sponsorID, userID, amount, s.bidCheck(userID, amount))
	if err != nil {
		return nil, err
	}
	metrics.RecordEvent(metrics.EventBidPlaced)

	if prev := result.PreviousMain; prev != nil {
		s.notifyOutbid(ctx, prev, result.Sponsor)
	}
	return result, nil
}

func (s *SponsorService) notifyOutbid(ctx context.Context, prev, winner *model.Sponsor) {
	task, err := job.NewSponsorOutbidTask(job.SponsorOutbidPayload{
		To:             prev.ContactEmail,
		CompanyName:    prev.CompanyName,
		WinningCompany: winner.CompanyName,
		WinningBid:     winner.CurrentBidUSD.StringFixed(2),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build sponsor outbid task")
		return
	}
	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("sponsor_id", prev.ID.String()).Msg("failed to enqueue sponsor outbid email")
	}
}

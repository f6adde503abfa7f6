package model

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Sponsor struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       *uuid.UUID      `json:"owner_id"`
	CompanyName   string          `json:"company_name"`
	WebsiteURL    *string         `json:"website_url"`
	ContactEmail  string          `json:"contact_email"`
	LogoURL       string          `json:"logo_url"`
	IsMainSponsor bool            `json:"is_main_sponsor"`
	CurrentBidUSD decimal.Decimal `json:"current_bid_usd"`
	LastBidAt     *time.Time      `json:"last_bid_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SponsorSummary is the part of a sponsor shown on battles.
type SponsorSummary struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	LogoURL     string    `json:"logo_url"`
}

// OwnedBy reports whether userID owns the sponsor.
func (s *Sponsor) OwnedBy(userID uuid.UUID) bool {
	return s.OwnerID != nil && *s.OwnerID == userID
}

type SponsorBid struct {
	ID        uuid.UUID       `json:"id"`
	SponsorID uuid.UUID       `json:"sponsor_id"`
	BidderID  uuid.UUID       `json:"bidder_id"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	CreatedAt time.Time       `json:"created_at"`
}

// BidResult is the outcome of a winning bid. PreviousMain is the sponsor
// that lost the main slot, nil when the bidder already held it or the slot
// was empty.
type BidResult struct {
	Sponsor      *Sponsor    `json:"sponsor"`
	Bid          *SponsorBid `json:"bid"`
	PreviousMain *Sponsor    `json:"-"`
}

type CreateSponsorRequest struct {
	CompanyName  string  `json:"company_name" validate:"required,max=100"`
	WebsiteURL   *string `json:"website_url" validate:"omitempty,url"`
	ContactEmail string  `json:"contact_email" validate:"required,email"`
	LogoURL      string  `json:"logo_url" validate:"required,url"`
}

func (r *CreateSponsorRequest) Validate() error {
	return validation.Struct(r)
}

type SponsorIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *SponsorIDRequest) Validate() error {
	return validation.Struct(r)
}

type ListSponsorsRequest struct{}

func (r *ListSponsorsRequest) Validate() error {
	return nil
}

type PlaceBidRequest struct {
	ID        string          `param:"id" validate:"required,uuid"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

func (r *PlaceBidRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if !r.AmountUSD.IsPositive() {
		return validation.CustomValidationErrors{{Field: "amount_usd", Message: "must be greater than 0"}}
	}
	if r.AmountUSD.Exponent() < -2 {
		return validation.CustomValidationErrors{{Field: "amount_usd", Message: "must have at most 2 decimal places"}}
	}
	return nil
}

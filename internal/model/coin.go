package model

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MemeCoinStatusDraft = "draft"

type MemeCoin struct {
	ID              uuid.UUID       `json:"id"`
	CreatorID       uuid.UUID       `json:"creator_id"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	Decimals        int             `json:"decimals"`
	Description     string          `json:"description"`
	TotalSupply     decimal.Decimal `json:"total_supply"`
	ImageCID        string          `json:"image_cid"`
	CreatorWallet   string          `json:"creator_wallet"`
	RevokeMint      bool            `json:"revoke_mint"`
	RevokeFreeze    bool            `json:"revoke_freeze"`
	EstimatedFeeSOL decimal.Decimal `json:"estimated_fee_sol"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MemeCoinForm is the multipart token form; the image part is read by the
// handler. Field rules are enforced by the token service so every error is
// reported at once.
type MemeCoinForm struct {
	Name         string `form:"name"`
	Symbol       string `form:"symbol"`
	Decimals     int    `form:"decimals"`
	Description  string `form:"description"`
	TotalSupply  string `form:"total_supply"`
	RevokeMint   bool   `form:"revoke_mint"`
	RevokeFreeze bool   `form:"revoke_freeze"`
}

func (r *MemeCoinForm) Validate() error {
	return nil
}

type FeeEstimateRequest struct {
	RevokeMint   bool `query:"revoke_mint"`
	RevokeFreeze bool `query:"revoke_freeze"`
}

func (r *FeeEstimateRequest) Validate() error {
	return validation.Struct(r)
}

type FeeEstimate struct {
	BaseFeeSOL   decimal.Decimal `json:"base_fee_sol"`
	RevokeFeeSOL decimal.Decimal `json:"revoke_fee_sol"`
	TotalSOL     decimal.Decimal `json:"total_sol"`
}

// DraftValidation is returned by the validate-only endpoint.
type DraftValidation struct {
	Valid       bool        `json:"valid"`
	FeeEstimate FeeEstimate `json:"fee_estimate"`
}

type UploadRequest struct{}

func (r *UploadRequest) Validate() error {
	return nil
}

type UploadResponse struct {
	IPFSHash string `json:"ipfs_hash"`
}

package model

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Battle struct {
	ID            uuid.UUID       `json:"id"`
	CreatorID     uuid.UUID       `json:"creator_id"`
	Meme1ID       uuid.UUID       `json:"meme1_id"`
	Meme2ID       uuid.UUID       `json:"meme2_id"`
	SponsorID     *uuid.UUID      `json:"sponsor_id"`
	WinnerMemeID  *uuid.UUID      `json:"winner_meme_id"`
	IsActive      bool            `json:"is_active"`
	RewardAmount  decimal.Decimal `json:"reward_amount"`
	RewardToken   string          `json:"reward_token"`
	EndsAt        time.Time       `json:"ends_at"`
	CreatedAt     time.Time       `json:"created_at"`
	Creator       *Author         `json:"creator,omitempty"`
	Meme1         *Meme           `json:"meme1,omitempty"`
	Meme2         *Meme           `json:"meme2,omitempty"`
	Sponsor       *SponsorSummary `json:"sponsor"`
	Meme1Votes    int64           `json:"meme1_votes"`
	Meme2Votes    int64           `json:"meme2_votes"`
	LikesCount    int64           `json:"likes_count"`
	CommentsCount int64           `json:"comments_count"`
	HasLiked      bool            `json:"has_liked"`
	HasVoted      bool            `json:"has_voted"`
	VotedMemeID   *uuid.UUID      `json:"voted_meme_id,omitempty"`
}

// Expired reports whether voting has closed by time, regardless of IsActive.
func (b *Battle) Expired(now time.Time) bool {
	return !now.Before(b.EndsAt)
}

// HasMeme reports whether memeID is one of the pair.
func (b *Battle) HasMeme(memeID uuid.UUID) bool {
	return memeID == b.Meme1ID || memeID == b.Meme2ID
}

type BattleVotes struct {
	Meme1Votes int64 `json:"meme1_votes"`
	Meme2Votes int64 `json:"meme2_votes"`
}

// Winner returns the meme with more votes, or nil on a tie (including a
// battle nobody voted in).
func (v BattleVotes) Winner(meme1ID, meme2ID uuid.UUID) *uuid.UUID {
	switch {
	case v.Meme1Votes > v.Meme2Votes:
		return &meme1ID
	case v.Meme2Votes > v.Meme1Votes:
		return &meme2ID
	default:
		return nil
	}
}

type StartBattleRequest struct {
	Meme1ID string    `json:"meme1_id" validate:"required,uuid"`
	Meme2ID string    `json:"meme2_id" validate:"required,uuid,nefield=Meme1ID"`
	EndsAt  time.Time `json:"ends_at" validate:"required"`
}

func (r *StartBattleRequest) Validate() error {
	return validation.Struct(r)
}

type BattleIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *BattleIDRequest) Validate() error {
	return validation.Struct(r)
}

type VoteRequest struct {
	ID          string `param:"id" validate:"required,uuid"`
	VotedMemeID string `json:"voted_meme_id" validate:"required,uuid"`
}

func (r *VoteRequest) Validate() error {
	return validation.Struct(r)
}

// VoteResult echoes the vote with the fresh tallies.
type VoteResult struct {
	BattleID    uuid.UUID `json:"battle_id"`
	VotedMemeID uuid.UUID `json:"voted_meme_id"`
	BattleVotes
}

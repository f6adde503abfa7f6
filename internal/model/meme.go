package model

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Meme struct {
	ID            uuid.UUID       `json:"id"`
	CreatorID     uuid.UUID       `json:"creator_id"`
	ImageURL      string          `json:"image_url"`
	StoragePath   string          `json:"-"`
	Caption       *string         `json:"caption"`
	RewardAmount  decimal.Decimal `json:"reward_amount"`
	RewardToken   string          `json:"reward_token"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Creator       *Author         `json:"creator,omitempty"`
	LikesCount    int64           `json:"likes_count"`
	CommentsCount int64           `json:"comments_count"`
	HasLiked      bool            `json:"has_liked"`
}

// CreateMemeRequest is the multipart form; the image part is read by the
// handler.
type CreateMemeRequest struct {
	Caption string `form:"caption" validate:"max=500"`
}

func (r *CreateMemeRequest) Validate() error {
	return validation.Struct(r)
}

type MemeIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *MemeIDRequest) Validate() error {
	return validation.Struct(r)
}

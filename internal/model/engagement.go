package model

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
)

// LikeState is the authoritative like state after a toggle, so clients can
// confirm or roll back an optimistic update.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type Comment struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	MemeID          *uuid.UUID `json:"meme_id"`
	BattleID        *uuid.UUID `json:"battle_id"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
	Content         string     `json:"content"`
	CreatedAt       time.Time  `json:"created_at"`
	Author          *Author    `json:"author,omitempty"`
}

// PostID returns the id of the post the comment belongs to.
func (c *Comment) PostID() uuid.UUID {
	if c.MemeID != nil {
		return *c.MemeID
	}
	if c.BattleID != nil {
		return *c.BattleID
	}
	return uuid.Nil
}

// PostType returns which kind of post the comment belongs to.
func (c *Comment) PostType() PostType {
	if c.BattleID != nil {
		return PostTypeBattle
	}
	return PostTypeMeme
}

// PostRequest addresses a post: /posts/:type/:id.
type PostRequest struct {
	Type PostType `param:"type" validate:"required,oneof=meme battle"`
	ID   string   `param:"id" validate:"required,uuid"`
}

func (r *PostRequest) Validate() error {
	return validation.Struct(r)
}

type AddCommentRequest struct {
	Type            PostType `param:"type" validate:"required,oneof=meme battle"`
	ID              string   `param:"id" validate:"required,uuid"`
	Content         string   `json:"content"`
	ParentCommentID *string  `json:"parent_comment_id" validate:"omitempty,uuid"`
}

// Validate checks addressing only; content rules depend on configuration
// and live in the engagement service.
func (r *AddCommentRequest) Validate() error {
	return validation.Struct(r)
}

type LikesCountResponse struct {
	LikesCount int64 `json:"likes_count"`
}

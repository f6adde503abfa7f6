// Package model defines the domain rows returned by repositories and the
// request payloads bound by handlers.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// PostType names the two likeable and commentable post kinds.
type PostType string

const (
	PostTypeMeme   PostType = "meme"
	PostTypeBattle PostType = "battle"
)

// Column is the likes/comments foreign key column for the post type.
func (t PostType) Column() string {
	if t == PostTypeBattle {
		return "battle_id"
	}
	return "meme_id"
}

// Table is the table the post lives in.
func (t PostType) Table() string {
	if t == PostTypeBattle {
		return "meme_battles"
	}
	return "memes"
}

func (t PostType) Valid() bool {
	return t == PostTypeMeme || t == PostTypeBattle
}

// optionalString trims s and maps an empty result to nil, which is stored
// as NULL.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// OptionalString is optionalString for values that are always present in
// the request, such as a multipart caption.
func OptionalString(s string) *string {
	return optionalString(&s)
}

// ParseID parses an id that already passed the uuid validator.
func ParseID(id string) uuid.UUID {
	return uuid.MustParse(id)
}

package model

import (
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
)

type FeedItemType string

const (
	FeedItemMeme   FeedItemType = "meme"
	FeedItemBattle FeedItemType = "battle"
)

// FeedItem is one entry of the merged feed; exactly one of Meme and Battle
// is set.
type FeedItem struct {
	Type      FeedItemType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	TimeAgo   string       `json:"time_ago"`
	Meme      *Meme        `json:"meme,omitempty"`
	Battle    *Battle      `json:"battle,omitempty"`
}

type Feed struct {
	Items []FeedItem `json:"items"`
	// NextCursor is passed back as ?before= to load the next page; nil when
	// the page was empty.
	NextCursor *time.Time `json:"next_cursor"`
}

// FeedPage is the viewer independent part of a feed page, the unit the
// feed cache stores.
type FeedPage struct {
	Memes   []Meme   `json:"memes"`
	Battles []Battle `json:"battles"`
}

type FeedRequest struct {
	// Before is an RFC 3339 timestamp, usually a previous NextCursor.
	Before string `query:"before" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit  int    `query:"limit" validate:"omitempty,min=1"`
}

func (r *FeedRequest) Validate() error {
	return validation.Struct(r)
}

// Cursor returns the parsed Before value, or nil for the first page.
func (r *FeedRequest) Cursor() *time.Time {
	if r.Before == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, r.Before)
	if err != nil {
		return nil
	}
	return &t
}

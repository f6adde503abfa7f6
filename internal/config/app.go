package config

import (
	"fmt"
	"time"
)

// DefaultPinataUploadURL is Pinata's v3 file upload endpoint.
const DefaultPinataUploadURL = "https://uploads.pinata.cloud/v3/files"

// AppConfig holds domain tuning knobs. Every field has a default, so the whole
// block can be omitted from the environment.
type AppConfig struct {
	// FeedPageSize is how many memes and how many battles one feed page reads.
	FeedPageSize int `koanf:"feed_page_size"`

	// FeedMaxPageSize caps a client supplied limit.
	FeedMaxPageSize int `koanf:"feed_max_page_size"`

	// FeedCacheTTL bounds how long a cached feed page is served.
	FeedCacheTTL time.Duration `koanf:"feed_cache_ttl"`

	// MaxUploadBytes limits meme images, token images and IPFS uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CommentMaxLength is measured in characters after trimming.
	CommentMaxLength int `koanf:"comment_max_length"`

	// SponsorMinBidIncrement is the USD amount a bid must exceed the current
	// main sponsor bid by.
	SponsorMinBidIncrement float64 `koanf:"sponsor_min_bid_increment"`

	BattleMinDuration time.Duration `koanf:"battle_min_duration"`
	BattleMaxDuration time.Duration `koanf:"battle_max_duration"`

	// BattleSettleSpec is the asynq scheduler spec for closing expired battles.
	BattleSettleSpec string `koanf:"battle_settle_spec"`

	// RateLimitPerSecond and RateLimitBurst apply per client IP on write routes.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
	RateLimitBurst     int     `koanf:"rate_limit_burst"`
}

// DefaultAppConfig returns the values used when the app block is absent.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		FeedPageSize:           10,
		FeedMaxPageSize:        50,
		FeedCacheTTL:           30 * time.Second,
		MaxUploadBytes:         5 << 20,
		CommentMaxLength:       500,
		SponsorMinBidIncrement: 1,
		BattleMinDuration:      5 * time.Minute,
		BattleMaxDuration:      7 * 24 * time.Hour,
		BattleSettleSpec:       "@every 1m",
		RateLimitPerSecond:     5,
		RateLimitBurst:         20,
	}
}

// applyDefaults fills zero values from DefaultAppConfig so a partially
// configured block still works.
func (c *AppConfig) applyDefaults() {
	d := DefaultAppConfig()
	if c.FeedPageSize == 0 {
		c.FeedPageSize = d.FeedPageSize
	}
	if c.FeedMaxPageSize == 0 {
		c.FeedMaxPageSize = d.FeedMaxPageSize
	}
	if c.FeedCacheTTL == 0 {
		c.FeedCacheTTL = d.FeedCacheTTL
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.CommentMaxLength == 0 {
		c.CommentMaxLength = d.CommentMaxLength
	}
	if c.SponsorMinBidIncrement == 0 {
		c.SponsorMinBidIncrement = d.SponsorMinBidIncrement
	}
	if c.BattleMinDuration == 0 {
		c.BattleMinDuration = d.BattleMinDuration
	}
	if c.BattleMaxDuration == 0 {
		c.BattleMaxDuration = d.BattleMaxDuration
	}
	if c.BattleSettleSpec == "" {
		c.BattleSettleSpec = d.BattleSettleSpec
	}
	if c.RateLimitPerSecond == 0 {
		c.RateLimitPerSecond = d.RateLimitPerSecond
	}
	if c.RateLimitBurst == 0 {
		c.RateLimitBurst = d.RateLimitBurst
	}
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *AppConfig) Validate() error {
	if c.FeedPageSize < 1 || c.FeedPageSize > c.FeedMaxPageSize {
		return fmt.Errorf("feed_page_size must be between 1 and feed_max_page_size (%d)", c.FeedMaxPageSize)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if c.SponsorMinBidIncrement < 0 {
		return fmt.Errorf("sponsor_min_bid_increment must be non-negative")
	}
	if c.BattleMinDuration > c.BattleMaxDuration {
		return fmt.Errorf("battle_min_duration must not exceed battle_max_duration")
	}
	return nil
}

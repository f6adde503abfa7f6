// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data.
//
// Services depend on the small interfaces declared in ports.go rather than
// on concrete repositories, so they can be tested with mocks.
package service

import (
	"context"

	"github.com/rs/zerolog"
)

// invalidateFeed bumps the feed cache version. A failure only delays
// fresh pages until the cached ones expire, so it is logged and dropped.
func invalidateFeed(ctx context.Context, cache FeedCache, logger *zerolog.Logger) {
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate feed cache")
	}
}

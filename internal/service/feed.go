package service

import (
	"context"
	"sort"
	"time"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/lib/utils"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FeedService merges the latest memes and battles into one timeline.
//
// The viewer independent page (posts, authors, counts) is read through the
// feed cache. has_liked and has_voted are resolved per request on top of
// it, so one cached page serves every viewer.
type FeedService struct {
	memes       MemeStore
	battles     BattleStore
	cache       FeedCache
	defaultSize int
	maxSize     int
	logger      *zerolog.Logger

	now func() time.Time
}

func NewFeedService(memes MemeStore, battles BattleStore, cache FeedCache, cfg *config.AppConfig, logger *zerolog.Logger) *FeedService {
	return &FeedService{
		memes:       memes,
		battles:     battles,
		cache:       cache,
		defaultSize: cfg.FeedPageSize,
		maxSize:     cfg.FeedMaxPageSize,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *FeedService) pageSize(limit int) int {
	switch {
	case limit <= 0:
		return s.defaultSize
	case limit > s.maxSize:
		return s.maxSize
	default:
		return limit
	}
}

// GetFeed returns up to limit memes and limit battles created before the
// cursor, newest first. viewerID may be nil for anonymous readers.
func (s *FeedService) GetFeed(ctx context.Context, viewerID *uuid.UUID, before *time.Time, limit int) (*model.Feed, error) {
	limit = s.pageSize(limit)

	page, err := s.page(ctx, before, limit)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		if err := s.applyViewer(ctx, *viewerID, page); err != nil {
			return nil, err
		}
	}

	return s.merge(page, limit), nil
}

// page reads the viewer independent page. The cache version is read once,
// before Postgres, so an Invalidate racing with the load leaves the stored
// page under the old version.
func (s *FeedService) page(ctx context.Context, before *time.Time, limit int) (*model.FeedPage, error) {
	version, err := s.cache.Version(ctx)
	if err != nil {
		metrics.RecordFeedCache("error")
		s.logger.Warn().Err(err).Msg("feed cache read failed")
		return s.load(ctx, before, limit)
	}

	cached, ok, err := s.cache.Get(ctx, version, before, limit)
	switch {
	case err != nil:
		metrics.RecordFeedCache("error")
		s.logger.Warn().Err(err).Msg("feed cache read failed")
	case ok:
		metrics.RecordFeedCache("hit")
		return cached, nil
	default:
		metrics.RecordFeedCache("miss")
	}

	page, err := s.load(ctx, before, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, version, before, limit, page); err != nil {
		s.logger.Warn().Err(err).Msg("feed cache write failed")
	}
	return page, nil
}

func (s *FeedService) load(ctx context.Context, before *time.Time, limit int) (*model.FeedPage, error) {
	memes, err := s.memes.ListLatest(ctx, before, limit)
	if err != nil {
		return nil, err
	}
	battles, err := s.battles.ListLatest(ctx, before, limit)
	if err != nil {
		return nil, err
	}
	return &model.FeedPage{Memes: memes, Battles: battles}, nil
}

func (s *FeedService) applyViewer(ctx context.Context, viewerID uuid.UUID, page *model.FeedPage) error {
	if len(page.Memes) > 0 {
		ids := make([]uuid.UUID, len(page.Memes))
		for i, m := range page.Memes {
			ids[i] = m.ID
		}

		liked, err := s.memes.LikedIDs(ctx, viewerID, ids)
		if err != nil {
			return err
		}
		for i := range page.Memes {
			page.Memes[i].HasLiked = liked[page.Memes[i].ID]
		}
	}

	if len(page.Battles) > 0 {
		ids := make([]uuid.UUID, len(page.Battles))
		for i, b := range page.Battles {
			ids[i] = b.ID
		}

		liked, voted, err := s.battles.ViewerState(ctx, viewerID, ids)
		if err != nil {
			return err
		}
		for i := range page.Battles {
			b := &page.Battles[i]
			b.HasLiked = liked[b.ID]
			if memeID, ok := voted[b.ID]; ok {
				b.HasVoted = true
				b.VotedMemeID = &memeID
			}
		}
	}
	return nil
}

// pageBoundary is the oldest instant the page may show. A list that came
// back full may have more posts right behind its oldest one, so the page
// stops at the newest such edge; older posts of the other list are left
// for the next page.
func pageBoundary(page *model.FeedPage, limit int) (time.Time, bool) {
	var boundary time.Time
	found := false
	consider := func(oldest time.Time) {
		if !found || oldest.After(boundary) {
			boundary = oldest
			found = true
		}
	}

	if n := len(page.Memes); n > 0 && n >= limit {
		consider(page.Memes[n-1].CreatedAt)
	}
	if n := len(page.Battles); n > 0 && n >= limit {
		consider(page.Battles[n-1].CreatedAt)
	}
	return boundary, found
}

func (s *FeedService) merge(page *model.FeedPage, limit int) *model.Feed {
	now := s.now()
	boundary, bounded := pageBoundary(page, limit)
	items := make([]model.FeedItem, 0, len(page.Memes)+len(page.Battles))

	for i := range page.Memes {
		m := &page.Memes[i]
		if bounded && m.CreatedAt.Before(boundary) {
			continue
		}
		items = append(items, model.FeedItem{
			Type:      model.FeedItemMeme,
			CreatedAt: m.CreatedAt,
			TimeAgo:   utils.TimeAgo(m.CreatedAt, now),
			Meme:      m,
		})
	}
	for i := range page.Battles {
		b := &page.Battles[i]
		if bounded && b.CreatedAt.Before(boundary) {
			continue
		}
		items = append(items, model.FeedItem{
			Type:      model.FeedItemBattle,
			CreatedAt: b.CreatedAt,
			TimeAgo:   utils.TimeAgo(b.CreatedAt, now),
			Battle:    b,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	feed := &model.Feed{Items: items}
	if len(items) > 0 {
		cursor := items[len(items)-1].CreatedAt
		feed.NextCursor = &cursor
	}
	return feed
}

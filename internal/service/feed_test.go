package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type feedFixture struct {
	memes   *mockMemes
	battles *mockBattles
	cache   *mockFeedCache
	svc     *FeedService
}

func newFeedFixture() *feedFixture {
	f := &feedFixture{memes: &mockMemes{}, battles: &mockBattles{}, cache: &mockFeedCache{}}
	f.svc = NewFeedService(f.memes, f.battles, f.cache, config.DefaultAppConfig(), &nopLogger)
	f.svc.now = func() time.Time { return battleNow }
	return f
}

func samplePage() *model.FeedPage {
	return &model.FeedPage{
		Memes: []model.Meme{
			{ID: uuid.New(), CreatedAt: battleNow.Add(-1 * time.Minute)},
			{ID: uuid.New(), CreatedAt: battleNow.Add(-3 * time.Hour)},
		},
		Battles: []model.Battle{
			{ID: uuid.New(), CreatedAt: battleNow.Add(-2 * time.Hour)},
		},
	}
}

func TestFeedService_MergesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	page := samplePage()

	f.cache.On("Version", ctx).Return(int64(4), nil)
	f.cache.On("Get", ctx, int64(4), (*time.Time)(nil), 10).Return(page, true, nil)

	feed, err := f.svc.GetFeed(ctx, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)

	assert.Equal(t, model.FeedItemMeme, feed.Items[0].Type)
	assert.Equal(t, "1 minute ago", feed.Items[0].TimeAgo)
	assert.Equal(t, model.FeedItemBattle, feed.Items[1].Type)
	assert.Equal(t, model.FeedItemMeme, feed.Items[2].Type)

	require.NotNil(t, feed.NextCursor)
	assert.Equal(t, battleNow.Add(-3*time.Hour), *feed.NextCursor)

	f.memes.AssertNotCalled(t, "ListLatest", mock.Anything, mock.Anything, mock.Anything)
}

func TestFeedService_MissLoadsAndCaches(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	page := samplePage()
	before := battleNow.Add(-time.Minute)

	f.cache.On("Version", ctx).Return(int64(2), nil)
	f.cache.On("Get", ctx, int64(2), &before, 50).Return(nil, false, nil)
	f.memes.On("ListLatest", ctx, &before, 50).Return(page.Memes, nil)
	f.battles.On("ListLatest", ctx, &before, 50).Return(page.Battles, nil)
	f.cache.On("Set", ctx, int64(2), &before, 50, mock.Anything).Return(nil)

	// limit above the maximum is clamped
	feed, err := f.svc.GetFeed(ctx, nil, &before, 500)
	require.NoError(t, err)
	assert.Len(t, feed.Items, 3)
	f.cache.AssertExpectations(t)
}

func TestFeedService_CacheErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()

	f.cache.On("Version", ctx).Return(int64(0), nil)
	f.cache.On("Get", ctx, int64(0), (*time.Time)(nil), 5).Return(nil, false, errors.New("redis down"))
	f.memes.On("ListLatest", ctx, (*time.Time)(nil), 5).Return([]model.Meme{}, nil)
	f.battles.On("ListLatest", ctx, (*time.Time)(nil), 5).Return([]model.Battle{}, nil)
	f.cache.On("Set", ctx, int64(0), (*time.Time)(nil), 5, mock.Anything).Return(errors.New("redis down"))

	feed, err := f.svc.GetFeed(ctx, nil, nil, 5)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Nil(t, feed.NextCursor)
}

func TestFeedService_VersionErrorSkipsCache(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	page := samplePage()

	f.cache.On("Version", ctx).Return(int64(0), errors.New("redis down"))
	f.memes.On("ListLatest", ctx, (*time.Time)(nil), 10).Return(page.Memes, nil)
	f.battles.On("ListLatest", ctx, (*time.Time)(nil), 10).Return(page.Battles, nil)

	feed, err := f.svc.GetFeed(ctx, nil, nil, 0)
	require.NoError(t, err)
	assert.Len(t, feed.Items, 3)
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFeedService_StoresPageUnderVersionReadBeforeLoad(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	page := samplePage()

	// an Invalidate landing during the load must not re-key the page
	f.cache.On("Version", ctx).Return(int64(7), nil).Once()
	f.cache.On("Get", ctx, int64(7), (*time.Time)(nil), 10).Return(nil, false, nil)
	f.memes.On("ListLatest", ctx, (*time.Time)(nil), 10).Return(page.Memes, nil)
	f.battles.On("ListLatest", ctx, (*time.Time)(nil), 10).Return(page.Battles, nil)
	f.cache.On("Set", ctx, int64(7), (*time.Time)(nil), 10, mock.Anything).Return(nil)

	_, err := f.svc.GetFeed(ctx, nil, nil, 0)
	require.NoError(t, err)
	f.cache.AssertExpectations(t)
}

func TestFeedService_CursorKeepsDenserListComplete(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()

	memes := make([]model.Meme, 12)
	for i := range memes {
		memes[i] = model.Meme{ID: uuid.New(), CreatedAt: battleNow.Add(-time.Duration(i+1) * time.Minute)}
	}
	battles := []model.Battle{
		{ID: uuid.New(), CreatedAt: battleNow.Add(-100 * time.Hour)},
		{ID: uuid.New(), CreatedAt: battleNow.Add(-101 * time.Hour)},
	}

	f.cache.On("Version", ctx).Return(int64(1), nil)
	f.cache.On("Get", ctx, int64(1), (*time.Time)(nil), 10).
		Return(&model.FeedPage{Memes: memes[:10], Battles: battles}, true, nil)

	first, err := f.svc.GetFeed(ctx, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	for _, item := range first.Items {
		assert.Equal(t, model.FeedItemMeme, item.Type)
	}
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, memes[9].CreatedAt, *first.NextCursor)

	cursor := *first.NextCursor
	f.cache.On("Get", ctx, int64(1), &cursor, 10).
		Return(&model.FeedPage{Memes: memes[10:], Battles: battles}, true, nil)

	second, err := f.svc.GetFeed(ctx, nil, &cursor, 10)
	require.NoError(t, err)
	require.Len(t, second.Items, 4)
	assert.Equal(t, memes[10].ID, second.Items[0].Meme.ID)
	assert.Equal(t, memes[11].ID, second.Items[1].Meme.ID)
	assert.Equal(t, battles[0].ID, second.Items[2].Battle.ID)
	assert.Equal(t, battles[1].ID, second.Items[3].Battle.ID)
	assert.Equal(t, battles[1].CreatedAt, *second.NextCursor)
}

func TestFeedService_ViewerState(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	page := samplePage()
	viewer := uuid.New()
	battle := page.Battles[0]
	votedFor := uuid.New()

	f.cache.On("Version", ctx).Return(int64(0), nil)
	f.cache.On("Get", ctx, int64(0), (*time.Time)(nil), 10).Return(page, true, nil)
	f.memes.On("LikedIDs", ctx, viewer, []uuid.UUID{page.Memes[0].ID, page.Memes[1].ID}).
		Return(map[uuid.UUID]bool{page.Memes[1].ID: true}, nil)
	f.battles.On("ViewerState", ctx, viewer, []uuid.UUID{battle.ID}).
		Return(map[uuid.UUID]bool{battle.ID: true}, map[uuid.UUID]uuid.UUID{battle.ID: votedFor}, nil)

	feed, err := f.svc.GetFeed(ctx, &viewer, nil, 0)
	require.NoError(t, err)

	assert.False(t, feed.Items[0].Meme.HasLiked)
	assert.True(t, feed.Items[1].Battle.HasLiked)
	assert.True(t, feed.Items[1].Battle.HasVoted)
	assert.Equal(t, votedFor, *feed.Items[1].Battle.VotedMemeID)
	assert.True(t, feed.Items[2].Meme.HasLiked)
}

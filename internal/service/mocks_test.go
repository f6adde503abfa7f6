package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/repository"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var nopLogger = zerolog.Nop()

// pngBytes starts with the PNG signature, enough for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func requireHTTPError(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	require.Equal(t, status, httpErr.Status, httpErr.Message)
	return httpErr
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(*model.Profile)
	return out, args.Error(1)
}

func (m *mockProfiles) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Profile)
	return out, args.Error(1)
}

func (m *mockProfiles) GetByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	args := m.Called(ctx, handle)
	out, _ := args.Get(0).(*model.Profile)
	return out, args.Error(1)
}

func (m *mockProfiles) Update(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Profile, error) {
	args := m.Called(ctx, id, upd)
	out, _ := args.Get(0).(*model.Profile)
	return out, args.Error(1)
}

type mockFollows struct{ mock.Mock }

func (m *mockFollows) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	return m.Called(ctx, followerID, followedID).Error(0)
}

func (m *mockFollows) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	return m.Called(ctx, followerID, followedID).Error(0)
}

func (m *mockFollows) Stats(ctx context.Context, userID uuid.UUID) (model.FollowStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.FollowStats), args.Error(1)
}

func (m *mockFollows) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

type mockMemes struct{ mock.Mock }

func (m *mockMemes) Create(ctx context.Context, meme *model.Meme) (*model.Meme, error) {
	args := m.Called(ctx, meme)
	out, _ := args.Get(0).(*model.Meme)
	return out, args.Error(1)
}

func (m *mockMemes) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Meme, error) {
	args := m.Called(ctx, id, viewerID)
	out, _ := args.Get(0).(*model.Meme)
	return out, args.Error(1)
}

func (m *mockMemes) DeleteOwned(ctx context.Context, id, creatorID uuid.UUID) (*model.Meme, error) {
	args := m.Called(ctx, id, creatorID)
	out, _ := args.Get(0).(*model.Meme)
	return out, args.Error(1)
}

func (m *mockMemes) ListLatest(ctx context.Context, before *time.Time, limit int) ([]model.Meme, error) {
	args := m.Called(ctx, before, limit)
	out, _ := args.Get(0).([]model.Meme)
	return out, args.Error(1)
}

func (m *mockMemes) ListByCreator(ctx context.Context, creatorID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Meme, error) {
	args := m.Called(ctx, creatorID, viewerID, limit)
	out, _ := args.Get(0).([]model.Meme)
	return out, args.Error(1)
}

func (m *mockMemes) ListLikedBy(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Meme, error) {
	args := m.Called(ctx, userID, viewerID, limit)
	out, _ := args.Get(0).([]model.Meme)
	return out, args.Error(1)
}

func (m *mockMemes) LikedIDs(ctx context.Context, userID uuid.UUID, memeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, userID, memeIDs)
	out, _ := args.Get(0).(map[uuid.UUID]bool)
	return out, args.Error(1)
}

type mockBattles struct{ mock.Mock }

func (m *mockBattles) Create(ctx context.Context, b *model.Battle) (*model.Battle, error) {
	args := m.Called(ctx, b)
	out, _ := args.Get(0).(*model.Battle)
	return out, args.Error(1)
}

func (m *mockBattles) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Battle, error) {
	args := m.Called(ctx, id, viewerID)
	out, _ := args.Get(0).(*model.Battle)
	return out, args.Error(1)
}

func (m *mockBattles) Vote(ctx context.Context, battleID, voterID, memeID uuid.UUID) error {
	return m.Called(ctx, battleID, voterID, memeID).Error(0)
}

func (m *mockBattles) Votes(ctx context.Context, battleID uuid.UUID) (model.BattleVotes, error) {
	args := m.Called(ctx, battleID)
	return args.Get(0).(model.BattleVotes), args.Error(1)
}

func (m *mockBattles) Close(ctx context.Context, battleID uuid.UUID) (model.BattleVotes, bool, error) {
	args := m.Called(ctx, battleID)
	return args.Get(0).(model.BattleVotes), args.Bool(1), args.Error(2)
}

func (m *mockBattles) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Battle, error) {
	args := m.Called(ctx, now, limit)
	out, _ := args.Get(0).([]model.Battle)
	return out, args.Error(1)
}

func (m *mockBattles) ListLatest(ctx context.Context, before *time.Time, limit int) ([]model.Battle, error) {
	args := m.Called(ctx, before, limit)
	out, _ := args.Get(0).([]model.Battle)
	return out, args.Error(1)
}

func (m *mockBattles) ListByCreator(ctx context.Context, creatorID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Battle, error) {
	args := m.Called(ctx, creatorID, viewerID, limit)
	out, _ := args.Get(0).([]model.Battle)
	return out, args.Error(1)
}

func (m *mockBattles) ViewerState(ctx context.Context, userID uuid.UUID, battleIDs []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID]uuid.UUID, error) {
	args := m.Called(ctx, userID, battleIDs)
	liked, _ := args.Get(0).(map[uuid.UUID]bool)
	voted, _ := args.Get(1).(map[uuid.UUID]uuid.UUID)
	return liked, voted, args.Error(2)
}

type mockEngagement struct{ mock.Mock }

func (m *mockEngagement) ToggleLike(ctx context.Context, userID uuid.UUID, postType model.PostType, postID uuid.UUID) (model.LikeState, error) {
	args := m.Called(ctx, userID, postType, postID)
	return args.Get(0).(model.LikeState), args.Error(1)
}

func (m *mockEngagement) LikesCount(ctx context.Context, postType model.PostType, postID uuid.UUID) (int64, error) {
	args := m.Called(ctx, postType, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEngagement) PostExists(ctx context.Context, postType model.PostType, postID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postType, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEngagement) AddComment(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*model.Comment)
	return out, args.Error(1)
}

func (m *mockEngagement) GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Comment)
	return out, args.Error(1)
}

func (m *mockEngagement) ListComments(ctx context.Context, postType model.PostType, postID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, postType, postID)
	out, _ := args.Get(0).([]model.Comment)
	return out, args.Error(1)
}

// mockSponsors runs the bid check against bidder and main before answering
// PlaceBid, the way the repository does inside its transaction.
type mockSponsors struct {
	mock.Mock
	bidder *model.Sponsor
	main   *model.Sponsor
}

func (m *mockSponsors) Create(ctx context.Context, s *model.Sponsor) (*model.Sponsor, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(*model.Sponsor)
	return out, args.Error(1)
}

func (m *mockSponsors) GetByID(ctx context.Context, id uuid.UUID) (*model.Sponsor, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Sponsor)
	return out, args.Error(1)
}

func (m *mockSponsors) List(ctx context.Context) ([]model.Sponsor, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Sponsor)
	return out, args.Error(1)
}

func (m *mockSponsors) GetMain(ctx context.Context) (*model.Sponsor, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*model.Sponsor)
	return out, args.Error(1)
}

func (m *mockSponsors) PlaceBid(ctx context.Context, sponsorID, bidderID uuid.UUID, amount decimal.Decimal, check repository.BidCheck) (*model.BidResult, error) {
	if m.bidder != nil {
		if err := check(m.bidder, m.main); err != nil {
			return nil, err
		}
	}
	args := m.Called(ctx, sponsorID, bidderID, amount.String())
	out, _ := args.Get(0).(*model.BidResult)
	return out, args.Error(1)
}

type mockCoins struct{ mock.Mock }

func (m *mockCoins) Create(ctx context.Context, c *model.MemeCoin) (*model.MemeCoin, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*model.MemeCoin)
	return out, args.Error(1)
}

func (m *mockCoins) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]model.MemeCoin, error) {
	args := m.Called(ctx, creatorID, limit)
	out, _ := args.Get(0).([]model.MemeCoin)
	return out, args.Error(1)
}

type mockAuthProvider struct{ mock.Mock }

func (m *mockAuthProvider) SignUp(ctx context.Context, email, password string) (*supabase.User, *supabase.Session, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*supabase.User)
	session, _ := args.Get(1).(*supabase.Session)
	return user, session, args.Error(2)
}

func (m *mockAuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error) {
	args := m.Called(ctx, email, password)
	out, _ := args.Get(0).(*supabase.Session)
	return out, args.Error(1)
}

func (m *mockAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) Upload(ctx context.Context, path, contentType string, body io.Reader) error {
	return m.Called(ctx, path, contentType, body).Error(0)
}

func (m *mockStorage) Remove(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

func (m *mockStorage) PublicURL(path string) string {
	return "https://cdn.test/memes/" + path
}

type mockPinner struct{ mock.Mock }

func (m *mockPinner) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

type mockFeedCache struct{ mock.Mock }

func (m *mockFeedCache) Version(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFeedCache) Get(ctx context.Context, version int64, before *time.Time, limit int) (*model.FeedPage, bool, error) {
	args := m.Called(ctx, version, before, limit)
	out, _ := args.Get(0).(*model.FeedPage)
	return out, args.Bool(1), args.Error(2)
}

func (m *mockFeedCache) Set(ctx context.Context, version int64, before *time.Time, limit int, page *model.FeedPage) error {
	return m.Called(ctx, version, before, limit, page).Error(0)
}

func (m *mockFeedCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockEnqueuer struct{ mock.Mock }

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task.Type())
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, args.Error(0)
}

// rowNotFound mirrors how repositories report a missing row.
func rowNotFound(table string) error {
	return fmt.Errorf("failed to get row: table:%s: %w", table, pgx.ErrNoRows)
}

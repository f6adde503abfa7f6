package service

import (
	"context"
	"io"
	"time"

	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/repository"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*model.Profile, error)
	Update(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Profile, error)
}

type FollowStore interface {
	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (model.FollowStats, error)
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
}

type MemeStore interface {
	Create(ctx context.Context, m *model.Meme) (*model.Meme, error)
	GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Meme, error)
	DeleteOwned(ctx context.Context, id, creatorID uuid.UUID) (*model.Meme, error)
	ListLatest(ctx context.Context, before *time.Time, limit int) ([]model.Meme, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Meme, error)
	ListLikedBy(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Meme, error)
	LikedIDs(ctx context.Context, userID uuid.UUID, memeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type BattleStore interface {
	Create(ctx context.Context, b *model.Battle) (*model.Battle, error)
	GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Battle, error)
	Vote(ctx context.Context, battleID, voterID, memeID uuid.UUID) error
	Votes(ctx context.Context, battleID uuid.UUID) (model.BattleVotes, error)
	Close(ctx context.Context, battleID uuid.UUID) (model.BattleVotes, bool, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Battle, error)
	ListLatest(ctx context.Context, before *time.Time, limit int) ([]model.Battle, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, viewerID *uuid.UUID, limit int) ([]model.Battle, error)
	ViewerState(ctx context.Context, userID uuid.UUID, battleIDs []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID]uuid.UUID, error)
}

type EngagementStore interface {
	ToggleLike(ctx context.Context, userID uuid.UUID, postType model.PostType, postID uuid.UUID) (model.LikeState, error)
	LikesCount(ctx context.Context, postType model.PostType, postID uuid.UUID) (int64, error)
	PostExists(ctx context.Context, postType model.PostType, postID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, c *model.Comment) (*model.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListComments(ctx context.Context, postType model.PostType, postID uuid.UUID) ([]model.Comment, error)
}

type SponsorStore interface {
	Create(ctx context.Context, s *model.Sponsor) (*model.Sponsor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sponsor, error)
	List(ctx context.Context) ([]model.Sponsor, error)
	GetMain(ctx context.Context) (*model.Sponsor, error)
	PlaceBid(ctx context.Context, sponsorID, bidderID uuid.UUID, amount decimal.Decimal, check repository.BidCheck) (*model.BidResult, error)
}

type CoinStore interface {
	Create(ctx context.Context, c *model.MemeCoin) (*model.MemeCoin, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]model.MemeCoin, error)
}

// AuthProvider is the identity provider behind sign-up and sign-in.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*supabase.User, *supabase.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ObjectStorage holds uploaded meme images.
type ObjectStorage interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) error
	Remove(ctx context.Context, paths ...string) error
	PublicURL(path string) string
}

// Pinner pins files to IPFS and returns their CID.
type Pinner interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type FeedCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, before *time.Time, limit int) (*model.FeedPage, bool, error)
	Set(ctx context.Context, version int64, before *time.Time, limit int, page *model.FeedPage) error
	Invalidate(ctx context.Context) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

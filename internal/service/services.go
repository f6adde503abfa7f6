package service

import (
	"github.com/deppfellow/memwarzz/internal/lib/cache"
	"github.com/deppfellow/memwarzz/internal/lib/ipfs"
	"github.com/deppfellow/memwarzz/internal/lib/job"
	"github.com/deppfellow/memwarzz/internal/lib/storage"
	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/repository"
	"github.com/deppfellow/memwarzz/internal/server"
)

type Services struct {
	Auth       *AuthService
	Profile    *ProfileService
	Follow     *FollowService
	Meme       *MemeService
	Battle     *BattleService
	Engagement *EngagementService
	Feed       *FeedService
	Sponsor    *SponsorService
	Token      *TokenService
	Upload     *UploadService
	Job        *job.JobService
}

// NewService builds every service on top of the repositories and the
// outbound clients configured on s.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	cfg := s.Config
	app := cfg.App

	feedCache := cache.NewFeedCache(s.Redis, app.FeedCacheTTL)
	objects := storage.NewClient(cfg.Supabase)
	pinner := ipfs.NewClient(cfg.Integration)
	jobs := s.Job.Client

	return &Services{
		Auth:    NewAuthService(cfg.Auth, supabase.NewClient(cfg.Supabase), repos.Profiles, jobs, s.Logger),
		Profile: NewProfileService(repos.Profiles, repos.Follows, repos.Memes, repos.Battles, repos.Coins),
		Follow:  NewFollowService(repos.Profiles, repos.Follows),
		Meme:    NewMemeService(repos.Memes, objects, feedCache, app.MaxUploadBytes, s.Logger),
		Battle: NewBattleService(BattleDeps{
			Battles:  repos.Battles,
			Memes:    repos.Memes,
			Sponsors: repos.Sponsors,
			Profiles: repos.Profiles,
			Cache:    feedCache,
			Jobs:     jobs,
		}, app, s.Logger),
		Engagement: NewEngagementService(repos.Engagement, app.CommentMaxLength),
		Feed:       NewFeedService(repos.Memes, repos.Battles, feedCache, app, s.Logger),
		Sponsor:    NewSponsorService(repos.Sponsors, jobs, app.SponsorMinBidIncrement, s.Logger),
		Token:      NewTokenService(repos.Profiles, repos.Coins, pinner, app.MaxUploadBytes, s.Logger),
		Upload:     NewUploadService(pinner, app.MaxUploadBytes, s.Logger),
		Job:        s.Job,
	}, nil
}

package repository

import (
	"github.com/deppfellow/memwarzz/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Profiles   *ProfileRepository
	Follows    *FollowRepository
	Memes      *MemeRepository
	Battles    *BattleRepository
	Engagement *EngagementRepository
	Sponsors   *SponsorRepository
	Coins      *CoinRepository
}

// NewRepositories builds every repository on the server's shared pool.
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Profiles:   NewProfileRepository(pool),
		Follows:    NewFollowRepository(pool),
		Memes:      NewMemeRepository(pool),
		Battles:    NewBattleRepository(pool),
		Engagement: NewEngagementRepository(pool),
		Sponsors:   NewSponsorRepository(pool),
		Coins:      NewCoinRepository(pool),
	}
}

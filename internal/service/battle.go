package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/job"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// settleBatchSize bounds how many expired battles one settlement run closes.
const settleBatchSize = 100

type BattleService struct {
	battles     BattleStore
	memes       MemeStore
	sponsors    SponsorStore
	profiles    ProfileStore
	cache       FeedCache
	jobs        TaskEnqueuer
	minDuration time.Duration
	maxDuration time.Duration
	logger      *zerolog.Logger

	now func() time.Time
}

type BattleDeps struct {
	Battles  BattleStore
	Memes    MemeStore
	Sponsors SponsorStore
	Profiles ProfileStore
	Cache    FeedCache
	Jobs     TaskEnqueuer
}

func NewBattleService(deps BattleDeps, cfg *config.AppConfig, logger *zerolog.Logger) *BattleService {
	return &BattleService{
		battles:     deps.Battles,
		memes:       deps.Memes,
		sponsors:    deps.Sponsors,
		profiles:    deps.Profiles,
		cache:       deps.Cache,
		jobs:        deps.Jobs,
		minDuration: cfg.BattleMinDuration,
		maxDuration: cfg.BattleMaxDuration,
		logger:      logger,
		now:         time.Now,
	}
}

// StartBattle pits two existing memes against each other until ends_at.
// The current main sponsor, if any, is attached to the battle.
func (s *BattleService) StartBattle(ctx context.Context, userID uuid.UUID, req *model.StartBattleRequest) (*model.Battle, error) {
	now := s.now()
	if req.EndsAt.Before(now.Add(s.minDuration)) || req.EndsAt.After(now.Add(s.maxDuration)) {
		msg := fmt.Sprintf("End time must be between %s and %s from now.", s.minDuration, s.maxDuration)
		return nil, errs.NewBadRequestError(msg, true, nil, []errs.FieldError{{Field: "ends_at", Error: msg}}, nil)
	}

	meme1ID, meme2ID := model.ParseID(req.Meme1ID), model.ParseID(req.Meme2ID)
	for _, id := range []uuid.UUID{meme1ID, meme2ID} {
		if _, err := s.memes.GetByID(ctx, id, nil); err != nil {
			return nil, err
		}
	}

	battle := &model.Battle{
		CreatorID: userID,
		Meme1ID:   meme1ID,
		Meme2ID:   meme2ID,
		EndsAt:    req.EndsAt,
	}

	main, err := s.sponsors.GetMain(ctx)
	if err != nil {
		return nil, err
	}
	if main != nil {
		battle.SponsorID = &main.ID
	}

	created, err := s.battles.Create(ctx, battle)
	if err != nil {
		return nil, err
	}

	invalidateFeed(ctx, s.cache, s.logger)
	metrics.RecordEvent(metrics.EventBattleStarted)
	return created, nil
}

func (s *BattleService) GetBattle(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*model.Battle, error) {
	return s.battles.GetByID(ctx, id, viewerID)
}

// Vote casts userID's single vote in an open battle.
func (s *BattleService) Vote(ctx context.Context, userID, battleID, memeID uuid.UUID) (*model.VoteResult, error) {
	battle, err := s.battles.GetByID(ctx, battleID, nil)
	if err != nil {
		return nil, err
	}

	if !battle.IsActive || battle.Expired(s.now()) {
		code := "MEME_BATTLE_CLOSED"
		return nil, errs.NewBadRequestError("This battle is no longer accepting votes.", true, &code, nil, nil)
	}
	if !battle.HasMeme(memeID) {
		return nil, errs.NewBadRequestError("The voted meme is not part of this battle.", true, nil,
			[]errs.FieldError{{Field: "voted_meme_id", Error: "must be one of the battle's memes"}}, nil)
	}

	if err := s.battles.Vote(ctx, battleID, userID, memeID); err != nil {
		if errors.Is(err, repository.ErrBattleClosed) {
			code := "MEME_BATTLE_CLOSED"
			return nil, errs.NewBadRequestError("This battle is no longer accepting votes.", true, &code, nil, nil)
		}
		return nil, err
	}
	metrics.RecordEvent(metrics.EventVoteCast)

	votes, err := s.battles.Votes(ctx, battleID)
	if err != nil {
		return nil, err
	}
	return &model.VoteResult{BattleID: battleID, VotedMemeID: memeID, BattleVotes: votes}, nil
}

func (s *BattleService) Votes(ctx context.Context, battleID uuid.UUID) (*model.BattleVotes, error) {
	votes, err := s.battles.Votes(ctx, battleID)
	if err != nil {
		return nil, err
	}
	return &votes, nil
}

// CloseBattle ends a battle early. Only its creator may close it.
func (s *BattleService) CloseBattle(ctx context.Context, userID, battleID uuid.UUID) (*model.Battle, error) {
	battle, err := s.battles.GetByID(ctx, battleID, &userID)
	if err != nil {
		return nil, err
	}
	if battle.CreatorID != userID {
		return nil, errs.NewForbiddenError("Only the battle creator can close it.", true)
	}

	closed, err := s.close(ctx, battle)
	if err != nil {
		return nil, err
	}
	if !closed {
		code := "MEME_BATTLE_CLOSED"
		return nil, errs.NewBadRequestError("This battle is already closed.", true, &code, nil, nil)
	}

	invalidateFeed(ctx, s.cache, s.logger)
	return s.battles.GetByID(ctx, battleID, &userID)
}

// close closes the battle with the winner of its final count. It reports
// false when another caller closed the battle first.
func (s *BattleService) close(ctx context.Context, battle *model.Battle) (bool, error) {
	if !battle.IsActive {
		return false, nil
	}

	votes, closed, err := s.battles.Close(ctx, battle.ID)
	if err != nil {
		return false, err
	}
	if closed {
		battle.Meme1Votes, battle.Meme2Votes = votes.Meme1Votes, votes.Meme2Votes
		metrics.RecordEvent(metrics.EventBattleClosed)
	}
	return closed, nil
}

// SettleExpired closes every active battle whose voting window has passed
// and mails each creator the result. It runs from the battle:settle task.
func (s *BattleService) SettleExpired(ctx context.Context) (int, error) {
	settled := 0
	for {
		expired, err := s.battles.ListExpired(ctx, s.now(), settleBatchSize)
		if err != nil {
			return settled, err
		}

		closedInBatch := 0
		for i := range expired {
			battle := &expired[i]
			closed, err := s.close(ctx, battle)
			if err != nil {
				s.logger.Error().Err(err).Str("battle_id", battle.ID.String()).Msg("failed to settle battle")
				continue
			}
			if !closed {
				continue
			}
			closedInBatch++
			s.notifyResult(ctx, battle)
		}

		settled += closedInBatch
		// A short page means nothing is left; a page without progress
		// means the remaining battles keep failing.
		if len(expired) < settleBatchSize || closedInBatch == 0 {
			break
		}
	}

	if settled > 0 {
		invalidateFeed(ctx, s.cache, s.logger)
	}
	return settled, nil
}

func battleResult(b *model.Battle) string {
	votes := model.BattleVotes{Meme1Votes: b.Meme1Votes, Meme2Votes: b.Meme2Votes}
	winner := votes.Winner(b.Meme1ID, b.Meme2ID)

	switch {
	case winner == nil:
		return "Your battle ended in a tie."
	case *winner == b.Meme1ID:
		return "The first meme won your battle."
	default:
		return "The second meme won your battle."
	}
}

func (s *BattleService) notifyResult(ctx context.Context, battle *model.Battle) {
	creator, err := s.profiles.GetByID(ctx, battle.CreatorID)
	if err != nil {
		s.logger.Warn().Err(err).Str("battle_id", battle.ID.String()).Msg("failed to load battle creator")
		return
	}
	if creator.Email == nil {
		return
	}

	task, err := job.NewBattleResultTask(job.BattleResultPayload{
		To:         *creator.Email,
		Username:   creator.Username,
		Result:     battleResult(battle),
		Meme1Votes: battle.Meme1Votes,
		Meme2Votes: battle.Meme2Votes,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build battle result task")
		return
	}
	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("battle_id", battle.ID.String()).Msg("failed to enqueue battle result email")
	}
}

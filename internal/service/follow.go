package service

import (
	"context"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
)

type FollowService struct {
	profiles ProfileStore
	follows  FollowStore
}

func NewFollowService(profiles ProfileStore, follows FollowStore) *FollowService {
	return &FollowService{profiles: profiles, follows: follows}
}

func (s *FollowService) target(ctx context.Context, followerID uuid.UUID, handle string) (*model.Profile, error) {
	target, err := s.profiles.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		code := "FOLLOW_INVALID"
		return nil, errs.NewBadRequestError("You cannot follow yourself.", true, &code, nil, nil)
	}
	return target, nil
}

// Follow makes followerID follow the profile at handle and returns the
// target's updated stats. Following twice is a 409.
func (s *FollowService) Follow(ctx context.Context, followerID uuid.UUID, handle string) (*model.FollowStats, error) {
	target, err := s.target(ctx, followerID, handle)
	if err != nil {
		return nil, err
	}

	if err := s.follows.Follow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}
	metrics.RecordEvent(metrics.EventFollow)

	return s.Stats(ctx, target.ID)
}

// Unfollow succeeds whether or not the follow existed.
func (s *FollowService) Unfollow(ctx context.Context, followerID uuid.UUID, handle string) (*model.FollowStats, error) {
	target, err := s.target(ctx, followerID, handle)
	if err != nil {
		return nil, err
	}

	if err := s.follows.Unfollow(ctx, followerID, target.ID); err != nil {
		return nil, err
	}
	metrics.RecordEvent(metrics.EventUnfollow)

	return s.Stats(ctx, target.ID)
}

func (s *FollowService) Stats(ctx context.Context, userID uuid.UUID) (*model.FollowStats, error) {
	stats, err := s.follows.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

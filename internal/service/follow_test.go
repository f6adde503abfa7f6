package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Follow(t *testing.T) {
	ctx := context.Background()
	profiles, follows := &mockProfiles{}, &mockFollows{}
	svc := NewFollowService(profiles, follows)

	me := uuid.New()
	target := &model.Profile{ID: uuid.New(), Handle: "wojak"}

	profiles.On("GetByHandle", ctx, "wojak").Return(target, nil)
	follows.On("Follow", ctx, me, target.ID).Return(nil).Once()
	follows.On("Stats", ctx, target.ID).Return(model.FollowStats{Followers: 1}, nil)

	stats, err := svc.Follow(ctx, me, "wojak")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Followers)

	conflict := errs.NewConflictError("You already follow this profile.", true, nil)
	follows.On("Follow", ctx, me, target.ID).Return(conflict).Once()

	_, err = svc.Follow(ctx, me, "wojak")
	requireHTTPError(t, err, http.StatusConflict)
}

func TestFollowService_FollowSelf(t *testing.T) {
	ctx := context.Background()
	profiles, follows := &mockProfiles{}, &mockFollows{}
	svc := NewFollowService(profiles, follows)

	me := &model.Profile{ID: uuid.New(), Handle: "pepe"}
	profiles.On("GetByHandle", ctx, "pepe").Return(me, nil)

	_, err := svc.Follow(ctx, me.ID, "pepe")
	httpErr := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "You cannot follow yourself.", httpErr.Message)
	follows.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollowService_Unfollow(t *testing.T) {
	ctx := context.Background()
	profiles, follows := &mockProfiles{}, &mockFollows{}
	svc := NewFollowService(profiles, follows)

	me := uuid.New()
	target := &model.Profile{ID: uuid.New(), Handle: "wojak"}

	profiles.On("GetByHandle", ctx, "wojak").Return(target, nil)
	follows.On("Unfollow", ctx, me, target.ID).Return(nil)
	follows.On("Stats", ctx, target.ID).Return(model.FollowStats{}, nil)

	// twice: unfollowing a profile you do not follow is not an error
	for i := 0; i < 2; i++ {
		stats, err := svc.Unfollow(ctx, me, "wojak")
		require.NoError(t, err)
		assert.Zero(t, stats.Followers)
	}
	follows.AssertNumberOfCalls(t, "Unfollow", 2)
}

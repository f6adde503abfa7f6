package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/lib/job"
	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	provider *mockAuthProvider
	profiles *mockProfiles
	jobs     *mockEnqueuer
	svc      *AuthService
}

func newAuthFixture(provider string) *authFixture {
	f := &authFixture{
		provider: &mockAuthProvider{},
		profiles: &mockProfiles{},
		jobs:     &mockEnqueuer{},
	}
	f.svc = NewAuthService(config.AuthConfig{Provider: provider, SecretKey: "sk_test"}, f.provider, f.profiles, f.jobs, &nopLogger)
	return f
}

func signUpRequest() *model.SignUpRequest {
	return &model.SignUpRequest{
		Email:    " Pepe@Example.com ",
		Password: "hunter22",
		Username: "Pepe",
		Handle:   "pepe",
	}
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(config.AuthProviderSupabase)
	userID := uuid.New()

	f.profiles.On("GetByHandle", ctx, "pepe").Return(nil, rowNotFound("profiles"))
	f.provider.On("SignUp", ctx, "pepe@example.com", "hunter22").
		Return(&supabase.User{ID: userID.String(), Email: "pepe@example.com"}, nil, nil)
	f.profiles.On("Create", ctx, mock.MatchedBy(func(p *model.Profile) bool {
		return p.ID == userID && p.Email != nil && *p.Email == "pepe@example.com" && p.Role == model.RoleViewer
	})).Return(&model.Profile{ID: userID, Username: "Pepe", Handle: "pepe"}, nil)
	f.jobs.On("EnqueueContext", ctx, job.TaskWelcome).Return(nil)

	resp, err := f.svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	assert.Equal(t, userID, resp.UserID)
	assert.True(t, resp.ConfirmationRequired)
	f.jobs.AssertExpectations(t)
}

func TestAuthService_SignUp_HandleTaken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(config.AuthProviderSupabase)
	f.profiles.On("GetByHandle", ctx, "pepe").Return(&model.Profile{ID: uuid.New()}, nil)

	_, err := f.svc.SignUp(ctx, signUpRequest())
	httpErr := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "PROFILE_ALREADY_EXISTS", httpErr.Code)
	f.provider.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_SignUp_ProviderRejects(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(config.AuthProviderSupabase)
	f.profiles.On("GetByHandle", ctx, "pepe").Return(nil, rowNotFound("profiles"))
	f.provider.On("SignUp", ctx, mock.Anything, mock.Anything).
		Return(nil, nil, &supabase.APIError{Status: http.StatusUnprocessableEntity, Message: "User already registered"})

	_, err := f.svc.SignUp(ctx, signUpRequest())
	httpErr := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "User already registered", httpErr.Message)
}

func TestAuthService_ClerkDisablesPasswordAuth(t *testing.T) {
	f := newAuthFixture(config.AuthProviderClerk)

	_, err := f.svc.SignUp(context.Background(), signUpRequest())
	requireHTTPError(t, err, http.StatusBadRequest)

	_, err = f.svc.SignIn(context.Background(), &model.SignInRequest{Email: "a@b.co", Password: "x"})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("bad credentials", func(t *testing.T) {
		f := newAuthFixture(config.AuthProviderSupabase)
		f.provider.On("SignInWithPassword", ctx, "pepe@example.com", "wrong").Return(nil, supabase.ErrInvalidCredentials)

		_, err := f.svc.SignIn(ctx, &model.SignInRequest{Email: "pepe@example.com", Password: "wrong"})
		httpErr := requireHTTPError(t, err, http.StatusUnauthorized)
		assert.Equal(t, "Invalid login credentials", httpErr.Message)
	})

	t.Run("returns session with profile", func(t *testing.T) {
		f := newAuthFixture(config.AuthProviderSupabase)
		f.provider.On("SignInWithPassword", ctx, "pepe@example.com", "hunter22").Return(&supabase.Session{
			AccessToken: "access",
			ExpiresIn:   3600,
			User:        &supabase.User{ID: userID.String()},
		}, nil)
		f.profiles.On("GetByID", ctx, userID).Return(&model.Profile{ID: userID, Handle: "pepe"}, nil)

		session, err := f.svc.SignIn(ctx, &model.SignInRequest{Email: "pepe@example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.Equal(t, "access", session.AccessToken)
		require.NotNil(t, session.Profile)
		assert.Equal(t, "pepe", session.Profile.Handle)
	})

	t.Run("provider down", func(t *testing.T) {
		f := newAuthFixture(config.AuthProviderSupabase)
		f.provider.On("SignInWithPassword", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused"))

		_, err := f.svc.SignIn(ctx, &model.SignInRequest{Email: "pepe@example.com", Password: "hunter22"})
		requireHTTPError(t, err, http.StatusBadGateway)
	})
}

func TestAuthService_Session(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(config.AuthProviderSupabase)

	_, err := f.svc.Session(ctx, "user_2abc")
	requireHTTPError(t, err, http.StatusUnauthorized)

	userID := uuid.New()
	f.profiles.On("GetByID", ctx, userID).Return(nil, rowNotFound("profiles"))

	info, err := f.svc.Session(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, userID.String(), info.UserID)
	assert.Nil(t, info.Profile)
}

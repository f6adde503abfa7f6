package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/job"
	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type AuthService struct {
	provider     AuthProvider
	providerName string
	profiles     ProfileStore
	jobs         TaskEnqueuer
	logger       *zerolog.Logger
}

// NewAuthService wires sign-up and sign-in. With the clerk provider the
// Clerk SDK is keyed here and the password endpoints are disabled.
func NewAuthService(cfg config.AuthConfig, provider AuthProvider, profiles ProfileStore, jobs TaskEnqueuer, logger *zerolog.Logger) *AuthService {
	if cfg.Provider == config.AuthProviderClerk {
		clerk.SetKey(cfg.SecretKey)
	}

	return &AuthService{
		provider:     provider,
		providerName: cfg.Provider,
		profiles:     profiles,
		jobs:         jobs,
		logger:       logger,
	}
}

func (s *AuthService) passwordAuthEnabled() error {
	if s.providerName == config.AuthProviderClerk {
		return errs.NewBadRequestError("Email and password auth is disabled, sign in with Clerk.", true, nil, nil, nil)
	}
	return nil
}

// providerError maps an auth provider failure to an HTTP error. Client
// mistakes reported by the provider keep its message.
func providerError(err error) error {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusTooManyRequests {
		return errs.NewBadRequestError(apiErr.Message, true, nil, nil, nil)
	}
	return errs.NewBadGatewayError("Authentication provider is unavailable, try again later.")
}

// SignUp registers the user with the auth provider and creates the profile
// under the returned user id.
func (s *AuthService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.SignUpResponse, error) {
	if err := s.passwordAuthEnabled(); err != nil {
		return nil, err
	}

	// Check the handle before the provider creates an account that would
	// be left without a profile.
	if _, err := s.profiles.GetByHandle(ctx, req.Handle); err == nil {
		code := "PROFILE_ALREADY_EXISTS"
		return nil, errs.NewBadRequestError("A profile with this handle already exists", true, &code, nil, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, session, err := s.provider.SignUp(ctx, email, req.Password)
	if err != nil {
		s.logger.Warn().Err(err).Msg("auth provider rejected sign up")
		return nil, providerError(err)
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth provider returned invalid user id %q: %w", user.ID, err)
	}

	profile, err := s.profiles.Create(ctx, model.NewProfile(userID, &email, req.Username, req.Handle, req.Role, req.SolanaWalletAddress))
	if err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, email, profile)
	metrics.RecordEvent(metrics.EventSignUp)

	return &model.SignUpResponse{
		UserID:               userID,
		Profile:              profile,
		ConfirmationRequired: session == nil,
	}, nil
}

func (s *AuthService) enqueueWelcome(ctx context.Context, email string, profile *model.Profile) {
	task, err := job.NewWelcomeEmailTask(email, profile.Username, profile.Handle)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build welcome email task")
		return
	}
	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("user_id", profile.ID.String()).Msg("failed to enqueue welcome email")
	}
}

// SignIn exchanges email and password for a session. The profile is nil
// when the account has none yet.
func (s *AuthService) SignIn(ctx context.Context, req *model.SignInRequest) (*model.AuthSession, error) {
	if err := s.passwordAuthEnabled(); err != nil {
		return nil, err
	}

	session, err := s.provider.SignInWithPassword(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if errors.Is(err, supabase.ErrInvalidCredentials) {
		return nil, errs.NewUnauthorizedError("Invalid login credentials", true)
	}
	if err != nil {
		return nil, providerError(err)
	}

	out := &model.AuthSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		ExpiresAt:    session.ExpiresAt,
	}

	if session.User != nil {
		if userID, err := uuid.Parse(session.User.ID); err == nil {
			profile, err := s.profiles.GetByID(ctx, userID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			out.Profile = profile
		}
	}
	return out, nil
}

func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	if err := s.passwordAuthEnabled(); err != nil {
		return err
	}
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		return providerError(err)
	}
	return nil
}

// Session reports who the bearer token belongs to.
func (s *AuthService) Session(ctx context.Context, userID string) (*model.SessionInfo, error) {
	info := &model.SessionInfo{UserID: userID}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	info.Profile = profile
	return info, nil
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/lib/supabase"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// clerkUserNamespace seeds the UUIDs derived from Clerk user ids.
var clerkUserNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://clerk.com/users"))

// ClerkUserID maps a Clerk subject such as "user_2abc" onto a stable UUID,
// so profiles are keyed by UUID under either provider.
func ClerkUserID(subject string) string {
	return uuid.NewSHA1(clerkUserNamespace, []byte(subject)).String()
}

// TokenVerifier checks a Supabase access token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*supabase.User, error)
}

// AuthMiddleware authenticates bearer tokens with the configured provider
// and stores the user id under UserIDKey.
type AuthMiddleware struct {
	server   *server.Server
	provider string
	verifier TokenVerifier
}

func NewAuthMiddleware(s *server.Server, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		server:   s,
		provider: s.Config.Auth.Provider,
		verifier: verifier,
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// setUser stores the authenticated identity and adds it to the request
// logger, which EnhanceContext built before route level auth ran.
func setUser(c echo.Context, userID, role, token string) {
	c.Set(UserIDKey, userID)
	c.Set(UserRoleKey, role)
	c.Set(AccessTokenKey, token)

	ctx := GetLogger(c).With().Str("user_id", userID)
	if role != "" {
		ctx = ctx.Str("user_role", role)
	}
	l := ctx.Logger()
	c.Set(LoggerKey, &l)
}

// RequireAuth rejects requests without a valid bearer token with a 401.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	if auth.provider == config.AuthProviderClerk {
		return auth.requireClerk(next)
	}

	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		user, err := auth.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			GetLogger(c).Warn().Err(err).Str("function", "RequireAuth").Msg("rejected access token")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		setUser(c, user.ID, user.Role, token)
		return next(c)
	}
}

// OptionalAuth authenticates the request when it carries a token and lets
// anonymous requests through. A token that fails verification is still
// a 401.
func (auth *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	required := auth.RequireAuth(next)

	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return next(c)
		}
		return required(c)
	}
}

func (auth *AuthMiddleware) requireClerk(next echo.HandlerFunc) echo.HandlerFunc {
	onFailure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusUnauthorized)
		if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
			auth.server.Logger.Error().Err(err).Str("function", "RequireAuth").Msg("failed to write JSON response")
		}
	})

	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(clerkhttp.AuthorizationFailureHandler(onFailure)),
	)(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			GetLogger(c).Warn().Str("function", "RequireAuth").Msg("could not get session claims from context")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		setUser(c, ClerkUserID(claims.Subject), claims.ActiveOrganizationRole, bearerToken(c))
		return next(c)
	})
}

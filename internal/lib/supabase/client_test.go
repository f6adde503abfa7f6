package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func newTestClient(t *testing.T, handler http.HandlerFunc, secret string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.SupabaseConfig{
		URL:       srv.URL + "/",
		AnonKey:   "anon-key",
		JWTSecret: secret,
	})
}

func signToken(t *testing.T, secret string, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "neo@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestSignUp_WithSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "neo@example.com", body.Email)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"expires_in":    3600,
			"user":          map[string]any{"id": "u-1", "email": body.Email},
		})
	}, "")

	user, session, err := c.SignUp(context.Background(), "neo@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	require.NotNil(t, session)
	assert.Equal(t, "at", session.AccessToken)
}

func TestSignUp_EmailConfirmationPending(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-2", "email": "trin@example.com"})
	}, "")

	user, session, err := c.SignUp(context.Background(), "trin@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u-2", user.ID)
	assert.Nil(t, session)
}

func TestSignUp_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	}, "")

	_, _, err := c.SignUp(context.Background(), "neo@example.com", "password1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "user_already_exists", apiErr.Code)
	assert.Equal(t, "User already registered", apiErr.Message)
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "right" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at",
			"user":         map[string]any{"id": "u-1"},
		})
	}, "")

	session, err := c.SignInWithPassword(context.Background(), "neo@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "u-1", session.User.ID)

	_, err = c.SignInWithPassword(context.Background(), "neo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}, "")

	assert.NoError(t, c.SignOut(context.Background(), "user-token"))
}

func TestVerifyToken_Local(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}, testSecret)

	token := signToken(t, testSecret, "u-1", time.Now().Add(time.Hour))
	user, err := c.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "neo@example.com", user.Email)
	assert.Zero(t, calls)
}

func TestVerifyToken_ExpiredFallsBackToRemote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
	}, testSecret)

	token := signToken(t, testSecret, "u-1", time.Now().Add(-time.Hour))
	_, err := c.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongSecretUsesRemote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-9", "email": "remote@example.com"})
	}, testSecret)

	token := signToken(t, "another-secret-that-is-long-enough-for-hs256", "u-1", time.Now().Add(time.Hour))
	user, err := c.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)
}

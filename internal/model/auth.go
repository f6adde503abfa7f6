package model

import (
	"strings"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
)

type SignUpRequest struct {
	Email               string  `json:"email" validate:"required,email"`
	Password            string  `json:"password" validate:"required,min=6,max=72"`
	Username            string  `json:"username" validate:"required,min=1,max=50"`
	Handle              string  `json:"handle" validate:"required,handle"`
	Role                Role    `json:"role" validate:"omitempty,oneof=viewer creator"`
	SolanaWalletAddress *string `json:"solana_wallet_address" validate:"omitempty,solana_wallet"`
}

func (r *SignUpRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validateWalletForRole(r.Role, r.SolanaWalletAddress)
}

// NewProfile builds the profile row for a freshly registered user. Viewers
// never keep a wallet even when one was sent.
func NewProfile(userID uuid.UUID, email *string, username, handle string, role Role, wallet *string) *Profile {
	if role == "" {
		role = RoleViewer
	}

	p := &Profile{
		ID:       userID,
		Username: strings.TrimSpace(username),
		Handle:   strings.TrimSpace(handle),
		Role:     role,
		Email:    email,
	}
	if role == RoleCreator {
		p.SolanaWalletAddress = optionalString(wallet)
	}
	return p
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *SignInRequest) Validate() error {
	return validation.Struct(r)
}

type SignOutRequest struct{}

func (r *SignOutRequest) Validate() error {
	return nil
}

type SessionRequest struct{}

func (r *SessionRequest) Validate() error {
	return nil
}

// AuthSession is returned by sign-in.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at"`
	Profile      *Profile `json:"profile"`
}

// SessionInfo answers the session check.
type SessionInfo struct {
	UserID  string   `json:"user_id"`
	Profile *Profile `json:"profile"`
}

type SignUpResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Profile *Profile  `json:"profile"`
	// ConfirmationRequired is set when the auth provider holds the session
	// until the email address is confirmed.
	ConfirmationRequired bool `json:"confirmation_required"`
}

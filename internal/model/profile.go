package model

import (
	"strings"
	"time"

	"github.com/deppfellow/memwarzz/internal/validation"
	"github.com/google/uuid"
)

type Role string

const (
	RoleViewer  Role = "viewer"
	RoleCreator Role = "creator"
)

type Profile struct {
	ID                  uuid.UUID `json:"id"`
	Username            string    `json:"username"`
	Handle              string    `json:"handle"`
	AvatarURL           *string   `json:"avatar_url"`
	Bio                 *string   `json:"bio"`
	Role                Role      `json:"role"`
	Email               *string   `json:"-"`
	SolanaWalletAddress *string   `json:"solana_wallet_address"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Author is the public slice of a profile joined onto posts and comments.
type Author struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Handle    string    `json:"handle"`
	AvatarURL *string   `json:"avatar_url"`
}

type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// ProfileDetails is what profile pages render.
type ProfileDetails struct {
	Profile
	FollowStats
	IsFollowing bool `json:"is_following"`
}

// ProfileUpdate carries the columns UpdateMe may change. Nil leaves a
// column untouched; ClearWallet sets the wallet to NULL.
type ProfileUpdate struct {
	Username    *string
	AvatarURL   *string
	Bio         *string
	Wallet      *string
	ClearWallet bool
}

// CreateProfileRequest creates the caller's profile when the identity comes
// from an external provider.
type CreateProfileRequest struct {
	Username            string  `json:"username" validate:"required,min=1,max=50"`
	Handle              string  `json:"handle" validate:"required,handle"`
	Role                Role    `json:"role" validate:"omitempty,oneof=viewer creator"`
	SolanaWalletAddress *string `json:"solana_wallet_address" validate:"omitempty,solana_wallet"`
}

func (r *CreateProfileRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validateWalletForRole(r.Role, r.SolanaWalletAddress)
}

// validateWalletForRole enforces that creators carry a wallet.
func validateWalletForRole(role Role, wallet *string) error {
	if role == RoleCreator && (wallet == nil || strings.TrimSpace(*wallet) == "") {
		return validation.CustomValidationErrors{
			{Field: "solana_wallet_address", Message: "Creators must connect a Solana wallet."},
		}
	}
	return nil
}

// MeRequest addresses the caller's own profile.
type MeRequest struct{}

func (r *MeRequest) Validate() error {
	return nil
}

type GetProfileRequest struct {
	Handle string `param:"handle" validate:"required,handle"`
}

func (r *GetProfileRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateProfileRequest struct {
	Username            *string `json:"username" validate:"omitempty,min=1,max=50"`
	AvatarURL           *string `json:"avatar_url" validate:"omitempty,url"`
	Bio                 *string `json:"bio" validate:"omitempty,max=280"`
	SolanaWalletAddress *string `json:"solana_wallet_address" validate:"omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	// an explicit "" clears the wallet, anything else must be an address
	if r.SolanaWalletAddress != nil && strings.TrimSpace(*r.SolanaWalletAddress) != "" {
		type walletOnly struct {
			Wallet string `json:"solana_wallet_address" validate:"solana_wallet"`
		}
		return validation.Struct(walletOnly{Wallet: strings.TrimSpace(*r.SolanaWalletAddress)})
	}
	return nil
}

// ToUpdate converts the request into a ProfileUpdate.
func (r *UpdateProfileRequest) ToUpdate() ProfileUpdate {
	upd := ProfileUpdate{
		Username:  optionalString(r.Username),
		AvatarURL: optionalString(r.AvatarURL),
		Bio:       optionalString(r.Bio),
	}
	if r.SolanaWalletAddress != nil {
		if wallet := optionalString(r.SolanaWalletAddress); wallet != nil {
			upd.Wallet = wallet
		} else {
			upd.ClearWallet = true
		}
	}
	return upd
}

type FollowRequest struct {
	Handle string `param:"handle" validate:"required,handle"`
}

func (r *FollowRequest) Validate() error {
	return validation.Struct(r)
}

type ProfileTabRequest struct {
	Handle string `param:"handle" validate:"required,handle"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

func (r *ProfileTabRequest) Validate() error {
	return validation.Struct(r)
}

// Package solana holds the Solana rules the API enforces without touching
// the chain: wallet address checks, meme coin draft validation and the
// creation fee estimate.
package solana

import (
	"strings"

	"github.com/mr-tron/base58"
)

// PublicKeyLength is the size of an ed25519 public key.
const PublicKeyLength = 32

// IsValidWalletAddress reports whether addr is a base58 encoded 32 byte
// public key, the form wallets hand out with publicKey.toBase58().
func IsValidWalletAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}

	decoded, err := base58.Decode(addr)
	if err != nil {
		return false
	}
	return len(decoded) == PublicKeyLength
}

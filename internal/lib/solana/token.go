package solana

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MaxTokenNameLength   = 32
	MaxTokenSymbolLength = 8
	MaxDescriptionLength = 300
	MinTokenDecimals     = 1
	MaxTokenDecimals     = 9
)

var (
	// BaseCreationFee is charged for every mint.
	BaseCreationFee = decimal.RequireFromString("0.1")

	// RevokeAuthorityFee is charged per revoked authority (mint, freeze).
	RevokeAuthorityFee = decimal.RequireFromString("0.1")
)

// MaxSupply returns the largest whole-token supply that still fits a u64
// amount once scaled by 10^decimals.
func MaxSupply(decimals int) int64 {
	switch {
	case decimals <= 4:
		return 1_844_674_407_370_955
	case decimals <= 7:
		return 1_844_674_407_370
	case decimals == 8:
		return 184_467_440_737
	default:
		return 18_446_744_073
	}
}

// TokenDraft is the meme coin creation form.
type TokenDraft struct {
	Name         string
	Symbol       string
	Decimals     int
	Description  string
	TotalSupply  string
	HasImage     bool
	ImageIsPNG   bool
	RevokeMint   bool
	RevokeFreeze bool
}

var numberPrinter = message.NewPrinter(language.English)

// Validate checks every field and reports all failures together. Later
// checks on a field replace earlier ones, so the most specific message wins.
func (d TokenDraft) Validate() []errs.FieldError {
	failures := map[string]string{}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		failures["name"] = "Token name is required."
	} else if utf8.RuneCountInString(name) > MaxTokenNameLength {
		failures["name"] = fmt.Sprintf("Token name cannot exceed %d characters.", MaxTokenNameLength)
	}

	if strings.TrimSpace(d.Symbol) == "" {
		failures["symbol"] = "Symbol is required."
	}
	if utf8.RuneCountInString(d.Symbol) > MaxTokenSymbolLength {
		failures["symbol"] = fmt.Sprintf("Symbol cannot exceed %d characters.", MaxTokenSymbolLength)
	}

	if d.Decimals < MinTokenDecimals || d.Decimals > MaxTokenDecimals {
		failures["decimals"] = fmt.Sprintf("Decimals must be between %d and %d.", MinTokenDecimals, MaxTokenDecimals)
	}

	if !d.HasImage {
		failures["image"] = "Image is required."
	} else if !d.ImageIsPNG {
		failures["image"] = "Only PNG files are allowed."
	}

	if strings.TrimSpace(d.Description) == "" {
		failures["description"] = "Description is required."
	}
	if utf8.RuneCountInString(d.Description) > MaxDescriptionLength {
		failures["description"] = fmt.Sprintf("Description cannot exceed %d characters.", MaxDescriptionLength)
	}

	if msg := d.supplyError(); msg != "" {
		failures["total_supply"] = msg
	}

	// stable order for clients rendering errors next to inputs
	var out []errs.FieldError
	for _, field := range []string{"name", "symbol", "decimals", "image", "description", "total_supply"} {
		if msg, ok := failures[field]; ok {
			out = append(out, errs.FieldError{Field: field, Error: msg})
		}
	}
	return out
}

func (d TokenDraft) supplyError() string {
	raw := strings.TrimSpace(d.TotalSupply)
	if raw == "" {
		return "Supply is required."
	}

	supply, err := decimal.NewFromString(raw)
	if err != nil || !supply.IsPositive() {
		return "Enter a valid supply."
	}

	limit := MaxSupply(d.Decimals)
	if supply.GreaterThan(decimal.NewFromInt(limit)) {
		return numberPrinter.Sprintf("For decimals %d, max supply is %d", d.Decimals, limit)
	}
	return ""
}

// Supply parses TotalSupply. Call it after Validate succeeded.
func (d TokenDraft) Supply() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(d.TotalSupply))
}

// EstimateCreationFee returns the SOL cost of creating the token.
func EstimateCreationFee(revokeMint, revokeFreeze bool) decimal.Decimal {
	fee := BaseCreationFee
	if revokeMint {
		fee = fee.Add(RevokeAuthorityFee)
	}
	if revokeFreeze {
		fee = fee.Add(RevokeAuthorityFee)
	}
	return fee
}

package persist

import (
	"fmt"
	"math/big"
)

// MaxRoyaltyBps is the highest per-token royalty a creator can set at mint
// time, in basis points (10%).
const MaxRoyaltyBps uint64 = 1000

// Token represents a single minted token. Everything but the owner is fixed
// at mint time.
type Token struct {
	ID           TokenID      `json:"id"`
	CreationTime CreationTime `json:"created_at"`

	Owner   Address `json:"owner"`
	Creator Address `json:"creator"`

	Name        string `json:"name"`
	Description string `json:"description"`
	ContentURI  string `json:"content_uri"`
	Category    string `json:"category"`
	Collection  string `json:"collection"`

	// RoyaltyBps is the creator's cut of every sale, in basis points.
	RoyaltyBps uint64 `json:"royalty_bps"`
}

// TokenMetadata is the immutable, mint-time view of a token returned to
// callers that don't need the current owner.
type TokenMetadata struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ContentURI  string  `json:"content_uri"`
	Category    string  `json:"category"`
	Collection  string  `json:"collection"`
	Creator     Address `json:"creator"`
	RoyaltyBps  uint64  `json:"royalty_bps"`
}

// Metadata returns the mint-time metadata for the token
func (t Token) Metadata() TokenMetadata {
	return TokenMetadata{
		Name:        t.Name,
		Description: t.Description,
		ContentURI:  t.ContentURI,
		Category:    t.Category,
		Collection:  t.Collection,
		Creator:     t.Creator,
		RoyaltyBps:  t.RoyaltyBps,
	}
}

// RoyaltyFor returns the creator's cut of a sale at the given price
func (t Token) RoyaltyFor(salePrice *big.Int) *big.Int {
	cut := new(big.Int).Mul(salePrice, new(big.Int).SetUint64(t.RoyaltyBps))
	return cut.Div(cut, big.NewInt(10000))
}

// ErrTokenNotFoundByID is returned when a token is not found by its ID
type ErrTokenNotFoundByID struct {
	ID TokenID
}

func (e ErrTokenNotFoundByID) Error() string {
	return fmt.Sprintf("token not found by ID: %s", e.ID)
}

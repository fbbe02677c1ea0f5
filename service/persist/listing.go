package persist

import (
	"fmt"
	"math/big"
	"time"
)

// Listing is the sale record for a token. A token has at most one active
// listing at a time; a settled or delisted listing stays around as history
// until the token is listed again.
type Listing struct {
	TokenID      TokenID         `json:"token_id"`
	Seller       Address         `json:"seller"`
	Price        *big.Int        `json:"price"`
	IsAuction    bool            `json:"is_auction"`
	IsActive     bool            `json:"is_active"`
	CreationTime CreationTime    `json:"created_at"`
	LastUpdated  LastUpdatedTime `json:"last_updated"`

	// Auction state. AuctionEndTime is zero for fixed-price listings;
	// HighestBid funds are held in escrow by the ledger while the listing
	// is active.
	AuctionEndTime time.Time `json:"auction_end_time,omitempty"`
	HighestBid     *big.Int  `json:"highest_bid,omitempty"`
	HighestBidder  Address   `json:"highest_bidder,omitempty"`
}

// HasBid returns true once at least one bid has been placed
func (l Listing) HasBid() bool {
	return l.HighestBid != nil && l.HighestBid.Sign() > 0
}

// MinimumBid returns the lowest amount a new bid must exceed
func (l Listing) MinimumBid() *big.Int {
	if l.HasBid() {
		return l.HighestBid
	}
	return l.Price
}

// Ended reports whether an auction listing's end time has passed
func (l Listing) Ended(now time.Time) bool {
	return l.IsAuction && !now.Before(l.AuctionEndTime)
}

// ErrListingNotFoundByTokenID is returned when no active listing exists for a token
type ErrListingNotFoundByTokenID struct {
	TokenID TokenID
}

func (e ErrListingNotFoundByTokenID) Error() string {
	return fmt.Sprintf("listing not found for token: %s", e.TokenID)
}

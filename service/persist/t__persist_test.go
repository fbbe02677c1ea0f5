package persist

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddress_Normalization(t *testing.T) {
	assert := assert.New(t)

	mixed := NewAddress("0x456D569592f15Af845D0dbe984C12BAB8F430e31")
	lower := NewAddress("0x456d569592f15af845d0dbe984c12bab8f430e31")
	assert.Equal(lower, mixed)

	var decoded Address
	err := json.Unmarshal([]byte(`"0x456D569592f15Af845D0dbe984C12BAB8F430e31"`), &decoded)
	assert.NoError(err)
	assert.Equal(lower, decoded)
}

func TestAddress_IsValid(t *testing.T) {
	assert := assert.New(t)

	assert.True(NewAddress("0x456d569592f15af845d0dbe984c12bab8f430e31").IsValid())
	assert.True(ZeroAddress.IsValid())
	assert.False(Address("").IsValid())
	assert.False(Address("0x123").IsValid())
	assert.False(Address("not an address").IsValid())
}

func TestAddress_IsZero(t *testing.T) {
	assert := assert.New(t)

	assert.True(ZeroAddress.IsZero())
	assert.True(Address("").IsZero())
	assert.False(NewAddress("0x456d569592f15af845d0dbe984c12bab8f430e31").IsZero())
}

func TestToken_RoyaltyFor(t *testing.T) {
	token := Token{RoyaltyBps: 500}

	assert.Zero(t, token.RoyaltyFor(big.NewInt(10000)).Cmp(big.NewInt(500)))
	assert.Zero(t, token.RoyaltyFor(big.NewInt(999)).Cmp(big.NewInt(49)))

	free := Token{RoyaltyBps: 0}
	assert.Zero(t, free.RoyaltyFor(big.NewInt(10000)).Sign())
}

func TestToken_Metadata(t *testing.T) {
	assert := assert.New(t)

	token := Token{
		ID:         TokenID(7),
		Owner:      NewAddress("0x9a3f9764b21adaf3c6fdf6f947e6d3340a3f8ac5"),
		Creator:    NewAddress("0x456d569592f15af845d0dbe984c12bab8f430e31"),
		Name:       "Portrait",
		ContentURI: "ipfs://QmPortrait",
		Collection: "Faces",
		RoyaltyBps: 250,
	}

	md := token.Metadata()
	assert.Equal(token.Creator, md.Creator)
	assert.Equal("Portrait", md.Name)
	assert.Equal(uint64(250), md.RoyaltyBps)
}

func TestListing_MinimumBid(t *testing.T) {
	assert := assert.New(t)

	listing := Listing{Price: big.NewInt(100), HighestBid: new(big.Int)}
	assert.False(listing.HasBid())
	assert.Zero(listing.MinimumBid().Cmp(big.NewInt(100)))

	listing.HighestBid = big.NewInt(250)
	assert.True(listing.HasBid())
	assert.Zero(listing.MinimumBid().Cmp(big.NewInt(250)))
}

func TestListing_Ended(t *testing.T) {
	assert := assert.New(t)

	end := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	auction := Listing{IsAuction: true, AuctionEndTime: end}

	assert.False(auction.Ended(end.Add(-time.Minute)))
	assert.True(auction.Ended(end))
	assert.True(auction.Ended(end.Add(time.Minute)))

	fixed := Listing{IsAuction: false}
	assert.False(fixed.Ended(end))
}

func TestGenerateID_Unique(t *testing.T) {
	assert := assert.New(t)

	seen := map[DBID]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateID()
		assert.NotEmpty(id)
		assert.False(seen[id])
		seen[id] = true
	}
}

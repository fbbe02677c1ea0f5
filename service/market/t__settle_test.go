package market

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSale(t *testing.T) {
	split := SplitSale(big.NewInt(10000), 250, 500)
	assertWei(t, 250, split.FeeCut)
	assertWei(t, 500, split.RoyaltyCut)
	assertWei(t, 9250, split.SellerCut)
}

func TestSplitSale_NoRoyalty(t *testing.T) {
	split := SplitSale(big.NewInt(10000), 250, 0)
	assertWei(t, 250, split.FeeCut)
	assertWei(t, 0, split.RoyaltyCut)
	assertWei(t, 9750, split.SellerCut)
}

func TestSplitSale_DustGoesToSeller(t *testing.T) {
	// 999 * 250 / 10000 = 24.975 and 999 * 500 / 10000 = 49.95; both cuts
	// round down and the remainder stays with the seller
	split := SplitSale(big.NewInt(999), 250, 500)
	assertWei(t, 24, split.FeeCut)
	assertWei(t, 49, split.RoyaltyCut)
	assertWei(t, 926, split.SellerCut)

	sum := new(big.Int).Add(split.FeeCut, split.RoyaltyCut)
	sum.Add(sum, split.SellerCut)
	assert.Zero(t, sum.Cmp(big.NewInt(999)))
}

func TestSplitSale_TinyPriceAllToSeller(t *testing.T) {
	split := SplitSale(big.NewInt(3), 250, 500)
	assertWei(t, 0, split.FeeCut)
	assertWei(t, 0, split.RoyaltyCut)
	assertWei(t, 3, split.SellerCut)
}

package market

import (
	"context"
	"math/big"

	"github.com/mintfolio/go-marketplace/service/persist"
)

const bpsDenominator = 10000

// Settlement is the three-way split of a sale price. FeeCut goes to the
// marketplace operator, RoyaltyCut to the token's creator, and everything
// left over to the seller, so the three always sum exactly to the price;
// integer-division dust lands in the seller's share rather than leaking.
type Settlement struct {
	FeeCut     *big.Int
	RoyaltyCut *big.Int
	SellerCut  *big.Int
}

// SplitSale computes the settlement for a sale at the given price, fee rate
// and royalty rate
func SplitSale(salePrice *big.Int, feeBps, royaltyBps uint64) Settlement {
	fee := cutOf(salePrice, feeBps)
	royalty := cutOf(salePrice, royaltyBps)
	seller := new(big.Int).Sub(salePrice, fee)
	seller.Sub(seller, royalty)
	return Settlement{FeeCut: fee, RoyaltyCut: royalty, SellerCut: seller}
}

func cutOf(amount *big.Int, bps uint64) *big.Int {
	cut := new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	return cut.Div(cut, big.NewInt(bpsDenominator))
}

// settle distributes an escrowed sale price between operator, creator and
// seller. All three payouts succeed or none do: a failure part-way through
// reclaims the payouts already made before reporting the error, so callers
// can abort the surrounding operation with the escrow intact.
func (m *Marketplace) settle(ctx context.Context, token *persist.Token, seller persist.Address, salePrice *big.Int) error {
	split := SplitSale(salePrice, m.feeBps, token.RoyaltyBps)

	type payout struct {
		to     persist.Address
		amount *big.Int
	}
	payouts := []payout{
		{m.operator, split.FeeCut},
		{token.Creator, split.RoyaltyCut},
		{seller, split.SellerCut},
	}

	done := make([]payout, 0, len(payouts))
	for _, p := range payouts {
		if p.amount.Sign() == 0 {
			continue
		}
		if err := m.payouts.Transfer(ctx, p.to, p.amount); err != nil {
			for _, d := range done {
				m.bank.reclaim(d.to, d.amount)
			}
			return err
		}
		done = append(done, p)
	}
	return nil
}

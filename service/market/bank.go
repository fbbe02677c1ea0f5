package market

import (
	"context"
	"math/big"

	"github.com/mintfolio/go-marketplace/service/persist"
)

// Transferrer moves funds out of the ledger's escrow pool to an address.
// The default implementation is the Bank itself, crediting the recipient's
// withdrawable balance; tests substitute failing transferrers to exercise
// the all-or-nothing settlement path.
type Transferrer interface {
	Transfer(ctx context.Context, to persist.Address, amount *big.Int) error
}

// Bank is the ledger's internal fund store. Every address has a withdrawable
// balance; payments for buys and bids move balance into a single escrow pool,
// and settlement or refunds move escrow back out. The Bank is not safe for
// concurrent use on its own; the Marketplace serializes access to it.
type Bank struct {
	balances map[persist.Address]*big.Int
	escrowed *big.Int
}

// NewBank creates an empty bank
func NewBank() *Bank {
	return &Bank{
		balances: map[persist.Address]*big.Int{},
		escrowed: new(big.Int),
	}
}

// Deposit credits an address's withdrawable balance
func (b *Bank) Deposit(addr persist.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidPrice
	}
	b.credit(addr, amount)
	return nil
}

// Withdraw debits an address's withdrawable balance
func (b *Bank) Withdraw(addr persist.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidPrice
	}
	bal := b.balances[addr]
	if bal == nil || bal.Cmp(amount) < 0 {
		return ProtocolError{CodeInsufficientFunds, "Insufficient funds"}
	}
	bal.Sub(bal, amount)
	return nil
}

// BalanceOf returns an address's withdrawable balance
func (b *Bank) BalanceOf(addr persist.Address) *big.Int {
	if bal, ok := b.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Escrowed returns the total funds currently held in escrow
func (b *Bank) Escrowed() *big.Int {
	return new(big.Int).Set(b.escrowed)
}

// Transfer implements Transferrer by releasing escrowed funds into the
// recipient's withdrawable balance
func (b *Bank) Transfer(ctx context.Context, to persist.Address, amount *big.Int) error {
	b.releaseEscrow(to, amount)
	return nil
}

// escrow moves amount from an address's balance into the escrow pool
func (b *Bank) escrow(from persist.Address, amount *big.Int) error {
	bal := b.balances[from]
	if bal == nil || bal.Cmp(amount) < 0 {
		return ProtocolError{CodeInsufficientFunds, "Insufficient funds"}
	}
	bal.Sub(bal, amount)
	b.escrowed.Add(b.escrowed, amount)
	return nil
}

// releaseEscrow moves amount from the escrow pool into an address's balance
func (b *Bank) releaseEscrow(to persist.Address, amount *big.Int) {
	b.escrowed.Sub(b.escrowed, amount)
	b.credit(to, amount)
}

// reclaim undoes a releaseEscrow, pulling funds back out of a balance into
// escrow. Used to compensate completed payouts when a later payout in the
// same settlement fails, so no partial payout is ever observable.
func (b *Bank) reclaim(from persist.Address, amount *big.Int) {
	bal := b.balances[from]
	bal.Sub(bal, amount)
	b.escrowed.Add(b.escrowed, amount)
}

func (b *Bank) credit(addr persist.Address, amount *big.Int) {
	if bal, ok := b.balances[addr]; ok {
		bal.Add(bal, amount)
		return
	}
	b.balances[addr] = new(big.Int).Set(amount)
}

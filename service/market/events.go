package market

import (
	"context"
	"math/big"
	"time"

	"github.com/mintfolio/go-marketplace/service/persist"
)

// EventType identifies what a ledger event describes
type EventType string

const (
	// EventTypeTransfer is emitted on every ownership change, including mints
	EventTypeTransfer EventType = "transfer"
	// EventTypeMinted is emitted when a token is created
	EventTypeMinted EventType = "minted"
	// EventTypeListed is emitted when a token is put up for sale or auction
	EventTypeListed EventType = "listed"
	// EventTypeDelisted is emitted when a seller cancels a listing
	EventTypeDelisted EventType = "delisted"
	// EventTypeBidPlaced is emitted when an auction bid is accepted
	EventTypeBidPlaced EventType = "bid_placed"
	// EventTypeSale is emitted when a fixed-price or auction sale settles
	EventTypeSale EventType = "sale"
	// EventTypeAuctionEnded is emitted when an auction closes with no bids
	EventTypeAuctionEnded EventType = "auction_ended"
)

// Event is a notification about a committed ledger state change. External
// indexers mirror ledger state from these rather than re-deriving it, so
// every successful ownership change produces a transfer event with the
// from/to/token triple.
type Event struct {
	ID      persist.DBID    `json:"id"`
	Type    EventType       `json:"type"`
	TokenID persist.TokenID `json:"token_id"`
	From    persist.Address `json:"from,omitempty"`
	To      persist.Address `json:"to,omitempty"`
	Amount  *big.Int        `json:"amount,omitempty"`
	Time    time.Time       `json:"time"`
}

// Listener receives committed ledger events. Listeners run after the ledger
// lock is released; a slow or failing listener cannot stall or revert an
// operation.
type Listener interface {
	Handle(ctx context.Context, evt Event)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(ctx context.Context, evt Event)

// Handle calls the wrapped function
func (f ListenerFunc) Handle(ctx context.Context, evt Event) {
	f(ctx, evt)
}

func (m *Marketplace) newEvent(typ EventType, tokenID persist.TokenID, from, to persist.Address, amount *big.Int) Event {
	return Event{
		ID:      persist.GenerateID(),
		Type:    typ,
		TokenID: tokenID,
		From:    from,
		To:      to,
		Amount:  amount,
		Time:    m.now(),
	}
}

func (m *Marketplace) dispatch(ctx context.Context, evts []Event) {
	for _, evt := range evts {
		for _, l := range m.listeners {
			l.Handle(ctx, evt)
		}
	}
}

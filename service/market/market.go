package market

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/mintfolio/go-marketplace/service/logger"
	"github.com/mintfolio/go-marketplace/service/persist"
	"github.com/sirupsen/logrus"
)

// DefaultFeeBps is the marketplace fee at deployment, in basis points (2.5%)
const DefaultFeeBps uint64 = 250

// MaxFeeBps caps the operator-adjustable marketplace fee at 10%
const MaxFeeBps uint64 = 1000

// Marketplace is the ledger: per-token ownership and metadata, per-token
// listings, the collection registry, and the bank that holds balances and
// escrow. One mutex serializes all operations, standing in for a chain's
// transaction sequencer; every operation validates, performs its outbound
// fund transfers, and only then mutates state, so a failure anywhere leaves
// the ledger exactly as it was.
type Marketplace struct {
	mu sync.Mutex

	operator persist.Address
	feeBps   uint64

	tokens      map[persist.TokenID]*persist.Token
	listings    map[persist.TokenID]*persist.Listing
	collections map[string]*persist.Collection
	ownerIndex  map[persist.Address][]persist.TokenID
	lastTokenID persist.TokenID

	bank    *Bank
	payouts Transferrer

	listeners []Listener
	now       func() time.Time
}

// MintInput is everything a caller provides to mint a token
type MintInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContentURI  string `json:"content_uri"`
	Category    string `json:"category"`
	Collection  string `json:"collection"`
	RoyaltyBps  uint64 `json:"royalty_bps"`
}

// Option configures a Marketplace at construction
type Option func(*Marketplace)

// WithClock overrides the ledger's time source
func WithClock(now func() time.Time) Option {
	return func(m *Marketplace) { m.now = now }
}

// WithPayouts overrides the transferrer used for settlement payouts and
// bid refunds
func WithPayouts(t Transferrer) Option {
	return func(m *Marketplace) { m.payouts = t }
}

// New creates a marketplace ledger with the given operator address and the
// default fee rate
func New(operator persist.Address, opts ...Option) *Marketplace {
	m := &Marketplace{
		operator:    operator,
		feeBps:      DefaultFeeBps,
		tokens:      map[persist.TokenID]*persist.Token{},
		listings:    map[persist.TokenID]*persist.Listing{},
		collections: map[string]*persist.Collection{},
		ownerIndex:  map[persist.Address][]persist.TokenID{},
		bank:        NewBank(),
		now:         time.Now,
	}
	m.payouts = m.bank
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddListener registers a listener for committed ledger events. Listeners
// must be registered before the ledger starts taking operations.
func (m *Marketplace) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Operator returns the operator address fixed at construction
func (m *Marketplace) Operator() persist.Address {
	return m.operator
}

// Bank returns the ledger's fund store
func (m *Marketplace) Bank() *Bank {
	return m.bank
}

// Mint creates a new token owned and created by the caller, registering its
// collection on first use, and returns the new token's id
func (m *Marketplace) Mint(ctx context.Context, caller persist.Address, input MintInput) (persist.TokenID, error) {
	m.mu.Lock()
	id, evts, err := m.mint(caller, input)
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"tokenID":    id,
		"creator":    caller,
		"collection": input.Collection,
	}).Info("minted token")

	m.dispatch(ctx, evts)
	return id, nil
}

func (m *Marketplace) mint(caller persist.Address, input MintInput) (persist.TokenID, []Event, error) {
	if input.Name == "" {
		return 0, nil, ErrEmptyName
	}
	if input.ContentURI == "" {
		return 0, nil, ErrEmptyContentURI
	}
	if input.RoyaltyBps > persist.MaxRoyaltyBps {
		return 0, nil, ErrRoyaltyTooHigh
	}

	m.lastTokenID++
	id := m.lastTokenID
	now := m.now()

	m.tokens[id] = &persist.Token{
		ID:           id,
		CreationTime: persist.CreationTime(now),
		Owner:        caller,
		Creator:      caller,
		Name:         input.Name,
		Description:  input.Description,
		ContentURI:   input.ContentURI,
		Category:     input.Category,
		Collection:   input.Collection,
		RoyaltyBps:   input.RoyaltyBps,
	}
	m.ownerIndex[caller] = append(m.ownerIndex[caller], id)

	if input.Collection != "" {
		col, ok := m.collections[input.Collection]
		if !ok {
			col = &persist.Collection{
				Name:         input.Collection,
				Creator:      caller,
				CreationTime: persist.CreationTime(now),
			}
			m.collections[input.Collection] = col
		}
		col.TokenIDs = append(col.TokenIDs, id)
	}

	evts := []Event{
		m.newEvent(EventTypeTransfer, id, persist.ZeroAddress, caller, nil),
		m.newEvent(EventTypeMinted, id, persist.ZeroAddress, caller, nil),
	}
	return id, evts, nil
}

// List puts a token up for fixed-price sale or auction. The caller must own
// the token, the token must not already have an active listing, and the
// price must be positive. Auctions additionally require a positive duration;
// a zero-duration auction has no meaningful end and is rejected outright.
func (m *Marketplace) List(ctx context.Context, caller persist.Address, tokenID persist.TokenID, price *big.Int, isAuction bool, duration time.Duration) error {
	m.mu.Lock()
	evts, err := m.list(caller, tokenID, price, isAuction, duration)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.dispatch(ctx, evts)
	return nil
}

func (m *Marketplace) list(caller persist.Address, tokenID persist.TokenID, price *big.Int, isAuction bool, duration time.Duration) ([]Event, error) {
	token, ok := m.tokens[tokenID]
	if !ok {
		return nil, errNotFound("token %s does not exist", tokenID)
	}
	if token.Owner != caller {
		return nil, ErrNotOwner
	}
	if l, ok := m.listings[tokenID]; ok && l.IsActive {
		return nil, ErrAlreadyListed
	}
	if price == nil || price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}
	if isAuction && duration <= 0 {
		return nil, ErrInvalidDuration
	}

	now := m.now()
	listing := &persist.Listing{
		TokenID:      tokenID,
		Seller:       caller,
		Price:        new(big.Int).Set(price),
		IsAuction:    isAuction,
		IsActive:     true,
		HighestBid:   new(big.Int),
		CreationTime: persist.CreationTime(now),
		LastUpdated:  persist.LastUpdatedTime(now),
	}
	if isAuction {
		listing.AuctionEndTime = now.Add(duration)
	}
	m.listings[tokenID] = listing

	return []Event{m.newEvent(EventTypeListed, tokenID, caller, "", price)}, nil
}

// Buy purchases a fixed-price listing at exactly its asking price. The
// payment is debited from the caller's bank balance, split between seller,
// creator and operator, and ownership moves to the caller.
func (m *Marketplace) Buy(ctx context.Context, caller persist.Address, tokenID persist.TokenID, payment *big.Int) error {
	m.mu.Lock()
	evts, err := m.buy(ctx, caller, tokenID, payment)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"tokenID": tokenID,
		"buyer":   caller,
	}).Info("token sold")

	m.dispatch(ctx, evts)
	return nil
}

func (m *Marketplace) buy(ctx context.Context, caller persist.Address, tokenID persist.TokenID, payment *big.Int) ([]Event, error) {
	listing, ok := m.listings[tokenID]
	if !ok || !listing.IsActive || listing.IsAuction {
		return nil, ErrNotListed
	}
	if payment == nil || payment.Cmp(listing.Price) != 0 {
		return nil, ErrIncorrectPrice
	}
	if caller == listing.Seller {
		return nil, ErrSelfPurchase
	}

	token := m.tokens[tokenID]

	if err := m.bank.escrow(caller, payment); err != nil {
		return nil, err
	}
	if err := m.settle(ctx, token, listing.Seller, payment); err != nil {
		m.bank.releaseEscrow(caller, payment)
		return nil, err
	}

	seller := listing.Seller
	m.transferOwnership(token, caller)
	listing.IsActive = false
	listing.LastUpdated = persist.LastUpdatedTime(m.now())

	return []Event{
		m.newEvent(EventTypeTransfer, tokenID, seller, caller, nil),
		m.newEvent(EventTypeSale, tokenID, seller, caller, payment),
	}, nil
}

// PlaceBid bids on an active auction. The bid must beat the reserve price
// when no bid stands, or the standing highest bid otherwise; the previous
// bidder is refunded in full before the new bid is recorded, and a failed
// refund aborts the whole bid.
func (m *Marketplace) PlaceBid(ctx context.Context, caller persist.Address, tokenID persist.TokenID, bid *big.Int) error {
	m.mu.Lock()
	evts, err := m.placeBid(ctx, caller, tokenID, bid)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.dispatch(ctx, evts)
	return nil
}

func (m *Marketplace) placeBid(ctx context.Context, caller persist.Address, tokenID persist.TokenID, bid *big.Int) ([]Event, error) {
	listing, ok := m.listings[tokenID]
	if !ok || !listing.IsActive {
		return nil, ErrNotListed
	}
	if !listing.IsAuction {
		return nil, ErrNotAuction
	}
	if listing.Ended(m.now()) {
		return nil, ErrAuctionEnded
	}
	if caller == listing.Seller {
		return nil, ErrSelfBid
	}
	if bid == nil || bid.Cmp(listing.MinimumBid()) <= 0 {
		return nil, ErrBidTooLow
	}

	if err := m.bank.escrow(caller, bid); err != nil {
		return nil, err
	}

	// The outgoing refund happens before any listing state changes; if it
	// fails the new bidder's funds are released and nothing is recorded.
	if listing.HasBid() {
		prevBidder, prevBid := listing.HighestBidder, listing.HighestBid
		if err := m.payouts.Transfer(ctx, prevBidder, prevBid); err != nil {
			m.bank.releaseEscrow(caller, bid)
			return nil, err
		}
	}

	listing.HighestBid = new(big.Int).Set(bid)
	listing.HighestBidder = caller
	listing.LastUpdated = persist.LastUpdatedTime(m.now())

	return []Event{m.newEvent(EventTypeBidPlaced, tokenID, caller, listing.Seller, bid)}, nil
}

// EndAuction closes an auction whose end time has passed. Anyone may call it,
// so a finished auction can always be unstuck. With a standing bid the sale
// settles at the highest bid and ownership moves to the bidder; with none the
// listing simply deactivates and nothing moves.
func (m *Marketplace) EndAuction(ctx context.Context, caller persist.Address, tokenID persist.TokenID) error {
	m.mu.Lock()
	evts, err := m.endAuction(ctx, tokenID)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"tokenID": tokenID,
		"caller":  caller,
	}).Info("auction ended")

	m.dispatch(ctx, evts)
	return nil
}

func (m *Marketplace) endAuction(ctx context.Context, tokenID persist.TokenID) ([]Event, error) {
	listing, ok := m.listings[tokenID]
	if !ok || !listing.IsActive || !listing.IsAuction {
		return nil, ErrNoAuction
	}
	if !listing.Ended(m.now()) {
		return nil, ErrAuctionNotActive
	}

	if !listing.HasBid() {
		listing.IsActive = false
		listing.LastUpdated = persist.LastUpdatedTime(m.now())
		return []Event{m.newEvent(EventTypeAuctionEnded, tokenID, listing.Seller, "", nil)}, nil
	}

	token := m.tokens[tokenID]
	winner, salePrice := listing.HighestBidder, listing.HighestBid

	// The winning bid is already escrowed; settlement consumes it.
	if err := m.settle(ctx, token, listing.Seller, salePrice); err != nil {
		return nil, err
	}

	seller := listing.Seller
	m.transferOwnership(token, winner)
	listing.IsActive = false
	listing.LastUpdated = persist.LastUpdatedTime(m.now())

	return []Event{
		m.newEvent(EventTypeTransfer, tokenID, seller, winner, nil),
		m.newEvent(EventTypeSale, tokenID, seller, winner, salePrice),
	}, nil
}

// Delist cancels the caller's active listing. A standing auction bid is
// refunded to its bidder first; the seller can never cancel and keep an
// escrowed bid.
func (m *Marketplace) Delist(ctx context.Context, caller persist.Address, tokenID persist.TokenID) error {
	m.mu.Lock()
	evts, err := m.delist(ctx, caller, tokenID)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	m.dispatch(ctx, evts)
	return nil
}

func (m *Marketplace) delist(ctx context.Context, caller persist.Address, tokenID persist.TokenID) ([]Event, error) {
	token, ok := m.tokens[tokenID]
	if !ok {
		return nil, errNotFound("token %s does not exist", tokenID)
	}
	if token.Owner != caller {
		return nil, ErrNotOwner
	}
	listing, ok := m.listings[tokenID]
	if !ok || !listing.IsActive {
		return nil, ErrNotListed
	}

	if listing.HasBid() {
		if err := m.payouts.Transfer(ctx, listing.HighestBidder, listing.HighestBid); err != nil {
			return nil, err
		}
	}

	listing.IsActive = false
	listing.LastUpdated = persist.LastUpdatedTime(m.now())

	return []Event{m.newEvent(EventTypeDelisted, tokenID, caller, "", nil)}, nil
}

// UpdateMarketplaceFee sets the fee applied to future settlements. Only the
// operator may call it and the rate is capped at 10%; already-settled sales
// are unaffected.
func (m *Marketplace) UpdateMarketplaceFee(ctx context.Context, caller persist.Address, feeBps uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != m.operator {
		return ErrNotOperator
	}
	if feeBps > MaxFeeBps {
		return ErrFeeTooHigh
	}

	logger.For(ctx).WithFields(logrus.Fields{
		"feeBps": feeBps,
		"wasBps": m.feeBps,
	}).Info("marketplace fee updated")

	m.feeBps = feeBps
	return nil
}

// Deposit credits the caller's withdrawable balance
func (m *Marketplace) Deposit(ctx context.Context, caller persist.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bank.Deposit(caller, amount)
}

// Withdraw debits the caller's withdrawable balance
func (m *Marketplace) Withdraw(ctx context.Context, caller persist.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bank.Withdraw(caller, amount)
}

// BalanceOf returns an address's withdrawable balance
func (m *Marketplace) BalanceOf(ctx context.Context, addr persist.Address) *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bank.BalanceOf(addr)
}

// OwnerOf returns the current owner of a token
func (m *Marketplace) OwnerOf(ctx context.Context, tokenID persist.TokenID) (persist.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenID]
	if !ok {
		return "", errNotFound("token %s does not exist", tokenID)
	}
	return token.Owner, nil
}

// GetToken returns a copy of a token's full record
func (m *Marketplace) GetToken(ctx context.Context, tokenID persist.TokenID) (persist.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenID]
	if !ok {
		return persist.Token{}, errNotFound("token %s does not exist", tokenID)
	}
	return *token, nil
}

// MetadataOf returns a token's immutable mint-time metadata
func (m *Marketplace) MetadataOf(ctx context.Context, tokenID persist.TokenID) (persist.TokenMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[tokenID]
	if !ok {
		return persist.TokenMetadata{}, errNotFound("token %s does not exist", tokenID)
	}
	return token.Metadata(), nil
}

// TokensOwnedBy returns the ids of every token an address currently holds
func (m *Marketplace) TokensOwnedBy(ctx context.Context, owner persist.Address) []persist.TokenID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.ownerIndex[owner]
	out := make([]persist.TokenID, len(ids))
	copy(out, ids)
	return out
}

// GetListing returns a copy of a token's most recent listing, active or not
func (m *Marketplace) GetListing(ctx context.Context, tokenID persist.TokenID) (persist.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[tokenID]
	if !ok {
		return persist.Listing{}, persist.ErrListingNotFoundByTokenID{TokenID: tokenID}
	}
	out := *listing
	out.Price = new(big.Int).Set(listing.Price)
	out.HighestBid = new(big.Int).Set(listing.HighestBid)
	return out, nil
}

// GetCollection returns a copy of a collection's record
func (m *Marketplace) GetCollection(ctx context.Context, name string) (persist.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.collections[name]
	if !ok {
		return persist.Collection{}, persist.ErrCollectionNotFoundByName{Name: name}
	}
	out := *col
	out.TokenIDs = make([]persist.TokenID, len(col.TokenIDs))
	copy(out.TokenIDs, col.TokenIDs)
	return out, nil
}

// GetCollections returns every collection registered so far
func (m *Marketplace) GetCollections(ctx context.Context) []persist.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]persist.Collection, 0, len(m.collections))
	for _, col := range m.collections {
		c := *col
		c.TokenIDs = make([]persist.TokenID, len(col.TokenIDs))
		copy(c.TokenIDs, col.TokenIDs)
		out = append(out, c)
	}
	return out
}

// MarketplaceFee returns the current fee rate in basis points
func (m *Marketplace) MarketplaceFee(ctx context.Context) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feeBps
}

// TokenCount returns the number of tokens minted so far
func (m *Marketplace) TokenCount(ctx context.Context) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(m.lastTokenID)
}

func (m *Marketplace) transferOwnership(token *persist.Token, to persist.Address) {
	from := token.Owner
	ids := m.ownerIndex[from]
	for i, id := range ids {
		if id == token.ID {
			m.ownerIndex[from] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	token.Owner = to
	m.ownerIndex[to] = append(m.ownerIndex[to], token.ID)
}

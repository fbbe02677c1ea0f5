package market

import "fmt"

// ErrorCode is the stable, machine-matchable reason for a rejected operation.
// External callers (the storefront and the indexer) match on these codes, so
// they are part of the protocol's compatibility surface and must not change.
type ErrorCode string

const (
	CodeEmptyName         ErrorCode = "EmptyName"
	CodeEmptyContentURI   ErrorCode = "EmptyContentUri"
	CodeRoyaltyTooHigh    ErrorCode = "RoyaltyTooHigh"
	CodeNotOwner          ErrorCode = "NotOwner"
	CodeAlreadyListed     ErrorCode = "AlreadyListed"
	CodeInvalidPrice      ErrorCode = "InvalidPrice"
	CodeNotListed         ErrorCode = "NotListed"
	CodeNotAuction        ErrorCode = "NotAuction"
	CodeIncorrectPrice    ErrorCode = "IncorrectPrice"
	CodeSelfPurchase      ErrorCode = "SelfPurchase"
	CodeSelfBid           ErrorCode = "SelfBid"
	CodeBidTooLow         ErrorCode = "BidTooLow"
	CodeAuctionNotActive  ErrorCode = "AuctionNotActive"
	CodeNotOperator       ErrorCode = "NotOperator"
	CodeFeeTooHigh        ErrorCode = "FeeTooHigh"
	CodeNotFound          ErrorCode = "NotFound"
	CodeInsufficientFunds ErrorCode = "InsufficientFunds"
)

// ProtocolError is a rejected ledger operation. The message mirrors the
// wording the storefront already displays; the code is what machines match on.
type ProtocolError struct {
	Code    ErrorCode
	Message string
}

func (e ProtocolError) Error() string {
	return e.Message
}

var (
	ErrEmptyName        = ProtocolError{CodeEmptyName, "Name cannot be empty"}
	ErrEmptyContentURI  = ProtocolError{CodeEmptyContentURI, "Image URI cannot be empty"}
	ErrRoyaltyTooHigh   = ProtocolError{CodeRoyaltyTooHigh, "Royalty cannot exceed 10%"}
	ErrNotOwner         = ProtocolError{CodeNotOwner, "Not the token owner"}
	ErrAlreadyListed    = ProtocolError{CodeAlreadyListed, "NFT already listed"}
	ErrInvalidPrice     = ProtocolError{CodeInvalidPrice, "Price must be greater than zero"}
	ErrInvalidDuration  = ProtocolError{CodeInvalidPrice, "Auction duration must be greater than zero"}
	ErrNotListed        = ProtocolError{CodeNotListed, "NFT not listed for sale"}
	ErrNotAuction       = ProtocolError{CodeNotAuction, "Not an auction"}
	ErrAuctionEnded     = ProtocolError{CodeNotAuction, "Auction has ended"}
	ErrIncorrectPrice   = ProtocolError{CodeIncorrectPrice, "Incorrect price"}
	ErrSelfPurchase     = ProtocolError{CodeSelfPurchase, "Cannot buy your own NFT"}
	ErrSelfBid          = ProtocolError{CodeSelfBid, "Cannot bid on your own auction"}
	ErrBidTooLow        = ProtocolError{CodeBidTooLow, "Bid must be higher than current bid"}
	ErrAuctionNotActive = ProtocolError{CodeAuctionNotActive, "Auction still active"}
	ErrNoAuction        = ProtocolError{CodeAuctionNotActive, "No active auction for token"}
	ErrNotOperator      = ProtocolError{CodeNotOperator, "Caller is not the marketplace operator"}
	ErrFeeTooHigh       = ProtocolError{CodeFeeTooHigh, "Fee cannot exceed 10%"}
)

// errNotFound builds the NotFound rejection for an unminted token id
func errNotFound(format string, args ...interface{}) ProtocolError {
	return ProtocolError{CodeNotFound, fmt.Sprintf(format, args...)}
}

// CodeOf extracts the protocol code from an error, or "" for non-protocol errors
func CodeOf(err error) ErrorCode {
	if pe, ok := err.(ProtocolError); ok {
		return pe.Code
	}
	return ""
}

package types

import "github.com/pkg/errors"

// Every failure below rejects the whole operation; nothing is committed
// before the last fallible step has succeeded, so callers never observe a
// half-applied settlement.
var (
	ErrNotApproved       = errors.New("marketplace is not approved for the token owner")
	ErrNotOwner          = errors.New("caller is not the current token owner")
	ErrNotAdmin          = errors.New("caller is not the marketplace admin")
	ErrStaleOrUnset      = errors.New("token has no sale price or the seller no longer owns it")
	ErrPriceMismatch     = errors.New("sent value does not equal the asking price plus fee")
	ErrWrongValue        = errors.New("sent value does not equal the bid amount plus fee")
	ErrZeroBid           = errors.New("bid amount must be greater than zero")
	ErrBidderIsOwner     = errors.New("token owner cannot bid on their own token")
	ErrNoSuchBid         = errors.New("no active bid from that bidder on the token")
	ErrNoBidToCancel     = errors.New("caller has no active bid to cancel")
	ErrInvalidBidder     = errors.New("bidder must not be the zero address")
	ErrNullConfigAddress = errors.New("provider target must not be nil")
)

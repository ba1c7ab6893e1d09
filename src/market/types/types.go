package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the empty-bidder / empty-seller sentinel. A Bid whose Bidder
// equals ZeroAddress is no bid at all; a Listing whose Seller equals
// ZeroAddress is not for sale.
var ZeroAddress = common.Address{}

// TokenKey identifies a single token: the ERC-721 contract it belongs to plus
// its token id rendered as a decimal string so the key stays comparable.
type TokenKey struct {
	Collection common.Address
	TokenID    string
}

func Key(collection common.Address, tokenID *big.Int) TokenKey {
	return TokenKey{Collection: collection, TokenID: tokenID.String()}
}

// Listing is a seller-declared fixed ask price for a token. Amount == 0 means
// not for sale. A listing is only honored while Seller still owns the token;
// staleness is checked at read time, never eagerly flagged.
type Listing struct {
	Seller common.Address
	Amount *big.Int
}

func (l Listing) Empty() bool {
	return l.Amount == nil || l.Amount.Sign() == 0
}

// Bid is a buyer's escrowed offer against a token. MarketplaceFee is the fee
// percentage in force when the bid was placed; refunds always use this locked
// rate so a later rate change cannot short-change the bidder.
type Bid struct {
	Bidder         common.Address
	MarketplaceFee uint8
	Amount         *big.Int
}

func (b Bid) Active() bool {
	return b.Bidder != ZeroAddress
}

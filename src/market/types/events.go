package types

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	FactTypeSold         = "sold"
	FactTypeSetSalePrice = "set_sale_price"
	FactTypeOffer        = "offer"
	FactTypeAcceptOffer  = "accept_offer"
	FactTypeCancelOffer  = "cancel_offer"
)

// Fact is a settlement event emitted after an operation has committed. Facts
// carry value copies only; nothing inside the engine is shared through them.
type Fact interface {
	FactType() string
}

type Sold struct {
	Collection common.Address
	TokenID    string
	Buyer      common.Address
	Seller     common.Address
	Amount     *big.Int
}

func (Sold) FactType() string { return FactTypeSold }

type SetSalePrice struct {
	Collection common.Address
	TokenID    string
	Seller     common.Address
	Amount     *big.Int
}

func (SetSalePrice) FactType() string { return FactTypeSetSalePrice }

type Offer struct {
	Collection common.Address
	TokenID    string
	Bidder     common.Address
	Amount     *big.Int
}

func (Offer) FactType() string { return FactTypeOffer }

type AcceptOffer struct {
	Collection common.Address
	TokenID    string
	Bidder     common.Address
	Seller     common.Address
	Amount     *big.Int
}

func (AcceptOffer) FactType() string { return FactTypeAcceptOffer }

type CancelOffer struct {
	Collection common.Address
	TokenID    string
	Bidder     common.Address
	Amount     *big.Int
}

func (CancelOffer) FactType() string { return FactTypeCancelOffer }

// FactSink receives committed facts. Publish must not fail the settlement
// that produced the fact; sinks deal with their own errors.
type FactSink interface {
	Publish(ctx context.Context, fact Fact)
}

// MultiSink fans a fact out to every registered sink in order.
type MultiSink []FactSink

func (m MultiSink) Publish(ctx context.Context, fact Fact) {
	for _, s := range m {
		s.Publish(ctx, fact)
	}
}

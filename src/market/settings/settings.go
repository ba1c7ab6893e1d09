// Package settings exposes the marketplace fee / royalty rate lookups the
// engine consumes. Both providers sit behind pointers the admin can swap at
// runtime, so rate governance never requires redeploying the engine.
package settings

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Provider answers fee questions and tracks the per-token sold flag that
// distinguishes a primary sale from a secondary one.
type Provider interface {
	CalculateMarketplaceFee(amount *big.Int) *big.Int
	MarketplaceFeePercentage() uint8
	PrimarySaleFeePercentage(collection common.Address) uint8
	// MinimumBidIncreasePercentage is declared for completeness; the offer
	// flow is fully permissive and never enforces it.
	MinimumBidIncreasePercentage() uint8
	HasTokenSold(collection common.Address, tokenID *big.Int) bool
	MarkTokenSold(collection common.Address, tokenID *big.Int, sold bool)
}

// RoyaltyProvider answers creator royalty questions.
type RoyaltyProvider interface {
	TokenRoyaltyPercentage(collection common.Address, tokenID *big.Int) uint8
	TokenCreator(collection common.Address, tokenID *big.Int) common.Address
}

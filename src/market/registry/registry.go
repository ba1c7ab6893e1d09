// Package registry abstracts the external ERC-721 asset registry the
// settlement engine consults for ownership, approval and transfer. The engine
// never owns token custody itself; it only reads and instructs.
package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type AssetRegistry interface {
	// OwnerOf returns the current owner of the token.
	OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)
	// IsApprovedForAll reports whether operator may move every token owned
	// by owner within the collection.
	IsApprovedForAll(ctx context.Context, collection common.Address, owner, operator common.Address) (bool, error)
	// SafeTransferFrom moves the token from `from` to `to`. It fails if
	// `from` is not the owner or approval is missing; the caller must treat
	// a failure as a full rejection of the enclosing operation.
	SafeTransferFrom(ctx context.Context, collection common.Address, from, to common.Address, tokenID *big.Int) error
}

// Package listing keeps the per-token ask price. A recorded price is only
// honored while its setter still owns the token; staleness is derived at read
// time rather than maintained eagerly. The settlement engine serializes
// every call.
package listing

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/pixura/pixura-contracts/src/market/registry"
	"github.com/pixura/pixura-contracts/src/market/settings"
	"github.com/pixura/pixura-contracts/src/market/types"
)

type Store struct {
	reg      registry.AssetRegistry
	operator common.Address // address approvals must be granted to
	asks     map[types.TokenKey]types.Listing
}

func New(reg registry.AssetRegistry, operator common.Address) *Store {
	return &Store{
		reg:      reg,
		operator: operator,
		asks:     make(map[types.TokenKey]types.Listing),
	}
}

// SetAsk records caller's ask price. The caller must own the token and have
// granted marketplace approval. An amount of zero clears the listing.
func (s *Store) SetAsk(ctx context.Context, key types.TokenKey, caller common.Address, amount *big.Int) error {
	owner, err := s.ownerWithApproval(ctx, key)
	if err != nil {
		return err
	}
	if owner != caller {
		return types.ErrNotOwner
	}
	if amount == nil || amount.Sign() == 0 {
		s.Clear(key)
		return nil
	}
	s.asks[key] = types.Listing{Seller: caller, Amount: new(big.Int).Set(amount)}
	return nil
}

// Clear resets the listing to the not-for-sale sentinel.
func (s *Store) Clear(key types.TokenKey) {
	delete(s.asks, key)
}

// Get returns the recorded listing without staleness checks.
func (s *Store) Get(key types.TokenKey) types.Listing {
	return s.asks[key]
}

// IsStale reports whether the recorded seller no longer owns the token.
func (s *Store) IsStale(ctx context.Context, key types.TokenKey) (bool, error) {
	lst, ok := s.asks[key]
	if !ok {
		return false, nil
	}
	owner, err := s.ownerOf(ctx, key)
	if err != nil {
		return false, err
	}
	return lst.Seller != owner, nil
}

// Ask returns the effective ask price: zero when unset or stale. The read
// deliberately fails with ErrNotApproved when marketplace approval is absent
// instead of reporting zero; callers must not mistake a revoked marketplace
// for a token that is free.
func (s *Store) Ask(ctx context.Context, key types.TokenKey) (*big.Int, error) {
	owner, err := s.ownerWithApproval(ctx, key)
	if err != nil {
		return nil, err
	}
	lst, ok := s.asks[key]
	if !ok || lst.Empty() || lst.Seller != owner {
		return new(big.Int), nil
	}
	return new(big.Int).Set(lst.Amount), nil
}

// AskIncludingFee returns the effective ask price plus the marketplace fee
// a buyer must send, or zero when the listing is unset or stale.
func (s *Store) AskIncludingFee(ctx context.Context, key types.TokenKey, prov settings.Provider) (*big.Int, error) {
	ask, err := s.Ask(ctx, key)
	if err != nil {
		return nil, err
	}
	if ask.Sign() == 0 {
		return ask, nil
	}
	return ask.Add(ask, prov.CalculateMarketplaceFee(ask)), nil
}

func (s *Store) ownerOf(ctx context.Context, key types.TokenKey) (common.Address, error) {
	tokenID, ok := new(big.Int).SetString(key.TokenID, 10)
	if !ok {
		return common.Address{}, errors.Errorf("malformed token id %q", key.TokenID)
	}
	return s.reg.OwnerOf(ctx, key.Collection, tokenID)
}

func (s *Store) ownerWithApproval(ctx context.Context, key types.TokenKey) (common.Address, error) {
	owner, err := s.ownerOf(ctx, key)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed on resolve token owner")
	}
	approved, err := s.reg.IsApprovedForAll(ctx, key.Collection, owner, s.operator)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed on check marketplace approval")
	}
	if !approved {
		return common.Address{}, types.ErrNotApproved
	}
	return owner, nil
}

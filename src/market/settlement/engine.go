// Package settlement orchestrates the buy and offer-acceptance flows over the
// listing store and bid ledger. One mutex serializes every mutating
// operation, reproducing the totally ordered transaction log of the
// execution environment: an operation reads exactly the state the previous
// one committed, and either applies in full or not at all.
package settlement

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/common/xzap"
	"github.com/pixura/pixura-contracts/src/market/bidledger"
	"github.com/pixura/pixura-contracts/src/market/listing"
	"github.com/pixura/pixura-contracts/src/market/payout"
	"github.com/pixura/pixura-contracts/src/market/registry"
	"github.com/pixura/pixura-contracts/src/market/settings"
	"github.com/pixura/pixura-contracts/src/market/types"
)

type Config struct {
	// Operator is the address token owners grant marketplace approval to.
	Operator common.Address
	// Admin is the only caller allowed to swap provider pointers.
	Admin common.Address
	// Platform receives marketplace and primary sale fees.
	Platform common.Address
}

type Engine struct {
	mu sync.Mutex

	cfg      Config
	reg      registry.AssetRegistry
	provider settings.Provider
	royalty  settings.RoyaltyProvider
	splitter *payout.Splitter
	listings *listing.Store
	bids     *bidledger.Ledger
	sink     types.FactSink
}

func New(cfg Config, reg registry.AssetRegistry, provider settings.Provider,
	royalty settings.RoyaltyProvider, splitter *payout.Splitter, sink types.FactSink) *Engine {
	if sink == nil {
		sink = types.MultiSink(nil)
	}
	return &Engine{
		cfg:      cfg,
		reg:      reg,
		provider: provider,
		royalty:  royalty,
		splitter: splitter,
		listings: listing.New(reg, cfg.Operator),
		bids:     bidledger.New(splitter),
		sink:     sink,
	}
}

// Splitter exposes the payout splitter for pending-withdrawal queries.
func (e *Engine) Splitter() *payout.Splitter {
	return e.splitter
}

// SetSalePrice records or clears the caller's ask. Amount zero (or nil) is
// identical to clearing the listing.
func (e *Engine) SetSalePrice(ctx context.Context, collection common.Address, tokenID *big.Int,
	caller common.Address, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := types.Key(collection, tokenID)
	if err := e.listings.SetAsk(ctx, key, caller, amount); err != nil {
		return err
	}
	if amount == nil {
		amount = new(big.Int)
	}
	e.sink.Publish(ctx, types.SetSalePrice{
		Collection: collection,
		TokenID:    key.TokenID,
		Seller:     caller,
		Amount:     new(big.Int).Set(amount),
	})
	return nil
}

// TokenPrice returns the effective ask without fee. It fails with
// ErrNotApproved when the owner has revoked marketplace approval rather than
// reporting zero.
func (e *Engine) TokenPrice(ctx context.Context, collection common.Address, tokenID *big.Int) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings.Ask(ctx, types.Key(collection, tokenID))
}

// TokenPriceFeeIncluded returns the exact value a buyer must send.
func (e *Engine) TokenPriceFeeIncluded(ctx context.Context, collection common.Address, tokenID *big.Int) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listings.AskIncludingFee(ctx, types.Key(collection, tokenID), e.provider)
}

// Buy settles a fixed-price purchase. sentValue must equal the ask plus the
// current marketplace fee exactly; over- and underpayment are both rejected.
func (e *Engine) Buy(ctx context.Context, collection common.Address, tokenID *big.Int,
	buyer common.Address, sentValue *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buy(ctx, collection, tokenID, buyer, sentValue)
}

// SafeBuy is Buy with an optimistic-concurrency guard: the purchase only
// proceeds when the listing still carries the amount the buyer saw, so a
// front-run price change cannot silently re-price the purchase.
func (e *Engine) SafeBuy(ctx context.Context, collection common.Address, tokenID *big.Int,
	buyer common.Address, sentValue, expectedAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	lst := e.listings.Get(types.Key(collection, tokenID))
	if lst.Empty() || expectedAmount == nil || lst.Amount.Cmp(expectedAmount) != 0 {
		return types.ErrPriceMismatch
	}
	return e.buy(ctx, collection, tokenID, buyer, sentValue)
}

func (e *Engine) buy(ctx context.Context, collection common.Address, tokenID *big.Int,
	buyer common.Address, sentValue *big.Int) error {
	key := types.Key(collection, tokenID)

	owner, err := e.ownerWithApproval(ctx, collection, tokenID)
	if err != nil {
		return err
	}
	lst := e.listings.Get(key)
	if lst.Empty() || lst.Seller != owner {
		return types.ErrStaleOrUnset
	}
	required := new(big.Int).Add(lst.Amount, e.provider.CalculateMarketplaceFee(lst.Amount))
	if sentValue == nil || sentValue.Cmp(required) != 0 {
		return types.ErrPriceMismatch
	}

	// The registry transfer is the only step that can still fail; state is
	// mutated only after it succeeds so a rejection leaves nothing behind.
	if err := e.reg.SafeTransferFrom(ctx, collection, owner, buyer, tokenID); err != nil {
		return errors.Wrap(err, "failed on transfer token to buyer")
	}

	e.listings.Clear(key)
	if e.bids.HasBid(key, buyer) {
		// The buyer cannot stay a bidder on a token they now own.
		e.bids.RefundAndRemove(key, buyer)
	}
	e.settle(collection, tokenID, lst.Amount, e.provider.MarketplaceFeePercentage(), owner)
	e.sink.Publish(ctx, types.Sold{
		Collection: collection,
		TokenID:    key.TokenID,
		Buyer:      buyer,
		Seller:     owner,
		Amount:     new(big.Int).Set(lst.Amount),
	})
	xzap.WithContext(ctx).Info("token sold",
		zap.String("collection", collection.Hex()),
		zap.String("token_id", key.TokenID),
		zap.String("buyer", buyer.Hex()),
		zap.String("amount", lst.Amount.String()))
	return nil
}

// Offer escrows a bid on the token. The caller's previous bid, if any, is
// refunded first: each offer fully replaces the prior one, with no
// minimum-increase rule.
func (e *Engine) Offer(ctx context.Context, collection common.Address, tokenID *big.Int,
	bidder common.Address, amount, sentValue *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == nil || amount.Sign() == 0 {
		return types.ErrZeroBid
	}
	required := new(big.Int).Add(amount, e.provider.CalculateMarketplaceFee(amount))
	if sentValue == nil || sentValue.Cmp(required) != 0 {
		return types.ErrWrongValue
	}
	owner, err := e.reg.OwnerOf(ctx, collection, tokenID)
	if err != nil {
		return errors.Wrap(err, "failed on resolve token owner")
	}
	if owner == bidder {
		return types.ErrBidderIsOwner
	}

	key := types.Key(collection, tokenID)
	if e.bids.HasBid(key, bidder) {
		e.bids.RefundAndRemove(key, bidder)
	}
	if err := e.bids.Place(key, bidder, amount, e.provider.MarketplaceFeePercentage()); err != nil {
		return err
	}
	e.sink.Publish(ctx, types.Offer{
		Collection: collection,
		TokenID:    key.TokenID,
		Bidder:     bidder,
		Amount:     new(big.Int).Set(amount),
	})
	return nil
}

// AcceptOffer settles the named bidder's bid: the winner's bid is consumed,
// every other bidder is refunded in the same step, and the proceeds go to the
// caller as seller.
func (e *Engine) AcceptOffer(ctx context.Context, collection common.Address, tokenID *big.Int,
	caller, bidder common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acceptOffer(ctx, collection, tokenID, caller, bidder)
}

// SafeAcceptOffer only proceeds when the bid still carries the amount the
// seller saw; the same guard SafeBuy applies to the ask.
func (e *Engine) SafeAcceptOffer(ctx context.Context, collection common.Address, tokenID *big.Int,
	caller, bidder common.Address, expectedAmount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := types.Key(collection, tokenID)
	if !e.bids.HasBid(key, bidder) {
		return types.ErrNoSuchBid
	}
	bid := e.bids.Get(key, bidder)
	if expectedAmount == nil || bid.Amount.Cmp(expectedAmount) != 0 {
		return types.ErrWrongValue
	}
	return e.acceptOffer(ctx, collection, tokenID, caller, bidder)
}

func (e *Engine) acceptOffer(ctx context.Context, collection common.Address, tokenID *big.Int,
	caller, bidder common.Address) error {
	owner, err := e.reg.OwnerOf(ctx, collection, tokenID)
	if err != nil {
		return errors.Wrap(err, "failed on resolve token owner")
	}
	if owner != caller {
		return types.ErrNotOwner
	}
	approved, err := e.reg.IsApprovedForAll(ctx, collection, owner, e.cfg.Operator)
	if err != nil {
		return errors.Wrap(err, "failed on check marketplace approval")
	}
	if !approved {
		return types.ErrNotApproved
	}

	key := types.Key(collection, tokenID)
	if !e.bids.HasBid(key, bidder) {
		return types.ErrNoSuchBid
	}
	bid := e.bids.Get(key, bidder)

	if err := e.reg.SafeTransferFrom(ctx, collection, caller, bidder, tokenID); err != nil {
		return errors.Wrap(err, "failed on transfer token to bidder")
	}

	e.listings.Clear(key)
	e.bids.Remove(key, bidder)
	// Losing bidders are refunded inside the same committed step; the
	// winner's bid was already consumed above and must not be refunded.
	e.bids.RefundAndClearAll(key)
	e.settle(collection, tokenID, bid.Amount, bid.MarketplaceFee, caller)
	e.sink.Publish(ctx, types.AcceptOffer{
		Collection: collection,
		TokenID:    key.TokenID,
		Bidder:     bidder,
		Seller:     caller,
		Amount:     new(big.Int).Set(bid.Amount),
	})
	xzap.WithContext(ctx).Info("offer accepted",
		zap.String("collection", collection.Hex()),
		zap.String("token_id", key.TokenID),
		zap.String("bidder", bidder.Hex()),
		zap.String("amount", bid.Amount.String()))
	return nil
}

// CancelOffer refunds and removes the caller's active bid.
func (e *Engine) CancelOffer(ctx context.Context, collection common.Address, tokenID *big.Int,
	caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := types.Key(collection, tokenID)
	if !e.bids.HasBid(key, caller) {
		return types.ErrNoBidToCancel
	}
	bid := e.bids.Get(key, caller)
	e.bids.RefundAndRemove(key, caller)
	e.sink.Publish(ctx, types.CancelOffer{
		Collection: collection,
		TokenID:    key.TokenID,
		Bidder:     caller,
		Amount:     new(big.Int).Set(bid.Amount),
	})
	return nil
}

// Bids returns value copies of every active bid on the token in roster order.
func (e *Engine) Bids(collection common.Address, tokenID *big.Int) []types.Bid {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := types.Key(collection, tokenID)
	var out []types.Bid
	for _, addr := range e.bids.Bidders(key) {
		bid := e.bids.Get(key, addr)
		out = append(out, types.Bid{
			Bidder:         bid.Bidder,
			MarketplaceFee: bid.MarketplaceFee,
			Amount:         new(big.Int).Set(bid.Amount),
		})
	}
	return out
}

// HighestBid returns the best active bid, first-seen winning exact ties.
func (e *Engine) HighestBid(collection common.Address, tokenID *big.Int) types.Bid {
	e.mu.Lock()
	defer e.mu.Unlock()

	bid := e.bids.HighestBid(types.Key(collection, tokenID))
	return types.Bid{
		Bidder:         bid.Bidder,
		MarketplaceFee: bid.MarketplaceFee,
		Amount:         new(big.Int).Set(bid.Amount),
	}
}

// SetSettingsProvider swaps the fee provider pointer. Admin only.
func (e *Engine) SetSettingsProvider(caller common.Address, provider settings.Provider) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.cfg.Admin {
		return types.ErrNotAdmin
	}
	if provider == nil {
		return types.ErrNullConfigAddress
	}
	e.provider = provider
	return nil
}

// SetRoyaltyProvider swaps the royalty provider pointer. Admin only.
func (e *Engine) SetRoyaltyProvider(caller common.Address, royalty settings.RoyaltyProvider) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.cfg.Admin {
		return types.ErrNotAdmin
	}
	if royalty == nil {
		return types.ErrNullConfigAddress
	}
	e.royalty = royalty
	return nil
}

func (e *Engine) ownerWithApproval(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	owner, err := e.reg.OwnerOf(ctx, collection, tokenID)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed on resolve token owner")
	}
	approved, err := e.reg.IsApprovedForAll(ctx, collection, owner, e.cfg.Operator)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed on check marketplace approval")
	}
	if !approved {
		return common.Address{}, types.ErrNotApproved
	}
	return owner, nil
}

// settle runs the payout split for a committed sale and flips the sold flag.
func (e *Engine) settle(collection common.Address, tokenID *big.Int,
	gross *big.Int, marketplaceFeePct uint8, seller common.Address) {
	isPrimary := !e.provider.HasTokenSold(collection, tokenID)
	e.splitter.Payout(gross, isPrimary,
		marketplaceFeePct,
		e.royalty.TokenRoyaltyPercentage(collection, tokenID),
		e.provider.PrimarySaleFeePercentage(collection),
		seller, e.cfg.Platform, e.royalty.TokenCreator(collection, tokenID))
	e.provider.MarkTokenSold(collection, tokenID, true)
}

// Package bidledger keeps the per-token bid state: one active bid per bidder
// plus an unordered roster of the addresses holding one. The settlement
// engine serializes every call; the ledger itself takes no locks.
package bidledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pixura/pixura-contracts/src/market/types"
)

// Refunder returns escrowed value to a bidder at the fee rate the bid
// locked in when it was placed.
type Refunder interface {
	Refund(feePct uint8, recipient common.Address, amount *big.Int)
}

type Ledger struct {
	refunder Refunder
	bids     map[types.TokenKey]map[common.Address]types.Bid
	roster   map[types.TokenKey][]common.Address
}

func New(refunder Refunder) *Ledger {
	return &Ledger{
		refunder: refunder,
		bids:     make(map[types.TokenKey]map[common.Address]types.Bid),
		roster:   make(map[types.TokenKey][]common.Address),
	}
}

// HasBid reports whether addr holds an active bid on the token. The stored
// bidder field must equal addr exactly; a zero-address probe never matches.
func (l *Ledger) HasBid(key types.TokenKey, addr common.Address) bool {
	return l.bids[key][addr].Bidder == addr && addr != types.ZeroAddress
}

// Get returns the stored bid for (key, addr), or the zero-bidder sentinel.
func (l *Ledger) Get(key types.TokenKey, addr common.Address) types.Bid {
	return l.bids[key][addr]
}

// Place records a bid, overwriting any previous bid from the same bidder.
// Multiple bidders may hold live bids on the same token at once; there is no
// minimum-increase rule in this flow.
func (l *Ledger) Place(key types.TokenKey, bidder common.Address, amount *big.Int, feePct uint8) error {
	if bidder == types.ZeroAddress {
		return types.ErrInvalidBidder
	}
	if !l.HasBid(key, bidder) {
		l.roster[key] = append(l.roster[key], bidder)
	}
	m := l.bids[key]
	if m == nil {
		m = make(map[common.Address]types.Bid)
		l.bids[key] = m
	}
	m[bidder] = types.Bid{Bidder: bidder, MarketplaceFee: feePct, Amount: new(big.Int).Set(amount)}
	return nil
}

// Remove zeroes the bid and drops bidder from the roster by swapping in the
// last entry. Roster order carries no meaning, so the reorder is free. A
// single-element roster can only contain this bidder, so no scan is needed.
func (l *Ledger) Remove(key types.TokenKey, bidder common.Address) {
	delete(l.bids[key], bidder)

	r := l.roster[key]
	if len(r) == 0 {
		return
	}
	if len(r) == 1 {
		delete(l.roster, key)
		return
	}
	for i, addr := range r {
		if addr == bidder {
			r[i] = r[len(r)-1]
			l.roster[key] = r[:len(r)-1]
			return
		}
	}
}

// RefundAndRemove is a no-op when bidder holds no active bid; otherwise the
// bid is removed and its value refunded at the locked-in fee rate.
func (l *Ledger) RefundAndRemove(key types.TokenKey, bidder common.Address) {
	if !l.HasBid(key, bidder) {
		return
	}
	bid := l.bids[key][bidder]
	l.Remove(key, bidder)
	l.refunder.Refund(bid.MarketplaceFee, bid.Bidder, bid.Amount)
}

// RefundAndClearAll refunds every active bid on the token, each at its own
// locked-in rate, then drops the roster in one step rather than shrinking it
// entry by entry.
func (l *Ledger) RefundAndClearAll(key types.TokenKey) {
	for _, addr := range l.roster[key] {
		bid := l.bids[key][addr]
		l.refunder.Refund(bid.MarketplaceFee, bid.Bidder, bid.Amount)
	}
	delete(l.bids, key)
	delete(l.roster, key)
}

// HighestBid scans the roster left to right and returns the bid with the
// strictly greatest amount; on an exact tie the first-seen bid wins. An empty
// roster yields the zero-bidder sentinel.
func (l *Ledger) HighestBid(key types.TokenKey) types.Bid {
	best := types.Bid{Amount: new(big.Int)}
	for _, addr := range l.roster[key] {
		bid := l.bids[key][addr]
		if bid.Amount.Cmp(best.Amount) > 0 {
			best = bid
		}
	}
	return best
}

// Bidders returns a copy of the roster for the token.
func (l *Ledger) Bidders(key types.TokenKey) []common.Address {
	r := l.roster[key]
	out := make([]common.Address, len(r))
	copy(out, r)
	return out
}

package bidledger

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixura/pixura-contracts/src/market/types"
)

type refundCall struct {
	feePct    uint8
	recipient common.Address
	amount    *big.Int
}

type recordingRefunder struct {
	calls []refundCall
}

func (r *recordingRefunder) Refund(feePct uint8, recipient common.Address, amount *big.Int) {
	r.calls = append(r.calls, refundCall{feePct: feePct, recipient: recipient, amount: new(big.Int).Set(amount)})
}

var (
	collection = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	alice      = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob        = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	carol      = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

func tokenKey(id int64) types.TokenKey {
	return types.Key(collection, big.NewInt(id))
}

// rosterCount returns how many times addr appears in the roster.
func rosterCount(l *Ledger, key types.TokenKey, addr common.Address) int {
	n := 0
	for _, a := range l.Bidders(key) {
		if a == addr {
			n++
		}
	}
	return n
}

func TestPlaceRejectsZeroBidder(t *testing.T) {
	l := New(&recordingRefunder{})
	err := l.Place(tokenKey(1), types.ZeroAddress, big.NewInt(100), 3)
	require.ErrorIs(t, err, types.ErrInvalidBidder)
}

func TestHasBidMatchesRosterMembership(t *testing.T) {
	l := New(&recordingRefunder{})
	key := tokenKey(1)

	require.NoError(t, l.Place(key, alice, big.NewInt(100), 3))
	require.NoError(t, l.Place(key, bob, big.NewInt(200), 3))

	// Re-placing must not duplicate the roster entry.
	require.NoError(t, l.Place(key, alice, big.NewInt(150), 3))

	for _, addr := range []common.Address{alice, bob} {
		assert.True(t, l.HasBid(key, addr))
		assert.Equal(t, 1, rosterCount(l, key, addr))
	}
	assert.False(t, l.HasBid(key, carol))
	assert.Equal(t, 0, rosterCount(l, key, carol))

	// The zero address never has a bid, even as a probe.
	assert.False(t, l.HasBid(key, types.ZeroAddress))
}

func TestPlaceThenCancelRestoresSentinel(t *testing.T) {
	ref := &recordingRefunder{}
	l := New(ref)
	key := tokenKey(1)

	require.NoError(t, l.Place(key, alice, big.NewInt(100), 3))
	l.RefundAndRemove(key, alice)

	assert.False(t, l.HasBid(key, alice))
	assert.Empty(t, l.Bidders(key))
	assert.Equal(t, types.ZeroAddress, l.Get(key, alice).Bidder)

	require.Len(t, ref.calls, 1)
	assert.Equal(t, alice, ref.calls[0].recipient)
	assert.Equal(t, int64(100), ref.calls[0].amount.Int64())
	assert.Equal(t, uint8(3), ref.calls[0].feePct)
}

func TestRefundAndRemoveNoopWithoutBid(t *testing.T) {
	ref := &recordingRefunder{}
	l := New(ref)

	l.RefundAndRemove(tokenKey(1), alice)
	assert.Empty(t, ref.calls)
}

func TestRefundUsesLockedFeeRate(t *testing.T) {
	ref := &recordingRefunder{}
	l := New(ref)
	key := tokenKey(1)

	// The rate in force at placement must be the rate refunded at, no
	// matter what the marketplace charges by the time of the refund.
	require.NoError(t, l.Place(key, alice, big.NewInt(100), 3))
	require.NoError(t, l.Place(key, bob, big.NewInt(200), 5))

	l.RefundAndClearAll(key)

	require.Len(t, ref.calls, 2)
	byAddr := map[common.Address]refundCall{}
	for _, c := range ref.calls {
		byAddr[c.recipient] = c
	}
	assert.Equal(t, uint8(3), byAddr[alice].feePct)
	assert.Equal(t, uint8(5), byAddr[bob].feePct)
}

func TestRefundAndClearAll(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		ref := &recordingRefunder{}
		l := New(ref)
		key := tokenKey(1)

		for i := 0; i < n; i++ {
			bidder := common.BigToAddress(big.NewInt(int64(i + 1)))
			require.NoError(t, l.Place(key, bidder, big.NewInt(int64(100+i)), 3))
		}

		l.RefundAndClearAll(key)

		assert.Empty(t, l.Bidders(key), "roster must be empty for n=%d", n)
		assert.Len(t, ref.calls, n)
		for i := 0; i < n; i++ {
			bidder := common.BigToAddress(big.NewInt(int64(i + 1)))
			assert.False(t, l.HasBid(key, bidder))
			assert.Equal(t, types.ZeroAddress, l.Get(key, bidder).Bidder)
		}
	}
}

func TestRemoveSwapsWithLast(t *testing.T) {
	l := New(&recordingRefunder{})
	key := tokenKey(1)

	require.NoError(t, l.Place(key, alice, big.NewInt(100), 3))
	require.NoError(t, l.Place(key, bob, big.NewInt(200), 3))
	require.NoError(t, l.Place(key, carol, big.NewInt(300), 3))

	l.Remove(key, bob)

	assert.False(t, l.HasBid(key, bob))
	assert.True(t, l.HasBid(key, alice))
	assert.True(t, l.HasBid(key, carol))
	assert.Len(t, l.Bidders(key), 2)
}

func TestHighestBidEmpty(t *testing.T) {
	l := New(&recordingRefunder{})
	best := l.HighestBid(tokenKey(1))
	assert.Equal(t, types.ZeroAddress, best.Bidder)
	assert.Equal(t, int64(0), best.Amount.Int64())
}

func TestHighestBidFirstSeenWinsTies(t *testing.T) {
	l := New(&recordingRefunder{})
	key := tokenKey(1)

	require.NoError(t, l.Place(key, alice, big.NewInt(100), 3))
	require.NoError(t, l.Place(key, bob, big.NewInt(150), 3))
	require.NoError(t, l.Place(key, carol, big.NewInt(150), 3))

	best := l.HighestBid(key)
	assert.Equal(t, bob, best.Bidder)
	assert.Equal(t, int64(150), best.Amount.Int64())
}

package listing

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixura/pixura-contracts/src/market/registry"
	"github.com/pixura/pixura-contracts/src/market/settings"
	"github.com/pixura/pixura-contracts/src/market/types"
)

var (
	collection = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	operator   = common.HexToAddress("0x00000000000000000000000000000000000000e0")
	seller     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	buyer      = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

func newFixture(t *testing.T) (*Store, *registry.Memory, *settings.Static, types.TokenKey) {
	t.Helper()
	reg := registry.NewMemory()
	reg.Mint(collection, big.NewInt(1), seller)
	reg.SetApprovalForAll(seller, operator, true)

	prov := settings.NewStatic(settings.Rates{MarketplaceFeePct: 3})
	return New(reg, operator), reg, prov, types.Key(collection, big.NewInt(1))
}

func TestSetAskRequiresOwner(t *testing.T) {
	store, reg, _, key := newFixture(t)
	reg.SetApprovalForAll(buyer, operator, true)

	err := store.SetAsk(context.Background(), key, buyer, big.NewInt(100))
	require.ErrorIs(t, err, types.ErrNotOwner)
}

func TestSetAskRequiresApproval(t *testing.T) {
	store, reg, _, key := newFixture(t)
	reg.SetApprovalForAll(seller, operator, false)

	err := store.SetAsk(context.Background(), key, seller, big.NewInt(100))
	require.ErrorIs(t, err, types.ErrNotApproved)
}

func TestAskIncludingFee(t *testing.T) {
	store, _, prov, key := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.SetAsk(ctx, key, seller, big.NewInt(100)))

	ask, err := store.Ask(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ask.Int64())

	withFee, err := store.AskIncludingFee(ctx, key, prov)
	require.NoError(t, err)
	assert.Equal(t, int64(103), withFee.Int64())
}

func TestSetAskZeroEqualsClear(t *testing.T) {
	store, _, prov, key := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.SetAsk(ctx, key, seller, big.NewInt(100)))
	require.NoError(t, store.SetAsk(ctx, key, seller, big.NewInt(0)))

	assert.True(t, store.Get(key).Empty())
	withFee, err := store.AskIncludingFee(ctx, key, prov)
	require.NoError(t, err)
	assert.Equal(t, int64(0), withFee.Int64())
}

func TestAskZeroWhenSellerLostOwnership(t *testing.T) {
	store, reg, _, key := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.SetAsk(ctx, key, seller, big.NewInt(100)))
	require.NoError(t, reg.SafeTransferFrom(ctx, collection, seller, buyer, big.NewInt(1)))
	reg.SetApprovalForAll(buyer, operator, true)

	stale, err := store.IsStale(ctx, key)
	require.NoError(t, err)
	assert.True(t, stale)

	// The recorded amount is still nonzero, but the read must report 0.
	assert.Equal(t, int64(100), store.Get(key).Amount.Int64())
	ask, err := store.Ask(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ask.Int64())
}

// The price read paths deliberately fail when marketplace approval is
// revoked; a zero answer would let callers mistake a revoked marketplace for
// a free token.
func TestAskFailsClosedWithoutApproval(t *testing.T) {
	store, reg, prov, key := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.SetAsk(ctx, key, seller, big.NewInt(100)))
	reg.SetApprovalForAll(seller, operator, false)

	_, err := store.Ask(ctx, key)
	require.ErrorIs(t, err, types.ErrNotApproved)

	_, err = store.AskIncludingFee(ctx, key, prov)
	require.ErrorIs(t, err, types.ErrNotApproved)
}

package payout

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	seller   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	platform = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	creator  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	bidder   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

func TestPayoutPrimarySale(t *testing.T) {
	d := NewLedgerDispatcher()
	s := NewSplitter(d)

	// gross 1000, marketplace 3%, primary sale fee 15%, royalty unused.
	s.Payout(big.NewInt(1000), true, 3, 10, 15, seller, platform, creator)

	assert.Equal(t, int64(850), d.BalanceOf(seller).Int64())
	assert.Equal(t, int64(180), d.BalanceOf(platform).Int64()) // 30 fee + 150 primary
	assert.Equal(t, int64(0), d.BalanceOf(creator).Int64())
}

func TestPayoutSecondarySale(t *testing.T) {
	d := NewLedgerDispatcher()
	s := NewSplitter(d)

	// gross 1000, marketplace 3%, royalty 10%, primary fee unused.
	s.Payout(big.NewInt(1000), false, 3, 10, 15, seller, platform, creator)

	assert.Equal(t, int64(900), d.BalanceOf(seller).Int64())
	assert.Equal(t, int64(30), d.BalanceOf(platform).Int64())
	assert.Equal(t, int64(100), d.BalanceOf(creator).Int64())
}

func TestRefundIncludesLockedFee(t *testing.T) {
	d := NewLedgerDispatcher()
	s := NewSplitter(d)

	s.Refund(3, bidder, big.NewInt(200))
	assert.Equal(t, int64(206), d.BalanceOf(bidder).Int64())
}

func TestBlockedRecipientEscrows(t *testing.T) {
	d := NewLedgerDispatcher()
	s := NewSplitter(d)
	d.Block(creator, true)

	s.Payout(big.NewInt(1000), false, 3, 10, 15, seller, platform, creator)

	// Settlement completed for everyone else; the creator's royalty is
	// preserved for later withdrawal instead of failing the sale.
	assert.Equal(t, int64(900), d.BalanceOf(seller).Int64())
	assert.Equal(t, int64(0), d.BalanceOf(creator).Int64())
	assert.Equal(t, int64(100), s.PendingWithdrawal(creator).Int64())

	// Still blocked: withdrawal fails and the balance stays pending.
	_, err := s.Withdraw(creator)
	require.Error(t, err)
	assert.Equal(t, int64(100), s.PendingWithdrawal(creator).Int64())

	d.Block(creator, false)
	paid, err := s.Withdraw(creator)
	require.NoError(t, err)
	assert.Equal(t, int64(100), paid.Int64())
	assert.Equal(t, int64(100), d.BalanceOf(creator).Int64())
	assert.Equal(t, int64(0), s.PendingWithdrawal(creator).Int64())
}

func TestWithdrawWithoutPendingBalance(t *testing.T) {
	s := NewSplitter(NewLedgerDispatcher())
	_, err := s.Withdraw(bidder)
	require.Error(t, err)
}

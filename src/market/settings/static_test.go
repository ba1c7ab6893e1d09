package settings

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestStaticOverrides(t *testing.T) {
	coll := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	other := common.HexToAddress("0x00000000000000000000000000000000000000c2")
	creator := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	token := big.NewInt(7)

	s := NewStatic(Rates{MarketplaceFeePct: 3, PrimarySaleFeePct: 15, RoyaltyPct: 10})

	assert.Equal(t, int64(6), s.CalculateMarketplaceFee(big.NewInt(200)).Int64())
	assert.Equal(t, uint8(15), s.PrimarySaleFeePercentage(coll))
	assert.Equal(t, uint8(10), s.TokenRoyaltyPercentage(coll, token))
	assert.Equal(t, common.Address{}, s.TokenCreator(coll, token))

	s.SetPrimarySaleFeePercentage(coll, 20)
	s.SetTokenRoyaltyPercentage(coll, token, 5)
	s.SetTokenCreator(coll, token, creator)

	assert.Equal(t, uint8(20), s.PrimarySaleFeePercentage(coll))
	assert.Equal(t, uint8(15), s.PrimarySaleFeePercentage(other))
	assert.Equal(t, uint8(5), s.TokenRoyaltyPercentage(coll, token))
	assert.Equal(t, creator, s.TokenCreator(coll, token))
}

func TestWithRatesSharesSoldState(t *testing.T) {
	coll := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	token := big.NewInt(1)

	s := NewStatic(Rates{MarketplaceFeePct: 3})
	s.MarkTokenSold(coll, token, true)

	bumped := s.WithRates(Rates{MarketplaceFeePct: 5})
	assert.Equal(t, uint8(5), bumped.MarketplaceFeePercentage())
	assert.True(t, bumped.HasTokenSold(coll, token))

	// Writes through either provider land in the shared state.
	bumped.MarkTokenSold(coll, big.NewInt(2), true)
	assert.True(t, s.HasTokenSold(coll, big.NewInt(2)))
}

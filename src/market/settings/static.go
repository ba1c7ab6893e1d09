package settings

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pixura/pixura-contracts/src/market/types"
)

// Rates holds the default percentages a Static provider answers with.
type Rates struct {
	MarketplaceFeePct     uint8
	PrimarySaleFeePct     uint8
	RoyaltyPct            uint8
	MinimumBidIncreasePct uint8
}

// Static is an in-process Provider and RoyaltyProvider backed by config-time
// rates plus per-collection and per-token overrides. Sold flags and creators
// live in memory; the dao persists the facts they derive from.
type Static struct {
	mu sync.RWMutex

	rates           Rates
	primaryOverride map[common.Address]uint8
	royaltyOverride map[types.TokenKey]uint8
	creators        map[types.TokenKey]common.Address
	sold            map[types.TokenKey]bool
}

func NewStatic(rates Rates) *Static {
	return &Static{
		rates:           rates,
		primaryOverride: make(map[common.Address]uint8),
		royaltyOverride: make(map[types.TokenKey]uint8),
		creators:        make(map[types.TokenKey]common.Address),
		sold:            make(map[types.TokenKey]bool),
	}
}

func pct(amount *big.Int, percentage uint8) *big.Int {
	fee := new(big.Int).Mul(amount, big.NewInt(int64(percentage)))
	return fee.Div(fee, big.NewInt(100))
}

func (s *Static) CalculateMarketplaceFee(amount *big.Int) *big.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pct(amount, s.rates.MarketplaceFeePct)
}

func (s *Static) MarketplaceFeePercentage() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates.MarketplaceFeePct
}

func (s *Static) PrimarySaleFeePercentage(collection common.Address) uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.primaryOverride[collection]; ok {
		return v
	}
	return s.rates.PrimarySaleFeePct
}

func (s *Static) MinimumBidIncreasePercentage() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates.MinimumBidIncreasePct
}

func (s *Static) HasTokenSold(collection common.Address, tokenID *big.Int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sold[types.Key(collection, tokenID)]
}

func (s *Static) MarkTokenSold(collection common.Address, tokenID *big.Int, sold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sold[types.Key(collection, tokenID)] = sold
}

func (s *Static) TokenRoyaltyPercentage(collection common.Address, tokenID *big.Int) uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.royaltyOverride[types.Key(collection, tokenID)]; ok {
		return v
	}
	return s.rates.RoyaltyPct
}

func (s *Static) TokenCreator(collection common.Address, tokenID *big.Int) common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creators[types.Key(collection, tokenID)]
}

// WithRates returns a provider answering with the new rates while sharing the
// receiver's sold-flag, creator and override state, so a rate change never
// resets which tokens count as already sold.
func (s *Static) WithRates(rates Rates) *Static {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Static{
		rates:           rates,
		primaryOverride: s.primaryOverride,
		royaltyOverride: s.royaltyOverride,
		creators:        s.creators,
		sold:            s.sold,
	}
}

// SetPrimarySaleFeePercentage overrides the primary sale fee for one collection.
func (s *Static) SetPrimarySaleFeePercentage(collection common.Address, percentage uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primaryOverride[collection] = percentage
}

// SetTokenRoyaltyPercentage overrides the royalty rate for one token.
func (s *Static) SetTokenRoyaltyPercentage(collection common.Address, tokenID *big.Int, percentage uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.royaltyOverride[types.Key(collection, tokenID)] = percentage
}

// SetTokenCreator records the original creator the royalty split pays out to.
func (s *Static) SetTokenCreator(collection common.Address, tokenID *big.Int, creator common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creators[types.Key(collection, tokenID)] = creator
}

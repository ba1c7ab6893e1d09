// Package payout implements the settlement payout protocol: splitting a gross
// sale amount between seller, platform and creator, and refunding escrowed
// bids at their locked-in fee rate. A recipient that cannot accept value is
// credited in a pending-withdrawal ledger instead of blocking settlement.
package payout

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pixura/pixura-contracts/src/common/xzap"
)

type Splitter struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	pending    map[common.Address]*big.Int
}

func NewSplitter(dispatcher Dispatcher) *Splitter {
	return &Splitter{
		dispatcher: dispatcher,
		pending:    make(map[common.Address]*big.Int),
	}
}

func pctOf(amount *big.Int, percentage uint8) *big.Int {
	v := new(big.Int).Mul(amount, big.NewInt(int64(percentage)))
	return v.Div(v, big.NewInt(100))
}

// Payout settles a gross sale amount. The buyer has already paid gross plus
// the marketplace fee, so the fee goes to the platform on top of the split:
//   - primary sale: platform additionally takes the primary sale fee, the
//     seller receives the remainder, no royalty is owed.
//   - secondary sale: the creator takes the royalty, the seller receives the
//     remainder.
//
// Payout never fails; any undeliverable leg lands in the pending ledger.
func (s *Splitter) Payout(gross *big.Int, isPrimarySale bool, marketplaceFeePct, royaltyPct, primarySaleFeePct uint8,
	seller, platform, creator common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marketplaceFee := pctOf(gross, marketplaceFeePct)
	s.send(platform, marketplaceFee)

	if isPrimarySale {
		primaryFee := pctOf(gross, primarySaleFeePct)
		s.send(platform, primaryFee)
		s.send(seller, new(big.Int).Sub(gross, primaryFee))
		return
	}

	royalty := pctOf(gross, royaltyPct)
	s.send(creator, royalty)
	s.send(seller, new(big.Int).Sub(gross, royalty))
}

// Refund returns an escrowed bid to its bidder: the bid amount plus the
// marketplace fee computed at the rate locked in when the bid was placed.
func (s *Splitter) Refund(feePct uint8, recipient common.Address, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := new(big.Int).Add(amount, pctOf(amount, feePct))
	s.send(recipient, total)
}

// PendingWithdrawal returns the escrowed balance owed to addr.
func (s *Splitter) PendingWithdrawal(addr common.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bal, ok := s.pending[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// Withdraw pays out the pending balance for addr. The balance is only cleared
// once the dispatcher accepts the transfer.
func (s *Splitter) Withdraw(addr common.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bal, ok := s.pending[addr]
	if !ok || bal.Sign() == 0 {
		return nil, errors.Errorf("no pending withdrawal for %s", addr.Hex())
	}
	if err := s.dispatcher.Send(addr, bal); err != nil {
		return nil, errors.Wrap(err, "failed on dispatch pending withdrawal")
	}
	delete(s.pending, addr)
	return bal, nil
}

// send must be called with s.mu held.
func (s *Splitter) send(recipient common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	if err := s.dispatcher.Send(recipient, amount); err != nil {
		bal, ok := s.pending[recipient]
		if !ok {
			bal = new(big.Int)
			s.pending[recipient] = bal
		}
		bal.Add(bal, amount)
		xzap.Logger().Warn("payout leg escrowed for later withdrawal",
			zap.String("recipient", recipient.Hex()),
			zap.String("amount", amount.String()),
			zap.Error(err))
	}
}

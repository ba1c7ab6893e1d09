package payout

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Dispatcher is the external value-transfer primitive. A Send failure means
// the recipient cannot accept funds right now; the splitter escrows the value
// instead of failing the settlement.
type Dispatcher interface {
	Send(recipient common.Address, amount *big.Int) error
}

// LedgerDispatcher is an in-process Dispatcher keeping per-address balances.
// Blocked addresses reject every Send, which is how tests and local mode
// model a hostile or broken recipient.
type LedgerDispatcher struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
	blocked  map[common.Address]bool
}

func NewLedgerDispatcher() *LedgerDispatcher {
	return &LedgerDispatcher{
		balances: make(map[common.Address]*big.Int),
		blocked:  make(map[common.Address]bool),
	}
}

func (d *LedgerDispatcher) Send(recipient common.Address, amount *big.Int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.blocked[recipient] {
		return errors.Errorf("recipient %s rejects transfers", recipient.Hex())
	}
	bal, ok := d.balances[recipient]
	if !ok {
		bal = new(big.Int)
		d.balances[recipient] = bal
	}
	bal.Add(bal, amount)
	return nil
}

// Block toggles whether the address accepts transfers.
func (d *LedgerDispatcher) Block(addr common.Address, blocked bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocked[addr] = blocked
}

// BalanceOf returns a copy of the accumulated balance for addr.
func (d *LedgerDispatcher) BalanceOf(addr common.Address) *big.Int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if bal, ok := d.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

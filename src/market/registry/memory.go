package registry

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/pixura/pixura-contracts/src/market/types"
)

// Memory is an in-process registry used in local mode and in tests. It keeps
// the same failure surface as the on-chain registry: transfers from a
// non-owner or without approval are rejected.
type Memory struct {
	mu        sync.RWMutex
	owners    map[types.TokenKey]common.Address
	approvals map[common.Address]map[common.Address]bool
}

func NewMemory() *Memory {
	return &Memory{
		owners:    make(map[types.TokenKey]common.Address),
		approvals: make(map[common.Address]map[common.Address]bool),
	}
}

// Mint assigns the token to owner. Re-minting an existing token overwrites
// the owner; callers seeding test fixtures rely on that.
func (m *Memory) Mint(collection common.Address, tokenID *big.Int, owner common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[types.Key(collection, tokenID)] = owner
}

// SetApprovalForAll mirrors the ERC-721 call of the same name.
func (m *Memory) SetApprovalForAll(owner, operator common.Address, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := m.approvals[owner]
	if ops == nil {
		ops = make(map[common.Address]bool)
		m.approvals[owner] = ops
	}
	ops[operator] = approved
}

func (m *Memory) OwnerOf(_ context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, ok := m.owners[types.Key(collection, tokenID)]
	if !ok {
		return common.Address{}, errors.Errorf("token %s/%s does not exist", collection.Hex(), tokenID.String())
	}
	return owner, nil
}

func (m *Memory) IsApprovedForAll(_ context.Context, _ common.Address, owner, operator common.Address) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.approvals[owner][operator], nil
}

func (m *Memory) SafeTransferFrom(_ context.Context, collection common.Address, from, to common.Address, tokenID *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := types.Key(collection, tokenID)
	owner, ok := m.owners[key]
	if !ok {
		return errors.Errorf("token %s/%s does not exist", collection.Hex(), tokenID.String())
	}
	if owner != from {
		return errors.Errorf("transfer from %s which is not the owner of %s/%s", from.Hex(), collection.Hex(), tokenID.String())
	}
	if to == types.ZeroAddress {
		return errors.New("transfer to the zero address")
	}
	m.owners[key] = to
	return nil
}

package registry

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// Minimal ERC-721 surface: the three calls the settlement flow needs.
const erc721Abi = `[
{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"name":"isApprovedForAll","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"safeTransferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

// EVM talks to real ERC-721 contracts over an RPC endpoint. Transfers are
// sent with the operator key and waited on, so a reverted transfer rejects
// the enclosing settlement the same way a local registry error would.
type EVM struct {
	client    *ethclient.Client
	auth      *bind.TransactOpts
	parsedAbi abi.ABI

	mu        sync.Mutex
	contracts map[common.Address]*bind.BoundContract
}

func NewEVM(endpoint string, operatorKeyHex string, chainID int64) (*EVM, error) {
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "failed on dial chain endpoint")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(operatorKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse operator key")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		return nil, errors.Wrap(err, "failed on create transactor")
	}
	parsedAbi, err := abi.JSON(strings.NewReader(erc721Abi))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse erc721 abi")
	}
	return &EVM{
		client:    client,
		auth:      auth,
		parsedAbi: parsedAbi,
		contracts: make(map[common.Address]*bind.BoundContract),
	}, nil
}

func (e *EVM) contract(collection common.Address) *bind.BoundContract {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.contracts[collection]
	if !ok {
		c = bind.NewBoundContract(collection, e.parsedAbi, e.client, e.client, e.client)
		e.contracts[collection] = c
	}
	return c
}

func (e *EVM) OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	var out []interface{}
	if err := e.contract(collection).Call(&bind.CallOpts{Context: ctx}, &out, "ownerOf", tokenID); err != nil {
		return common.Address{}, errors.Wrap(err, "failed on call ownerOf")
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (e *EVM) IsApprovedForAll(ctx context.Context, collection common.Address, owner, operator common.Address) (bool, error) {
	var out []interface{}
	if err := e.contract(collection).Call(&bind.CallOpts{Context: ctx}, &out, "isApprovedForAll", owner, operator); err != nil {
		return false, errors.Wrap(err, "failed on call isApprovedForAll")
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (e *EVM) SafeTransferFrom(ctx context.Context, collection common.Address, from, to common.Address, tokenID *big.Int) error {
	opts := *e.auth
	opts.Context = ctx
	tx, err := e.contract(collection).Transact(&opts, "safeTransferFrom", from, to, tokenID)
	if err != nil {
		return errors.Wrap(err, "failed on send safeTransferFrom")
	}
	receipt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		return errors.Wrap(err, "failed on wait for transfer receipt")
	}
	if receipt.Status == 0 {
		return errors.Errorf("transfer of %s/%s reverted in tx %s", collection.Hex(), tokenID.String(), tx.Hash().Hex())
	}
	return nil
}

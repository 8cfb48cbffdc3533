package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance for deployment")
	ErrDeploymentReverted  = errors.New("deployment reverted")
)

// DeployBackend is what the deployer needs from an Ethereum client
type DeployBackend interface {
	rpc.TxBackend
	rpc.ReceiptBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Deployment records a deployed contract
type Deployment struct {
	Address     common.Address `json:"address"`
	TxHash      common.Hash    `json:"tx_hash"`
	BlockNumber uint64         `json:"block_number"`
	GasUsed     uint64         `json:"gas_used"`
	DeployedAt  time.Time      `json:"deployed_at"`
}

// Deployer sends contract creation transactions from one key
type Deployer struct {
	Backend DeployBackend
	Key     *ecdsa.PrivateKey

	// GasLimit is used when estimation fails; 0 means estimation must succeed
	GasLimit     uint64
	PollInterval time.Duration

	// OnSent is called once the creation transaction is broadcast
	OnSent func(tx *types.Transaction)
}

// Account returns the deployer address
func (d *Deployer) Account() common.Address {
	return crypto.PubkeyToAddress(d.Key.PublicKey)
}

// Balance returns the deployer balance in wei
func (d *Deployer) Balance(ctx context.Context) (*big.Int, error) {
	bal, err := d.Backend.BalanceAt(ctx, d.Account(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	return bal, nil
}

// Deploy creates art on chain with the given constructor arguments and waits for the receipt
func (d *Deployer) Deploy(ctx context.Context, art Artifact, params ...interface{}) (Deployment, error) {
	if d.Key == nil {
		return Deployment{}, fmt.Errorf("no deployer key")
	}
	if len(art.Bytecode) == 0 {
		return Deployment{}, fmt.Errorf("artifact has no bytecode")
	}

	input, err := art.ABI.Pack("", params...)
	if err != nil {
		return Deployment{}, fmt.Errorf("pack constructor: %w", err)
	}
	data := append(append([]byte{}, art.Bytecode...), input...)

	from := d.Account()
	balance, err := d.Balance(ctx)
	if err != nil {
		return Deployment{}, err
	}

	req := rpc.TxRequest{From: from, Data: data}
	tx, err := rpc.BuildTx(ctx, d.Backend, req)
	if err != nil && d.GasLimit > 0 {
		req.Gas = d.GasLimit
		tx, err = rpc.BuildTx(ctx, d.Backend, req)
	}
	if err != nil {
		return Deployment{}, err
	}

	cost := new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas()), tx.GasPrice())
	if balance.Cmp(cost) < 0 {
		return Deployment{}, fmt.Errorf("%w: have %s wei, need %s wei", ErrInsufficientBalance, balance, cost)
	}

	req.Gas = tx.Gas()
	sent, err := rpc.SendSigned(ctx, d.Backend, d.Key, req)
	if err != nil {
		return Deployment{}, err
	}
	if d.OnSent != nil {
		d.OnSent(sent)
	}

	receipt, err := rpc.WaitReceipt(ctx, d.Backend, sent.Hash(), d.PollInterval)
	if err != nil {
		return Deployment{}, fmt.Errorf("waiting for %s: %w", sent.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return Deployment{}, fmt.Errorf("%w: tx %s", ErrDeploymentReverted, sent.Hash().Hex())
	}

	addr := receipt.ContractAddress
	if addr == (common.Address{}) {
		addr = crypto.CreateAddress(from, sent.Nonce())
	}

	dep := Deployment{
		Address:    addr,
		TxHash:     sent.Hash(),
		GasUsed:    receipt.GasUsed,
		DeployedAt: time.Now(),
	}
	if receipt.BlockNumber != nil {
		dep.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return dep, nil
}

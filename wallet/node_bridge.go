package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC error codes a provider uses for the handshake
const (
	codeMethodNotFound = -32601
	codeUserRejected   = 4001
)

// NodeBridge talks to a JSON-RPC endpoint that manages accounts itself
// (a dev node, or a signer proxy in front of a browser wallet).
type NodeBridge struct {
	URL     string
	ChainID *big.Int

	dial func(ctx context.Context, url string) (*gethrpc.Client, error)

	mu       sync.Mutex
	client   *gethrpc.Client
	accounts []common.Address
}

// NewNodeBridge creates a bridge for url
func NewNodeBridge(url string, chainID *big.Int) *NodeBridge {
	return &NodeBridge{URL: url, ChainID: chainID, dial: gethrpc.DialContext}
}

// Connect dials the endpoint, checks the network and requests account access
func (b *NodeBridge) Connect(ctx context.Context) ([]common.Address, error) {
	c, err := b.dial(ctx, b.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}

	var id hexutil.Big
	if err := c.CallContext(ctx, &id, "eth_chainId"); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	if err := checkChain(b.ChainID, id.ToInt()); err != nil {
		c.Close()
		return nil, err
	}

	var accounts []common.Address
	err = c.CallContext(ctx, &accounts, "eth_requestAccounts")
	if rpcErrorCode(err) == codeMethodNotFound {
		// plain nodes only know eth_accounts
		err = c.CallContext(ctx, &accounts, "eth_accounts")
	}
	if err != nil {
		c.Close()
		if rpcErrorCode(err) == codeUserRejected {
			return nil, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	if len(accounts) == 0 {
		c.Close()
		return nil, ErrNoAccounts
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// a disconnect may have cancelled ctx while the handshake was in flight
	if err := ctx.Err(); err != nil {
		c.Close()
		return nil, err
	}
	if b.client != nil {
		b.client.Close()
	}
	b.client = c
	b.accounts = accounts
	return accounts, nil
}

// Disconnect closes the connection and forgets the accounts
func (b *NodeBridge) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		b.client.Close()
		b.client = nil
	}
	b.accounts = nil
	return nil
}

// Accounts re-reads the accounts exposed by the endpoint
func (b *NodeBridge) Accounts(ctx context.Context) ([]common.Address, error) {
	c, _ := b.conn()
	if c == nil {
		return nil, ErrNotConnected
	}
	var accounts []common.Address
	if err := c.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.accounts = accounts
	b.mu.Unlock()
	return accounts, nil
}

func (b *NodeBridge) conn() (*gethrpc.Client, []common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client, b.accounts
}

type sendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// SendTransaction hands the transaction to the endpoint, which signs it with the managed account
func (b *NodeBridge) SendTransaction(ctx context.Context, req rpc.TxRequest) (common.Hash, error) {
	c, accounts := b.conn()
	if c == nil || len(accounts) == 0 {
		return common.Hash{}, ErrNotConnected
	}
	args := sendTxArgs{From: req.From, To: req.To, Data: req.Data}
	if args.From == (common.Address{}) {
		args.From = accounts[0]
	}
	if req.Value != nil {
		args.Value = (*hexutil.Big)(req.Value)
	}
	if req.Gas != 0 {
		gas := hexutil.Uint64(req.Gas)
		args.Gas = &gas
	}

	var hash common.Hash
	if err := c.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		if rpcErrorCode(err) == codeUserRejected {
			return common.Hash{}, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		return common.Hash{}, err
	}
	return hash, nil
}

func rpcErrorCode(err error) int {
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}

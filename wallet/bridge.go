package wallet

import (
	"context"
	"fmt"
	"math/big"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
)

// Bridge mediates between the application and a wallet provider
type Bridge interface {
	Connect(ctx context.Context) ([]common.Address, error)
	Disconnect(ctx context.Context) error
	Accounts(ctx context.Context) ([]common.Address, error)
}

// Sender is implemented by bridges that can submit transactions for the connected account
type Sender interface {
	SendTransaction(ctx context.Context, req rpc.TxRequest) (common.Hash, error)
}

// Bridge kinds accepted by NewBridge
const (
	BridgeNode = "node"
	BridgeKey  = "key"
)

// NewBridge builds the bridge named by kind.
// chainID may be nil to accept whatever network the endpoint reports.
func NewBridge(kind, url string, chainID *big.Int, keyEnv string) (Bridge, error) {
	switch kind {
	case BridgeNode, "":
		return NewNodeBridge(url, chainID), nil
	case BridgeKey:
		return NewKeyBridge(url, chainID, keyEnv), nil
	default:
		return nil, fmt.Errorf("unsupported bridge: %s", kind)
	}
}

// Connect runs the bridge handshake and returns the account to use
func Connect(ctx context.Context, b Bridge) (string, error) {
	if b == nil {
		return "", fmt.Errorf("%w: no bridge configured", ErrBridgeUnavailable)
	}
	accounts, err := b.Connect(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	return accounts[0].Hex(), nil
}

func checkChain(want, got *big.Int) error {
	if want == nil || want.Sign() == 0 {
		return nil
	}
	if got == nil || want.Cmp(got) != 0 {
		return fmt.Errorf("%w: expected chain %s, got %v", ErrNetworkMismatch, want, got)
	}
	return nil
}

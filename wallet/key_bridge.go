package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultKeyEnv is the environment variable KeyBridge reads when none is configured
const DefaultKeyEnv = "WALLET_PRIVATE_KEY"

// KeyBridge signs locally with a private key taken from the environment
type KeyBridge struct {
	URL     string
	ChainID *big.Int
	KeyEnv  string

	dial   func(ctx context.Context, url string) (*ethclient.Client, error)
	getenv func(string) string

	mu     sync.Mutex
	client *ethclient.Client
	key    *ecdsa.PrivateKey
}

// NewKeyBridge creates a bridge for url using the key in keyEnv
func NewKeyBridge(url string, chainID *big.Int, keyEnv string) *KeyBridge {
	if keyEnv == "" {
		keyEnv = DefaultKeyEnv
	}
	return &KeyBridge{URL: url, ChainID: chainID, KeyEnv: keyEnv, dial: ethclient.DialContext, getenv: os.Getenv}
}

// ParsePrivateKey parses a hex private key with or without the 0x prefix
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, fmt.Errorf("empty private key")
	}
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Connect loads the key, dials the endpoint and checks the network
func (b *KeyBridge) Connect(ctx context.Context) ([]common.Address, error) {
	raw := b.getenv(b.KeyEnv)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrBridgeUnavailable, b.KeyEnv)
	}
	key, err := ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}

	c, err := b.dial(ctx, b.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	id, err := c.ChainID(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %v", ErrBridgeUnavailable, err)
	}
	if err := checkChain(b.ChainID, id); err != nil {
		c.Close()
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		c.Close()
		return nil, err
	}
	if b.client != nil {
		b.client.Close()
	}
	b.client = c
	b.key = key
	return []common.Address{crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Disconnect drops the client and the key
func (b *KeyBridge) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		b.client.Close()
		b.client = nil
	}
	b.key = nil
	return nil
}

// Accounts returns the key's address while connected
func (b *KeyBridge) Accounts(ctx context.Context) ([]common.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.key == nil {
		return nil, ErrNotConnected
	}
	return []common.Address{crypto.PubkeyToAddress(b.key.PublicKey)}, nil
}

// SendTransaction signs req with the key and broadcasts it
func (b *KeyBridge) SendTransaction(ctx context.Context, req rpc.TxRequest) (common.Hash, error) {
	b.mu.Lock()
	c, key := b.client, b.key
	b.mu.Unlock()
	if c == nil || key == nil {
		return common.Hash{}, ErrNotConnected
	}
	tx, err := rpc.SendSigned(ctx, c, key, req)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

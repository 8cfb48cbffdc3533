package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// anvil/hardhat default account 0
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testAccount = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type rejectedError struct{}

func (rejectedError) Error() string  { return "User rejected the request." }
func (rejectedError) ErrorCode() int { return codeUserRejected }

// ethService answers the eth_ namespace like a wallet-aware node
type ethService struct {
	chainID   int64
	accounts  []common.Address
	reject    bool
	onRequest func()
	sent      []sendTxArgs
	raw       []hexutil.Bytes
}

func (e *ethService) ChainId() *hexutil.Big { return (*hexutil.Big)(big.NewInt(e.chainID)) }

func (e *ethService) RequestAccounts() ([]common.Address, error) {
	if e.onRequest != nil {
		e.onRequest()
	}
	if e.reject {
		return nil, rejectedError{}
	}
	return e.accounts, nil
}

func (e *ethService) Accounts() []common.Address { return e.accounts }

func (e *ethService) SendTransaction(args sendTxArgs) (common.Hash, error) {
	e.sent = append(e.sent, args)
	return common.HexToHash("0x1234"), nil
}

func (e *ethService) GetTransactionCount(addr common.Address, block *string) hexutil.Uint64 {
	return 3
}

func (e *ethService) GasPrice() *hexutil.Big { return (*hexutil.Big)(big.NewInt(1_000_000_000)) }

func (e *ethService) EstimateGas(args map[string]interface{}, block *string) hexutil.Uint64 {
	return 21000
}

func (e *ethService) SendRawTransaction(data hexutil.Bytes) (common.Hash, error) {
	e.raw = append(e.raw, data)
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(data); err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// legacyService is a node without eth_requestAccounts
type legacyService struct {
	accounts []common.Address
}

func (l *legacyService) ChainId() *hexutil.Big      { return (*hexutil.Big)(big.NewInt(31337)) }
func (l *legacyService) Accounts() []common.Address { return l.accounts }

func inProcServer(t *testing.T, svc interface{}) *gethrpc.Server {
	t.Helper()
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", svc); err != nil {
		t.Fatalf("register service: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func nodeBridgeFor(srv *gethrpc.Server, chainID *big.Int) *NodeBridge {
	b := NewNodeBridge("inproc", chainID)
	b.dial = func(ctx context.Context, url string) (*gethrpc.Client, error) {
		return gethrpc.DialInProc(srv), nil
	}
	return b
}

func TestNodeBridgeConnectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := &ethService{chainID: 31337, accounts: []common.Address{testAccount}, onRequest: cancel}
	b := nodeBridgeFor(inProcServer(t, svc), nil)

	if _, err := Connect(ctx, b); err == nil {
		t.Fatal("Expected an error when the attempt is cancelled mid-handshake")
	}
	if _, err := b.Accounts(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Cancelled handshake must not leave a connection behind, got %v", err)
	}
}

func TestNodeBridgeConnect(t *testing.T) {
	svc := &ethService{chainID: 31337, accounts: []common.Address{testAccount}}
	b := nodeBridgeFor(inProcServer(t, svc), big.NewInt(31337))

	addr, err := Connect(context.Background(), b)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if addr != testAccount.Hex() {
		t.Errorf("Expected %s, got %s", testAccount.Hex(), addr)
	}

	accounts, err := b.Accounts(context.Background())
	if err != nil || len(accounts) != 1 {
		t.Fatalf("Accounts: %v %v", accounts, err)
	}

	to := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	hash, err := b.SendTransaction(context.Background(), rpc.TxRequest{To: &to, Value: big.NewInt(5)})
	if err != nil {
		t.Fatalf("SendTransaction failed: %v", err)
	}
	if hash != common.HexToHash("0x1234") {
		t.Errorf("Unexpected hash %s", hash.Hex())
	}
	if len(svc.sent) != 1 || svc.sent[0].From != testAccount {
		t.Errorf("Expected transaction from the connected account, got %+v", svc.sent)
	}

	if err := b.Disconnect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Accounts(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected after disconnect, got %v", err)
	}
}

func TestNodeBridgeErrors(t *testing.T) {
	tests := []struct {
		name    string
		svc     *ethService
		chainID *big.Int
		wantErr error
	}{
		{"rejected", &ethService{chainID: 31337, reject: true}, big.NewInt(31337), ErrConnectionRejected},
		{"wrong network", &ethService{chainID: 1, accounts: []common.Address{testAccount}}, big.NewInt(31337), ErrNetworkMismatch},
		{"no accounts", &ethService{chainID: 31337}, nil, ErrNoAccounts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := nodeBridgeFor(inProcServer(t, tt.svc), tt.chainID)
			_, err := b.Connect(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		b := NewNodeBridge("inproc", nil)
		b.dial = func(ctx context.Context, url string) (*gethrpc.Client, error) {
			return nil, errors.New("connection refused")
		}
		if _, err := b.Connect(context.Background()); !errors.Is(err, ErrBridgeUnavailable) {
			t.Fatalf("Expected ErrBridgeUnavailable, got %v", err)
		}
	})
}

func TestNodeBridgeFallsBackToAccounts(t *testing.T) {
	svc := &legacyService{accounts: []common.Address{testAccount}}
	b := nodeBridgeFor(inProcServer(t, svc), big.NewInt(31337))

	accounts, err := b.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != testAccount {
		t.Errorf("Unexpected accounts %v", accounts)
	}
}

func keyBridgeFor(srv *gethrpc.Server, env map[string]string) *KeyBridge {
	b := NewKeyBridge("inproc", big.NewInt(31337), "")
	b.dial = func(ctx context.Context, url string) (*ethclient.Client, error) {
		return ethclient.NewClient(gethrpc.DialInProc(srv)), nil
	}
	b.getenv = func(k string) string { return env[k] }
	return b
}

func TestKeyBridge(t *testing.T) {
	svc := &ethService{chainID: 31337}
	srv := inProcServer(t, svc)

	t.Run("missing key", func(t *testing.T) {
		b := keyBridgeFor(srv, nil)
		if _, err := b.Connect(context.Background()); !errors.Is(err, ErrBridgeUnavailable) {
			t.Fatalf("Expected ErrBridgeUnavailable, got %v", err)
		}
	})

	t.Run("connect and send", func(t *testing.T) {
		b := keyBridgeFor(srv, map[string]string{DefaultKeyEnv: "0x" + testKeyHex})

		accounts, err := b.Connect(context.Background())
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		if accounts[0] != testAccount {
			t.Fatalf("Expected %s, got %s", testAccount.Hex(), accounts[0].Hex())
		}

		to := common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
		hash, err := b.SendTransaction(context.Background(), rpc.TxRequest{To: &to, Value: big.NewInt(1)})
		if err != nil {
			t.Fatalf("SendTransaction failed: %v", err)
		}
		if len(svc.raw) != 1 {
			t.Fatalf("Expected 1 raw transaction, got %d", len(svc.raw))
		}

		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(svc.raw[0]); err != nil {
			t.Fatal(err)
		}
		if tx.Hash() != hash || tx.Nonce() != 3 {
			t.Errorf("Unexpected tx: hash=%s nonce=%d", tx.Hash().Hex(), tx.Nonce())
		}
		sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(31337)), tx)
		if err != nil || sender != testAccount {
			t.Errorf("Expected signer %s, got %s (%v)", testAccount.Hex(), sender.Hex(), err)
		}

		_ = b.Disconnect(context.Background())
		if _, err := b.SendTransaction(context.Background(), rpc.TxRequest{To: &to}); !errors.Is(err, ErrNotConnected) {
			t.Errorf("Expected ErrNotConnected, got %v", err)
		}
	})

	t.Run("wrong network", func(t *testing.T) {
		b := keyBridgeFor(inProcServer(t, &ethService{chainID: 5}), map[string]string{DefaultKeyEnv: testKeyHex})
		if _, err := b.Connect(context.Background()); !errors.Is(err, ErrNetworkMismatch) {
			t.Fatalf("Expected ErrNetworkMismatch, got %v", err)
		}
	})
}

func TestParsePrivateKey(t *testing.T) {
	key, err := ParsePrivateKey(" 0x" + testKeyHex + "\n")
	if err != nil {
		t.Fatalf("ParsePrivateKey failed: %v", err)
	}
	if crypto.PubkeyToAddress(key.PublicKey) != testAccount {
		t.Error("Parsed key does not match the expected account")
	}

	for _, bad := range []string{"", "0x", "zz"} {
		if _, err := ParsePrivateKey(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestNewBridge(t *testing.T) {
	if b, err := NewBridge("", "http://localhost:8545", nil, ""); err != nil {
		t.Fatal(err)
	} else if _, ok := b.(*NodeBridge); !ok {
		t.Errorf("Default bridge should be NodeBridge, got %T", b)
	}

	b, err := NewBridge(BridgeKey, "http://localhost:8545", nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if kb, ok := b.(*KeyBridge); !ok || kb.KeyEnv != DefaultKeyEnv {
		t.Errorf("Expected KeyBridge with default env, got %#v", b)
	}

	if _, err := NewBridge("walletconnect", "", nil, ""); err == nil {
		t.Error("Expected error for unknown bridge kind")
	}

	if _, err := Connect(context.Background(), nil); !errors.Is(err, ErrBridgeUnavailable) {
		t.Errorf("Expected ErrBridgeUnavailable for nil bridge, got %v", err)
	}
}

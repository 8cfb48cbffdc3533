package main

import (
	"errors"
	"math/big"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// anvil/hardhat default account 0
const (
	testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testKeyEnv = "DEPLOY_TEST_KEY"
	testNonce  = 7
)

var deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// nodeService answers the calls the deployer makes against a dev node
type nodeService struct {
	mu   sync.Mutex
	sent []common.Hash
}

func (n *nodeService) ChainId() *hexutil.Big { return (*hexutil.Big)(big.NewInt(31337)) }

func (n *nodeService) GetBalance(addr common.Address, block string) *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func (n *nodeService) GetTransactionCount(addr common.Address, block string) hexutil.Uint64 {
	return testNonce
}

func (n *nodeService) GasPrice() *hexutil.Big { return (*hexutil.Big)(big.NewInt(1_000_000_000)) }

func (n *nodeService) EstimateGas(args map[string]interface{}, block *string) hexutil.Uint64 {
	return 200_000
}

func (n *nodeService) SendRawTransaction(data hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(data); err != nil {
		return common.Hash{}, err
	}
	n.mu.Lock()
	n.sent = append(n.sent, tx.Hash())
	n.mu.Unlock()
	return tx.Hash(), nil
}

func (n *nodeService) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, h := range n.sent {
		if h == hash {
			return &types.Receipt{
				Status:      types.ReceiptStatusSuccessful,
				TxHash:      hash,
				GasUsed:     150_000,
				BlockNumber: big.NewInt(12),
				Logs:        []*types.Log{},
			}, nil
		}
	}
	return nil, nil
}

func (n *nodeService) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func startNode(t *testing.T) (*nodeService, string) {
	t.Helper()
	svc := &nodeService{}
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", svc); err != nil {
		t.Fatal(err)
	}
	hs := httptest.NewServer(srv)
	t.Cleanup(func() {
		hs.Close()
		srv.Stop()
	})
	return svc, hs.URL
}

// writeConfig stores a config pointing at url and a stub artifact
func writeConfig(t *testing.T, url string, chainID int64) string {
	t.Helper()
	dir := t.TempDir()

	artifact := filepath.Join(dir, "InvoiceContract.json")
	art := `{"abi":[{"type":"constructor","inputs":[]}],"bytecode":"0x6001600c60003960016000f300"}`
	if err := os.WriteFile(artifact, []byte(art), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.RPCURLs = []config.RPCUrl{{Name: "dev", URL: url, Active: true}}
	cfg.ChainID = chainID
	cfg.KeyEnv = testKeyEnv
	cfg.ArtifactPath = artifact
	cfg.StorePath = filepath.Join(dir, "store.json")

	path := filepath.Join(dir, "config.json")
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) error {
	cmd := rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestDeploySavesAddress(t *testing.T) {
	t.Setenv(testKeyEnv, testKeyHex)
	svc, url := startNode(t)
	path := writeConfig(t, url, 31337)

	// artifact and RPC come from the config
	if err := execute("--config", path, "--save", "--timeout", "10s"); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if svc.sentCount() != 1 {
		t.Fatalf("Expected 1 creation transaction, got %d", svc.sentCount())
	}

	want := crypto.CreateAddress(deployerAddr, testNonce)
	if got := config.Load(path).ContractAddress; got != want.Hex() {
		t.Errorf("Expected contract_address %s in the config, got %q", want.Hex(), got)
	}
}

func TestDeployWithoutSave(t *testing.T) {
	t.Setenv(testKeyEnv, testKeyHex)
	svc, url := startNode(t)
	path := writeConfig(t, url, 0)

	if err := execute("--config", path, "--timeout", "10s"); err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if svc.sentCount() != 1 {
		t.Fatalf("Expected 1 creation transaction, got %d", svc.sentCount())
	}
	if got := config.Load(path).ContractAddress; got != "" {
		t.Errorf("Config must not change without --save, got %q", got)
	}
}

func TestDeployChainMismatch(t *testing.T) {
	t.Setenv(testKeyEnv, testKeyHex)
	svc, url := startNode(t)
	path := writeConfig(t, url, 1)

	err := execute("--config", path, "--save", "--timeout", "10s")
	if !errors.Is(err, wallet.ErrNetworkMismatch) {
		t.Fatalf("Expected ErrNetworkMismatch, got %v", err)
	}
	if svc.sentCount() != 0 {
		t.Error("Nothing may be sent to the wrong network")
	}
	if got := config.Load(path).ContractAddress; got != "" {
		t.Errorf("Config must not change on failure, got %q", got)
	}
}

func TestDeployFlagErrors(t *testing.T) {
	_, url := startNode(t)
	path := writeConfig(t, url, 31337)

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(testKeyEnv, "")
		if err := execute("--config", path, "--timeout", "10s"); err == nil {
			t.Fatal("Expected an error without a private key")
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		t.Setenv(testKeyEnv, testKeyHex)
		missing := filepath.Join(t.TempDir(), "nope.json")
		if err := execute("--config", path, "--artifact", missing, "--timeout", "10s"); err == nil {
			t.Fatal("Expected an error for a missing artifact")
		}
	})
}

package rpc

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func TestConnect(t *testing.T) {
	// Get RPC URL from environment
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL)

		if result.Error != nil {
			t.Fatalf("Failed to connect to RPC: %v", result.Error)
		}

		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}

		if result.Client.URL != rpcURL {
			t.Errorf("Expected URL %s, got %s", rpcURL, result.Client.URL)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		chainID, err := result.Client.ChainID(ctx)
		if err != nil {
			t.Errorf("Failed to get chain ID: %v", err)
		} else {
			t.Logf("Connected to chain ID: %s", chainID.String())
		}
	})

	t.Run("connection with timeout", func(t *testing.T) {
		result := ConnectWithTimeout(rpcURL, 10*time.Second)

		if result.Error != nil {
			t.Fatalf("Failed to connect with custom timeout: %v", result.Error)
		}

		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}
	})
}

func TestLoadAccountDetails(t *testing.T) {
	testAddr := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	t.Run("nil client", func(t *testing.T) {
		details := LoadAccountDetails(nil, testAddr)

		if details.ErrMessage == "" {
			t.Error("Expected error message for nil client")
		}

		if !strings.Contains(details.ErrMessage, "No RPC client") {
			t.Errorf("Expected 'No RPC client' error, got: %s", details.ErrMessage)
		}

		if details.EthWei == nil || details.EthWei.Sign() != 0 {
			t.Errorf("Expected zero balance, got %v", details.EthWei)
		}
	})

	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping account details test")
	}

	connResult := Connect(rpcURL)
	if connResult.Error != nil {
		t.Fatalf("Failed to connect: %v", connResult.Error)
	}

	t.Run("load account details", func(t *testing.T) {
		details := LoadAccountDetails(connResult.Client, testAddr)

		if details.ErrMessage != "" {
			t.Logf("Got error message (may be due to rate limiting): %s", details.ErrMessage)
		}

		if details.Address != testAddr.Hex() {
			t.Errorf("Expected address %s, got %s", testAddr.Hex(), details.Address)
		}

		if details.LoadedAt.IsZero() {
			t.Error("LoadedAt timestamp is zero")
		}

		t.Logf("Balance (wei): %s, chain: %v, block: %d", details.EthWei, details.ChainID, details.BlockNumber)
	})
}

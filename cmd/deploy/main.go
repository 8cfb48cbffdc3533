package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/contract"
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	artifactPath string
	rpcURL       string
	keyEnv       string
	gasLimit     uint64
	timeout      time.Duration
	save         bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deploy",
		Short:         "Deploy the InvoiceContract and print its address",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "deploy"})
			if err := run(cmd.Context(), logger); err != nil {
				logger.Error("deployment failed", "err", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $INVOICE_WALLET_CONFIG or ~/.invoice-wallet-config.json)")
	cmd.Flags().StringVar(&artifactPath, "artifact", "", "compiled contract artifact (default from config)")
	cmd.Flags().StringVar(&rpcURL, "rpc", "", "RPC endpoint (default: active endpoint from config)")
	cmd.Flags().StringVar(&keyEnv, "key-env", "", "environment variable holding the deployer key")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 3_000_000, "gas limit used when estimation fails (0 disables)")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall deadline")
	cmd.Flags().BoolVar(&save, "save", false, "write the deployed address into the config file")
	return cmd
}

func run(ctx context.Context, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if configPath == "" {
		configPath = config.ResolvePath()
	}
	cfg := config.LoadOrCreate(configPath)

	if artifactPath == "" {
		artifactPath = cfg.ArtifactPath
	}
	if artifactPath == "" {
		return errors.New("no artifact given (--artifact)")
	}
	if rpcURL == "" {
		rpcURL = cfg.ActiveRPC()
	}
	if rpcURL == "" {
		return errors.New("no RPC endpoint configured (--rpc)")
	}
	if keyEnv == "" {
		keyEnv = cfg.KeyEnv
	}

	art, err := contract.LoadArtifact(artifactPath)
	if err != nil {
		return err
	}
	key, err := wallet.ParsePrivateKey(os.Getenv(keyEnv))
	if err != nil {
		return fmt.Errorf("%s: %w", keyEnv, err)
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("chain id: %w", err)
	}
	if want := cfg.ChainIDBig(); want != nil && want.Cmp(chainID) != 0 {
		return fmt.Errorf("%w: endpoint reports %s, config expects %s", wallet.ErrNetworkMismatch, chainID, want)
	}

	d := &contract.Deployer{
		Backend:  client,
		Key:      key,
		GasLimit: gasLimit,
		OnSent: func(tx *types.Transaction) {
			logger.Info("transaction sent", "hash", tx.Hash().Hex(), "gas", tx.Gas())
		},
	}

	balance, err := d.Balance(ctx)
	if err != nil {
		return err
	}
	logger.Info("deployer", "address", d.Account().Hex(), "chain", chainID, "balance", helpers.FormatETH(balance))
	fmt.Printf("Deployer: %s\nBalance:  %s\n", d.Account().Hex(), helpers.FormatETH(balance))

	dep, err := d.Deploy(ctx, art)
	if err != nil {
		return err
	}
	logger.Info("deployed", "address", dep.Address.Hex(), "block", dep.BlockNumber, "gas_used", dep.GasUsed)
	fmt.Printf("InvoiceContract: %s\n", dep.Address.Hex())

	if !save {
		fmt.Printf("Set contract_address to %s in %s to use it.\n", dep.Address.Hex(), configPath)
		return nil
	}
	cfg.ContractAddress = dep.Address.Hex()
	if strings.TrimSpace(cfg.ArtifactPath) == "" {
		cfg.ArtifactPath = artifactPath
	}
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	logger.Info("config updated", "path", configPath)
	return nil
}

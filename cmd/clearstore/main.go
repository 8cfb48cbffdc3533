package main

import (
	"fmt"
	"os"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	storePath string
	all       bool
	dryRun    bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clearstore",
		Short:         "Remove invoice wallet data from the local store",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "clearstore"})
			if err := run(logger); err != nil {
				logger.Error("clear failed", "err", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "store file (default: store_path from the config)")
	cmd.Flags().BoolVar(&all, "all", false, "remove every key, not only the wallet's own")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the keys without removing them")
	return cmd
}

func run(logger *log.Logger) error {
	if storePath == "" {
		storePath = config.Load(config.ResolvePath()).StorePath
	}

	s, err := store.Open(storePath)
	if err != nil {
		return err
	}

	if dryRun {
		keys := store.Matching(s, all)
		for _, k := range keys {
			fmt.Println(k)
		}
		logger.Info("dry run", "store", s.Path(), "keys", len(keys))
		return nil
	}

	removed, err := store.Reset(s, all)
	if err != nil {
		return err
	}
	for _, k := range removed {
		fmt.Println("removed", k)
	}
	logger.Info("store cleared", "store", s.Path(), "removed", len(removed), "all", all)
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rugfork/internal/blockchain"
	"rugfork/internal/config"
	"rugfork/internal/rugscore"
)

// runScore scores a mint straight from the chain, without the database.
func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	mint := args[0]
	if _, err := blockchain.ValidateAddress(mint); err != nil {
		return err
	}

	liquidity, _ := cmd.Flags().GetInt64("liquidity")
	volume, _ := cmd.Flags().GetInt64("volume")
	age, _ := cmd.Flags().GetDuration("age")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := blockchain.NewSolanaClient(cfg.Solana.Network, cfg.Solana.RPCURL, cfg.Solana.Timeout, cfg.Solana.SignatureLimit)
	res := rugscore.NewScorer(client).Score(ctx, mint, rugscore.PoolFacts{
		Liquidity:   liquidity,
		TotalVolume: volume,
		CreatedAt:   time.Now().UTC().Add(-age),
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rugscore.Assessment{Mint: mint, Result: res})
}

package main

import (
	"context"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/a3mc/lead-inspector/internal/adapters"
	"github.com/a3mc/lead-inspector/internal/application/domain"
	"github.com/a3mc/lead-inspector/internal/application/services"
	"github.com/a3mc/lead-inspector/internal/config"
	"github.com/a3mc/lead-inspector/internal/logger"
)

func main() {
	// Pick up a .env from the CWD if present; otherwise use the environment as-is.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	app := &cli.App{
		Name:  "lead-inspector",
		Usage: "check which of a validator's assigned leader slots were actually produced",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "validator",
				Aliases:  []string{"v"},
				Usage:    "validator identity public key",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:    "epoch",
				Aliases: []string{"e"},
				Usage:   "epoch to check the leader schedule for (default: current epoch)",
			},
			&cli.StringFlag{
				Name:  "rpc-url",
				Usage: "chain RPC endpoint (overrides RPC_URL)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	identity := c.String("validator")
	// Validate before any network call is made.
	if _, err := solana.PublicKeyFromBase58(identity); err != nil {
		return errors.Errorf("invalid validator pubkey: %s", identity)
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if url := c.String("rpc-url"); url != "" {
		cfg.RPCURL = url
	}

	var requestedEpoch *domain.Epoch
	if c.IsSet("epoch") {
		epoch := domain.Epoch(c.Uint64("epoch"))
		requestedEpoch = &epoch
	}

	logger.Debug("RPC endpoint: %s", cfg.RPCURL)

	inspector := services.NewInspector(
		adapters.NewSolanaRPCAdapter(cfg.RPCURL),
		adapters.NewEnrichmentHTTPAdapter(cfg.SkipBlameURL, cfg.LeaderboardURL, cfg.HTTPTimeout),
		adapters.NewConsoleReporter(),
	)
	inspector.NonProducedDelay = cfg.NonProducedDelay
	inspector.SlotDuration = cfg.SlotDuration

	_, err = inspector.Run(context.Background(), identity, requestedEpoch)
	return err
}

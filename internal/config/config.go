package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default endpoints match the public mainnet services the tool was written
// against; all of them can be overridden from the environment.
const (
	DefaultRPCURL         = "https://api.mainnet-beta.solana.com"
	DefaultSkipBlameURL   = "https://api.trillium.so/skip_blame/"
	DefaultLeaderboardURL = "https://api.vx.tools/epochs/leaderboard/voting"
)

// Config holds runtime configuration for lead-inspector.
type Config struct {
	RPCURL         string
	SkipBlameURL   string
	LeaderboardURL string

	HTTPTimeout      time.Duration
	NonProducedDelay time.Duration
	SlotDuration     time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for everything that is unset.
func Load() (*Config, error) {
	cfg := &Config{
		RPCURL:         envOrDefault("RPC_URL", DefaultRPCURL),
		SkipBlameURL:   envOrDefault("SKIP_BLAME_URL", DefaultSkipBlameURL),
		LeaderboardURL: envOrDefault("LEADERBOARD_URL", DefaultLeaderboardURL),
	}

	timeoutSec, err := envInt("HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = time.Duration(timeoutSec) * time.Second

	delayMs, err := envInt("NON_PRODUCED_DELAY_MS", 20)
	if err != nil {
		return nil, err
	}
	cfg.NonProducedDelay = time.Duration(delayMs) * time.Millisecond

	slotMs, err := envInt("SLOT_DURATION_MS", 400)
	if err != nil {
		return nil, err
	}
	cfg.SlotDuration = time.Duration(slotMs) * time.Millisecond

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

package ports

import (
	"context"

	"github.com/a3mc/lead-inspector/internal/application/domain"
)

// EnrichmentProvider is the port for the third-party context lookups made
// about a neighboring leader. Both calls hit external services; neither
// result is cached, so a repeated identity triggers a repeated lookup.
type EnrichmentProvider interface {
	// OnSkipBlameList reports whether identity is on the curated list of
	// chronic block-skippers. Matching is case-sensitive exact equality.
	// Transport and parse failures are fatal for the run; a structurally
	// missing list is degraded to "not on list".
	OnSkipBlameList(ctx context.Context, identity string) (bool, error)

	// LatencyRank looks identity up on the voting latency leaderboard.
	// It returns (nil, nil) when no record matches or required fields are
	// missing; only transport and parse failures are errors.
	LatencyRank(ctx context.Context, identity string) (*domain.LatencyStats, error)
}

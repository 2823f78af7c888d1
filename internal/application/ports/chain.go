package ports

import (
	"context"

	"github.com/a3mc/lead-inspector/internal/application/domain"
)

// ChainReader is the hexagonal port for read-only chain access. The
// inspector depends only on this interface, not on any concrete RPC client.
type ChainReader interface {
	// EpochInfo returns the chain's current epoch position.
	EpochInfo(ctx context.Context) (domain.EpochInfo, error)

	// CurrentSlot returns the latest absolute slot, used to bound
	// future-slot skipping.
	CurrentSlot(ctx context.Context) (domain.Slot, error)

	// LeaderSchedule returns the per-identity relative slot assignments for
	// the epoch containing firstSlot. An absent schedule is an error.
	LeaderSchedule(ctx context.Context, firstSlot domain.Slot) (domain.LeaderSchedule, error)

	// BlockExists reports whether a ledger block was produced at slot.
	BlockExists(ctx context.Context, slot domain.Slot) (bool, error)

	// SlotLeader resolves the identity attributed to a produced slot.
	// An empty string means no leader data was available.
	SlotLeader(ctx context.Context, slot domain.Slot) (string, error)
}

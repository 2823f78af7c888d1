package domain

import "time"

// Basic chain types
type Epoch uint64
type Slot uint64

// EpochInfo is a snapshot of the chain's position within its current epoch.
type EpochInfo struct {
	Epoch        Epoch
	AbsoluteSlot Slot // current absolute slot
	SlotIndex    Slot // offset of AbsoluteSlot within the epoch
	SlotsInEpoch uint64
}

// LeaderSchedule maps a validator identity to its relative slot indices
// within one epoch. Each relative index appears under exactly one identity.
type LeaderSchedule map[string][]uint64

// SlotBlock is a contiguous run of the target validator's absolute slots,
// at most MaxBlockSlots long.
type SlotBlock []Slot

// MaxBlockSlots caps how many consecutive slots are reported as one block.
const MaxBlockSlots = 4

func (b SlotBlock) First() Slot { return b[0] }
func (b SlotBlock) Last() Slot  { return b[len(b)-1] }

// ProductionStatus classifies one checked slot. Exactly one state holds.
type ProductionStatus int

const (
	// ProducedByTarget means the target validator produced the block.
	ProducedByTarget ProductionStatus = iota
	// ProducedByOther means a block exists but is attributed to someone else.
	ProducedByOther
	// NotProduced means no block exists at the slot (skipped or no leader data).
	NotProduced
)

// ProductionRecord is the outcome of checking one absolute slot.
// Producer is set only for ProducedByOther.
type ProductionRecord struct {
	Slot     Slot
	Status   ProductionStatus
	Producer string
}

// NeighborLeader is the identity scheduled at the slot immediately before or
// after a block. Known is false at epoch boundaries or unscheduled slots.
type NeighborLeader struct {
	Slot     Slot
	Identity string
	Known    bool
}

// LatencyStats is the optional enrichment detail for a skip-blame-listed
// neighbor: average vote latency and leaderboard rank.
type LatencyStats struct {
	AverageLatency float64
	Rank           int
}

// SkipBlameRecord is the enrichment result for one neighbor identity.
// Latency is nil when the identity is not on the list or no leaderboard
// record matched it.
type SkipBlameRecord struct {
	OnList  bool
	Latency *LatencyStats
}

// BlockFinding is one reported gap block: a block with at least one slot not
// produced by the target, with neighbor and enrichment context attached.
type BlockFinding struct {
	Block         SlotBlock
	EstimatedTime time.Time
	Previous      NeighborLeader
	Next          NeighborLeader
	PreviousBlame *SkipBlameRecord // nil when the previous leader is unknown
	NonProduced   []ProductionRecord
	Target        string
}

// Summary is the terminal outcome of one inspection run.
type Summary struct {
	Epoch         Epoch
	Scheduled     bool
	AssignedSlots int
	CheckedSlots  int
	NonProduced   int
	GapBlocks     int
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/a3mc/lead-inspector/internal/application/domain"
)

// fakeChain is an in-memory ChainReader.
type fakeChain struct {
	info     domain.EpochInfo
	slot     domain.Slot
	schedule domain.LeaderSchedule
	produced map[domain.Slot]bool
	leaders  map[domain.Slot]string

	blockExistsCalls int
	slotLeaderCalls  int
	blockExistsErr   error
}

func (f *fakeChain) EpochInfo(ctx context.Context) (domain.EpochInfo, error) {
	return f.info, nil
}

func (f *fakeChain) CurrentSlot(ctx context.Context) (domain.Slot, error) {
	return f.slot, nil
}

func (f *fakeChain) LeaderSchedule(ctx context.Context, firstSlot domain.Slot) (domain.LeaderSchedule, error) {
	return f.schedule, nil
}

func (f *fakeChain) BlockExists(ctx context.Context, slot domain.Slot) (bool, error) {
	f.blockExistsCalls++
	if f.blockExistsErr != nil {
		return false, f.blockExistsErr
	}
	return f.produced[slot], nil
}

func (f *fakeChain) SlotLeader(ctx context.Context, slot domain.Slot) (string, error) {
	f.slotLeaderCalls++
	return f.leaders[slot], nil
}

// fakeEnrichment is an in-memory EnrichmentProvider.
type fakeEnrichment struct {
	blameList map[string]bool
	stats     map[string]*domain.LatencyStats

	blameCalls   int
	latencyCalls int
	blameErr     error
}

func (f *fakeEnrichment) OnSkipBlameList(ctx context.Context, identity string) (bool, error) {
	f.blameCalls++
	if f.blameErr != nil {
		return false, f.blameErr
	}
	return f.blameList[identity], nil
}

func (f *fakeEnrichment) LatencyRank(ctx context.Context, identity string) (*domain.LatencyStats, error) {
	f.latencyCalls++
	return f.stats[identity], nil
}

// recordingReporter captures everything the inspector emits.
type recordingReporter struct {
	notScheduled bool
	scheduledN   int
	total        int
	ticks        int
	findings     []domain.BlockFinding
	done         bool
}

func (r *recordingReporter) EpochChoice(epoch domain.Epoch, current bool) {}
func (r *recordingReporter) SlotDuration(d time.Duration)                 {}

func (r *recordingReporter) NotScheduled(identity string, epoch domain.Epoch) {
	r.notScheduled = true
}

func (r *recordingReporter) Scheduled(identity string, n int, e domain.Epoch) {
	r.scheduledN = n
}

func (r *recordingReporter) Begin(total int) { r.total = total }
func (r *recordingReporter) SlotChecked()    { r.ticks++ }

func (r *recordingReporter) Block(f domain.BlockFinding) {
	r.findings = append(r.findings, f)
}

func (r *recordingReporter) Done() { r.done = true }

func newTestInspector(chain *fakeChain, enrich *fakeEnrichment, rep *recordingReporter) *Inspector {
	ins := NewInspector(chain, enrich, rep)
	ins.NonProducedDelay = 0
	ins.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return ins
}

// Epoch 5 starts at absolute slot 1000 in all fixtures below.
func testEpochInfo() domain.EpochInfo {
	return domain.EpochInfo{Epoch: 5, AbsoluteSlot: 1010, SlotIndex: 10, SlotsInEpoch: 432_000}
}

func TestRunAllSlotsProducedByTarget(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     1500,
		schedule: domain.LeaderSchedule{"V1": {0, 1, 2}, "V2": {3}},
		produced: map[domain.Slot]bool{1000: true, 1001: true, 1002: true},
		leaders:  map[domain.Slot]string{1000: "V1", 1001: "V1", 1002: "V1"},
	}
	enrich := &fakeEnrichment{}
	rep := &recordingReporter{}

	summary, err := newTestInspector(chain, enrich, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.True(t, summary.Scheduled)
	require.Equal(t, 3, summary.AssignedSlots)
	require.Equal(t, 3, summary.CheckedSlots)
	require.Zero(t, summary.NonProduced)
	require.Zero(t, summary.GapBlocks)
	require.Empty(t, rep.findings)
	require.Equal(t, 3, rep.ticks)
	require.True(t, rep.done)
	require.Zero(t, enrich.blameCalls)
}

func TestRunValidatorNotScheduled(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     1500,
		schedule: domain.LeaderSchedule{"V2": {0}},
	}
	rep := &recordingReporter{}

	summary, err := newTestInspector(chain, &fakeEnrichment{}, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.False(t, summary.Scheduled)
	require.True(t, rep.notScheduled)
	// Nothing past schedule retrieval happens.
	require.Zero(t, chain.blockExistsCalls)
	require.False(t, rep.done)
}

func TestRunFutureSlotsNeverChecked(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     1001,
		schedule: domain.LeaderSchedule{"V1": {0, 1, 2, 3}},
		produced: map[domain.Slot]bool{1000: true, 1001: true},
		leaders:  map[domain.Slot]string{1000: "V1", 1001: "V1"},
	}
	rep := &recordingReporter{}

	summary, err := newTestInspector(chain, &fakeEnrichment{}, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.Equal(t, 2, summary.CheckedSlots)
	require.Equal(t, 2, chain.blockExistsCalls)
	// The bar total still counts all four slots, but only two ever tick.
	require.Equal(t, 4, rep.total)
	require.Equal(t, 2, rep.ticks)
	require.Empty(t, rep.findings)
}

func TestRunClassifiesGapBlockWithEnrichment(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     2000,
		schedule: domain.LeaderSchedule{"V0": {0}, "V1": {1, 2, 3}, "V2": {4}},
		// Slot 1001 skipped, 1002 produced by an intruder, 1003 produced by us.
		produced: map[domain.Slot]bool{1002: true, 1003: true},
		leaders:  map[domain.Slot]string{1002: "VX", 1003: "V1"},
	}
	enrich := &fakeEnrichment{
		blameList: map[string]bool{"V0": true},
		stats:     map[string]*domain.LatencyStats{"V0": {AverageLatency: 10.0, Rank: 2}},
	}
	rep := &recordingReporter{}

	summary, err := newTestInspector(chain, enrich, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.Equal(t, 2, summary.NonProduced)
	require.Equal(t, 1, summary.GapBlocks)
	require.Len(t, rep.findings, 1)

	f := rep.findings[0]
	require.Equal(t, domain.SlotBlock{1001, 1002, 1003}, f.Block)
	require.Equal(t, []domain.ProductionRecord{
		{Slot: 1001, Status: domain.NotProduced},
		{Slot: 1002, Status: domain.ProducedByOther, Producer: "VX"},
	}, f.NonProduced)

	require.True(t, f.Previous.Known)
	require.Equal(t, "V0", f.Previous.Identity)
	require.Equal(t, domain.Slot(1000), f.Previous.Slot)
	require.True(t, f.Next.Known)
	require.Equal(t, "V2", f.Next.Identity)

	require.NotNil(t, f.PreviousBlame)
	require.True(t, f.PreviousBlame.OnList)
	require.Equal(t, 10.0, f.PreviousBlame.Latency.AverageLatency)
	require.Equal(t, 2, f.PreviousBlame.Latency.Rank)
	require.Equal(t, 1, enrich.blameCalls)
	require.Equal(t, 1, enrich.latencyCalls)

	// now + (1001 - 2000) slots at 400ms each.
	expected := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(-999 * 400 * time.Millisecond)
	require.Equal(t, expected, f.EstimatedTime)
}

func TestRunNoEnrichmentWhenPreviousUnknown(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     2000,
		schedule: domain.LeaderSchedule{"V1": {0}},
		// Slot 1000 skipped; slot 999 has no scheduled leader.
	}
	enrich := &fakeEnrichment{blameList: map[string]bool{"V1": true}}
	rep := &recordingReporter{}

	_, err := newTestInspector(chain, enrich, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.Len(t, rep.findings, 1)
	require.False(t, rep.findings[0].Previous.Known)
	require.Nil(t, rep.findings[0].PreviousBlame)
	require.Zero(t, enrich.blameCalls)
}

func TestRunNotOnBlameListSkipsLatencyLookup(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     2000,
		schedule: domain.LeaderSchedule{"V0": {0}, "V1": {1}},
	}
	enrich := &fakeEnrichment{}
	rep := &recordingReporter{}

	_, err := newTestInspector(chain, enrich, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.Len(t, rep.findings, 1)
	require.NotNil(t, rep.findings[0].PreviousBlame)
	require.False(t, rep.findings[0].PreviousBlame.OnList)
	require.Equal(t, 1, enrich.blameCalls)
	require.Zero(t, enrich.latencyCalls)
}

func TestRunBlocksReportedInAscendingOrder(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     2000,
		schedule: domain.LeaderSchedule{"V1": {0, 50, 100}},
	}
	rep := &recordingReporter{}

	_, err := newTestInspector(chain, &fakeEnrichment{}, rep).Run(context.Background(), "V1", nil)
	require.NoError(t, err)

	require.Len(t, rep.findings, 3)
	require.Equal(t, domain.Slot(1000), rep.findings[0].Block.First())
	require.Equal(t, domain.Slot(1050), rep.findings[1].Block.First())
	require.Equal(t, domain.Slot(1100), rep.findings[2].Block.First())
}

func TestRunRequestedPastEpoch(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     1500,
		schedule: domain.LeaderSchedule{"V1": {0}},
		produced: map[domain.Slot]bool{},
	}
	rep := &recordingReporter{}
	epoch := domain.Epoch(4)

	summary, err := newTestInspector(chain, &fakeEnrichment{}, rep).Run(context.Background(), "V1", &epoch)
	require.NoError(t, err)
	require.Equal(t, domain.Epoch(4), summary.Epoch)
}

func TestRunAbortsOnChainError(t *testing.T) {
	chain := &fakeChain{
		info:           testEpochInfo(),
		slot:           2000,
		schedule:       domain.LeaderSchedule{"V1": {0}},
		blockExistsErr: errors.New("rpc down"),
	}
	rep := &recordingReporter{}

	_, err := newTestInspector(chain, &fakeEnrichment{}, rep).Run(context.Background(), "V1", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rpc down")
	require.False(t, rep.done)
}

func TestRunAbortsOnEnrichmentError(t *testing.T) {
	chain := &fakeChain{
		info:     testEpochInfo(),
		slot:     2000,
		schedule: domain.LeaderSchedule{"V0": {0}, "V1": {1}},
	}
	enrich := &fakeEnrichment{blameErr: errors.New("blame service down")}
	rep := &recordingReporter{}

	_, err := newTestInspector(chain, enrich, rep).Run(context.Background(), "V1", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "blame service down")
	require.Empty(t, rep.findings)
}

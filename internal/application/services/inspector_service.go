package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/a3mc/lead-inspector/internal/application/domain"
	"github.com/a3mc/lead-inspector/internal/application/ports"
	"github.com/a3mc/lead-inspector/internal/logger"
)

// DefaultSlotDuration is the assumed average slot duration used for
// wall-clock estimates.
const DefaultSlotDuration = 400 * time.Millisecond

// DefaultNonProducedDelay is the self-imposed pause after classifying a slot
// as non-produced, to go easy on the upstream RPC service.
const DefaultNonProducedDelay = 20 * time.Millisecond

// Inspector reconciles one validator's leader schedule against actual block
// production for one epoch. All external access goes through the injected
// ports, one request at a time, strictly in ascending slot order.
type Inspector struct {
	Chain      ports.ChainReader
	Enrichment ports.EnrichmentProvider
	Reporter   ports.Reporter

	SlotDuration     time.Duration
	NonProducedDelay time.Duration
	Now              func() time.Time
}

// NewInspector constructs an Inspector with dependencies injected and
// default timing parameters.
func NewInspector(chain ports.ChainReader, enrichment ports.EnrichmentProvider, reporter ports.Reporter) *Inspector {
	return &Inspector{
		Chain:            chain,
		Enrichment:       enrichment,
		Reporter:         reporter,
		SlotDuration:     DefaultSlotDuration,
		NonProducedDelay: DefaultNonProducedDelay,
		Now:              time.Now,
	}
}

// Run inspects the given validator identity for requestedEpoch, or for the
// chain's current epoch when requestedEpoch is nil. Any network or parse
// failure aborts the run; a validator absent from the schedule is a valid
// terminal outcome, not an error.
func (ins *Inspector) Run(ctx context.Context, identity string, requestedEpoch *domain.Epoch) (domain.Summary, error) {
	info, err := ins.Chain.EpochInfo(ctx)
	if err != nil {
		return domain.Summary{}, errors.Wrap(err, "failed to get epoch info")
	}

	epoch := info.Epoch
	if requestedEpoch != nil {
		epoch = *requestedEpoch
	}
	ins.Reporter.EpochChoice(epoch, epoch == info.Epoch)

	currentSlot, err := ins.Chain.CurrentSlot(ctx)
	if err != nil {
		return domain.Summary{}, errors.Wrap(err, "failed to get current slot")
	}

	firstSlot := domain.EpochFirstSlot(info, epoch)
	schedule, err := ins.Chain.LeaderSchedule(ctx, firstSlot)
	if err != nil {
		return domain.Summary{}, errors.Wrapf(err, "failed to get leader schedule for epoch %d", epoch)
	}

	summary := domain.Summary{Epoch: epoch}

	targetSlots := domain.TargetSlots(schedule, firstSlot, identity)
	if len(targetSlots) == 0 {
		ins.Reporter.NotScheduled(identity, epoch)
		return summary, nil
	}
	summary.Scheduled = true
	summary.AssignedSlots = len(targetSlots)
	ins.Reporter.Scheduled(identity, len(targetSlots), epoch)

	index := domain.NewScheduleIndex(schedule, firstSlot)
	blocks := domain.GroupSlots(targetSlots)
	logger.Debug("grouped %d slots into %d blocks", len(targetSlots), len(blocks))

	startTime := ins.Now()
	ins.Reporter.SlotDuration(ins.SlotDuration)

	total := 0
	for _, block := range blocks {
		total += len(block)
	}
	ins.Reporter.Begin(total)

	for _, block := range blocks {
		nonProduced, checked, err := ins.checkBlock(ctx, block, currentSlot, identity)
		if err != nil {
			return summary, err
		}
		summary.CheckedSlots += checked
		summary.NonProduced += len(nonProduced)
		if len(nonProduced) == 0 {
			continue
		}
		summary.GapBlocks++

		finding, err := ins.buildFinding(ctx, block, nonProduced, index, startTime, currentSlot, identity)
		if err != nil {
			return summary, err
		}
		ins.Reporter.Block(finding)
	}

	ins.Reporter.Done()
	return summary, nil
}

// checkBlock classifies every slot of a block, in ascending order. Slots
// beyond the current chain slot are future and are skipped entirely: never
// classified, never reported. Slots produced by the target yield no record.
func (ins *Inspector) checkBlock(ctx context.Context, block domain.SlotBlock, currentSlot domain.Slot, identity string) ([]domain.ProductionRecord, int, error) {
	var nonProduced []domain.ProductionRecord
	checked := 0
	for _, slot := range block {
		if slot > currentSlot {
			continue
		}

		record, err := ins.checkSlot(ctx, slot, identity)
		if err != nil {
			return nil, checked, err
		}
		checked++
		ins.Reporter.SlotChecked()

		if record.Status == domain.ProducedByTarget {
			continue
		}
		nonProduced = append(nonProduced, record)
		ins.sleep(ctx, ins.NonProducedDelay)
	}
	return nonProduced, checked, nil
}

// checkSlot determines production status for one slot: existence check over
// the single-slot range, then leader attribution if a block exists.
func (ins *Inspector) checkSlot(ctx context.Context, slot domain.Slot, identity string) (domain.ProductionRecord, error) {
	exists, err := ins.Chain.BlockExists(ctx, slot)
	if err != nil {
		return domain.ProductionRecord{}, errors.Wrapf(err, "failed to check block at slot %d", slot)
	}
	if !exists {
		return domain.ProductionRecord{Slot: slot, Status: domain.NotProduced}, nil
	}

	leader, err := ins.Chain.SlotLeader(ctx, slot)
	if err != nil {
		return domain.ProductionRecord{}, errors.Wrapf(err, "failed to resolve leader of slot %d", slot)
	}
	if leader == identity {
		return domain.ProductionRecord{Slot: slot, Status: domain.ProducedByTarget}, nil
	}
	return domain.ProductionRecord{Slot: slot, Status: domain.ProducedByOther, Producer: leader}, nil
}

// buildFinding assembles the report for a gap block: neighbor leaders, a
// wall-clock estimate for the block's first slot, and enrichment for the
// previous leader when one is known.
func (ins *Inspector) buildFinding(ctx context.Context, block domain.SlotBlock, nonProduced []domain.ProductionRecord, index *domain.ScheduleIndex, startTime time.Time, currentSlot domain.Slot, identity string) (domain.BlockFinding, error) {
	prev, next := index.Neighbors(block)

	offset := int64(block.First()) - int64(currentSlot)
	estimated := startTime.Add(time.Duration(offset) * ins.SlotDuration)

	finding := domain.BlockFinding{
		Block:         block,
		EstimatedTime: estimated,
		Previous:      prev,
		Next:          next,
		NonProduced:   nonProduced,
		Target:        identity,
	}

	if !prev.Known {
		return finding, nil
	}

	onList, err := ins.Enrichment.OnSkipBlameList(ctx, prev.Identity)
	if err != nil {
		return finding, errors.Wrapf(err, "failed to check skip blame list for %s", prev.Identity)
	}
	blame := &domain.SkipBlameRecord{OnList: onList}
	if onList {
		stats, err := ins.Enrichment.LatencyRank(ctx, prev.Identity)
		if err != nil {
			return finding, errors.Wrapf(err, "failed to fetch latency rank for %s", prev.Identity)
		}
		blame.Latency = stats
	}
	finding.PreviousBlame = blame
	return finding, nil
}

func (ins *Inspector) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

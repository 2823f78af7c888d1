package adapters

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/a3mc/lead-inspector/internal/application/domain"
	"github.com/a3mc/lead-inspector/internal/application/ports"
)

// solanaRPCAdapter implements ports.ChainReader on solana-go, reading at
// finalized commitment throughout.
type solanaRPCAdapter struct {
	client *rpc.Client
}

// NewSolanaRPCAdapter is the constructor used from main.go.
func NewSolanaRPCAdapter(endpoint string) ports.ChainReader {
	return &solanaRPCAdapter{client: rpc.New(endpoint)}
}

func (a *solanaRPCAdapter) EpochInfo(ctx context.Context) (domain.EpochInfo, error) {
	info, err := a.client.GetEpochInfo(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return domain.EpochInfo{}, err
	}
	return domain.EpochInfo{
		Epoch:        domain.Epoch(info.Epoch),
		AbsoluteSlot: domain.Slot(info.AbsoluteSlot),
		SlotIndex:    domain.Slot(info.SlotIndex),
		SlotsInEpoch: info.SlotsInEpoch,
	}, nil
}

func (a *solanaRPCAdapter) CurrentSlot(ctx context.Context) (domain.Slot, error) {
	slot, err := a.client.GetSlot(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return 0, err
	}
	return domain.Slot(slot), nil
}

func (a *solanaRPCAdapter) LeaderSchedule(ctx context.Context, firstSlot domain.Slot) (domain.LeaderSchedule, error) {
	slot := uint64(firstSlot)
	raw, err := a.client.GetLeaderScheduleWithOpts(ctx, &rpc.GetLeaderScheduleOpts{
		Epoch:      &slot,
		Commitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("no leader schedule returned")
	}

	schedule := make(domain.LeaderSchedule, len(raw))
	for identity, slots := range raw {
		schedule[identity.String()] = slots
	}
	return schedule, nil
}

// BlockExists checks production at a slot via a single-slot range query:
// a non-empty result means a block exists there.
func (a *solanaRPCAdapter) BlockExists(ctx context.Context, slot domain.Slot) (bool, error) {
	s := uint64(slot)
	blocks, err := a.client.GetBlocks(ctx, s, &s, rpc.CommitmentFinalized)
	if err != nil {
		return false, err
	}
	return len(blocks) > 0, nil
}

func (a *solanaRPCAdapter) SlotLeader(ctx context.Context, slot domain.Slot) (string, error) {
	leaders, err := a.client.GetSlotLeaders(ctx, uint64(slot), 1)
	if err != nil {
		return "", err
	}
	if len(leaders) == 0 {
		return "", nil
	}
	return leaders[0].String(), nil
}

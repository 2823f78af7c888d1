package domain

// EpochFirstSlot returns the first absolute slot of the requested epoch.
//
// For the current epoch this is exact: the chain's absolute slot minus its
// offset within the epoch. For any other epoch it extrapolates linearly by
// the current slots-per-epoch and clamps at slot 0. Epochs that predate a
// change of the slots-per-epoch parameter will therefore be offset; this
// tool accepts that approximation.
func EpochFirstSlot(info EpochInfo, requested Epoch) Slot {
	if requested == info.Epoch {
		return info.AbsoluteSlot - info.SlotIndex
	}
	delta := (int64(requested) - int64(info.Epoch)) * int64(info.SlotsInEpoch)
	first := int64(info.AbsoluteSlot) - int64(info.SlotIndex) + delta
	if first < 0 {
		first = 0
	}
	return Slot(first)
}

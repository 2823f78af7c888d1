package domain

// GroupSlots partitions sorted absolute slots into contiguous runs of at
// most MaxBlockSlots. A run closes when the next slot is not exactly one
// greater, when the run reaches the cap, or at the end of the input. Long
// leader runs are thereby chunked into bounded reporting windows.
func GroupSlots(slots []Slot) []SlotBlock {
	var blocks []SlotBlock
	var block SlotBlock
	for i, slot := range slots {
		block = append(block, slot)
		if i+1 == len(slots) || slots[i+1] != slot+1 || len(block) == MaxBlockSlots {
			blocks = append(blocks, block)
			block = nil
		}
	}
	return blocks
}

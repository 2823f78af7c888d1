package domain

import "sort"

// ScheduleIndex is the absolute-slot view of one epoch's leader schedule.
// It is fully built by NewScheduleIndex and read-only afterwards.
type ScheduleIndex struct {
	firstSlot Slot
	bySlot    map[Slot]string
	slots     []Slot // keys of bySlot, ascending
}

// NewScheduleIndex converts the raw per-identity relative mapping into
// absolute coordinates: every identity's every slot goes into a global
// slot->identity index. Relative indices are unique across identities, so
// no entry is ever overwritten.
func NewScheduleIndex(schedule LeaderSchedule, firstSlot Slot) *ScheduleIndex {
	bySlot := make(map[Slot]string)
	for identity, relative := range schedule {
		for _, r := range relative {
			bySlot[firstSlot+Slot(r)] = identity
		}
	}
	slots := make([]Slot, 0, len(bySlot))
	for s := range bySlot {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return &ScheduleIndex{firstSlot: firstSlot, bySlot: bySlot, slots: slots}
}

// LeaderAt looks up the identity scheduled at an absolute slot. The second
// return is false when no leader is recorded there (epoch boundary or
// unscheduled slot); that is not an error.
func (idx *ScheduleIndex) LeaderAt(slot Slot) (string, bool) {
	identity, ok := idx.bySlot[slot]
	return identity, ok
}

// TargetSlots returns the absolute slots assigned to identity, sorted
// ascending. An identity absent from the schedule yields an empty slice,
// which callers treat as the "not scheduled" terminal outcome.
func TargetSlots(schedule LeaderSchedule, firstSlot Slot, identity string) []Slot {
	relative, ok := schedule[identity]
	if !ok {
		return nil
	}
	slots := make([]Slot, len(relative))
	for i, r := range relative {
		slots[i] = firstSlot + Slot(r)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// Neighbors resolves the leaders scheduled immediately before and after a
// block. The previous slot saturates at 0.
func (idx *ScheduleIndex) Neighbors(block SlotBlock) (prev, next NeighborLeader) {
	prevSlot := block.First()
	if prevSlot > 0 {
		prevSlot--
	}
	nextSlot := block.Last() + 1

	prev = NeighborLeader{Slot: prevSlot}
	if identity, ok := idx.bySlot[prevSlot]; ok {
		prev.Identity, prev.Known = identity, true
	}
	next = NeighborLeader{Slot: nextSlot}
	if identity, ok := idx.bySlot[nextSlot]; ok {
		next.Identity, next.Known = identity, true
	}
	return prev, next
}

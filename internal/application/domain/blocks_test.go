package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupSlotsCapsAndSplits(t *testing.T) {
	slots := []Slot{100, 101, 102, 103, 104, 200, 201}
	blocks := GroupSlots(slots)
	require.Equal(t, []SlotBlock{
		{100, 101, 102, 103},
		{104},
		{200, 201},
	}, blocks)
}

func TestGroupSlotsSingleRun(t *testing.T) {
	blocks := GroupSlots([]Slot{1000, 1001, 1002})
	require.Equal(t, []SlotBlock{{1000, 1001, 1002}}, blocks)
}

func TestGroupSlotsAllIsolated(t *testing.T) {
	blocks := GroupSlots([]Slot{5, 7, 9})
	require.Equal(t, []SlotBlock{{5}, {7}, {9}}, blocks)
}

func TestGroupSlotsEmpty(t *testing.T) {
	require.Empty(t, GroupSlots(nil))
}

func TestGroupSlotsExactCapBoundary(t *testing.T) {
	blocks := GroupSlots([]Slot{10, 11, 12, 13, 14, 15, 16, 17})
	require.Equal(t, []SlotBlock{
		{10, 11, 12, 13},
		{14, 15, 16, 17},
	}, blocks)
}

func TestSlotBlockBounds(t *testing.T) {
	b := SlotBlock{42, 43, 44}
	require.Equal(t, Slot(42), b.First())
	require.Equal(t, Slot(44), b.Last())
}

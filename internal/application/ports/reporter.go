package ports

import (
	"time"

	"github.com/a3mc/lead-inspector/internal/application/domain"
)

// Reporter consumes structured findings from the inspector and renders
// them. The inspector never formats output itself.
type Reporter interface {
	// EpochChoice announces which epoch is inspected and whether it is the
	// chain's current one.
	EpochChoice(epoch domain.Epoch, current bool)

	// SlotDuration announces the assumed average slot duration used for
	// wall-clock estimates.
	SlotDuration(d time.Duration)

	// NotScheduled reports the terminal outcome of a validator absent from
	// the epoch's leader schedule.
	NotScheduled(identity string, epoch domain.Epoch)

	// Scheduled reports how many slots the validator is assigned.
	Scheduled(identity string, slots int, epoch domain.Epoch)

	// Begin opens the progress scope over the total number of slots.
	Begin(total int)

	// SlotChecked marks one slot as checked. Future slots are never checked
	// and never reported here.
	SlotChecked()

	// Block renders one gap block finding.
	Block(finding domain.BlockFinding)

	// Done closes the run after all blocks were processed.
	Done()
}

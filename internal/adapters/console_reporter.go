package adapters

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/a3mc/lead-inspector/internal/application/domain"
	"github.com/a3mc/lead-inspector/internal/application/ports"
)

const timestampLayout = "2006-01-02 15:04:05.000"

// consoleReporter renders findings as line-oriented text on stdout, with a
// progress bar on stderr so piped output stays clean.
type consoleReporter struct {
	bar     *progressbar.ProgressBar
	badList *color.Color
}

// NewConsoleReporter is the constructor used from main.go.
func NewConsoleReporter() ports.Reporter {
	return &consoleReporter{badList: color.New(color.FgHiRed)}
}

func (r *consoleReporter) EpochChoice(epoch domain.Epoch, current bool) {
	if current {
		fmt.Printf("Using current epoch: %d\n", epoch)
		return
	}
	fmt.Printf("Using configured epoch: %d\n", epoch)
}

func (r *consoleReporter) SlotDuration(d time.Duration) {
	fmt.Printf("Using average slot duration: %.3f seconds\n", d.Seconds())
}

func (r *consoleReporter) NotScheduled(identity string, epoch domain.Epoch) {
	fmt.Printf("Validator %s is not scheduled to lead in epoch %d.\n", identity, epoch)
}

func (r *consoleReporter) Scheduled(identity string, slots int, epoch domain.Epoch) {
	fmt.Printf("Validator %s is assigned to %d slots in epoch %d.\n", identity, slots, epoch)
}

func (r *consoleReporter) Begin(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("checking slots"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
	)
}

func (r *consoleReporter) SlotChecked() {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *consoleReporter) Block(f domain.BlockFinding) {
	fmt.Println("----------------------------------------")
	fmt.Printf("Block of slots: %v at approximately %s UTC\n",
		f.Block, f.EstimatedTime.UTC().Format(timestampLayout))

	r.printPrevious(f)
	fmt.Printf("Our Validator Slots %d - %d: %s\n", f.Block.First(), f.Block.Last(), f.Target)
	if f.Next.Known {
		fmt.Printf("Next Slot %d Leader: %s\n", f.Next.Slot, f.Next.Identity)
	} else {
		fmt.Printf("Next Slot %d Leader: Unknown or No Leader\n", f.Next.Slot)
	}

	for _, record := range f.NonProduced {
		if record.Status == domain.ProducedByOther && record.Producer != "" {
			fmt.Printf("Slot %d: block produced by %s, not us!\n", record.Slot, record.Producer)
		} else {
			fmt.Printf("Slot %d: no block produced (skipped?) or no leader info. Not produced by us.\n", record.Slot)
		}
	}
}

func (r *consoleReporter) printPrevious(f domain.BlockFinding) {
	if !f.Previous.Known {
		fmt.Printf("Previous Slot %d Leader: Unknown or No Leader\n", f.Previous.Slot)
		return
	}
	if f.PreviousBlame != nil && f.PreviousBlame.OnList {
		if stats := f.PreviousBlame.Latency; stats != nil {
			fmt.Printf("Previous Slot %d Leader: %s %s (Latency: %.6f, Rank: %d)\n",
				f.Previous.Slot, f.Previous.Identity,
				r.badList.Sprint("##ON BAD SKIP LIST##"),
				stats.AverageLatency, stats.Rank)
			return
		}
		fmt.Printf("Previous Slot %d Leader: %s %s\n",
			f.Previous.Slot, f.Previous.Identity,
			r.badList.Sprint("##ON BAD SKIP LIST##"))
		return
	}
	fmt.Printf("Previous Slot %d Leader: %s\n", f.Previous.Slot, f.Previous.Identity)
}

func (r *consoleReporter) Done() {
	if r.bar != nil {
		_ = r.bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	fmt.Println("Done checking slots!")
}

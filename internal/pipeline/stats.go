package pipeline

import (
	"fmt"
	"time"

	"github.com/backmassage/tunesync/internal/display"
)

// Failure records one file that could not be synced.
type Failure struct {
	Path string
	Err  error
}

// RunStats tracks aggregate counters and byte totals across a run.
type RunStats struct {
	// Analysis.
	Found       int // Regular files under the source root.
	Unreadable  int // Entries skipped because they could not be listed or stat'ed.
	Dropped     int // Unrecognised extension, not audio, or no audio stream.
	ProbeFailed int // Dropped because ffprobe failed (subset of Dropped).

	// Sync.
	Total     int // Work list size.
	Copied    int
	Converted int
	Skipped   int // Destination existed or was claimed by another source.
	Failed    int
	Cancelled int // Never started because the run was interrupted.

	TotalInputBytes  int64
	TotalOutputBytes int64

	Failures    []Failure
	DryRun      bool
	Interrupted bool
	Elapsed     time.Duration
}

// Succeeded returns the number of work items that ended in a synced
// destination, including ones that were already present.
func (s *RunStats) Succeeded() int {
	return s.Copied + s.Converted + s.Skipped
}

// NothingSucceeded reports a non-empty work list where every item that ran
// failed.
func (s *RunStats) NothingSucceeded() bool {
	return s.Total > 0 && s.Succeeded() == 0 && s.Failed > 0
}

// SpaceSaved returns the aggregate byte difference between inputs and
// outputs. Positive means outputs are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// SummaryRows renders the stats as label/value rows for display.
func (s *RunStats) SummaryRows() []display.Row {
	verb := func(done string) string {
		if s.DryRun {
			return "Would be " + done
		}
		return done
	}
	rows := []display.Row{
		{Label: "Found", Value: fmt.Sprint(s.Found)},
	}
	if s.Unreadable > 0 {
		rows = append(rows, display.Row{Label: "Unreadable", Value: fmt.Sprint(s.Unreadable)})
	}
	rows = append(rows, []display.Row{
		{Label: "Dropped", Value: fmt.Sprintf("%d (%d probe failures)", s.Dropped, s.ProbeFailed)},
		{Label: verb("copied"), Value: fmt.Sprint(s.Copied)},
		{Label: verb("converted"), Value: fmt.Sprint(s.Converted)},
		{Label: "Skipped", Value: fmt.Sprint(s.Skipped)},
		{Label: "Failed", Value: fmt.Sprint(s.Failed)},
	}...)
	if s.Cancelled > 0 {
		rows = append(rows, display.Row{Label: "Cancelled", Value: fmt.Sprint(s.Cancelled)})
	}
	if !s.DryRun && s.Copied+s.Converted > 0 {
		rows = append(rows, display.Row{
			Label: "Size",
			Value: fmt.Sprintf("%s -> %s (%s)",
				display.FormatBytes(s.TotalInputBytes),
				display.FormatBytes(s.TotalOutputBytes),
				display.FormatBytesWithSign(-s.SpaceSaved())),
		})
	}
	rows = append(rows, display.Row{Label: "Elapsed", Value: display.FormatElapsed(s.Elapsed)})
	return rows
}

// Package progress renders the per-phase "i of N" status line.
//
// A Counter is safe for concurrent use: Add is an atomic increment and
// rendering is serialised behind a mutex. On a terminal the line is redrawn
// in place with a bar; elsewhere only the final line is written.
package progress

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/time/rate"

	"github.com/backmassage/tunesync/internal/term"
)

// Template placeholders.
const (
	CountVar = "{n}"
	TotalVar = "{total}"
)

const (
	defaultBarWidth = 30
	redrawInterval  = 100 * time.Millisecond
	clearEOL        = "\x1b[K"
)

// Options tune a Counter.
type Options struct {
	// TTY enables in-place redraws and the bar.
	TTY bool
	// BarWidth is the bar width in cells (default 30). Ignored when Total is 0.
	BarWidth int
}

// Counter counts completed items for one phase and renders them through a
// template such as "Syncing file {n} of {total}".
type Counter struct {
	w        io.Writer
	template string
	total    int
	tty      bool

	n atomic.Int64

	mu       sync.Mutex
	bar      progress.Model
	redraw   rate.Sometimes
	finished bool
}

// New returns a Counter writing to w. total may be 0 when it is not known
// up front (no bar is drawn then).
func New(w io.Writer, template string, total int, opts Options) *Counter {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}
	return &Counter{
		w:        w,
		template: template,
		total:    total,
		tty:      opts.TTY,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(width),
			progress.WithColorProfile(term.Profile()),
		),
		redraw: rate.Sometimes{First: 1, Interval: redrawInterval},
	}
}

// Add records n completed items and schedules a redraw.
func (c *Counter) Add(n int) {
	count := c.n.Add(int64(n))
	if !c.tty {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.redraw.Do(func() { c.draw(int(count)) })
}

// Count returns the number of items recorded so far.
func (c *Counter) Count() int { return int(c.n.Load()) }

// Finish writes the final line followed by " Done." and returns the count.
// Calls after the first only return the count.
func (c *Counter) Finish() int {
	count := c.Count()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return count
	}
	c.finished = true
	if c.tty {
		fmt.Fprintf(c.w, "\r%s Done.%s\n", c.text(count), clearEOL)
	} else {
		fmt.Fprintf(c.w, "%s Done.\n", c.text(count))
	}
	return count
}

// Suspend clears the status line, runs fn (typically a log call), and
// redraws the line. fn must not call back into c.
func (c *Counter) Suspend(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tty || c.finished {
		fn()
		return
	}
	fmt.Fprint(c.w, "\r"+clearEOL)
	fn()
	c.draw(c.Count())
}

func (c *Counter) draw(count int) {
	line := "\r" + c.text(count)
	if c.total > 0 {
		line += " " + c.bar.ViewAs(float64(count)/float64(c.total))
	}
	fmt.Fprint(c.w, line+clearEOL)
}

func (c *Counter) text(count int) string {
	return strings.NewReplacer(
		CountVar, strconv.Itoa(count),
		TotalVar, strconv.Itoa(c.total),
	).Replace(c.template)
}

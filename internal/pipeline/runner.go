package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/backmassage/tunesync/internal/config"
	"github.com/backmassage/tunesync/internal/display"
	"github.com/backmassage/tunesync/internal/ffmpeg"
	"github.com/backmassage/tunesync/internal/library"
	"github.com/backmassage/tunesync/internal/logging"
	"github.com/backmassage/tunesync/internal/naming"
	"github.com/backmassage/tunesync/internal/probe"
	"github.com/backmassage/tunesync/internal/progress"
	"github.com/backmassage/tunesync/internal/term"
)

// State is a Syncer's position in its single-shot lifecycle.
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateSyncing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	case StateSyncing:
		return "syncing"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Deps are the Syncer's collaborators. Zero fields are filled with the
// production implementations by [New].
type Deps struct {
	Fs        afero.Fs
	Prober    probe.Prober
	Converter ffmpeg.Converter
	Out       io.Writer // Progress lines and the summary. Default: stdout.
	TTY       *bool     // Override terminal detection for Out.
}

// Syncer runs one sync of cfg.InputDir into cfg.OutputDir.
type Syncer struct {
	cfg  *config.Config
	log  *logging.Logger
	deps Deps

	mu    sync.Mutex
	state State

	stats    RunStats
	resolver *naming.CollisionResolver
}

// New returns an idle Syncer.
func New(cfg *config.Config, log *logging.Logger, deps Deps) *Syncer {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Prober == nil {
		deps.Prober = probe.NewFFprobe(cfg.FFprobeBin, cfg.Timeout)
	}
	if deps.Converter == nil {
		deps.Converter = ffmpeg.NewFFmpeg(cfg.FFmpegBin, cfg.Timeout)
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.TTY == nil {
		tty := false
		if f, ok := deps.Out.(*os.File); ok {
			tty = term.IsTerminal(f)
		}
		deps.TTY = &tty
	}
	return &Syncer{
		cfg:      cfg,
		log:      log,
		deps:     deps,
		resolver: naming.NewCollisionResolver(),
	}
}

// Run is shorthand for New(cfg, log, deps).Run(ctx).
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) (*RunStats, error) {
	return New(cfg, log, deps).Run(ctx)
}

// State returns the current lifecycle state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.log.Debug("State: %s", st)
}

// Run discovers, analyzes, and syncs. The returned stats are valid even
// when ctx was cancelled part way; the error is reserved for conditions
// that prevent the run altogether (reuse, unreadable source root).
func (s *Syncer) Run(ctx context.Context) (*RunStats, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrAlreadyRun
	}
	s.state = StateAnalyzing
	s.mu.Unlock()

	start := time.Now()
	s.stats.DryRun = s.cfg.DryRun
	defer func() { s.stats.Elapsed = time.Since(start) }()

	found := s.counter("Found {n} files.", 0)
	files, skipped, err := Discover(s.deps.Fs, s.cfg.InputDir, found)
	found.Finish()
	if err != nil {
		s.setState(StateDone)
		return &s.stats, fmt.Errorf("discover %s: %w", s.cfg.InputDir, err)
	}
	for _, e := range skipped {
		s.log.Warn("Skip (unreadable): %v", e)
	}
	s.stats.Found = len(files)
	s.stats.Unreadable = len(skipped)

	analyzed := s.counter("Analyzed {n} of {total} files.", len(files))
	work := s.Analyze(ctx, files, analyzed)
	analyzed.Finish()
	s.stats.Total = len(work)

	if ctx.Err() != nil {
		s.stats.Interrupted = true
		s.stats.Cancelled = len(work)
		s.setState(StateDone)
		return &s.stats, nil
	}

	s.setState(StateSyncing)
	s.syncAll(ctx, work)
	s.setState(StateDone)
	return &s.stats, nil
}

func (s *Syncer) counter(template string, total int) *progress.Counter {
	return progress.New(s.deps.Out, template, total, progress.Options{TTY: *s.deps.TTY})
}

// fileResult is what a worker reports for one work item.
type fileResult struct {
	file     *library.SyncFile
	outcome  outcome
	err      error
	inBytes  int64
	outBytes int64
}

// job pairs a work item with its destination claim, made in dispatch order
// so the first source in the work list owns a contested destination.
type job struct {
	file    *library.SyncFile
	dst     string
	owner   string
	claimed bool
}

// syncAll fans the work list out to cfg.Workers goroutines.
func (s *Syncer) syncAll(ctx context.Context, work []*library.SyncFile) {
	counter := s.counter("Syncing file {n} of {total}", len(work))
	defer counter.Finish()

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan job)
	results := make(chan fileResult, len(work))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- s.syncFile(ctx, j, counter)
			}
		}()
	}

	target := s.cfg.Target()
	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()
		for _, sf := range work {
			dst := naming.OutputPath(target.DestRoot, sf.RelPath, string(target.Format))
			owner, ok := s.resolver.Claim(sf.SourcePath, dst)
			select {
			case jobs <- job{file: sf, dst: dst, owner: owner, claimed: ok}:
			case <-ctx.Done():
				return
			}
		}
	}()

	completed := 0
	for r := range results {
		completed++
		s.record(r, counter)
		counter.Add(1)
	}
	s.log.Debug("Claimed %d destination paths", s.resolver.Len())
	s.stats.Cancelled += len(work) - completed
	if ctx.Err() != nil {
		s.stats.Interrupted = true
	}
}

// record folds one result into the stats. Only the collecting goroutine
// calls it.
func (s *Syncer) record(r fileResult, counter *progress.Counter) {
	switch r.outcome {
	case outcomeCopied:
		s.stats.Copied++
	case outcomeConverted:
		s.stats.Converted++
	case outcomeSkipped:
		s.stats.Skipped++
		return
	case outcomeCancelled:
		s.stats.Cancelled++
		return
	case outcomeFailed:
		s.stats.Failed++
		s.stats.Failures = append(s.stats.Failures, Failure{Path: r.file.SourcePath, Err: r.err})
		counter.Suspend(func() { s.log.Error("Failed: %s: %v", r.file.SourcePath, r.err) })
		return
	}
	s.stats.TotalInputBytes += r.inBytes
	s.stats.TotalOutputBytes += r.outBytes
}

// LogSummary writes the summary block to out and the per-failure lines and
// a one-line tally to log.
func LogSummary(out io.Writer, log *logging.Logger, stats *RunStats) {
	title := "Sync summary"
	if stats.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(out, display.RenderSummary(title, stats.SummaryRows()))

	for _, f := range stats.Failures {
		log.Error("  %s: %v", f.Path, f.Err)
	}

	tally := fmt.Sprintf("Done: %d copied, %d converted, %d skipped, %d failed, %d cancelled, %d dropped",
		stats.Copied, stats.Converted, stats.Skipped, stats.Failed, stats.Cancelled, stats.Dropped)
	switch {
	case stats.Interrupted:
		log.Warn("%s (interrupted)", tally)
	case stats.Failed > 0:
		log.Warn("%s", tally)
	default:
		log.Success("%s", tally)
	}
}

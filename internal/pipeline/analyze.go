package pipeline

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/backmassage/tunesync/internal/library"
	"github.com/backmassage/tunesync/internal/progress"
	"github.com/backmassage/tunesync/internal/toolexec"
)

// Analyze probes each discovered file in order and returns the work list.
// Files with an unrecognised extension are dropped without probing; probe
// failures and files without an audio stream are dropped with a warning.
// It stops early, returning what it has, when ctx is cancelled.
func (s *Syncer) Analyze(ctx context.Context, files []string, counter *progress.Counter) []*library.SyncFile {
	work := make([]*library.SyncFile, 0, len(files))
	for _, rel := range files {
		if ctx.Err() != nil {
			break
		}
		if sf := s.analyzeOne(ctx, rel, counter); sf != nil {
			work = append(work, sf)
		}
		counter.Add(1)
	}
	return work
}

func (s *Syncer) analyzeOne(ctx context.Context, rel string, counter *progress.Counter) *library.SyncFile {
	if !library.IsAudioExtension(filepath.Ext(rel)) {
		s.stats.Dropped++
		s.log.Debug("Drop (not audio): %s", rel)
		return nil
	}

	sf, err := library.NewSyncFile(ctx, s.deps.Prober, s.cfg.InputDir, rel)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		s.stats.Dropped++
		var unsupported *library.UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			s.stats.ProbeFailed++
		}
		if toolexec.IsToolNotFound(err) {
			counter.Suspend(func() { s.log.Error("Drop %s: %v", rel, err) })
		} else {
			counter.Suspend(func() { s.log.Warn("Drop (probe failed): %s: %v", rel, err) })
		}
		return nil
	}

	if !sf.HasAudio() {
		s.stats.Dropped++
		counter.Suspend(func() { s.log.Warn("Drop (no audio stream): %s", rel) })
		return nil
	}
	return sf
}

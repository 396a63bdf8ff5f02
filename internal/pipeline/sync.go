package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/backmassage/tunesync/internal/ffmpeg"
	"github.com/backmassage/tunesync/internal/naming"
	"github.com/backmassage/tunesync/internal/planner"
	"github.com/backmassage/tunesync/internal/progress"
)

type outcome int

const (
	outcomeCopied outcome = iota
	outcomeConverted
	outcomeSkipped
	outcomeFailed
	outcomeCancelled
)

// syncFile handles one work item: exists → claimed → plan → mkdir →
// copy or transcode. It runs on a worker goroutine.
func (s *Syncer) syncFile(ctx context.Context, j job, counter *progress.Counter) fileResult {
	sf := j.file
	res := fileResult{file: sf}
	if ctx.Err() != nil {
		res.outcome = outcomeCancelled
		return res
	}
	fs := s.deps.Fs

	// --- Skip-existing check ---
	exists, err := afero.Exists(fs, j.dst)
	if err != nil {
		return failed(res, &FilesystemError{Op: "stat", Path: j.dst, Err: err})
	}
	if exists {
		plan := planner.Skip(sf.SourcePath, j.dst, "destination exists")
		s.log.Debug("%s %s: %s", plan.Action, sf.RelPath, plan.Reason)
		res.outcome = outcomeFor(plan.Action)
		return res
	}

	// --- Collision check ---
	if !j.claimed {
		plan := planner.Skip(sf.SourcePath, j.dst, fmt.Sprintf("%s is already produced from %s", j.dst, j.owner))
		counter.Suspend(func() {
			s.log.Warn("Skip %s: %s", sf.SourcePath, plan.Reason)
		})
		res.outcome = outcomeFor(plan.Action)
		return res
	}

	plan := planner.BuildPlan(s.cfg.Target(), sf)
	plan.OutputPath = j.dst
	s.log.Debug("%s %s: %s", plan.Action, sf.RelPath, plan.Reason)

	// --- Dry-run ---
	if s.cfg.DryRun {
		counter.Suspend(func() {
			s.log.Info("[DRY] Would %s %s -> %s (%s)", plan.Action, sf.RelPath, j.dst, plan.Reason)
		})
		res.outcome = outcomeFor(plan.Action)
		return res
	}

	// --- Create output directory ---
	if err := fs.MkdirAll(filepath.Dir(j.dst), 0o755); err != nil {
		return failed(res, &FilesystemError{Op: "mkdir", Path: filepath.Dir(j.dst), Err: err})
	}

	if fi, err := fs.Stat(sf.SourcePath); err == nil {
		res.inBytes = fi.Size()
	}

	switch plan.Action {
	case planner.ActionCopy:
		err = s.copyFile(ctx, sf.SourcePath, j.dst)
	case planner.ActionTranscode:
		err = s.transcode(ctx, plan)
	}
	if err != nil {
		if ctx.Err() != nil {
			res.outcome = outcomeCancelled
			return res
		}
		return failed(res, err)
	}

	if fi, err := fs.Stat(j.dst); err == nil {
		res.outBytes = fi.Size()
	}
	res.outcome = outcomeFor(plan.Action)
	return res
}

func failed(res fileResult, err error) fileResult {
	res.outcome = outcomeFailed
	res.err = err
	return res
}

func outcomeFor(a planner.Action) outcome {
	switch a {
	case planner.ActionTranscode:
		return outcomeConverted
	case planner.ActionSkip:
		return outcomeSkipped
	}
	return outcomeCopied
}

// transcode runs the converter into a hidden temp file next to the
// destination and renames it into place on success.
func (s *Syncer) transcode(ctx context.Context, plan *planner.Plan) error {
	fs := s.deps.Fs
	tmp := naming.TempPath(plan.OutputPath)
	err := s.deps.Converter.Convert(ctx, plan.InputPath, tmp, ffmpeg.Options{
		Format:      string(plan.Format),
		BitrateKbps: plan.BitrateKbps,
		DropVideo:   plan.DropVideo,
	})
	if err != nil {
		removeQuietly(fs, tmp)
		return err
	}
	if err := fs.Rename(tmp, plan.OutputPath); err != nil {
		removeQuietly(fs, tmp)
		return &FilesystemError{Op: "rename", Path: plan.OutputPath, Err: err}
	}
	return nil
}

// copyFile copies src to dst byte for byte through a hidden temp file,
// preserving the permission bits. The modification time is carried over
// when the destination filesystem allows it.
func (s *Syncer) copyFile(ctx context.Context, src, dst string) error {
	fs := s.deps.Fs
	in, err := fs.Open(src)
	if err != nil {
		return &FilesystemError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &FilesystemError{Op: "stat", Path: src, Err: err}
	}

	tmp := naming.TempPath(dst)
	out, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return &FilesystemError{Op: "create", Path: tmp, Err: err}
	}

	_, err = io.Copy(out, &ctxReader{ctx: ctx, r: in})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		if terr := fs.Chtimes(tmp, info.ModTime(), info.ModTime()); terr != nil {
			s.log.Debug("Cannot preserve mtime on %s: %v", dst, terr)
		}
		err = fs.Rename(tmp, dst)
	}
	if err != nil {
		removeQuietly(fs, tmp)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	return nil
}

// removeQuietly drops a temp file; it may never have been created.
func removeQuietly(fs afero.Fs, path string) {
	_ = fs.Remove(path)
}

// ctxReader stops a copy between reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

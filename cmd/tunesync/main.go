// Command tunesync mirrors a music library onto a device directory,
// copying files already in the target format and transcoding the rest.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check) or the sync pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/backmassage/tunesync/internal/check"
	"github.com/backmassage/tunesync/internal/config"
	"github.com/backmassage/tunesync/internal/display"
	"github.com/backmassage/tunesync/internal/logging"
	"github.com/backmassage/tunesync/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// -v is --verbose; keep version on -V.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Aliases: []string{"V"}, Usage: "print the version"}

	code := exitOK
	root := &cli.Command{
		Name:      "tunesync",
		Usage:     "sync a music library to a device, transcoding to mp3 or ogg",
		UsageText: "tunesync --format mp3|ogg --input PATH --output PATH [options]",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Flags:     config.Flags(config.DefaultConfig()),
		Writer:    stdout,
		ErrWriter: stderr,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			code = runSync(ctx, cmd, stdout, stderr)
			return nil
		},
	}
	if err := root.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "tunesync: %v\n", err)
		return exitError
	}
	return code
}

func runSync(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr. Once NewLogger succeeds, all output goes through
	// the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.Apply(cmd, &cfg); err != nil {
		fmt.Fprintf(stderr, "tunesync: %v\n", err)
		return exitError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "tunesync: %v\n", err)
		return exitError
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(stderr, "tunesync: %v\n", err)
		return exitError
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(stdout)

	if cfg.CheckOnly {
		check.RunCheck(ctx, &cfg, log)
		return exitOK
	}

	// Resolve and validate paths: input must exist, output must not be inside
	// input, and output is then created if needed (not in a dry run).
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return exitError
	}
	if fi, err := os.Stat(inputAbs); err != nil || !fi.IsDir() {
		log.Error("Input is not a directory: %s", cfg.InputDir)
		return exitError
	}
	outputAbs, err := absPathMaybeMissing(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return exitError
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return exitError
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(outputAbs, 0o755); err != nil {
			log.Error("Cannot create output directory: %s", cfg.OutputDir)
			return exitError
		}
	}
	cfg.InputDir, cfg.OutputDir = inputAbs, outputAbs

	log.Info("Syncing music from %s to %s. Converting to %s at %s bitrate (%s policy)",
		cfg.InputDir, cfg.OutputDir, cfg.Format, display.FormatBitrateLabel(cfg.Quality), cfg.QualityPolicy)
	log.Debug("Run id: %s", log.RunID())
	if cfg.ConfigFile != "" {
		log.Debug("Config file: %s", cfg.ConfigFile)
	}
	log.Debug("Workers: %d, per-file timeout: %s", cfg.Workers, cfg.Timeout)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}

	// Fail fast if ffmpeg/ffprobe or the target encoder are unavailable.
	if err := check.CheckDeps(ctx, &cfg); err != nil {
		log.Error("%v", err)
		if errors.Is(err, check.ErrFfmpegNotFound) || errors.Is(err, check.ErrFfprobeNotFound) {
			log.Error("Install ffmpeg or point --ffmpeg/--ffprobe at the binaries")
		}
		return exitError
	}

	// Phase 3: Signal handling. Cancel the run context on SIGINT/SIGTERM;
	// running ffmpeg processes are killed and their partial output removed.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping…")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Run pipeline (discover → analyze → sync).
	stats, err := pipeline.Run(ctx, &cfg, log, pipeline.Deps{Out: stdout})
	if err != nil {
		log.Error("%v", err)
		return exitError
	}
	pipeline.LogSummary(stdout, log, stats)

	switch {
	case stats.Interrupted:
		return exitInterrupted
	case stats.NothingSucceeded():
		return exitError
	}
	return exitOK
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// absPathMaybeMissing is absPath for a directory that may not exist yet
// (dry run): the deepest existing ancestor is resolved and the rest
// appended.
func absPathMaybeMissing(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var rest []string
	for dir := abs; ; dir = filepath.Dir(dir) {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !os.IsNotExist(err) || dir == filepath.Dir(dir) {
			return "", err
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
	}
}

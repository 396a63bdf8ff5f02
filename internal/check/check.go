// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation (CheckDeps) for ffmpeg, ffprobe, and the audio
// encoders the target formats need.
package check

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/backmassage/tunesync/internal/config"
	"github.com/backmassage/tunesync/internal/toolexec"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found")
	ErrFfprobeNotFound = errors.New("ffprobe not found")
	ErrEncoderMissing  = errors.New("required audio encoder not available in ffmpeg")
)

// Diagnostics never need long; a hung tool should not stall startup.
const checkTimeout = 30 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// EncoderFor returns the ffmpeg encoder used for format.
func EncoderFor(f config.Format) string {
	switch f {
	case config.FormatOGG:
		return "libvorbis"
	default:
		return "libmp3lame"
	}
}

// RunCheck runs the --check flow: prints availability of ffmpeg and ffprobe,
// the audio encoders for every supported format, and a short test encode
// for the configured one (every format when none is set). Informational
// only; it does not stop on failure.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkVersion(ctx, cfg.FFmpegBin, log)
	checkVersion(ctx, cfg.FFprobeBin, log)
	checkEncoders(ctx, cfg.FFmpegBin, log)

	formats := []config.Format{cfg.Format}
	if cfg.Format == "" {
		formats = supportedFormats
	}
	for _, f := range formats {
		checkTestEncode(ctx, cfg.FFmpegBin, f, log)
	}
}

var supportedFormats = []config.Format{config.FormatMP3, config.FormatOGG}

// checkVersion logs the first line of `<bin> -version`.
func checkVersion(ctx context.Context, bin string, log Logger) {
	res, err := runner(bin).Run(ctx, "-version")
	if err != nil {
		if toolexec.IsToolNotFound(err) {
			log.Error("%s not found", bin)
		} else {
			log.Warn("%s found but -version failed: %v", bin, err)
		}
		return
	}
	firstLine := strings.TrimSpace(string(res.Stdout))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", bin, firstLine)
}

// checkEncoders reports the encoder behind each supported target format.
func checkEncoders(ctx context.Context, ffmpegBin string, log Logger) {
	log.Info("Audio encoders:")
	available, err := listEncoders(ctx, ffmpegBin)
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, f := range supportedFormats {
		enc := EncoderFor(f)
		if available[enc] {
			log.Success("  %s: %s", f, enc)
		} else {
			log.Error("  %s: %s missing", f, enc)
		}
	}
}

// checkTestEncode encodes a tenth of a second of sine into the null muxer.
func checkTestEncode(ctx context.Context, ffmpegBin string, f config.Format, log Logger) {
	log.Info("Testing %s encode...", f)
	if _, err := runner(ffmpegBin).Run(ctx, testEncodeArgs(f)...); err != nil {
		log.Error("%s test encode failed: %v", f, err)
		return
	}
	log.Success("%s encoder works", EncoderFor(f))
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must resolve and
// ffmpeg must carry the encoder for cfg.Format. Returns an error wrapping one
// of the sentinels on failure.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	if err := toolexec.LookPath(cfg.FFmpegBin); err != nil {
		return fmt.Errorf("%w: %v", ErrFfmpegNotFound, errors.Unwrap(err))
	}
	if err := toolexec.LookPath(cfg.FFprobeBin); err != nil {
		return fmt.Errorf("%w: %v", ErrFfprobeNotFound, errors.Unwrap(err))
	}

	available, err := listEncoders(ctx, cfg.FFmpegBin)
	if err != nil {
		return fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	if enc := EncoderFor(cfg.Format); !available[enc] {
		return fmt.Errorf("%w: %s (needed for %s)", ErrEncoderMissing, enc, cfg.Format)
	}
	return nil
}

// --- internal helpers ---

func runner(bin string) toolexec.Runner {
	return toolexec.Runner{Bin: bin, Timeout: checkTimeout}
}

func listEncoders(ctx context.Context, ffmpegBin string) (map[string]bool, error) {
	res, err := runner(ffmpegBin).Run(ctx, "-hide_banner", "-encoders")
	if err != nil {
		return nil, err
	}
	return parseEncoders(string(res.Stdout)), nil
}

// parseEncoders extracts encoder names from `ffmpeg -encoders` output:
//
//	 A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3)
//
// Lines before the " ------" separator are the legend and are ignored.
func parseEncoders(out string) map[string]bool {
	encoders := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(out))
	inList := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "---") {
			inList = true
			continue
		}
		if !inList {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			encoders[fields[1]] = true
		}
	}
	return encoders
}

// testEncodeArgs returns the ffmpeg arguments for a minimal audio encode
// with the encoder for f.
func testEncodeArgs(f config.Format) []string {
	return []string{
		"-hide_banner", "-nostdin", "-v", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", EncoderFor(f),
		"-f", "null", "-",
	}
}

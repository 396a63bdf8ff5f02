// Package config holds runtime configuration: defaults, the optional TOML
// file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// Format is the target container format.
type Format string

const (
	FormatMP3 Format = "mp3" // MPEG-1 Layer III.
	FormatOGG Format = "ogg" // Ogg Vorbis.
)

// QualityPolicy decides the bitrate used when the source container differs
// from the target.
type QualityPolicy string

const (
	// PolicyMin encodes at min(source, target) when the source bitrate is
	// known, and at the target otherwise (default).
	PolicyMin QualityPolicy = "min"
	// PolicyStrict always encodes at exactly the target bitrate.
	PolicyStrict QualityPolicy = "strict"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// MaxQualityKbps caps --quality; no supported encoder goes beyond it.
const MaxQualityKbps = 512

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by an optional TOML file ([LoadFile]) and finally by CLI flags
// ([Apply]). It is immutable for the duration of a run.
type Config struct {
	// Paths.
	InputDir  string
	OutputDir string

	// Target.
	Format        Format
	Quality       int // Target bitrate in kbps. 0 = unconstrained.
	QualityPolicy QualityPolicy

	// Execution.
	Workers int           // Default: runtime.NumCPU().
	Timeout time.Duration // Per external process. Default: 10m; 0 disables.
	DryRun  bool

	// External tools.
	FFmpegBin  string // Default: "ffmpeg".
	FFprobeBin string // Default: "ffprobe".

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode
	LogFile    string
	CheckOnly  bool
	ConfigFile string
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		QualityPolicy: PolicyMin,
		Workers:       runtime.NumCPU(),
		Timeout:       10 * time.Minute,
		FFmpegBin:     "ffmpeg",
		FFprobeBin:    "ffprobe",
		ColorMode:     ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and ranges. When not in CheckOnly mode it also
// requires a target format and both directory paths.
func (c *Config) Validate() error {
	if c.Format != "" {
		if _, err := ParseFormat(string(c.Format)); err != nil {
			return err
		}
	}
	if _, err := ParseQualityPolicy(string(c.QualityPolicy)); err != nil {
		return err
	}
	if _, err := ParseColorMode(string(c.ColorMode)); err != nil {
		return err
	}
	if c.Quality < 0 || c.Quality > MaxQualityKbps {
		return fmt.Errorf("invalid quality %d (use 1-%d kbps, or 0 for encoder default)", c.Quality, MaxQualityKbps)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid jobs %d (must be at least 1)", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	if c.FFmpegBin == "" || c.FFprobeBin == "" {
		return errors.New("ffmpeg and ffprobe binaries must not be empty")
	}

	if c.CheckOnly {
		return nil
	}
	if c.Format == "" {
		return errors.New("need --format (mp3 or ogg)")
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need both --input and --output")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory, which would make the walk pick up its own
// output. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

// ParseFormat validates a target format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatMP3:
		return FormatMP3, nil
	case FormatOGG:
		return FormatOGG, nil
	}
	return "", fmt.Errorf("invalid format %q (use 'mp3' or 'ogg')", s)
}

// ParseQualityPolicy validates a quality policy name (case-insensitive).
func ParseQualityPolicy(s string) (QualityPolicy, error) {
	switch QualityPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyMin:
		return PolicyMin, nil
	case PolicyStrict:
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("invalid quality policy %q (use 'min' or 'strict')", s)
}

// ParseColorMode validates a color mode name (case-insensitive).
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
}

// Target is the part of a Config that decides what each file becomes.
type Target struct {
	SourceRoot string
	DestRoot   string
	Format     Format
	Quality    int // kbps; 0 = unconstrained.
	Policy     QualityPolicy
}

// Target returns the sync target described by c.
func (c *Config) Target() Target {
	return Target{
		SourceRoot: c.InputDir,
		DestRoot:   c.OutputDir,
		Format:     c.Format,
		Quality:    c.Quality,
		Policy:     c.QualityPolicy,
	}
}

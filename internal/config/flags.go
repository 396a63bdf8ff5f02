package config

// This file defines the CLI flags and copies their values onto a Config.
// Precedence: DefaultConfig < --config file < flags given on the command line.

import (
	"github.com/urfave/cli/v3"
)

// Flag names shared by the definitions and Apply.
const (
	flagFormat        = "format"
	flagQuality       = "quality"
	flagQualityPolicy = "quality-policy"
	flagInput         = "input"
	flagOutput        = "output"
	flagJobs          = "jobs"
	flagTimeout       = "timeout"
	flagDryRun        = "dry-run"
	flagConfig        = "config"
	flagLog           = "log"
	flagColor         = "color"
	flagVerbose       = "verbose"
	flagFFmpeg        = "ffmpeg"
	flagFFprobe       = "ffprobe"
	flagCheck         = "check"
)

// Flags returns the flag set for the root command. Defaults shown in help
// come from def.
func Flags(def Config) []cli.Flag {
	return []cli.Flag{
		// Target.
		&cli.StringFlag{Name: flagFormat, Aliases: []string{"f"}, Usage: "target format: mp3 | ogg (required)", Value: string(def.Format)},
		&cli.IntFlag{Name: flagQuality, Aliases: []string{"q", "bitrate", "b"}, Usage: "target audio bitrate in kbps (0 = encoder default)"},
		&cli.StringFlag{Name: flagQualityPolicy, Usage: "bitrate for format changes: min (of source and target) | strict (always target)", Value: string(def.QualityPolicy)},

		// Paths.
		&cli.StringFlag{Name: flagInput, Aliases: []string{"i"}, Usage: "source music library", TakesFile: true},
		&cli.StringFlag{Name: flagOutput, Aliases: []string{"o"}, Usage: "destination (device mount point)", TakesFile: true},

		// Execution.
		&cli.IntFlag{Name: flagJobs, Aliases: []string{"j"}, Usage: "parallel sync workers", Value: def.Workers},
		&cli.DurationFlag{Name: flagTimeout, Usage: "per-file limit for ffmpeg/ffprobe (0 = none)", Value: def.Timeout},
		&cli.BoolFlag{Name: flagDryRun, Aliases: []string{"d"}, Usage: "show decisions without writing anything"},

		// Config and logging.
		&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "TOML config file", TakesFile: true},
		&cli.StringFlag{Name: flagLog, Aliases: []string{"l"}, Usage: "append logs to file (rotated)", TakesFile: true},
		&cli.StringFlag{Name: flagColor, Usage: "colored output: auto | always | never", Value: string(def.ColorMode)},
		&cli.BoolFlag{Name: flagVerbose, Aliases: []string{"v"}, Usage: "verbose output"},

		// External tools.
		&cli.StringFlag{Name: flagFFmpeg, Usage: "ffmpeg binary", Value: def.FFmpegBin, Sources: cli.EnvVars("TUNESYNC_FFMPEG")},
		&cli.StringFlag{Name: flagFFprobe, Usage: "ffprobe binary", Value: def.FFprobeBin, Sources: cli.EnvVars("TUNESYNC_FFPROBE")},
		&cli.BoolFlag{Name: flagCheck, Usage: "run system diagnostics and exit"},
	}
}

// Apply loads the --config file (if any) into cfg and then overlays every
// flag the user set explicitly.
func Apply(cmd *cli.Command, cfg *Config) error {
	if path := cmd.String(flagConfig); path != "" {
		cfg.ConfigFile = path
		if err := LoadFile(path, cfg); err != nil {
			return err
		}
	}

	if cmd.IsSet(flagFormat) {
		f, err := ParseFormat(cmd.String(flagFormat))
		if err != nil {
			return err
		}
		cfg.Format = f
	}
	if cmd.IsSet(flagQuality) {
		cfg.Quality = cmd.Int(flagQuality)
	}
	if cmd.IsSet(flagQualityPolicy) {
		p, err := ParseQualityPolicy(cmd.String(flagQualityPolicy))
		if err != nil {
			return err
		}
		cfg.QualityPolicy = p
	}
	if cmd.IsSet(flagInput) {
		cfg.InputDir = NormalizeDirArg(cmd.String(flagInput))
	}
	if cmd.IsSet(flagOutput) {
		cfg.OutputDir = NormalizeDirArg(cmd.String(flagOutput))
	}
	if cmd.IsSet(flagJobs) {
		cfg.Workers = cmd.Int(flagJobs)
	}
	if cmd.IsSet(flagTimeout) {
		cfg.Timeout = cmd.Duration(flagTimeout)
	}
	if cmd.IsSet(flagDryRun) {
		cfg.DryRun = cmd.Bool(flagDryRun)
	}
	if cmd.IsSet(flagLog) {
		cfg.LogFile = cmd.String(flagLog)
	}
	if cmd.IsSet(flagColor) {
		m, err := ParseColorMode(cmd.String(flagColor))
		if err != nil {
			return err
		}
		cfg.ColorMode = m
	}
	if cmd.IsSet(flagVerbose) {
		cfg.Verbose = cmd.Bool(flagVerbose)
	}
	if cmd.IsSet(flagFFmpeg) {
		cfg.FFmpegBin = cmd.String(flagFFmpeg)
	}
	if cmd.IsSet(flagFFprobe) {
		cfg.FFprobeBin = cmd.String(flagFFprobe)
	}
	cfg.CheckOnly = cmd.Bool(flagCheck)
	return nil
}

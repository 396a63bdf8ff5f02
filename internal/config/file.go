package config

// This file loads the optional TOML configuration file. Keys mirror the long
// CLI flag names with underscores; flags given on the command line win.

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig is the on-disk shape. Pointer fields distinguish "absent" from
// an explicit zero.
type fileConfig struct {
	Input         string `toml:"input"`
	Output        string `toml:"output"`
	Format        string `toml:"format"`
	Quality       *int   `toml:"quality"`
	QualityPolicy string `toml:"quality_policy"`
	Jobs          *int   `toml:"jobs"`
	Timeout       string `toml:"timeout"`
	DryRun        *bool  `toml:"dry_run"`
	FFmpeg        string `toml:"ffmpeg"`
	FFprobe       string `toml:"ffprobe"`
	LogFile       string `toml:"log_file"`
	Color         string `toml:"color"`
	Verbose       *bool  `toml:"verbose"`
}

// LoadFile reads a TOML config file and applies the keys it sets onto cfg.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadFile(path string, cfg *Config) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Input != "" {
		cfg.InputDir = NormalizeDirArg(fc.Input)
	}
	if fc.Output != "" {
		cfg.OutputDir = NormalizeDirArg(fc.Output)
	}
	if fc.Format != "" {
		f, err := ParseFormat(fc.Format)
		if err != nil {
			return err
		}
		cfg.Format = f
	}
	if fc.Quality != nil {
		cfg.Quality = *fc.Quality
	}
	if fc.QualityPolicy != "" {
		p, err := ParseQualityPolicy(fc.QualityPolicy)
		if err != nil {
			return err
		}
		cfg.QualityPolicy = p
	}
	if fc.Jobs != nil {
		cfg.Workers = *fc.Jobs
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	if fc.FFmpeg != "" {
		cfg.FFmpegBin = fc.FFmpeg
	}
	if fc.FFprobe != "" {
		cfg.FFprobeBin = fc.FFprobe
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Color != "" {
		m, err := ParseColorMode(fc.Color)
		if err != nil {
			return err
		}
		cfg.ColorMode = m
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return nil
}

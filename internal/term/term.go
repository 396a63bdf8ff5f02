// Package term resolves terminal capabilities: whether a stream is a TTY and
// which color profile output should use.
//
// [Configure] is called once during startup (from [logging.NewLogger]); the
// resolved profile is then shared by the logger, the progress bar, and the
// display helpers.
package term

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/backmassage/tunesync/internal/config"
)

var profile atomic.Int32

func init() {
	profile.Store(int32(termenv.Ascii))
}

// Configure resolves mode into a color profile and applies it to lipgloss's
// default renderer.
func Configure(mode config.ColorMode) termenv.Profile {
	p := Resolve(mode, os.Stdout)
	profile.Store(int32(p))
	lipgloss.SetColorProfile(p)
	return p
}

// Profile returns the profile chosen by the last [Configure] call
// (Ascii before any call).
func Profile() termenv.Profile { return termenv.Profile(profile.Load()) }

// Resolve determines the color profile for f based on the configured mode,
// TTY detection, and the NO_COLOR env var (https://no-color.org).
func Resolve(mode config.ColorMode, f *os.File) termenv.Profile {
	switch mode {
	case config.ColorAlways:
		if p := termenv.EnvColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI256
	case config.ColorNever:
		return termenv.Ascii
	default: // ColorAuto
		if !IsTerminal(f) ||
			os.Getenv("NO_COLOR") != "" ||
			strings.ToLower(os.Getenv("TERM")) == "dumb" {
			return termenv.Ascii
		}
		return termenv.NewOutput(f).EnvColorProfile()
	}
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

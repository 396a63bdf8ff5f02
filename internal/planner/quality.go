package planner

import (
	"fmt"

	"github.com/backmassage/tunesync/internal/config"
)

// Bitrate is the outcome of the quality decision.
type Bitrate struct {
	Transcode bool
	Kbps      int // Encoder bitrate; 0 = encoder default.
	Note      string
}

// ResolveBitrate applies the quality policy. sameContainer reports whether
// the source is already in the target container; src/srcKnown is the source
// bitrate in kbps.
func ResolveBitrate(t config.Target, sameContainer bool, src int, srcKnown bool) Bitrate {
	if srcKnown && src <= 0 {
		srcKnown = false
	}

	if sameContainer {
		switch {
		case t.Quality == 0:
			return Bitrate{Note: "already " + string(t.Format) + ", no quality limit"}
		case srcKnown && src <= t.Quality:
			return Bitrate{Note: fmt.Sprintf("already %s at %d kbps (limit %d kbps)", t.Format, src, t.Quality)}
		case srcKnown:
			return Bitrate{Transcode: true, Kbps: t.Quality,
				Note: fmt.Sprintf("%d kbps exceeds limit, re-encoding at %d kbps", src, t.Quality)}
		case t.Policy == config.PolicyStrict:
			return Bitrate{Transcode: true, Kbps: t.Quality,
				Note: fmt.Sprintf("source bitrate unknown, re-encoding at %d kbps (strict)", t.Quality)}
		default:
			return Bitrate{Note: "already " + string(t.Format) + ", source bitrate unknown"}
		}
	}

	switch {
	case t.Quality == 0:
		return Bitrate{Transcode: true, Note: "format change, encoder default quality"}
	case t.Policy == config.PolicyStrict:
		return Bitrate{Transcode: true, Kbps: t.Quality,
			Note: fmt.Sprintf("format change at %d kbps (strict)", t.Quality)}
	case srcKnown && src < t.Quality:
		return Bitrate{Transcode: true, Kbps: src,
			Note: fmt.Sprintf("format change at source bitrate %d kbps (below limit %d kbps)", src, t.Quality)}
	default:
		return Bitrate{Transcode: true, Kbps: t.Quality,
			Note: fmt.Sprintf("format change at %d kbps", t.Quality)}
	}
}

package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/backmassage/tunesync/internal/toolexec"
)

// Converter re-encodes one file. The destination is only valid once Convert
// returns nil.
type Converter interface {
	Convert(ctx context.Context, src, dst string, opts Options) error
}

// FFmpeg is the ffmpeg-backed [Converter].
type FFmpeg struct {
	Bin     string        // Binary name or path. Default: "ffmpeg".
	Timeout time.Duration // Per-call limit; zero disables it.
}

// NewFFmpeg returns an FFmpeg for bin, falling back to "ffmpeg".
func NewFFmpeg(bin string, timeout time.Duration) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{Bin: bin, Timeout: timeout}
}

// Convert runs ffmpeg once for src → dst. Any stderr output is reported as
// a [toolexec.ExternalToolError], even when ffmpeg exits zero.
func (f *FFmpeg) Convert(ctx context.Context, src, dst string, opts Options) error {
	_, err := toolexec.Runner{Bin: f.Bin, Timeout: f.Timeout}.Run(ctx, Build(src, dst, opts)...)
	if err != nil {
		return fmt.Errorf("convert %q: %w", src, err)
	}
	return nil
}

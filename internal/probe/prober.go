package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/tunesync/internal/toolexec"
)

// Prober inspects one media file.
type Prober interface {
	Probe(ctx context.Context, path string) (*Result, error)
}

// FFprobe is the ffprobe-backed [Prober].
type FFprobe struct {
	Bin     string        // Binary name or path. Default: "ffprobe".
	Timeout time.Duration // Per-call limit; zero disables it.
}

// NewFFprobe returns an FFprobe for bin, falling back to "ffprobe".
func NewFFprobe(bin string, timeout time.Duration) *FFprobe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFprobe{Bin: bin, Timeout: timeout}
}

// Args returns the ffprobe argument list for path.
func Args(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	}
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result. Any stderr output fails the call and no partial result is returned.
func (p *FFprobe) Probe(ctx context.Context, path string) (*Result, error) {
	res, err := toolexec.Runner{Bin: p.Bin, Timeout: p.Timeout}.Run(ctx, Args(path)...)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", path, err)
	}
	return ParseJSON(res.Stdout)
}

// ParseJSON converts raw ffprobe JSON output into a Result.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	NbStreams      int               `json:"nb_streams"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index      int               `json:"index"`
	CodecName  string            `json:"codec_name"`
	CodecType  string            `json:"codec_type"`
	BitRate    string            `json:"bit_rate"`
	SampleRate string            `json:"sample_rate"`
	Channels   int               `json:"channels"`
	Tags       map[string]string `json:"tags"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *Result {
	r := &Result{Format: convertFormat(&raw.Format)}
	for i := range raw.Streams {
		r.Streams = append(r.Streams, convertStream(&raw.Streams[i]))
	}
	return r
}

func convertFormat(f *ffprobeFormat) FormatInfo {
	fi := FormatInfo{
		Filename:       f.Filename,
		NbStreams:      f.NbStreams,
		FormatName:     f.FormatName,
		FormatLongName: f.FormatLongName,
		Tags:           f.Tags,
	}
	fi.Duration, fi.HasDuration = parseFloat(f.Duration)
	fi.Size, fi.HasSize = parseInt64(f.Size)
	fi.BitRate, fi.HasBitRate = parseInt64(f.BitRate)
	return fi
}

func convertStream(s *ffprobeStream) Stream {
	br, _ := parseInt64(s.BitRate)
	sr, _ := parseInt64(s.SampleRate)
	return Stream{
		Index:      s.Index,
		CodecType:  s.CodecType,
		CodecName:  s.CodecName,
		BitRate:    br,
		SampleRate: int(sr),
		Channels:   s.Channels,
		Tags:       s.Tags,
	}
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Package library models the audio files discovered under the source root.
package library

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/tunesync/internal/probe"
)

// Unknown is returned by [SyncFile.ContainerFormat] when ffprobe did not
// report a format name.
const Unknown = "unknown"

// audioExtensions is the set of extensions considered for syncing
// (lowercase, without the leading dot).
var audioExtensions = map[string]bool{
	"mp3":  true,
	"flac": true,
	"wav":  true,
	"aac":  true,
	"ogg":  true,
	"flv":  true,
}

// IsAudioExtension reports whether ext (with or without leading dot, any
// case) is a recognised audio extension.
func IsAudioExtension(ext string) bool {
	return audioExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// UnsupportedFormatError is returned when ffprobe succeeded but reported
// neither streams nor a container format.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no usable format or stream data: %s", e.Path)
}

// SyncFile is a read-only view over one source file and its probed metadata.
// It is built once during analysis and never mutated.
type SyncFile struct {
	RelPath    string // Path relative to the source root; identity within a run.
	SourcePath string // Absolute path of the source file.

	meta *probe.Result
}

// NewSyncFile probes root/rel eagerly and returns the resulting SyncFile.
func NewSyncFile(ctx context.Context, p probe.Prober, root, rel string) (*SyncFile, error) {
	src := filepath.Join(root, rel)
	meta, err := p.Probe(ctx, src)
	if err != nil {
		return nil, err
	}
	if meta.Empty() {
		return nil, &UnsupportedFormatError{Path: src}
	}
	return &SyncFile{RelPath: rel, SourcePath: src, meta: meta}, nil
}

// Extension returns the suffix of the relative path without the dot, with
// its case preserved.
func (f *SyncFile) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.RelPath), ".")
}

// HasAudio reports whether any stream is an audio stream.
func (f *SyncFile) HasAudio() bool { return f.meta.HasCodecType("audio") }

// HasVideo reports whether any stream is a video stream (cover art counts).
func (f *SyncFile) HasVideo() bool { return f.meta.HasCodecType("video") }

// BitRate returns the container bit rate in bits/sec; ok is false when
// ffprobe did not report one.
func (f *SyncFile) BitRate() (bps int64, ok bool) {
	return f.meta.Format.BitRate, f.meta.Format.HasBitRate
}

// BitRateKbps returns the container bit rate in kbps (1 kbps = 1000 bps,
// matching ffmpeg's "k" suffix).
func (f *SyncFile) BitRateKbps() (kbps int, ok bool) {
	bps, ok := f.BitRate()
	if !ok {
		return 0, false
	}
	return int(bps / 1000), true
}

// ContainerFormat returns ffprobe's format_name, or [Unknown].
func (f *SyncFile) ContainerFormat() string {
	if f.meta.Format.FormatName == "" {
		return Unknown
	}
	return f.meta.Format.FormatName
}

// IsContainer reports whether the probed container matches name. ffprobe
// reports some demuxers as a comma-separated list, so each entry is checked.
func (f *SyncFile) IsContainer(name string) bool {
	for _, n := range f.meta.Format.Names() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// SizeBytes returns the file size reported by ffprobe.
func (f *SyncFile) SizeBytes() (n int64, ok bool) {
	return f.meta.Format.Size, f.meta.Format.HasSize
}

// DurationSeconds returns the duration truncated to whole seconds.
func (f *SyncFile) DurationSeconds() (secs int64, ok bool) {
	return int64(f.meta.Format.Duration), f.meta.Format.HasDuration
}

// New builds a SyncFile from an existing probe result without running
// ffprobe. Used by tests and by callers that probe elsewhere.
func New(root, rel string, meta *probe.Result) *SyncFile {
	if meta == nil {
		meta = &probe.Result{}
	}
	return &SyncFile{RelPath: rel, SourcePath: filepath.Join(root, rel), meta: meta}
}

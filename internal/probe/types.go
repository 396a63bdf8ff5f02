package probe

import "strings"

// FormatInfo holds container-level metadata from ffprobe's format section.
// Numeric fields are zero when ffprobe did not report them; the Has* flags
// distinguish "unknown" from a genuine zero.
type FormatInfo struct {
	Filename       string
	NbStreams      int
	FormatName     string
	FormatLongName string
	Duration       float64
	Size           int64
	BitRate        int64
	Tags           map[string]string

	HasDuration bool
	HasSize     bool
	HasBitRate  bool
}

// Names splits ffprobe's comma-separated format_name ("mov,mp4,m4a,3gp")
// into its individual demuxer names.
func (f FormatInfo) Names() []string {
	if f.FormatName == "" {
		return nil
	}
	parts := strings.Split(f.FormatName, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Stream is one entry of ffprobe's stream list. Only the fields tunesync
// looks at are kept.
type Stream struct {
	Index      int
	CodecType  string
	CodecName  string
	BitRate    int64
	SampleRate int
	Channels   int
	Tags       map[string]string
}

// Result is the parsed output of a single ffprobe JSON call.
type Result struct {
	Format  FormatInfo
	Streams []Stream
}

// Empty reports whether ffprobe returned nothing usable.
func (r *Result) Empty() bool {
	return r == nil || (len(r.Streams) == 0 && r.Format.FormatName == "")
}

// HasCodecType reports whether any stream has the given codec_type.
func (r *Result) HasCodecType(codecType string) bool {
	if r == nil {
		return false
	}
	for _, s := range r.Streams {
		if s.CodecType == codecType {
			return true
		}
	}
	return false
}

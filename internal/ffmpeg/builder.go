package ffmpeg

import "strconv"

// Codec names selected explicitly for formats ffmpeg would otherwise map to
// a different default encoder.
const vorbisEncoder = "libvorbis"

// Options describes one conversion.
type Options struct {
	// Format is the target container ("mp3", "ogg"). For "ogg" the vorbis
	// encoder is selected explicitly; otherwise ffmpeg infers the codec from
	// the destination extension.
	Format string
	// BitrateKbps is the target audio bitrate; zero leaves the encoder default.
	BitrateKbps int
	// DropVideo strips video streams (cover art, flv video) from the output.
	DropVideo bool
}

// Build returns the complete ffmpeg argument slice (without the binary name)
// for converting src into dst.
func Build(src, dst string, opts Options) []string {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "-nostdin", "-y", "-v", "quiet")

	// --- Input ---
	args = append(args, "-i", src)

	// --- Streams ---
	if opts.DropVideo {
		args = append(args, "-vn")
	}

	// --- Audio codec ---
	if opts.Format == "ogg" {
		args = append(args, "-acodec", vorbisEncoder)
	}
	if opts.BitrateKbps > 0 {
		args = append(args, "-b:a", strconv.Itoa(opts.BitrateKbps)+"k")
	}

	// --- Output ---
	args = append(args, dst)

	return args
}

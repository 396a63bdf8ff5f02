// Package ffmpeg builds and runs the ffmpeg command that re-encodes one
// source file into the target audio container.
//
// [Build] assembles the argument list; [FFmpeg.Convert] runs it through
// toolexec, which treats any stderr output as a failure. [Converter] is the
// seam the pipeline depends on so tests can substitute a fake.
package ffmpeg

package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/backmassage/tunesync/internal/config"
)

// recordLogger captures log calls for assertions.
type recordLogger struct {
	lines []string
}

func (r *recordLogger) add(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Info(f string, a ...interface{})    { r.add("INFO", f, a...) }
func (r *recordLogger) Success(f string, a ...interface{}) { r.add("SUCC", f, a...) }
func (r *recordLogger) Warn(f string, a ...interface{})    { r.add("WARN", f, a...) }
func (r *recordLogger) Error(f string, a ...interface{})   { r.add("ERRO", f, a...) }
func (r *recordLogger) Debug(f string, a ...interface{})   { r.add("DEBU", f, a...) }

func (r *recordLogger) contains(s string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

const encodersFixture = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
 A....D libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)
 A....D libvorbis            libvorbis (codec vorbis)
`

func TestParseEncoders(t *testing.T) {
	got := parseEncoders(encodersFixture)
	for _, want := range []string{"libx264", "aac", "libmp3lame", "libvorbis"} {
		if !got[want] {
			t.Errorf("missing encoder %q", want)
		}
	}
	// Legend lines must not be read as encoders.
	if got["="] || got["Video"] {
		t.Errorf("legend parsed as encoder: %v", got)
	}
}

func TestEncoderFor(t *testing.T) {
	if EncoderFor(config.FormatMP3) != "libmp3lame" {
		t.Errorf("mp3 → %q", EncoderFor(config.FormatMP3))
	}
	if EncoderFor(config.FormatOGG) != "libvorbis" {
		t.Errorf("ogg → %q", EncoderFor(config.FormatOGG))
	}
}

func TestTestEncodeArgs(t *testing.T) {
	args := strings.Join(testEncodeArgs(config.FormatOGG), " ")
	if !strings.Contains(args, "-c:a libvorbis") || !strings.HasSuffix(args, "-f null -") {
		t.Errorf("unexpected args: %s", args)
	}
}

func TestCheckDeps_MissingTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Format = config.FormatMP3
	cfg.FFmpegBin = "tunesync-no-such-ffmpeg"
	err := CheckDeps(context.Background(), &cfg)
	if !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("got %v, want ErrFfmpegNotFound", err)
	}
	if err != nil && strings.Count(err.Error(), "ffmpeg not found") != 1 {
		t.Errorf("message repeats the cause: %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Format = config.FormatMP3
	cfg.FFmpegBin = "sh"
	cfg.FFprobeBin = "tunesync-no-such-ffprobe"
	if err := CheckDeps(context.Background(), &cfg); !errors.Is(err, ErrFfprobeNotFound) {
		t.Errorf("got %v, want ErrFfprobeNotFound", err)
	}
}

func TestCheckDeps_RealFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not installed")
	}
	cfg := config.DefaultConfig()
	cfg.Format = config.FormatMP3
	available, err := listEncoders(context.Background(), cfg.FFmpegBin)
	if err != nil {
		t.Fatal(err)
	}
	err = CheckDeps(context.Background(), &cfg)
	if available["libmp3lame"] && err != nil {
		t.Errorf("CheckDeps: %v", err)
	}
	if !available["libmp3lame"] && !errors.Is(err, ErrEncoderMissing) {
		t.Errorf("got %v, want ErrEncoderMissing", err)
	}
}

func TestRunCheck_MissingTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = "tunesync-no-such-ffmpeg"
	cfg.FFprobeBin = "tunesync-no-such-ffprobe"
	log := &recordLogger{}

	RunCheck(context.Background(), &cfg, log)

	if !log.contains("ERRO tunesync-no-such-ffmpeg not found") {
		t.Errorf("missing ffmpeg error: %v", log.lines)
	}
	if !log.contains("ERRO tunesync-no-such-ffprobe not found") {
		t.Errorf("missing ffprobe error: %v", log.lines)
	}
	if !log.contains("WARN Could not list encoders") {
		t.Errorf("missing encoder warning: %v", log.lines)
	}
}

func TestRunCheck_NoFormatTestsEveryEncoder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegBin = "tunesync-no-such-ffmpeg"
	cfg.FFprobeBin = "tunesync-no-such-ffprobe"
	log := &recordLogger{}

	RunCheck(context.Background(), &cfg, log)

	for _, want := range []string{"INFO Testing mp3 encode", "INFO Testing ogg encode"} {
		if !log.contains(want) {
			t.Errorf("missing %q: %v", want, log.lines)
		}
	}
}

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"tunesync"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runArgs(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, version)
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(in, 0o755))

	cases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing output", []string{"-f", "mp3", "-i", in}, "need both --input and --output"},
		{"bad format", []string{"-f", "wav", "-i", in, "-o", filepath.Join(dir, "out")}, "invalid format"},
		{"missing format", []string{"-i", in, "-o", filepath.Join(dir, "out")}, "need --format"},
		{"quality too high", []string{"-f", "mp3", "-q", "9000", "-i", in, "-o", filepath.Join(dir, "out")}, "invalid quality"},
		{"bad policy", []string{"-f", "mp3", "--quality-policy", "loose", "-i", in, "-o", filepath.Join(dir, "out")}, "invalid quality policy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := runArgs(t, tc.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, errOut, tc.wantErr)
		})
	}
}

func TestRun_PathErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(in, 0o755))

	code, _, _ := runArgs(t, "--color", "never", "-f", "mp3", "-i", filepath.Join(dir, "missing"), "-o", filepath.Join(dir, "out"))
	assert.Equal(t, exitError, code)

	code, _, _ = runArgs(t, "--color", "never", "-f", "mp3", "-i", in, "-o", filepath.Join(in, "device"))
	assert.Equal(t, exitError, code)
	assert.NoDirExists(t, filepath.Join(in, "device"), "rejected output must not be created")
}

func TestRun_MissingFFmpeg(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(in, 0o755))

	code, _, _ := runArgs(t, "--color", "never", "-f", "mp3", "-i", in, "-o", filepath.Join(dir, "out"),
		"--ffmpeg", "tunesync-no-such-ffmpeg")
	assert.Equal(t, exitError, code)
}

func TestAbsPathMaybeMissing(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	got, err := absPathMaybeMissing(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, "a", "b"), got)
}

// writeSilentWAV writes 0.2s of mono 16-bit silence.
func writeSilentWAV(t *testing.T, path string) {
	t.Helper()
	const (
		rate    = 44100
		samples = rate / 5
		dataLen = samples * 2
	)
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*2))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
}

func TestRun_EndToEnd(t *testing.T) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
	enc, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil || !strings.Contains(string(enc), "libmp3lame") {
		t.Skip("ffmpeg built without libmp3lame")
	}

	dir := t.TempDir()
	in, out := filepath.Join(dir, "library"), filepath.Join(dir, "device")
	writeSilentWAV(t, filepath.Join(in, "Artist", "Album", "01 tone.wav"))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("liner notes"), 0o644))

	args := []string{"--color", "never", "-f", "mp3", "-q", "128", "-i", in, "-o", out}

	code, stdout, _ := runArgs(t, args...)
	require.Equal(t, exitOK, code, stdout)
	assert.FileExists(t, filepath.Join(out, "Artist", "Album", "01 tone.mp3"))
	assert.NoFileExists(t, filepath.Join(out, "notes.mp3"))
	assert.Contains(t, stdout, "Syncing file 1 of 1 Done.")

	// Second run finds everything in place.
	code, _, _ = runArgs(t, args...)
	assert.Equal(t, exitOK, code)

	entries, err := os.ReadDir(filepath.Join(out, "Artist", "Album"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestRun_DryRunCreatesNothing(t *testing.T) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
	enc, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil || !strings.Contains(string(enc), "libmp3lame") {
		t.Skip("ffmpeg built without libmp3lame")
	}

	dir := t.TempDir()
	in, out := filepath.Join(dir, "library"), filepath.Join(dir, "device")
	writeSilentWAV(t, filepath.Join(in, "tone.wav"))

	code, _, _ := runArgs(t, "--color", "never", "-f", "mp3", "--dry-run", "-i", in, "-o", out)
	assert.Equal(t, exitOK, code)
	assert.NoDirExists(t, out)
}

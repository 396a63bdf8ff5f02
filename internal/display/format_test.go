package display

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
		{"typical flac 32 MiB", 33554432, "32.0 MiB"},
		{"4.7 GiB", 5046586572, "4.7 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBytesWithSign(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"positive", 1024 * 1024, "+ 1.0 MiB"},
		{"negative", -1024 * 1024, "- 1.0 MiB"},
		{"zero", 0, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytesWithSign(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytesWithSign(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatBitrateLabel(t *testing.T) {
	tests := []struct {
		name string
		kbps int
		want string
	}{
		{"unconstrained", 0, "default"},
		{"low", 64, "64 kbps"},
		{"high", 320, "320 kbps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBitrateLabel(tt.kbps)
			if got != tt.want {
				t.Errorf("FormatBitrateLabel(%d) = %q, want %q", tt.kbps, got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(1234567 * time.Microsecond); got != "1.2s" {
		t.Errorf("FormatElapsed = %q, want 1.2s", got)
	}
	if got := FormatElapsed(42 * time.Millisecond); got != "42ms" {
		t.Errorf("FormatElapsed = %q, want 42ms", got)
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Sync summary", []Row{
		{"Copied", "3"},
		{"Converted", "12"},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Sync summary") {
		t.Errorf("title line = %q", lines[0])
	}
	// Labels are padded to the widest one so values line up.
	if strings.Index(lines[1], "3") != strings.Index(lines[2], "12") {
		t.Errorf("values not aligned:\n%s", out)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	if !strings.Contains(buf.String(), "|___/") {
		t.Errorf("banner missing art: %q", buf.String())
	}
}

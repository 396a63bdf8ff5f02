// Package logging provides the leveled logger used across tunesync: a
// charmbracelet/log console logger plus an optional rotated file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/backmassage/tunesync/internal/config"
	"github.com/backmassage/tunesync/internal/term"
)

// SuccessLevel sits between Info and Warn so it is shown whenever Info is.
const SuccessLevel = log.InfoLevel + 1

// Log file rotation limits.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
)

// Logger provides leveled, optionally colored logging with an optional file
// sink. Methods take printf-style arguments. All methods are goroutine-safe.
type Logger struct {
	mu      sync.Mutex
	console *log.Logger
	file    *log.Logger
	sink    io.WriteCloser
	runID   string
}

// NewLogger resolves colors from cfg, builds the console logger on stdout,
// and opens cfg.LogFile when set. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout, term.Configure(cfg.ColorMode))
}

// NewWithWriter is NewLogger with an explicit console writer. Colors are
// never emitted to w.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Logger, error) {
	return newLogger(cfg, w, termenv.Ascii)
}

func newLogger(cfg *config.Config, w io.Writer, p termenv.Profile) (*Logger, error) {
	l := &Logger{runID: uuid.NewString()[:8]}
	l.console = newCharmLogger(w, p, cfg.Verbose)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		l.sink = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
		}
		// Several runs can append to one file; the run id tells them apart.
		l.file = newCharmLogger(l.sink, termenv.Ascii, true).With("run", l.runID)
	}
	return l, nil
}

func newCharmLogger(w io.Writer, p termenv.Profile, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
	l.SetColorProfile(p)
	l.SetStyles(styles())
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// styles returns the default charm styles plus a green SUCCESS level.
func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[SuccessLevel] = lipgloss.NewStyle().
		SetString("SUCC").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("42"))
	return s
}

// Close flushes and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sink != nil {
		err := l.sink.Close()
		l.sink = nil
		l.file = nil
		return err
	}
	return nil
}

// RunID returns the short id tagged onto every file log entry of this run.
func (l *Logger) RunID() string { return l.runID }

func (l *Logger) emit(level log.Level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console.Log(level, msg)
	if l.file != nil {
		l.file.Log(level, msg)
	}
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(log.InfoLevel, format, args...)
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.emit(SuccessLevel, format, args...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(log.WarnLevel, format, args...)
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(log.ErrorLevel, format, args...)
}

// Debug logs at DEBUG level; it is dropped unless verbose output is on.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.emit(log.DebugLevel, format, args...)
}

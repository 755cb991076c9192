package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/natefinch/lumberjack.v2"

	"pkt.systems/pslog"
	"pkt.systems/vshell/schema"
)

// FileConfig describes the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// WithState annotates the logger with the controller state.
func WithState(log pslog.Logger, state schema.State) pslog.Logger {
	return log.With("state", state.String())
}

// WithCommand annotates the logger with the program name and line length.
// The full line is never attached.
func WithCommand(log pslog.Logger, line string) pslog.Logger {
	log = log.With("line_len", len(line))
	if program := programName(line); program != "" {
		log = log.With("program", program)
	}
	return log
}

// WithSession annotates the logger with a process session id when available.
func WithSession(log pslog.Logger, sessionID uint64) pslog.Logger {
	if sessionID != 0 {
		log = log.With("session", sessionID)
	}
	return log
}

func programName(line string) string {
	fields, err := shlex.Split(line)
	if err != nil || len(fields) == 0 {
		fields = strings.Fields(line)
	}
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

// NewFileWriter opens the rotating log file. An empty path discards logs.
func NewFileWriter(cfg FileConfig) (io.WriteCloser, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nopCloser{io.Discard}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}, nil
}

// ParseLevel maps a configured level name to a pslog level.
func ParseLevel(name string) (pslog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pslog.TraceLevel, nil
	case "debug":
		return pslog.DebugLevel, nil
	case "", "info":
		return pslog.InfoLevel, nil
	case "warn", "warning":
		return pslog.WarnLevel, nil
	case "error":
		return pslog.ErrorLevel, nil
	}
	return pslog.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// New builds a structured logger writing to w.
func New(w io.Writer, level pslog.Level) pslog.Logger {
	return pslog.NewWithOptions(w, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: level,
	})
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

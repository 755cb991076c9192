package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/pslog"
	"pkt.systems/vshell/schema"
)

func TestWithCommandOmitsLine(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	log := WithCommand(logger, `/usr/bin/grep -r "secret token" .`)
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["program"] != "grep" {
		t.Fatalf("expected program field, got %+v", entry)
	}
	if entry["line_len"] != float64(len(`/usr/bin/grep -r "secret token" .`)) {
		t.Fatalf("expected line_len field, got %+v", entry)
	}
	if bytes.Contains(capture.buf.Bytes(), []byte("secret token")) {
		t.Fatalf("did not expect the command line in the log")
	}
}

func TestWithStateAddsField(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	WithSession(WithState(logger, schema.StateRunning), 7).Info("hello")

	entry := capture.firstEntry(t)
	if entry["state"] != "running" {
		t.Fatalf("expected state field, got %+v", entry)
	}
	if entry["session"] != float64(7) {
		t.Fatalf("expected session field, got %+v", entry)
	}
}

func TestNewFileWriter(t *testing.T) {
	w, err := NewFileWriter(FileConfig{})
	if err != nil {
		t.Fatalf("discard writer: %v", err)
	}
	if _, err := w.Write([]byte("x")); err != nil {
		t.Fatalf("discard write: %v", err)
	}
	_ = w.Close()

	path := filepath.Join(t.TempDir(), "logs", "vshell.log")
	w, err = NewFileWriter(FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("file writer: %v", err)
	}
	New(w, pslog.InfoLevel).Info("shell start")
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte("shell start")) {
		t.Fatalf("expected log line, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != pslog.DebugLevel {
		t.Fatalf("unexpected level %v %v", lvl, err)
	}
	if lvl, err := ParseLevel(""); err != nil || lvl != pslog.InfoLevel {
		t.Fatalf("expected info default, got %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected unknown level error")
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}

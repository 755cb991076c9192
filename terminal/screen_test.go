package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pkt.systems/vshell/schema"
)

func TestScreenRenderIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)
	frame := Frame{Lines: []string{"one", "two"}, CursorRow: 1, CursorCol: 2, Width: 10, Height: 2}
	if err := s.Render(frame); err != nil {
		t.Fatalf("render: %v", err)
	}
	first := buf.String()
	buf.Reset()
	if err := s.Render(frame); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != first {
		t.Fatalf("expected identical output for identical frames")
	}
	if !strings.Contains(first, "\x1b[2;3H") {
		t.Fatalf("expected 1-based cursor placement, got %q", first)
	}
}

func TestScreenRenderBoundsFrame(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)
	frame := Frame{Lines: []string{strings.Repeat("x", 30), "b", "c"}, CursorRow: 9, CursorCol: 99, Width: 5, Height: 2}
	if err := s.Render(frame); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "xxxxxx") {
		t.Fatalf("expected line trimmed to width, got %q", out)
	}
	if strings.Contains(out, "\r\nc") {
		t.Fatalf("expected lines beyond height to be dropped")
	}
	if !strings.Contains(out, "\x1b[2;5H") {
		t.Fatalf("expected cursor clamped into frame, got %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestScreenRenderFailureIsRenderError(t *testing.T) {
	s := NewScreen(failingWriter{})
	err := s.Render(Frame{Lines: []string{"x"}})
	var renderErr *schema.RenderError
	if !errors.As(err, &renderErr) || !errors.Is(err, schema.ErrRender) {
		t.Fatalf("expected RenderError, got %v", err)
	}
}

func TestSanitizeAndWidth(t *testing.T) {
	got := Sanitize("\x1b[31mred\x1b[0m\tx\r\x07")
	if got != "red    x" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
	styled := "\x1b[1mbold\x1b[0m"
	if VisibleWidth(styled) != 4 {
		t.Fatalf("expected width 4, got %d", VisibleWidth(styled))
	}
	if VisibleWidth(TrimToWidth(styled, 2)) != 2 {
		t.Fatalf("expected trimmed width 2")
	}
}

package shell

import (
	"os/exec"
	"strings"
	"testing"
	"time"

	"pkt.systems/vshell/internal/appconfig"
	"pkt.systems/vshell/internal/clipboard"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

type fakeScreen struct {
	width  int
	height int
	frames []terminal.Frame
	err    error
}

func (f *fakeScreen) Size() (int, int) {
	return f.width, f.height
}

func (f *fakeScreen) Render(frame terminal.Frame) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeScreen) last(t *testing.T) terminal.Frame {
	t.Helper()
	if len(f.frames) == 0 {
		t.Fatalf("no frame rendered")
	}
	return f.frames[len(f.frames)-1]
}

type testSession struct {
	*Session
	screen *fakeScreen
	clip   *clipboard.Memory
	dir    string
}

func newTestSession(t *testing.T, tweaks ...func(*appconfig.Config)) *testSession {
	t.Helper()
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Theme = "plain"
	for _, tweak := range tweaks {
		tweak(&cfg)
	}
	dir := t.TempDir()
	screen := &fakeScreen{width: 60, height: 20}
	clip := &clipboard.Memory{}
	s, err := New(Options{
		Config:    cfg,
		Screen:    screen,
		Clipboard: clip,
		Dir:       dir,
		Home:      dir,
		Chdir:     func(string) error { return nil },
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.width, s.height = screen.Size()
	if err := s.render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	return &testSession{Session: s, screen: screen, clip: clip, dir: dir}
}

// press handles one key the way Run does and redraws when needed.
func (ts *testSession) press(t *testing.T, name string) {
	t.Helper()
	key, err := terminal.ParseKeyName(name)
	if err != nil {
		t.Fatalf("parse key %q: %v", name, err)
	}
	ts.key(t, key)
}

func (ts *testSession) key(t *testing.T, key terminal.Key) {
	t.Helper()
	ts.handleKey(key)
	if ts.dirty {
		if err := ts.render(); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
}

func (ts *testSession) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		if r == '\n' {
			ts.press(t, "ctrl+j")
			continue
		}
		ts.key(t, terminal.Key{Kind: terminal.KeyRune, R: r})
	}
}

// command runs a colon command through the prompt opened by the cancel key.
func (ts *testSession) command(t *testing.T, text string) {
	t.Helper()
	ts.press(t, "esc")
	if ts.prompt == nil {
		t.Fatalf("expected command prompt to open")
	}
	ts.typeText(t, text)
	ts.press(t, "enter")
}

// waitProcess blocks until the foreground process exits and its output has
// been moved into the scrollback.
func (ts *testSession) waitProcess(t *testing.T) {
	t.Helper()
	if ts.proc == nil {
		t.Fatalf("no process running")
	}
	select {
	case <-ts.proc.Done():
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out waiting for process")
	}
	ts.drain()
	if ts.dirty {
		if err := ts.render(); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
}

func (ts *testSession) scrollText() []string {
	var out []string
	for _, line := range ts.scroll.Since(0) {
		out = append(out, line.Text)
	}
	return out
}

func (ts *testSession) linesOfKind(kind schema.LineKind) []string {
	var out []string
	for _, line := range ts.scroll.Since(0) {
		if line.Kind == kind {
			out = append(out, line.Text)
		}
	}
	return out
}

// codeFor returns the hint code of the first hint whose target text is text.
func (ts *testSession) codeFor(t *testing.T, kind schema.HintKind, region schema.SpanRegion, text string) string {
	t.Helper()
	for _, h := range ts.hints.Hints() {
		if h.Target.Kind != kind || h.Target.Span.Text != text {
			continue
		}
		if kind == schema.HintOutputSpan && h.Target.Span.Region != region {
			continue
		}
		return h.Code
	}
	t.Fatalf("no hint for %q", text)
	return ""
}

func contains(lines []string, want string) bool {
	for _, line := range lines {
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

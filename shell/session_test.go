package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"pkt.systems/vshell/internal/command"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

func TestCommandNotFoundReportsInline(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, "vshell-no-such-program --flag")
	ts.press(t, "enter")

	if ts.State() != schema.StateEditing {
		t.Fatalf("expected Editing, got %s", ts.State())
	}
	if ts.line.Len() != 0 {
		t.Fatalf("expected line cleared, got %q", ts.line.String())
	}
	cmds := ts.linesOfKind(schema.LineCommand)
	if len(cmds) != 1 || cmds[0] != "[vshell] $ vshell-no-such-program --flag" {
		t.Fatalf("unexpected echo: %q", cmds)
	}
	errs := ts.linesOfKind(schema.LineError)
	if len(errs) != 1 || !strings.Contains(errs[0], "command not found: vshell-no-such-program") {
		t.Fatalf("unexpected error lines: %q", errs)
	}
	if ts.history.Len() != 1 {
		t.Fatalf("expected line recorded in history, got %d entries", ts.history.Len())
	}
}

func TestRunStreamsOutputAndCopiesIt(t *testing.T) {
	requireBinary(t, "echo")
	ts := newTestSession(t)
	ts.typeText(t, "echo hello world")
	ts.press(t, "enter")
	if ts.State() != schema.StateRunning {
		t.Fatalf("expected Running, got %s", ts.State())
	}
	ts.waitProcess(t)

	if ts.State() != schema.StateEditing {
		t.Fatalf("expected Editing after exit, got %s", ts.State())
	}
	out := ts.linesOfKind(schema.LineStdout)
	if len(out) != 1 || out[0] != "hello world" {
		t.Fatalf("unexpected stdout: %q", out)
	}
	if len(ts.linesOfKind(schema.LineStatus)) != 0 {
		t.Fatalf("successful exit should not add a status line")
	}

	ts.command(t, "co")
	got, err := ts.clip.Paste()
	if err != nil || got != "hello world" {
		t.Fatalf("expected copied output, got %q, %v", got, err)
	}
	if !strings.Contains(ts.notice, "copied 11 characters") {
		t.Fatalf("unexpected notice %q", ts.notice)
	}
}

func TestNonZeroExitAddsStatusLine(t *testing.T) {
	requireBinary(t, "false")
	ts := newTestSession(t)
	ts.typeText(t, "false")
	ts.press(t, "enter")
	ts.waitProcess(t)

	status := ts.linesOfKind(schema.LineStatus)
	if len(status) != 1 || status[0] != "[exit status 1]" {
		t.Fatalf("unexpected status lines: %q", status)
	}
}

func TestInterruptReturnsToEditing(t *testing.T) {
	requireBinary(t, "sleep")
	ts := newTestSession(t)
	ts.typeText(t, "sleep 30")
	ts.press(t, "enter")
	if ts.State() != schema.StateRunning {
		t.Fatalf("expected Running, got %s", ts.State())
	}
	ts.press(t, "ctrl+c")
	if ts.State() != schema.StateEditing {
		t.Fatalf("expected Editing after interrupt, got %s", ts.State())
	}
	ts.waitProcess(t)
	if !contains(ts.linesOfKind(schema.LineStatus), "[interrupted]") {
		t.Fatalf("expected interrupted status, got %q", ts.scrollText())
	}
	if ts.proc != nil {
		t.Fatalf("expected process cleared")
	}
}

func TestSubmitWhileProcessLingersIsRejected(t *testing.T) {
	requireBinary(t, "sleep")
	ts := newTestSession(t)
	ts.typeText(t, "sleep 30")
	ts.press(t, "enter")
	ts.press(t, "ctrl+c")
	ts.runLine("echo again", "")
	if !contains(ts.linesOfKind(schema.LineError), schema.ErrProcessActive.Error()) {
		t.Fatalf("expected process-active error, got %q", ts.scrollText())
	}
	ts.waitProcess(t)
}

func TestShellExecuteUsesDelegate(t *testing.T) {
	requireBinary(t, "sh")
	ts := newTestSession(t)
	ts.command(t, "se sh echo $((1+2))")
	if ts.State() != schema.StateRunning {
		t.Fatalf("expected Running, got %s (%q)", ts.State(), ts.scrollText())
	}
	ts.waitProcess(t)

	cmds := ts.linesOfKind(schema.LineCommand)
	if len(cmds) != 1 || cmds[0] != "[sh] $ echo $((1+2))" {
		t.Fatalf("unexpected echo: %q", cmds)
	}
	if out := ts.linesOfKind(schema.LineStdout); len(out) != 1 || out[0] != "3" {
		t.Fatalf("unexpected stdout: %q", out)
	}
	if view := ts.history.DerivedView(); len(view) != 1 || view[0].Text != "echo $((1+2))" {
		t.Fatalf("unexpected history: %+v", view)
	}
}

func TestShellExecuteMissingDelegate(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, "ls")
	ts.command(t, "se vshell-missing-shell")
	if !contains(ts.linesOfKind(schema.LineError), "vshell-missing-shell") {
		t.Fatalf("expected delegate error, got %q", ts.scrollText())
	}
	if ts.State() != schema.StateEditing {
		t.Fatalf("expected Editing, got %s", ts.State())
	}
}

func TestCdBuiltinTracksDirectories(t *testing.T) {
	ts := newTestSession(t)
	var changed []string
	ts.chdir = func(dir string) error {
		changed = append(changed, dir)
		return nil
	}
	sub := filepath.Join(ts.dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ts.typeText(t, "cd sub")
	ts.press(t, "enter")
	if ts.cwd != sub {
		t.Fatalf("expected cwd %s, got %s", sub, ts.cwd)
	}
	if ts.dirs.Len() != 2 {
		t.Fatalf("expected 2 directories, got %d", ts.dirs.Len())
	}

	ts.typeText(t, "cd -")
	ts.press(t, "enter")
	if ts.cwd != ts.dir {
		t.Fatalf("expected cd - to return to %s, got %s", ts.dir, ts.cwd)
	}
	if len(changed) != 2 {
		t.Fatalf("expected two chdir calls, got %q", changed)
	}

	ts.typeText(t, "cd missing")
	ts.press(t, "enter")
	if !contains(ts.linesOfKind(schema.LineError), "cd:") {
		t.Fatalf("expected cd error, got %q", ts.scrollText())
	}
	if ts.cwd != ts.dir {
		t.Fatalf("failed cd changed cwd to %s", ts.cwd)
	}

	ts.command(t, "d 1")
	if ts.cwd != sub {
		t.Fatalf("expected :d 1 to enter %s, got %s", sub, ts.cwd)
	}
}

func TestHistoryNavigationKeepsDraft(t *testing.T) {
	ts := newTestSession(t)
	ts.history.Record("one")
	ts.history.Record("two")
	ts.typeText(t, "dr")

	ts.press(t, "up")
	if got := ts.line.String(); got != "two" {
		t.Fatalf("expected two, got %q", got)
	}
	ts.press(t, "up")
	if got := ts.line.String(); got != "one" {
		t.Fatalf("expected one, got %q", got)
	}
	ts.press(t, "up")
	if got := ts.line.String(); got != "one" {
		t.Fatalf("expected to stay on oldest entry, got %q", got)
	}
	ts.press(t, "down")
	ts.press(t, "down")
	if got := ts.line.String(); got != "dr" {
		t.Fatalf("expected draft restored, got %q", got)
	}
}

func TestPinKeyTogglesRecalledEntry(t *testing.T) {
	ts := newTestSession(t)
	ts.history.Record("first")
	ts.history.Record("second")

	ts.press(t, "up")
	ts.press(t, "up")
	ts.press(t, "ctrl+p")
	view := ts.history.DerivedView()
	if !view[0].Pinned || view[0].Text != "first" {
		t.Fatalf("expected first pinned at top, got %+v", view)
	}
	ts.press(t, "ctrl+p")
	view = ts.history.DerivedView()
	if view[0].Pinned || view[1].Pinned || view[0].Text != "second" {
		t.Fatalf("expected pin toggled off, got %+v", view)
	}

	ts.clearLine()
	ts.press(t, "ctrl+p")
	if !contains(ts.linesOfKind(schema.LineError), schema.ErrHistoryIndex.Error()) {
		t.Fatalf("expected pin without recall to fail, got %q", ts.scrollText())
	}
}

func TestSelectAndPinCommands(t *testing.T) {
	ts := newTestSession(t)
	ts.history.Record("alpha")
	ts.history.Record("beta")

	ts.command(t, "s 1")
	if got := ts.line.String(); got != "alpha" {
		t.Fatalf("expected alpha, got %q", got)
	}
	ts.command(t, "pin 1")
	if view := ts.history.DerivedView(); !view[0].Pinned || view[0].Text != "alpha" {
		t.Fatalf("expected alpha pinned, got %+v", view)
	}
	ts.command(t, "s 9")
	if !contains(ts.linesOfKind(schema.LineError), schema.ErrHistoryIndex.Error()) {
		t.Fatalf("expected index error, got %q", ts.scrollText())
	}
	ts.command(t, "s")
	if ts.line.Len() != 0 {
		t.Fatalf("expected :s without index to clear the line")
	}
}

func TestReplaceCommands(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, "a a a")
	ts.command(t, "rs a,b")
	if got := ts.line.String(); got != "b a a" {
		t.Fatalf("rs: got %q", got)
	}
	ts.command(t, "rg a,c")
	if got := ts.line.String(); got != "b c c" {
		t.Fatalf("rg: got %q", got)
	}
	ts.command(t, `rg c,x\,y`)
	if got := ts.line.String(); got != "b x,y x,y" {
		t.Fatalf("escaped comma: got %q", got)
	}
}

func TestContinuationInsertsNewline(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, `echo "abc`)
	ts.press(t, "enter")
	if got := ts.line.String(); got != "echo \"abc\n" {
		t.Fatalf("expected continuation newline, got %q", got)
	}
	if len(ts.scrollText()) != 0 {
		t.Fatalf("continuation should not run anything: %q", ts.scrollText())
	}
}

func TestExitKeyOnEmptyLineTerminates(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, "ab")
	ts.press(t, "home")
	ts.press(t, "ctrl+d")
	if got := ts.line.String(); got != "b" {
		t.Fatalf("expected delete forward, got %q", got)
	}
	ts.clearLine()
	ts.press(t, "ctrl+d")
	if ts.State() != schema.StateTerminated {
		t.Fatalf("expected Terminated, got %s", ts.State())
	}
}

func TestPromptCancelAndBackspace(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, "keep")
	ts.press(t, "esc")
	ts.typeText(t, "q")
	ts.press(t, "esc")
	if ts.prompt != nil || ts.State() != schema.StateEditing {
		t.Fatalf("expected prompt closed in Editing")
	}
	ts.press(t, "esc")
	ts.press(t, "backspace")
	if ts.prompt != nil {
		t.Fatalf("backspace on empty prompt should close it")
	}
	if got := ts.line.String(); got != "keep" {
		t.Fatalf("prompt must not touch the line, got %q", got)
	}
	ts.command(t, "nope")
	if !contains(ts.linesOfKind(schema.LineError), schema.ErrInvalidCommand.Error()) {
		t.Fatalf("expected invalid command error, got %q", ts.scrollText())
	}
}

func TestSubmittedColonLineRunsCommand(t *testing.T) {
	ts := newTestSession(t)
	ts.typeText(t, ":help")
	ts.press(t, "enter")
	info := ts.linesOfKind(schema.LineInfo)
	if !contains(info, ":se <shell> [line]") || !contains(info, command.LineEditingNote) {
		t.Fatalf("expected help output, got %q", ts.scrollText())
	}
	if ts.history.Len() != 0 {
		t.Fatalf("colon commands are not recorded in history")
	}
}

func TestPasteInsertsCleanedText(t *testing.T) {
	ts := newTestSession(t)
	if err := ts.clip.Copy("a\tb\x07\r\nc"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	ts.command(t, "p")
	if got := ts.line.String(); got != "a b\nc" {
		t.Fatalf("unexpected paste %q", got)
	}
}

func TestRenderFailureIsFatal(t *testing.T) {
	ts := newTestSession(t)
	ts.screen.err = errors.New("broken pipe")
	err := ts.render()
	if !errors.Is(err, schema.ErrRender) {
		t.Fatalf("expected render error, got %v", err)
	}
}

func TestRunReturnsOnQuitCommand(t *testing.T) {
	defer goleak.VerifyNone(t)
	ts := newTestSession(t)
	keys := make(chan terminal.Event, 8)
	for _, k := range []terminal.Key{
		{Kind: terminal.KeyEsc},
		{Kind: terminal.KeyRune, R: 'q'},
		{Kind: terminal.KeyEnter},
	} {
		keys <- terminal.Event{Key: k}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ts.Run(ctx, keys, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ts.State() != schema.StateTerminated {
		t.Fatalf("expected Terminated, got %s", ts.State())
	}
	if ctx.Err() != nil {
		t.Fatalf("run returned only after the deadline")
	}
}

func TestRunReturnsWhenKeysClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	ts := newTestSession(t)
	keys := make(chan terminal.Event, 2)
	keys <- terminal.Event{Err: &schema.InputError{Bytes: []byte{0x1b, '['}}}
	close(keys)
	if err := ts.Run(context.Background(), keys, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ts.State() != schema.StateEditing {
		t.Fatalf("input errors must not change state, got %s", ts.State())
	}
}

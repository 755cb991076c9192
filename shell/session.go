// Package shell is the interactive session controller: it owns the line
// buffer, histories, scrollback and the foreground process, dispatches keys
// by state and renders every frame.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/vshell/core"
	"pkt.systems/vshell/internal/appconfig"
	"pkt.systems/vshell/internal/clipboard"
	"pkt.systems/vshell/internal/executor"
	"pkt.systems/vshell/internal/hint"
	"pkt.systems/vshell/internal/logx"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

// Screen is the drawing surface of a session.
type Screen interface {
	Size() (int, int)
	Render(frame terminal.Frame) error
}

// Options configures a Session.
type Options struct {
	Config    appconfig.Config
	Screen    Screen
	Executor  *executor.Executor
	Clipboard clipboard.Sink
	// Dir is the starting working directory; defaults to os.Getwd.
	Dir string
	// Home is used by cd; defaults to os.UserHomeDir.
	Home string
	// Chdir changes the process working directory; defaults to os.Chdir.
	Chdir func(string) error
}

// Session is one interactive shell session. All fields are owned by the
// goroutine running Run.
type Session struct {
	cfg      appconfig.Config
	screen   Screen
	exec     *executor.Executor
	queue    *executor.Queue
	clip     clipboard.Sink
	theme    theme
	bindings map[string]action
	alphabet hint.Alphabet
	chdir    func(string) error

	ctx   context.Context
	state schema.State

	line    *core.LineBuffer
	history *core.History
	dirs    *core.Directories
	scroll  *core.Scrollback

	cwd     string
	prevDir string
	home    string

	proc        *executor.Session
	outputStart schema.LineID
	lastOutput  [2]schema.LineID

	hints       *hint.Set
	hintMode    schema.HintMode
	hintTyped   string
	hintReturn  schema.State
	alwaysHints bool
	search      string
	searchCase  bool

	histCursor int
	histEntry  schema.EntryID
	draft      string

	editSaved *savedLine
	prompt    *core.LineBuffer
	notice    string

	width      int
	height     int
	viewRows   int
	spinnerIdx int
	dirty      bool
}

type savedLine struct {
	text   string
	cursor int
}

// New builds a session from opts.
func New(opts Options) (*Session, error) {
	if opts.Screen == nil {
		return nil, errors.New("shell: screen is required")
	}
	cfg := opts.Config
	alphabet, err := hint.NewAlphabet(cfg.Hints.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("hints.alphabet: %w", err)
	}
	bindings, err := buildBindings(cfg.Keys)
	if err != nil {
		return nil, err
	}
	exec := opts.Executor
	if exec == nil {
		exec = executor.New(executor.Config{Delegate: cfg.Shell.Delegate, DelegateArgs: cfg.Shell.DelegateArgs}, nil)
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.Default()
	}
	dir := opts.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
	}
	home := opts.Home
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	chdir := opts.Chdir
	if chdir == nil {
		chdir = os.Chdir
	}
	name, _ := schema.NormalizeThemeName(cfg.Theme)
	s := &Session{
		cfg:         cfg,
		screen:      opts.Screen,
		exec:        exec,
		queue:       exec.Queue(),
		clip:        clip,
		theme:       themeForName(name),
		bindings:    bindings,
		alphabet:    alphabet,
		chdir:       chdir,
		ctx:         context.Background(),
		state:       schema.StateEditing,
		line:        core.NewLineBuffer(cfg.Input.MaxRunes),
		history:     core.NewHistory(cfg.History.MaxEntries),
		dirs:        core.NewDirectories(cfg.Directories.MaxEntries),
		scroll:      core.NewScrollback(cfg.Scrollback.MaxLines),
		cwd:         filepath.Clean(dir),
		home:        home,
		alwaysHints: cfg.Hints.AlwaysShow,
		searchCase:  cfg.Search.CaseSensitive,
		histCursor:  -1,
	}
	s.dirs.Record(s.cwd)
	return s, nil
}

// State returns the current controller state.
func (s *Session) State() schema.State {
	return s.state
}

func (s *Session) log() pslog.Logger {
	return logx.WithState(pslog.Ctx(s.ctx), s.state)
}

func (s *Session) setState(next schema.State) {
	if next == s.state {
		return
	}
	s.log().Debug("shell state", "next", next.String())
	s.state = next
	s.dirty = true
}

// Run drives the session until the exit command, the end of keys, or ctx.
// It returns a non-nil error only when the session cannot continue, such as
// when the terminal can no longer be drawn.
func (s *Session) Run(ctx context.Context, keys <-chan terminal.Event, resize <-chan struct{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx = ctx
	defer s.stopProcess()

	s.width, s.height = s.screen.Size()
	s.log().Info("shell start", "width", s.width, "height", s.height, "delegate", s.exec.Delegate(), "dir", s.cwd)
	if err := s.render(); err != nil {
		return err
	}

	spinnerTicker := time.NewTicker(250 * time.Millisecond)
	defer spinnerTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log().Info("shell exit", "reason", "context")
			return nil
		case ev, ok := <-keys:
			if !ok {
				s.log().Info("shell exit", "reason", "input closed")
				return nil
			}
			s.handleEvent(ev)
		case <-s.queue.Notify():
			s.drain()
		case _, ok := <-resize:
			if !ok {
				resize = nil
				break
			}
			s.width, s.height = s.screen.Size()
			s.dirty = true
			s.log().Debug("shell resize", "width", s.width, "height", s.height)
		case <-spinnerTicker.C:
			if s.state == schema.StateRunning {
				s.spinnerIdx = (s.spinnerIdx + 1) % len(spinnerFrames)
				s.dirty = true
			}
		}

		if s.state == schema.StateTerminated {
			s.log().Info("shell exit", "reason", "command")
			return nil
		}
		if s.dirty {
			if err := s.render(); err != nil {
				return err
			}
		}
	}
}

func (s *Session) handleEvent(ev terminal.Event) {
	if ev.Err != nil {
		s.log().Debug("shell input ignored", "err", ev.Err)
		return
	}
	s.handleKey(ev.Key)
}

// drain moves queued process output into the scrollback.
func (s *Session) drain() {
	for _, item := range s.queue.Drain() {
		if s.proc == nil || item.Session != s.proc.ID {
			continue
		}
		if item.Fragment != nil {
			frag := *item.Fragment
			frag.Text = terminal.Sanitize(frag.Text)
			s.scroll.AppendFragment(frag)
		}
		if item.Exit != nil {
			s.finishProcess(*item.Exit)
		}
		s.dirty = true
	}
}

func (s *Session) finishProcess(status schema.ExitStatus) {
	s.scroll.CloseFragment()
	if line := statusLine(status); line != "" {
		s.scroll.Append(schema.LineStatus, line)
	}
	s.lastOutput = [2]schema.LineID{s.outputStart, s.scroll.NextID()}
	logx.WithSession(s.log(), s.proc.ID).Info("shell process finished", "code", status.Code, "interrupted", status.Interrupted)
	s.proc = nil
	if s.state == schema.StateRunning {
		s.setState(schema.StateEditing)
	}
}

func statusLine(status schema.ExitStatus) string {
	switch {
	case status.Interrupted:
		return "[interrupted]"
	case status.Signal != "":
		return fmt.Sprintf("[killed by %s]", status.Signal)
	case status.Err != nil:
		return fmt.Sprintf("[failed: %v]", status.Err)
	case status.Code != 0:
		return fmt.Sprintf("[exit status %d]", status.Code)
	}
	return ""
}

// stopProcess kills a foreground process left behind when the session ends.
func (s *Session) stopProcess() {
	if s.proc == nil {
		return
	}
	_ = s.proc.Kill()
	select {
	case <-s.proc.Done():
	case <-time.After(3 * time.Second):
		s.log().Warn("shell process did not exit", "session", s.proc.ID)
	}
	s.proc = nil
}

func (s *Session) render() error {
	frame, set := s.compose()
	s.hints = s.reconcileHints(set)
	s.dirty = false
	if err := s.screen.Render(frame); err != nil {
		if !isFatal(err) {
			err = &schema.RenderError{Err: err}
		}
		s.log().Error("shell render failed", "err", err)
		return err
	}
	return nil
}

// isFatal reports whether err ends the session.
func isFatal(err error) bool {
	return errors.Is(err, schema.ErrRender)
}

// reportError renders a recoverable error inline.
func (s *Session) reportError(err error) {
	if err == nil {
		return
	}
	s.log().Warn("shell command failed", "err", err)
	s.scroll.Append(schema.LineError, "error: "+terminal.Sanitize(err.Error()))
	s.scroll.ResetScroll()
	s.dirty = true
}

func (s *Session) info(lines ...string) {
	for _, line := range lines {
		s.scroll.Append(schema.LineInfo, line)
	}
	s.scroll.ResetScroll()
	s.dirty = true
}

func (s *Session) warn(msg string) {
	s.notice = msg
	s.dirty = true
}

// liveState exposes current session data to hint validation.
type liveState struct {
	s *Session
}

func (l liveState) HistoryEntry(id schema.EntryID) (schema.HistoryEntry, int, bool) {
	return l.s.history.Lookup(id)
}

func (l liveState) DirectoryEntry(id schema.EntryID) (schema.DirectoryEntry, int, bool) {
	return l.s.dirs.Lookup(id)
}

func (l liveState) ScrollbackLine(id schema.LineID) (string, bool) {
	line, ok := l.s.scroll.Lookup(id)
	return line.Text, ok
}

func (l liveState) InputText() string {
	return l.s.line.String()
}

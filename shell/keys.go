package shell

import (
	"errors"
	"fmt"
	"strings"

	"pkt.systems/vshell/internal/appconfig"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

type action int

const (
	actNone action = iota
	actSubmit
	actNewline
	actInterrupt
	actExit
	actHistoryUp
	actHistoryDown
	actToggleHints
	actJumpBefore
	actJumpAfter
	actCopyHint
	actEditHint
	actPin
	actCancel
)

var actionNames = map[string]action{
	"submit":       actSubmit,
	"newline":      actNewline,
	"interrupt":    actInterrupt,
	"exit":         actExit,
	"history_up":   actHistoryUp,
	"history_down": actHistoryDown,
	"toggle_hints": actToggleHints,
	"jump_before":  actJumpBefore,
	"jump_after":   actJumpAfter,
	"copy_hint":    actCopyHint,
	"edit_hint":    actEditHint,
	"pin":          actPin,
	"cancel":       actCancel,
}

func buildBindings(keys appconfig.KeysConfig) (map[string]action, error) {
	out := make(map[string]action)
	for _, binding := range keys.Bindings() {
		key, err := terminal.ParseKeyName(binding[1])
		if err != nil {
			return nil, fmt.Errorf("keys.%s: %w", binding[0], err)
		}
		name := key.Name()
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("keys.%s: %s is already bound", binding[0], name)
		}
		out[name] = actionNames[binding[0]]
	}
	return out, nil
}

var spinnerFrames = []rune{'|', '/', '-', '\\'}

func (s *Session) handleKey(k terminal.Key) {
	act := s.bindings[k.Name()]
	s.dirty = true
	if s.prompt != nil {
		s.handlePromptKey(k, act)
		return
	}
	switch s.state {
	case schema.StateRunning:
		s.handleRunningKey(k, act)
	case schema.StateHintSelecting:
		s.handleHintKey(k, act)
	case schema.StateEditing, schema.StateEditingHint:
		s.handleEditKey(k, act)
	}
}

func (s *Session) handleRunningKey(k terminal.Key, act action) {
	switch {
	case act == actInterrupt:
		s.interrupt()
	case k.Kind == terminal.KeyPageUp:
		s.scroll.Scroll(s.pageSize(), s.viewRows)
	case k.Kind == terminal.KeyPageDown:
		s.scroll.Scroll(-s.pageSize(), s.viewRows)
	}
}

// interrupt signals the foreground process and returns to Editing while its
// remaining output drains.
func (s *Session) interrupt() {
	if s.proc == nil {
		return
	}
	if err := s.proc.Interrupt(); err != nil && !errors.Is(err, schema.ErrNoProcess) {
		s.warn("interrupt failed: " + err.Error())
	}
	s.log().Info("shell interrupt", "session", s.proc.ID)
	s.setState(schema.StateEditing)
}

func (s *Session) handleEditKey(k terminal.Key, act action) {
	switch act {
	case actSubmit:
		s.submit()
		return
	case actNewline:
		s.insert("\n")
		return
	case actInterrupt:
		if s.proc != nil {
			_ = s.proc.Kill()
			s.warn("killed lingering process")
			return
		}
		s.clearLine()
		s.setState(schema.StateEditing)
		return
	case actExit:
		if s.line.Len() == 0 {
			s.setState(schema.StateTerminated)
			return
		}
		s.line.DeleteForward()
		s.edited()
		return
	case actHistoryUp:
		if !s.line.MoveUp() {
			s.historyUp()
		}
		return
	case actHistoryDown:
		if !s.line.MoveDown() {
			s.historyDown()
		}
		return
	case actToggleHints:
		s.beginHints(schema.HintActivate)
		return
	case actJumpBefore:
		s.beginHints(schema.HintJumpBefore)
		return
	case actJumpAfter:
		s.beginHints(schema.HintJumpAfter)
		return
	case actCopyHint:
		s.beginHints(schema.HintCopy)
		return
	case actEditHint:
		s.beginHints(schema.HintEdit)
		return
	case actPin:
		s.reportError(s.pinRecalled())
		return
	case actCancel:
		if s.state == schema.StateEditingHint {
			s.abandonEdit()
			return
		}
		s.openPrompt()
		return
	}
	switch k.Kind {
	case terminal.KeyRune:
		s.insert(string(k.R))
	case terminal.KeyBackspace:
		s.line.DeleteBackward()
		s.edited()
	case terminal.KeyDelete:
		s.line.DeleteForward()
		s.edited()
	case terminal.KeyLeft:
		s.line.MoveCursor(-1)
	case terminal.KeyRight:
		s.line.MoveCursor(1)
	case terminal.KeyHome:
		s.line.MoveStart()
	case terminal.KeyEnd:
		s.line.MoveEnd()
	case terminal.KeyPageUp:
		s.scroll.Scroll(s.pageSize(), s.viewRows)
	case terminal.KeyPageDown:
		s.scroll.Scroll(-s.pageSize(), s.viewRows)
	case terminal.KeyCtrl:
		switch k.R {
		case 'a':
			s.line.MoveStart()
		case 'w':
			s.line.DeleteWordBackward()
			s.edited()
		case 'u':
			s.line.KillLineStart()
			s.edited()
		case 'k':
			s.line.KillLineEnd()
			s.edited()
		case 'l':
			s.scroll.Clear()
		}
	case terminal.KeyAlt:
		switch k.R {
		case 'b':
			s.line.MoveWordLeft()
		case 'f':
			s.line.MoveWordRight()
		}
	}
}

func (s *Session) insert(text string) {
	if err := s.line.Insert(text); err != nil {
		s.warn(err.Error())
	}
	s.edited()
}

// edited marks the line as diverged from any recalled history entry.
func (s *Session) edited() {
	s.histCursor = -1
	s.scroll.ResetScroll()
}

func (s *Session) clearLine() {
	s.line.Clear()
	s.histCursor = -1
	s.histEntry = 0
	s.editSaved = nil
	s.notice = ""
}

func (s *Session) pageSize() int {
	if s.viewRows > 1 {
		return s.viewRows - 1
	}
	return 1
}

func (s *Session) historyUp() {
	view := s.history.DerivedView()
	if len(view) == 0 {
		return
	}
	if s.histCursor == -1 {
		s.draft = s.line.String()
	}
	if s.histCursor < len(view)-1 {
		s.histCursor++
	}
	s.recall(view[s.histCursor])
}

func (s *Session) historyDown() {
	if s.histCursor == -1 {
		return
	}
	s.histCursor--
	if s.histCursor == -1 {
		_ = s.line.SetText(s.draft)
		s.histEntry = 0
		return
	}
	view := s.history.DerivedView()
	if s.histCursor >= len(view) {
		s.histCursor = len(view) - 1
	}
	if s.histCursor < 0 {
		return
	}
	s.recall(view[s.histCursor])
}

func (s *Session) recall(entry schema.HistoryEntry) {
	_ = s.line.SetText(entry.Text)
	s.histEntry = entry.ID
	s.log().Trace("shell history recall", "index", s.histCursor)
}

func (s *Session) pinRecalled() error {
	if s.histEntry == 0 {
		return fmt.Errorf("%w: no history entry recalled", schema.ErrHistoryIndex)
	}
	entry, err := s.history.TogglePinID(s.histEntry)
	if err != nil {
		return err
	}
	if _, idx, ok := s.history.Lookup(entry.ID); ok && s.histCursor != -1 {
		s.histCursor = idx
	}
	s.log().Debug("shell pin", "pinned", entry.Pinned)
	return nil
}

func (s *Session) abandonEdit() {
	if s.editSaved != nil {
		_ = s.line.SetText(s.editSaved.text)
		s.line.SetCursor(s.editSaved.cursor)
	}
	s.editSaved = nil
	s.setState(schema.StateEditing)
}

// beginEdit remembers the line so the cancel key can restore it.
func (s *Session) beginEdit() {
	if s.state != schema.StateEditingHint || s.editSaved == nil {
		s.editSaved = &savedLine{text: s.line.String(), cursor: s.line.Cursor()}
	}
	s.setState(schema.StateEditingHint)
}

func (s *Session) openPrompt() {
	s.prompt = newPromptBuffer()
	s.notice = ""
}

func (s *Session) handlePromptKey(k terminal.Key, act action) {
	switch {
	case act == actSubmit:
		text := s.prompt.String()
		s.prompt = nil
		if strings.TrimSpace(text) != "" {
			s.runCommandLine(":" + text)
		}
		return
	case act == actCancel || act == actInterrupt:
		s.prompt = nil
		return
	}
	switch k.Kind {
	case terminal.KeyRune:
		if err := s.prompt.InsertRune(k.R); err != nil {
			s.warn(err.Error())
		}
	case terminal.KeyBackspace:
		if s.prompt.Len() == 0 {
			s.prompt = nil
			return
		}
		s.prompt.DeleteBackward()
	case terminal.KeyDelete:
		s.prompt.DeleteForward()
	case terminal.KeyLeft:
		s.prompt.MoveCursor(-1)
	case terminal.KeyRight:
		s.prompt.MoveCursor(1)
	case terminal.KeyHome:
		s.prompt.MoveStart()
	case terminal.KeyEnd:
		s.prompt.MoveEnd()
	case terminal.KeyCtrl:
		switch k.R {
		case 'a':
			s.prompt.MoveStart()
		case 'w':
			s.prompt.DeleteWordBackward()
		case 'u':
			s.prompt.KillLineStart()
		}
	}
}

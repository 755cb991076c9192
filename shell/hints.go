package shell

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"pkt.systems/vshell/core"
	"pkt.systems/vshell/internal/hint"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

func (s *Session) beginHints(mode schema.HintMode) {
	if s.hints.Len() == 0 {
		s.warn("nothing to select")
		return
	}
	s.hintMode = mode
	s.hintTyped = ""
	s.hintReturn = s.state
	s.notice = ""
	s.setState(schema.StateHintSelecting)
}

func (s *Session) endHints() {
	s.hintTyped = ""
	next := s.hintReturn
	if next != schema.StateEditingHint {
		next = schema.StateEditing
	}
	s.setState(next)
}

func (s *Session) handleHintKey(k terminal.Key, act action) {
	switch act {
	case actCancel, actToggleHints, actInterrupt:
		s.endHints()
		return
	case actJumpBefore:
		s.hintMode = schema.HintJumpBefore
		return
	case actJumpAfter:
		s.hintMode = schema.HintJumpAfter
		return
	case actCopyHint:
		s.hintMode = schema.HintCopy
		return
	case actEditHint:
		s.hintMode = schema.HintEdit
		return
	}
	switch k.Kind {
	case terminal.KeyBackspace:
		if s.hintTyped != "" {
			runes := []rune(s.hintTyped)
			s.hintTyped = string(runes[:len(runes)-1])
		}
	case terminal.KeyRune:
		r := unicode.ToLower(k.R)
		if !s.alphabet.Contains(r) {
			s.warn(fmt.Sprintf("%q is not a hint letter", k.R))
			return
		}
		typed := s.hintTyped + string(r)
		if len(s.hints.Matching(typed)) == 0 {
			s.hintTyped = ""
			s.warn((&schema.UnknownHintError{Code: typed}).Error())
			return
		}
		s.hintTyped = typed
		if len([]rune(typed)) < s.hints.CodeLength() {
			return
		}
		mode := s.hintMode
		s.endHints()
		if err := s.activate(typed, mode); err != nil {
			s.hintFailed(err)
		}
	}
}

func (s *Session) hintFailed(err error) {
	if errors.Is(err, schema.ErrUnknownHint) {
		s.log().Debug("shell hint activate failed", "err", err)
		s.warn(err.Error())
		return
	}
	if errors.Is(err, schema.ErrClipboard) {
		s.log().Warn("shell clipboard failed", "err", err)
		s.warn("warning: " + err.Error())
		return
	}
	s.reportError(err)
}

// activate resolves code against the hints of the last rendered frame and
// applies the effect selected by mode.
func (s *Session) activate(code string, mode schema.HintMode) error {
	target, err := s.hints.Activate(code, liveState{s})
	if err != nil {
		return err
	}
	s.log().Debug("shell hint activate", "kind", target.Kind.String(), "mode", mode.String())
	switch target.Kind {
	case schema.HintHistoryJump:
		return s.applyHistory(target, mode)
	case schema.HintDirectoryJump:
		return s.applyDirectory(target, mode)
	case schema.HintOutputSpan:
		if target.Span.Region == schema.RegionInput {
			return s.applyInputSpan(target.Span, mode)
		}
		return s.applyOutputSpan(target.Span, mode)
	}
	return &schema.UnknownHintError{Code: code, Reason: "unknown target"}
}

func (s *Session) applyHistory(target schema.HintTarget, mode schema.HintMode) error {
	text := target.Span.Text
	switch mode {
	case schema.HintCopy:
		return s.copyText(text)
	case schema.HintEdit:
		s.beginEdit()
	}
	if err := s.line.SetText(text); err != nil {
		s.warn(err.Error())
	}
	if mode == schema.HintJumpBefore {
		s.line.MoveStart()
	}
	s.histCursor = target.Index
	s.histEntry = target.EntryID
	return nil
}

func (s *Session) applyDirectory(target schema.HintTarget, mode schema.HintMode) error {
	path := target.Span.Text
	switch mode {
	case schema.HintCopy:
		return s.copyText(path)
	case schema.HintEdit:
		s.beginEdit()
		if err := s.line.SetText("cd " + quoteArg(path)); err != nil {
			s.warn(err.Error())
		}
		return nil
	case schema.HintJumpBefore, schema.HintJumpAfter:
		s.insertAround(quoteArg(path), mode)
		return nil
	}
	s.echo("cd "+quoteArg(path), "vshell")
	return s.changeDir(path)
}

func (s *Session) applyInputSpan(span schema.Span, mode schema.HintMode) error {
	text := s.line.String()
	switch mode {
	case schema.HintCopy:
		return s.copyText(span.Text)
	case schema.HintEdit:
		s.beginEdit()
		s.line.DeleteRange(core.RuneIndex(text, span.Start), core.RuneIndex(text, span.End))
		return nil
	case schema.HintJumpBefore:
		s.line.SetCursorByte(span.Start)
	default:
		s.line.SetCursorByte(span.End)
	}
	return nil
}

func (s *Session) applyOutputSpan(span schema.Span, mode schema.HintMode) error {
	switch mode {
	case schema.HintCopy:
		return s.copyText(span.Text)
	case schema.HintEdit:
		s.beginEdit()
		if err := s.line.SetText(span.Text); err != nil {
			s.warn(err.Error())
		}
		return nil
	}
	s.insertAround(span.Text, mode)
	return nil
}

// insertAround inserts text at the cursor, separated from an adjacent word
// by a space. JumpBefore leaves the cursor in front of the inserted text.
func (s *Session) insertAround(text string, mode schema.HintMode) {
	line := []rune(s.line.String())
	cur := s.line.Cursor()
	if cur > 0 && !unicode.IsSpace(line[cur-1]) {
		text = " " + text
	}
	if cur < len(line) && !unicode.IsSpace(line[cur]) {
		text += " "
	}
	if err := s.line.Insert(text); err != nil {
		s.warn(err.Error())
	}
	if mode == schema.HintJumpBefore {
		s.line.SetCursor(cur)
	}
	s.edited()
}

// changeRange deletes the input words addressed by two codes, inclusive of
// everything between them, and starts an in-place edit there.
func (s *Session) changeRange(first, last string) error {
	a, err := s.hints.Activate(first, liveState{s})
	if err != nil {
		return err
	}
	b, err := s.hints.Activate(last, liveState{s})
	if err != nil {
		return err
	}
	if !isInputSpan(a) || !isInputSpan(b) {
		return fmt.Errorf("%w: a range must address words of the line", schema.ErrInvalidCommand)
	}
	start, end := a.Span.Start, b.Span.End
	if b.Span.Start < a.Span.Start {
		start, end = b.Span.Start, a.Span.End
	}
	text := s.line.String()
	s.beginEdit()
	s.line.DeleteRange(core.RuneIndex(text, start), core.RuneIndex(text, end))
	return nil
}

func isInputSpan(t schema.HintTarget) bool {
	return t.Kind == schema.HintOutputSpan && t.Span.Region == schema.RegionInput
}

func (s *Session) copyText(text string) error {
	if err := s.clip.Copy(text); err != nil {
		return err
	}
	s.warn(fmt.Sprintf("copied %d characters", len([]rune(text))))
	return nil
}

// reconcileHints installs the hints of a new frame. While a code is being
// typed, a change in the assignment restarts the code so a prefix typed
// against the old frame is never completed against the new one.
func (s *Session) reconcileHints(next *hint.Set) *hint.Set {
	if s.state == schema.StateHintSelecting && s.hintTyped != "" && !sameHints(s.hints, next) {
		s.hintTyped = ""
		s.notice = "hints moved; type the code again"
	}
	return next
}

func sameHints(a, b *hint.Set) bool {
	ah, bh := a.Hints(), b.Hints()
	if len(ah) != len(bh) {
		return false
	}
	for i := range ah {
		if ah[i].Code != bh[i].Code || ah[i].Target != bh[i].Target {
			return false
		}
	}
	return true
}

func quoteArg(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\n'\"\\$`") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

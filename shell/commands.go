package shell

import (
	"errors"
	"fmt"
	"strings"

	"pkt.systems/vshell/core"
	"pkt.systems/vshell/internal/command"
	"pkt.systems/vshell/schema"
)

const promptMaxRunes = 4096

func newPromptBuffer() *core.LineBuffer {
	return core.NewLineBuffer(promptMaxRunes)
}

// runCommandLine executes a colon command. Hint failures are shown as a
// notice; everything else is reported inline.
func (s *Session) runCommandLine(line string) {
	cmd, _ := command.Parse(line)
	s.log().Debug("shell command", "name", cmd.Name)
	err := s.runCommand(cmd)
	if err == nil {
		return
	}
	if errors.Is(err, schema.ErrUnknownHint) || errors.Is(err, schema.ErrClipboard) {
		s.hintFailed(err)
		return
	}
	s.reportError(err)
}

func (s *Session) runCommand(cmd command.Command) error {
	kind, err := command.Resolve(cmd)
	if err != nil {
		return err
	}
	switch kind {
	case command.Quit:
		s.setState(schema.StateTerminated)
	case command.Select:
		n, ok, err := command.Index(cmd)
		if err != nil {
			return err
		}
		if !ok {
			s.clearLine()
			return nil
		}
		text, err := s.history.Select(n)
		if err != nil {
			return err
		}
		if err := s.line.SetText(text); err != nil {
			s.warn(err.Error())
		}
		s.histCursor = n
		s.histEntry = s.history.DerivedView()[n].ID
	case command.Pin:
		n, ok, err := command.Index(cmd)
		if err != nil {
			return err
		}
		if !ok {
			return s.pinRecalled()
		}
		_, err = s.history.TogglePin(n)
		return err
	case command.Dir:
		n, ok, err := command.Index(cmd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: usage :d <n>", schema.ErrInvalidCommand)
		}
		path, err := s.dirs.Select(n)
		if err != nil {
			return err
		}
		s.echo("cd "+quoteArg(path), "vshell")
		return s.changeDir(path)
	case command.JumpBefore, command.JumpAfter:
		mode := schema.HintJumpBefore
		if kind == command.JumpAfter {
			mode = schema.HintJumpAfter
		}
		codes := command.SplitCodes(cmd.Args)
		if len(codes) == 0 {
			if mode == schema.HintJumpBefore {
				s.line.MoveStart()
			} else {
				s.line.MoveEnd()
			}
			return nil
		}
		return s.activate(codes[0], mode)
	case command.Change:
		codes := command.SplitCodes(cmd.Args)
		switch len(codes) {
		case 1:
			return s.activate(codes[0], schema.HintEdit)
		case 2:
			return s.changeRange(codes[0], codes[1])
		}
		return fmt.Errorf("%w: usage :c <code>[,<code>]", schema.ErrInvalidCommand)
	case command.Copy:
		codes := command.SplitCodes(cmd.Args)
		if len(codes) != 1 {
			return fmt.Errorf("%w: usage :y <code>", schema.ErrInvalidCommand)
		}
		return s.activate(codes[0], schema.HintCopy)
	case command.CopyOutput:
		text, ok := s.lastCommandOutput()
		if !ok {
			return fmt.Errorf("%w: no command output to copy", schema.ErrInvalidCommand)
		}
		return s.copyText(text)
	case command.Paste:
		text, err := s.clip.Paste()
		if err != nil {
			return err
		}
		s.insert(cleanPaste(text))
	case command.ToggleHints:
		s.alwaysHints = !s.alwaysHints
	case command.ShellExecute:
		if len(cmd.Args) == 0 {
			return fmt.Errorf("%w: usage :se <shell> [line]", schema.ErrInvalidCommand)
		}
		line := command.RemainderAfter(cmd, 1)
		if line == "" {
			line = s.line.String()
			if strings.TrimSpace(line) == "" {
				return fmt.Errorf("%w: nothing to run", schema.ErrEmptyCommand)
			}
			s.clearLine()
		}
		s.history.Record(line)
		s.runLine(line, cmd.Args[0])
	case command.ReplaceSingle, command.ReplaceGlobal:
		from, to, ok := command.SplitPair(cmd.Remainder)
		if !ok || from == "" {
			return fmt.Errorf("%w: usage :%s <from>,<to>", schema.ErrInvalidCommand, cmd.Name)
		}
		scope := core.ScopeFirst
		if kind == command.ReplaceGlobal {
			scope = core.ScopeAll
		}
		replaced := core.Replace(s.line.String(), from, to, scope)
		if err := s.line.SetText(replaced); err != nil {
			s.warn(err.Error())
		}
		s.edited()
	case command.Find, command.FindCase:
		s.search = cmd.Remainder
		s.searchCase = kind == command.FindCase || s.cfg.Search.CaseSensitive
	case command.Clear:
		s.scroll.Clear()
	case command.Help:
		s.info(command.HelpLines()...)
	}
	return nil
}

// lastCommandOutput joins what is still retained of the previous command's
// stdout and stderr.
func (s *Session) lastCommandOutput() (string, bool) {
	from, to := s.lastOutput[0], s.lastOutput[1]
	if from == 0 || to <= from {
		return "", false
	}
	var lines []string
	for _, line := range s.scroll.Since(from) {
		if line.ID >= to {
			break
		}
		if line.Kind == schema.LineStdout || line.Kind == schema.LineStderr {
			lines = append(lines, line.Text)
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// cleanPaste keeps newlines, turns tabs into spaces and drops other control
// characters so pasted text lays out like typed text.
func cleanPaste(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, text)
}

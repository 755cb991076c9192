package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"pkt.systems/vshell/core"
	"pkt.systems/vshell/internal/command"
	"pkt.systems/vshell/internal/executor"
	"pkt.systems/vshell/internal/logx"
	"pkt.systems/vshell/schema"
)

// submit handles the submit key in Editing and EditingHint.
func (s *Session) submit() {
	raw := s.line.String()
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		s.clearLine()
		s.setState(schema.StateEditing)
		return
	}
	if core.NeedsContinuation(raw) {
		s.line.MoveEnd()
		s.insert("\n")
		return
	}
	s.clearLine()
	s.setState(schema.StateEditing)
	s.scroll.ResetScroll()
	if _, ok := command.Parse(raw); ok {
		s.runCommandLine(raw)
		return
	}
	s.history.Record(raw)
	s.runLine(raw, "")
}

// runLine executes one command line, through delegate when it is set.
func (s *Session) runLine(line, delegate string) {
	log := logx.WithCommand(s.log(), line)
	log.Info("shell submit")
	if s.proc != nil {
		s.reportError(fmt.Errorf("%w: wait for the previous command or press interrupt again", schema.ErrProcessActive))
		return
	}
	if args, ok := cdArgs(line); ok && delegate == "" {
		s.echo(line, executor.DirectOrigin)
		s.reportError(s.builtinCd(args))
		return
	}
	origin := executor.DirectOrigin
	if delegate != "" {
		origin = filepath.Base(delegate)
	} else if d := s.exec.Delegate(); d != "" {
		origin = filepath.Base(d)
	}
	s.echo(line, origin)
	s.outputStart = s.scroll.NextID()
	proc, err := s.exec.Execute(s.ctx, executor.Request{Line: line, Delegate: delegate, Dir: s.cwd})
	if err != nil {
		s.reportError(err)
		return
	}
	s.proc = proc
	s.spinnerIdx = 0
	s.setState(schema.StateRunning)
}

// echo records a submitted line in the scrollback, tagged with where it runs.
func (s *Session) echo(line, origin string) {
	tag := fmt.Sprintf("[%s] $ ", origin)
	indent := strings.Repeat(" ", len(tag))
	s.scroll.Append(schema.LineCommand, tag+strings.ReplaceAll(line, "\n", "\n"+indent))
}

// cdArgs reports whether line invokes the cd builtin and returns its
// arguments.
func cdArgs(line string) ([]string, bool) {
	words, err := shlex.Split(line)
	if err != nil || len(words) == 0 || words[0] != "cd" {
		return nil, false
	}
	return words[1:], true
}

func (s *Session) builtinCd(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("cd: too many arguments")
	}
	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	switch {
	case target == "" || target == "~":
		if s.home == "" {
			return fmt.Errorf("cd: could not find home directory")
		}
		target = s.home
	case target == "-":
		if s.prevDir == "" {
			return fmt.Errorf("cd: no previous directory")
		}
		target = s.prevDir
	case strings.HasPrefix(target, "~/"):
		target = filepath.Join(s.home, target[2:])
	}
	return s.changeDir(target)
}

func (s *Session) changeDir(target string) error {
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.cwd, target)
	}
	target = filepath.Clean(target)
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cd: %s: not a directory", target)
	}
	if err := s.chdir(target); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	if target != s.cwd {
		s.prevDir = s.cwd
	}
	s.cwd = target
	s.dirs.Record(target)
	s.log().Debug("shell cd", "dir", target)
	s.dirty = true
	return nil
}

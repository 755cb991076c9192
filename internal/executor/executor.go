package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/shlex"
	"golang.org/x/sys/unix"

	"pkt.systems/pslog"
	"pkt.systems/vshell/schema"
)

// drainDelay bounds how long output is still read after the child exits.
// Background jobs that inherited the output pipes are cut off after it.
const drainDelay = time.Second

// DirectOrigin labels commands run without a delegate shell.
const DirectOrigin = "vshell"

// Config controls how command lines become processes.
type Config struct {
	// Delegate is the shell binary that receives whole command lines. Empty
	// means commands are tokenized and run directly.
	Delegate string
	// DelegateArgs precede the command line; defaults to ["-c"].
	DelegateArgs []string
	// Env is appended to the inherited environment.
	Env []string
}

// Request is one command line to execute.
type Request struct {
	Line string
	// Delegate overrides Config.Delegate for this request.
	Delegate string
	Dir      string
}

// Executor spawns foreground processes and streams their output into a Queue.
type Executor struct {
	cfg      Config
	queue    *Queue
	lookPath func(string) (string, error)
	nextID   atomic.Uint64
}

// New returns an executor delivering output to queue.
func New(cfg Config, queue *Queue) *Executor {
	if len(cfg.DelegateArgs) == 0 {
		cfg.DelegateArgs = []string{"-c"}
	}
	if queue == nil {
		queue = NewQueue()
	}
	return &Executor{cfg: cfg, queue: queue, lookPath: exec.LookPath}
}

// Queue returns the queue the executor writes to.
func (e *Executor) Queue() *Queue {
	return e.queue
}

// Delegate returns the configured delegate shell.
func (e *Executor) Delegate() string {
	return e.cfg.Delegate
}

// Command resolves the argv for req without starting anything. With a
// delegate shell the line is passed verbatim as a single argument; otherwise
// it is split with shell quoting rules and the first word is the program.
func (e *Executor) Command(req Request) ([]string, string, error) {
	line := strings.TrimSpace(req.Line)
	if line == "" {
		return nil, "", schema.ErrEmptyCommand
	}
	delegate := req.Delegate
	if delegate == "" {
		delegate = e.cfg.Delegate
	}
	if delegate != "" {
		path, err := e.lookPath(delegate)
		if err != nil {
			return nil, "", &schema.DelegateShellUnavailableError{Shell: delegate, Err: err}
		}
		argv := append([]string{path}, e.cfg.DelegateArgs...)
		argv = append(argv, req.Line)
		return argv, filepath.Base(delegate), nil
	}
	words, err := shlex.Split(line)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", schema.ErrInvalidCommand, err)
	}
	if len(words) == 0 {
		return nil, "", schema.ErrEmptyCommand
	}
	path, err := e.lookPath(words[0])
	if err != nil {
		return nil, "", &schema.CommandNotFoundError{Name: words[0]}
	}
	words[0] = path
	return words, DirectOrigin, nil
}

// Execute starts req as a new process group. Output fragments and the final
// exit status are pushed to the queue; the exit item always follows the
// last fragment of the session.
func (e *Executor) Execute(ctx context.Context, req Request) (*Session, error) {
	argv, origin, err := e.Command(req)
	if err != nil {
		return nil, err
	}
	id := e.nextID.Add(1)
	log := pslog.Ctx(ctx).With("session", id)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = req.Dir
	cmd.Env = append(os.Environ(), e.cfg.Env...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return signalGroup(cmd, unix.SIGKILL)
	}
	cmd.WaitDelay = drainDelay

	stdout := newLineWriter(schema.LineStdout, id, e.queue, log)
	stderr := newLineWriter(schema.LineStderr, id, e.queue, log)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		log.Warn("executor start failed", "program", filepath.Base(argv[0]), "err", err)
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			if origin != DirectOrigin {
				return nil, &schema.DelegateShellUnavailableError{Shell: origin, Err: err}
			}
			return nil, &schema.CommandNotFoundError{Name: filepath.Base(argv[0])}
		}
		return nil, err
	}
	log.Info("executor start", "program", filepath.Base(argv[0]), "argc", len(argv), "origin", origin, "pid", cmd.Process.Pid)

	s := &Session{
		ID:      id,
		Origin:  origin,
		Line:    req.Line,
		cmd:     cmd,
		log:     log,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go func() {
		status := s.wait()
		stdout.Flush()
		stderr.Flush()
		e.queue.Push(Item{Session: id, Exit: &status})
		close(s.done)
	}()
	return s, nil
}

// Session is one running foreground process.
type Session struct {
	ID     uint64
	Origin string
	Line   string

	cmd         *exec.Cmd
	log         pslog.Logger
	started     time.Time
	done        chan struct{}
	interrupted atomic.Bool
	status      schema.ExitStatus
}

// Done is closed once output is drained and the process has been reaped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Status returns the exit status. It is only meaningful after Done.
func (s *Session) Status() schema.ExitStatus {
	<-s.done
	return s.status
}

// Interrupt sends SIGINT to the process group. Readers keep draining
// whatever the process already wrote.
func (s *Session) Interrupt() error {
	return s.signal(unix.SIGINT, true)
}

// Kill sends SIGKILL to the process group.
func (s *Session) Kill() error {
	return s.signal(unix.SIGKILL, true)
}

func (s *Session) signal(sig syscall.Signal, mark bool) error {
	select {
	case <-s.done:
		return schema.ErrNoProcess
	default:
	}
	if mark {
		s.interrupted.Store(true)
	}
	s.log.Debug("executor signal", "signal", sig.String())
	if err := signalGroup(s.cmd, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

func (s *Session) wait() schema.ExitStatus {
	err := s.cmd.Wait()
	if errors.Is(err, exec.ErrWaitDelay) {
		s.log.Debug("executor output cut off", "after", drainDelay.String())
		err = nil
	}
	var status schema.ExitStatus
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status.Code = exitErr.ExitCode()
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				status.Signal = ws.Signal().String()
			}
		} else {
			status.Code = -1
			status.Err = err
		}
	}
	// A clean exit means the signal never reached the child.
	status.Interrupted = s.interrupted.Load() && (status.Code != 0 || status.Signal != "")
	fields := []any{
		"exit_code", status.Code,
		"duration_ms", time.Since(s.started).Milliseconds(),
	}
	if status.Signal != "" {
		fields = append(fields, "signal", status.Signal)
	}
	if status.Err != nil {
		fields = append(fields, "err", status.Err)
	}
	s.log.Info("executor finished", fields...)
	s.status = status
	return status
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd == nil || cmd.Process == nil {
		return schema.ErrNoProcess
	}
	pid := cmd.Process.Pid
	if err := unix.Kill(-pid, sig); err == nil {
		return nil
	}
	return cmd.Process.Signal(sig)
}

package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrInput indicates a malformed key sequence.
	ErrInput = errors.New("malformed input")
	// ErrCommandNotFound indicates the requested program could not be resolved.
	ErrCommandNotFound = errors.New("command not found")
	// ErrDelegateUnavailable indicates the configured delegate shell is missing.
	ErrDelegateUnavailable = errors.New("delegate shell unavailable")
	// ErrUnknownHint indicates a typed hint code did not resolve to a live target.
	ErrUnknownHint = errors.New("unknown hint")
	// ErrRender indicates the terminal could not be drawn.
	ErrRender = errors.New("render failed")
	// ErrOversizeInput indicates the line buffer refused text beyond its cap.
	ErrOversizeInput = errors.New("input too large")
	// ErrEmptyCommand indicates an empty command line was submitted.
	ErrEmptyCommand = errors.New("empty command")
	// ErrInvalidCommand indicates a malformed colon command.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrProcessActive indicates a foreground process is already running.
	ErrProcessActive = errors.New("a process is already running")
	// ErrNoProcess indicates no foreground process is running.
	ErrNoProcess = errors.New("no running process")
	// ErrHistoryIndex indicates a history selector outside the derived view.
	ErrHistoryIndex = errors.New("no such history entry")
	// ErrDirectoryIndex indicates a directory selector outside the derived view.
	ErrDirectoryIndex = errors.New("no such directory entry")
	// ErrClipboard indicates the clipboard collaborator could not be reached.
	ErrClipboard = errors.New("clipboard unavailable")
)

// InputError reports undecodable input bytes. The decoder drops them and continues.
type InputError struct {
	Bytes []byte
}

func (e *InputError) Error() string {
	return fmt.Sprintf("malformed key sequence %q", e.Bytes)
}

// Is matches ErrInput.
func (e *InputError) Is(target error) bool { return target == ErrInput }

// CommandNotFoundError reports a program that is not on PATH.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Name)
}

// Is matches ErrCommandNotFound.
func (e *CommandNotFoundError) Is(target error) bool { return target == ErrCommandNotFound }

// DelegateShellUnavailableError reports a delegate shell binary that cannot be resolved.
type DelegateShellUnavailableError struct {
	Shell string
	Err   error
}

func (e *DelegateShellUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delegate shell unavailable: %s: %v", e.Shell, e.Err)
	}
	return fmt.Sprintf("delegate shell unavailable: %s", e.Shell)
}

// Is matches ErrDelegateUnavailable.
func (e *DelegateShellUnavailableError) Is(target error) bool {
	return target == ErrDelegateUnavailable
}

func (e *DelegateShellUnavailableError) Unwrap() error { return e.Err }

// UnknownHintError reports a code that is absent from the current pass or
// whose target no longer exists.
type UnknownHintError struct {
	Code   string
	Reason string
}

func (e *UnknownHintError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unknown hint %q: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("unknown hint %q", e.Code)
}

// Is matches ErrUnknownHint.
func (e *UnknownHintError) Is(target error) bool { return target == ErrUnknownHint }

// RenderError wraps a terminal write failure. It is always fatal to the session.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed: %v", e.Err)
}

// Is matches ErrRender.
func (e *RenderError) Is(target error) bool { return target == ErrRender }

func (e *RenderError) Unwrap() error { return e.Err }

// OversizeInputError reports text rejected by the line buffer cap.
type OversizeInputError struct {
	Limit     int
	Attempted int
}

func (e *OversizeInputError) Error() string {
	return fmt.Sprintf("input exceeds %d characters (attempted %d)", e.Limit, e.Attempted)
}

// Is matches ErrOversizeInput.
func (e *OversizeInputError) Is(target error) bool { return target == ErrOversizeInput }

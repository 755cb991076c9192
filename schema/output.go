package schema

// LineKind classifies a scrollback line for styling.
type LineKind int

const (
	// LineStdout is child stdout.
	LineStdout LineKind = iota
	// LineStderr is child stderr.
	LineStderr
	// LineCommand is the echo of a submitted command.
	LineCommand
	// LineStatus is a process status indicator (non-zero exit, interrupt).
	LineStatus
	// LineError is an inline error reported by the shell.
	LineError
	// LineInfo is informational shell output (help, directory changes).
	LineInfo
)

// String returns the log name of the kind.
func (k LineKind) String() string {
	switch k {
	case LineStdout:
		return "stdout"
	case LineStderr:
		return "stderr"
	case LineCommand:
		return "command"
	case LineStatus:
		return "status"
	case LineError:
		return "error"
	case LineInfo:
		return "info"
	default:
		return "unknown"
	}
}

// OutputFragment is an immutable piece of output produced off the event loop.
// Partial fragments end without a newline and are continued by the next
// fragment of the same kind.
type OutputFragment struct {
	Kind    LineKind
	Text    string
	Partial bool
}

// ExitStatus describes how a process ended.
type ExitStatus struct {
	Code        int
	Signal      string
	Interrupted bool
	Err         error
}

// Success reports a zero exit with no signal or start error.
func (s ExitStatus) Success() bool {
	return s.Code == 0 && s.Signal == "" && s.Err == nil
}

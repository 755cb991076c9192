package schema

// ThemeName identifies a UI theme.
type ThemeName string

// EntryID is a stable identity for history and directory entries. IDs are
// never reused within a session.
type EntryID uint64

// LineID is a stable identity for a scrollback line. IDs increase
// monotonically and are never reused after eviction.
type LineID uint64

// HistoryEntry is one executed command line.
type HistoryEntry struct {
	ID       EntryID
	Text     string
	Order    uint64
	Pinned   bool
	PinOrder uint64
}

// DirectoryEntry is one working-directory change.
type DirectoryEntry struct {
	ID    EntryID
	Path  string
	Order uint64
}

// State is the session controller state.
type State int

const (
	// StateEditing is the default state; keys edit the line buffer.
	StateEditing State = iota
	// StateHintSelecting overlays hints and waits for a typed code.
	StateHintSelecting
	// StateRunning has an active foreground process.
	StateRunning
	// StateEditingHint edits the line with a hint-selected region; Esc restores the prior text.
	StateEditingHint
	// StateTerminated unwinds the session.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateHintSelecting:
		return "hints"
	case StateRunning:
		return "running"
	case StateEditingHint:
		return "edit-hint"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

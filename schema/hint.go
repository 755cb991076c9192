package schema

// HintKind tags the closed set of hint targets.
type HintKind int

const (
	// HintHistoryJump addresses a History derived-view row.
	HintHistoryJump HintKind = iota
	// HintDirectoryJump addresses a Directory History derived-view row.
	HintDirectoryJump
	// HintOutputSpan addresses a byte range of visible text.
	HintOutputSpan
)

func (k HintKind) String() string {
	switch k {
	case HintHistoryJump:
		return "history"
	case HintDirectoryJump:
		return "directory"
	case HintOutputSpan:
		return "output"
	default:
		return "unknown"
	}
}

// SpanRegion names where an output span lives.
type SpanRegion int

const (
	// RegionScrollback is a span inside a scrollback line.
	RegionScrollback SpanRegion = iota
	// RegionInput is a span inside the line buffer.
	RegionInput
)

// Span is a byte range [Start, End) of one line of text. Text holds the
// content at the time the hint was generated so activation can detect drift.
type Span struct {
	Region SpanRegion
	LineID LineID
	Start  int
	End    int
	Text   string
}

// HintTarget is the tagged variant resolved by a hint.
// Index is the derived-view row at generation time; EntryID pins the identity.
type HintTarget struct {
	Kind    HintKind
	Index   int
	EntryID EntryID
	Span    Span
}

// HintMode selects the effect applied when a hint is activated.
type HintMode int

const (
	// HintActivate applies the default effect: history/directory rows load or
	// change directory, output spans are inserted at the cursor.
	HintActivate HintMode = iota
	// HintJumpBefore moves the cursor before the target.
	HintJumpBefore
	// HintJumpAfter moves the cursor after the target.
	HintJumpAfter
	// HintCopy hands the target text to the clipboard.
	HintCopy
	// HintEdit loads the target for in-place editing.
	HintEdit
)

func (m HintMode) String() string {
	switch m {
	case HintActivate:
		return "activate"
	case HintJumpBefore:
		return "jump-before"
	case HintJumpAfter:
		return "jump-after"
	case HintCopy:
		return "copy"
	case HintEdit:
		return "edit"
	default:
		return "unknown"
	}
}

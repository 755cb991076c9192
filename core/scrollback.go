package core

import (
	"sort"
	"strings"

	"pkt.systems/vshell/schema"
)

// DefaultScrollbackLines is the retention cap when none is configured.
const DefaultScrollbackLines = 5000

// Line is one retained scrollback line.
type Line struct {
	ID   schema.LineID
	Kind schema.LineKind
	Text string
}

// ScrollbackView is a snapshot of the visible window.
type ScrollbackView struct {
	Lines        []Line
	TotalLines   int
	ScrollOffset int
	AtBottom     bool
}

// Scrollback stores output lines and scroll state. Oldest lines are evicted
// once maxLines is exceeded. ScrollOffset counts lines from the bottom; 0
// means at bottom.
type Scrollback struct {
	lines        []Line
	nextID       schema.LineID
	scrollOffset int
	maxLines     int
	// open is true while the last line is an unterminated fragment.
	open     bool
	openKind schema.LineKind
}

// NewScrollback returns a scrollback retaining at most maxLines lines.
func NewScrollback(maxLines int) *Scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackLines
	}
	return &Scrollback{maxLines: maxLines, nextID: 1}
}

// Append adds complete lines of one kind. Embedded newlines split lines.
func (s *Scrollback) Append(kind schema.LineKind, text string) {
	s.CloseFragment()
	for _, part := range strings.Split(text, "\n") {
		s.push(kind, part)
	}
}

// AppendFragment adds process output. Partial fragments are continued by
// the next fragment of the same kind; a fragment of another kind closes the
// open line so arrival order is preserved.
func (s *Scrollback) AppendFragment(frag schema.OutputFragment) {
	if s.open && s.openKind == frag.Kind && len(s.lines) > 0 {
		last := &s.lines[len(s.lines)-1]
		last.Text += frag.Text
		s.open = frag.Partial
		return
	}
	s.CloseFragment()
	s.push(frag.Kind, frag.Text)
	if frag.Partial {
		s.open = true
		s.openKind = frag.Kind
	}
}

// Clear drops every line. IDs keep increasing so stale references never match.
func (s *Scrollback) Clear() {
	s.lines = nil
	s.scrollOffset = 0
	s.open = false
}

// Len returns the retained line count.
func (s *Scrollback) Len() int {
	return len(s.lines)
}

// Lookup returns the live line with the given ID.
func (s *Scrollback) Lookup(id schema.LineID) (Line, bool) {
	idx := sort.Search(len(s.lines), func(i int) bool { return s.lines[i].ID >= id })
	if idx < len(s.lines) && s.lines[idx].ID == id {
		return s.lines[idx], true
	}
	return Line{}, false
}

// Since returns copies of lines with ID >= id.
func (s *Scrollback) Since(id schema.LineID) []Line {
	idx := sort.Search(len(s.lines), func(i int) bool { return s.lines[i].ID >= id })
	return append([]Line(nil), s.lines[idx:]...)
}

// NextID returns the ID the next appended line will receive.
func (s *Scrollback) NextID() schema.LineID {
	return s.nextID
}

// ResetScroll returns the view to the bottom.
func (s *Scrollback) ResetScroll() {
	s.scrollOffset = 0
}

// Scroll adjusts the scroll offset by delta. Positive delta scrolls up (older
// lines). Limit is the viewport height in lines.
func (s *Scrollback) Scroll(delta, limit int) {
	s.scrollOffset = clampScroll(s.scrollOffset+delta, len(s.lines), limit)
}

// Snapshot returns the window of at most limit lines at the scroll offset.
func (s *Scrollback) Snapshot(limit int) ScrollbackView {
	total := len(s.lines)
	if limit <= 0 || limit > total {
		limit = total
	}
	if max := maxScroll(total, limit); s.scrollOffset > max {
		s.scrollOffset = max
	}
	end := total - s.scrollOffset
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	lines := make([]Line, end-start)
	copy(lines, s.lines[start:end])
	return ScrollbackView{
		Lines:        lines,
		TotalLines:   total,
		ScrollOffset: s.scrollOffset,
		AtBottom:     s.scrollOffset == 0,
	}
}

func (s *Scrollback) push(kind schema.LineKind, text string) {
	s.lines = append(s.lines, Line{ID: s.nextID, Kind: kind, Text: text})
	s.nextID++
	if s.scrollOffset > 0 {
		s.scrollOffset++
	}
	if len(s.lines) > s.maxLines {
		trim := len(s.lines) - s.maxLines
		s.lines = s.lines[trim:]
		if s.scrollOffset > len(s.lines) {
			s.scrollOffset = len(s.lines)
		}
	}
}

// CloseFragment terminates an open partial line so later output starts a
// new line.
func (s *Scrollback) CloseFragment() {
	s.open = false
}

func maxScroll(total, limit int) int {
	if total <= 0 || limit <= 0 || total <= limit {
		return 0
	}
	return total - limit
}

func clampScroll(offset, total, limit int) int {
	max := maxScroll(total, limit)
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

package core

import (
	"unicode/utf8"

	"pkt.systems/vshell/schema"
)

// DefaultMaxInputRunes caps the line buffer when no limit is configured.
const DefaultMaxInputRunes = 64 * 1024

// LineBuffer is the editable command line. It is rune-indexed and the
// cursor always satisfies 0 <= cursor <= Len().
type LineBuffer struct {
	buf      []rune
	cursor   int
	maxRunes int
}

// NewLineBuffer returns an empty buffer holding at most maxRunes runes.
func NewLineBuffer(maxRunes int) *LineBuffer {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxInputRunes
	}
	return &LineBuffer{maxRunes: maxRunes}
}

func (b *LineBuffer) String() string {
	return string(b.buf)
}

// Len returns the number of runes.
func (b *LineBuffer) Len() int {
	return len(b.buf)
}

// Cursor returns the rune offset of the cursor.
func (b *LineBuffer) Cursor() int {
	b.clamp()
	return b.cursor
}

// Clear empties the buffer.
func (b *LineBuffer) Clear() {
	b.buf = nil
	b.cursor = 0
}

// SetText replaces the content and moves the cursor to the end. Text beyond
// the cap is dropped and reported with an OversizeInputError.
func (b *LineBuffer) SetText(text string) error {
	runes := []rune(text)
	var err error
	if limit := b.limit(); len(runes) > limit {
		err = &schema.OversizeInputError{Limit: limit, Attempted: len(runes)}
		runes = runes[:limit]
	}
	b.buf = runes
	b.cursor = len(runes)
	return err
}

// Insert adds text at the cursor and advances past it. Text that does not
// fit under the cap is truncated.
func (b *LineBuffer) Insert(text string) error {
	if text == "" {
		return nil
	}
	b.clamp()
	runes := []rune(text)
	var err error
	room := b.limit() - len(b.buf)
	if room < 0 {
		room = 0
	}
	if len(runes) > room {
		err = &schema.OversizeInputError{Limit: b.limit(), Attempted: len(b.buf) + len(runes)}
		runes = runes[:room]
	}
	if len(runes) == 0 {
		return err
	}
	next := make([]rune, 0, len(b.buf)+len(runes))
	next = append(next, b.buf[:b.cursor]...)
	next = append(next, runes...)
	next = append(next, b.buf[b.cursor:]...)
	b.buf = next
	b.cursor += len(runes)
	return err
}

// InsertRune inserts a single rune at the cursor.
func (b *LineBuffer) InsertRune(r rune) error {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return b.Insert(string(r))
}

// DeleteBackward removes the rune before the cursor.
func (b *LineBuffer) DeleteBackward() {
	b.clamp()
	if b.cursor == 0 {
		return
	}
	b.buf = append(b.buf[:b.cursor-1], b.buf[b.cursor:]...)
	b.cursor--
}

// DeleteForward removes the rune under the cursor.
func (b *LineBuffer) DeleteForward() {
	b.clamp()
	if b.cursor >= len(b.buf) {
		return
	}
	b.buf = append(b.buf[:b.cursor], b.buf[b.cursor+1:]...)
}

// DeleteRange removes runes in [start, end) and leaves the cursor at start.
func (b *LineBuffer) DeleteRange(start, end int) {
	start = clampInt(start, 0, len(b.buf))
	end = clampInt(end, 0, len(b.buf))
	if end < start {
		start, end = end, start
	}
	b.buf = append(b.buf[:start], b.buf[end:]...)
	b.cursor = start
}

// MoveCursor moves the cursor by delta runes, clamped to the buffer.
func (b *LineBuffer) MoveCursor(delta int) {
	b.SetCursor(b.cursor + delta)
}

// SetCursor moves the cursor to an absolute rune offset, clamped to the buffer.
func (b *LineBuffer) SetCursor(pos int) {
	b.cursor = clampInt(pos, 0, len(b.buf))
}

// SetCursorByte moves the cursor to the rune containing byte offset off of String().
func (b *LineBuffer) SetCursorByte(off int) {
	b.SetCursor(RuneIndex(b.String(), off))
}

// MoveStart moves to the start of the current line.
func (b *LineBuffer) MoveStart() {
	b.clamp()
	b.cursor = b.lineStart()
}

// MoveEnd moves to the end of the current line.
func (b *LineBuffer) MoveEnd() {
	b.clamp()
	b.cursor = b.lineEnd()
}

// MoveWordLeft moves to the start of the previous word.
func (b *LineBuffer) MoveWordLeft() {
	b.clamp()
	i := b.cursor
	for i > 0 && isBlank(b.buf[i-1]) {
		i--
	}
	for i > 0 && !isBlank(b.buf[i-1]) {
		i--
	}
	b.cursor = i
}

// MoveWordRight moves past the end of the next word.
func (b *LineBuffer) MoveWordRight() {
	b.clamp()
	i := b.cursor
	for i < len(b.buf) && isBlank(b.buf[i]) {
		i++
	}
	for i < len(b.buf) && !isBlank(b.buf[i]) {
		i++
	}
	b.cursor = i
}

// DeleteWordBackward removes the word before the cursor.
func (b *LineBuffer) DeleteWordBackward() {
	b.clamp()
	end := b.cursor
	b.MoveWordLeft()
	b.buf = append(b.buf[:b.cursor], b.buf[end:]...)
}

// MoveUp moves to the same column on the previous line of a multi-line buffer.
func (b *LineBuffer) MoveUp() bool {
	b.clamp()
	start := b.lineStart()
	if start == 0 {
		return false
	}
	col := b.cursor - start
	prevEnd := start - 1
	prevStart := 0
	for i := prevEnd - 1; i >= 0; i-- {
		if b.buf[i] == '\n' {
			prevStart = i + 1
			break
		}
	}
	b.cursor = prevStart + min(col, prevEnd-prevStart)
	return true
}

// MoveDown moves to the same column on the next line of a multi-line buffer.
func (b *LineBuffer) MoveDown() bool {
	b.clamp()
	end := b.lineEnd()
	if end >= len(b.buf) {
		return false
	}
	col := b.cursor - b.lineStart()
	nextStart := end + 1
	nextEnd := len(b.buf)
	for i := nextStart; i < len(b.buf); i++ {
		if b.buf[i] == '\n' {
			nextEnd = i
			break
		}
	}
	b.cursor = nextStart + min(col, nextEnd-nextStart)
	return true
}

// KillLineStart removes text from the start of the current line to the cursor.
func (b *LineBuffer) KillLineStart() {
	b.clamp()
	start := b.lineStart()
	b.buf = append(b.buf[:start], b.buf[b.cursor:]...)
	b.cursor = start
}

// KillLineEnd removes text from the cursor to the end of the current line.
func (b *LineBuffer) KillLineEnd() {
	b.clamp()
	end := b.lineEnd()
	b.buf = append(b.buf[:b.cursor], b.buf[end:]...)
}

func (b *LineBuffer) lineStart() int {
	for i := b.cursor - 1; i >= 0; i-- {
		if b.buf[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func (b *LineBuffer) lineEnd() int {
	for i := b.cursor; i < len(b.buf); i++ {
		if b.buf[i] == '\n' {
			return i
		}
	}
	return len(b.buf)
}

func (b *LineBuffer) limit() int {
	if b.maxRunes <= 0 {
		return DefaultMaxInputRunes
	}
	return b.maxRunes
}

func (b *LineBuffer) clamp() {
	b.cursor = clampInt(b.cursor, 0, len(b.buf))
}

// RuneIndex converts a byte offset in s to a rune offset, clamping to s.
func RuneIndex(s string, off int) int {
	if off <= 0 {
		return 0
	}
	if off >= len(s) {
		return utf8.RuneCountInString(s)
	}
	return utf8.RuneCountInString(s[:off])
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package terminal

import (
	"strings"
	"unicode/utf8"
)

const esc = 0x1b

// segment is either a whole escape sequence or a single decoded rune.
type segment struct {
	raw    string
	r      rune
	escape bool
}

// eachSegment walks text, handing every escape sequence and rune to fn in order.
// fn returns false to stop the walk.
func eachSegment(text string, fn func(seg segment) bool) {
	for pos := 0; pos < len(text); {
		if text[pos] == esc {
			end := escapeEnd(text, pos+1)
			if !fn(segment{raw: text[pos:end], escape: true}) {
				return
			}
			pos = end
			continue
		}
		r, n := utf8.DecodeRuneInString(text[pos:])
		if !fn(segment{raw: text[pos : pos+n], r: r}) {
			return
		}
		pos += n
	}
}

// escapeEnd returns the offset just past the sequence whose introducer follows
// the ESC byte at start-1. CSI ends at a final byte, OSC at BEL or ST.
func escapeEnd(text string, start int) int {
	if start >= len(text) {
		return start
	}
	kind := text[start]
	pos := start + 1
	switch kind {
	case '[':
		for ; pos < len(text); pos++ {
			if c := text[pos]; c >= 0x40 && c <= 0x7e {
				return pos + 1
			}
		}
	case ']':
		for ; pos < len(text); pos++ {
			if text[pos] == 0x07 {
				return pos + 1
			}
			if text[pos] == esc && pos+1 < len(text) && text[pos+1] == '\\' {
				return pos + 2
			}
		}
	}
	return min(pos, len(text))
}

// Sanitize strips escape sequences and control characters from child output
// and expands tabs to four spaces, so one rune occupies one cell.
func Sanitize(text string) string {
	var out strings.Builder
	eachSegment(text, func(seg segment) bool {
		switch {
		case seg.escape:
		case seg.r == utf8.RuneError && len(seg.raw) == 1:
		case seg.r == '\t':
			out.WriteString("    ")
		case seg.r < 0x20 || seg.r == 0x7f:
		default:
			out.WriteRune(seg.r)
		}
		return true
	})
	return out.String()
}

// VisibleWidth counts the cells of text, ignoring escape sequences.
func VisibleWidth(text string) int {
	cells := 0
	eachSegment(text, func(seg segment) bool {
		if !seg.escape {
			cells++
		}
		return true
	})
	return cells
}

// TrimToWidth cuts text to at most width visible cells, keeping escape sequences.
func TrimToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var out strings.Builder
	cells := 0
	eachSegment(text, func(seg segment) bool {
		if !seg.escape {
			if cells == width {
				return false
			}
			cells++
		}
		out.WriteString(seg.raw)
		return true
	})
	return out.String()
}

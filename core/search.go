package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match is a byte range [Start, End) of a literal match.
type Match struct {
	Start int
	End   int
}

// ReplaceScope selects how many matches Replace rewrites.
type ReplaceScope int

const (
	// ScopeFirst replaces the first match only.
	ScopeFirst ReplaceScope = iota
	// ScopeAll replaces every non-overlapping match.
	ScopeAll
)

// Find returns the non-overlapping literal matches of pattern in text, left
// to right. Case-insensitive matching folds rune by rune so offsets always
// refer to text. An empty pattern matches nothing.
func Find(pattern, text string, caseSensitive bool) []Match {
	if pattern == "" || text == "" {
		return nil
	}
	var out []Match
	if caseSensitive {
		offset := 0
		for {
			idx := strings.Index(text[offset:], pattern)
			if idx < 0 {
				return out
			}
			start := offset + idx
			out = append(out, Match{Start: start, End: start + len(pattern)})
			offset = start + len(pattern)
		}
	}
	for i := 0; i < len(text); {
		if end, ok := foldPrefix(text[i:], pattern); ok {
			out = append(out, Match{Start: i, End: i + end})
			i += end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return out
}

// foldPrefix reports whether text starts with pattern under simple case
// folding and returns the byte length consumed in text.
func foldPrefix(text, pattern string) (int, bool) {
	ti := 0
	for _, pr := range pattern {
		if ti >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[ti:])
		if !equalFold(tr, pr) {
			return 0, false
		}
		ti += size
	}
	return ti, true
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// Replace substitutes literal, case-sensitive occurrences of pattern in text.
func Replace(text, pattern, replacement string, scope ReplaceScope) string {
	matches := Find(pattern, text, true)
	if len(matches) == 0 {
		return text
	}
	if scope == ScopeFirst {
		matches = matches[:1]
	}
	var b strings.Builder
	if grow := len(text) + len(matches)*(len(replacement)-len(pattern)); grow > 0 {
		b.Grow(grow)
	}
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])
		b.WriteString(replacement)
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String()
}

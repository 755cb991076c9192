package core

import "strings"

// NeedsContinuation reports whether text ends inside a quoted string or with
// an escaping backslash, in which case Enter inserts a newline instead of
// submitting.
func NeedsContinuation(text string) bool {
	var quote rune
	escaped := false
	for _, r := range text {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case r == '\\' && quote != '\'':
			escaped = true
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote != 0 && r == quote:
			quote = 0
		}
	}
	if quote != 0 {
		return true
	}
	return escaped && strings.HasSuffix(text, "\\")
}

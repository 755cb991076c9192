package command

import "strings"

// Prefix marks a line as a shell command rather than a program to run.
const Prefix = ":"

// Command represents a parsed colon command.
type Command struct {
	Name      string
	Args      []string
	Raw       string
	Remainder string
}

// Parse recognises a colon command. Leading blanks are ignored, the name is
// lower-cased, and a ':' directly after the name acts as a separator, so
// ":c ab" and ":c:ab" parse alike. ok is false when the line is not a command.
func Parse(input string) (cmd Command, ok bool) {
	body, found := strings.CutPrefix(strings.TrimLeft(input, " \t"), Prefix)
	if !found {
		return Command{}, false
	}
	body = strings.TrimSpace(body)
	if cut := strings.IndexFunc(body, func(r rune) bool { return r == ':' || isBlank(r) }); cut > 0 && body[cut] == ':' {
		body = body[:cut] + " " + body[cut+1:]
	}
	cmd.Raw = body
	words := strings.FieldsFunc(body, isBlank)
	if len(words) == 0 {
		return cmd, true
	}
	cmd.Name = strings.ToLower(words[0])
	cmd.Args = append([]string{}, words[1:]...)
	cmd.Remainder = skipWords(body, 1)
	return cmd, true
}

// RemainderAfter returns the raw text following the name and the first n
// arguments, with inner spacing preserved.
func RemainderAfter(cmd Command, n int) string {
	return skipWords(cmd.Raw, n+1)
}

// skipWords drops the first n blank-separated words of text and trims the rest.
func skipWords(text string, n int) string {
	rest := text
	for ; n > 0; n-- {
		rest = strings.TrimLeftFunc(rest, isBlank)
		cut := strings.IndexFunc(rest, isBlank)
		if cut < 0 {
			return ""
		}
		rest = rest[cut:]
	}
	return strings.TrimSpace(rest)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// SplitPair splits "from,to" on the first unescaped comma. "\," is a
// literal comma and "\\" a literal backslash.
func SplitPair(value string) (string, string, bool) {
	var parts [2]strings.Builder
	part := 0
	escaped := false
	for _, r := range value {
		switch {
		case escaped:
			if r != ',' && r != '\\' {
				parts[part].WriteRune('\\')
			}
			parts[part].WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',' && part == 0:
			part = 1
		default:
			parts[part].WriteRune(r)
		}
	}
	if escaped {
		parts[part].WriteRune('\\')
	}
	if part == 0 {
		return parts[0].String(), "", false
	}
	return parts[0].String(), parts[1].String(), true
}

// SplitCodes splits a hint list such as "ab,cd" or "ab cd".
func SplitCodes(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, code := range strings.Split(arg, ",") {
			code = strings.ToLower(strings.TrimSpace(code))
			if code != "" {
				out = append(out, code)
			}
		}
	}
	return out
}

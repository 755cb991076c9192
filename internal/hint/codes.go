package hint

import (
	"fmt"
	"unicode"
)

// DefaultAlphabet is the set of spoken letters used for codes.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Alphabet is an ordered set of distinct code characters.
type Alphabet []rune

// NewAlphabet validates a code alphabet. It needs at least two distinct,
// printable, non-space characters. Letters are folded to lower case, since
// typed codes are matched in lower case.
func NewAlphabet(chars string) (Alphabet, error) {
	if chars == "" {
		chars = DefaultAlphabet
	}
	seen := make(map[rune]bool)
	out := make(Alphabet, 0, len(chars))
	for _, r := range chars {
		r = unicode.ToLower(r)
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return nil, fmt.Errorf("hint alphabet contains unusable character %q", r)
		}
		if seen[r] {
			return nil, fmt.Errorf("hint alphabet repeats %q (letters are case-insensitive)", r)
		}
		seen[r] = true
		out = append(out, r)
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("hint alphabet needs at least 2 characters, got %d", len(out))
	}
	return out, nil
}

// Contains reports whether r is a code character.
func (a Alphabet) Contains(r rune) bool {
	for _, c := range a {
		if c == r {
			return true
		}
	}
	return false
}

// CodeLength returns the smallest L >= 1 with len(a)^L >= count.
func (a Alphabet) CodeLength(count int) int {
	n := len(a)
	length := 1
	capacity := n
	for capacity < count {
		capacity *= n
		length++
	}
	return length
}

// Codes returns count codes of equal length in ascending order. Equal length
// keeps the set prefix-free, so a code resolves as soon as it is complete.
func (a Alphabet) Codes(count int) []string {
	if count <= 0 || len(a) < 2 {
		return nil
	}
	length := a.CodeLength(count)
	n := len(a)
	out := make([]string, count)
	digits := make([]rune, length)
	for i := 0; i < count; i++ {
		v := i
		for pos := length - 1; pos >= 0; pos-- {
			digits[pos] = a[v%n]
			v /= n
		}
		out[i] = string(digits)
	}
	return out
}

package core

import (
	"strings"
	"testing"
)

func TestFindCaseSensitive(t *testing.T) {
	matches := Find("ab", "abXabab", true)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %+v", matches)
	}
	if matches[1].Start != 3 || matches[1].End != 5 {
		t.Fatalf("unexpected second match %+v", matches[1])
	}
	if Find("AB", "abab", true) != nil {
		t.Fatalf("expected no case-sensitive matches")
	}
}

func TestFindNonOverlapping(t *testing.T) {
	if got := Find("aa", "aaaa", true); len(got) != 2 {
		t.Fatalf("expected 2 non-overlapping matches, got %+v", got)
	}
	if got := Find("aa", "aaaa", false); len(got) != 2 {
		t.Fatalf("expected 2 folded matches, got %+v", got)
	}
}

func TestFindCaseInsensitiveOffsetsReferToText(t *testing.T) {
	text := "Grüße GRÜSSE grüße"
	matches := Find("GRÜ", text, false)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %+v", matches)
	}
	for _, m := range matches {
		if !strings.EqualFold(text[m.Start:m.End], "grü") {
			t.Fatalf("match %q does not fold to pattern", text[m.Start:m.End])
		}
	}
}

func TestFindEmptyPattern(t *testing.T) {
	if Find("", "text", false) != nil {
		t.Fatalf("expected nil for empty pattern")
	}
}

func TestReplaceAll(t *testing.T) {
	text := "cp foo foo.bak foo"
	got := Replace(text, "foo", "bar", ScopeAll)
	if got != "cp bar bar.bak bar" {
		t.Fatalf("unexpected replace result %q", got)
	}
	if strings.Count(got, "foo") != 0 || strings.Count(got, "bar") != 3 {
		t.Fatalf("expected three replacements in %q", got)
	}
}

func TestReplaceFirst(t *testing.T) {
	if got := Replace("a-a-a", "a", "bb", ScopeFirst); got != "bb-a-a" {
		t.Fatalf("unexpected replace result %q", got)
	}
	if got := Replace("abc", "x", "y", ScopeAll); got != "abc" {
		t.Fatalf("expected unchanged text, got %q", got)
	}
	if got := Replace("aaa", "aa", "", ScopeAll); got != "a" {
		t.Fatalf("expected shrink replace to work, got %q", got)
	}
}

package command

import (
	"errors"
	"testing"

	"pkt.systems/vshell/schema"
)

func TestParseColonForms(t *testing.T) {
	cmd, ok := Parse("  :c:ab,cd")
	if !ok || cmd.Name != "c" || len(cmd.Args) != 1 || cmd.Args[0] != "ab,cd" {
		t.Fatalf("unexpected parse %+v", cmd)
	}
	cmd, ok = Parse(":SE bash echo a && echo b")
	if !ok || cmd.Name != "se" || cmd.Remainder != "bash echo a && echo b" {
		t.Fatalf("unexpected parse %+v", cmd)
	}
	if _, ok := Parse("ls :c"); ok {
		t.Fatalf("expected non-command line to be ignored")
	}
	cmd, ok = Parse(":")
	if !ok || cmd.Name != "" {
		t.Fatalf("expected empty command, got %+v", cmd)
	}
}

func TestResolveAliases(t *testing.T) {
	for input, want := range map[string]Kind{
		":q":             Quit,
		":quit":          Quit,
		":rg a,b":        ReplaceGlobal,
		":replacesingle": ReplaceSingle,
		":jb ab":         JumpBefore,
		":co":            CopyOutput,
	} {
		cmd, _ := Parse(input)
		kind, err := Resolve(cmd)
		if err != nil || kind != want {
			t.Fatalf("Resolve(%q) = %v, %v; want %v", input, kind, err, want)
		}
	}
	cmd, _ := Parse(":nope")
	if _, err := Resolve(cmd); !errors.Is(err, schema.ErrInvalidCommand) {
		t.Fatalf("expected invalid command, got %v", err)
	}
}

func TestSplitPairEscapes(t *testing.T) {
	from, to, ok := SplitPair(`a\,b,c\\d,e`)
	if !ok || from != "a,b" || to != `c\d,e` {
		t.Fatalf("unexpected split %q %q %v", from, to, ok)
	}
	if _, _, ok := SplitPair("nocomma"); ok {
		t.Fatalf("expected missing comma to fail")
	}
	from, to, ok = SplitPair(`x,`)
	if !ok || from != "x" || to != "" {
		t.Fatalf("expected empty replacement, got %q %q", from, to)
	}
}

func TestIndexAndCodes(t *testing.T) {
	cmd, _ := Parse(":s 3")
	n, ok, err := Index(cmd)
	if err != nil || !ok || n != 3 {
		t.Fatalf("unexpected index %d %v %v", n, ok, err)
	}
	cmd, _ = Parse(":s x")
	if _, _, err := Index(cmd); err == nil {
		t.Fatalf("expected error for non-numeric index")
	}
	codes := SplitCodes([]string{"AB,cd", "ef"})
	if len(codes) != 3 || codes[0] != "ab" || codes[2] != "ef" {
		t.Fatalf("unexpected codes %v", codes)
	}
	help := HelpLines()
	if len(help) != len(Table)+2 || help[len(help)-1] != LineEditingNote {
		t.Fatalf("expected header, one line per command and the line-editing note")
	}
}

func TestRemainderAfterKeepsSpacing(t *testing.T) {
	cmd, _ := Parse(":se bash  echo  a   &&  echo b")
	if got := RemainderAfter(cmd, 1); got != "echo  a   &&  echo b" {
		t.Fatalf("unexpected remainder %q", got)
	}
	cmd, _ = Parse(":se bash")
	if got := RemainderAfter(cmd, 1); got != "" {
		t.Fatalf("expected empty remainder, got %q", got)
	}
}

package core

import "testing"

func TestTokenizeKinds(t *testing.T) {
	tokens := Tokenize("ls  -la\t\tx\n\ny")
	want := []struct {
		kind TokenKind
		text string
	}{
		{TokenWord, "ls"},
		{TokenSpace, "  "},
		{TokenWord, "-la"},
		{TokenTab, "\t\t"},
		{TokenWord, "x"},
		{TokenNewline, "\n"},
		{TokenNewline, "\n"},
		{TokenWord, "y"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %+v", len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Text != w.text {
			t.Fatalf("token %d: expected %v %q, got %+v", i, w.kind, w.text, tokens[i])
		}
	}
}

func TestWordsOffsets(t *testing.T) {
	text := "echo héllo  world"
	words := Words(text)
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %+v", words)
	}
	for _, w := range words {
		if text[w.Start:w.End] != w.Text {
			t.Fatalf("offsets do not match text for %+v", w)
		}
	}
}

func TestNeedsContinuation(t *testing.T) {
	cases := map[string]bool{
		`echo hi`:          false,
		`echo 'open`:       true,
		`echo "a 'b' c`:    true,
		`echo "done"`:      false,
		`make \`:           true,
		`echo \\`:          false,
		`echo 'back\'`:     false,
		`echo "it's fine"`: false,
	}
	for input, want := range cases {
		if got := NeedsContinuation(input); got != want {
			t.Fatalf("NeedsContinuation(%q) = %v, want %v", input, got, want)
		}
	}
}

package core

// TokenKind classifies a run of text.
type TokenKind int

const (
	// TokenWord is a run of non-blank runes.
	TokenWord TokenKind = iota
	// TokenSpace is a run of spaces.
	TokenSpace
	// TokenTab is a run of tabs.
	TokenTab
	// TokenNewline is a single newline.
	TokenNewline
)

// Token is a byte range [Start, End) of the source text.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
	Text  string
}

// Tokenize splits text into words and blank runs. Newlines are always
// separate tokens.
func Tokenize(text string) []Token {
	var out []Token
	start := 0
	kind := TokenKind(-1)
	flush := func(end int) {
		if kind >= 0 && end > start {
			out = append(out, Token{Kind: kind, Start: start, End: end, Text: text[start:end]})
		}
	}
	for i, r := range text {
		next := classifyRune(r)
		if next == kind && next != TokenNewline {
			continue
		}
		flush(i)
		start = i
		kind = next
	}
	flush(len(text))
	return out
}

// Words returns only the word tokens of text.
func Words(text string) []Token {
	tokens := Tokenize(text)
	out := tokens[:0]
	for _, tok := range tokens {
		if tok.Kind == TokenWord {
			out = append(out, tok)
		}
	}
	return out
}

func classifyRune(r rune) TokenKind {
	switch r {
	case ' ':
		return TokenSpace
	case '\t':
		return TokenTab
	case '\n':
		return TokenNewline
	default:
		return TokenWord
	}
}

package executor

import (
	"bytes"
	"unicode/utf8"

	"pkt.systems/pslog"
	"pkt.systems/vshell/schema"
)

// maxLineBytes forces a line break in output that never emits a newline.
const maxLineBytes = 64 * 1024

// lineWriter turns one output stream into queue fragments. Complete lines are
// pushed as they arrive; an unterminated tail is pushed as a partial fragment
// so prompts and progress output show up before the newline.
type lineWriter struct {
	kind    schema.LineKind
	session uint64
	q       *Queue
	log     pslog.Logger
	pending []byte
	lineLen int
	lines   int
}

func newLineWriter(kind schema.LineKind, session uint64, q *Queue, log pslog.Logger) *lineWriter {
	return &lineWriter{kind: kind, session: session, q: q, log: log}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	data := append(w.pending, p...)
	w.pending = nil
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		push(w.q, w.session, w.kind, data[:idx], false)
		w.lines++
		w.lineLen = 0
		data = data[idx+1:]
	}
	complete, rest := splitIncompleteRune(data)
	if len(complete) > 0 {
		w.lineLen += len(complete)
		partial := w.lineLen < maxLineBytes
		push(w.q, w.session, w.kind, complete, partial)
		if !partial {
			w.lineLen = 0
			w.lines++
		}
	}
	w.pending = append([]byte(nil), rest...)
	return len(p), nil
}

// Flush pushes a held-back incomplete rune once the stream has ended.
func (w *lineWriter) Flush() {
	if len(w.pending) > 0 {
		push(w.q, w.session, w.kind, w.pending, false)
		w.pending = nil
	}
	w.log.Trace("executor stream closed", "stream", w.kind.String(), "lines", w.lines)
}

func push(q *Queue, session uint64, kind schema.LineKind, data []byte, partial bool) {
	text := string(bytes.TrimSuffix(data, []byte{'\r'}))
	q.Push(Item{Session: session, Fragment: &schema.OutputFragment{Kind: kind, Text: text, Partial: partial}})
}

// splitIncompleteRune holds back a trailing, incomplete UTF-8 sequence so a
// rune split across reads is not mangled.
func splitIncompleteRune(data []byte) ([]byte, []byte) {
	for back := 1; back < utf8.UTFMax && back <= len(data); back++ {
		b := data[len(data)-back]
		if b < utf8.RuneSelf {
			return data, nil
		}
		if utf8.RuneStart(b) {
			if utf8.FullRune(data[len(data)-back:]) {
				return data, nil
			}
			return data[:len(data)-back], data[len(data)-back:]
		}
	}
	return data, nil
}

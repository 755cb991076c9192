package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"pkt.systems/vshell/schema"
)

// KeyKind classifies a decoded key event.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyCtrl
	KeyAlt
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEsc
	KeyTab
	KeyShiftTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Key is one decoded key event. R carries the rune for KeyRune, and the
// lowercase letter for KeyCtrl and KeyAlt.
type Key struct {
	Kind KeyKind
	R    rune
}

var namedKinds = map[KeyKind]string{
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyEsc:       "esc",
	KeyTab:       "tab",
	KeyShiftTab:  "shift+tab",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
}

// Name returns the binding name of the key, e.g. "ctrl+t", "alt+b", "up", "x".
func (k Key) Name() string {
	switch k.Kind {
	case KeyRune:
		return string(k.R)
	case KeyCtrl:
		return "ctrl+" + string(k.R)
	case KeyAlt:
		return "alt+" + string(k.R)
	default:
		return namedKinds[k.Kind]
	}
}

// ParseKeyName parses a binding name produced by Name. Matching is case-insensitive
// for modifiers and named keys.
func ParseKeyName(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for kind, n := range namedKinds {
		if lower == n {
			return Key{Kind: kind}, nil
		}
	}
	switch lower {
	case "escape":
		return Key{Kind: KeyEsc}, nil
	case "return":
		return Key{Kind: KeyEnter}, nil
	case "space":
		return Key{Kind: KeyRune, R: ' '}, nil
	}
	for prefix, kind := range map[string]KeyKind{"ctrl+": KeyCtrl, "c-": KeyCtrl, "alt+": KeyAlt, "m-": KeyAlt} {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := lower[len(prefix):]
		if len(rest) != 1 || rest[0] < 'a' || rest[0] > 'z' {
			return Key{}, fmt.Errorf("unsupported key %q", name)
		}
		return Key{Kind: kind, R: rune(rest[0])}, nil
	}
	if utf8.RuneCountInString(trimmed) == 1 {
		r, _ := utf8.DecodeRuneInString(trimmed)
		return Key{Kind: KeyRune, R: r}, nil
	}
	return Key{}, fmt.Errorf("unsupported key %q", name)
}

// Decoder turns raw terminal bytes into key events.
type Decoder struct {
	br        *bufio.Reader
	lastWasCR bool
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{br: bufio.NewReader(r)}
}

// Next blocks until one key event is decoded. A malformed sequence is
// consumed and reported as an *schema.InputError; decoding may continue
// after it. Any other error comes from the underlying reader.
func (d *Decoder) Next() (Key, error) {
	for {
		b, err := d.br.ReadByte()
		if err != nil {
			return Key{}, err
		}
		if d.lastWasCR {
			d.lastWasCR = false
			if b == '\n' {
				continue
			}
		}
		switch {
		case b == 0x1b:
			return d.readEscape()
		case b == '\r':
			d.lastWasCR = true
			return Key{Kind: KeyEnter}, nil
		case b == '\t':
			return Key{Kind: KeyTab}, nil
		case b == 0x7f || b == 0x08:
			return Key{Kind: KeyBackspace}, nil
		case b == 0:
			return Key{Kind: KeyCtrl, R: ' '}, nil
		case b < 0x20:
			return Key{Kind: KeyCtrl, R: rune('a' + b - 1)}, nil
		case b < utf8.RuneSelf:
			return Key{Kind: KeyRune, R: rune(b)}, nil
		}
		_ = d.br.UnreadByte()
		r, size, err := d.br.ReadRune()
		if err != nil {
			return Key{}, err
		}
		if r == utf8.RuneError && size == 1 {
			return Key{}, &schema.InputError{Bytes: []byte{b}}
		}
		return Key{Kind: KeyRune, R: r}, nil
	}
}

func (d *Decoder) readEscape() (Key, error) {
	// A lone ESC arrives with nothing buffered behind it.
	if d.br.Buffered() == 0 {
		return Key{Kind: KeyEsc}, nil
	}
	b, err := d.br.ReadByte()
	if err != nil {
		return Key{Kind: KeyEsc}, nil
	}
	switch {
	case b == '[':
		return d.readCSI()
	case b == 'O':
		return d.readSS3()
	case b == 0x1b:
		_ = d.br.UnreadByte()
		return Key{Kind: KeyEsc}, nil
	case b >= 'a' && b <= 'z':
		return Key{Kind: KeyAlt, R: rune(b)}, nil
	case b >= 'A' && b <= 'Z':
		return Key{Kind: KeyAlt, R: rune(b - 'A' + 'a')}, nil
	case b == 0x7f:
		return Key{Kind: KeyCtrl, R: 'w'}, nil
	default:
		return Key{}, &schema.InputError{Bytes: []byte{0x1b, b}}
	}
}

func (d *Decoder) readCSI() (Key, error) {
	seq := []byte{}
	for {
		b, err := d.br.ReadByte()
		if err != nil {
			return Key{}, &schema.InputError{Bytes: append([]byte{0x1b, '['}, seq...)}
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if len(seq) > 8 {
			return Key{}, &schema.InputError{Bytes: append([]byte{0x1b, '['}, seq...)}
		}
	}
	switch string(seq) {
	case "A":
		return Key{Kind: KeyUp}, nil
	case "B":
		return Key{Kind: KeyDown}, nil
	case "C":
		return Key{Kind: KeyRight}, nil
	case "D":
		return Key{Kind: KeyLeft}, nil
	case "H", "1~", "7~":
		return Key{Kind: KeyHome}, nil
	case "F", "4~", "8~":
		return Key{Kind: KeyEnd}, nil
	case "5~":
		return Key{Kind: KeyPageUp}, nil
	case "6~":
		return Key{Kind: KeyPageDown}, nil
	case "3~":
		return Key{Kind: KeyDelete}, nil
	case "Z", "1;2Z":
		return Key{Kind: KeyShiftTab}, nil
	}
	return Key{}, &schema.InputError{Bytes: append([]byte{0x1b, '['}, seq...)}
}

func (d *Decoder) readSS3() (Key, error) {
	b, err := d.br.ReadByte()
	if err != nil {
		return Key{}, &schema.InputError{Bytes: []byte{0x1b, 'O'}}
	}
	switch b {
	case 'A':
		return Key{Kind: KeyUp}, nil
	case 'B':
		return Key{Kind: KeyDown}, nil
	case 'C':
		return Key{Kind: KeyRight}, nil
	case 'D':
		return Key{Kind: KeyLeft}, nil
	case 'H':
		return Key{Kind: KeyHome}, nil
	case 'F':
		return Key{Kind: KeyEnd}, nil
	}
	return Key{}, &schema.InputError{Bytes: []byte{0x1b, 'O', b}}
}

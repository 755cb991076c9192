package terminal

import (
	"fmt"
	"io"
	"strings"

	"pkt.systems/vshell/schema"
)

// Frame is the complete intended screen content. Rows and columns of the
// cursor are 0-based.
type Frame struct {
	Lines     []string
	CursorRow int
	CursorCol int
	Width     int
	Height    int
}

// Screen writes frames to an output stream.
type Screen struct {
	out io.Writer
}

// NewScreen returns a screen writing to out.
func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

// EnterAltScreen switches to the alternate buffer and clears it.
func (s *Screen) EnterAltScreen() error {
	return s.write("\x1b[?1049h\x1b[H\x1b[2J")
}

// ExitAltScreen restores the primary buffer and shows the cursor.
func (s *Screen) ExitAltScreen() error {
	return s.write("\x1b[?1049l\x1b[?25h")
}

// Render fully redraws the screen. Rendering the same frame twice produces
// the same terminal state. Lines beyond Height and cells beyond Width are
// dropped, and a failed write is returned as *schema.RenderError.
func (s *Screen) Render(frame Frame) error {
	var b strings.Builder
	b.WriteString("\x1b[?25l")
	b.WriteString("\x1b[H\x1b[2J")
	lines := frame.Lines
	if frame.Height > 0 && len(lines) > frame.Height {
		lines = lines[:frame.Height]
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		if frame.Width > 0 && VisibleWidth(line) > frame.Width {
			line = TrimToWidth(line, frame.Width)
		}
		b.WriteString(line)
		b.WriteString("\x1b[0m")
	}
	row := clampCell(frame.CursorRow, frame.Height)
	col := clampCell(frame.CursorCol, frame.Width)
	fmt.Fprintf(&b, "\x1b[%d;%dH", row+1, col+1)
	b.WriteString("\x1b[?25h")
	return s.write(b.String())
}

func (s *Screen) write(seq string) error {
	if _, err := io.WriteString(s.out, seq); err != nil {
		return &schema.RenderError{Err: err}
	}
	return nil
}

func clampCell(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit > 0 && v >= limit {
		return limit - 1
	}
	return v
}

package terminal

import (
	"sync"

	"golang.org/x/term"
)

// RawMode is the scoped ownership of a terminal in raw mode. Release restores
// the saved state exactly once no matter how many exit paths call it.
type RawMode struct {
	fd    int
	state *term.State
	once  sync.Once
	err   error
}

// EnableRaw puts fd into raw mode and returns the guard that restores it.
func EnableRaw(fd int) (*RawMode, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Release restores the mode saved by EnableRaw.
func (r *RawMode) Release() error {
	if r == nil {
		return nil
	}
	r.once.Do(func() {
		r.err = term.Restore(r.fd, r.state)
	})
	return r.err
}

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Size returns the terminal dimensions, falling back to 80x24.
func Size(fd int) (int, int) {
	width, height, err := term.GetSize(fd)
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

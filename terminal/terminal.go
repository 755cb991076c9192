package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/cancelreader"

	"pkt.systems/pslog"
	"pkt.systems/vshell/schema"
)

// Event is one result of the key reader: either a key or a recoverable
// input error.
type Event struct {
	Key Key
	Err error
}

// Terminal owns a raw-mode TTY for the lifetime of a session.
type Terminal struct {
	in     *os.File
	out    io.Writer
	reader cancelreader.CancelReader
	raw    *RawMode
	screen *Screen

	closeOnce sync.Once
	closeErr  error
}

// Open puts in into raw mode, switches out to the alternate screen and
// returns the terminal. Close undoes both.
func Open(in *os.File, out io.Writer) (*Terminal, error) {
	fd := int(in.Fd())
	if !IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	raw, err := EnableRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	reader, err := cancelreader.NewReader(in)
	if err != nil {
		_ = raw.Release()
		return nil, fmt.Errorf("open input: %w", err)
	}
	t := &Terminal{in: in, out: out, reader: reader, raw: raw, screen: NewScreen(out)}
	if err := t.screen.EnterAltScreen(); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

// Size returns the current terminal dimensions.
func (t *Terminal) Size() (int, int) {
	return Size(int(t.in.Fd()))
}

// Render draws a full frame.
func (t *Terminal) Render(frame Frame) error {
	return t.screen.Render(frame)
}

// Keys starts the key reader and returns its event channel. The channel is
// closed when input ends, Close is called, or ctx is done.
func (t *Terminal) Keys(ctx context.Context) <-chan Event {
	out := make(chan Event, 16)
	go ReadKeys(ctx, t.reader, out)
	return out
}

// Close stops the key reader, leaves the alternate screen and restores the
// saved terminal mode. It is safe to call more than once.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.reader.Cancel()
		exitErr := t.screen.ExitAltScreen()
		rawErr := t.raw.Release()
		_ = t.reader.Close()
		t.closeErr = errors.Join(exitErr, rawErr)
	})
	return t.closeErr
}

// ReadKeys decodes r until it fails or ctx ends, sending each key or input
// error to out. out is closed on return.
func ReadKeys(ctx context.Context, r io.Reader, out chan<- Event) {
	defer close(out)
	dec := NewDecoder(r)
	log := pslog.Ctx(ctx)
	for {
		k, err := dec.Next()
		ev := Event{Key: k}
		if err != nil {
			if !errors.Is(err, schema.ErrInput) {
				if !errors.Is(err, cancelreader.ErrCanceled) && !errors.Is(err, io.EOF) {
					log.Debug("terminal key reader stopped", "err", err)
				}
				return
			}
			ev = Event{Err: err}
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Package clipboard hands text to the system clipboard, with an in-memory
// fallback when no clipboard utility is available.
package clipboard

import (
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"pkt.systems/vshell/schema"
)

// Sink receives copied text and supplies pasted text.
type Sink interface {
	Copy(text string) error
	Paste() (string, error)
}

// System uses the platform clipboard utility (xclip, xsel, wl-copy, pbcopy).
type System struct{}

// Available reports whether a platform clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}

// Copy writes text to the platform clipboard.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility found", schema.ErrClipboard)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", schema.ErrClipboard, err)
	}
	return nil
}

// Paste reads text from the platform clipboard.
func (System) Paste() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("%w: no clipboard utility found", schema.ErrClipboard)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", schema.ErrClipboard, err)
	}
	return text, nil
}

// Memory keeps the last copied text in process.
type Memory struct {
	mu   sync.Mutex
	text string
	set  bool
}

// Copy stores text.
func (m *Memory) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.set = true
	return nil
}

// Paste returns the stored text.
func (m *Memory) Paste() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", fmt.Errorf("%w: clipboard is empty", schema.ErrClipboard)
	}
	return m.text, nil
}

// Fallback copies to Primary and mirrors into Secondary. When Primary fails
// the text is still kept in Secondary and the Primary error is returned so
// the caller can warn.
type Fallback struct {
	Primary   Sink
	Secondary Sink
}

// Copy writes to both sinks.
func (f Fallback) Copy(text string) error {
	if f.Secondary != nil {
		_ = f.Secondary.Copy(text)
	}
	if f.Primary == nil {
		return nil
	}
	return f.Primary.Copy(text)
}

// Paste prefers Primary and falls back to Secondary.
func (f Fallback) Paste() (string, error) {
	if f.Primary != nil {
		text, err := f.Primary.Paste()
		if err == nil {
			return text, nil
		}
		if f.Secondary == nil {
			return "", err
		}
	}
	if f.Secondary == nil {
		return "", fmt.Errorf("%w: no clipboard configured", schema.ErrClipboard)
	}
	return f.Secondary.Paste()
}

// Default returns the system clipboard backed by an in-memory copy.
func Default() Sink {
	return Fallback{Primary: System{}, Secondary: &Memory{}}
}

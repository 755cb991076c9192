package core

import (
	"strings"

	"pkt.systems/vshell/schema"
)

// DefaultDirectoryEntries is the directory history cap when none is configured.
const DefaultDirectoryEntries = 200

// Directories records working-directory changes. Consecutive duplicates are
// suppressed and the oldest entry is evicted past the cap.
type Directories struct {
	entries   []schema.DirectoryEntry
	max       int
	nextID    schema.EntryID
	nextOrder uint64
}

// NewDirectories returns a directory history holding at most max entries.
func NewDirectories(max int) *Directories {
	if max <= 0 {
		max = DefaultDirectoryEntries
	}
	return &Directories{max: max, nextID: 1, nextOrder: 1}
}

// Record appends path unless it equals the most recent entry.
func (d *Directories) Record(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	if n := len(d.entries); n > 0 && d.entries[n-1].Path == path {
		return false
	}
	d.entries = append(d.entries, schema.DirectoryEntry{ID: d.nextID, Path: path, Order: d.nextOrder})
	d.nextID++
	d.nextOrder++
	if len(d.entries) > d.max {
		d.entries = d.entries[len(d.entries)-d.max:]
	}
	return true
}

// Len returns the number of stored entries.
func (d *Directories) Len() int {
	return len(d.entries)
}

// DerivedView returns entries most-recent-first.
func (d *Directories) DerivedView() []schema.DirectoryEntry {
	view := make([]schema.DirectoryEntry, len(d.entries))
	for i, entry := range d.entries {
		view[len(d.entries)-1-i] = entry
	}
	return view
}

// Select returns the path at index in the derived view.
func (d *Directories) Select(index int) (string, error) {
	if index < 0 || index >= len(d.entries) {
		return "", schema.ErrDirectoryIndex
	}
	return d.entries[len(d.entries)-1-index].Path, nil
}

// Lookup returns the entry with the given ID and its derived-view index.
func (d *Directories) Lookup(id schema.EntryID) (schema.DirectoryEntry, int, bool) {
	for i := len(d.entries) - 1; i >= 0; i-- {
		if d.entries[i].ID == id {
			return d.entries[i], len(d.entries) - 1 - i, true
		}
	}
	return schema.DirectoryEntry{}, -1, false
}

// Previous returns the path recorded before the most recent one.
func (d *Directories) Previous() (string, bool) {
	if len(d.entries) < 2 {
		return "", false
	}
	return d.entries[len(d.entries)-2].Path, true
}

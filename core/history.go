package core

import (
	"sort"
	"strings"

	"pkt.systems/vshell/schema"
)

// DefaultHistoryEntries is the history cap when none is configured.
const DefaultHistoryEntries = 1000

// History records executed command lines. Re-running a command appends a new
// entry; duplicates are kept. When the cap is exceeded the oldest unpinned
// entry is evicted.
type History struct {
	entries   []schema.HistoryEntry
	max       int
	nextID    schema.EntryID
	nextOrder uint64
	nextPin   uint64
}

// NewHistory returns a history holding at most max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryEntries
	}
	return &History{max: max, nextID: 1, nextOrder: 1, nextPin: 1}
}

// Record appends text as the most recent entry. Blank lines are ignored.
func (h *History) Record(text string) (schema.HistoryEntry, bool) {
	if strings.TrimSpace(text) == "" {
		return schema.HistoryEntry{}, false
	}
	entry := schema.HistoryEntry{ID: h.nextID, Text: text, Order: h.nextOrder}
	h.nextID++
	h.nextOrder++
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.evict()
	}
	return entry, true
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// DerivedView returns pinned entries in pin order followed by unpinned
// entries most-recent-first.
func (h *History) DerivedView() []schema.HistoryEntry {
	view := append([]schema.HistoryEntry(nil), h.entries...)
	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i], view[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.Pinned {
			return a.PinOrder < b.PinOrder
		}
		return a.Order > b.Order
	})
	return view
}

// TogglePin flips the pinned flag of the entry at index in the derived view.
// A newly pinned entry goes after the existing pins; an unpinned entry
// returns to its recency position.
func (h *History) TogglePin(index int) (schema.HistoryEntry, error) {
	view := h.DerivedView()
	if index < 0 || index >= len(view) {
		return schema.HistoryEntry{}, schema.ErrHistoryIndex
	}
	return h.TogglePinID(view[index].ID)
}

// TogglePinID flips the pinned flag of the entry with the given ID.
func (h *History) TogglePinID(id schema.EntryID) (schema.HistoryEntry, error) {
	for i := range h.entries {
		if h.entries[i].ID != id {
			continue
		}
		entry := &h.entries[i]
		if entry.Pinned {
			entry.Pinned = false
			entry.PinOrder = 0
		} else {
			entry.Pinned = true
			entry.PinOrder = h.nextPin
			h.nextPin++
		}
		return *entry, nil
	}
	return schema.HistoryEntry{}, schema.ErrHistoryIndex
}

// Select returns the text at index in the derived view.
func (h *History) Select(index int) (string, error) {
	view := h.DerivedView()
	if index < 0 || index >= len(view) {
		return "", schema.ErrHistoryIndex
	}
	return view[index].Text, nil
}

// Lookup returns the entry with the given ID and its derived-view index.
func (h *History) Lookup(id schema.EntryID) (schema.HistoryEntry, int, bool) {
	for i, entry := range h.DerivedView() {
		if entry.ID == id {
			return entry, i, true
		}
	}
	return schema.HistoryEntry{}, -1, false
}

func (h *History) evict() {
	victim := -1
	for i, entry := range h.entries {
		if !entry.Pinned {
			victim = i
			break
		}
	}
	if victim < 0 {
		victim = 0
	}
	h.entries = append(h.entries[:victim], h.entries[victim+1:]...)
}

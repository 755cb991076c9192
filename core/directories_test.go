package core

import (
	"errors"
	"testing"

	"pkt.systems/vshell/schema"
)

func TestDirectoriesSuppressConsecutiveDuplicates(t *testing.T) {
	d := NewDirectories(10)
	d.Record("/tmp")
	if d.Record("/tmp") {
		t.Fatalf("expected consecutive duplicate to be suppressed")
	}
	d.Record("/src")
	if !d.Record("/tmp") {
		t.Fatalf("expected non-consecutive duplicate to be recorded")
	}
	if d.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", d.Len())
	}
	path, err := d.Select(0)
	if err != nil || path != "/tmp" {
		t.Fatalf("expected most recent /tmp, got %q %v", path, err)
	}
	path, _ = d.Select(1)
	if path != "/src" {
		t.Fatalf("expected /src, got %q", path)
	}
	prev, ok := d.Previous()
	if !ok || prev != "/src" {
		t.Fatalf("expected previous /src, got %q", prev)
	}
}

func TestDirectoriesBoundedAndLookup(t *testing.T) {
	d := NewDirectories(2)
	d.Record("/a")
	d.Record("/b")
	d.Record("/c")
	view := d.DerivedView()
	if len(view) != 2 || view[0].Path != "/c" || view[1].Path != "/b" {
		t.Fatalf("unexpected view %+v", view)
	}
	entry, idx, ok := d.Lookup(view[1].ID)
	if !ok || idx != 1 || entry.Path != "/b" {
		t.Fatalf("unexpected lookup %+v %d %v", entry, idx, ok)
	}
	if _, _, ok := d.Lookup(1); ok {
		t.Fatalf("expected evicted entry to be gone")
	}
	if _, err := d.Select(5); !errors.Is(err, schema.ErrDirectoryIndex) {
		t.Fatalf("expected ErrDirectoryIndex, got %v", err)
	}
}

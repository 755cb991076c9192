package hint

import "pkt.systems/vshell/schema"

// State is the live session state a target is checked against.
type State interface {
	HistoryEntry(id schema.EntryID) (schema.HistoryEntry, int, bool)
	DirectoryEntry(id schema.EntryID) (schema.DirectoryEntry, int, bool)
	ScrollbackLine(id schema.LineID) (string, bool)
	InputText() string
}

// Validate resolves target against live state. Entries are matched by
// identity and the returned target carries their current derived index.
// Spans must still hold the exact text they held when the hint was drawn.
// Anything else fails with *schema.UnknownHintError; a target never
// resolves to a different region.
func Validate(target schema.HintTarget, live State) (schema.HintTarget, error) {
	switch target.Kind {
	case schema.HintHistoryJump:
		entry, idx, ok := live.HistoryEntry(target.EntryID)
		if !ok {
			return schema.HintTarget{}, &schema.UnknownHintError{Reason: "history entry is gone"}
		}
		target.Index = idx
		target.Span.Text = entry.Text
		return target, nil
	case schema.HintDirectoryJump:
		entry, idx, ok := live.DirectoryEntry(target.EntryID)
		if !ok {
			return schema.HintTarget{}, &schema.UnknownHintError{Reason: "directory entry is gone"}
		}
		target.Index = idx
		target.Span.Text = entry.Path
		return target, nil
	case schema.HintOutputSpan:
		var text string
		switch target.Span.Region {
		case schema.RegionScrollback:
			line, ok := live.ScrollbackLine(target.Span.LineID)
			if !ok {
				return schema.HintTarget{}, &schema.UnknownHintError{Reason: "output line was evicted"}
			}
			text = line
		case schema.RegionInput:
			text = live.InputText()
		default:
			return schema.HintTarget{}, &schema.UnknownHintError{Reason: "unknown region"}
		}
		span := target.Span
		if span.Start < 0 || span.End > len(text) || span.Start > span.End || text[span.Start:span.End] != span.Text {
			return schema.HintTarget{}, &schema.UnknownHintError{Reason: "text changed"}
		}
		return target, nil
	default:
		return schema.HintTarget{}, &schema.UnknownHintError{Reason: "unknown target"}
	}
}

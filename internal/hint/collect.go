package hint

import (
	"pkt.systems/vshell/core"
	"pkt.systems/vshell/schema"
)

// Placement maps a byte offset of a laid-out line to its screen cell. ok is
// false when the offset is not on screen.
type Placement func(offset int) (row, col int, ok bool)

// WordRegions returns one output-span region per visible word of text.
func WordRegions(region schema.SpanRegion, id schema.LineID, text string, place Placement) []Region {
	var out []Region
	for _, tok := range core.Words(text) {
		row, col, ok := place(tok.Start)
		if !ok {
			continue
		}
		out = append(out, Region{Row: row, Col: col, Target: spanTarget(region, id, text, tok.Start, tok.End)})
	}
	return out
}

// MatchRegions returns one output-span region per visible search match.
func MatchRegions(region schema.SpanRegion, id schema.LineID, text string, matches []core.Match, place Placement) []Region {
	var out []Region
	for _, m := range matches {
		row, col, ok := place(m.Start)
		if !ok {
			continue
		}
		out = append(out, Region{Row: row, Col: col, Target: spanTarget(region, id, text, m.Start, m.End)})
	}
	return out
}

func spanTarget(region schema.SpanRegion, id schema.LineID, text string, start, end int) schema.HintTarget {
	return schema.HintTarget{
		Kind: schema.HintOutputSpan,
		Span: schema.Span{Region: region, LineID: id, Start: start, End: end, Text: text[start:end]},
	}
}

// WrapPlacement places offsets of text hard-wrapped at width columns,
// starting at firstRow/firstCol, visible within rows [minRow, maxRow).
func WrapPlacement(text string, width, firstRow, firstCol, minRow, maxRow int) Placement {
	return func(offset int) (int, int, bool) {
		if width <= 0 {
			return 0, 0, false
		}
		idx := core.RuneIndex(text, offset) + firstCol
		row := firstRow + idx/width
		col := idx % width
		if row < minRow || row >= maxRow {
			return 0, 0, false
		}
		return row, col, true
	}
}

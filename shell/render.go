package shell

import (
	"fmt"
	"path/filepath"
	"strings"

	"pkt.systems/vshell/core"
	"pkt.systems/vshell/internal/hint"
	"pkt.systems/vshell/schema"
	"pkt.systems/vshell/terminal"
)

type cellPos struct {
	row int
	col int
}

// inputLayout places every rune of the line, plus the end-of-line cursor
// slot, on rows of the input area. Continuation rows are indented by the
// prompt width.
type inputLayout struct {
	pos  []cellPos
	rows int
}

func layoutInput(text []rune, prefixWidth, width int) inputLayout {
	indent := prefixWidth
	if indent >= width {
		indent = 0
	}
	pos := make([]cellPos, len(text)+1)
	row, col := 0, prefixWidth
	for i, r := range text {
		if r != '\n' && col >= width {
			row++
			col = indent
		}
		pos[i] = cellPos{row: row, col: col}
		if r == '\n' {
			row++
			col = indent
			continue
		}
		col++
	}
	if col >= width {
		row++
		col = indent
	}
	pos[len(text)] = cellPos{row: row, col: col}
	return inputLayout{pos: pos, rows: row + 1}
}

// wrapRunes hard-wraps text at width cells. An empty line is one row.
func wrapRunes(text string, width int) []string {
	runes := []rune(text)
	if len(runes) == 0 || width <= 0 {
		return []string{""}
	}
	rows := make([]string, 0, len(runes)/width+1)
	for len(runes) > width {
		rows = append(rows, string(runes[:width]))
		runes = runes[width:]
	}
	return append(rows, string(runes))
}

// compose lays out the whole screen and collects the hint regions of the
// frame. It reads session state and never mutates it, except for recording
// the viewport height used for paging.
func (s *Session) compose() (terminal.Frame, *hint.Set) {
	width, height := s.width, s.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	cv := newCanvas(width, height)

	prefix := s.promptPrefix()
	text := s.line.String()
	runes := []rune(text)
	lay := layoutInput(runes, len([]rune(prefix)), width)

	maxInput := s.cfg.Input.MaxRows
	if maxInput <= 0 {
		maxInput = 1
	}
	rest := height
	inputRows := min(lay.rows, maxInput, rest)
	rest -= inputRows
	statusRows := min(1, rest)
	rest -= statusRows
	noticeRows := min(1, rest)
	rest -= noticeRows
	histView := s.history.DerivedView()
	histRows := max(0, min(len(histView), s.cfg.History.PanelRows, rest))
	rest -= histRows
	dirView := s.dirs.DerivedView()
	dirRows := max(0, min(len(dirView), s.cfg.Directories.PanelRows, rest))
	rest -= dirRows
	viewRows := rest
	s.viewRows = viewRows

	var regions []hint.Region
	row := 0
	if statusRows > 0 {
		s.drawStatus(cv, row)
		row++
	}
	for i := 0; i < histRows; i++ {
		entry := histView[i]
		marker, style := " ", s.theme.panel
		if entry.Pinned {
			marker, style = "*", s.theme.pinned
		}
		cv.put(row, 0, fmt.Sprintf("%s%d: %s", marker, i, flatten(entry.Text)), style)
		regions = append(regions, hint.Region{Row: row, Col: 0, Target: schema.HintTarget{
			Kind:    schema.HintHistoryJump,
			Index:   i,
			EntryID: entry.ID,
			Span:    schema.Span{Text: entry.Text},
		}})
		row++
	}
	for i := 0; i < dirRows; i++ {
		entry := dirView[i]
		cv.put(row, 0, fmt.Sprintf(" %d: %s", i, s.displayPath(entry.Path)), s.theme.meta)
		regions = append(regions, hint.Region{Row: row, Col: 0, Target: schema.HintTarget{
			Kind:    schema.HintDirectoryJump,
			Index:   i,
			EntryID: entry.ID,
			Span:    schema.Span{Text: entry.Path},
		}})
		row++
	}
	regions = append(regions, s.drawScrollback(cv, row, viewRows, width)...)
	row += viewRows

	noticeRow := -1
	if noticeRows > 0 {
		noticeRow = row
		s.drawNotice(cv, row, width)
		row++
	}

	inputTop := row
	cursor := lay.pos[s.line.Cursor()]
	start := 0
	if cursor.row >= inputRows {
		start = cursor.row - inputRows + 1
	}
	if start == 0 {
		style := s.theme.prompt
		if s.state == schema.StateRunning {
			style = s.theme.spinner
		}
		cv.put(inputTop, 0, prefix, style)
	}
	visible := func(p cellPos) bool {
		return p.row >= start && p.row < start+inputRows
	}
	for i, r := range runes {
		p := lay.pos[i]
		if r == '\n' || !visible(p) {
			continue
		}
		cv.put(inputTop+p.row-start, p.col, string(r), "")
	}
	place := func(off int) (int, int, bool) {
		p := lay.pos[core.RuneIndex(text, off)]
		if !visible(p) {
			return 0, 0, false
		}
		return inputTop + p.row - start, p.col, true
	}
	if s.search != "" {
		s.highlight(cv, text, core.Find(s.search, text, s.searchCase), place)
	}
	inputRegions := hint.WordRegions(schema.RegionInput, 0, text, place)
	regions = append(regions, inputRegions...)

	set := hint.Assign(s.alphabet, regions)
	s.drawLabels(cv, set)

	frame := terminal.Frame{
		Lines:     cv.lines(),
		CursorRow: inputTop + cursor.row - start,
		CursorCol: cursor.col,
		Width:     width,
		Height:    height,
	}
	if s.prompt != nil && noticeRow >= 0 {
		frame.CursorRow = noticeRow
		_, col := s.promptWindow(width)
		frame.CursorCol = min(col, width-1)
	}
	return frame, set
}

func (s *Session) drawScrollback(cv *canvas, top, rows, width int) []hint.Region {
	if rows <= 0 {
		return nil
	}
	view := s.scroll.Snapshot(rows)
	type block struct {
		line  core.Line
		first int
		rows  []string
	}
	blocks := make([]block, 0, len(view.Lines))
	total := 0
	for _, line := range view.Lines {
		wrapped := wrapRunes(line.Text, width)
		blocks = append(blocks, block{line: line, first: total, rows: wrapped})
		total += len(wrapped)
	}
	offset := 0
	if view.AtBottom && total > rows {
		offset = total - rows
	}
	var regions []hint.Region
	for _, b := range blocks {
		style := s.theme.forKind(b.line.Kind)
		for i, seg := range b.rows {
			r := b.first + i - offset
			if r < 0 || r >= rows {
				continue
			}
			cv.put(top+r, 0, seg, style)
		}
		place := hint.WrapPlacement(b.line.Text, width, top+b.first-offset, 0, top, top+rows)
		if s.search != "" {
			matches := core.Find(s.search, b.line.Text, s.searchCase)
			s.highlight(cv, b.line.Text, matches, place)
			regions = append(regions, hint.MatchRegions(schema.RegionScrollback, b.line.ID, b.line.Text, matches, place)...)
			continue
		}
		regions = append(regions, hint.WordRegions(schema.RegionScrollback, b.line.ID, b.line.Text, place)...)
	}
	return regions
}

func (s *Session) highlight(cv *canvas, text string, matches []core.Match, place hint.Placement) {
	for _, m := range matches {
		for off := range text[m.Start:m.End] {
			if row, col, ok := place(m.Start + off); ok {
				cv.restyle(row, col, 1, s.theme.match)
			}
		}
	}
}

// drawLabels overlays hint codes. While selecting, every hint matching the
// typed prefix is shown; with hints toggled on in Editing only the panels
// and the line are labelled.
func (s *Session) drawLabels(cv *canvas, set *hint.Set) {
	selecting := s.state == schema.StateHintSelecting
	if !selecting && !s.alwaysHints {
		return
	}
	if !selecting && s.state == schema.StateRunning {
		return
	}
	typed := ""
	if selecting {
		typed = s.hintTyped
	}
	for _, h := range set.Matching(typed) {
		if !selecting && h.Target.Kind == schema.HintOutputSpan && h.Target.Span.Region == schema.RegionScrollback {
			continue
		}
		col := cv.put(h.Row, h.Col, typed, s.theme.hintDim)
		cv.put(h.Row, col, h.Code[len(typed):], s.theme.hint)
	}
}

func (s *Session) drawStatus(cv *canvas, row int) {
	cv.fillRow(row, s.theme.status)
	parts := []string{" vshell", s.displayPath(s.cwd), s.state.String()}
	if s.state == schema.StateHintSelecting {
		parts = append(parts, fmt.Sprintf("%s: %s_", s.hintMode, s.hintTyped))
	}
	if s.search != "" {
		mode := "find"
		if s.searchCase {
			mode = "find (case)"
		}
		parts = append(parts, fmt.Sprintf("%s: %q", mode, s.search))
	}
	if s.alwaysHints {
		parts = append(parts, "hints on")
	}
	if s.proc != nil && s.state != schema.StateRunning {
		parts = append(parts, "process finishing")
	}
	cv.put(row, 0, strings.Join(parts, " | "), s.theme.status)
}

func (s *Session) drawNotice(cv *canvas, row, width int) {
	if s.prompt != nil {
		text, _ := s.promptWindow(width)
		cv.put(row, 0, ":"+text, s.theme.prompt)
		return
	}
	if s.notice != "" {
		cv.put(row, 0, s.notice, s.theme.notice)
	}
}

// promptWindow returns the visible tail of the prompt text after the ':' and
// the cursor column within the row. Text scrolls left only as far as keeps
// the cursor on screen.
func (s *Session) promptWindow(width int) (string, int) {
	text := []rune(s.prompt.String())
	cursor := s.prompt.Cursor()
	skip := min(max(len(text)+2-width, 0), cursor)
	return string(text[skip:]), 1 + cursor - skip
}

func (s *Session) promptPrefix() string {
	switch s.state {
	case schema.StateRunning:
		return fmt.Sprintf("%c ", spinnerFrames[s.spinnerIdx%len(spinnerFrames)])
	case schema.StateEditingHint:
		return "~> "
	case schema.StateHintSelecting:
		if s.hintReturn == schema.StateEditingHint {
			return "~> "
		}
	}
	return "> "
}

func (s *Session) displayPath(path string) string {
	if s.home != "" && s.home != "/" {
		if path == s.home {
			return "~"
		}
		if rel, ok := strings.CutPrefix(path, s.home+string(filepath.Separator)); ok {
			return "~/" + rel
		}
	}
	return path
}

func flatten(text string) string {
	return strings.ReplaceAll(text, "\n", " ↵ ")
}

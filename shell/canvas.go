package shell

import "strings"

type cell struct {
	r     rune
	style string
}

// canvas is a width x height grid of styled cells. Writes outside the grid
// are dropped, so every serialized row fits the terminal.
type canvas struct {
	width  int
	height int
	rows   [][]cell
	fill   []string
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, rows: make([][]cell, height), fill: make([]string, height)}
	for i := range c.rows {
		c.rows[i] = make([]cell, width)
		for j := range c.rows[i] {
			c.rows[i][j] = cell{r: ' '}
		}
	}
	return c
}

// fillRow paints the whole row with style, used for bars.
func (c *canvas) fillRow(row int, style string) {
	if row < 0 || row >= c.height {
		return
	}
	c.fill[row] = style
	for j := range c.rows[row] {
		c.rows[row][j].style = style
	}
}

// put writes text starting at (row, col) and returns the column after it.
func (c *canvas) put(row, col int, text, style string) int {
	if row < 0 || row >= c.height {
		return col
	}
	for _, r := range text {
		if col >= c.width {
			break
		}
		if r < 0x20 || r == 0x7f {
			r = '?'
		}
		if col >= 0 {
			c.rows[row][col] = cell{r: r, style: style}
		}
		col++
	}
	return col
}

// restyle changes the style of n cells starting at (row, col).
func (c *canvas) restyle(row, col, n int, style string) {
	if row < 0 || row >= c.height {
		return
	}
	for i := 0; i < n; i++ {
		if col+i < 0 || col+i >= c.width {
			continue
		}
		c.rows[row][col+i].style = style
	}
}

// lines serializes the grid. Unstyled trailing blanks are trimmed.
func (c *canvas) lines() []string {
	out := make([]string, c.height)
	for i, row := range c.rows {
		end := len(row)
		if c.fill[i] == "" {
			for end > 0 && row[end-1].r == ' ' && row[end-1].style == "" {
				end--
			}
		}
		var b strings.Builder
		current := ""
		for _, cl := range row[:end] {
			if cl.style != current {
				if current != "" {
					b.WriteString(ansiReset)
				}
				b.WriteString(cl.style)
				current = cl.style
			}
			b.WriteRune(cl.r)
		}
		if current != "" {
			b.WriteString(ansiReset)
		}
		out[i] = b.String()
	}
	return out
}

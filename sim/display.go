package sim

import (
	"io"
	"strings"
)

// The panel is 128x64 pixels; one character cell covers 6x8 of them.
const (
	panelWidth  = 128
	panelHeight = 64
	cellWidth   = 6
	cellHeight  = 8
	gridCols    = panelWidth / cellWidth
	gridRows    = panelHeight / cellHeight
)

// Terminal is a text rendition of the OLED panel. Text positions are mapped
// to the character cell under them and clipped at the panel edges.
type Terminal struct {
	w    io.Writer
	grid [gridRows][gridCols]rune
}

func NewTerminal(w io.Writer) *Terminal {
	t := &Terminal{w: w}
	t.Clear()
	return t
}

func (t *Terminal) Clear() {
	for r := range t.grid {
		for c := range t.grid[r] {
			t.grid[r][c] = ' '
		}
	}
}

func (t *Terminal) DrawText(x, y int16, text string) {
	if y < 0 || y >= panelHeight {
		return
	}
	row := int(y) / cellHeight
	col := int(x) / cellWidth
	if x < 0 {
		col = -((-int(x) + cellWidth - 1) / cellWidth)
	}
	for _, ch := range text {
		if col >= gridCols {
			return
		}
		if col >= 0 {
			t.grid[row][col] = ch
		}
		col++
	}
}

// Flush writes the panel with a border.
func (t *Terminal) Flush() error {
	_, err := io.WriteString(t.w, t.String())
	return err
}

func (t *Terminal) String() string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", gridCols) + "+\n"
	sb.WriteString(border)
	for _, row := range t.grid {
		sb.WriteByte('|')
		sb.WriteString(string(row[:]))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

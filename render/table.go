// Package render draws console output: tables, and the interactive gate.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment of a column's cells.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table represents a drawable table.
type Table struct {
	Headers     []string
	Rows        [][]string
	ColumnAlign []Alignment
	BoxStyle    BoxStyle
	// MaxCellWidth truncates wider cells with an ellipsis; 0 means no limit.
	MaxCellWidth int
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		Headers:     headers,
		BoxStyle:    SingleBox,
		ColumnAlign: make([]Alignment, len(headers)),
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	for len(cells) < len(t.Headers) {
		cells = append(cells, "")
	}
	t.Rows = append(t.Rows, cells)
}

// SetAlignment sets the alignment for a column.
func (t *Table) SetAlignment(col int, align Alignment) {
	if col >= 0 && col < len(t.ColumnAlign) {
		t.ColumnAlign[col] = align
	}
}

func (t *Table) cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if t.MaxCellWidth > 0 && runewidth.StringWidth(s) > t.MaxCellWidth {
		return runewidth.Truncate(s, t.MaxCellWidth, "…")
	}
	return s
}

func (t *Table) calculateColumnWidths() []int {
	widths := make([]int, len(t.Headers))

	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(t.cell(h))
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(t.cell(cell)); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	return widths
}

// TotalWidth returns the total width the table will occupy.
func (t *Table) TotalWidth() int {
	total := 1
	for _, w := range t.calculateColumnWidths() {
		total += w + 3
	}
	return total
}

// String renders the table, one line per row, without a trailing newline.
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths()
	box := t.BoxStyle
	var lines []string

	lines = append(lines, t.border(widths, box.TopLeft, box.TopTee, box.TopRight))
	lines = append(lines, t.row(t.Headers, widths))
	lines = append(lines, t.border(widths, box.LeftTee, box.Cross, box.RightTee))
	for _, row := range t.Rows {
		lines = append(lines, t.row(row, widths))
	}
	lines = append(lines, t.border(widths, box.BottomLeft, box.BottomTee, box.BottomRight))

	return strings.Join(lines, "\n")
}

func (t *Table) border(widths []int, left, mid, right rune) string {
	var b strings.Builder
	b.WriteRune(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat(string(t.BoxStyle.Horizontal), w+2))
		if i < len(widths)-1 {
			b.WriteRune(mid)
		} else {
			b.WriteRune(right)
		}
	}
	return b.String()
}

func (t *Table) row(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteRune(t.BoxStyle.Vertical)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = t.cell(cells[i])
		}

		align := AlignLeft
		if i < len(t.ColumnAlign) {
			align = t.ColumnAlign[i]
		}

		b.WriteByte(' ')
		if align == AlignRight {
			b.WriteString(runewidth.FillLeft(cell, width))
		} else {
			b.WriteString(runewidth.FillRight(cell, width))
		}
		b.WriteByte(' ')
		b.WriteRune(t.BoxStyle.Vertical)
	}
	return b.String()
}

package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/quickmd/internal/table"
)

// Render serializes a table back to pipe-table Markdown, joined with
// eol. Column widths are recomputed from the widest cell in each column
// (minimum 1) and cells are left-justified regardless of their declared
// alignment; the alignment only decides the delimiter-row markers.
// Pipes inside cells are re-escaped as \| so Render's output parses
// back to an equal table.
func Render(t *table.Table, eol string) string {
	header := escapeRow(t.Header())
	rows := make([][]string, 0, t.RowCount())
	for _, row := range t.Rows() {
		rows = append(rows, escapeRow(row))
	}

	widths := make([]int, t.ColumnCount())
	for i, cell := range header {
		widths[i] = max(1, utf8.RuneCountInString(cell))
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeRow(&b, header, widths)
	b.WriteString(eol)
	writeAlignRow(&b, t.Aligns(), widths)
	for _, row := range rows {
		b.WriteString(eol)
		writeRow(&b, row, widths)
	}
	return b.String()
}

// writeRow renders "| cell | cell |" with each cell padded to its
// column width.
func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		b.WriteString("| ")
		b.WriteString(cell)
		pad(b, widths[i]-utf8.RuneCountInString(cell)+1)
	}
	b.WriteString("|")
}

// writeAlignRow renders the delimiter row, dashes filling the same
// column width as the cells above (the cell area is width+2 including
// its padding spaces).
func writeAlignRow(b *strings.Builder, aligns []table.Alignment, widths []int) {
	for i, a := range aligns {
		w := widths[i] + 2
		b.WriteString("|")
		switch a {
		case table.AlignLeft:
			b.WriteString(":")
			dash(b, w-1)
		case table.AlignRight:
			dash(b, w-1)
			b.WriteString(":")
		case table.AlignCenter:
			b.WriteString(":")
			dash(b, w-2)
			b.WriteString(":")
		default:
			dash(b, w)
		}
	}
	b.WriteString("|")
}

func pad(b *strings.Builder, n int) {
	for ; n > 0; n-- {
		b.WriteByte(' ')
	}
}

func dash(b *strings.Builder, n int) {
	for ; n > 0; n-- {
		b.WriteByte('-')
	}
}

func escapeRow(cells []string) []string {
	for i, cell := range cells {
		if strings.Contains(cell, "|") {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
	}
	return cells
}

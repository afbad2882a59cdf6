// Package table provides the in-memory grid model for one Markdown pipe
// table: an ordered header, per-column alignments, and body rows. Every
// row always holds exactly ColumnCount cells; mutators preserve that
// invariant by padding or truncating their input.
package table

import (
	"errors"

	"github.com/dshills/quickmd/internal/delim"
)

// Errors returned by table operations.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoColumns       = errors.New("table has no columns")
)

// Alignment is a per-column alignment marker from the table's
// delimiter row.
type Alignment uint8

const (
	AlignNone   Alignment = iota // ---
	AlignLeft                    // :---
	AlignRight                   // ---:
	AlignCenter                  // :---:
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "none"
	}
}

// Table is a mutable grid with a fixed column count. The zero value is
// not usable; construct with New.
type Table struct {
	header []string
	aligns []Alignment
	rows   [][]string
}

// New creates a table from a header, alignments, and body rows. The
// header defines the column count; alignments and rows are padded or
// truncated to match. All input slices are copied.
func New(header []string, aligns []Alignment, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoColumns
	}

	t := &Table{
		header: append([]string(nil), header...),
		aligns: make([]Alignment, len(header)),
	}
	copy(t.aligns, aligns)

	t.rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		t.rows = append(t.rows, t.fit(row))
	}
	return t, nil
}

// fit returns a copy of row padded or truncated to the column count.
func (t *Table) fit(row []string) []string {
	out := make([]string, len(t.header))
	copy(out, row)
	return out
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.header) }

// RowCount returns the number of body rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Header returns a copy of the header cells.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// SetHeader replaces the header cell for a column.
func (t *Table) SetHeader(col int, value string) error {
	if col < 0 || col >= len(t.header) {
		return ErrIndexOutOfRange
	}
	t.header[col] = value
	return nil
}

// Aligns returns a copy of the per-column alignments.
func (t *Table) Aligns() []Alignment {
	return append([]Alignment(nil), t.aligns...)
}

// Cell returns the cell at (row, col).
func (t *Table) Cell(row, col int) (string, error) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.header) {
		return "", ErrIndexOutOfRange
	}
	return t.rows[row][col], nil
}

// SetCell replaces the cell at (row, col).
func (t *Table) SetCell(row, col int, value string) error {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.header) {
		return ErrIndexOutOfRange
	}
	t.rows[row][col] = value
	return nil
}

// Row returns a copy of one body row.
func (t *Table) Row(row int) ([]string, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, ErrIndexOutOfRange
	}
	return append([]string(nil), t.rows[row]...), nil
}

// Rows returns a copy of all body rows.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// InsertRow inserts values at the given index. A nil values slice
// inserts an empty row; inserting at RowCount appends. The values are
// padded or truncated to the column count.
func (t *Table) InsertRow(at int, values []string) error {
	if at < 0 || at > len(t.rows) {
		return ErrIndexOutOfRange
	}
	row := t.fit(values)
	t.rows = append(t.rows, nil)
	copy(t.rows[at+1:], t.rows[at:])
	t.rows[at] = row
	return nil
}

// DeleteRow removes the row at the given index. Deleting the last
// remaining row is allowed; the table keeps its header.
func (t *Table) DeleteRow(at int) error {
	if at < 0 || at >= len(t.rows) {
		return ErrIndexOutOfRange
	}
	t.rows = append(t.rows[:at], t.rows[at+1:]...)
	return nil
}

// ExtractSelection returns a copy of the cells in the rectangular
// selection, clamped to the table bounds. The header is not part of any
// selection; use Header for it.
func (t *Table) ExtractSelection(sel Selection) [][]string {
	sel = sel.Normalize()
	startRow := clamp(sel.StartRow, 0, len(t.rows)-1)
	endRow := clamp(sel.EndRow, 0, len(t.rows)-1)
	startCol := clamp(sel.StartCol, 0, len(t.header)-1)
	endCol := clamp(sel.EndCol, 0, len(t.header)-1)
	if len(t.rows) == 0 {
		return nil
	}

	out := make([][]string, 0, endRow-startRow+1)
	for r := startRow; r <= endRow; r++ {
		row := make([]string, 0, endCol-startCol+1)
		for c := startCol; c <= endCol; c++ {
			row = append(row, t.rows[r][c])
		}
		out = append(out, row)
	}
	return out
}

// PasteRows overwrites cells starting at the given row, growing the row
// count when the grid extends past the current end. Each pasted row is
// padded or truncated to the column count; the column count itself never
// changes.
func (t *Table) PasteRows(at int, grid [][]string) error {
	if at < 0 || at > len(t.rows) {
		return ErrIndexOutOfRange
	}
	for i, row := range grid {
		idx := at + i
		if idx < len(t.rows) {
			t.rows[idx] = t.fit(row)
		} else {
			t.rows = append(t.rows, t.fit(row))
		}
	}
	return nil
}

// ToCSV encodes the header and all body rows as CSV text.
func (t *Table) ToCSV() string {
	grid := make([][]string, 0, len(t.rows)+1)
	grid = append(grid, t.Header())
	grid = append(grid, t.Rows()...)
	return delim.Encode(grid, delim.Comma)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c, _ := New(t.header, t.aligns, t.rows)
	return c
}

// Equal reports whether two tables have identical header, alignments,
// and rows.
func (t *Table) Equal(o *Table) bool {
	if o == nil || len(t.header) != len(o.header) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.header {
		if t.header[i] != o.header[i] || t.aligns[i] != o.aligns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if t.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

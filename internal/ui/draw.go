package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickmd/internal/preview"
	"github.com/dshills/quickmd/internal/table"
)

const (
	// maxCellWidth caps a grid column so one long cell cannot push the
	// rest off screen.
	maxCellWidth = 24
)

var (
	styleDefault  = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeader   = tcell.StyleDefault.Bold(true).Underline(true)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleTitle    = tcell.StyleDefault.Bold(true)
)

// editorHeight is the number of text rows in the document pane.
func (u *UI) editorHeight() int {
	_, h := u.screen.Size()
	return h - 1
}

func (u *UI) draw() {
	u.screen.Clear()
	w, h := u.screen.Size()
	if w < 4 || h < 3 {
		u.screen.Show()
		return
	}

	split := w / 2
	paneH := h - 1

	u.drawEditor(0, split-1, paneH)
	for y := 0; y < paneH; y++ {
		u.screen.SetContent(split-1, y, tcell.RuneVLine, nil, styleDim)
	}
	if u.right == modePreview {
		u.drawPreview(split, w-split, paneH)
	} else {
		u.drawTable(split, w-split, paneH)
	}
	u.drawStatus(w, h-1)

	u.screen.Show()
}

// drawEditor renders the document pane and places the hardware cursor
// when the editor has focus.
func (u *UI) drawEditor(x, width, height int) {
	u.ed.ensureVisible(height)
	for row := 0; row < height; row++ {
		idx := u.ed.scroll + row
		if idx >= len(u.ed.lines) {
			break
		}
		drawText(u.screen, x, row, width, u.ed.lines[idx], styleDefault)
	}
	if u.focus == paneEditor && !u.pr.active {
		col := u.ed.curCol
		if col > width-1 {
			col = width - 1
		}
		u.screen.ShowCursor(x+col, u.ed.curLine-u.ed.scroll)
	} else if !u.pr.active {
		u.screen.HideCursor()
	}
}

// drawPreview renders the document through the Markdown previewer. The
// editor's live text is used so unsynced edits show immediately.
func (u *UI) drawPreview(x, width, height int) {
	drawText(u.screen, x+1, 0, width-1, "Preview", styleTitle)
	lines := strings.Split(preview.Render(u.ed.text("\n")), "\n")
	for row := 1; row < height; row++ {
		idx := row - 1
		if idx >= len(lines) {
			break
		}
		drawText(u.screen, x+1, row, width-1, lines[idx], styleDefault)
	}
}

// drawTable renders the active table as a grid with a cell cursor.
func (u *UI) drawTable(x, width, height int) {
	dets := u.sess.Tables()
	if len(dets) == 0 {
		drawText(u.screen, x+1, 0, width-1, "No tables detected", styleTitle)
		drawText(u.screen, x+1, 2, width-1, "Ctrl-T scans the document for pipe tables.", styleDim)
		return
	}

	idx := u.sess.ActiveIndex()
	tbl := dets[idx].Table
	title := fmt.Sprintf("Table %d/%d [%s]: %s", idx+1, len(dets), dets[idx].ShortID(), dets[idx].Label())
	drawText(u.screen, x+1, 0, width-1, title, styleTitle)

	widths := gridWidths(tbl)

	u.ensureRowVisible(height - 2)
	drawGridRow(u.screen, x+1, 1, width-1, tbl.Header(), widths, func(int) tcell.Style { return styleHeader })

	visible := height - 2
	for line := 0; line < visible; line++ {
		r := u.rowScroll + line
		if r >= tbl.RowCount() {
			break
		}
		row, err := tbl.Row(r)
		if err != nil {
			break
		}
		drawGridRow(u.screen, x+1, 2+line, width-1, row, widths, func(c int) tcell.Style {
			if u.focus == paneTable && r == u.curRow && c == u.curCol {
				return styleCursor
			}
			if u.inSelection(r, c) {
				return styleSelected
			}
			return styleDefault
		})
	}
}

// ensureRowVisible keeps the cell cursor inside the grid viewport.
func (u *UI) ensureRowVisible(height int) {
	if height <= 0 {
		return
	}
	if u.curRow < u.rowScroll {
		u.rowScroll = u.curRow
	}
	if u.curRow >= u.rowScroll+height {
		u.rowScroll = u.curRow - height + 1
	}
}

// inSelection reports whether a cell is inside the active selection
// rectangle spanned by the anchor and the cursor.
func (u *UI) inSelection(row, col int) bool {
	if u.selAnchor == nil {
		return false
	}
	sel := table.Selection{
		StartRow: u.selAnchor[0], StartCol: u.selAnchor[1],
		EndRow: u.curRow, EndCol: u.curCol,
	}
	sel = sel.Normalize()
	return row >= sel.StartRow && row <= sel.EndRow && col >= sel.StartCol && col <= sel.EndCol
}

func (u *UI) drawStatus(width, y int) {
	for x := 0; x < width; x++ {
		u.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	if u.pr.active {
		text := u.pr.label + string(u.pr.input)
		drawText(u.screen, 0, y, width, text, styleStatus)
		cx := len([]rune(u.pr.label)) + u.pr.cursor
		if cx > width-1 {
			cx = width - 1
		}
		u.screen.ShowCursor(cx, y)
		return
	}

	left := u.status
	if u.sess.Modified() || u.ed.dirty {
		left = "* " + left
	}
	drawText(u.screen, 0, y, width, left, styleStatus)

	hint := "^N new  ^O open  ^S save  ^T tables  ^P preview  Tab pane  ^Q quit"
	if u.focus == paneTable {
		hint = "Enter edit  a/d row  y/Y copy  p paste  w commit  [/] table"
	}
	if start := width - len(hint) - 1; start > len(left)+2 {
		drawText(u.screen, start, y, len(hint), hint, styleStatus)
	}
}

// gridWidths computes display widths per column from the header and all
// rows, capped at maxCellWidth.
func gridWidths(t *table.Table) []int {
	widths := make([]int, t.ColumnCount())
	for c, h := range t.Header() {
		widths[c] = len([]rune(h))
	}
	for _, row := range t.Rows() {
		for c, cell := range row {
			if n := len([]rune(cell)); n > widths[c] {
				widths[c] = n
			}
		}
	}
	for c := range widths {
		if widths[c] > maxCellWidth {
			widths[c] = maxCellWidth
		}
		if widths[c] < 1 {
			widths[c] = 1
		}
	}
	return widths
}

// drawGridRow renders one grid row, styling each cell independently.
func drawGridRow(s tcell.Screen, x, y, width int, cells []string, widths []int, style func(col int) tcell.Style) {
	pos := x
	for c, cell := range cells {
		if pos >= x+width {
			break
		}
		w := widths[c]
		text := padCell(cell, w)
		avail := x + width - pos
		if avail < w {
			w = avail
			text = text[:clampRuneLen(text, w)]
		}
		drawText(s, pos, y, w, text, style(c))
		pos += w + 2
	}
}

// padCell pads or truncates a cell value to the given rune width.
func padCell(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		if width > 1 {
			return string(runes[:width-1]) + "…"
		}
		return string(runes[:width])
	}
	return text + strings.Repeat(" ", width-len(runes))
}

func clampRuneLen(text string, width int) int {
	n := 0
	for i := range text {
		if n == width {
			return i
		}
		n++
	}
	return len(text)
}

// drawText writes a string clipped to width.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
}

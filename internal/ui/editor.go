package ui

import "strings"

// editor is a minimal line-based text editing widget for the document
// pane. It holds the document as lines; the session gets the joined
// text whenever the UI needs table operations to see fresh content.
type editor struct {
	lines   []string
	curLine int
	curCol  int // rune index within the current line
	scroll  int
	dirty   bool
}

// setText replaces the editor content and resets the cursor.
func (e *editor) setText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	e.lines = strings.Split(text, "\n")
	e.curLine = 0
	e.curCol = 0
	e.scroll = 0
	e.dirty = false
}

// text joins the lines with the given terminator.
func (e *editor) text(eol string) string {
	return strings.Join(e.lines, eol)
}

func (e *editor) line() []rune {
	if e.curLine >= len(e.lines) {
		return nil
	}
	return []rune(e.lines[e.curLine])
}

// clampCol keeps the column within the current line.
func (e *editor) clampCol() {
	if n := len(e.line()); e.curCol > n {
		e.curCol = n
	}
	if e.curCol < 0 {
		e.curCol = 0
	}
}

func (e *editor) insertRune(r rune) {
	line := e.line()
	out := make([]rune, 0, len(line)+1)
	out = append(out, line[:e.curCol]...)
	out = append(out, r)
	out = append(out, line[e.curCol:]...)
	e.lines[e.curLine] = string(out)
	e.curCol++
	e.dirty = true
}

// newline splits the current line at the cursor.
func (e *editor) newline() {
	line := e.line()
	before := string(line[:e.curCol])
	after := string(line[e.curCol:])
	e.lines[e.curLine] = before
	e.lines = append(e.lines, "")
	copy(e.lines[e.curLine+2:], e.lines[e.curLine+1:])
	e.lines[e.curLine+1] = after
	e.curLine++
	e.curCol = 0
	e.dirty = true
}

// backspace deletes the rune before the cursor, joining lines at a
// line start.
func (e *editor) backspace() {
	if e.curCol > 0 {
		line := e.line()
		e.lines[e.curLine] = string(line[:e.curCol-1]) + string(line[e.curCol:])
		e.curCol--
		e.dirty = true
		return
	}
	if e.curLine == 0 {
		return
	}
	prev := []rune(e.lines[e.curLine-1])
	e.lines[e.curLine-1] += e.lines[e.curLine]
	e.lines = append(e.lines[:e.curLine], e.lines[e.curLine+1:]...)
	e.curLine--
	e.curCol = len(prev)
	e.dirty = true
}

// deleteForward deletes the rune under the cursor.
func (e *editor) deleteForward() {
	line := e.line()
	if e.curCol < len(line) {
		e.lines[e.curLine] = string(line[:e.curCol]) + string(line[e.curCol+1:])
		e.dirty = true
		return
	}
	if e.curLine+1 < len(e.lines) {
		e.lines[e.curLine] += e.lines[e.curLine+1]
		e.lines = append(e.lines[:e.curLine+1], e.lines[e.curLine+2:]...)
		e.dirty = true
	}
}

func (e *editor) moveUp() {
	if e.curLine > 0 {
		e.curLine--
		e.clampCol()
	}
}

func (e *editor) moveDown() {
	if e.curLine+1 < len(e.lines) {
		e.curLine++
		e.clampCol()
	}
}

func (e *editor) moveLeft() {
	if e.curCol > 0 {
		e.curCol--
	} else if e.curLine > 0 {
		e.curLine--
		e.curCol = len(e.line())
	}
}

func (e *editor) moveRight() {
	if e.curCol < len(e.line()) {
		e.curCol++
	} else if e.curLine+1 < len(e.lines) {
		e.curLine++
		e.curCol = 0
	}
}

func (e *editor) moveHome() { e.curCol = 0 }

func (e *editor) moveEnd() { e.curCol = len(e.line()) }

// ensureVisible adjusts the scroll offset so the cursor line is inside
// a viewport of the given height.
func (e *editor) ensureVisible(height int) {
	if height <= 0 {
		return
	}
	if e.curLine < e.scroll {
		e.scroll = e.curLine
	}
	if e.curLine >= e.scroll+height {
		e.scroll = e.curLine - height + 1
	}
}

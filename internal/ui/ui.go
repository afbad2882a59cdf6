// Package ui implements the terminal interface: a document pane on the
// left, a preview or table-grid pane on the right, and a one-line
// status bar that doubles as the input prompt. All session calls run to
// completion inside a single event callback; the UI is the only
// goroutine touching the session.
package ui

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickmd/internal/markdown"
	"github.com/dshills/quickmd/internal/script"
	"github.com/dshills/quickmd/internal/session"
	"github.com/dshills/quickmd/internal/table"
)

// ErrQuit is returned by Run when the user quits normally.
var ErrQuit = errors.New("quit requested")

// Logger is the logging surface the UI needs; satisfied by *app.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// pane identifies keyboard focus.
type pane uint8

const (
	paneEditor pane = iota
	paneTable
)

// rightMode selects what the right pane shows.
type rightMode uint8

const (
	modeTable rightMode = iota
	modePreview
)

// fileChangedEvent is posted into the tcell queue when the open file
// changes on disk.
type fileChangedEvent struct {
	path string
}

// UI drives the terminal screen.
type UI struct {
	screen tcell.Screen
	sess   *session.Session
	log    Logger

	ed    editor
	pr    prompt
	eol   string
	focus pane
	right rightMode

	// Table cell cursor and scroll state.
	curRow    int
	curCol    int
	rowScroll int
	selAnchor *[2]int

	status       string
	starter      string
	quitPending  bool
	onFileOpened func(path string)

	closeOnce sync.Once
}

// New creates the UI over a fresh tcell screen.
func New(sess *session.Session, log Logger) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	u := &UI{
		screen: screen,
		sess:   sess,
		log:    log,
		eol:    markdown.LineEnding(sess.Document()),
		status: "Ready",
	}
	u.ed.setText(sess.Document())
	return u, nil
}

// OnFileOpened registers a callback invoked after a file is opened via
// the UI, so the application can update settings and the watcher. New
// documents invoke it with an empty path.
func (u *UI) OnFileOpened(fn func(path string)) { u.onFileOpened = fn }

// SetStarter sets the seed text used for new documents.
func (u *UI) SetStarter(text string) { u.starter = text }

// NotifyFileChanged posts an on-disk change notification into the event
// queue. Safe to call from other goroutines.
func (u *UI) NotifyFileChanged(path string) {
	_ = u.screen.PostEvent(tcell.NewEventInterrupt(fileChangedEvent{path: path}))
}

// Close releases the terminal. Safe to call more than once.
func (u *UI) Close() {
	u.closeOnce.Do(func() {
		u.screen.Fini()
	})
}

// Run enters the event loop and blocks until the user quits.
func (u *UI) Run() error {
	if err := u.screen.Init(); err != nil {
		return err
	}
	defer u.Close()

	for {
		u.draw()
		ev := u.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			u.screen.Sync()

		case *tcell.EventInterrupt:
			if fc, ok := ev.Data().(fileChangedEvent); ok {
				u.handleFileChanged(fc.path)
			}

		case *tcell.EventKey:
			if u.handleKey(ev) {
				return ErrQuit
			}
		}
	}
}

// handleKey dispatches one key event; it reports true on quit.
func (u *UI) handleKey(ev *tcell.EventKey) bool {
	if u.pr.active {
		u.handlePromptKey(ev)
		return false
	}

	// A second Ctrl-Q within the pending window discards edits.
	if ev.Key() == tcell.KeyCtrlQ {
		if (u.sess.Modified() || u.ed.dirty) && !u.quitPending {
			u.quitPending = true
			u.setStatus("Unsaved changes; Ctrl-Q again to quit without saving")
			return false
		}
		return true
	}
	u.quitPending = false

	switch ev.Key() {
	case tcell.KeyCtrlN:
		u.doNew()
		return false
	case tcell.KeyCtrlO:
		u.pr.open("Open: ", "", u.doOpen)
		return false
	case tcell.KeyCtrlS:
		u.doSave()
		return false
	case tcell.KeyCtrlT:
		u.doDetect()
		return false
	case tcell.KeyCtrlP:
		if u.right == modePreview {
			u.right = modeTable
		} else {
			u.right = modePreview
		}
		return false
	case tcell.KeyTab:
		u.toggleFocus()
		return false
	}

	if u.focus == paneEditor {
		u.handleEditorKey(ev)
	} else {
		u.handleTableKey(ev)
	}
	return false
}

func (u *UI) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		u.pr.close()
		u.setStatus("Cancelled")
	case tcell.KeyEnter:
		u.pr.confirm()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.pr.backspace()
	case tcell.KeyLeft:
		u.pr.left()
	case tcell.KeyRight:
		u.pr.right()
	case tcell.KeyRune:
		u.pr.insert(ev.Rune())
	}
}

func (u *UI) handleEditorKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		u.ed.moveUp()
	case tcell.KeyDown:
		u.ed.moveDown()
	case tcell.KeyLeft:
		u.ed.moveLeft()
	case tcell.KeyRight:
		u.ed.moveRight()
	case tcell.KeyHome:
		u.ed.moveHome()
	case tcell.KeyEnd:
		u.ed.moveEnd()
	case tcell.KeyPgUp:
		for i := 0; i < u.editorHeight(); i++ {
			u.ed.moveUp()
		}
	case tcell.KeyPgDn:
		for i := 0; i < u.editorHeight(); i++ {
			u.ed.moveDown()
		}
	case tcell.KeyEnter:
		u.ed.newline()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.ed.backspace()
	case tcell.KeyDelete:
		u.ed.deleteForward()
	case tcell.KeyRune:
		u.ed.insertRune(ev.Rune())
	}
}

func (u *UI) handleTableKey(ev *tcell.EventKey) {
	tbl, err := u.sess.Active()
	if err != nil {
		if ev.Key() == tcell.KeyRune && ev.Rune() == 't' {
			u.doDetect()
			return
		}
		u.setStatus("No tables; Ctrl-T to detect")
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		u.selAnchor = nil
		u.setStatus("Selection cleared")
		return
	case tcell.KeyUp:
		u.moveCell(tbl, -1, 0)
		return
	case tcell.KeyDown:
		u.moveCell(tbl, 1, 0)
		return
	case tcell.KeyLeft:
		u.moveCell(tbl, 0, -1)
		return
	case tcell.KeyRight:
		u.moveCell(tbl, 0, 1)
		return
	case tcell.KeyEnter:
		u.editCell(tbl)
		return
	}

	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case 'v':
		anchor := [2]int{u.curRow, u.curCol}
		u.selAnchor = &anchor
		u.setStatus("Selection started")
	case 'H':
		u.editHeader(tbl)
	case 'a':
		u.addRow(tbl)
	case 'd':
		u.deleteRow(tbl)
	case 'y':
		u.doCopy(session.FormatCSV)
	case 'Y':
		u.doCopy(session.FormatMarkdown)
	case 'p':
		u.doPaste(tbl)
	case 'e':
		u.pr.open("Export CSV: ", exportName(u.sess.Path(), ".csv"), u.doExportCSV)
	case 'E':
		u.pr.open("Export Markdown: ", exportName(u.sess.Path(), ".table.md"), u.doExportMarkdown)
	case 'L':
		u.pr.open("Lua script: ", "", u.doTransform)
	case '[':
		u.cycleTable(-1)
	case ']':
		u.cycleTable(1)
	case 'w':
		u.doCommit()
	}
}

// toggleFocus switches between the editor and table panes, pushing any
// pending document edits into the session first so table operations see
// current text.
func (u *UI) toggleFocus() {
	if u.focus == paneEditor {
		u.syncDocument()
		u.focus = paneTable
		u.right = modeTable
		u.clampCell()
	} else {
		u.focus = paneEditor
	}
}

// syncDocument pushes editor content into the session and re-detects
// when the editor has unsynced changes.
func (u *UI) syncDocument() {
	if !u.ed.dirty {
		return
	}
	u.sess.SetDocument(u.ed.text(u.eol))
	u.sess.Detect()
	u.ed.dirty = false
	u.clampCell()
}

func (u *UI) moveCell(tbl *table.Table, dr, dc int) {
	u.curRow += dr
	u.curCol += dc
	u.clampCellTo(tbl)
}

func (u *UI) clampCell() {
	if tbl, err := u.sess.Active(); err == nil {
		u.clampCellTo(tbl)
	}
}

func (u *UI) clampCellTo(tbl *table.Table) {
	if u.curRow >= tbl.RowCount() {
		u.curRow = tbl.RowCount() - 1
	}
	if u.curRow < 0 {
		u.curRow = 0
	}
	if u.curCol >= tbl.ColumnCount() {
		u.curCol = tbl.ColumnCount() - 1
	}
	if u.curCol < 0 {
		u.curCol = 0
	}
}

func (u *UI) editCell(tbl *table.Table) {
	if tbl.RowCount() == 0 {
		u.setStatus("No rows; 'a' adds one")
		return
	}
	current, err := tbl.Cell(u.curRow, u.curCol)
	if err != nil {
		u.fail("read cell", err)
		return
	}
	row, col := u.curRow, u.curCol
	u.pr.open("Cell: ", current, func(value string) {
		if err := tbl.SetCell(row, col, value); err != nil {
			u.fail("set cell", err)
			return
		}
		u.setStatus("Cell updated ('w' commits)")
	})
}

func (u *UI) editHeader(tbl *table.Table) {
	col := u.curCol
	u.pr.open("Header: ", tbl.Header()[col], func(value string) {
		if err := tbl.SetHeader(col, value); err != nil {
			u.fail("set header", err)
			return
		}
		u.setStatus("Header updated ('w' commits)")
	})
}

func (u *UI) addRow(tbl *table.Table) {
	at := u.curRow + 1
	if tbl.RowCount() == 0 {
		at = 0
	}
	if err := tbl.InsertRow(at, nil); err != nil {
		u.fail("add row", err)
		return
	}
	u.curRow = at
	u.setStatus("Row added")
}

func (u *UI) deleteRow(tbl *table.Table) {
	if err := tbl.DeleteRow(u.curRow); err != nil {
		u.fail("delete row", err)
		return
	}
	u.clampCellTo(tbl)
	u.setStatus("Row deleted")
}

func (u *UI) doCopy(f session.Format) {
	var err error
	if u.selAnchor != nil {
		sel := table.Selection{
			StartRow: u.selAnchor[0], StartCol: u.selAnchor[1],
			EndRow: u.curRow, EndCol: u.curCol,
		}
		err = u.sess.CopySelection(sel, f)
	} else {
		err = u.sess.CopyTable(f)
	}
	if err != nil {
		u.fail("copy", err)
		return
	}
	if u.selAnchor != nil {
		u.setStatus("Selection copied")
		u.selAnchor = nil
	} else {
		u.setStatus("Table copied")
	}
}

func (u *UI) doPaste(tbl *table.Table) {
	at := u.curRow
	if tbl.RowCount() == 0 {
		at = 0
	}
	n, err := u.sess.PasteRows(at)
	if err != nil {
		u.fail("paste", err)
		return
	}
	u.setStatus(fmt.Sprintf("Pasted %d row(s) ('w' commits)", n))
}

func (u *UI) doExportCSV(path string) {
	if path == "" {
		return
	}
	if err := u.sess.ExportCSV(path); err != nil {
		u.fail("export", err)
		return
	}
	u.setStatus("Exported CSV: " + path)
}

func (u *UI) doExportMarkdown(path string) {
	if path == "" {
		return
	}
	if err := u.sess.ExportMarkdown(path); err != nil {
		u.fail("export", err)
		return
	}
	u.setStatus("Exported Markdown: " + path)
}

// doTransform loads a Lua script and applies its transform function to
// the active table.
func (u *UI) doTransform(path string) {
	if path == "" {
		return
	}
	tbl, err := u.sess.Active()
	if err != nil {
		u.fail("transform", err)
		return
	}
	src, err := os.ReadFile(path)
	if err != nil {
		u.fail("transform", err)
		return
	}
	if err := script.Transform(string(src), tbl); err != nil {
		u.fail("transform", err)
		return
	}
	u.setStatus("Transform applied ('w' commits)")
}

func (u *UI) cycleTable(delta int) {
	dets := u.sess.Tables()
	if len(dets) == 0 {
		return
	}
	idx := (u.sess.ActiveIndex() + delta + len(dets)) % len(dets)
	if err := u.sess.Select(idx); err != nil {
		u.fail("select table", err)
		return
	}
	u.curRow, u.curCol, u.rowScroll = 0, 0, 0
	u.selAnchor = nil
	u.log.Debug("selected table %s (%d/%d)", dets[idx].ShortID(), idx+1, len(dets))
	u.setStatus(fmt.Sprintf("Table %d/%d", idx+1, len(dets)))
}

func (u *UI) doDetect() {
	u.syncDocument()
	n := u.sess.Detect()
	u.clampCell()
	u.right = modeTable
	u.setStatus(fmt.Sprintf("%d table(s) detected", n))
}

func (u *UI) doCommit() {
	if err := u.sess.CommitActive(); err != nil {
		u.fail("commit", err)
		return
	}
	u.ed.setText(u.sess.Document())
	u.setStatus("Table committed to document")
}

// doNew replaces the session with a fresh scratch document seeded from
// the starter text.
func (u *UI) doNew() {
	u.sess.NewDocument(u.starter)
	u.eol = markdown.LineEnding(u.sess.Document())
	u.ed.setText(u.sess.Document())
	u.curRow, u.curCol, u.rowScroll = 0, 0, 0
	u.selAnchor = nil
	u.focus = paneEditor
	if u.onFileOpened != nil {
		u.onFileOpened("")
	}
	u.setStatus("New document")
}

func (u *UI) doOpen(path string) {
	if path == "" {
		return
	}
	if err := u.sess.Load(path); err != nil {
		u.fail("open", err)
		return
	}
	u.eol = markdown.LineEnding(u.sess.Document())
	u.ed.setText(u.sess.Document())
	u.curRow, u.curCol, u.rowScroll = 0, 0, 0
	u.selAnchor = nil
	if u.onFileOpened != nil {
		u.onFileOpened(path)
	}
	u.setStatus("Opened " + path)
}

func (u *UI) doSave() {
	u.syncDocument()
	if u.sess.Path() == "" {
		u.pr.open("Save as: ", "", func(path string) {
			if path == "" {
				return
			}
			if err := u.sess.SaveAs(path); err != nil {
				u.fail("save", err)
				return
			}
			if u.onFileOpened != nil {
				u.onFileOpened(path)
			}
			u.setStatus("Saved " + path)
		})
		return
	}
	if err := u.sess.Save(); err != nil {
		u.fail("save", err)
		return
	}
	u.setStatus("Saved " + u.sess.Path())
}

// handleFileChanged reloads the document when it changed on disk and
// there are no unsaved edits to lose.
func (u *UI) handleFileChanged(path string) {
	if path != u.sess.Path() {
		return
	}
	if u.sess.Modified() || u.ed.dirty {
		u.setStatus("File changed on disk; local edits kept")
		return
	}
	if err := u.sess.Load(path); err != nil {
		u.fail("reload", err)
		return
	}
	u.ed.setText(u.sess.Document())
	u.clampCell()
	u.setStatus("Reloaded from disk")
}

func (u *UI) setStatus(msg string) {
	u.status = msg
	u.log.Debug("status: %s", msg)
}

// fail reports an operation error on the status bar and in the log.
func (u *UI) fail(op string, err error) {
	u.status = fmt.Sprintf("Error: %s: %v", op, err)
	u.log.Error("%s: %v", op, err)
}

// exportName derives a default export path from the document path.
func exportName(docPath, ext string) string {
	if docPath == "" {
		return "table" + ext
	}
	return trimExt(docPath) + ext
}

func trimExt(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/' && path[i] != '\\'; i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}

package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickmd/internal/clipboard"
	"github.com/dshills/quickmd/internal/session"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func TestQuitImmediateWhenUnmodified(t *testing.T) {
	u := &UI{sess: session.New(clipboard.NewMemory()), log: nopLogger{}}

	ev := tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModNone)
	if !u.handleKey(ev) {
		t.Error("Ctrl-Q with no unsaved changes should quit")
	}
}

func TestQuitGuardsUnsavedChanges(t *testing.T) {
	sess := session.New(clipboard.NewMemory())
	sess.SetDocument("unsaved text")
	u := &UI{sess: sess, log: nopLogger{}}

	ev := tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModNone)
	if u.handleKey(ev) {
		t.Fatal("first Ctrl-Q should not quit with unsaved changes")
	}
	if !u.quitPending {
		t.Error("first Ctrl-Q should arm the quit confirmation")
	}
	if !u.handleKey(ev) {
		t.Error("second Ctrl-Q should quit")
	}
}

func TestNewDocumentResetsSession(t *testing.T) {
	sess := session.New(clipboard.NewMemory())
	sess.SetDocument("old text, no tables")
	u := &UI{
		sess:    sess,
		log:     nopLogger{},
		starter: "# Fresh\n\n| a |\n|---|\n| 1 |\n",
	}
	var opened []string
	u.onFileOpened = func(path string) { opened = append(opened, path) }

	u.doNew()

	if sess.Document() != u.starter {
		t.Errorf("document not reset to starter:\n%s", sess.Document())
	}
	if sess.Modified() {
		t.Error("new document should start unmodified")
	}
	if sess.Path() != "" {
		t.Errorf("new document should have no path, got %q", sess.Path())
	}
	if len(sess.Tables()) != 1 {
		t.Errorf("expected 1 detected table in starter, got %d", len(sess.Tables()))
	}
	if got := u.ed.text("\n"); got != u.starter {
		t.Errorf("editor not reset to starter:\n%s", got)
	}
	if len(opened) != 1 || opened[0] != "" {
		t.Errorf("expected one callback with empty path, got %v", opened)
	}
	if !strings.Contains(u.status, "New document") {
		t.Errorf("unexpected status %q", u.status)
	}
}

func TestPromptConfirmInvokesCallback(t *testing.T) {
	var p prompt
	var got string
	p.open("Open: ", "note", func(v string) { got = v })

	p.insert('s')
	p.left()
	p.backspace()
	p.insert('x')
	p.confirm()

	if got != "notexs" {
		t.Errorf("expected %q, got %q", "notexs", got)
	}
	if p.active {
		t.Error("prompt should be inactive after confirm")
	}
}

func TestPromptCloseDropsCallback(t *testing.T) {
	var p prompt
	called := false
	p.open("Open: ", "", func(string) { called = true })
	p.close()
	p.confirm()

	if called {
		t.Error("callback should not fire after close")
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		docPath string
		ext     string
		want    string
	}{
		{"", ".csv", "table.csv"},
		{"notes.md", ".csv", "notes.csv"},
		{"dir.v2/notes.md", ".table.md", "dir.v2/notes.table.md"},
		{"plainfile", ".csv", "plainfile.csv"},
	}
	for _, tt := range tests {
		if got := exportName(tt.docPath, tt.ext); got != tt.want {
			t.Errorf("exportName(%q, %q) = %q, want %q", tt.docPath, tt.ext, got, tt.want)
		}
	}
}

func TestPadCell(t *testing.T) {
	if got := padCell("ab", 4); got != "ab  " {
		t.Errorf("expected %q, got %q", "ab  ", got)
	}
	if got := padCell("abcdef", 4); got != "abc…" {
		t.Errorf("expected %q, got %q", "abc…", got)
	}
}

package ui

import "testing"

func TestEditorInsertAndText(t *testing.T) {
	var e editor
	e.setText("ab\ncd")

	e.moveRight()
	e.insertRune('X')

	if got := e.text("\n"); got != "aXb\ncd" {
		t.Errorf("expected %q, got %q", "aXb\ncd", got)
	}
	if !e.dirty {
		t.Error("insert should mark editor dirty")
	}
}

func TestEditorNewlineSplits(t *testing.T) {
	var e editor
	e.setText("abcd")

	e.curCol = 2
	e.newline()

	if got := e.text("\n"); got != "ab\ncd" {
		t.Errorf("expected %q, got %q", "ab\ncd", got)
	}
	if e.curLine != 1 || e.curCol != 0 {
		t.Errorf("cursor at (%d,%d), want (1,0)", e.curLine, e.curCol)
	}
}

func TestEditorBackspaceJoinsLines(t *testing.T) {
	var e editor
	e.setText("ab\ncd")

	e.curLine = 1
	e.curCol = 0
	e.backspace()

	if got := e.text("\n"); got != "abcd" {
		t.Errorf("expected %q, got %q", "abcd", got)
	}
	if e.curLine != 0 || e.curCol != 2 {
		t.Errorf("cursor at (%d,%d), want (0,2)", e.curLine, e.curCol)
	}
}

func TestEditorDeleteForward(t *testing.T) {
	var e editor
	e.setText("ab\ncd")

	e.curCol = 2
	e.deleteForward()

	if got := e.text("\n"); got != "abcd" {
		t.Errorf("expected %q, got %q", "abcd", got)
	}
}

func TestEditorCRLFNormalized(t *testing.T) {
	var e editor
	e.setText("ab\r\ncd")

	if got := e.text("\r\n"); got != "ab\r\ncd" {
		t.Errorf("expected %q, got %q", "ab\r\ncd", got)
	}
}

func TestEditorMoveClampsColumn(t *testing.T) {
	var e editor
	e.setText("longer line\nx")

	e.curCol = 8
	e.moveDown()

	if e.curCol != 1 {
		t.Errorf("expected column clamped to 1, got %d", e.curCol)
	}
}

func TestEditorEnsureVisible(t *testing.T) {
	var e editor
	e.setText("a\nb\nc\nd\ne\nf")

	e.curLine = 5
	e.ensureVisible(3)
	if e.scroll != 3 {
		t.Errorf("expected scroll 3, got %d", e.scroll)
	}

	e.curLine = 0
	e.ensureVisible(3)
	if e.scroll != 0 {
		t.Errorf("expected scroll 0, got %d", e.scroll)
	}
}

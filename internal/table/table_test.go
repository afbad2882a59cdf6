package table

import (
	"errors"
	"reflect"
	"testing"
)

func mustNew(t *testing.T, header []string, rows [][]string) *Table {
	t.Helper()
	tbl, err := New(header, nil, rows)
	if err != nil {
		t.Fatalf("new table failed: %v", err)
	}
	return tbl
}

func TestNewPadsRaggedRows(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b", "c"}, [][]string{
		{"1"},
		{"1", "2", "3", "4"},
	})

	want := [][]string{
		{"1", "", ""},
		{"1", "2", "3"},
	}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestNewNoColumns(t *testing.T) {
	if _, err := New(nil, nil, nil); !errors.Is(err, ErrNoColumns) {
		t.Errorf("expected ErrNoColumns, got %v", err)
	}
}

func TestCellAccess(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b"}, [][]string{{"1", "2"}})

	got, err := tbl.Cell(0, 1)
	if err != nil {
		t.Fatalf("cell failed: %v", err)
	}
	if got != "2" {
		t.Errorf("expected %q, got %q", "2", got)
	}

	if err := tbl.SetCell(0, 0, "x"); err != nil {
		t.Fatalf("set cell failed: %v", err)
	}
	got, _ = tbl.Cell(0, 0)
	if got != "x" {
		t.Errorf("expected %q, got %q", "x", got)
	}
}

func TestCellOutOfRange(t *testing.T) {
	tbl := mustNew(t, []string{"a"}, [][]string{{"1"}})

	cases := [][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	for _, rc := range cases {
		if _, err := tbl.Cell(rc[0], rc[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Cell(%d,%d): expected ErrIndexOutOfRange, got %v", rc[0], rc[1], err)
		}
		if err := tbl.SetCell(rc[0], rc[1], "x"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("SetCell(%d,%d): expected ErrIndexOutOfRange, got %v", rc[0], rc[1], err)
		}
	}
}

func TestInsertThenDeleteRow(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b"}, [][]string{{"1", "2"}})

	if err := tbl.InsertRow(1, []string{"3", "4"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := tbl.DeleteRow(0); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	want := [][]string{{"3", "4"}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestInsertRowDefaultsEmpty(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b"}, nil)

	if err := tbl.InsertRow(0, nil); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	want := [][]string{{"", ""}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestDeleteLastRowKeepsHeader(t *testing.T) {
	tbl := mustNew(t, []string{"a"}, [][]string{{"1"}})

	if err := tbl.DeleteRow(0); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if tbl.RowCount() != 0 {
		t.Errorf("expected 0 rows, got %d", tbl.RowCount())
	}
	if tbl.ColumnCount() != 1 {
		t.Errorf("expected 1 column, got %d", tbl.ColumnCount())
	}

	if err := tbl.DeleteRow(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestExtractSelection(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b", "c"}, [][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
		{"7", "8", "9"},
	})

	got := tbl.ExtractSelection(Selection{StartRow: 0, StartCol: 1, EndRow: 1, EndCol: 2})
	want := [][]string{{"2", "3"}, {"5", "6"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Inverted corners normalize to the same range.
	inv := tbl.ExtractSelection(Selection{StartRow: 1, StartCol: 2, EndRow: 0, EndCol: 1})
	if !reflect.DeepEqual(inv, want) {
		t.Errorf("expected %v, got %v", want, inv)
	}
}

func TestExtractSelectionCopies(t *testing.T) {
	tbl := mustNew(t, []string{"a"}, [][]string{{"1"}})

	got := tbl.ExtractSelection(Single(0, 0))
	got[0][0] = "mutated"

	cell, _ := tbl.Cell(0, 0)
	if cell != "1" {
		t.Errorf("selection aliases table storage: %q", cell)
	}
}

func TestPasteRowsOverwriteAndGrow(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b"}, [][]string{{"old", "old"}})

	err := tbl.PasteRows(0, [][]string{{"x", "y"}, {"1", "2"}})
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}

	want := [][]string{{"x", "y"}, {"1", "2"}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestPasteRowsFitsColumns(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b"}, nil)

	err := tbl.PasteRows(0, [][]string{{"1", "2", "3"}, {"4"}})
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}

	want := [][]string{{"1", "2"}, {"4", ""}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
	if tbl.ColumnCount() != 2 {
		t.Errorf("paste changed column count to %d", tbl.ColumnCount())
	}
}

func TestToCSV(t *testing.T) {
	tbl := mustNew(t, []string{"a", "b"}, [][]string{{"1", "2"}})

	got := tbl.ToCSV()
	want := "a,b\n1,2"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCloneIndependent(t *testing.T) {
	tbl := mustNew(t, []string{"a"}, [][]string{{"1"}})
	c := tbl.Clone()

	if !tbl.Equal(c) {
		t.Fatal("clone not equal to original")
	}

	_ = c.SetCell(0, 0, "x")
	cell, _ := tbl.Cell(0, 0)
	if cell != "1" {
		t.Error("clone aliases original storage")
	}
	if tbl.Equal(c) {
		t.Error("tables should differ after clone mutation")
	}
}

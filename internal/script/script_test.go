package script

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/quickmd/internal/table"
)

func newTable(t *testing.T, rows [][]string) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"a", "b"}, nil, rows)
	if err != nil {
		t.Fatalf("new table failed: %v", err)
	}
	return tbl
}

func TestTransformUppercase(t *testing.T) {
	tbl := newTable(t, [][]string{{"one", "two"}})

	src := `function transform(row, col, value) return string.upper(value) end`
	if err := Transform(src, tbl); err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	want := [][]string{{"ONE", "TWO"}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestTransformUsesIndexes(t *testing.T) {
	tbl := newTable(t, [][]string{{"", ""}, {"", ""}})

	src := `function transform(row, col, value) return row .. ":" .. col end`
	if err := Transform(src, tbl); err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	want := [][]string{{"0:0", "0:1"}, {"1:0", "1:1"}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestTransformNilKeepsCell(t *testing.T) {
	tbl := newTable(t, [][]string{{"keep", "keep"}})

	src := `function transform(row, col, value) return nil end`
	if err := Transform(src, tbl); err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	want := [][]string{{"keep", "keep"}}
	if !reflect.DeepEqual(tbl.Rows(), want) {
		t.Errorf("expected %v, got %v", want, tbl.Rows())
	}
}

func TestTransformMissingFunction(t *testing.T) {
	tbl := newTable(t, nil)

	if err := Transform(`x = 1`, tbl); !errors.Is(err, ErrNoTransform) {
		t.Errorf("expected ErrNoTransform, got %v", err)
	}
}

func TestTransformSyntaxError(t *testing.T) {
	tbl := newTable(t, nil)

	if err := Transform(`function transform(`, tbl); err == nil {
		t.Error("expected load error for bad script")
	}
}

func TestTransformRuntimeError(t *testing.T) {
	tbl := newTable(t, [][]string{{"x", "y"}})

	src := `function transform(row, col, value) error("boom") end`
	if err := Transform(src, tbl); err == nil {
		t.Error("expected runtime error from script")
	}
}

package markdown

import (
	"strings"
	"testing"

	"github.com/dshills/quickmd/internal/table"
)

func newTable(t *testing.T, header []string, aligns []table.Alignment, rows [][]string) *table.Table {
	t.Helper()
	tbl, err := table.New(header, aligns, rows)
	if err != nil {
		t.Fatalf("new table failed: %v", err)
	}
	return tbl
}

func TestRenderWidths(t *testing.T) {
	tbl := newTable(t, []string{"name", "n"}, nil, [][]string{
		{"alice", "1"},
		{"bo", "234"},
	})

	got := Render(tbl, "\n")
	want := strings.Join([]string{
		"| name  | n   |",
		"|-------|-----|",
		"| alice | 1   |",
		"| bo    | 234 |",
	}, "\n")
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderAlignmentMarkers(t *testing.T) {
	tbl := newTable(t, []string{"a", "b", "c", "d"}, []table.Alignment{
		table.AlignLeft, table.AlignRight, table.AlignCenter, table.AlignNone,
	}, nil)

	got := Render(tbl, "\n")
	want := "| a | b | c | d |\n|:--|--:|:-:|---|"
	if got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderMinimumWidth(t *testing.T) {
	tbl := newTable(t, []string{""}, nil, nil)

	got := Render(tbl, "\n")
	want := "|   |\n|---|"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderEscapesPipes(t *testing.T) {
	tbl := newTable(t, []string{"a"}, nil, [][]string{{"x|y"}})

	got := Render(tbl, "\n")
	if !strings.Contains(got, `x\|y`) {
		t.Errorf("pipe not escaped in output:\n%s", got)
	}
}

func TestRenderCRLF(t *testing.T) {
	tbl := newTable(t, []string{"a"}, nil, [][]string{{"1"}})

	got := Render(tbl, "\r\n")
	if strings.Count(got, "\r\n") != 2 {
		t.Errorf("expected 2 CRLF terminators, got %q", got)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	tables := []*table.Table{
		newTable(t, []string{"a", "b"}, []table.Alignment{table.AlignLeft, table.AlignRight},
			[][]string{{"1", "2"}, {"", "wide cell"}}),
		newTable(t, []string{"only"}, nil, nil),
		newTable(t, []string{"p"}, nil, [][]string{{"has|pipe"}}),
	}

	for _, tbl := range tables {
		dets := Parse(Render(tbl, "\n"))
		if len(dets) != 1 {
			t.Fatalf("round trip lost the table:\n%s", Render(tbl, "\n"))
		}
		if !dets[0].Table.Equal(tbl) {
			t.Errorf("round trip mismatch:\n%s", Render(tbl, "\n"))
		}
	}
}

func TestCommitReplacesOnlySpan(t *testing.T) {
	before := "before\n\n"
	tableText := "| a |\n|---|\n| 1 |"
	after := "\n\nafter\n"
	doc := before + tableText + after

	dets := Parse(doc)
	if len(dets) != 1 {
		t.Fatalf("expected 1 table, got %d", len(dets))
	}

	got := Commit(doc, dets[0].Span, "REPLACED")
	want := before + "REPLACED" + after
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCommitRerenderedTable(t *testing.T) {
	doc := "intro\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\noutro\n"

	dets := Parse(doc)
	tbl := dets[0].Table
	if err := tbl.SetCell(0, 0, "longer value"); err != nil {
		t.Fatalf("set cell failed: %v", err)
	}

	doc2 := Commit(doc, dets[0].Span, Render(tbl, LineEnding(doc)))

	if !strings.HasPrefix(doc2, "intro\n\n") || !strings.HasSuffix(doc2, "\n\noutro\n") {
		t.Errorf("surrounding text disturbed:\n%s", doc2)
	}

	dets2 := Parse(doc2)
	if len(dets2) != 1 {
		t.Fatalf("expected 1 table after commit, got %d", len(dets2))
	}
	cell, _ := dets2[0].Table.Cell(0, 0)
	if cell != "longer value" {
		t.Errorf("expected edited cell, got %q", cell)
	}
}

// Package markdown detects, parses, and serializes GitHub-style pipe
// tables inside a Markdown document, and splices an edited table back
// into the document at its original byte span. Only pipe-table syntax is
// understood; the rest of the document passes through untouched.
package markdown

import (
	"errors"
	"strings"

	"github.com/dshills/quickmd/internal/table"
)

// Errors returned by forced parsing.
var (
	// ErrNotATable indicates the input does not begin with a valid
	// pipe table.
	ErrNotATable = errors.New("not a pipe table")
)

// Span is a byte range [Start, End) within a document covering one
// detected table, from the header line's first byte through the last
// body row's final byte (excluding its line terminator).
type Span struct {
	Start int
	End   int
}

// Detection pairs a parsed table with its source span. Spans from one
// Parse call never overlap and are ordered by Start.
type Detection struct {
	Span  Span
	Table *table.Table
}

// line is one document line with its byte offsets. Text excludes the
// line terminator (and any trailing CR on CRLF documents); End is the
// offset just past the last content byte.
type line struct {
	text  string
	start int
	end   int
}

// splitLines slices doc into lines with byte offsets.
func splitLines(doc string) []line {
	var lines []line
	start := 0
	for start <= len(doc) {
		nl := strings.IndexByte(doc[start:], '\n')
		if nl < 0 {
			if start < len(doc) {
				lines = append(lines, makeLine(doc, start, len(doc)))
			}
			break
		}
		lines = append(lines, makeLine(doc, start, start+nl))
		start += nl + 1
	}
	return lines
}

func makeLine(doc string, start, end int) line {
	text := doc[start:end]
	if strings.HasSuffix(text, "\r") {
		text = text[:len(text)-1]
		end--
	}
	return line{text: text, start: start, end: end}
}

// Parse scans doc and returns every pipe table it contains, in order.
// A table is a row line followed immediately by an alignment line whose
// cell count matches the header's, then any contiguous run of row lines.
// Candidates that fail these checks are skipped, never reported as
// errors.
func Parse(doc string) []Detection {
	lines := splitLines(doc)
	var out []Detection

	i := 0
	for i < len(lines)-1 {
		header, ok := splitRow(lines[i].text)
		if !ok {
			i++
			continue
		}
		aligns, ok := parseAlignRow(lines[i+1].text, len(header))
		if !ok {
			i++
			continue
		}

		// Body rows run until a blank or non-row line.
		last := i + 1
		var rows [][]string
		for j := i + 2; j < len(lines); j++ {
			row, ok := splitRow(lines[j].text)
			if !ok {
				break
			}
			rows = append(rows, fitRow(row, len(header)))
			last = j
		}

		tbl, err := table.New(header, aligns, rows)
		if err != nil {
			i++
			continue
		}
		out = append(out, Detection{
			Span:  Span{Start: lines[i].start, End: lines[last].end},
			Table: tbl,
		})
		i = last + 1
	}
	return out
}

// ParseTable parses text that is expected to be exactly one pipe table,
// such as a standalone exported fragment. Unlike Parse, failure here is
// an error.
func ParseTable(text string) (*table.Table, error) {
	dets := Parse(text)
	if len(dets) == 0 {
		return nil, ErrNotATable
	}
	return dets[0].Table, nil
}

// splitRow splits a table row line into trimmed, unescaped cells.
// It reports false when the line is not a row: blank, no unescaped
// pipe, or a lone "|".
func splitRow(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "|" {
		return nil, false
	}
	if !hasUnescapedPipe(s) {
		return nil, false
	}

	// Drop the row's own boundary pipes; inner empty cells survive.
	if s[0] == '|' {
		s = s[1:]
	}
	if n := len(s); n > 0 && s[n-1] == '|' && !isEscaped(s, n-1) {
		s = s[:n-1]
	}

	var cells []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && !isEscaped(s, i) {
			cells = append(cells, cellText(s[start:i]))
			start = i + 1
		}
	}
	cells = append(cells, cellText(s[start:]))
	return cells, true
}

// cellText trims a raw cell and resolves \| escapes.
func cellText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, `\|`) {
		return s
	}
	return strings.ReplaceAll(s, `\|`, "|")
}

// hasUnescapedPipe reports whether s contains a pipe that is not
// preceded by a backslash.
func hasUnescapedPipe(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && !isEscaped(s, i) {
			return true
		}
	}
	return false
}

// isEscaped reports whether the byte at i is preceded by a backslash.
func isEscaped(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}

// parseAlignRow splits an alignment line and validates every cell
// against :?-+:? . It reports false unless the cell count equals want.
func parseAlignRow(s string, want int) ([]table.Alignment, bool) {
	cells, ok := splitRow(s)
	if !ok || len(cells) != want {
		return nil, false
	}
	aligns := make([]table.Alignment, len(cells))
	for i, cell := range cells {
		a, ok := alignOf(cell)
		if !ok {
			return nil, false
		}
		aligns[i] = a
	}
	return aligns, true
}

// alignOf classifies one alignment cell, e.g. "---", ":--", "--:", ":-:".
func alignOf(cell string) (table.Alignment, bool) {
	left := strings.HasPrefix(cell, ":")
	right := strings.HasSuffix(cell, ":")
	dashes := strings.TrimSuffix(strings.TrimPrefix(cell, ":"), ":")
	if dashes == "" || strings.Trim(dashes, "-") != "" {
		return table.AlignNone, false
	}
	switch {
	case left && right:
		return table.AlignCenter, true
	case left:
		return table.AlignLeft, true
	case right:
		return table.AlignRight, true
	default:
		return table.AlignNone, true
	}
}

// fitRow pads or truncates a body row to the header's cell count.
func fitRow(row []string, want int) []string {
	if len(row) > want {
		return row[:want]
	}
	for len(row) < want {
		row = append(row, "")
	}
	return row
}

// LineEnding returns the document's line terminator, CRLF when the
// document contains one, LF otherwise.
func LineEnding(doc string) string {
	if strings.Contains(doc, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

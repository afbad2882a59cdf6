// Package delim encodes and decodes delimiter-separated grids.
//
// Two delimiters are supported: comma (CSV, RFC 4180 quoting) and tab
// (TSV, never quoted). A grid is a slice of rows, each a slice of cell
// strings; rows need not be the same width on decode.
package delim

import (
	"errors"
	"strings"
)

// Errors returned by decoding.
var (
	// ErrUnterminatedQuote indicates input ended inside a quoted field.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
)

// Supported delimiters.
const (
	Comma = ','
	Tab   = '\t'
)

// Encode renders grid as delimiter-separated text. Rows are joined with
// a single newline and no trailing terminator.
//
// In comma mode, any cell containing the separator, a double quote, or a
// line terminator is wrapped in double quotes with inner quotes doubled.
// In tab mode cells are never quoted; embedded tabs and line terminators
// are each replaced with a single space so the row structure survives.
func Encode(grid [][]string, sep rune) string {
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteRune(sep)
			}
			b.WriteString(encodeCell(cell, sep))
		}
	}
	return b.String()
}

func encodeCell(cell string, sep rune) string {
	if sep == Tab {
		cell = strings.ReplaceAll(cell, "\t", " ")
		cell = strings.ReplaceAll(cell, "\r\n", " ")
		cell = strings.ReplaceAll(cell, "\n", " ")
		cell = strings.ReplaceAll(cell, "\r", " ")
		return cell
	}
	if !strings.ContainsAny(cell, string(sep)+"\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// Decode is the inverse of Encode. Comma mode performs quote-aware field
// splitting and returns ErrUnterminatedQuote if the input ends inside a
// quoted field. Tab mode is a plain split on tabs and line terminators.
// A single trailing line terminator does not produce an empty final row.
func Decode(text string, sep rune) ([][]string, error) {
	if text == "" {
		return nil, nil
	}
	if sep == Tab {
		return decodeSimple(text), nil
	}
	return decodeQuoted(text, sep)
}

func decodeSimple(text string) [][]string {
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	var grid [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		grid = append(grid, strings.Split(line, "\t"))
	}
	return grid
}

func decodeQuoted(text string, sep rune) ([][]string, error) {
	var (
		grid   [][]string
		row    []string
		field  strings.Builder
		quoted bool
	)
	endField := func() {
		row = append(row, field.String())
		field.Reset()
		quoted = false
	}
	endRow := func() {
		endField()
		grid = append(grid, row)
		row = nil
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' && field.Len() == 0:
			// Quoted field: scan to the closing quote.
			i++
			closed := false
			for i < len(text) {
				if text[i] == '"' {
					if i+1 < len(text) && text[i+1] == '"' {
						field.WriteByte('"')
						i += 2
						continue
					}
					i++
					closed = true
					quoted = true
					break
				}
				field.WriteByte(text[i])
				i++
			}
			if !closed {
				return nil, ErrUnterminatedQuote
			}
		case rune(c) == sep:
			endField()
			i++
		case c == '\n':
			endRow()
			i++
		case c == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
			i++
		default:
			field.WriteByte(c)
			i++
		}
	}
	// A closed quote with no content is still a field; without the flag a
	// final `""` before EOF would vanish.
	if field.Len() > 0 || len(row) > 0 || quoted {
		endRow()
	}
	return grid, nil
}

// Sniff guesses the delimiter of text by comparing comma and tab counts
// on the first line. Input with no commas at all defaults to tab.
func Sniff(text string) rune {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	commas := strings.Count(line, ",")
	tabs := strings.Count(line, "\t")
	if commas == 0 || tabs > commas {
		return Tab
	}
	return Comma
}

// Package session holds the editing state for one open document: its
// text, the pipe tables detected in it, and the active table being
// edited. All operations are synchronous; the session is owned by the
// UI event loop and never shared across goroutines.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/quickmd/internal/clipboard"
	"github.com/dshills/quickmd/internal/delim"
	"github.com/dshills/quickmd/internal/markdown"
	"github.com/dshills/quickmd/internal/table"
)

// Errors returned by session operations.
var (
	// ErrNoTables indicates a table operation with zero tables detected.
	ErrNoTables = errors.New("no tables detected")

	// ErrTableIndex indicates a table selector outside the detected range.
	ErrTableIndex = errors.New("table index out of range")

	// ErrNoPath indicates a save with no file path set.
	ErrNoPath = errors.New("no file path")

	// ErrEmptyClipboard indicates a paste with no usable clipboard text.
	ErrEmptyClipboard = errors.New("clipboard is empty")
)

// Format selects the text representation for clipboard and export.
type Format uint8

const (
	FormatCSV Format = iota
	FormatMarkdown
)

// Detection is one table found in the document. The ID identifies the
// detection across UI selectors and log lines; it does not survive
// re-detection, since spans shift on every commit.
type Detection struct {
	ID    uuid.UUID
	Span  markdown.Span
	Table *table.Table
}

// Label returns a short selector label built from the header.
func (d Detection) Label() string {
	return strings.Join(d.Table.Header(), " | ")
}

// ShortID returns the first eight hex digits of the detection ID, for
// table titles and log correlation.
func (d Detection) ShortID() string {
	return d.ID.String()[:8]
}

// Session is the application's editing state.
type Session struct {
	doc        string
	path       string
	eol        string
	modified   bool
	detections []Detection
	active     int
	clip       clipboard.Clipboard
}

// New creates an empty session using the given clipboard.
func New(clip clipboard.Clipboard) *Session {
	return &Session{eol: "\n", active: -1, clip: clip}
}

// Document returns the current document text.
func (s *Session) Document() string { return s.doc }

// Path returns the backing file path, empty for scratch documents.
func (s *Session) Path() string { return s.path }

// Modified reports unsaved changes.
func (s *Session) Modified() bool { return s.modified }

// SetDocument replaces the document text after a user edit. Detections
// are dropped until the next Detect, since their spans are stale.
func (s *Session) SetDocument(text string) {
	s.doc = text
	s.eol = markdown.LineEnding(text)
	s.detections = nil
	s.active = -1
	s.modified = true
}

// NewDocument resets the session to a fresh, unsaved document with the
// given starter text and runs detection.
func (s *Session) NewDocument(text string) {
	s.doc = text
	s.eol = markdown.LineEnding(text)
	s.path = ""
	s.modified = false
	s.active = -1
	s.Detect()
}

// Load reads a file into the session and runs detection.
func (s *Session) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	s.doc = string(data)
	s.eol = markdown.LineEnding(s.doc)
	s.path = path
	s.modified = false
	s.Detect()
	return nil
}

// Save writes the document text verbatim to its path.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	if err := os.WriteFile(s.path, []byte(s.doc), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	s.modified = false
	return nil
}

// SaveAs sets a new path and saves.
func (s *Session) SaveAs(path string) error {
	s.path = path
	return s.Save()
}

// Detect re-runs table detection over the document and returns the
// number of tables found. The active index is preserved when still
// valid, otherwise reset to the first table (or none).
func (s *Session) Detect() int {
	dets := markdown.Parse(s.doc)
	s.detections = make([]Detection, len(dets))
	for i, d := range dets {
		s.detections[i] = Detection{ID: uuid.New(), Span: d.Span, Table: d.Table}
	}
	switch {
	case len(s.detections) == 0:
		s.active = -1
	case s.active < 0 || s.active >= len(s.detections):
		s.active = 0
	}
	return len(s.detections)
}

// Tables returns the current detections in document order.
func (s *Session) Tables() []Detection { return s.detections }

// Select makes the table at index the active one.
func (s *Session) Select(index int) error {
	if index < 0 || index >= len(s.detections) {
		return ErrTableIndex
	}
	s.active = index
	return nil
}

// ActiveIndex returns the active table index, -1 when none.
func (s *Session) ActiveIndex() int { return s.active }

// Active returns the active table.
func (s *Session) Active() (*table.Table, error) {
	if s.active < 0 || s.active >= len(s.detections) {
		return nil, ErrNoTables
	}
	return s.detections[s.active].Table, nil
}

// RenderActive serializes the active table as a standalone Markdown
// fragment using the document's line terminator.
func (s *Session) RenderActive() (string, error) {
	tbl, err := s.Active()
	if err != nil {
		return "", err
	}
	return markdown.Render(tbl, s.eol), nil
}

// CommitActive splices the re-rendered active table back into the
// document at its original span, then re-detects so every span is
// fresh. The active index survives when still valid.
func (s *Session) CommitActive() error {
	if s.active < 0 || s.active >= len(s.detections) {
		return ErrNoTables
	}
	det := s.detections[s.active]
	fragment := markdown.Render(det.Table, s.eol)
	s.doc = markdown.Commit(s.doc, det.Span, fragment)
	s.modified = true

	keep := s.active
	s.Detect()
	if keep < len(s.detections) {
		s.active = keep
	}
	return nil
}

// ExportCSV writes the active table (header plus rows) as CSV.
func (s *Session) ExportCSV(path string) error {
	tbl, err := s.Active()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(tbl.ToCSV()+"\n"), 0o644); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}

// ExportMarkdown writes the active table as a standalone pipe-table
// fragment.
func (s *Session) ExportMarkdown(path string) error {
	text, err := s.RenderActive()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text+s.eol), 0o644); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}

// CopyTable places the whole active table on the clipboard in the
// requested format.
func (s *Session) CopyTable(f Format) error {
	tbl, err := s.Active()
	if err != nil {
		return err
	}
	switch f {
	case FormatMarkdown:
		return s.clip.Set(markdown.Render(tbl, "\n"))
	default:
		return s.clip.Set(tbl.ToCSV())
	}
}

// CopySelection places a rectangular selection of the active table on
// the clipboard. The selected columns keep their headers so the text
// stands alone as CSV or as a Markdown table.
func (s *Session) CopySelection(sel table.Selection, f Format) error {
	tbl, err := s.Active()
	if err != nil {
		return err
	}

	sel = sel.Normalize()
	rows := tbl.ExtractSelection(sel)
	header := sliceCols(tbl.Header(), sel.StartCol, sel.EndCol)

	if f == FormatMarkdown {
		sub, err := table.New(header, sliceAligns(tbl.Aligns(), sel.StartCol, sel.EndCol), rows)
		if err != nil {
			return err
		}
		return s.clip.Set(markdown.Render(sub, "\n"))
	}

	grid := append([][]string{header}, rows...)
	return s.clip.Set(delim.Encode(grid, delim.Comma))
}

// PasteRows reads the clipboard, decodes it as CSV or TSV per the
// delimiter heuristic, and pastes the rows into the active table
// starting at atRow. A leading row that matches the header
// case-insensitively is skipped. Returns the number of rows pasted.
func (s *Session) PasteRows(atRow int) (int, error) {
	tbl, err := s.Active()
	if err != nil {
		return 0, err
	}

	text, err := s.clip.Get()
	if err != nil {
		return 0, fmt.Errorf("reading clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyClipboard
	}

	grid, err := delim.Decode(text, delim.Sniff(text))
	if err != nil {
		return 0, err
	}
	if len(grid) > 0 && headerMatches(grid[0], tbl.Header()) {
		grid = grid[1:]
	}
	if len(grid) == 0 {
		return 0, nil
	}

	if err := tbl.PasteRows(atRow, grid); err != nil {
		return 0, err
	}
	return len(grid), nil
}

// headerMatches reports whether a pasted row is the table's own header,
// compared case-insensitively with surrounding space ignored.
func headerMatches(row, header []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i := range row {
		if !strings.EqualFold(strings.TrimSpace(row[i]), strings.TrimSpace(header[i])) {
			return false
		}
	}
	return true
}

func sliceCols(cells []string, start, end int) []string {
	start = clampCol(start, len(cells))
	end = clampCol(end, len(cells))
	return cells[start : end+1]
}

func sliceAligns(aligns []table.Alignment, start, end int) []table.Alignment {
	start = clampCol(start, len(aligns))
	end = clampCol(end, len(aligns))
	return aligns[start : end+1]
}

func clampCol(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

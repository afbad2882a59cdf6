package markdown

// Commit returns a new document with fragment spliced in place of the
// span: doc[:span.Start] + fragment + doc[span.End:]. Text outside the
// span is preserved byte for byte. Commit has no hidden state; after a
// commit the caller must re-run Parse, since every later span's offsets
// have shifted.
func Commit(doc string, span Span, fragment string) string {
	start := span.Start
	end := span.End
	if start < 0 {
		start = 0
	}
	if start > len(doc) {
		start = len(doc)
	}
	if end < start {
		end = start
	}
	if end > len(doc) {
		end = len(doc)
	}
	return doc[:start] + fragment + doc[end:]
}

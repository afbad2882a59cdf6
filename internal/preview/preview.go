// Package preview renders Markdown into the plain-text projection shown
// in the preview pane. It parses with goldmark and walks the AST,
// keeping heading markers, tagging emphasis and code, and passing table
// and paragraph text through mostly untouched. It is a display aid, not
// a compliant Markdown renderer.
package preview

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Render converts Markdown source to preview text.
func Render(source string) string {
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		renderBlock(&b, n, src, "")
	}
	return b.String()
}

// renderBlock writes one block node, prefixing every produced line with
// prefix (used for blockquotes and list nesting).
func renderBlock(b *strings.Builder, n ast.Node, src []byte, prefix string) {
	switch n := n.(type) {
	case *ast.Heading:
		b.WriteString(prefix)
		b.WriteString(strings.Repeat("#", n.Level))
		b.WriteString(" ")
		b.WriteString(inlineText(n, src))

	case *ast.Paragraph, *ast.TextBlock:
		b.WriteString(prefix)
		b.WriteString(inlineText(n, src))

	case *ast.FencedCodeBlock:
		writeCodeLines(b, n, src, prefix)

	case *ast.CodeBlock:
		writeCodeLines(b, n, src, prefix)

	case *ast.Blockquote:
		first := true
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if !first {
				b.WriteString("\n")
			}
			renderBlock(b, c, src, prefix+"> ")
			first = false
		}

	case *ast.List:
		marker := "- "
		ordered := n.IsOrdered()
		num := n.Start
		first := true
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if !first {
				b.WriteString("\n")
			}
			if ordered {
				marker = itoa(num) + ". "
				num++
			}
			var item2 strings.Builder
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if item2.Len() > 0 {
					item2.WriteString("\n")
				}
				renderBlock(&item2, c, src, "")
			}
			b.WriteString(prefix)
			b.WriteString(marker)
			b.WriteString(item2.String())
			first = false
		}

	case *ast.ThematicBreak:
		b.WriteString(prefix)
		b.WriteString("---")

	default:
		// Unknown blocks fall back to their raw source lines.
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			if i > 0 {
				b.WriteString("\n")
			}
			seg := lines.At(i)
			b.WriteString(prefix)
			b.WriteString(strings.TrimRight(string(seg.Value(src)), "\n"))
		}
	}
}

// writeCodeLines fences a code block's raw lines with [code] tags.
func writeCodeLines(b *strings.Builder, n ast.Node, src []byte, prefix string) {
	b.WriteString(prefix)
	b.WriteString("[code]")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString("\n")
		b.WriteString(prefix)
		b.WriteString(strings.TrimRight(string(seg.Value(src)), "\n"))
	}
	b.WriteString("\n")
	b.WriteString(prefix)
	b.WriteString("[/code]")
}

// inlineText flattens a block's inline children to tagged text.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeInline(&b, c, src)
	}
	return b.String()
}

func writeInline(b *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(src))
		if n.SoftLineBreak() || n.HardLineBreak() {
			b.WriteString("\n")
		}

	case *ast.Emphasis:
		tag := "i"
		if n.Level >= 2 {
			tag = "b"
		}
		b.WriteString("[" + tag + "]")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(b, c, src)
		}
		b.WriteString("[/" + tag + "]")

	case *ast.CodeSpan:
		b.WriteString("[code]")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(b, c, src)
		}
		b.WriteString("[/code]")

	case *ast.Link:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(b, c, src)
		}
		b.WriteString(" (")
		b.Write(n.Destination)
		b.WriteString(")")

	case *ast.AutoLink:
		b.Write(n.URL(src))

	case *ast.Image:
		b.WriteString("[image: ")
		b.Write(n.Destination)
		b.WriteString("]")

	case *ast.String:
		b.Write(n.Value)

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeInline(b, c, src)
		}
	}
}

func itoa(n int) string {
	if n <= 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

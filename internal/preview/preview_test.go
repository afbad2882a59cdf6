package preview

import (
	"strings"
	"testing"
)

func TestRenderHeading(t *testing.T) {
	got := Render("# Title\n\nBody text.\n")

	if !strings.Contains(got, "# Title") {
		t.Errorf("heading marker lost:\n%s", got)
	}
	if !strings.Contains(got, "Body text.") {
		t.Errorf("paragraph lost:\n%s", got)
	}
}

func TestRenderEmphasis(t *testing.T) {
	got := Render("some **bold** and *italic* text\n")

	if !strings.Contains(got, "[b]bold[/b]") {
		t.Errorf("bold not tagged:\n%s", got)
	}
	if !strings.Contains(got, "[i]italic[/i]") {
		t.Errorf("italic not tagged:\n%s", got)
	}
}

func TestRenderCodeSpanAndFence(t *testing.T) {
	got := Render("use `x|y` here\n\n```\nfenced line\n```\n")

	if !strings.Contains(got, "[code]x|y[/code]") {
		t.Errorf("code span not tagged:\n%s", got)
	}
	if !strings.Contains(got, "[code]\nfenced line\n[/code]") {
		t.Errorf("fence not tagged:\n%s", got)
	}
}

func TestRenderList(t *testing.T) {
	got := Render("- first\n- second\n")

	if !strings.Contains(got, "- first") || !strings.Contains(got, "- second") {
		t.Errorf("list items lost:\n%s", got)
	}
}

func TestRenderBlockquote(t *testing.T) {
	got := Render("> quoted line\n")

	if !strings.Contains(got, "> quoted line") {
		t.Errorf("blockquote prefix lost:\n%s", got)
	}
}

func TestRenderPipeTablePassesThrough(t *testing.T) {
	// Without the table extension the rows surface as plain paragraph
	// text, which is what the preview pane wants.
	got := Render("| a | b |\n|---|---|\n| 1 | 2 |\n")

	if !strings.Contains(got, "| a | b |") {
		t.Errorf("table text lost:\n%s", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(""); got != "" {
		t.Errorf("expected empty preview, got %q", got)
	}
}
